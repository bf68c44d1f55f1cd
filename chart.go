package imagecharts

import (
	"log/slog"
	"maps"

	"github.com/adamwoolhether/imagecharts/client"
)

// Param is a single query parameter.
type Param struct {
	Key   Key
	Value string
}

// Chart is an immutable chart request. The zero value is not usable;
// create charts with [New].
type Chart struct {
	cfg    Config
	keys   []Key
	values map[Key]string
	http   *client.Client
	logger *slog.Logger
}

// With returns a copy of c with key set to value. Setting a key that is
// already present replaces its value and keeps its position. Neither key
// nor value is validated.
func (c *Chart) With(key Key, value string) *Chart {
	return c.WithParams(Param{Key: key, Value: value})
}

// WithParams returns a copy of c with every param applied in order.
func (c *Chart) WithParams(params ...Param) *Chart {
	next := c.clone(len(params))
	for _, p := range params {
		if _, ok := next.values[p.Key]; !ok {
			next.keys = append(next.keys, p.Key)
		}
		next.values[p.Key] = p.Value
	}

	return next
}

// Get returns the value of key, if set.
func (c *Chart) Get(key Key) (string, bool) {
	v, ok := c.values[key]
	return v, ok
}

// Has reports whether key is set.
func (c *Chart) Has(key Key) bool {
	_, ok := c.values[key]
	return ok
}

// Params returns the parameters in serialization order.
func (c *Chart) Params() []Param {
	out := make([]Param, len(c.keys))
	for i, k := range c.keys {
		out[i] = Param{Key: k, Value: c.values[k]}
	}

	return out
}

// Config returns the configuration the chart was created with.
func (c *Chart) Config() Config {
	return c.cfg
}

// String returns the chart URL.
func (c *Chart) String() string {
	return c.URL()
}

func (c *Chart) clone(extra int) *Chart {
	keys := make([]Key, len(c.keys), len(c.keys)+extra)
	copy(keys, c.keys)

	values := make(map[Key]string, len(c.values)+extra)
	maps.Copy(values, c.values)

	return &Chart{
		cfg:    c.cfg,
		keys:   keys,
		values: values,
		http:   c.http,
		logger: c.logger,
	}
}

