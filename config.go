package imagecharts

import "time"

// Defaults used by [New] when no option overrides them.
const (
	DefaultProtocol = "https"
	DefaultHost     = "image-charts.com"
	DefaultPort     = 443
	DefaultPath     = "/chart"
	DefaultTimeout  = 5 * time.Second
)

// Config locates the chart service and holds the optional signing secret.
// A Config is fixed once [New] returns and is shared by value with every
// chart derived from it.
type Config struct {
	Protocol string        `json:"protocol" validate:"oneof=http https"`
	Host     string        `json:"host" validate:"required"`
	Port     int           `json:"port" validate:"min=1,max=65535"`
	Path     string        `json:"path" validate:"required,startswith=/"`
	Timeout  time.Duration `json:"timeout" validate:"min=0"`
	Secret   string        `json:"-"`
}

// DefaultConfig returns the public image-charts.com endpoint with a five
// second timeout and no secret.
func DefaultConfig() Config {
	return Config{
		Protocol: DefaultProtocol,
		Host:     DefaultHost,
		Port:     DefaultPort,
		Path:     DefaultPath,
		Timeout:  DefaultTimeout,
	}
}

