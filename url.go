package imagecharts

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"net/url"
	"strings"

	"github.com/adamwoolhether/imagecharts/client"
)

// Query returns the query string of c, without signature, in parameter
// order. Values are form-urlencoded; keys are written as given.
func (c *Chart) Query() string {
	var b strings.Builder
	for i, k := range c.keys {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(string(k))
		b.WriteByte('=')
		b.WriteString(url.QueryEscape(c.values[k]))
	}

	return b.String()
}

// URL returns the full chart URL. When c carries an [AccountID] and the
// config has a secret, the query is signed and the digest appended as
// [Signature]. The signature is not stored in c.
func (c *Chart) URL() string {
	return c.url().String()
}

func (c *Chart) url() *url.URL {
	return client.URL(c.cfg.Protocol, c.cfg.Host, c.cfg.Path,
		client.WithPort(c.cfg.Port),
		client.WithRawQuery(c.signedQuery()),
	)
}

func (c *Chart) signedQuery() string {
	query := c.Query()
	if !c.signed() {
		return query
	}

	return query + "&" + string(Signature) + "=" + Sign(query, c.cfg.Secret)
}

func (c *Chart) signed() bool {
	return c.cfg.Secret != "" && c.Has(AccountID)
}

// Sign returns the lower-case hex HMAC-SHA256 of query keyed by secret.
func Sign(query, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(query))

	return hex.EncodeToString(mac.Sum(nil))
}
