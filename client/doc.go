// Package client provides the core implementation of the configurable HTTP
// client built on [net/http] that chart requests are sent through.
//
// # Building a Client
//
// Use [Build] to create a [Client] with functional options:
//
//	c, err := client.Build(
//		client.WithTimeout(10 * time.Second),
//		client.WithUserAgent("myapp/1.0"),
//	)
//
// Optional transport wrappers rate-limit ([WithThrottle]) or short-circuit
// a failing upstream ([WithCircuitBreaker]). Neither re-issues requests.
// Every request carries an [RequestIDHeader] and, with [WithTracer], runs
// inside a span.
//
// # Making Requests
//
// Construct a [URL] and [Request], then execute with [Client.Do]:
//
//	u := client.URL("https", "image-charts.com", "/chart",
//		client.WithPort(443),
//		client.WithRawQuery("cht=p&chd=t%3A1%2C2"),
//	)
//	req, err := client.Request(ctx, u, http.MethodGet)
//	var img []byte
//	err = c.Do(req, client.AnySuccess, client.WithBytes(&img))
//
// A status that doesn't match yields an [*UnexpectedStatusError] holding
// the status, response headers and a capped body.
//
// # Downloading Files
//
// Stream a response body directly to disk with optional checksum
// verification and progress reporting:
//
//	err = c.Download(req, client.AnySuccess, "/tmp/chart.png",
//		client.WithChecksum(sha256.New(), expectedHex),
//		client.WithProgress(),
//	)
//
// For lower-level control see the
// [github.com/adamwoolhether/imagecharts/client/download] package.
package client
