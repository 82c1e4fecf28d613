// ABOUTME: Transport is the signed-HTTP primitive the bridge forwards through.
// ABOUTME: It reports the raw status and body only; callers interpret them.

package transport

import (
	"context"
	"errors"
	"fmt"
	"net/http"
)

// ErrNoEndpoint is returned when a call is attempted without a URL.
var ErrNoEndpoint = errors.New("transport: endpoint URL is required")

// Transport sends a JSON body to url and returns the reply.
// A non-nil error means no reply was obtained (network failure, timeout).
type Transport interface {
	Post(ctx context.Context, url string, body []byte) (*Reply, error)
}

// Reply is what came back over the wire.
type Reply struct {
	StatusCode int
	Body       []byte
}

// OK reports whether the status is 2xx.
func (r *Reply) OK() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// Err returns a StatusError for a non-2xx reply, nil otherwise.
func (r *Reply) Err() error {
	if r.OK() {
		return nil
	}
	return &StatusError{StatusCode: r.StatusCode, Body: r.Body}
}

// StatusError describes a non-2xx reply.
type StatusError struct {
	StatusCode int
	Body       []byte
}

// Reason is the standard reason phrase for the status code.
func (e *StatusError) Reason() string {
	return http.StatusText(e.StatusCode)
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%d %s", e.StatusCode, e.Reason())
}
