package httpapi

import (
	"context"
	"net/http"
	"time"
)

// callContext bounds a handler's service call by the request context and the
// configured call timeout.
func callContext(r *http.Request, timeout time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(r.Context(), timeout)
}
