package utils

import (
	"github.com/go-resty/resty/v2"
)

// HTTPClient embeds *resty.Client so the server adapter and the
// reachability probe share one construction point. Each instance owns its
// own connection pool; callers set the base URL and timeout themselves.
type HTTPClient struct {
	*resty.Client
}

// NewHTTPClient returns an unconfigured HTTPClient.
func NewHTTPClient() *HTTPClient {
	return &HTTPClient{Client: resty.New()}
}
