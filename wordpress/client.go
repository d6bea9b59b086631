// Package wordpress talks to the WordPress REST API on behalf of a caller
// that supplies the site URL and an application password with every request.
package wordpress

import (
	"net/http"

	"go.uber.org/zap"

	"penbridge/models"
	"penbridge/upstream"
)

const apiPrefix = "/wp-json/wp/v2"

// Client runs the category, media and post operations. It holds no
// per-site state; credentials arrive with each call.
type Client struct {
	api    *upstream.Client
	images *http.Client
	logger *zap.Logger
}

// NewClient wires the redirect-aware upstream client used for REST calls and
// the plain client used to download source images. images may be nil.
func NewClient(api *upstream.Client, images *http.Client, logger *zap.Logger) *Client {
	if images == nil {
		images = &http.Client{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		api:    api,
		images: images,
		logger: logger.Named("wordpress"),
	}
}

func endpoint(creds models.SiteCredentials, path string) string {
	return creds.BaseURL() + apiPrefix + path
}

func authHeader(creds models.SiteCredentials) http.Header {
	h := make(http.Header)
	h.Set("Authorization", BasicAuth(creds.Username, creds.AppPassword))
	return h
}
