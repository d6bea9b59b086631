package wordpress

import (
	"context"
	"html"
	"net/http"
	"net/url"
	"strings"

	"go.uber.org/zap"

	"penbridge/apierr"
	"penbridge/models"
	"penbridge/upstream"
)

// ResolveCategory returns the category whose name matches name
// case-insensitively, creating it when the search finds nothing.
// A failed search is treated as "not found".
func (c *Client) ResolveCategory(ctx context.Context, creds models.SiteCredentials, name string) (*models.Category, error) {
	if name == "" {
		return nil, apierr.BadRequest("Category name is required")
	}

	if existing := c.findCategory(ctx, creds, name); existing != nil {
		c.logger.Debug("category found", zap.Int("id", existing.ID), zap.String("name", existing.Name))
		return existing, nil
	}

	res := c.api.Send(ctx, upstream.Request{
		Method:         http.MethodPost,
		URL:            endpoint(creds, "/categories"),
		Header:         authHeader(creds),
		Body:           upstream.JSONBody(map[string]string{"name": name}),
		FollowRedirect: true,
	})
	if !res.OK {
		return nil, res.Err()
	}

	var created models.Category
	if err := res.Decode(&created); err != nil {
		return nil, err
	}

	c.logger.Info("category created", zap.Int("id", created.ID), zap.String("name", created.Name))
	return &created, nil
}

func (c *Client) findCategory(ctx context.Context, creds models.SiteCredentials, name string) *models.Category {
	query := url.Values{}
	query.Set("search", name)
	query.Set("per_page", "100")

	res := c.api.Send(ctx, upstream.Request{
		Method:         http.MethodGet,
		URL:            endpoint(creds, "/categories") + "?" + query.Encode(),
		Header:         authHeader(creds),
		FollowRedirect: true,
	})
	if !res.OK {
		c.logger.Warn("category search failed, creating instead",
			zap.Int("status", res.Status),
			zap.String("message", res.Message),
		)
		return nil
	}

	var categories []models.Category
	if err := res.Decode(&categories); err != nil {
		c.logger.Warn("category search returned unexpected body", zap.Error(err))
		return nil
	}

	// WordPress returns names HTML-escaped ("Food &amp; Drink").
	for i := range categories {
		if strings.EqualFold(html.UnescapeString(categories[i].Name), name) {
			return &categories[i]
		}
	}
	return nil
}
