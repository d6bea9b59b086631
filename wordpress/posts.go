package wordpress

import (
	"context"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"penbridge/apierr"
	"penbridge/models"
	"penbridge/upstream"
)

const adminEditPath = "/wp-admin/post.php?post=%d&action=edit"

// CreatePost creates a draft. featuredMediaID and categoryID are only sent
// when positive.
func (c *Client) CreatePost(ctx context.Context, creds models.SiteCredentials, title, content string, featuredMediaID, categoryID int) (*models.PostResponse, error) {
	if title == "" || content == "" {
		return nil, apierr.BadRequest("Title and content are required")
	}

	draft := models.DraftPost{
		Title:   title,
		Content: content,
		Status:  "draft",
	}
	if featuredMediaID > 0 {
		draft.FeaturedMedia = featuredMediaID
	}
	if categoryID > 0 {
		draft.Categories = []int{categoryID}
	}

	res := c.api.Send(ctx, upstream.Request{
		Method:         http.MethodPost,
		URL:            endpoint(creds, "/posts"),
		Header:         authHeader(creds),
		Body:           upstream.JSONBody(draft),
		FollowRedirect: true,
	})
	if !res.OK {
		return nil, res.Err()
	}

	var post models.CreatedPost
	if err := res.Decode(&post); err != nil {
		return nil, err
	}

	c.logger.Info("draft post created", zap.Int("id", post.ID), zap.String("site", creds.BaseURL()))

	return &models.PostResponse{
		ID:        post.ID,
		Link:      post.Link,
		AdminLink: creds.BaseURL() + fmt.Sprintf(adminEditPath, post.ID),
	}, nil
}
