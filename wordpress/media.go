package wordpress

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"penbridge/apierr"
	"penbridge/models"
	"penbridge/upstream"
)

const (
	fallbackImageName = "featured-image"
	maxImageNameLen   = 50
	imageNameSuffix   = "-featured"
	imageContentType  = "image/jpeg"
)

// UploadMedia downloads imageURL and uploads it to the site's media library.
// When title is set, alt text and title are applied afterwards; failure of
// that step is logged and otherwise ignored.
func (c *Client) UploadMedia(ctx context.Context, creds models.SiteCredentials, imageURL, title string) (*models.MediaResponse, error) {
	if !strings.HasPrefix(imageURL, "http://") && !strings.HasPrefix(imageURL, "https://") {
		return nil, apierr.BadRequest("Invalid image URL: %s", imageURL)
	}

	data, err := c.fetchImage(ctx, imageURL)
	if err != nil {
		return nil, apierr.BadRequest("Failed to fetch image from URL: %v", err)
	}

	filename := imageFilename(title)
	c.logger.Info("uploading media",
		zap.String("site", creds.BaseURL()),
		zap.String("filename", filename),
		zap.Int("bytes", len(data)),
	)

	res := c.api.Send(ctx, upstream.Request{
		Method:         http.MethodPost,
		URL:            endpoint(creds, "/media"),
		Header:         authHeader(creds),
		Body:           upstream.MultipartFile("file", filename, imageContentType, data),
		FollowRedirect: true,
	})
	if !res.OK {
		return nil, res.Err()
	}

	var media models.MediaItem
	if err := res.Decode(&media); err != nil {
		return nil, err
	}

	if title != "" {
		c.updateMediaDetails(ctx, creds, media.ID, title)
	}

	return &models.MediaResponse{ID: media.ID, URL: media.SourceURL}, nil
}

// fetchImage follows ordinary redirects; the source image is public and
// carries no credentials.
func (c *Client) fetchImage(ctx context.Context, imageURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, imageURL, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.images.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("status %d", resp.StatusCode)
	}

	return io.ReadAll(resp.Body)
}

func (c *Client) updateMediaDetails(ctx context.Context, creds models.SiteCredentials, id int, title string) {
	res := c.api.Send(ctx, upstream.Request{
		Method: http.MethodPost,
		URL:    endpoint(creds, "/media/"+strconv.Itoa(id)),
		Header: authHeader(creds),
		Body: upstream.JSONBody(map[string]string{
			"alt_text": title,
			"title":    title,
		}),
		FollowRedirect: true,
	})
	if !res.OK {
		c.logger.Warn("media details update failed",
			zap.Int("media_id", id),
			zap.Int("status", res.Status),
			zap.String("message", res.Message),
		)
	}
}

// imageFilename keeps only ASCII letters and digits from title, caps it at
// 50 characters and adds the fixed suffix and .jpg extension.
func imageFilename(title string) string {
	if title == "" {
		title = fallbackImageName
	}

	var b strings.Builder
	for _, r := range title {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}

	name := b.String()
	if len(name) > maxImageNameLen {
		name = name[:maxImageNameLen]
	}
	return name + imageNameSuffix + ".jpg"
}
