package handlers

import (
	"context"
	"encoding/json"
	"io"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"penbridge/apierr"
	"penbridge/middleware"
	"penbridge/models"
)

// Transcriber turns uploaded audio into text.
type Transcriber interface {
	Transcribe(ctx context.Context, filename string, r io.Reader) (string, error)
}

// ChatCompleter relays a prompt to the chat service.
type ChatCompleter interface {
	Complete(ctx context.Context, prompt, systemPrompt string) (json.RawMessage, error)
}

// WordPress runs the CMS operations for a caller-supplied site.
type WordPress interface {
	ResolveCategory(ctx context.Context, creds models.SiteCredentials, name string) (*models.Category, error)
	UploadMedia(ctx context.Context, creds models.SiteCredentials, imageURL, title string) (*models.MediaResponse, error)
	CreatePost(ctx context.Context, creds models.SiteCredentials, title, content string, featuredMediaID, categoryID int) (*models.PostResponse, error)
}

// Handler serves the proxy endpoints. Every dependency is injected; nothing
// is read from the environment here.
type Handler struct {
	transcriber    Transcriber
	chat           ChatCompleter
	wordpress      WordPress
	logger         *zap.Logger
	maxUploadBytes int64
}

type Options struct {
	Transcriber    Transcriber
	Chat           ChatCompleter
	WordPress      WordPress
	Logger         *zap.Logger
	MaxUploadBytes int64
}

func New(opts Options) *Handler {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.MaxUploadBytes <= 0 {
		opts.MaxUploadBytes = 25 << 20
	}
	return &Handler{
		transcriber:    opts.Transcriber,
		chat:           opts.Chat,
		wordpress:      opts.WordPress,
		logger:         opts.Logger,
		maxUploadBytes: opts.MaxUploadBytes,
	}
}

// respondError writes {"error": msg} with the status carried by err.
func (h *Handler) respondError(c *gin.Context, op string, err error) {
	status, msg := apierr.StatusOf(err)
	c.Error(err)

	h.logger.Warn("["+op+"] request failed",
		zap.Int("status", status),
		zap.String("message", msg),
		zap.String("request_id", middleware.GetRequestID(c)),
	)

	c.JSON(status, gin.H{"error": msg})
}
