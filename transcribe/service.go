// Package transcribe sends uploaded audio to a Whisper-compatible
// speech-to-text API.
package transcribe

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"penbridge/apierr"
	"penbridge/metrics"
)

const DefaultModel = openai.Whisper1

type Config struct {
	APIKey  string
	BaseURL string
	Model   string
}

type Service struct {
	client  *openai.Client
	model   string
	logger  *zap.Logger
	metrics *metrics.Collector
}

func NewService(cfg Config, logger *zap.Logger, collector *metrics.Collector) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}

	s := &Service{
		model:   cfg.Model,
		logger:  logger.Named("transcribe"),
		metrics: collector,
	}

	if cfg.APIKey != "" {
		clientCfg := openai.DefaultConfig(cfg.APIKey)
		if cfg.BaseURL != "" {
			clientCfg.BaseURL = cfg.BaseURL
		}
		s.client = openai.NewClientWithConfig(clientCfg)
	}

	return s
}

// Transcribe returns the text of the audio read from r. filename is passed
// upstream so the service can infer the audio format from its extension.
func (s *Service) Transcribe(ctx context.Context, filename string, r io.Reader) (string, error) {
	if s.client == nil {
		return "", apierr.New(http.StatusInternalServerError, "Transcription service is not configured")
	}

	start := time.Now()
	resp, err := s.client.CreateTranscription(ctx, openai.AudioRequest{
		Model:    s.model,
		FilePath: filename,
		Reader:   r,
	})
	duration := time.Since(start)

	if err != nil {
		status, msg := upstreamStatus(err)
		s.metrics.RecordUpstream("transcribe", http.MethodPost, status, duration)
		s.logger.Warn("transcription failed",
			zap.String("filename", filename),
			zap.Int("status", status),
			zap.Error(err),
		)
		return "", apierr.New(status, msg)
	}

	s.metrics.RecordUpstream("transcribe", http.MethodPost, http.StatusOK, duration)
	s.logger.Debug("transcription complete",
		zap.String("filename", filename),
		zap.Int("chars", len(resp.Text)),
		zap.Duration("duration", duration),
	)

	return resp.Text, nil
}

// upstreamStatus maps go-openai errors onto the status to relay.
func upstreamStatus(err error) (int, string) {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) && apiErr.HTTPStatusCode != 0 {
		return apiErr.HTTPStatusCode, apiErr.Message
	}

	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) && reqErr.HTTPStatusCode != 0 {
		msg := http.StatusText(reqErr.HTTPStatusCode)
		if reqErr.Err != nil {
			msg = reqErr.Err.Error()
		}
		return reqErr.HTTPStatusCode, msg
	}

	return http.StatusInternalServerError, err.Error()
}
