package upstream

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/textproto"
)

// BodyFunc builds a fresh request body and reports its content type.
// It is called once per attempt, so a body consumed by a redirected request
// can be rebuilt for the follow-up.
type BodyFunc func() (io.Reader, string, error)

// JSONBody encodes v as the request body.
func JSONBody(v any) BodyFunc {
	return func() (io.Reader, string, error) {
		data, err := json.Marshal(v)
		if err != nil {
			return nil, "", fmt.Errorf("failed to encode request body: %w", err)
		}
		return bytes.NewReader(data), "application/json", nil
	}
}

// MultipartFile sends data as a single file part named field.
// The part's Content-Type is set explicitly rather than sniffed.
func MultipartFile(field, filename, contentType string, data []byte) BodyFunc {
	return func() (io.Reader, string, error) {
		var buf bytes.Buffer
		w := multipart.NewWriter(&buf)

		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, field, filename))
		h.Set("Content-Type", contentType)

		part, err := w.CreatePart(h)
		if err != nil {
			return nil, "", fmt.Errorf("failed to create multipart part: %w", err)
		}
		if _, err := part.Write(data); err != nil {
			return nil, "", fmt.Errorf("failed to write multipart part: %w", err)
		}
		if err := w.Close(); err != nil {
			return nil, "", fmt.Errorf("failed to close multipart writer: %w", err)
		}

		return &buf, w.FormDataContentType(), nil
	}
}
