package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Request and response bodies of the proxy's own endpoints.

type ClaudeRequest struct {
	Prompt       string `json:"prompt"`
	SystemPrompt string `json:"systemPrompt"`
}

type TranscribeResponse struct {
	Transcription string `json:"transcription"`
}

type CategoryRequest struct {
	SiteCredentials
	CategoryName string `json:"categoryName"`
}

type CategoryResponse struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

type MediaRequest struct {
	SiteCredentials
	ImageURL string `json:"imageUrl"`
	Title    string `json:"title,omitempty"`
}

type MediaResponse struct {
	ID  int    `json:"id"`
	URL string `json:"url"`
}

type PostRequest struct {
	SiteCredentials
	Title           string `json:"title"`
	Content         string `json:"content"`
	FeaturedImageID ID     `json:"featuredImageId,omitempty"`
	CategoryID      ID     `json:"categoryId,omitempty"`
}

type PostResponse struct {
	ID        int    `json:"id"`
	Link      string `json:"link"`
	AdminLink string `json:"adminLink"`
}

// ID is a WordPress object id as sent by browser clients: a JSON number, a
// numeric string, "" or null. The last two mean absent (0).
type ID int

func (id *ID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*id = 0
		return nil
	}

	raw := string(data)
	if len(data) > 0 && data[0] == '"' {
		if err := json.Unmarshal(data, &raw); err != nil {
			return err
		}
		raw = strings.TrimSpace(raw)
		if raw == "" {
			*id = 0
			return nil
		}
	}

	n, err := strconv.Atoi(raw)
	if err != nil {
		return fmt.Errorf("invalid id %s: must be an integer", data)
	}
	*id = ID(n)
	return nil
}

func (id ID) Int() int {
	return int(id)
}
