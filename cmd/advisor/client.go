package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"
	"time"

	"github.com/coverly/advisor/internal/attachment"
	"github.com/coverly/advisor/internal/config"
)

type apiClient struct {
	baseURL    string
	httpClient *http.Client
}

var newAPIClient = func() (*apiClient, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	return &apiClient{
		baseURL: fmt.Sprintf("http://127.0.0.1:%d", cfg.Server.Port),
		// Generous budget: the server itself waits on the provider.
		httpClient: &http.Client{Timeout: 90 * time.Second},
	}, nil
}

// chatResult mirrors the /chat success payload.
type chatResult struct {
	Response        string `json:"response"`
	ProfileReceived bool   `json:"profile_received"`
	FilesReceived   bool   `json:"files_received"`
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, `\"`)

// chat posts one advisory turn as a multipart form: the message text, the
// profile snapshot as JSON, and each attachment as a file part.
func (c *apiClient) chat(ctx context.Context, message, profileJSON string, attachments []attachment.Descriptor) (chatResult, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	if err := w.WriteField("message", message); err != nil {
		return chatResult{}, fmt.Errorf("writing message field: %w", err)
	}
	if err := w.WriteField("profile", profileJSON); err != nil {
		return chatResult{}, fmt.Errorf("writing profile field: %w", err)
	}
	for _, d := range attachments {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="files"; filename="%s"`, quoteEscaper.Replace(d.Name)))
		if d.MediaType != "" {
			h.Set("Content-Type", d.MediaType)
		}
		part, err := w.CreatePart(h)
		if err != nil {
			return chatResult{}, fmt.Errorf("creating part for %s: %w", d.Name, err)
		}
		rc, err := d.Open()
		if err != nil {
			return chatResult{}, fmt.Errorf("opening %s: %w", d.Name, err)
		}
		_, copyErr := io.Copy(part, rc)
		rc.Close()
		if copyErr != nil {
			return chatResult{}, fmt.Errorf("copying %s: %w", d.Name, copyErr)
		}
	}
	if err := w.Close(); err != nil {
		return chatResult{}, fmt.Errorf("finalizing form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat", &buf)
	if err != nil {
		return chatResult{}, err
	}
	req.Header.Set("Content-Type", w.FormDataContentType())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return chatResult{}, fmt.Errorf("server not reachable — is advisor running? (%w)", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var failure struct {
			Error string `json:"error"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&failure); err == nil && failure.Error != "" {
			return chatResult{}, fmt.Errorf("%s", failure.Error)
		}
		return chatResult{}, fmt.Errorf("server returned %d", resp.StatusCode)
	}

	var result chatResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return chatResult{}, fmt.Errorf("decoding response: %w", err)
	}
	return result, nil
}
