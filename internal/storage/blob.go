package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strings"

	"go.uber.org/zap"

	"github.com/soportia/helpdesk/internal/config"
)

// MediaStore persists an ephemeral media URL and returns a durable one.
type MediaStore interface {
	Persist(ctx context.Context, srcURL, filename string) (string, error)
}

// BlobClient downloads channel-temporary media and re-uploads it to the
// blob storage service for a stable URL.
type BlobClient struct {
	endpoint string
	token    string
	http     *http.Client
	logger   *zap.Logger
}

// NewBlobClient builds the client from configuration.
func NewBlobClient(cfg config.StorageConfig, logger *zap.Logger) *BlobClient {
	return &BlobClient{
		endpoint: cfg.Endpoint,
		token:    cfg.Token,
		http:     &http.Client{Timeout: cfg.Timeout()},
		logger:   logger,
	}
}

type uploadResponse struct {
	URL string `json:"url"`
}

// Persist fetches srcURL and uploads the bytes under filename. The returned
// URL is guaranteed absolute; any other outcome is an error so callers can
// apply their fallback rules.
func (c *BlobClient) Persist(ctx context.Context, srcURL, filename string) (string, error) {
	if c.endpoint == "" || c.token == "" {
		return "", errors.New("blob storage not configured")
	}
	if !IsAbsoluteURL(srcURL) {
		return "", fmt.Errorf("source url not absolute: %s", srcURL)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, srcURL, nil)
	if err != nil {
		return "", err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return "", fmt.Errorf("download media: status %d", resp.StatusCode)
	}

	contentType := resp.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	uploadURL := strings.TrimRight(c.endpoint, "/") + "/" + url.PathEscape(filename)
	upload, err := http.NewRequestWithContext(ctx, http.MethodPut, uploadURL, resp.Body)
	if err != nil {
		return "", err
	}
	upload.Header.Set("Content-Type", contentType)
	upload.Header.Set("Authorization", "Bearer "+c.token)

	uploaded, err := c.http.Do(upload)
	if err != nil {
		return "", err
	}
	defer uploaded.Body.Close()
	if uploaded.StatusCode >= 300 {
		return "", fmt.Errorf("upload media: status %d", uploaded.StatusCode)
	}

	var parsed uploadResponse
	if err := json.NewDecoder(uploaded.Body).Decode(&parsed); err != nil {
		return "", err
	}
	if !IsAbsoluteURL(parsed.URL) {
		return "", fmt.Errorf("storage returned non-absolute url: %s", parsed.URL)
	}

	c.logger.Debug("media persisted", zap.String("url", parsed.URL))
	return parsed.URL, nil
}

// IsAbsoluteURL reports whether the URL carries an http(s) scheme. Relative
// paths must never be persisted as attachment references.
func IsAbsoluteURL(raw string) bool {
	return strings.HasPrefix(raw, "http://") || strings.HasPrefix(raw, "https://")
}

var extensionPattern = regexp.MustCompile(`\.([a-zA-Z0-9]+)(\?|$)`)

// FileExtension extracts the extension from a media URL, defaulting to jpg.
func FileExtension(raw string) string {
	match := extensionPattern.FindStringSubmatch(raw)
	if match == nil {
		return "jpg"
	}
	return strings.ToLower(match[1])
}

// FileTypeFromURL maps a URL to a coarse media type label.
func FileTypeFromURL(raw string) string {
	if raw == "" {
		return "unknown"
	}
	lower := strings.ToLower(raw)
	switch {
	case containsAny(lower, "jpg", "jpeg", "png", "gif", "webp"):
		return "image"
	case containsAny(lower, "mp4", "mov", "avi", "webm"):
		return "video"
	case strings.Contains(lower, "pdf"):
		return "pdf"
	case containsAny(lower, "mp3", "wav", "ogg", "m4a"):
		return "audio"
	case containsAny(lower, "doc", "docx", "xls", "xlsx", "ppt", "pptx"):
		return "document"
	}
	return "file"
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
