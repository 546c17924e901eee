package remote

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"io"
	"net/http"
	"strings"
	"time"

	imgutil "github.com/ironsheep/docscan/internal/imaging"
	"github.com/ironsheep/docscan/internal/ocr"
	jsoniter "github.com/json-iterator/go"
	"github.com/sirupsen/logrus"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// ErrEmptyTranscript is returned when the recognition service answers with
// no usable text.
var ErrEmptyTranscript = errors.New("recognition service returned no text")

// APIError is a non-2xx response from the document service.
type APIError struct {
	StatusCode int
	Detail     string
}

func (e *APIError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("document service: %d %s", e.StatusCode, http.StatusText(e.StatusCode))
	}
	return fmt.Sprintf("document service: %d %s", e.StatusCode, e.Detail)
}

// Config addresses the document service.
type Config struct {
	BaseURL     string `toml:"base_url" validate:"required,url"`
	PreviewPath string `toml:"preview_path" validate:"required"`
	CreatePath  string `toml:"create_path" validate:"required"`
	UserID      int64  `toml:"user_id" validate:"gt=0"`
	Model       string `toml:"model" validate:"required"`
	Provider    string `toml:"provider"`
	TimeoutMS   int    `toml:"timeout_ms" validate:"gt=0"`
}

// DefaultConfig returns the service defaults for a local deployment.
func DefaultConfig() Config {
	return Config{
		BaseURL:     "http://localhost:8000",
		PreviewPath: "/ocr/ingest-preview",
		CreatePath:  "/ocr/ingest-create",
		UserID:      1,
		Model:       "gpt-4o-mini",
		Provider:    "clova",
		TimeoutMS:   15000,
	}
}

// Document is the document-creation acknowledgment.
type Document struct {
	ID               int64  `json:"document_id"`
	Title            string `json:"document_title"`
	ClassificationID int64  `json:"document_classification_id"`
	Text             string `json:"ocr_text"`
}

type previewRequest struct {
	UserID   int64  `json:"user_id"`
	Image    string `json:"image"`
	Model    string `json:"model"`
	Provider string `json:"provider,omitempty"`
}

type previewResponse struct {
	Text string `json:"ocr_text"`
}

type createRequest struct {
	UserID int64  `json:"user_id"`
	Text   string `json:"ocr_text"`
}

// Client calls the recognition and document-creation endpoints. It
// implements ocr.Recognizer.
type Client struct {
	cfg  Config
	http *http.Client
	log  *logrus.Entry
}

var _ ocr.Recognizer = (*Client)(nil)

// NewClient creates a client with the configured request timeout.
func NewClient(cfg Config, log *logrus.Entry) *Client {
	return &Client{
		cfg:  cfg,
		http: &http.Client{Timeout: time.Duration(cfg.TimeoutMS) * time.Millisecond},
		log:  log,
	}
}

// Recognize uploads img as a PNG data URL and returns the recognized text
// with context trailer lines removed.
func (c *Client) Recognize(ctx context.Context, img image.Image) (string, error) {
	dataURL, err := imgutil.DataURL(img)
	if err != nil {
		return "", err
	}

	var resp previewResponse
	req := previewRequest{
		UserID:   c.cfg.UserID,
		Image:    dataURL,
		Model:    c.cfg.Model,
		Provider: c.cfg.Provider,
	}
	if err := c.post(ctx, c.cfg.PreviewPath, req, &resp); err != nil {
		return "", fmt.Errorf("recognition request failed: %w", err)
	}

	text := ocr.CleanTranscript(resp.Text)
	if text == "" {
		return "", ErrEmptyTranscript
	}
	return text, nil
}

// CreateDocument stores text as a new document.
func (c *Client) CreateDocument(ctx context.Context, text string) (*Document, error) {
	var doc Document
	req := createRequest{UserID: c.cfg.UserID, Text: text}
	if err := c.post(ctx, c.cfg.CreatePath, req, &doc); err != nil {
		return nil, fmt.Errorf("document creation failed: %w", err)
	}
	doc.Text = strings.TrimSpace(doc.Text)
	return &doc, nil
}

func (c *Client) post(ctx context.Context, path string, body, out interface{}) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("encode request: %w", err)
	}

	url := strings.TrimRight(c.cfg.BaseURL, "/") + path
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	c.log.WithFields(logrus.Fields{
		"path":    path,
		"status":  resp.StatusCode,
		"elapsed": time.Since(start).Round(time.Millisecond),
	}).Debug("document service call")

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &APIError{StatusCode: resp.StatusCode, Detail: detail(data)}
	}

	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// detail extracts the "detail" field of an error body. Non-string details
// are returned as raw JSON.
func detail(body []byte) string {
	var e struct {
		Detail jsoniter.RawMessage `json:"detail"`
	}
	if err := json.Unmarshal(body, &e); err != nil || len(e.Detail) == 0 {
		return strings.TrimSpace(string(body))
	}
	var s string
	if err := json.Unmarshal(e.Detail, &s); err == nil {
		return s
	}
	return string(e.Detail)
}
