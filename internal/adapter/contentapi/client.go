package contentapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"quiz-generator/internal/domain"

	"go.uber.org/zap"
)

// Client fetches document content from the content-processor API when a
// generation request carries no content of its own.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewClient creates a content-processor client.
func NewClient(baseURL string, timeout time.Duration, logger *zap.Logger) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
	}
}

// FetchContent implements domain.ContentFetcher.
func (c *Client) FetchContent(ctx context.Context, bookID string) (string, error) {
	url := c.baseURL + bookID
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", domain.NewInternalError("failed to build content-processor request", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("Failed to fetch document from content-processor",
			zap.String("book_id", bookID),
			zap.Error(err),
		)
		return "", domain.NewValidationError(fmt.Sprintf("failed to retrieve document content: %v", err))
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.logger.Error("Content-processor returned non-OK status",
			zap.String("book_id", bookID),
			zap.Int("status", resp.StatusCode),
		)
		return "", domain.NewValidationError(fmt.Sprintf("failed to retrieve document content: status %d", resp.StatusCode))
	}

	var document struct {
		Content string `json:"content"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&document); err != nil {
		return "", domain.NewValidationError(fmt.Sprintf("error processing document content: %v", err))
	}

	if document.Content == "" {
		return "", domain.NewValidationError(fmt.Sprintf("document %s has no content", bookID))
	}

	c.logger.Info("Successfully fetched content for document", zap.String("book_id", bookID))
	return document.Content, nil
}

var _ domain.ContentFetcher = (*Client)(nil)
