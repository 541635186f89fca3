// Package nyt is a client for the New York Times Books API lists endpoints.
package nyt

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/mrlokans/bestsellers/internal/config"
)

// ErrUnexpectedResponse means the API answered 200 with a body that lacks
// the expected fields.
var ErrUnexpectedResponse = errors.New("unexpected NYT response")

// List is one best-seller list of the weekly overview.
type List struct {
	ListID      int        `json:"list_id"`
	ListName    string     `json:"list_name"`
	DisplayName string     `json:"display_name"`
	Updated     string     `json:"updated"`
	Books       []ListBook `json:"books"`
}

// ListBook is a ranked entry of a List.
type ListBook struct {
	Rank             int    `json:"rank"`
	WeeksOnList      int    `json:"weeks_on_list"`
	Title            string `json:"title"`
	Author           string `json:"author"`
	Description      string `json:"description"`
	Publisher        string `json:"publisher"`
	PrimaryISBN10    string `json:"primary_isbn10"`
	PrimaryISBN13    string `json:"primary_isbn13"`
	BookImage        string `json:"book_image"`
	AmazonProductURL string `json:"amazon_product_url"`
}

// HistoryBook is a best-sellers history record for an ISBN.
type HistoryBook struct {
	Title       string `json:"title"`
	Author      string `json:"author"`
	Description string `json:"description"`
	Publisher   string `json:"publisher"`
}

type overviewResponse struct {
	Status  string `json:"status"`
	Results *struct {
		PublishedDate string `json:"published_date"`
		Lists         []List `json:"lists"`
	} `json:"results"`
}

type historyResponse struct {
	Status     string        `json:"status"`
	NumResults int           `json:"num_results"`
	Results    []HistoryBook `json:"results"`
}

type faultResponse struct {
	Fault struct {
		FaultString string `json:"faultstring"`
	} `json:"fault"`
}

// Client calls the NYT Books API.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
}

// NewClient creates a client for the configured base URL and API key.
func NewClient(cfg config.NYT) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = config.DefaultNYTBaseURL
	}
	if !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}

	if cfg.APIKey == "" {
		log.Warn("NYT_API_KEY is not set, best-seller requests will be rejected")
	}

	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    baseURL,
		apiKey:     cfg.APIKey,
	}
}

// FullOverview returns every best-seller list published for the week that
// contains publishedDate (YYYY-MM-DD).
func (c *Client) FullOverview(ctx context.Context, publishedDate string) ([]List, error) {
	var data overviewResponse
	params := url.Values{"published_date": {publishedDate}}
	if err := c.get(ctx, "full-overview.json", params, &data); err != nil {
		return nil, err
	}
	if data.Results == nil || data.Results.Lists == nil {
		return nil, fmt.Errorf("%w: overview for %s has no lists", ErrUnexpectedResponse, publishedDate)
	}
	return data.Results.Lists, nil
}

// History returns the best-sellers history records for an ISBN. An ISBN the
// API knows nothing about yields an empty slice, not an error.
func (c *Client) History(ctx context.Context, isbn string) ([]HistoryBook, error) {
	var data historyResponse
	params := url.Values{"isbn": {isbn}}
	if err := c.get(ctx, "best-sellers/history.json", params, &data); err != nil {
		return nil, err
	}
	if data.Results == nil {
		return nil, fmt.Errorf("%w: history for %s has no results", ErrUnexpectedResponse, isbn)
	}
	return data.Results, nil
}

func (c *Client) get(ctx context.Context, path string, params url.Values, out any) error {
	params.Set("api-key", c.apiKey)
	endpoint := c.baseURL + path + "?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("fetch %s: %w", path, err)
	}
	defer resp.Body.Close()

	log.Debug("nyt request", "path", path, "status", resp.StatusCode, "duration", time.Since(start))

	if resp.StatusCode != http.StatusOK {
		return statusError(path, resp)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}

func statusError(path string, resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	var fault faultResponse
	if json.Unmarshal(body, &fault) == nil && fault.Fault.FaultString != "" {
		return fmt.Errorf("fetch %s: unexpected status %d: %s", path, resp.StatusCode, fault.Fault.FaultString)
	}
	return fmt.Errorf("fetch %s: unexpected status %d", path, resp.StatusCode)
}
