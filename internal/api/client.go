package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"
)

var (
	// ErrUnexpectedStatus reports a non-200 answer from the catalog endpoint.
	ErrUnexpectedStatus = errors.New("unexpected status")
	// ErrInvalidPayload reports a body that is not exactly one JSON document.
	ErrInvalidPayload = errors.New("invalid catalog payload")
)

const userAgent = "storecli/1.0 (+https://github.com/tayloree/storefront-catalog)"

// Client is an HTTP client for the storefront catalog API.
type Client struct {
	httpClient *http.Client
	catalogURL string
}

// NewClient creates a catalog client for the given endpoint.
func NewClient(catalogURL string) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 15 * time.Second},
		catalogURL: catalogURL,
	}
}

func (c *Client) getAndDecode(ctx context.Context, reqURL string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w %d from %s", ErrUnexpectedStatus, resp.StatusCode, reqURL)
	}
	return decodeStrict(resp.Body, out)
}

// FetchCatalog downloads the full catalog.
func (c *Client) FetchCatalog(ctx context.Context) (*CatalogResponse, error) {
	var resp CatalogResponse
	if err := c.getAndDecode(ctx, c.catalogURL, &resp); err != nil {
		return nil, fmt.Errorf("fetching catalog: %w", err)
	}
	return &resp, nil
}

// LoadCatalogFile reads a catalog response from a local JSON file.
func LoadCatalogFile(path string) (*CatalogResponse, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("loading catalog: %w", err)
	}
	defer f.Close()

	var resp CatalogResponse
	if err := decodeStrict(f, &resp); err != nil {
		return nil, fmt.Errorf("loading catalog %s: %w", path, err)
	}
	return &resp, nil
}

func decodeStrict(r io.Reader, out any) error {
	dec := json.NewDecoder(r)
	if err := dec.Decode(out); err != nil {
		return fmt.Errorf("decoding response: %w: %w", ErrInvalidPayload, err)
	}
	if err := dec.Decode(new(struct{})); !errors.Is(err, io.EOF) {
		return fmt.Errorf("decoding response: %w: trailing JSON content", ErrInvalidPayload)
	}
	return nil
}
