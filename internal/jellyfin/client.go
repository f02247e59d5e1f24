// Package jellyfin talks to the upstream streaming server the proxy
// fronts.
package jellyfin

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/Nomadcxx/jellycache/internal/quality"
	"github.com/goccy/go-json"
)

type Config struct {
	URL        string
	Timeout    time.Duration
	HTTPClient *http.Client
}

// PublicSystemInfo from GET /System/Info/Public.
type PublicSystemInfo struct {
	ServerName   string `json:"ServerName"`
	Version      string `json:"Version"`
	ID           string `json:"Id"`
	LocalAddress string `json:"LocalAddress"`
}

type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 10 * time.Second
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{
			Timeout: timeout,
		}
	} else if httpClient.Timeout == 0 {
		httpClient.Timeout = timeout
	}

	return &Client{
		baseURL:    strings.TrimRight(cfg.URL, "/"),
		httpClient: httpClient,
	}
}

// BaseURL returns the upstream root without a trailing slash.
func (c *Client) BaseURL() string {
	return c.baseURL
}

func (c *Client) get(ctx context.Context, endpoint string, result interface{}) error {
	base, err := url.Parse(c.baseURL)
	if err != nil {
		return fmt.Errorf("invalid base URL: %w", err)
	}

	rel, err := url.Parse(endpoint)
	if err != nil {
		return fmt.Errorf("invalid endpoint: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, base.ResolveReference(rel).String(), nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		bodyBytes, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("API error (status %d): %s", resp.StatusCode, string(bodyBytes))
	}

	if result != nil {
		if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
			return fmt.Errorf("decoding response: %w", err)
		}
	}

	return nil
}

// GetPublicInfo fetches the unauthenticated server info.
func (c *Client) GetPublicInfo(ctx context.Context) (*PublicSystemInfo, error) {
	var info PublicSystemInfo
	if err := c.get(ctx, "/System/Info/Public", &info); err != nil {
		return nil, err
	}
	return &info, nil
}

func (c *Client) Ping(ctx context.Context) error {
	if _, err := c.GetPublicInfo(ctx); err != nil {
		return fmt.Errorf("ping failed: %w", err)
	}
	return nil
}

// MasterPlaylistURL returns the upstream HLS master playlist URL for an
// item, carrying every attribute of d as a query parameter.
func (c *Client) MasterPlaylistURL(itemID string, d quality.Descriptor) string {
	u := c.baseURL + "/Videos/" + url.PathEscape(itemID) + "/master.m3u8"
	if q := d.Query().Encode(); q != "" {
		u += "?" + q
	}
	return u
}
