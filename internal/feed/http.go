package feed

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// HTTPFetcher fetches feeds over plain HTTP(S) GET.
type HTTPFetcher struct {
	Client *http.Client
}

// NewHTTPFetcher creates a fetcher with optional proxy support.
func NewHTTPFetcher(proxyURL string) *HTTPFetcher {
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	return &HTTPFetcher{
		Client: &http.Client{
			Timeout:   30 * time.Second,
			Transport: transport,
		},
	}
}

func (f *HTTPFetcher) Name() string { return "http" }

// FetchCSV downloads a published CSV resource as text.
func (f *HTTPFetcher) FetchCSV(feedURL string) (string, error) {
	body, err := f.get(feedURL)
	if err != nil {
		return "", err
	}
	return string(body), nil
}

// FetchJSON downloads a JSON resource and decodes it into v.
func (f *HTTPFetcher) FetchJSON(feedURL string, v any) error {
	body, err := f.get(feedURL)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("decode feed: %w", err)
	}
	return nil
}

func (f *HTTPFetcher) get(feedURL string) ([]byte, error) {
	req, err := http.NewRequest("GET", feedURL, nil)
	if err != nil {
		return nil, err
	}
	// Published Google Sheets reject requests without a browser-like UA.
	req.Header.Set("User-Agent", "Mozilla/5.0")

	resp, err := f.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch feed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read feed body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch feed: status %d, body: %s", resp.StatusCode, string(body))
	}
	return body, nil
}
