package pexels

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/orson-vision/orson-assets/internal/core/domain"
	"github.com/orson-vision/orson-assets/internal/core/ports/driven"
	"github.com/orson-vision/orson-assets/internal/logger"
)

const (
	// ProviderName identifies this fetcher in metadata and sidecars.
	ProviderName = "pexels"

	// DefaultBaseURL is the public API host.
	DefaultBaseURL = "https://api.pexels.com"

	// DefaultSearchTimeout bounds a single search request.
	DefaultSearchTimeout = 30 * time.Second

	// DefaultDownloadTimeout bounds a single binary download.
	DefaultDownloadTimeout = 2 * time.Minute

	// DefaultPerPage is the page size requested from the search endpoints.
	DefaultPerPage = 5

	// maxErrorBody caps how much of an error response is kept in APIError.
	maxErrorBody = 512
)

// Config holds the fetcher settings.
type Config struct {
	BaseURL           string
	APIKey            string
	PerPage           int
	Orientation       string
	SearchTimeout     time.Duration
	DownloadTimeout   time.Duration
	RequestsPerSecond float64
	Burst             int
}

func (c *Config) applyDefaults() {
	if c.BaseURL == "" {
		c.BaseURL = DefaultBaseURL
	}
	c.BaseURL = strings.TrimRight(c.BaseURL, "/")
	if c.PerPage <= 0 {
		c.PerPage = DefaultPerPage
	}
	if c.SearchTimeout <= 0 {
		c.SearchTimeout = DefaultSearchTimeout
	}
	if c.DownloadTimeout <= 0 {
		c.DownloadTimeout = DefaultDownloadTimeout
	}
}

// Ensure Client implements the interface.
var _ driven.RemoteFetcher = (*Client)(nil)

// Client searches the API and downloads results through a FileSystem.
type Client struct {
	cfg         Config
	http        *http.Client
	fs          driven.FileSystem
	rateLimiter *RateLimiter
	metrics     driven.MetricsRecorder
}

// NewClient creates a fetcher. It returns domain.ErrRemoteDisabled when no
// API key is configured. metrics may be nil.
func NewClient(cfg Config, fs driven.FileSystem, metrics driven.MetricsRecorder) (*Client, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, domain.ErrRemoteDisabled
	}
	cfg.applyDefaults()
	return &Client{
		cfg:         cfg,
		http:        &http.Client{},
		fs:          fs,
		rateLimiter: NewRateLimiter(cfg.RequestsPerSecond, cfg.Burst),
		metrics:     metrics,
	}, nil
}

// Name identifies the provider.
func (c *Client) Name() string {
	return ProviderName
}

// RateLimiter returns the limiter shared by all searches of this client.
func (c *Client) RateLimiter() *RateLimiter {
	return c.rateLimiter
}

// Fetch searches for req.Query, downloads the first result to req.TargetPath
// and writes the attribution sidecar.
func (c *Client) Fetch(ctx context.Context, req driven.FetchRequest) domain.FetchResult {
	log := logger.L().With().Str("slot", req.SlotID).Str("query", req.Query).Logger()

	cand, err := c.search(ctx, req)
	if err != nil {
		return c.failure(req, err)
	}

	n, err := c.download(ctx, req, cand)
	if err != nil {
		return c.failure(req, err)
	}
	log.Debug().Str("path", req.TargetPath).Int64("bytes", n).Msg("downloaded")

	if err := c.writeSidecar(req, cand); err != nil {
		log.Warn().Err(err).Msg("attribution sidecar not written")
	}

	return domain.FetchResult{
		Status:    domain.FetchFound,
		SourceURL: cand.DownloadURL,
		Attribution: &domain.Attribution{
			Author:     cand.Photographer,
			ProfileURL: cand.PhotographerURL,
		},
		Metadata: map[string]any{
			"provider":        ProviderName,
			"id":              cand.ID,
			"url":             cand.PageURL,
			"photographer":    cand.Photographer,
			"photographerUrl": cand.PhotographerURL,
			"width":           cand.Width,
			"height":          cand.Height,
			"quality":         cand.Quality,
			"query":           req.Query,
			"bytes":           n,
		},
	}
}

func (c *Client) failure(req driven.FetchRequest, err error) domain.FetchResult {
	if errors.Is(err, ErrNoResults) || errors.Is(err, ErrNoDownloadLink) {
		logger.L().Debug().Str("slot", req.SlotID).Str("query", req.Query).Msg("no remote match")
		return domain.FetchResult{Status: domain.FetchNotFound, Err: err}
	}
	if IsUnauthorized(err) {
		logger.Warn("Remote API rejected the key: %v", err)
	}
	if !errors.Is(err, domain.ErrNetwork) {
		err = fmt.Errorf("%w: %w", domain.ErrNetwork, err)
	}
	logger.L().Debug().Str("slot", req.SlotID).Err(err).Msg("remote fetch failed")
	return domain.FetchResult{Status: domain.FetchNetworkError, Err: err}
}

func (c *Client) searchURL(kind domain.Kind, query string) string {
	endpoint := c.cfg.BaseURL + "/v1/search"
	if kind == domain.KindVideo {
		endpoint = c.cfg.BaseURL + "/videos/search"
	}
	q := url.Values{}
	q.Set("query", query)
	q.Set("per_page", strconv.Itoa(c.cfg.PerPage))
	if c.cfg.Orientation != "" {
		q.Set("orientation", c.cfg.Orientation)
	}
	return endpoint + "?" + q.Encode()
}

func (c *Client) search(ctx context.Context, req driven.FetchRequest) (*candidate, error) {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		c.record("search", "rate_limited", 0)
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, c.cfg.SearchTimeout)
	defer cancel()

	u := c.searchURL(req.Kind, req.Query)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: build search request: %v", domain.ErrNetwork, err)
	}
	httpReq.Header.Set("Authorization", c.cfg.APIKey)
	httpReq.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.http.Do(httpReq)
	if err != nil {
		c.record("search", "error", time.Since(start))
		return nil, fmt.Errorf("%w: search %q: %w", domain.ErrNetwork, req.Query, err)
	}
	defer resp.Body.Close()

	if err := c.rateLimiter.CheckRateLimit(resp); err != nil {
		c.record("search", "rate_limited", time.Since(start))
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.record("search", "error", time.Since(start))
		return nil, newAPIError(resp, u)
	}

	var body searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		c.record("search", "error", time.Since(start))
		return nil, fmt.Errorf("%w: decode search response: %w", domain.ErrNetwork, err)
	}

	cand, err := firstCandidate(req.Kind, &body)
	if err != nil {
		c.record("search", "not_found", time.Since(start))
		return nil, err
	}
	c.record("search", "ok", time.Since(start))
	return cand, nil
}

// firstCandidate applies the first-result policy.
func firstCandidate(kind domain.Kind, body *searchResponse) (*candidate, error) {
	if kind == domain.KindVideo {
		if len(body.Videos) == 0 {
			return nil, ErrNoResults
		}
		v := body.Videos[0]
		f, ok := bestVideoFile(v)
		if !ok {
			return nil, ErrNoDownloadLink
		}
		return &candidate{
			ID:              v.ID,
			PageURL:         v.URL,
			DownloadURL:     f.Link,
			Quality:         f.Quality,
			Photographer:    v.User.Name,
			PhotographerURL: v.User.URL,
			Width:           f.Width,
			Height:          f.Height,
		}, nil
	}

	if len(body.Photos) == 0 {
		return nil, ErrNoResults
	}
	p := body.Photos[0]
	link, tier := bestPhotoLink(p)
	if link == "" {
		return nil, ErrNoDownloadLink
	}
	return &candidate{
		ID:              p.ID,
		PageURL:         p.URL,
		DownloadURL:     link,
		Quality:         tier,
		Photographer:    p.Photographer,
		PhotographerURL: p.PhotographerURL,
		Width:           p.Width,
		Height:          p.Height,
	}, nil
}

func (c *Client) download(ctx context.Context, req driven.FetchRequest, cand *candidate) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, c.cfg.DownloadTimeout)
	defer cancel()

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, cand.DownloadURL, nil)
	if err != nil {
		return 0, fmt.Errorf("%w: build download request: %v", domain.ErrNetwork, err)
	}

	start := time.Now()
	resp, err := c.http.Do(httpReq)
	if err != nil {
		c.record("download", "error", time.Since(start))
		return 0, fmt.Errorf("%w: download %s: %w", domain.ErrNetwork, cand.DownloadURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.record("download", "error", time.Since(start))
		return 0, newAPIError(resp, cand.DownloadURL)
	}

	var n int64
	err = c.fs.WriteAtomic(req.TargetPath, func(w io.Writer) error {
		var cerr error
		n, cerr = io.Copy(w, resp.Body)
		if cerr != nil {
			return fmt.Errorf("%w: read body: %w", domain.ErrNetwork, cerr)
		}
		if resp.ContentLength >= 0 && n != resp.ContentLength {
			return fmt.Errorf("%w: %w: got %d of %d bytes", domain.ErrNetwork, ErrTruncated, n, resp.ContentLength)
		}
		if n == 0 {
			return fmt.Errorf("%w: %w", domain.ErrNetwork, ErrEmptyBody)
		}
		return nil
	})
	if err != nil {
		c.record("download", "error", time.Since(start))
		if !errors.Is(err, domain.ErrNetwork) {
			err = fmt.Errorf("%w: %w", domain.ErrWrite, err)
		}
		return 0, err
	}
	c.record("download", "ok", time.Since(start))
	return n, nil
}

func (c *Client) writeSidecar(req driven.FetchRequest, cand *candidate) error {
	data, err := json.MarshalIndent(sidecar{
		Provider:        ProviderName,
		ID:              cand.ID,
		PageURL:         cand.PageURL,
		Photographer:    cand.Photographer,
		PhotographerURL: cand.PhotographerURL,
		Width:           cand.Width,
		Height:          cand.Height,
		Query:           req.Query,
		SourceURL:       cand.DownloadURL,
		Quality:         cand.Quality,
	}, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal sidecar: %w", err)
	}
	data = append(data, '\n')
	return c.fs.WriteAtomic(domain.SidecarPath(req.TargetPath), func(w io.Writer) error {
		_, err := w.Write(data)
		return err
	})
}

func (c *Client) record(operation, outcome string, d time.Duration) {
	if c.metrics != nil {
		c.metrics.RecordRemote(operation, outcome, d)
	}
}

func newAPIError(resp *http.Response, u string) *APIError {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	msg := strings.TrimSpace(string(body))
	if msg == "" {
		msg = http.StatusText(resp.StatusCode)
	}
	return &APIError{StatusCode: resp.StatusCode, Message: msg, URL: redact(u)}
}

// redact drops the query string.
func redact(u string) string {
	if i := strings.IndexByte(u, '?'); i >= 0 {
		return u[:i]
	}
	return u
}
