package pexels

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orson-vision/orson-assets/internal/adapters/driven/fsys"
	"github.com/orson-vision/orson-assets/internal/core/domain"
	"github.com/orson-vision/orson-assets/internal/core/ports/driven"
)

// fakeAPI serves search and binary endpoints.
type fakeAPI struct {
	t        *testing.T
	server   *httptest.Server
	searches atomic.Int32
	lastAuth string
	lastURL  string
	mu       sync.Mutex

	photos     []photo
	videos     []video
	searchCode int
	headers    map[string]string
	binary     []byte
	binaryCode int
	truncate   bool
}

func newFakeAPI(t *testing.T) *fakeAPI {
	f := &fakeAPI{t: t, binary: []byte("binary-content"), searchCode: http.StatusOK, binaryCode: http.StatusOK}
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/search", f.handleSearch)
	mux.HandleFunc("/videos/search", f.handleSearch)
	mux.HandleFunc("/files/", f.handleBinary)
	f.server = httptest.NewServer(mux)
	t.Cleanup(f.server.Close)
	return f
}

func (f *fakeAPI) handleSearch(w http.ResponseWriter, r *http.Request) {
	f.searches.Add(1)
	f.mu.Lock()
	f.lastAuth = r.Header.Get("Authorization")
	f.lastURL = r.URL.String()
	f.mu.Unlock()
	for k, v := range f.headers {
		w.Header().Set(k, v)
	}
	if f.searchCode != http.StatusOK {
		w.WriteHeader(f.searchCode)
		_, _ = io.WriteString(w, `{"error":"nope"}`)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(searchResponse{Page: 1, Photos: f.photos, Videos: f.videos})
}

func (f *fakeAPI) handleBinary(w http.ResponseWriter, r *http.Request) {
	if f.binaryCode != http.StatusOK {
		w.WriteHeader(f.binaryCode)
		return
	}
	if f.truncate {
		w.Header().Set("Content-Length", strconv.Itoa(len(f.binary)+100))
	}
	_, _ = w.Write(f.binary)
}

func (f *fakeAPI) link(name string) string {
	return f.server.URL + "/files/" + name
}

func (f *fakeAPI) client(t *testing.T, fs driven.FileSystem, metrics driven.MetricsRecorder) *Client {
	c, err := NewClient(Config{
		BaseURL:           f.server.URL,
		APIKey:            "test-key",
		Orientation:       "landscape",
		SearchTimeout:     2 * time.Second,
		DownloadTimeout:   2 * time.Second,
		RequestsPerSecond: 0,
	}, fs, metrics)
	require.NoError(t, err)
	return c
}

func readFile(t *testing.T, fs *fsys.FS, p string) []byte {
	t.Helper()
	rc, err := fs.Open(p)
	require.NoError(t, err)
	defer rc.Close()
	b, err := io.ReadAll(rc)
	require.NoError(t, err)
	return b
}

type recordedRemote struct{ op, outcome string }

type mockMetrics struct {
	mu     sync.Mutex
	remote []recordedRemote
}

func (m *mockMetrics) RecordSlot(domain.Origin) {}
func (m *mockMetrics) RecordFailure()           {}
func (m *mockMetrics) RecordRun(time.Duration)  {}

func (m *mockMetrics) RecordRemote(op, outcome string, _ time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.remote = append(m.remote, recordedRemote{op, outcome})
}

func TestNewClient_NoKey(t *testing.T) {
	_, err := NewClient(Config{}, fsys.NewMemory(), nil)
	assert.ErrorIs(t, err, domain.ErrRemoteDisabled)
}

func TestFetch_PhotoFound(t *testing.T) {
	api := newFakeAPI(t)
	api.photos = []photo{
		{
			ID: 42, URL: "https://www.pexels.com/photo/42", Width: 4000, Height: 3000,
			Photographer: "Ada", PhotographerURL: "https://www.pexels.com/@ada",
			Src: photoSrc{Large2x: api.link("42-large2x.jpg"), Original: api.link("42.jpg")},
		},
		{ID: 43, Src: photoSrc{Large2x: api.link("43.jpg")}},
	}
	fs := fsys.NewMemory()
	metrics := &mockMetrics{}
	c := api.client(t, fs, metrics)

	res := c.Fetch(context.Background(), driven.FetchRequest{
		SlotID: "team.photo.1", Query: "business portrait", Kind: domain.KindImage, TargetPath: "images/team/1.jpg",
	})

	require.Equal(t, domain.FetchFound, res.Status, "err: %v", res.Err)
	assert.Equal(t, api.link("42-large2x.jpg"), res.SourceURL)
	require.NotNil(t, res.Attribution)
	assert.Equal(t, "Ada", res.Attribution.Author)
	assert.Equal(t, "https://www.pexels.com/@ada", res.Attribution.ProfileURL)
	assert.Equal(t, int64(len(api.binary)), res.Metadata["bytes"])
	assert.Equal(t, "large2x", res.Metadata["quality"])
	assert.Equal(t, api.binary, readFile(t, fs, "images/team/1.jpg"))

	var sc sidecar
	require.NoError(t, json.Unmarshal(readFile(t, fs, "images/team/1.jpg.json"), &sc))
	assert.Equal(t, ProviderName, sc.Provider)
	assert.Equal(t, int64(42), sc.ID)
	assert.Equal(t, "Ada", sc.Photographer)
	assert.Equal(t, "business portrait", sc.Query)

	assert.Equal(t, "test-key", api.lastAuth)
	assert.Contains(t, api.lastURL, "/v1/search?")
	assert.Contains(t, api.lastURL, "query=business+portrait")
	assert.Contains(t, api.lastURL, "per_page=5")
	assert.Contains(t, api.lastURL, "orientation=landscape")
	assert.Equal(t, []recordedRemote{{"search", "ok"}, {"download", "ok"}}, metrics.remote)
}

func TestFetch_VideoFound(t *testing.T) {
	api := newFakeAPI(t)
	api.videos = []video{{
		ID:   7,
		URL:  "https://www.pexels.com/video/7",
		User: videoUser{Name: "Lin", URL: "https://www.pexels.com/@lin"},
		VideoFiles: []videoFile{
			{Quality: "sd", Link: api.link("7-sd.mp4"), Width: 960, Height: 540},
			{Quality: "hd", Link: api.link("7-hd.mp4"), Width: 1920, Height: 1080},
		},
	}}
	fs := fsys.NewMemory()
	c := api.client(t, fs, nil)

	res := c.Fetch(context.Background(), driven.FetchRequest{
		SlotID: "hero.background", Query: "cinematic", Kind: domain.KindVideo, TargetPath: "videos/hero.mp4",
	})

	require.Equal(t, domain.FetchFound, res.Status, "err: %v", res.Err)
	assert.Equal(t, api.link("7-hd.mp4"), res.SourceURL)
	assert.Equal(t, "Lin", res.Attribution.Author)
	assert.Equal(t, 1920, res.Metadata["width"])
	assert.Contains(t, api.lastURL, "/videos/search?")
	ok, _, err := fs.NonEmptyFile("videos/hero.mp4.json")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestFetch_NoResults(t *testing.T) {
	api := newFakeAPI(t)
	fs := fsys.NewMemory()
	metrics := &mockMetrics{}
	c := api.client(t, fs, metrics)

	res := c.Fetch(context.Background(), driven.FetchRequest{Query: "nothing", Kind: domain.KindImage, TargetPath: "x.jpg"})

	assert.Equal(t, domain.FetchNotFound, res.Status)
	assert.ErrorIs(t, res.Err, ErrNoResults)
	ok, _, _ := fs.NonEmptyFile("x.jpg")
	assert.False(t, ok)
	assert.Equal(t, []recordedRemote{{"search", "not_found"}}, metrics.remote)
}

func TestFetch_NoDownloadLink(t *testing.T) {
	api := newFakeAPI(t)
	api.videos = []video{{ID: 1}}
	c := api.client(t, fsys.NewMemory(), nil)

	res := c.Fetch(context.Background(), driven.FetchRequest{Query: "q", Kind: domain.KindVideo, TargetPath: "x.mp4"})

	assert.Equal(t, domain.FetchNotFound, res.Status)
	assert.ErrorIs(t, res.Err, ErrNoDownloadLink)
}

func TestFetch_NetworkErrors(t *testing.T) {
	tests := []struct {
		name  string
		setup func(api *fakeAPI)
	}{
		{"search 500", func(api *fakeAPI) { api.searchCode = http.StatusInternalServerError }},
		{"search 401", func(api *fakeAPI) { api.searchCode = http.StatusUnauthorized }},
		{"download 404", func(api *fakeAPI) { api.binaryCode = http.StatusNotFound }},
		{"truncated body", func(api *fakeAPI) { api.truncate = true }},
		{"empty body", func(api *fakeAPI) { api.binary = nil }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api := newFakeAPI(t)
			api.photos = []photo{{ID: 1, Src: photoSrc{Large: api.link("1.jpg")}}}
			tt.setup(api)
			fs := fsys.NewMemory()
			c := api.client(t, fs, nil)

			res := c.Fetch(context.Background(), driven.FetchRequest{Query: "q", Kind: domain.KindImage, TargetPath: "a/b.jpg"})

			assert.Equal(t, domain.FetchNetworkError, res.Status)
			assert.ErrorIs(t, res.Err, domain.ErrNetwork)
			ok, _, err := fs.NonEmptyFile("a/b.jpg")
			require.NoError(t, err)
			assert.False(t, ok, "no partial file may remain")
			ok, _, _ = fs.NonEmptyFile("a/b.jpg.json")
			assert.False(t, ok)
		})
	}
}

func TestFetch_Unreachable(t *testing.T) {
	api := newFakeAPI(t)
	c := api.client(t, fsys.NewMemory(), nil)
	api.server.Close()

	res := c.Fetch(context.Background(), driven.FetchRequest{Query: "q", Kind: domain.KindImage, TargetPath: "x.jpg"})

	assert.Equal(t, domain.FetchNetworkError, res.Status)
	assert.ErrorIs(t, res.Err, domain.ErrNetwork)
}

func TestFetch_SearchTimeout(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	t.Cleanup(server.Close)
	t.Cleanup(func() { close(release) })

	c, err := NewClient(Config{BaseURL: server.URL, APIKey: "k", SearchTimeout: 50 * time.Millisecond}, fsys.NewMemory(), nil)
	require.NoError(t, err)

	res := c.Fetch(context.Background(), driven.FetchRequest{Query: "q", Kind: domain.KindImage, TargetPath: "x.jpg"})

	assert.Equal(t, domain.FetchNetworkError, res.Status)
	assert.ErrorIs(t, res.Err, context.DeadlineExceeded)
}

func TestFetch_RateLimited(t *testing.T) {
	api := newFakeAPI(t)
	api.searchCode = http.StatusTooManyRequests
	api.headers = map[string]string{
		HeaderRateLimit:     "200",
		HeaderRateRemaining: "0",
		HeaderRateReset:     fmt.Sprint(time.Now().Add(time.Hour).Unix()),
	}
	c := api.client(t, fsys.NewMemory(), nil)
	req := driven.FetchRequest{Query: "q", Kind: domain.KindImage, TargetPath: "x.jpg"}

	res := c.Fetch(context.Background(), req)
	assert.Equal(t, domain.FetchNetworkError, res.Status)
	assert.True(t, IsRateLimited(res.Err))
	assert.ErrorIs(t, res.Err, domain.ErrRateLimited)
	assert.ErrorIs(t, res.Err, domain.ErrNetwork)

	res = c.Fetch(context.Background(), req)
	assert.True(t, IsRateLimited(res.Err))
	assert.Equal(t, int32(1), api.searches.Load(), "exhausted quota must fail fast without a request")
}

func TestFetch_AuthorizationAndPerPage(t *testing.T) {
	api := newFakeAPI(t)
	c, err := NewClient(Config{BaseURL: api.server.URL + "/", APIKey: "secret", PerPage: 1}, fsys.NewMemory(), nil)
	require.NoError(t, err)

	c.Fetch(context.Background(), driven.FetchRequest{Query: "office", Kind: domain.KindImage, TargetPath: "x.jpg"})

	assert.Equal(t, "secret", api.lastAuth)
	assert.Contains(t, api.lastURL, "per_page=1")
	assert.NotContains(t, api.lastURL, "orientation")
}
