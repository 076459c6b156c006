package favicon

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const testPageWithIcon = `<html><head><link rel="icon" href="/icon.png"><title>a</title></head><body></body></html>`
const testPageWithoutIcon = `<html><head><title>a</title></head><body></body></html>`

type testSite struct {
	page        string
	contentType string
	pageStatus  int
	iconStatus  int
	probes      atomic.Int32
	pageHits    atomic.Int32
}

func (s *testSite) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.URL.Path {
	case remoteIconPath:
		s.probes.Add(1)
		w.WriteHeader(s.iconStatus)
	default:
		s.pageHits.Add(1)
		ct := s.contentType
		if len(ct) == 0 {
			ct = "text/html; charset=utf-8"
		}
		w.Header().Set("Content-Type", ct)
		status := s.pageStatus
		if status == 0 {
			status = http.StatusOK
		}
		w.WriteHeader(status)
		_, _ = w.Write([]byte(s.page))
	}
}

func newTestDetector(t *testing.T, allowPrivate bool) *Detector {
	t.Helper()
	d, err := NewDetector(Config{
		PageTimeout:         time.Second,
		ProbeTimeout:        time.Second,
		AllowPrivateNetwork: allowPrivate,
		Concurrency:         2,
		CacheTTL:            time.Minute,
		CacheSize:           16,
	}, zap.NewNop())
	require.NoError(t, err)
	return d
}

func mustParse(t *testing.T, s string) *url.URL {
	t.Helper()
	u, err := url.Parse(s)
	require.NoError(t, err)
	return u
}

func TestNewDetector(t *testing.T) {
	t.Parallel()

	_, err := NewDetector(Config{Concurrency: 0, CacheSize: 1, CacheTTL: time.Second}, zap.NewNop())
	assert.Error(t, err)
	_, err = NewDetector(Config{Concurrency: 1, CacheSize: 0, CacheTTL: time.Second}, zap.NewNop())
	assert.Error(t, err)
	_, err = NewDetector(Config{Concurrency: 1, CacheSize: 1, CacheTTL: 0}, zap.NewNop())
	assert.Error(t, err)
}

func TestParseURL(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		ok    bool
	}{
		{"https", "https://example.com/path", true},
		{"http with spaces", "  http://example.com  ", true},
		{"no scheme", "example.com", false},
		{"ftp", "ftp://example.com/", false},
		{"no host", "https:///path", false},
		{"javascript", "javascript:alert(1)", false},
		{"broken", "http://[::1", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			u, err := ParseURL(tt.input)
			if tt.ok {
				require.NoError(t, err)
				assert.NotNil(t, u)
			} else {
				assert.ErrorIs(t, err, ErrInvalidURL)
			}
		})
	}
}

func TestDetector_Detect(t *testing.T) {
	t.Parallel()

	t.Run("icon link and favicon.ico", func(t *testing.T) {
		t.Parallel()
		site := &testSite{page: testPageWithIcon, iconStatus: http.StatusOK}
		srv := httptest.NewServer(site)
		t.Cleanup(srv.Close)

		d := newTestDetector(t, true)
		res, err := d.Detect(context.Background(), mustParse(t, srv.URL+"/page"))
		require.NoError(t, err)
		assert.True(t, res.HasIconLink())
		assert.True(t, res.RemoteIconExists)
		assert.False(t, res.NeedsIdenticon)
		assert.Equal(t, "127.0.0.1", res.Seed)
		assert.Equal(t, []string{srv.URL + "/icon.png"}, Hrefs(res.Links))
	})

	t.Run("icon link without favicon.ico", func(t *testing.T) {
		t.Parallel()
		site := &testSite{page: testPageWithIcon, iconStatus: http.StatusNotFound}
		srv := httptest.NewServer(site)
		t.Cleanup(srv.Close)

		d := newTestDetector(t, true)
		res, err := d.Detect(context.Background(), mustParse(t, srv.URL))
		require.NoError(t, err)
		assert.True(t, res.HasIconLink())
		assert.False(t, res.RemoteIconExists)
		assert.True(t, res.NeedsIdenticon)
		assert.EqualValues(t, 1, site.probes.Load())
	})

	t.Run("no icon link", func(t *testing.T) {
		t.Parallel()
		site := &testSite{page: testPageWithoutIcon, iconStatus: http.StatusOK}
		srv := httptest.NewServer(site)
		t.Cleanup(srv.Close)

		d := newTestDetector(t, true)
		res, err := d.Detect(context.Background(), mustParse(t, srv.URL))
		require.NoError(t, err)
		assert.False(t, res.HasIconLink())
		assert.True(t, res.NeedsIdenticon)
		assert.EqualValues(t, 0, site.probes.Load())
	})

	t.Run("cached until forgotten", func(t *testing.T) {
		t.Parallel()
		site := &testSite{page: testPageWithoutIcon}
		srv := httptest.NewServer(site)
		t.Cleanup(srv.Close)

		d := newTestDetector(t, true)
		u := mustParse(t, srv.URL+"/page#section")
		_, err := d.Detect(context.Background(), u)
		require.NoError(t, err)
		_, err = d.Detect(context.Background(), mustParse(t, srv.URL+"/page"))
		require.NoError(t, err)
		assert.EqualValues(t, 1, site.pageHits.Load())

		d.Forget(u)
		_, err = d.Detect(context.Background(), u)
		require.NoError(t, err)
		assert.EqualValues(t, 2, site.pageHits.Load())
	})

	t.Run("errors", func(t *testing.T) {
		t.Parallel()
		tests := []struct {
			name string
			site *testSite
			err  error
		}{
			{"server error", &testSite{pageStatus: http.StatusInternalServerError}, ErrServer},
			{"client error", &testSite{pageStatus: http.StatusNotFound}, ErrClient},
			{"not html", &testSite{page: "{}", contentType: "application/json"}, ErrContentTypeNotSupported},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				t.Parallel()
				srv := httptest.NewServer(tt.site)
				t.Cleanup(srv.Close)

				d := newTestDetector(t, true)
				_, err := d.Detect(context.Background(), mustParse(t, srv.URL))
				assert.ErrorIs(t, err, tt.err)
			})
		}
	})

	t.Run("invalid scheme", func(t *testing.T) {
		t.Parallel()
		d := newTestDetector(t, true)
		_, err := d.Detect(context.Background(), mustParse(t, "file:///etc/passwd"))
		assert.ErrorIs(t, err, ErrInvalidURL)
	})

	t.Run("private network", func(t *testing.T) {
		t.Parallel()
		site := &testSite{page: testPageWithIcon, iconStatus: http.StatusOK}
		srv := httptest.NewServer(site)
		t.Cleanup(srv.Close)

		d := newTestDetector(t, false)
		_, err := d.Detect(context.Background(), mustParse(t, srv.URL))
		assert.ErrorIs(t, err, ErrNotAllowed)
		assert.EqualValues(t, 0, site.pageHits.Load())
	})
}
