package icon

import (
	"context"
	"net/url"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/traPtitech/identfavicon/utils/identicon"
)

func newTestManager(t *testing.T) Manager {
	t.Helper()
	m, err := NewManager(Config{
		DefaultSize: 64,
		MaxSize:     256,
		CacheSize:   16,
		CacheTTL:    time.Minute,
	}, zap.NewNop())
	require.NoError(t, err)
	return m
}

func TestNewManager(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		c    Config
		ok   bool
	}{
		{"ok", Config{DefaultSize: 64, MaxSize: 1024, CacheSize: 1, CacheTTL: time.Minute}, true},
		{"zero default", Config{DefaultSize: 0, MaxSize: 1024, CacheSize: 1}, false},
		{"default over max", Config{DefaultSize: 128, MaxSize: 64, CacheSize: 1}, false},
		{"zero cache", Config{DefaultSize: 64, MaxSize: 64, CacheSize: 0, CacheTTL: time.Minute}, false},
		{"zero ttl", Config{DefaultSize: 64, MaxSize: 64, CacheSize: 1}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			m, err := NewManager(tt.c, zap.NewNop())
			if tt.ok {
				assert.NoError(t, err)
				assert.Equal(t, tt.c.DefaultSize, m.DefaultSize())
				assert.Equal(t, tt.c.MaxSize, m.MaxSize())
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestManager_Get(t *testing.T) {
	t.Parallel()

	t.Run("same as core", func(t *testing.T) {
		t.Parallel()
		m := newTestManager(t)

		want, err := identicon.Generate("example.com", 64)
		require.NoError(t, err)
		got, err := m.Get(context.Background(), "example.com", 64)
		require.NoError(t, err)
		assert.Equal(t, want, got)

		// キャッシュからでも同じ
		got, err = m.Get(context.Background(), "example.com", 64)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	})

	t.Run("invalid size", func(t *testing.T) {
		t.Parallel()
		m := newTestManager(t)

		for _, size := range []int{0, -1, 257} {
			_, err := m.Get(context.Background(), "example.com", size)
			assert.ErrorIs(t, err, ErrInvalidSize, size)
		}
	})

	t.Run("concurrent", func(t *testing.T) {
		t.Parallel()
		m := newTestManager(t)
		want, err := identicon.Generate("traq.trap.jp", 128)
		require.NoError(t, err)

		var wg sync.WaitGroup
		for i := 0; i < 20; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				got, err := m.Get(context.Background(), "traq.trap.jp", 128)
				if assert.NoError(t, err) {
					assert.Equal(t, want, got)
				}
			}()
		}
		wg.Wait()
	})

	t.Run("purge", func(t *testing.T) {
		t.Parallel()
		m := newTestManager(t)

		a, err := m.Get(context.Background(), "a", 32)
		require.NoError(t, err)
		m.Purge()
		b, err := m.Get(context.Background(), "a", 32)
		require.NoError(t, err)
		assert.Equal(t, a, b)
	})
}

func TestNormalizeSeed(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "example.com", NormalizeSeed("Example.COM", "https://example.com", "https://example.com/"))
	assert.Equal(t, "file://", NormalizeSeed("", "FILE://", "file:///tmp/a.html"))
	assert.Equal(t, "about:blank", NormalizeSeed("", "", "about:blank"))
	assert.Equal(t, "", NormalizeSeed("", "", ""))
}

func TestSeedFromURL(t *testing.T) {
	t.Parallel()

	u, _ := url.Parse("https://WWW.Example.com:8443/path?q=1")
	assert.Equal(t, "www.example.com", SeedFromURL(u))

	u, _ = url.Parse("about:blank")
	assert.Equal(t, "about:blank", SeedFromURL(u))
}
