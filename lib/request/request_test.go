package request

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
	"golang.org/x/text/encoding/simplifiedchinese"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func newObservedClient(opts ...ClientOption) (*Client, *observer.ObservedLogs) {
	core, logs := observer.New(zap.ErrorLevel)
	return NewClient(append([]ClientOption{WithLogger(zap.New(core))}, opts...)...), logs
}

func TestFetchConflictingModesFailsBeforeNetwork(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
	}))
	defer srv.Close()

	c, logs := newObservedClient()
	res, err := c.Fetch(context.Background(), srv.URL, ModeJSON|ModeBytes)
	require.ErrorIs(t, err, ErrConflictingModes)
	assert.True(t, res.IsAbsent())
	assert.Zero(t, hits.Load())
	assert.Zero(t, logs.Len())

	_, err = c.Fetch(context.Background(), srv.URL, Mode(1<<5))
	require.ErrorIs(t, err, ErrUnknownMode)
	assert.Zero(t, hits.Load())
}

func TestFetchText(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "2000-01-01", r.URL.Query().Get("birthday"))
		assert.Equal(t, "template", r.Header.Get("X-Caller"))
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("属龙"))
	}))
	defer srv.Close()

	c, logs := newObservedClient()
	res, err := c.Fetch(context.Background(), srv.URL, ModeText,
		WithQuery("birthday", "2000-01-01"),
		WithHeader("X-Caller", "template"),
	)
	require.NoError(t, err)
	text, ok := res.Text()
	require.True(t, ok)
	assert.Equal(t, "属龙", text)
	assert.Equal(t, KindText, res.Kind())
	assert.Zero(t, logs.Len())
}

func TestFetchTextDecodesDeclaredCharset(t *testing.T) {
	gbk, err := simplifiedchinese.GBK.NewEncoder().String("你好，世界")
	require.NoError(t, err)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=gbk")
		_, _ = w.Write([]byte(gbk))
	}))
	defer srv.Close()

	res, err := NewClient().Fetch(context.Background(), srv.URL, ModeText)
	require.NoError(t, err)
	text, ok := res.Text()
	require.True(t, ok)
	assert.Equal(t, "你好，世界", text)
}

func TestFetchUndeclaredCharsetPastSniffWindow(t *testing.T) {
	pad := strings.Repeat("a", 1100)
	cases := []struct {
		name        string
		contentType string
		body        string
		mode        Mode
		check       func(t *testing.T, res Result)
	}{
		{
			name:        "text",
			contentType: "text/plain",
			body:        strings.Repeat("x", 1100) + "属龙",
			mode:        ModeText,
			check: func(t *testing.T, res Result) {
				text, ok := res.Text()
				require.True(t, ok)
				assert.True(t, strings.HasSuffix(text, "属龙"), "tail decoded as %q", text[len(text)-8:])
			},
		},
		{
			name:        "json",
			contentType: "application/json",
			body:        `{"pad":"` + pad + `","message":"你好"}`,
			mode:        ModeJSON,
			check: func(t *testing.T, res Result) {
				v, ok := res.JSON()
				require.True(t, ok)
				assert.Equal(t, "你好", v.Get("message").String())
				assert.Equal(t, pad, v.Get("pad").String())
			},
		},
		{
			name:        "json with bom",
			contentType: "application/json",
			body:        "\xef\xbb\xbf" + `{"message":"你好"}`,
			mode:        ModeJSON,
			check: func(t *testing.T, res Result) {
				v, ok := res.JSON()
				require.True(t, ok)
				assert.Equal(t, "你好", v.Get("message").String())
			},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", tc.contentType)
				_, _ = w.Write([]byte(tc.body))
			}))
			defer srv.Close()

			c, logs := newObservedClient()
			res, err := c.Fetch(context.Background(), srv.URL, tc.mode)
			require.NoError(t, err)
			tc.check(t, res)
			assert.Zero(t, logs.Len())
		})
	}
}

func TestFetchSniffsNonUTF8WithoutCharset(t *testing.T) {
	latin1 := []byte("caf\xe9")
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		_, _ = w.Write(latin1)
	}))
	defer srv.Close()

	res, err := NewClient().Fetch(context.Background(), srv.URL, ModeText)
	require.NoError(t, err)
	text, ok := res.Text()
	require.True(t, ok)
	assert.Equal(t, "café", text)
}

func TestFetchUnknownCharsetIsAbsent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=x-nope")
		_, _ = w.Write([]byte("hi"))
	}))
	defer srv.Close()

	c, logs := newObservedClient()
	res, err := c.Fetch(context.Background(), srv.URL, ModeText)
	require.NoError(t, err)
	assert.True(t, res.IsAbsent())
	assert.Equal(t, 1, logs.Len())
}

func TestFetchJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"message":"http://x/y.png","status":"success"}`))
	}))
	defer srv.Close()

	res, err := NewClient().Fetch(context.Background(), srv.URL, ModeJSON)
	require.NoError(t, err)
	v, ok := res.JSON()
	require.True(t, ok)
	assert.Equal(t, "http://x/y.png", v.Get("message").String())
	assert.Equal(t, "success", v.Get("status").String())
	_, ok = res.Text()
	assert.False(t, ok)
}

func TestFetchBytes(t *testing.T) {
	payload := []byte{0x89, 'P', 'N', 'G', 0x00, 0xff}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/png")
		_, _ = w.Write(payload)
	}))
	defer srv.Close()

	res, err := NewClient().Fetch(context.Background(), srv.URL, ModeBytes)
	require.NoError(t, err)
	b, ok := res.Bytes()
	require.True(t, ok)
	assert.Equal(t, payload, b)
}

func TestFetchFailuresDegradeToAbsent(t *testing.T) {
	malformed := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"message":`))
	}))
	defer malformed.Close()

	failing := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer failing.Close()

	closed := httptest.NewServer(http.NotFoundHandler())
	closedURL := closed.URL
	closed.Close()

	cases := []struct {
		name string
		url  string
		mode Mode
	}{
		{"malformed json", malformed.URL, ModeJSON},
		{"server error text", failing.URL, ModeText},
		{"server error bytes", failing.URL, ModeBytes},
		{"connection refused", closedURL, ModeText},
		{"invalid url", "://not a url", ModeText},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c, logs := newObservedClient()
			var res Result
			var err error
			assert.NotPanics(t, func() {
				res, err = c.Fetch(context.Background(), tc.url, tc.mode)
			})
			require.NoError(t, err)
			assert.True(t, res.IsAbsent())
			assert.Equal(t, KindAbsent, res.Kind())
			assert.Equal(t, 1, logs.Len())
		})
	}
}

func TestFetchTimeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	c, logs := newObservedClient(WithTimeout(50 * time.Millisecond))
	assert.Equal(t, 50*time.Millisecond, c.Timeout())
	res, err := c.Fetch(context.Background(), srv.URL, ModeText)
	require.NoError(t, err)
	assert.True(t, res.IsAbsent())
	assert.Equal(t, 1, logs.Len())
}

func TestFetchCanceledContext(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("late"))
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	res, err := NewClient().Fetch(ctx, srv.URL, ModeText)
	require.NoError(t, err)
	assert.True(t, res.IsAbsent())
}

func TestWithTimeoutIgnoresNonPositive(t *testing.T) {
	assert.Equal(t, DefaultTimeout, NewClient(WithTimeout(0)).Timeout())
	assert.Equal(t, DefaultTimeout, NewClient(WithTimeout(-time.Second)).Timeout())
}

func TestModeAndKindStrings(t *testing.T) {
	assert.Equal(t, "json", ModeJSON.String())
	assert.Equal(t, "mode(3)", (ModeJSON | ModeBytes).String())
	assert.Equal(t, "absent", Result{}.Kind().String())
}
