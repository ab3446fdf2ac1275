// Package request performs the one-shot outbound GETs plugins use to call
// third-party APIs. Every failure is logged once and degraded to an absent Result.
package request

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"mime"
	"net/url"
	"time"
	"unicode/utf8"

	"github.com/go-resty/resty/v2"
	"github.com/tidwall/gjson"
	"go.uber.org/zap"
	"golang.org/x/net/html/charset"
)

// DefaultTimeout bounds a request when the client is built without WithTimeout.
const DefaultTimeout = 10 * time.Second

var (
	// ErrConflictingModes is returned when JSON and Bytes are requested together.
	ErrConflictingModes = errors.New("request: json and bytes modes are mutually exclusive")
	// ErrUnknownMode is returned for mode bits outside ModeJSON|ModeBytes.
	ErrUnknownMode = errors.New("request: unknown mode")

	errStatus      = errors.New("unexpected status")
	errMalformJSON = errors.New("malformed json")
	errCharset     = errors.New("unknown charset")
)

// Mode selects how the response body is interpreted.
type Mode uint8

const (
	// ModeText decodes the body to a UTF-8 string.
	ModeText Mode = 0
	// ModeJSON decodes the body as text and parses it as JSON.
	ModeJSON Mode = 1 << 0
	// ModeBytes returns the body unchanged.
	ModeBytes Mode = 1 << 1
)

func (m Mode) String() string {
	switch m {
	case ModeText:
		return "text"
	case ModeJSON:
		return "json"
	case ModeBytes:
		return "bytes"
	}
	return fmt.Sprintf("mode(%d)", uint8(m))
}

func (m Mode) validate() error {
	if m&^(ModeJSON|ModeBytes) != 0 {
		return ErrUnknownMode
	}
	if m&ModeJSON != 0 && m&ModeBytes != 0 {
		return ErrConflictingModes
	}
	return nil
}

// Client issues fetches. It holds settings only; each Fetch builds and
// releases its own connection.
type Client struct {
	timeout time.Duration
	logger  *zap.Logger
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithTimeout sets the per-request timeout. Non-positive values keep the default.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithLogger sets the logger used for failure lines.
func WithLogger(l *zap.Logger) ClientOption {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

// NewClient returns a Client with DefaultTimeout and a no-op logger unless overridden.
func NewClient(opts ...ClientOption) *Client {
	c := &Client{timeout: DefaultTimeout, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Timeout returns the effective per-request timeout.
func (c *Client) Timeout() time.Duration { return c.timeout }

// Option adds passthrough request options.
type Option func(*options)

type options struct {
	query  url.Values
	header map[string]string
}

// WithQuery appends a query parameter.
func WithQuery(key, value string) Option {
	return func(o *options) {
		o.query.Add(key, value)
	}
}

// WithHeader sets a request header.
func WithHeader(key, value string) Option {
	return func(o *options) {
		o.header[key] = value
	}
}

// Fetch issues one GET against rawURL and interprets the body per mode.
// The error return is reserved for caller mistakes (an invalid mode) and is
// reported before any network activity. Network, status, decoding and JSON
// failures are logged and yield an absent Result with a nil error.
func (c *Client) Fetch(ctx context.Context, rawURL string, mode Mode, opts ...Option) (Result, error) {
	if err := mode.validate(); err != nil {
		return Result{}, err
	}
	o := options{query: url.Values{}, header: map[string]string{}}
	for _, opt := range opts {
		opt(&o)
	}
	res, err := c.do(ctx, rawURL, mode, o)
	if err != nil {
		c.logger.Error("request failed",
			zap.String("url", rawURL),
			zap.Stringer("mode", mode),
			zap.Error(err),
		)
		return Result{}, nil
	}
	return res, nil
}

func (c *Client) do(ctx context.Context, rawURL string, mode Mode, o options) (Result, error) {
	hc := resty.New().
		SetTimeout(c.timeout).
		SetCloseConnection(true)
	defer hc.GetClient().CloseIdleConnections()

	resp, err := hc.R().
		SetContext(ctx).
		SetQueryParamsFromValues(o.query).
		SetHeaders(o.header).
		Get(rawURL)
	if err != nil {
		return Result{}, err
	}
	if !resp.IsSuccess() {
		return Result{}, fmt.Errorf("%w: %d", errStatus, resp.StatusCode())
	}

	body := resp.Body()
	if mode == ModeBytes {
		return BytesResult(body), nil
	}

	text, err := decodeText(body, resp.Header().Get("Content-Type"), mode)
	if err != nil {
		return Result{}, err
	}
	if mode == ModeJSON {
		if !gjson.Valid(text) {
			return Result{}, errMalformJSON
		}
		return JSONResult(gjson.Parse(text)), nil
	}
	return TextResult(text), nil
}

var utf8BOM = []byte("\xef\xbb\xbf")

// decodeText converts body to UTF-8. A charset declared in contentType wins.
// Otherwise JSON is UTF-8, and text that is valid UTF-8 over the whole body is
// kept as is; anything else is sniffed.
func decodeText(body []byte, contentType string, mode Mode) (string, error) {
	if label := declaredCharset(contentType); label != "" {
		enc, _ := charset.Lookup(label)
		if enc == nil {
			return "", fmt.Errorf("%w: %q", errCharset, label)
		}
		out, err := enc.NewDecoder().Bytes(body)
		if err != nil {
			return "", fmt.Errorf("decode body: %w", err)
		}
		return string(bytes.TrimPrefix(out, utf8BOM)), nil
	}
	if mode == ModeJSON || utf8.Valid(body) {
		return string(bytes.TrimPrefix(body, utf8BOM)), nil
	}
	enc, _, _ := charset.DetermineEncoding(body, contentType)
	out, err := enc.NewDecoder().Bytes(body)
	if err != nil {
		return "", fmt.Errorf("decode body: %w", err)
	}
	return string(out), nil
}

func declaredCharset(contentType string) string {
	if contentType == "" {
		return ""
	}
	_, params, err := mime.ParseMediaType(contentType)
	if err != nil {
		return ""
	}
	return params["charset"]
}
