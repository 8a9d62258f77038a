package plex

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

const tokenParam = "X-Plex-Token"

// Format selects the representation requested from the server.
type Format string

const (
	FormatXML  Format = "xml"
	FormatJSON Format = "json"
)

// Options configures a Client.
type Options struct {
	URL        string
	Format     Format
	Timeout    time.Duration
	HTTPClient *http.Client
	Logger     *slog.Logger
}

// Client fetches the active-sessions document from one media server.
// It never retries; the refresh loop is the retry policy.
type Client struct {
	url    string
	format Format
	client *http.Client
	logger *slog.Logger
}

func New(opts Options) *Client {
	c := &Client{
		url:    opts.URL,
		format: opts.Format,
		client: opts.HTTPClient,
		logger: opts.Logger,
	}
	if c.format == "" {
		c.format = FormatXML
	}
	if c.client == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = 8 * time.Second
		}
		c.client = &http.Client{Timeout: timeout}
	}
	if c.logger == nil {
		c.logger = slog.New(slog.DiscardHandler)
	}
	return c
}

// URL returns the sessions URL with the token redacted.
func (c *Client) URL() string { return Redact(c.url) }

// Format returns the representation this client requests.
func (c *Client) Format() Format { return c.format }

// Fetch performs one GET of the sessions URL and returns the body text.
// Non-2xx statuses and empty bodies are errors; the error text never contains the token.
func (c *Client) Fetch(ctx context.Context) (string, error) {
	accept := "application/xml"
	if c.format == FormatJSON {
		accept = "application/json"
	}
	body, err := c.get(ctx, c.url, accept)
	if err != nil {
		return "", err
	}
	return string(body), nil
}

// Artwork downloads a thumbnail scaled by the server's photo transcoder.
// thumb is the path found in the sessions document.
func (c *Client) Artwork(ctx context.Context, thumb string, width, height int) ([]byte, error) {
	artURL, err := c.ArtworkURL(thumb, width, height)
	if err != nil {
		return nil, err
	}
	return c.get(ctx, artURL, "image/*")
}

// ArtworkURL builds the transcoder URL for thumb on the same server and token
// as the sessions URL.
func (c *Client) ArtworkURL(thumb string, width, height int) (string, error) {
	base, err := url.Parse(c.url)
	if err != nil {
		return "", fmt.Errorf("parse %s: %w", Redact(c.url), scrubURLError(err))
	}
	q := url.Values{}
	q.Set("url", thumb)
	q.Set("width", strconv.Itoa(width))
	q.Set("height", strconv.Itoa(height))
	q.Set("minSize", "1")
	q.Set(tokenParam, base.Query().Get(tokenParam))
	u := url.URL{
		Scheme:   base.Scheme,
		Host:     base.Host,
		Path:     "/photo/:/transcode",
		RawQuery: q.Encode(),
	}
	return u.String(), nil
}

func (c *Client) get(ctx context.Context, rawURL, accept string) ([]byte, error) {
	redacted := Redact(rawURL)
	c.logger.Debug("http get", slog.String("url", redacted))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("create request for %s: %w", redacted, scrubURLError(err))
	}
	req.Header.Set("Accept", accept)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, mapTransportError(redacted, err)
	}
	defer resp.Body.Close()

	if err := statusError(resp); err != nil {
		return nil, fmt.Errorf("fetch %s: %w", redacted, err)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w: %v", redacted, ErrOffline, scrubURLError(err))
	}
	if len(body) == 0 {
		return nil, fmt.Errorf("fetch %s: %w", redacted, ErrEmptyBody)
	}
	return body, nil
}

func statusError(resp *http.Response) error {
	code := resp.StatusCode
	switch {
	case code >= 200 && code < 300:
		return nil
	case code == http.StatusUnauthorized || code == http.StatusForbidden:
		return fmt.Errorf("%w (%s)", ErrUnauthorized, resp.Status)
	case code == http.StatusNotFound:
		return fmt.Errorf("%w (%s)", ErrNotFound, resp.Status)
	case code == http.StatusTooManyRequests:
		return fmt.Errorf("%w (%s)", ErrRateLimited, resp.Status)
	case code >= 500:
		return fmt.Errorf("%w (%s)", ErrTemporary, resp.Status)
	default:
		return fmt.Errorf("%w: %s", ErrStatus, resp.Status)
	}
}

func mapTransportError(redacted string, err error) error {
	var nerr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &nerr) && nerr.Timeout()) {
		return fmt.Errorf("fetch %s: %w: timed out", redacted, ErrTemporary)
	}
	if errors.Is(err, context.Canceled) {
		return fmt.Errorf("fetch %s: %w", redacted, err)
	}
	return fmt.Errorf("fetch %s: %w: %v", redacted, ErrOffline, scrubURLError(err))
}

// scrubURLError drops the *url.Error wrapper, whose message embeds the full URL.
func scrubURLError(err error) error {
	var uerr *url.Error
	if errors.As(err, &uerr) {
		return uerr.Err
	}
	return err
}

// Redact replaces the access token in rawURL with a placeholder.
func Redact(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "<invalid url>"
	}
	q := u.Query()
	if q.Get(tokenParam) == "" {
		return rawURL
	}
	q.Set(tokenParam, "REDACTED")
	u.RawQuery = q.Encode()
	return u.String()
}
