package feed

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sethvargo/go-retry"

	"github.com/dmitrijs2005/mediavault/internal/archive"
	"github.com/dmitrijs2005/mediavault/internal/common"
	"github.com/dmitrijs2005/mediavault/internal/feedapi"
	"github.com/dmitrijs2005/mediavault/internal/netx"
)

const (
	defaultUserAgent = "mediavault/1.0"
	defaultTimeout   = 10 * time.Second
	defaultBackoff   = 200 * time.Millisecond
)

// Options configures a Client. Zero values select defaults.
type Options struct {
	Endpoint string
	// Timeout bounds each individual attempt.
	Timeout time.Duration
	// Retries is the number of additional attempts after a transient failure.
	Retries int
	// Backoff is the first retry delay; it doubles on each retry.
	Backoff time.Duration
	// Token is sent as a bearer token on publish and upload.
	Token      string
	HTTPClient *http.Client
	UserAgent  string
}

// Client talks to the feed server's HTTP API.
type Client struct {
	baseURL   *url.URL
	http      *http.Client
	timeout   time.Duration
	retries   uint64
	backoff   time.Duration
	token     string
	userAgent string
}

// NewClient validates the endpoint and builds a Client.
func NewClient(opts Options) (*Client, error) {
	base, err := parseBaseURL(opts.Endpoint)
	if err != nil {
		return nil, err
	}
	c := &Client{
		baseURL:   base,
		http:      opts.HTTPClient,
		timeout:   opts.Timeout,
		backoff:   opts.Backoff,
		token:     opts.Token,
		userAgent: opts.UserAgent,
	}
	if c.http == nil {
		c.http = &http.Client{}
	}
	if c.timeout <= 0 {
		c.timeout = defaultTimeout
	}
	if c.backoff <= 0 {
		c.backoff = defaultBackoff
	}
	if opts.Retries > 0 {
		c.retries = uint64(opts.Retries)
	}
	if c.userAgent == "" {
		c.userAgent = defaultUserAgent
	}
	return c, nil
}

// FetchPublic retrieves the public collection.
func (c *Client) FetchPublic(ctx context.Context) ([]archive.Item, error) {
	var payload feedapi.PublicListResponse
	if err := c.do(ctx, http.MethodGet, feedapi.PathPublic, false, nil, &payload); err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrRemoteFetchFailed, err)
	}
	out := payload.Items[:0]
	for _, it := range payload.Items {
		if !it.IsDurable() || it.Validate() != nil {
			continue
		}
		out = append(out, it)
	}
	return out, nil
}

// Publish posts the item's metadata; a local payload is never sent.
func (c *Client) Publish(ctx context.Context, it archive.Item) error {
	var resp feedapi.PublishResponse
	if err := c.do(ctx, http.MethodPost, feedapi.PathPublic, true, it.Metadata(), &resp); err != nil {
		return fmt.Errorf("%w: %s: %w", common.ErrRemotePublishFailed, it.ID, err)
	}
	return nil
}

// UploadBinary requests a presigned slot and PUTs the payload to it.
func (c *Client) UploadBinary(ctx context.Context, name string, bin archive.LocalBinary) (string, error) {
	req := feedapi.UploadRequest{FileName: name, ContentType: bin.MimeHint, Size: int64(len(bin.Data))}
	var slot feedapi.UploadResponse
	if err := c.do(ctx, http.MethodPost, feedapi.PathUploads, true, req, &slot); err != nil {
		return "", fmt.Errorf("%w: request upload: %w", common.ErrRemotePublishFailed, err)
	}
	if slot.UploadURL == "" || slot.URL == "" {
		return "", fmt.Errorf("%w: upload slot without url", common.ErrRemotePublishFailed)
	}

	err := c.withRetry(ctx, func(ctx context.Context) error {
		if err := netx.UploadToPresignedURL(ctx, c.http, slot.UploadURL, bin.Data, bin.MimeHint); err != nil {
			return retry.RetryableError(err)
		}
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("%w: put object: %w", common.ErrRemotePublishFailed, err)
	}
	return slot.URL, nil
}

// statusError is a non-2xx API reply.
type statusError struct {
	path   string
	code   int
	reason string
}

func (e *statusError) Error() string {
	if e.reason != "" {
		return fmt.Sprintf("api %s returned status %d: %s", e.path, e.code, e.reason)
	}
	return fmt.Sprintf("api %s returned status %d", e.path, e.code)
}

func (e *statusError) Unwrap() error {
	if e.code == http.StatusUnauthorized || e.code == http.StatusForbidden {
		return common.ErrUnauthorized
	}
	return nil
}

func transient(code int) bool {
	return code >= 500 || code == http.StatusTooManyRequests || code == http.StatusRequestTimeout
}

func (c *Client) withRetry(ctx context.Context, fn retry.RetryFunc) error {
	b := retry.WithMaxRetries(c.retries, retry.NewExponential(c.backoff))
	return retry.Do(ctx, b, func(ctx context.Context) error {
		attemptCtx, cancel := context.WithTimeout(ctx, c.timeout)
		defer cancel()
		return fn(attemptCtx)
	})
}

func (c *Client) do(ctx context.Context, method, path string, auth bool, body, dest any) error {
	var raw []byte
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		raw = b
	}
	rel := &url.URL{Path: path}

	return c.withRetry(ctx, func(ctx context.Context) error {
		err := c.doURL(ctx, method, rel, auth, raw, dest)
		var se *statusError
		switch {
		case err == nil:
			return nil
		case errors.As(err, &se) && !transient(se.code):
			return err
		default:
			return retry.RetryableError(err)
		}
	})
}

func (c *Client) doURL(ctx context.Context, method string, rel *url.URL, auth bool, raw []byte, dest any) error {
	reqURL := c.baseURL.ResolveReference(rel)

	var body io.Reader
	if raw != nil {
		body = bytes.NewReader(raw)
	}
	req, err := http.NewRequestWithContext(ctx, method, reqURL.String(), body)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	if raw != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if auth && c.token != "" {
		req.Header.Set(common.AuthorizationHeaderName, common.BearerPrefix+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("execute request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 400 {
		var apiErr feedapi.ErrorResponse
		_ = json.NewDecoder(io.LimitReader(resp.Body, 4096)).Decode(&apiErr)
		return &statusError{path: rel.Path, code: resp.StatusCode, reason: apiErr.Error}
	}
	if dest == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func parseBaseURL(endpoint string) (*url.URL, error) {
	trimmed := strings.TrimSpace(endpoint)
	if trimmed == "" {
		return nil, fmt.Errorf("feed endpoint is empty")
	}
	if !strings.Contains(trimmed, "://") {
		trimmed = "http://" + trimmed
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("parse feed endpoint %q: %w", endpoint, err)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("feed endpoint %q has no host", endpoint)
	}
	u.Path = ""
	u.RawQuery = ""
	u.Fragment = ""
	return u, nil
}
