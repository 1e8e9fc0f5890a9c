package authority

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/five82/framegrid/internal/commit"
	"github.com/five82/framegrid/internal/grid"
	"github.com/five82/framegrid/internal/timing"
)

// Fetcher pulls mirror updates from the authority.
type Fetcher interface {
	FetchUpdate(ctx context.Context, since uint64) (Update, error)
}

// Ensure Client implements both sides of the authority boundary.
var (
	_ Fetcher        = (*Client)(nil)
	_ commit.Mutator = (*Client)(nil)
)

// Client talks to the authority HTTP API.
type Client struct {
	baseURL   *url.URL
	http      *http.Client
	userAgent string
}

const (
	defaultAPIBind   = "127.0.0.1:8420"
	defaultUserAgent = "framegrid/0.1"
	requestTimeout   = 5 * time.Second
)

// NewClient builds a Client using the provided apiBind host:port value. A
// non-positive timeout uses the default.
func NewClient(apiBind string, timeout time.Duration) (*Client, error) {
	base, err := parseBaseURL(apiBind)
	if err != nil {
		return nil, err
	}
	if timeout <= 0 {
		timeout = requestTimeout
	}
	return &Client{
		baseURL: base,
		http: &http.Client{
			Timeout: timeout,
		},
		userAgent: defaultUserAgent,
	}, nil
}

// FetchUpdate retrieves the grid and every structural event after since.
func (c *Client) FetchUpdate(ctx context.Context, since uint64) (Update, error) {
	if c == nil {
		return Update{}, fmt.Errorf("client is nil")
	}
	values := url.Values{}
	if since > 0 {
		values.Set("since", strconv.FormatUint(since, 10))
	}
	rel := &url.URL{Path: "/api/grid", RawQuery: values.Encode()}
	var payload Update
	if err := c.doURL(ctx, http.MethodGet, rel, nil, &payload); err != nil {
		return Update{}, err
	}
	return payload, nil
}

// SetFrames replaces a batch of frames.
func (c *Client) SetFrames(ctx context.Context, t timing.Directive, edits []commit.FrameEdit) error {
	return c.post(ctx, "/api/frames/set", setFramesBody{Timing: t, Frames: edits})
}

// AddFrame inserts f at the given position.
func (c *Client) AddFrame(ctx context.Context, t timing.Directive, at grid.Cell, f grid.Frame) error {
	return c.post(ctx, "/api/frames/add", addFrameBody{Timing: t, Line: at.Line, Index: at.Frame, Frame: f})
}

// RemoveFrame removes the frame at the given position.
func (c *Client) RemoveFrame(ctx context.Context, t timing.Directive, at grid.Cell) error {
	return c.post(ctx, "/api/frames/remove", removeFrameBody{Timing: t, Line: at.Line, Index: at.Frame})
}

// SetLines replaces a batch of lines.
func (c *Client) SetLines(ctx context.Context, t timing.Directive, edits []commit.LineEdit) error {
	return c.post(ctx, "/api/lines/set", setLinesBody{Timing: t, Lines: edits})
}

func (c *Client) post(ctx context.Context, path string, body any) error {
	if c == nil {
		return fmt.Errorf("client is nil")
	}
	return c.doURL(ctx, http.MethodPost, &url.URL{Path: path}, body, nil)
}

func (c *Client) doURL(ctx context.Context, method string, rel *url.URL, body, dest any) error {
	reqURL := c.baseURL.ResolveReference(rel)

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, reqURL.String(), reader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	if reader != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("execute request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 400 {
		return fmt.Errorf("api %s returned status %d", rel.Path, resp.StatusCode)
	}
	if dest == nil {
		return nil
	}
	decoder := json.NewDecoder(resp.Body)
	if err := decoder.Decode(dest); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func parseBaseURL(apiBind string) (*url.URL, error) {
	trimmed := strings.TrimSpace(apiBind)
	if trimmed == "" {
		trimmed = defaultAPIBind
	}
	if !strings.Contains(trimmed, "://") {
		trimmed = "http://" + trimmed
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("parse api_bind %q: %w", apiBind, err)
	}
	u.Path = ""
	u.RawQuery = ""
	u.Fragment = ""
	return u, nil
}
