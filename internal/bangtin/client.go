package bangtin

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
)

// PostFetcher defines the interface for fetching pages of posts.
// This interface is implemented by *Client and can be used for testing.
type PostFetcher interface {
	FetchPosts(ctx context.Context, sess Session, req Request) (PostPage, error)
}

// Authenticator defines the identity operations the dashboard performs.
// Implemented by *Client.
type Authenticator interface {
	SignIn(ctx context.Context, email, password string) (Session, error)
	SignOut(ctx context.Context, sess Session) error
}

// Ensure Client implements both interfaces at compile time.
var (
	_ PostFetcher   = (*Client)(nil)
	_ Authenticator = (*Client)(nil)
)

// Client talks to the hosted bangtin service: the posts collection under
// /rest/v1 and the identity endpoints under /auth/v1.
type Client struct {
	baseURL   *url.URL
	anonKey   string
	http      *http.Client
	userAgent string
}

const (
	postsPath        = "/rest/v1/posts"
	defaultUserAgent = "raovat/0.1"
	requestTimeout   = 10 * time.Second
)

// NewClient builds a Client for the given service URL. The anon key is the
// service's public API key; it is sent with every request and on its own
// grants read access when the deployment allows anonymous browsing.
func NewClient(serviceURL, anonKey string) (*Client, error) {
	base, err := parseBaseURL(serviceURL)
	if err != nil {
		return nil, err
	}
	return &Client{
		baseURL: base,
		anonKey: strings.TrimSpace(anonKey),
		http: &http.Client{
			Timeout: requestTimeout,
		},
		userAgent: defaultUserAgent,
	}, nil
}

// Request is one encoded posts query: the filter/sort parameters plus the
// zero-based item window to return. Values are produced by the query
// package; the client only transports them.
type Request struct {
	Params url.Values
	From   int
	To     int
}

// PostPage is one fetched window of the posts collection together with the
// exact total the service reported for the whole filtered set.
type PostPage struct {
	Posts []Post
	Total int
}

// FetchPosts retrieves one page of posts. The response is applied verbatim:
// the service performs all filtering, ordering, and slicing, and the exact
// total row count arrives in the Content-Range header.
func (c *Client) FetchPosts(ctx context.Context, sess Session, req Request) (PostPage, error) {
	if c == nil {
		return PostPage{}, fmt.Errorf("client is nil")
	}
	if req.From < 0 || req.To < req.From {
		return PostPage{}, fmt.Errorf("invalid item window %d-%d", req.From, req.To)
	}
	rel := &url.URL{Path: postsPath, RawQuery: req.Params.Encode()}
	reqURL := c.baseURL.ResolveReference(rel)

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL.String(), nil)
	if err != nil {
		return PostPage{}, fmt.Errorf("create request: %w", err)
	}
	c.setCommonHeaders(httpReq, sess)
	httpReq.Header.Set("Range-Unit", "items")
	httpReq.Header.Set("Range", fmt.Sprintf("%d-%d", req.From, req.To))
	httpReq.Header.Set("Prefer", "count=exact")

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return PostPage{}, fmt.Errorf("execute request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 400 {
		return PostPage{}, fmt.Errorf("posts query returned status %d%s", resp.StatusCode, apiErrorSuffix(resp.Body))
	}

	var posts []Post
	if err := json.NewDecoder(resp.Body).Decode(&posts); err != nil {
		return PostPage{}, fmt.Errorf("decode response: %w", err)
	}
	total, err := parseContentRange(resp.Header.Get("Content-Range"))
	if err != nil {
		return PostPage{}, err
	}
	return PostPage{Posts: posts, Total: total}, nil
}

func (c *Client) setCommonHeaders(req *http.Request, sess Session) {
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	if c.anonKey != "" {
		req.Header.Set("apikey", c.anonKey)
	}
	if sess.AccessToken != "" {
		req.Header.Set("Authorization", "Bearer "+sess.AccessToken)
	} else if c.anonKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.anonKey)
	}
}

// parseContentRange extracts the total from a "from-to/total" header value.
// An empty result set arrives as "*/0".
func parseContentRange(value string) (int, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return 0, fmt.Errorf("missing Content-Range header")
	}
	slash := strings.LastIndex(trimmed, "/")
	if slash < 0 || slash == len(trimmed)-1 {
		return 0, fmt.Errorf("malformed Content-Range %q", value)
	}
	totalPart := trimmed[slash+1:]
	if totalPart == "*" {
		return 0, fmt.Errorf("service did not report an exact count in %q", value)
	}
	total, err := strconv.Atoi(totalPart)
	if err != nil || total < 0 {
		return 0, fmt.Errorf("malformed Content-Range %q", value)
	}
	return total, nil
}

// apiErrorSuffix pulls a short message out of an error body when the
// service sent one. Both the posts API and the identity API return small
// JSON documents on failure.
func apiErrorSuffix(body io.Reader) string {
	raw, err := io.ReadAll(io.LimitReader(body, 4096))
	if err != nil || len(bytes.TrimSpace(raw)) == 0 {
		return ""
	}
	var payload struct {
		Message          string `json:"message"`
		Msg              string `json:"msg"`
		ErrorDescription string `json:"error_description"`
	}
	if err := json.Unmarshal(raw, &payload); err != nil {
		return ""
	}
	for _, msg := range []string{payload.Message, payload.Msg, payload.ErrorDescription} {
		if msg = strings.TrimSpace(msg); msg != "" {
			return ": " + msg
		}
	}
	return ""
}

func parseBaseURL(serviceURL string) (*url.URL, error) {
	trimmed := strings.TrimSpace(serviceURL)
	if trimmed == "" {
		return nil, fmt.Errorf("service_url is required")
	}
	if !strings.Contains(trimmed, "://") {
		trimmed = "http://" + trimmed
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("parse service_url %q: %w", serviceURL, err)
	}
	u.Path = ""
	u.RawQuery = ""
	u.Fragment = ""
	return u, nil
}
