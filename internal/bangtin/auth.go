package bangtin

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	tokenPath  = "/auth/v1/token"
	logoutPath = "/auth/v1/logout"
)

// Session carries the credentials for one signed-in (or anonymous) user.
// It is handed explicitly to every call that needs it; nothing in this
// package keeps ambient auth state.
type Session struct {
	AccessToken string
	TokenType   string
	ExpiresAt   time.Time
	User        User
	Anonymous   bool
}

// User is the identity subset the dashboard displays.
type User struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// AnonymousSession returns the session used when browsing without signing
// in. Requests made with it carry only the anon key.
func AnonymousSession() Session {
	return Session{Anonymous: true}
}

// SignedIn reports whether the session holds a user token.
func (s Session) SignedIn() bool {
	return !s.Anonymous && s.AccessToken != ""
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int64  `json:"expires_in"`
	User        User   `json:"user"`
}

// SignIn exchanges an email/password pair for a bearer session at the
// hosted identity endpoint. Token lifecycle beyond this exchange (refresh,
// revocation, MFA) is the provider's concern, not ours.
func (c *Client) SignIn(ctx context.Context, email, password string) (Session, error) {
	if c == nil {
		return Session{}, fmt.Errorf("client is nil")
	}
	email = strings.TrimSpace(email)
	if email == "" {
		return Session{}, fmt.Errorf("email is required")
	}
	if password == "" {
		return Session{}, fmt.Errorf("password is required")
	}

	body, err := json.Marshal(map[string]string{
		"email":    email,
		"password": password,
	})
	if err != nil {
		return Session{}, fmt.Errorf("encode credentials: %w", err)
	}
	rel := &url.URL{Path: tokenPath, RawQuery: url.Values{"grant_type": {"password"}}.Encode()}
	reqURL := c.baseURL.ResolveReference(rel)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, reqURL.String(), bytes.NewReader(body))
	if err != nil {
		return Session{}, fmt.Errorf("create request: %w", err)
	}
	c.setCommonHeaders(req, Session{})
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return Session{}, fmt.Errorf("execute request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 400 {
		return Session{}, fmt.Errorf("sign-in returned status %d%s", resp.StatusCode, apiErrorSuffix(resp.Body))
	}
	var payload tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return Session{}, fmt.Errorf("decode response: %w", err)
	}
	if payload.AccessToken == "" {
		return Session{}, fmt.Errorf("sign-in response carried no access token")
	}
	sess := Session{
		AccessToken: payload.AccessToken,
		TokenType:   payload.TokenType,
		User:        payload.User,
	}
	if payload.ExpiresIn > 0 {
		sess.ExpiresAt = time.Now().Add(time.Duration(payload.ExpiresIn) * time.Second)
	}
	return sess, nil
}

// SignOut revokes the session's token. Anonymous sessions have nothing to
// revoke and return immediately.
func (c *Client) SignOut(ctx context.Context, sess Session) error {
	if c == nil {
		return fmt.Errorf("client is nil")
	}
	if !sess.SignedIn() {
		return nil
	}
	rel := &url.URL{Path: logoutPath}
	reqURL := c.baseURL.ResolveReference(rel)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, reqURL.String(), nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	c.setCommonHeaders(req, sess)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("execute request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 400 {
		return fmt.Errorf("sign-out returned status %d%s", resp.StatusCode, apiErrorSuffix(resp.Body))
	}
	return nil
}
