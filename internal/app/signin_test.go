package app

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/raovat-dev/raovat/internal/bangtin"
	"github.com/raovat-dev/raovat/internal/config"
)

type stubAuth struct {
	session bangtin.Session
	err     error
	signIns int
}

func (a *stubAuth) SignIn(ctx context.Context, email, password string) (bangtin.Session, error) {
	a.signIns++
	if a.err != nil {
		return bangtin.Session{}, a.err
	}
	return a.session, nil
}

func (a *stubAuth) SignOut(ctx context.Context, sess bangtin.Session) error {
	return nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestBootstrapSession_SkipsWithoutCredentials(t *testing.T) {
	cases := []struct {
		name string
		cfg  config.Config
	}{
		{name: "nothing configured"},
		{name: "email only", cfg: config.Config{Email: "chi@example.com"}},
		{name: "password only", cfg: config.Config{Password: "secret"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			auth := &stubAuth{}
			got := bootstrapSession(context.Background(), auth, tc.cfg, discardLogger())
			if got != nil {
				t.Fatalf("bootstrapSession = %#v, want nil", got)
			}
			if auth.signIns != 0 {
				t.Fatalf("SignIn called %d times, want 0", auth.signIns)
			}
		})
	}
}

func TestBootstrapSession_SignsInWithConfiguredCredentials(t *testing.T) {
	auth := &stubAuth{session: bangtin.Session{
		AccessToken: "token-1",
		User:        bangtin.User{ID: "u1", Email: "chi@example.com"},
	}}
	cfg := config.Config{Email: "chi@example.com", Password: "secret"}

	got := bootstrapSession(context.Background(), auth, cfg, discardLogger())
	if got == nil || !got.SignedIn() {
		t.Fatalf("bootstrapSession = %#v, want signed-in session", got)
	}
	if got.AccessToken != "token-1" {
		t.Fatalf("access token = %q, want token-1", got.AccessToken)
	}
	if auth.signIns != 1 {
		t.Fatalf("SignIn called %d times, want 1", auth.signIns)
	}
}

func TestBootstrapSession_FallsBackOnRejection(t *testing.T) {
	auth := &stubAuth{err: errors.New("sign-in returned status 400: Invalid login credentials")}
	cfg := config.Config{Email: "chi@example.com", Password: "wrong"}

	if got := bootstrapSession(context.Background(), auth, cfg, discardLogger()); got != nil {
		t.Fatalf("bootstrapSession = %#v, want nil on rejection", got)
	}
}
