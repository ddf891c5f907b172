package app

import (
	"context"
	"log/slog"
	"time"

	"github.com/raovat-dev/raovat/internal/bangtin"
	"github.com/raovat-dev/raovat/internal/config"
)

const signInTimeout = 10 * time.Second

// bootstrapSession exchanges configured credentials for a session before
// the UI starts. Failure is not fatal: the dashboard falls back to its
// sign-in form, where the error can be shown interactively.
func bootstrapSession(ctx context.Context, auth bangtin.Authenticator, cfg config.Config, logger *slog.Logger) *bangtin.Session {
	if cfg.Email == "" || cfg.Password == "" {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, signInTimeout)
	defer cancel()

	sess, err := auth.SignIn(ctx, cfg.Email, cfg.Password)
	if err != nil {
		logger.Warn("configured credentials rejected, falling back to the sign-in form",
			"email", cfg.Email, "error", err)
		return nil
	}
	logger.Info("signed in with configured credentials", "email", sess.User.Email)
	return &sess
}
