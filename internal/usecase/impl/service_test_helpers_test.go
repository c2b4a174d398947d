package impl

import (
	"io"
	"log/slog"

	"storefront/config"
)

func newDiscardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestConfig(allowAdminSignup bool) *config.Config {
	return &config.Config{
		Auth: &config.AuthConfig{
			BcryptCost:        4,
			MinPasswordLength: 6,
			AllowAdminSignup:  allowAdminSignup,
		},
	}
}
