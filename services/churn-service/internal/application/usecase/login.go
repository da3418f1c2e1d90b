package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/bibbank/bib/services/churn-service/internal/application/dto"
	"github.com/bibbank/bib/services/churn-service/internal/domain/port"
)

// TokenIssuer signs access tokens for authenticated users.
type TokenIssuer interface {
	GenerateToken(username string, roles []string) (string, time.Time, error)
}

// Login is the use case for exchanging credentials for an access token.
type Login struct {
	authenticator port.Authenticator
	issuer        TokenIssuer
	logger        *slog.Logger
}

// NewLogin creates a new Login use case.
func NewLogin(authenticator port.Authenticator, issuer TokenIssuer, logger *slog.Logger) *Login {
	return &Login{authenticator: authenticator, issuer: issuer, logger: logger}
}

// Execute authenticates the user and issues a bearer token carrying their roles.
func (uc *Login) Execute(ctx context.Context, req dto.LoginRequest) (dto.LoginResponse, error) {
	if req.Username == "" || req.Password == "" {
		return dto.LoginResponse{}, port.ErrInvalidCredentials
	}

	principal, err := uc.authenticator.Authenticate(ctx, req.Username, req.Password)
	if err != nil {
		if errors.Is(err, port.ErrInvalidCredentials) {
			uc.logger.WarnContext(ctx, "login rejected", slog.String("username", req.Username))
		}
		return dto.LoginResponse{}, err
	}

	token, expiresAt, err := uc.issuer.GenerateToken(principal.Username, principal.Roles)
	if err != nil {
		return dto.LoginResponse{}, fmt.Errorf("failed to issue token: %w", err)
	}

	uc.logger.InfoContext(ctx, "user logged in", slog.String("username", principal.Username))

	return dto.LoginResponse{
		Token:     token,
		TokenType: "Bearer",
		ExpiresAt: expiresAt,
		Username:  principal.Username,
		Roles:     principal.Roles,
	}, nil
}
