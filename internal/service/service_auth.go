// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"fmt"
	"time"

	"github.com/MKhiriev/go-task-keeper/internal/config"
	"github.com/MKhiriev/go-task-keeper/internal/logger"
	"github.com/MKhiriev/go-task-keeper/internal/utils"
	"github.com/MKhiriev/go-task-keeper/models"
)

// authService issues and validates stub bearer tokens. There are no accounts
// and no credential check: any client may request a token, and the token only
// proves it went through the issue endpoint. When no sign key is configured
// the service reports itself disabled and the API is open.
type authService struct {
	tokenSignKey  string
	tokenIssuer   string
	tokenDuration time.Duration
	logger        *logger.Logger
}

func NewAuthService(appCfg config.App, logger *logger.Logger) AuthService {
	tokenDuration := appCfg.TokenDuration
	if tokenDuration <= 0 {
		tokenDuration = 24 * time.Hour
	}
	tokenIssuer := appCfg.TokenIssuer
	if tokenIssuer == "" {
		tokenIssuer = "go-task-keeper"
	}

	return &authService{
		tokenSignKey:  appCfg.TokenSignKey,
		tokenIssuer:   tokenIssuer,
		tokenDuration: tokenDuration,
		logger:        logger,
	}
}

// Enabled implements [AuthService].
func (s *authService) Enabled() bool {
	return s.tokenSignKey != ""
}

// IssueToken implements [AuthService].
func (s *authService) IssueToken(ctx context.Context) (models.TokenResponse, error) {
	if !s.Enabled() {
		return models.TokenResponse{}, ErrTokenNotConfigured
	}

	token, err := utils.GenerateJWTToken(s.tokenIssuer, s.tokenDuration, s.tokenSignKey)
	if err != nil {
		logger.FromContext(ctx).Err(err).Str("func", "authService.IssueToken").Msg("failed to sign token")
		return models.TokenResponse{}, fmt.Errorf("sign token: %w", err)
	}

	return models.TokenResponse{AccessToken: token}, nil
}

// ValidateToken implements [AuthService].
func (s *authService) ValidateToken(_ context.Context, token string) error {
	if !s.Enabled() {
		return nil
	}

	if err := utils.ValidateJWTToken(token, s.tokenSignKey, s.tokenIssuer); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}
	return nil
}
