package services

import (
	"context"
	"crypto/subtle"
	"fmt"
	"log/slog"
	"time"

	"github.com/SscSPs/etracking_app/internal/apperrors"
	portssvc "github.com/SscSPs/etracking_app/internal/core/ports/services"
	"github.com/SscSPs/etracking_app/internal/dto"
	"github.com/SscSPs/etracking_app/internal/platform/config"
	"github.com/SscSPs/etracking_app/internal/utils"
)

// authService logs in the single configured operator.
type authService struct {
	BaseService
	cfg *config.Config
}

// NewAuthService creates an operator login service.
func NewAuthService(cfg *config.Config) portssvc.AuthSvcFacade {
	return &authService{cfg: cfg}
}

func (s *authService) Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error) {
	userOK := subtle.ConstantTimeCompare([]byte(req.Username), []byte(s.cfg.OperatorUsername)) == 1
	if !userOK || s.cfg.OperatorPasswordHash == "" || !utils.CheckPasswordHash(req.Password, s.cfg.OperatorPasswordHash) {
		s.GetLogger(ctx).Warn("Rejected operator login", slog.String("username", req.Username))
		return nil, apperrors.ErrUnauthorized
	}

	expiresAt := time.Now().Add(s.cfg.JWTExpiryDuration)
	token, err := utils.GenerateJWT(req.Username, s.cfg.JWTSecret, s.cfg.JWTExpiryDuration, s.cfg.JWTIssuer)
	if err != nil {
		s.LogError(ctx, err, "Failed to generate access token")
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}

	s.LogInfo(ctx, "Operator logged in", slog.String("operator", req.Username))
	return &dto.LoginResponse{Token: token, ExpiresAt: expiresAt}, nil
}
