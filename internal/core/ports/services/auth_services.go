package services

import (
	"context"

	"github.com/SscSPs/etracking_app/internal/dto"
)

// AuthSvcFacade handles operator login.
type AuthSvcFacade interface {
	// Login checks the operator credentials and issues an access token.
	Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error)
}
