package admins

import (
	"context"
	"errors"
	"strings"
	"time"

	pkgauth "github.com/danhewitt/motorline-backend/pkg/auth"
	"github.com/danhewitt/motorline-backend/pkg/config"
	"github.com/danhewitt/motorline-backend/pkg/db/models"
	pkgerrors "github.com/danhewitt/motorline-backend/pkg/errors"
	"github.com/danhewitt/motorline-backend/pkg/security"
	"gorm.io/gorm"
)

// AdminDTO is the admin user payload returned after login.
type AdminDTO struct {
	ID        int64  `json:"id"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// LoginResult bundles the minted token with the admin profile.
type LoginResult struct {
	Token string   `json:"token"`
	Admin AdminDTO `json:"admin"`
}

// CreateAdminInput carries the fields to provision a panel user.
type CreateAdminInput struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
}

// Service exposes admin authentication and provisioning.
type Service interface {
	Login(ctx context.Context, email, password string) (*LoginResult, error)
	CreateAdmin(ctx context.Context, input CreateAdminInput) (*AdminDTO, error)
}

// ServiceParams groups dependencies for the admins service.
type ServiceParams struct {
	Repo        *Repository
	JWTConfig   config.JWTConfig
	PasswordCfg config.PasswordConfig
}

type service struct {
	repo        *Repository
	jwtConfig   config.JWTConfig
	passwordCfg config.PasswordConfig
	now         func() time.Time
}

// NewService builds an admins service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "admins repo is required")
	}
	if params.JWTConfig.Secret == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "jwt secret is required")
	}
	return &service{
		repo:        params.Repo,
		jwtConfig:   params.JWTConfig,
		passwordCfg: params.PasswordCfg,
		now:         time.Now,
	}, nil
}

// Login verifies credentials and mints an access token. Bad email, bad
// password, and disabled accounts all surface the same unauthorized error.
func (s *service) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "email and password are required")
	}

	admin, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid credentials")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load admin")
	}
	if !admin.IsActive {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid credentials")
	}

	ok, err := security.VerifyPassword(password, admin.PasswordHash)
	if err != nil || !ok {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid credentials")
	}

	token, err := pkgauth.MintAccessToken(s.jwtConfig, s.now().UTC(), pkgauth.AccessTokenPayload{
		AdminID: admin.ID,
		Email:   admin.Email,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint access token")
	}

	return &LoginResult{
		Token: token,
		Admin: toDTO(admin),
	}, nil
}

// CreateAdmin hashes the password and inserts the panel user.
func (s *service) CreateAdmin(ctx context.Context, input CreateAdminInput) (*AdminDTO, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if email == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "email is required")
	}
	if len(input.Password) < 8 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "password must be at least 8 characters")
	}

	hash, err := security.HashPassword(input.Password, s.passwordCfg)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
	}

	admin, err := s.repo.Create(ctx, &models.AdminUser{
		Email:        email,
		PasswordHash: hash,
		FirstName:    strings.TrimSpace(input.FirstName),
		LastName:     strings.TrimSpace(input.LastName),
		IsActive:     true,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create admin")
	}

	dto := toDTO(admin)
	return &dto, nil
}

func toDTO(admin *models.AdminUser) AdminDTO {
	return AdminDTO{
		ID:        admin.ID,
		Email:     admin.Email,
		FirstName: admin.FirstName,
		LastName:  admin.LastName,
	}
}
