package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/campuslink/alumni-hub-api/internal/models"
	appErrors "github.com/campuslink/alumni-hub-api/pkg/errors"
)

type adminUserRepository interface {
	FindByID(ctx context.Context, id string) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	Create(ctx context.Context, user *models.User) error
	SetVerified(ctx context.Context, id string, verified bool) error
	DeleteAlumnus(ctx context.Context, userID string) error
	CountByRole(ctx context.Context, role models.UserRole, verified *bool) (int, error)
	ListPendingVerification(ctx context.Context, limit int) ([]models.PendingAlumnus, error)
	RevokeUserRefreshTokens(ctx context.Context, userID string) error
	CreateAuditLog(ctx context.Context, log *models.AuditLog) error
}

// UserService covers admin account management: verification and removal of
// alumni accounts.
type UserService struct {
	repo   adminUserRepository
	logger *zap.Logger
}

// NewUserService constructs the service.
func NewUserService(repo adminUserRepository, logger *zap.Logger) *UserService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UserService{repo: repo, logger: logger}
}

// AddAlumnusRequest is the admin account-creation payload.
type AddAlumnusRequest struct {
	Email      string `json:"email" validate:"required,email"`
	Password   string `json:"password" validate:"required,min=8"`
	AutoVerify bool   `json:"auto_verify"`
}

// AddAlumnus creates an alumni account on behalf of an administrator,
// optionally verified immediately so the alumnus can log in at once.
func (s *UserService) AddAlumnus(ctx context.Context, adminID string, req AddAlumnusRequest) (*models.UserInfo, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" || len(req.Password) < 8 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "email and a password of at least 8 characters are required")
	}
	if _, err := s.repo.FindByEmail(ctx, email); err == nil {
		return nil, appErrors.Clone(appErrors.ErrConflict, "email already registered")
	} else if !errors.Is(err, sql.ErrNoRows) {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check existing account")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to hash password")
	}

	user := &models.User{
		Email:        email,
		PasswordHash: string(hash),
		Role:         models.RoleAlumni,
		Verified:     req.AutoVerify,
	}
	if err := s.repo.Create(ctx, user); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create account")
	}

	if err := s.repo.CreateAuditLog(ctx, &models.AuditLog{
		UserID:     &adminID,
		Action:     models.AuditActionUserCreate,
		Resource:   "user",
		ResourceID: &user.ID,
	}); err != nil {
		s.logger.Warn("failed to record account creation audit log", zap.Error(err))
	}

	return &models.UserInfo{ID: user.ID, Email: user.Email, Role: user.Role, Verified: user.Verified}, nil
}

// VerifyAlumnus marks an alumni account as verified, unlocking login.
func (s *UserService) VerifyAlumnus(ctx context.Context, userID, adminID string) error {
	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "user not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load user")
	}
	if user.Role != models.RoleAlumni {
		return appErrors.Clone(appErrors.ErrValidation, "only alumni accounts require verification")
	}
	if user.Verified {
		return appErrors.Clone(appErrors.ErrConflict, "account already verified")
	}
	if err := s.repo.SetVerified(ctx, userID, true); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to verify account")
	}
	if err := s.repo.CreateAuditLog(ctx, &models.AuditLog{
		UserID:     &adminID,
		Action:     models.AuditActionAlumniVerify,
		Resource:   "user",
		ResourceID: &userID,
		NewValues:  []byte(`{"verified":true}`),
	}); err != nil {
		s.logger.Warn("failed to record verification audit log", zap.Error(err))
	}
	return nil
}

// RemoveAlumnus deletes an alumni account and its profile, revoking any
// active sessions first.
func (s *UserService) RemoveAlumnus(ctx context.Context, userID, adminID string) error {
	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "user not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load user")
	}
	if user.Role != models.RoleAlumni {
		return appErrors.Clone(appErrors.ErrForbidden, "only alumni accounts can be removed")
	}
	if err := s.repo.RevokeUserRefreshTokens(ctx, userID); err != nil {
		s.logger.Warn("failed to revoke sessions before removal", zap.Error(err))
	}
	if err := s.repo.DeleteAlumnus(ctx, userID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "user not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to remove account")
	}
	if err := s.repo.CreateAuditLog(ctx, &models.AuditLog{
		UserID:     &adminID,
		Action:     models.AuditActionUserDelete,
		Resource:   "user",
		ResourceID: &userID,
	}); err != nil {
		s.logger.Warn("failed to record removal audit log", zap.Error(err))
	}
	return nil
}

// PendingVerification lists the newest unverified alumni accounts.
func (s *UserService) PendingVerification(ctx context.Context, limit int) ([]models.PendingAlumnus, error) {
	pending, err := s.repo.ListPendingVerification(ctx, limit)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list pending accounts")
	}
	return pending, nil
}
