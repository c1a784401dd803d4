package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/campuslink/alumni-hub-api/internal/models"
	appErrors "github.com/campuslink/alumni-hub-api/pkg/errors"
)

type mockAuthUserRepo struct {
	usersByEmail map[string]models.User
	usersByID    map[string]models.User
	created      *models.User
	tokens       map[string]models.RefreshToken
	revoked      []string
	auditLogs    []models.AuditLog
}

func (m *mockAuthUserRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	if u, ok := m.usersByEmail[email]; ok {
		return &u, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockAuthUserRepo) FindByID(ctx context.Context, id string) (*models.User, error) {
	if u, ok := m.usersByID[id]; ok {
		return &u, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockAuthUserRepo) Create(ctx context.Context, user *models.User) error {
	if user.ID == "" {
		user.ID = "new-user"
	}
	m.created = user
	return nil
}

func (m *mockAuthUserRepo) UpdatePassword(ctx context.Context, id, passwordHash string, updatedAt time.Time) error {
	return nil
}

func (m *mockAuthUserRepo) RevokeUserRefreshTokens(ctx context.Context, userID string) error {
	m.revoked = append(m.revoked, userID)
	return nil
}

func (m *mockAuthUserRepo) CreateRefreshToken(ctx context.Context, token *models.RefreshToken) error {
	if m.tokens == nil {
		m.tokens = make(map[string]models.RefreshToken)
	}
	m.tokens[token.Token] = *token
	return nil
}

func (m *mockAuthUserRepo) FindRefreshToken(ctx context.Context, token string) (*models.RefreshToken, error) {
	if t, ok := m.tokens[token]; ok {
		return &t, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockAuthUserRepo) RevokeRefreshToken(ctx context.Context, id string, revokedAt time.Time) error {
	return nil
}

func (m *mockAuthUserRepo) CreateAuditLog(ctx context.Context, log *models.AuditLog) error {
	m.auditLogs = append(m.auditLogs, *log)
	return nil
}

type mockAuthProfileRepo struct {
	profiles map[string]models.AlumniProfile
}

func (m *mockAuthProfileRepo) FindByUserID(ctx context.Context, userID string) (*models.AlumniProfile, error) {
	if p, ok := m.profiles[userID]; ok {
		return &p, nil
	}
	return nil, sql.ErrNoRows
}

func testAuthConfig() AuthConfig {
	return AuthConfig{
		AccessTokenSecret:  "test-secret",
		AccessTokenExpiry:  15 * time.Minute,
		RefreshTokenExpiry: 24 * time.Hour,
		Issuer:             "alumni-hub-test",
	}
}

func hashPassword(t *testing.T, plain string) string {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.MinCost)
	require.NoError(t, err)
	return string(hash)
}

func TestAuthServiceSignupCreatesUnverifiedAlumni(t *testing.T) {
	repo := &mockAuthUserRepo{}
	svc := NewAuthService(repo, &mockAuthProfileRepo{}, nil, nil, testAuthConfig())

	info, err := svc.Signup(context.Background(), models.SignupRequest{Email: "New@Example.com", Password: "secret1"})
	require.NoError(t, err)
	assert.Equal(t, models.RoleAlumni, info.Role)
	assert.False(t, info.Verified)
	require.NotNil(t, repo.created)
	assert.Equal(t, "new@example.com", repo.created.Email)
	assert.NotEqual(t, "secret1", repo.created.PasswordHash)
}

func TestAuthServiceSignupDuplicateEmail(t *testing.T) {
	repo := &mockAuthUserRepo{usersByEmail: map[string]models.User{
		"taken@example.com": {ID: "usr-1", Email: "taken@example.com"},
	}}
	svc := NewAuthService(repo, &mockAuthProfileRepo{}, nil, nil, testAuthConfig())

	_, err := svc.Signup(context.Background(), models.SignupRequest{Email: "taken@example.com", Password: "secret1"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrConflict.Code, appErrors.FromError(err).Code)
}

func TestAuthServiceLoginRejectsUnverifiedAlumni(t *testing.T) {
	repo := &mockAuthUserRepo{usersByEmail: map[string]models.User{
		"budi@example.com": {
			ID:           "usr-1",
			Email:        "budi@example.com",
			PasswordHash: hashPassword(t, "secret1"),
			Role:         models.RoleAlumni,
			Verified:     false,
		},
	}}
	svc := NewAuthService(repo, &mockAuthProfileRepo{}, nil, nil, testAuthConfig())

	_, err := svc.Login(context.Background(), models.LoginRequest{Email: "budi@example.com", Password: "secret1"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrUnverifiedAccount.Code, appErrors.FromError(err).Code)
}

func TestAuthServiceLoginReportsProfileCompleteness(t *testing.T) {
	user := models.User{
		ID:           "usr-1",
		Email:        "budi@example.com",
		PasswordHash: hashPassword(t, "secret1"),
		Role:         models.RoleAlumni,
		Verified:     true,
	}
	repo := &mockAuthUserRepo{usersByEmail: map[string]models.User{user.Email: user}}

	svcWithout := NewAuthService(repo, &mockAuthProfileRepo{}, nil, nil, testAuthConfig())
	resp, err := svcWithout.Login(context.Background(), models.LoginRequest{Email: user.Email, Password: "secret1"})
	require.NoError(t, err)
	assert.False(t, resp.ProfileComplete)
	assert.NotEmpty(t, resp.AccessToken)
	assert.NotEmpty(t, resp.RefreshToken)

	profiles := &mockAuthProfileRepo{profiles: map[string]models.AlumniProfile{
		"usr-1": {ID: "prf-1", UserID: "usr-1", Name: "Budi"},
	}}
	svcWith := NewAuthService(repo, profiles, nil, nil, testAuthConfig())
	resp, err = svcWith.Login(context.Background(), models.LoginRequest{Email: user.Email, Password: "secret1"})
	require.NoError(t, err)
	assert.True(t, resp.ProfileComplete)
}

func TestAuthServiceLoginWrongPassword(t *testing.T) {
	repo := &mockAuthUserRepo{usersByEmail: map[string]models.User{
		"budi@example.com": {
			ID:           "usr-1",
			Email:        "budi@example.com",
			PasswordHash: hashPassword(t, "secret1"),
			Role:         models.RoleAlumni,
			Verified:     true,
		},
	}}
	svc := NewAuthService(repo, &mockAuthProfileRepo{}, nil, nil, testAuthConfig())

	_, err := svc.Login(context.Background(), models.LoginRequest{Email: "budi@example.com", Password: "wrong"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInvalidCredentials.Code, appErrors.FromError(err).Code)
}

func TestAuthServiceValidateTokenRoundTrip(t *testing.T) {
	user := models.User{
		ID:           "adm-1",
		Email:        "admin@example.com",
		PasswordHash: hashPassword(t, "secret1"),
		Role:         models.RoleAdmin,
		Verified:     true,
	}
	repo := &mockAuthUserRepo{usersByEmail: map[string]models.User{user.Email: user}}
	svc := NewAuthService(repo, &mockAuthProfileRepo{}, nil, nil, testAuthConfig())

	resp, err := svc.Login(context.Background(), models.LoginRequest{Email: user.Email, Password: "secret1"})
	require.NoError(t, err)

	claims, err := svc.ValidateToken(resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "adm-1", claims.UserID)
	assert.Equal(t, models.RoleAdmin, claims.Role)
	assert.True(t, resp.ProfileComplete, "admins never need a profile")
}
