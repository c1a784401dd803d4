package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campuslink/alumni-hub-api/internal/models"
	appErrors "github.com/campuslink/alumni-hub-api/pkg/errors"
)

type mockProfileRepo struct {
	profiles map[string]models.AlumniProfile
	created  *models.AlumniProfile
	updated  *models.AlumniProfile
}

func (m *mockProfileRepo) FindByUserID(ctx context.Context, userID string) (*models.AlumniProfile, error) {
	if p, ok := m.profiles[userID]; ok {
		return &p, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockProfileRepo) Create(ctx context.Context, profile *models.AlumniProfile) error {
	if profile.ID == "" {
		profile.ID = "new-profile"
	}
	m.created = profile
	return nil
}

func (m *mockProfileRepo) Update(ctx context.Context, profile *models.AlumniProfile) error {
	m.updated = profile
	return nil
}

func (m *mockProfileRepo) SearchDirectory(ctx context.Context, filter models.DirectoryFilter) ([]models.ProfileWithEmail, error) {
	return nil, nil
}

func (m *mockProfileRepo) ListForAdmin(ctx context.Context) ([]models.AdminProfileView, error) {
	return nil, nil
}

func (m *mockProfileRepo) ListMentors(ctx context.Context) ([]models.ProfileWithEmail, error) {
	return nil, nil
}

func (m *mockProfileRepo) DistinctBatchYears(ctx context.Context) ([]int, error) {
	return []int{2018}, nil
}

func (m *mockProfileRepo) DistinctDepartments(ctx context.Context) ([]string, error) {
	return []string{"Computer Science"}, nil
}

func TestProfileServiceSaveCreatesThenUpdates(t *testing.T) {
	repo := &mockProfileRepo{profiles: map[string]models.AlumniProfile{}}
	svc := NewProfileService(repo, nil, nil)

	created, err := svc.Save(context.Background(), "usr-1", SaveProfileRequest{Name: "Budi Santoso"})
	require.NoError(t, err)
	require.NotNil(t, repo.created)
	assert.Equal(t, models.PrivacyPublic, created.PrivacyLevel)

	repo.profiles["usr-1"] = *created
	updated, err := svc.Save(context.Background(), "usr-1", SaveProfileRequest{
		Name:         "Budi Santoso",
		PrivacyLevel: "private",
	})
	require.NoError(t, err)
	require.NotNil(t, repo.updated)
	assert.Equal(t, models.PrivacyPrivate, updated.PrivacyLevel)
}

func TestProfileServiceLinkedinValidation(t *testing.T) {
	tests := []struct {
		name    string
		url     string
		wantErr bool
	}{
		{"personal profile", "https://linkedin.com/in/budi-santoso", false},
		{"www prefix", "https://www.linkedin.com/in/budi", false},
		{"trailing slash", "https://linkedin.com/in/budi/", false},
		{"company page", "https://linkedin.com/company/acme", true},
		{"plain http", "http://linkedin.com/in/budi", true},
		{"not linkedin", "https://example.com/in/budi", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &mockProfileRepo{profiles: map[string]models.AlumniProfile{}}
			svc := NewProfileService(repo, nil, nil)

			url := tt.url
			_, err := svc.Save(context.Background(), "usr-1", SaveProfileRequest{Name: "Budi", LinkedinURL: &url})
			if tt.wantErr {
				require.Error(t, err)
				assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestProfileServiceSaveRejectsUnknownPrivacyLevel(t *testing.T) {
	repo := &mockProfileRepo{profiles: map[string]models.AlumniProfile{}}
	svc := NewProfileService(repo, nil, nil)

	_, err := svc.Save(context.Background(), "usr-1", SaveProfileRequest{Name: "Budi", PrivacyLevel: "friends"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestProfileServiceAttachFiles(t *testing.T) {
	repo := &mockProfileRepo{profiles: map[string]models.AlumniProfile{
		"usr-1": {ID: "prf-1", UserID: "usr-1", Name: "Budi"},
	}}
	svc := NewProfileService(repo, nil, nil)

	picture := "uploads/profile_pics/usr-1.png"
	profile, err := svc.AttachFiles(context.Background(), "usr-1", &picture, nil)
	require.NoError(t, err)
	require.NotNil(t, profile.ProfilePicture)
	assert.Equal(t, picture, *profile.ProfilePicture)
	assert.Nil(t, profile.CVFile)
}
