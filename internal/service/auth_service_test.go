package service

import (
	"context"
	"testing"
	"time"

	"gammacrm/internal/dto"
	"gammacrm/internal/model"
	"gammacrm/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type stubUserRepo struct {
	users map[uuid.UUID]*model.User
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[uuid.UUID]*model.User)}
}

func (r *stubUserRepo) Create(_ context.Context, u *model.User) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	r.users[u.ID] = u
	return nil
}

func (r *stubUserRepo) FindByID(_ context.Context, id uuid.UUID) (*model.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return u, nil
}

func (r *stubUserRepo) FindByUsername(_ context.Context, username string) (*model.User, error) {
	for _, u := range r.users {
		if u.Username == username && u.Active {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubUserRepo) List(_ context.Context) ([]model.User, error) {
	var out []model.User
	for _, u := range r.users {
		if u.Active {
			out = append(out, *u)
		}
	}
	return out, nil
}

func (r *stubUserRepo) ListAll(_ context.Context) ([]model.User, error) {
	var out []model.User
	for _, u := range r.users {
		out = append(out, *u)
	}
	return out, nil
}

func (r *stubUserRepo) Update(_ context.Context, u *model.User) error {
	r.users[u.ID] = u
	return nil
}

func (r *stubUserRepo) SoftDelete(_ context.Context, id uuid.UUID) error {
	if u, ok := r.users[id]; ok {
		u.Active = false
	}
	return nil
}

func (r *stubUserRepo) Reactivate(_ context.Context, id uuid.UUID) error {
	if u, ok := r.users[id]; ok {
		u.Active = true
	}
	return nil
}

var _ repository.UserRepository = (*stubUserRepo)(nil)

func newAuthFixture(t *testing.T) (*AuthService, *stubUserRepo) {
	t.Helper()
	repo := newStubUserRepo()
	svc := NewAuthService(repo, "test-secret", time.Hour, 24*time.Hour, zerolog.Nop())
	return svc, repo
}

func seedUser(t *testing.T, repo *stubUserRepo, username, password, role string, active bool) *model.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	u := &model.User{
		ID:           uuid.New(),
		Username:     username,
		Name:         "Test User",
		PasswordHash: string(hash),
		Role:         role,
		Active:       active,
	}
	repo.users[u.ID] = u
	return u
}

func TestLogin_Success(t *testing.T) {
	svc, repo := newAuthFixture(t)
	seedUser(t, repo, "advisor1", "secret123", "advisor", true)

	resp, err := svc.Login(context.Background(), dto.LoginRequest{Username: "advisor1", Password: "secret123"})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)
	assert.NotEmpty(t, resp.RefreshToken)
	assert.Equal(t, "Bearer", resp.TokenType)
	assert.Equal(t, "advisor", resp.User.Role)

	claims, err := svc.ParseToken(resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "advisor1", claims.Username)
	assert.False(t, claims.Refresh)
}

func TestLogin_WrongPassword(t *testing.T) {
	svc, repo := newAuthFixture(t)
	seedUser(t, repo, "advisor1", "secret123", "advisor", true)

	_, err := svc.Login(context.Background(), dto.LoginRequest{Username: "advisor1", Password: "wrong"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLogin_InactiveUser(t *testing.T) {
	svc, repo := newAuthFixture(t)
	seedUser(t, repo, "former", "secret123", "manager", false)

	_, err := svc.Login(context.Background(), dto.LoginRequest{Username: "former", Password: "secret123"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestRefresh_IssuesNewPair(t *testing.T) {
	svc, repo := newAuthFixture(t)
	seedUser(t, repo, "manager1", "secret123", "manager", true)

	login, err := svc.Login(context.Background(), dto.LoginRequest{Username: "manager1", Password: "secret123"})
	require.NoError(t, err)

	refreshed, err := svc.Refresh(context.Background(), dto.RefreshRequest{RefreshToken: login.RefreshToken})
	require.NoError(t, err)
	assert.NotEmpty(t, refreshed.AccessToken)
}

func TestRefresh_RejectsAccessToken(t *testing.T) {
	svc, repo := newAuthFixture(t)
	seedUser(t, repo, "manager1", "secret123", "manager", true)

	login, err := svc.Login(context.Background(), dto.LoginRequest{Username: "manager1", Password: "secret123"})
	require.NoError(t, err)

	// An access token must not pass for a refresh token.
	_, err = svc.Refresh(context.Background(), dto.RefreshRequest{RefreshToken: login.AccessToken})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestRefresh_RejectsDeactivatedUser(t *testing.T) {
	svc, repo := newAuthFixture(t)
	u := seedUser(t, repo, "manager1", "secret123", "manager", true)

	login, err := svc.Login(context.Background(), dto.LoginRequest{Username: "manager1", Password: "secret123"})
	require.NoError(t, err)

	require.NoError(t, repo.SoftDelete(context.Background(), u.ID))
	_, err = svc.Refresh(context.Background(), dto.RefreshRequest{RefreshToken: login.RefreshToken})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestCreateUser_DuplicateUsername(t *testing.T) {
	svc, repo := newAuthFixture(t)
	seedUser(t, repo, "advisor1", "secret123", "advisor", true)

	_, err := svc.CreateUser(context.Background(), dto.CreateUserRequest{
		Username: "advisor1",
		Name:     "Second Advisor",
		Password: "password1",
		Role:     "advisor",
	})
	assert.ErrorIs(t, err, ErrUsernameTaken)
}

func TestCreateUser_HashesPassword(t *testing.T) {
	svc, repo := newAuthFixture(t)

	resp, err := svc.CreateUser(context.Background(), dto.CreateUserRequest{
		Username: "newuser",
		Name:     "New User",
		Password: "plaintext1",
		Role:     "advisor",
	})
	require.NoError(t, err)

	stored, err := repo.FindByID(context.Background(), uuid.MustParse(resp.ID))
	require.NoError(t, err)
	assert.NotEqual(t, "plaintext1", stored.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("plaintext1")))
}
