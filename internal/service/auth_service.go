package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gammacrm/internal/dto"
	"gammacrm/internal/model"
	"gammacrm/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Claims is the JWT payload carried by access and refresh tokens.
type Claims struct {
	UserID   string `json:"uid"`
	Username string `json:"username"`
	Role     string `json:"role"`
	Refresh  bool   `json:"refresh,omitempty"`
	jwt.RegisteredClaims
}

// AuthService issues JWTs and manages system users.
type AuthService struct {
	users        repository.UserRepository
	secret       []byte
	accessTTL    time.Duration
	refreshTTL   time.Duration
	log          zerolog.Logger
}

func NewAuthService(users repository.UserRepository, secret string, accessTTL, refreshTTL time.Duration, log zerolog.Logger) *AuthService {
	return &AuthService{
		users:      users,
		secret:     []byte(secret),
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		log:        log,
	}
}

// Login verifies credentials against the stored bcrypt hash and returns
// an access/refresh token pair. Inactive users cannot log in.
func (s *AuthService) Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error) {
	u, err := s.users.FindByUsername(ctx, req.Username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(req.Password)) != nil {
		s.log.Warn().Str("username", req.Username).Msg("failed login attempt")
		return nil, ErrInvalidCredentials
	}
	return s.tokenPair(u)
}

// Refresh exchanges a valid refresh token for a fresh pair.
func (s *AuthService) Refresh(ctx context.Context, req dto.RefreshRequest) (*dto.LoginResponse, error) {
	claims, err := s.ParseToken(req.RefreshToken)
	if err != nil || !claims.Refresh {
		return nil, ErrInvalidCredentials
	}
	id, err := uuid.Parse(claims.UserID)
	if err != nil {
		return nil, ErrInvalidCredentials
	}
	u, err := s.users.FindByID(ctx, id)
	if err != nil || !u.Active {
		return nil, ErrInvalidCredentials
	}
	return s.tokenPair(u)
}

// ParseToken validates a token's signature and expiry.
func (s *AuthService) ParseToken(token string) (*Claims, error) {
	parsed, err := jwt.ParseWithClaims(token, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil {
		return nil, err
	}
	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, errors.New("invalid token")
	}
	return claims, nil
}

func (s *AuthService) tokenPair(u *model.User) (*dto.LoginResponse, error) {
	access, err := s.signToken(u, s.accessTTL, false)
	if err != nil {
		return nil, err
	}
	refresh, err := s.signToken(u, s.refreshTTL, true)
	if err != nil {
		return nil, err
	}
	return &dto.LoginResponse{
		AccessToken:  access,
		RefreshToken: refresh,
		TokenType:    "Bearer",
		ExpiresIn:    int(s.accessTTL.Seconds()),
		User:         userToResponse(u),
	}, nil
}

func (s *AuthService) signToken(u *model.User, ttl time.Duration, refresh bool) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID:   u.ID.String(),
		Username: u.Username,
		Role:     u.Role,
		Refresh:  refresh,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

// ─── User management (admin surface) ─────────────────────────────────────────

func (s *AuthService) CreateUser(ctx context.Context, req dto.CreateUserRequest) (*dto.UserResponse, error) {
	if _, err := s.users.FindByUsername(ctx, req.Username); err == nil {
		return nil, ErrUsernameTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	u := &model.User{
		Username:     req.Username,
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: string(hash),
		Role:         req.Role,
		Active:       true,
	}
	if err := s.users.Create(ctx, u); err != nil {
		return nil, err
	}
	resp := userToResponse(u)
	return &resp, nil
}

func (s *AuthService) ListUsers(ctx context.Context, includeInactive bool) ([]dto.UserResponse, error) {
	var (
		users []model.User
		err   error
	)
	if includeInactive {
		users, err = s.users.ListAll(ctx)
	} else {
		users, err = s.users.List(ctx)
	}
	if err != nil {
		return nil, err
	}
	out := make([]dto.UserResponse, 0, len(users))
	for i := range users {
		out = append(out, userToResponse(&users[i]))
	}
	return out, nil
}

func (s *AuthService) UpdateUser(ctx context.Context, id uuid.UUID, req dto.UpdateUserRequest) (*dto.UserResponse, error) {
	u, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err)
	}
	if req.Name != "" {
		u.Name = req.Name
	}
	if req.Email != nil {
		u.Email = req.Email
	}
	if req.Role != "" {
		u.Role = req.Role
	}
	if req.Password != "" {
		hash, herr := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if herr != nil {
			return nil, herr
		}
		u.PasswordHash = string(hash)
	}
	if err := s.users.Update(ctx, u); err != nil {
		return nil, err
	}
	resp := userToResponse(u)
	return &resp, nil
}

func (s *AuthService) DeactivateUser(ctx context.Context, id uuid.UUID) error {
	if _, err := s.users.FindByID(ctx, id); err != nil {
		return notFoundOr(err)
	}
	return s.users.SoftDelete(ctx, id)
}

func (s *AuthService) ReactivateUser(ctx context.Context, id uuid.UUID) error {
	if _, err := s.users.FindByID(ctx, id); err != nil {
		return notFoundOr(err)
	}
	return s.users.Reactivate(ctx, id)
}

func userToResponse(u *model.User) dto.UserResponse {
	return dto.UserResponse{
		ID:       u.ID.String(),
		Username: u.Username,
		Name:     u.Name,
		Email:    u.Email,
		Role:     u.Role,
		Active:   u.Active,
	}
}
