package usecase

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"zlecenia/internal/pkg/jwt"
	"zlecenia/internal/repository"
)

var ErrInvalidCredentials = errors.New("invalid credentials")

type RegisterParams struct {
	Email       string
	Password    string
	DisplayName string
	Role        string
}

type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

type bookmarkMerger interface {
	MergeGuestIntoUser(ctx context.Context, deviceID string, userID uuid.UUID) error
}

type AuthUsecase interface {
	Register(ctx context.Context, params RegisterParams) (repository.User, error)
	Login(ctx context.Context, email, password, deviceID string) (TokenPair, error)
	Refresh(ctx context.Context, refreshToken string) (TokenPair, error)
}

type Auth struct {
	users     repository.UserRepository
	jwt       jwt.Service
	bookmarks bookmarkMerger
	logger    *log.Logger
}

func NewAuthUsecase(users repository.UserRepository, jwtSvc jwt.Service, bookmarks bookmarkMerger, logger *log.Logger) *Auth {
	return &Auth{users: users, jwt: jwtSvc, bookmarks: bookmarks, logger: logger}
}

func (u *Auth) Register(ctx context.Context, params RegisterParams) (repository.User, error) {
	email := strings.ToLower(strings.TrimSpace(params.Email))
	if email == "" || !strings.Contains(email, "@") || len(params.Password) < 8 {
		return repository.User{}, ErrInvalidInput
	}
	role := strings.TrimSpace(params.Role)
	if role != "manager" && role != "contractor" {
		return repository.User{}, ErrInvalidInput
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(params.Password), bcrypt.DefaultCost)
	if err != nil {
		return repository.User{}, ErrInternal
	}

	user := repository.User{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: string(hash),
		DisplayName:  strings.TrimSpace(params.DisplayName),
		Role:         role,
		CreatedAt:    time.Now().UTC(),
	}
	if err := u.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrEmailTaken) {
			return repository.User{}, ErrConflict
		}
		return repository.User{}, ErrInternal
	}

	user.PasswordHash = ""
	return user, nil
}

// Login verifies credentials and, when the client supplied a device id,
// folds that device's guest bookmarks into the account.
func (u *Auth) Login(ctx context.Context, email, password, deviceID string) (TokenPair, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return TokenPair{}, ErrInvalidInput
	}

	user, err := u.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return TokenPair{}, ErrInvalidCredentials
		}
		return TokenPair{}, ErrInternal
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return TokenPair{}, ErrInvalidCredentials
	}

	if u.bookmarks != nil && strings.TrimSpace(deviceID) != "" {
		if err := u.bookmarks.MergeGuestIntoUser(ctx, deviceID, user.ID); err != nil && u.logger != nil {
			u.logger.Printf("[Auth] bookmark merge failed user=%s: %v", user.ID, err)
		}
	}

	return u.issueTokens(user)
}

func (u *Auth) Refresh(ctx context.Context, refreshToken string) (TokenPair, error) {
	claims, err := u.jwt.ValidateToken(refreshToken)
	if err != nil || claims.TokenType != jwt.TokenTypeRefresh {
		return TokenPair{}, ErrInvalidCredentials
	}

	user, err := u.users.FindByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return TokenPair{}, ErrInvalidCredentials
		}
		return TokenPair{}, ErrInternal
	}
	return u.issueTokens(user)
}

func (u *Auth) issueTokens(user repository.User) (TokenPair, error) {
	access, err := u.jwt.GenerateAccessToken(user.ID, user.Email, user.Role)
	if err != nil {
		return TokenPair{}, ErrInternal
	}
	refresh, err := u.jwt.GenerateRefreshToken(user.ID)
	if err != nil {
		return TokenPair{}, ErrInternal
	}
	return TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}
