package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"zlecenia/internal/pkg/jwt"
	"zlecenia/internal/repository"
)

type mockUserRepo struct {
	byEmail map[string]repository.User
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{byEmail: map[string]repository.User{}}
}

func (m *mockUserRepo) Create(_ context.Context, u repository.User) error {
	if _, ok := m.byEmail[u.Email]; ok {
		return repository.ErrEmailTaken
	}
	m.byEmail[u.Email] = u
	return nil
}

func (m *mockUserRepo) FindByEmail(_ context.Context, email string) (repository.User, error) {
	u, ok := m.byEmail[email]
	if !ok {
		return repository.User{}, repository.ErrUserNotFound
	}
	return u, nil
}

func (m *mockUserRepo) FindByID(_ context.Context, id uuid.UUID) (repository.User, error) {
	for _, u := range m.byEmail {
		if u.ID == id {
			return u, nil
		}
	}
	return repository.User{}, repository.ErrUserNotFound
}

type mergeRecorder struct {
	devices []string
}

func (m *mergeRecorder) MergeGuestIntoUser(_ context.Context, deviceID string, _ uuid.UUID) error {
	m.devices = append(m.devices, deviceID)
	return nil
}

func testJWT() jwt.Service {
	return jwt.NewHMACService("access-secret", "refresh-secret", 15*time.Minute, 24*time.Hour)
}

func TestRegister_Validation(t *testing.T) {
	uc := NewAuthUsecase(newMockUserRepo(), testJWT(), nil, nil)

	cases := []RegisterParams{
		{Email: "", Password: "long-enough", Role: "manager"},
		{Email: "not-an-email", Password: "long-enough", Role: "manager"},
		{Email: "a@b.pl", Password: "short", Role: "manager"},
		{Email: "a@b.pl", Password: "long-enough", Role: "admin"},
	}
	for _, params := range cases {
		if _, err := uc.Register(context.Background(), params); !errors.Is(err, ErrInvalidInput) {
			t.Fatalf("expected ErrInvalidInput for %+v, got %v", params, err)
		}
	}
}

func TestRegister_DuplicateEmail(t *testing.T) {
	uc := NewAuthUsecase(newMockUserRepo(), testJWT(), nil, nil)

	params := RegisterParams{Email: "a@b.pl", Password: "long-enough", Role: "contractor"}
	if _, err := uc.Register(context.Background(), params); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if _, err := uc.Register(context.Background(), params); !errors.Is(err, ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}
}

func TestLogin_RoundTripAndMerge(t *testing.T) {
	users := newMockUserRepo()
	merger := &mergeRecorder{}
	uc := NewAuthUsecase(users, testJWT(), merger, nil)

	if _, err := uc.Register(context.Background(), RegisterParams{
		Email: "a@b.pl", Password: "long-enough", Role: "manager",
	}); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}

	if _, err := uc.Login(context.Background(), "a@b.pl", "wrong-password", ""); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}

	pair, err := uc.Login(context.Background(), "A@B.PL", "long-enough", "dev-7")
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if pair.AccessToken == "" || pair.RefreshToken == "" {
		t.Fatalf("expected both tokens issued")
	}
	if len(merger.devices) != 1 || merger.devices[0] != "dev-7" {
		t.Fatalf("expected login to merge device dev-7 bookmarks, got %v", merger.devices)
	}

	claims, err := testJWT().ValidateToken(pair.AccessToken)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if claims.TokenType != jwt.TokenTypeAccess || claims.Email != "a@b.pl" || claims.Role != "manager" {
		t.Fatalf("unexpected claims %+v", claims)
	}
}

func TestRefresh_RejectsAccessToken(t *testing.T) {
	users := newMockUserRepo()
	uc := NewAuthUsecase(users, testJWT(), nil, nil)

	if _, err := uc.Register(context.Background(), RegisterParams{
		Email: "a@b.pl", Password: "long-enough", Role: "manager",
	}); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	pair, err := uc.Login(context.Background(), "a@b.pl", "long-enough", "")
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}

	if _, err := uc.Refresh(context.Background(), pair.AccessToken); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected access token to be rejected for refresh, got %v", err)
	}
	if _, err := uc.Refresh(context.Background(), pair.RefreshToken); err != nil {
		t.Fatalf("unexpected err refreshing: %v", err)
	}
}
