package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"careerpilot/internal/pkg/jwt"
)

func newTestAuth(users *mockUserRepo) *Auth {
	svc := jwt.NewHMACService("access-secret", "refresh-secret", 15*time.Minute, 24*time.Hour)
	return NewAuthUsecase(users, svc)
}

func TestRegister_Success(t *testing.T) {
	users := &mockUserRepo{}
	uc := newTestAuth(users)

	usr, access, refresh, err := uc.Register(context.Background(), RegisterInput{
		Email:    "  User@Example.com ",
		Password: "supersecret",
	})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if usr.Email != "user@example.com" {
		t.Fatalf("expected normalized email, got %q", usr.Email)
	}
	if access == "" || refresh == "" {
		t.Fatalf("expected token pair")
	}
	if usr.PasswordHash == "supersecret" {
		t.Fatalf("password must be hashed")
	}
}

func TestRegister_DuplicateEmail(t *testing.T) {
	users := &mockUserRepo{}
	uc := newTestAuth(users)

	if _, _, _, err := uc.Register(context.Background(), RegisterInput{Email: "a@b.com", Password: "supersecret"}); err != nil {
		t.Fatalf("first register failed: %v", err)
	}
	_, _, _, err := uc.Register(context.Background(), RegisterInput{Email: "a@b.com", Password: "supersecret"})
	if !errors.Is(err, ErrEmailAlreadyRegistered) {
		t.Fatalf("expected ErrEmailAlreadyRegistered, got %v", err)
	}
}

func TestRegister_ShortPassword(t *testing.T) {
	uc := newTestAuth(&mockUserRepo{})
	_, _, _, err := uc.Register(context.Background(), RegisterInput{Email: "a@b.com", Password: "short"})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestLogin_WrongPassword(t *testing.T) {
	users := &mockUserRepo{}
	uc := newTestAuth(users)

	if _, _, _, err := uc.Register(context.Background(), RegisterInput{Email: "a@b.com", Password: "supersecret"}); err != nil {
		t.Fatalf("register failed: %v", err)
	}

	_, _, _, err := uc.Login(context.Background(), LoginInput{Email: "a@b.com", Password: "wrongwrong"})
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestLogin_UnknownEmail(t *testing.T) {
	uc := newTestAuth(&mockUserRepo{})
	_, _, _, err := uc.Login(context.Background(), LoginInput{Email: "nobody@b.com", Password: "supersecret"})
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestRefresh_RoundTrip(t *testing.T) {
	users := &mockUserRepo{}
	uc := newTestAuth(users)

	_, _, refresh, err := uc.Register(context.Background(), RegisterInput{Email: "a@b.com", Password: "supersecret"})
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}

	access2, refresh2, err := uc.Refresh(context.Background(), refresh)
	if err != nil {
		t.Fatalf("refresh failed: %v", err)
	}
	if access2 == "" || refresh2 == "" {
		t.Fatalf("expected new token pair")
	}
}

func TestRefresh_RejectsAccessToken(t *testing.T) {
	users := &mockUserRepo{}
	uc := newTestAuth(users)

	_, access, _, err := uc.Register(context.Background(), RegisterInput{Email: "a@b.com", Password: "supersecret"})
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}

	_, _, err = uc.Refresh(context.Background(), access)
	if !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized for an access token, got %v", err)
	}
}

func TestRefresh_Garbage(t *testing.T) {
	uc := newTestAuth(&mockUserRepo{})
	_, _, err := uc.Refresh(context.Background(), "not-a-token")
	if !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}
