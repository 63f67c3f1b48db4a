package services

import (
	"errors"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"visitor-backend/models"
)

func newTestAuthService(t *testing.T) *AuthService {
	t.Helper()
	db := newTestDB(t)

	hash, err := bcrypt.GenerateFromPassword([]byte("secret123"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	admin := models.Admin{FullName: "Admin User", Username: "admin@kiosk.local", Password: string(hash)}
	if err := db.Create(&admin).Error; err != nil {
		t.Fatalf("seed admin: %v", err)
	}

	// Token validation compares expiry against the wall clock, so the
	// issuing clock stays real time here.
	return NewAuthService(db, "test-secret")
}

func TestLoginIssuesValidToken(t *testing.T) {
	svc := newTestAuthService(t)

	token, admin, err := svc.Login("admin@kiosk.local", "secret123")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if admin.Username != "admin@kiosk.local" {
		t.Errorf("admin = %q", admin.Username)
	}

	claims, err := svc.ValidateToken(token)
	if err != nil {
		t.Fatalf("ValidateToken: %v", err)
	}
	if claims.AdminID != admin.ID || claims.Username != admin.Username {
		t.Errorf("claims = %+v", claims)
	}
}

func TestLoginRejectsBadPassword(t *testing.T) {
	svc := newTestAuthService(t)

	if _, _, err := svc.Login("admin@kiosk.local", "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("bad password err = %v, want ErrInvalidCredentials", err)
	}
	if _, _, err := svc.Login("nobody@kiosk.local", "secret123"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("unknown user err = %v, want ErrInvalidCredentials", err)
	}

	var vErr *ValidationError
	if _, _, err := svc.Login("", "secret123"); !errors.As(err, &vErr) {
		t.Errorf("empty username err = %v, want ValidationError", err)
	}
}

func TestValidateTokenRejectsExpired(t *testing.T) {
	svc := newTestAuthService(t)

	token, _, err := svc.Login("admin@kiosk.local", "secret123")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}

	// jwt validation uses the wall clock; an old IssuedAt makes the token
	// already expired when checked now.
	svc.Now = func() time.Time { return time.Now().Add(-48 * time.Hour) }
	expired, _, err := svc.Login("admin@kiosk.local", "secret123")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if _, err := svc.ValidateToken(expired); err == nil {
		t.Error("expired token must not validate")
	}

	if _, err := svc.ValidateToken(token + "x"); err == nil {
		t.Error("tampered token must not validate")
	}
}

func TestValidateTokenRejectsWrongSecret(t *testing.T) {
	svc := newTestAuthService(t)

	token, _, err := svc.Login("admin@kiosk.local", "secret123")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}

	other := &AuthService{DB: svc.DB, Secret: []byte("other-secret"), Now: svc.Now}
	if _, err := other.ValidateToken(token); err == nil {
		t.Error("token signed with a different secret must not validate")
	}
}
