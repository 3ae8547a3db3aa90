package service

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/modeva-next/internal/config"
	"github.com/modeva-next/internal/models"
	"github.com/modeva-next/internal/repository"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func setupUserAuthServiceTest(t *testing.T) (*UserAuthService, *gorm.DB) {
	t.Helper()
	dsn := fmt.Sprintf("file:user_auth_test_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(&models.User{}); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}
	models.DB = db

	cfg := &config.Config{}
	cfg.UserJWT.SecretKey = "test-user-secret"
	cfg.UserJWT.ExpireHours = 1
	cfg.Security.PasswordPolicy.MinLength = 8
	cfg.Security.PasswordPolicy.RequireNumber = true

	return NewUserAuthService(cfg, repository.NewUserRepository(db)), db
}

func TestRegisterAndLogin(t *testing.T) {
	svc, _ := setupUserAuthServiceTest(t)

	user, token, expiresAt, err := svc.Register(" An@Example.Com ", "matkhau123", "Nguyễn Văn An")
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}
	if user.Email != "an@example.com" {
		t.Fatalf("email should be normalized, got %s", user.Email)
	}
	if user.PasswordHash == "matkhau123" {
		t.Fatalf("password must not be stored in plain text")
	}
	if token == "" || !expiresAt.After(time.Now()) {
		t.Fatalf("register should issue a valid token")
	}

	claims, err := svc.ParseUserJWT(token)
	if err != nil {
		t.Fatalf("parse token failed: %v", err)
	}
	if claims.UserID != user.ID || claims.Email != user.Email {
		t.Fatalf("claims mismatch: %+v", claims)
	}

	loggedIn, token, _, err := svc.Login("an@example.com", "matkhau123")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if token == "" {
		t.Fatalf("login should issue a token")
	}
	if loggedIn.LastLoginAt == nil {
		t.Fatalf("login should record last login time")
	}
}

func TestRegisterRejectsDuplicateAndWeakPassword(t *testing.T) {
	svc, _ := setupUserAuthServiceTest(t)

	if _, _, _, err := svc.Register("b@example.com", "matkhau123", "B"); err != nil {
		t.Fatalf("register failed: %v", err)
	}
	if _, _, _, err := svc.Register("B@Example.com", "matkhau456", "B2"); !errors.Is(err, ErrEmailTaken) {
		t.Fatalf("duplicate email want ErrEmailTaken got %v", err)
	}

	if _, _, _, err := svc.Register("c@example.com", "short1", "C"); !errors.Is(err, ErrWeakPassword) {
		t.Fatalf("short password want ErrWeakPassword got %v", err)
	}
	if _, _, _, err := svc.Register("c@example.com", "matkhaudai", "C"); !errors.Is(err, ErrWeakPassword) {
		t.Fatalf("password without digit want ErrWeakPassword got %v", err)
	}
	if _, _, _, err := svc.Register("not-an-email", "matkhau123", "C"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("bad email want ErrInvalidCredentials got %v", err)
	}
}

func TestLoginFailures(t *testing.T) {
	svc, db := setupUserAuthServiceTest(t)

	if _, _, _, err := svc.Register("d@example.com", "matkhau123", "D"); err != nil {
		t.Fatalf("register failed: %v", err)
	}

	if _, _, _, err := svc.Login("d@example.com", "saimatkhau"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("wrong password want ErrInvalidCredentials got %v", err)
	}
	if _, _, _, err := svc.Login("nobody@example.com", "matkhau123"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("unknown email want ErrInvalidCredentials got %v", err)
	}

	if err := db.Model(&models.User{}).Where("email = ?", "d@example.com").Update("status", "disabled").Error; err != nil {
		t.Fatalf("disable user failed: %v", err)
	}
	if _, _, _, err := svc.Login("d@example.com", "matkhau123"); !errors.Is(err, ErrUserDisabled) {
		t.Fatalf("disabled user want ErrUserDisabled got %v", err)
	}
}

func TestUpdateProfile(t *testing.T) {
	svc, _ := setupUserAuthServiceTest(t)

	user, _, _, err := svc.Register("e@example.com", "matkhau123", "E")
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}

	updated, err := svc.UpdateProfile(user.ID, " Trần Thị E ", " 0912345678 ", " 45 Nguyễn Huệ ")
	if err != nil {
		t.Fatalf("update profile failed: %v", err)
	}
	if updated.Fullname != "Trần Thị E" || updated.Phone != "0912345678" || updated.Address != "45 Nguyễn Huệ" {
		t.Fatalf("profile fields should be trimmed, got %+v", updated)
	}

	if _, err := svc.UpdateProfile(9999, "X", "", ""); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("missing user want ErrInvalidCredentials got %v", err)
	}
}

func TestValidatePassword(t *testing.T) {
	policy := config.PasswordPolicyConfig{MinLength: 8, RequireUpper: true, RequireNumber: true}

	if err := validatePassword(policy, "Matkhau1"); err != nil {
		t.Fatalf("valid password failed: %v", err)
	}
	if err := validatePassword(policy, "matkhau1"); !errors.Is(err, ErrWeakPassword) {
		t.Fatalf("missing upper want ErrWeakPassword got %v", err)
	}
	if err := validatePassword(policy, "Matkhauu"); !errors.Is(err, ErrWeakPassword) {
		t.Fatalf("missing digit want ErrWeakPassword got %v", err)
	}
	if err := validatePassword(config.PasswordPolicyConfig{}, "x"); err != nil {
		t.Fatalf("empty policy should accept anything, got %v", err)
	}
}
