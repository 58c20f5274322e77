package services

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/fieldcraft/fieldcraft-backend/internal/data/repos"
	"github.com/fieldcraft/fieldcraft-backend/internal/data/repos/testutil"
	"github.com/fieldcraft/fieldcraft-backend/internal/pkg/errs"
)

func newAuthService(t *testing.T) AuthService {
	t.Helper()

	gdb := testutil.DB(t)
	log := testutil.Logger(t)
	svc, err := NewAuthService(AuthDeps{
		DB:         gdb,
		Users:      repos.NewUserRepo(gdb, log),
		Workspaces: repos.NewWorkspaceRepo(gdb, log),
		APIKeys:    repos.NewAPIKeyRepo(gdb, log),
		Log:        log,
		JWTSecret:  "test-secret",
		TokenTTL:   time.Hour,
	})
	if err != nil {
		t.Fatalf("init auth service: %v", err)
	}
	return svc
}

func TestRegisterAndLogin(t *testing.T) {
	svc := newAuthService(t)
	ctx := context.Background()

	res, err := svc.Register(ctx, RegisterInput{
		Email:         "Founder@Example.com",
		Password:      "hunter2hunter2",
		WorkspaceName: "Acme",
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if res.User.Email != "founder@example.com" {
		t.Fatalf("email should be normalized, got %q", res.User.Email)
	}
	if res.WorkspaceID == uuid.Nil || res.AccessToken == "" {
		t.Fatalf("register must issue a workspace and token: %+v", res)
	}

	login, err := svc.Login(ctx, "founder@example.com", "hunter2hunter2")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if login.WorkspaceID != res.WorkspaceID {
		t.Fatalf("login workspace mismatch")
	}

	claims, err := svc.VerifyToken(login.AccessToken)
	if err != nil {
		t.Fatalf("verify token: %v", err)
	}
	if claims.UserID != res.User.ID || claims.WorkspaceID != res.WorkspaceID {
		t.Fatalf("unexpected claims: %+v", claims)
	}
}

func TestRegisterRejectsBadInput(t *testing.T) {
	svc := newAuthService(t)
	ctx := context.Background()

	if _, err := svc.Register(ctx, RegisterInput{Email: "nope", Password: "hunter2hunter2"}); !errors.Is(err, errs.ErrInvalidArgument) {
		t.Fatalf("invalid email should be rejected, got %v", err)
	}
	if _, err := svc.Register(ctx, RegisterInput{Email: "a@b.com", Password: "short"}); !errors.Is(err, errs.ErrInvalidArgument) {
		t.Fatalf("short password should be rejected, got %v", err)
	}

	if _, err := svc.Register(ctx, RegisterInput{Email: "a@b.com", Password: "hunter2hunter2"}); err != nil {
		t.Fatalf("register: %v", err)
	}
	if _, err := svc.Register(ctx, RegisterInput{Email: "a@b.com", Password: "hunter2hunter2"}); !errors.Is(err, errs.ErrInvalidArgument) {
		t.Fatalf("duplicate email should be rejected, got %v", err)
	}
}

func TestLoginFailuresAreUniform(t *testing.T) {
	svc := newAuthService(t)
	ctx := context.Background()

	if _, err := svc.Register(ctx, RegisterInput{Email: "a@b.com", Password: "hunter2hunter2"}); err != nil {
		t.Fatalf("register: %v", err)
	}

	if _, err := svc.Login(ctx, "a@b.com", "wrong-password"); !errors.Is(err, errs.ErrUnauthorized) {
		t.Fatalf("wrong password should be unauthorized, got %v", err)
	}
	if _, err := svc.Login(ctx, "missing@b.com", "whatever123"); !errors.Is(err, errs.ErrUnauthorized) {
		t.Fatalf("unknown account should be unauthorized, got %v", err)
	}
}

func TestVerifyTokenRejectsForgeries(t *testing.T) {
	svc := newAuthService(t)

	if _, err := svc.VerifyToken("not-a-token"); !errors.Is(err, errs.ErrUnauthorized) {
		t.Fatalf("garbage token should be unauthorized, got %v", err)
	}
}

func TestAPIKeyLifecycle(t *testing.T) {
	svc := newAuthService(t)
	ctx := context.Background()

	res, err := svc.Register(ctx, RegisterInput{Email: "a@b.com", Password: "hunter2hunter2"})
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	rawKey, key, err := svc.CreateAPIKey(ctx, res.User.ID, "ci")
	if err != nil {
		t.Fatalf("create api key: %v", err)
	}
	if !strings.HasPrefix(rawKey, "fc_") {
		t.Fatalf("raw key should be prefixed, got %q", rawKey)
	}
	if key.HashedKey == rawKey {
		t.Fatalf("raw key must never be stored")
	}

	claims, err := svc.VerifyAPIKey(ctx, rawKey)
	if err != nil {
		t.Fatalf("verify api key: %v", err)
	}
	if claims.UserID != res.User.ID || claims.WorkspaceID != res.WorkspaceID {
		t.Fatalf("unexpected claims: %+v", claims)
	}

	if err := svc.RevokeAPIKey(ctx, res.User.ID, key.ID); err != nil {
		t.Fatalf("revoke: %v", err)
	}
	if _, err := svc.VerifyAPIKey(ctx, rawKey); !errors.Is(err, errs.ErrUnauthorized) {
		t.Fatalf("revoked key must be unauthorized, got %v", err)
	}

	if err := svc.RevokeAPIKey(ctx, res.User.ID, uuid.New()); !errors.Is(err, errs.ErrNotFound) {
		t.Fatalf("revoking an unknown key should be not found, got %v", err)
	}
}
