package services

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/fieldcraft/fieldcraft-backend/internal/data/repos"
	types "github.com/fieldcraft/fieldcraft-backend/internal/domain"
	"github.com/fieldcraft/fieldcraft-backend/internal/pkg/errs"
	"github.com/fieldcraft/fieldcraft-backend/internal/platform/logger"
)

// TokenClaims is what a verified access token resolves to.
type TokenClaims struct {
	UserID      uuid.UUID
	WorkspaceID uuid.UUID
	Role        string
}

type RegisterInput struct {
	Email         string
	Password      string
	WorkspaceName string
}

type AuthResult struct {
	User        *types.User
	WorkspaceID uuid.UUID
	AccessToken string
	ExpiresAt   time.Time
}

type AuthService interface {
	Register(ctx context.Context, input RegisterInput) (*AuthResult, error)
	Login(ctx context.Context, email, password string) (*AuthResult, error)
	VerifyToken(tokenString string) (*TokenClaims, error)

	CreateAPIKey(ctx context.Context, userID uuid.UUID, name string) (rawKey string, key *types.APIKey, err error)
	VerifyAPIKey(ctx context.Context, rawKey string) (*TokenClaims, error)
	RevokeAPIKey(ctx context.Context, userID, keyID uuid.UUID) error
}

type authService struct {
	db         *gorm.DB
	users      repos.UserRepo
	workspaces repos.WorkspaceRepo
	apiKeys    repos.APIKeyRepo
	log        *logger.Logger

	jwtSecret []byte
	tokenTTL  time.Duration
}

type AuthDeps struct {
	DB         *gorm.DB
	Users      repos.UserRepo
	Workspaces repos.WorkspaceRepo
	APIKeys    repos.APIKeyRepo
	Log        *logger.Logger
	JWTSecret  string
	TokenTTL   time.Duration
}

func NewAuthService(deps AuthDeps) (AuthService, error) {
	if strings.TrimSpace(deps.JWTSecret) == "" {
		return nil, fmt.Errorf("jwt secret required")
	}
	ttl := deps.TokenTTL
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &authService{
		db:         deps.DB,
		users:      deps.Users,
		workspaces: deps.Workspaces,
		apiKeys:    deps.APIKeys,
		log:        deps.Log.With("service", "AuthService"),
		jwtSecret:  []byte(deps.JWTSecret),
		tokenTTL:   ttl,
	}, nil
}

func (s *authService) Register(ctx context.Context, input RegisterInput) (*AuthResult, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if email == "" || !strings.Contains(email, "@") {
		return nil, fmt.Errorf("%w: valid email required", errs.ErrInvalidArgument)
	}
	if len(input.Password) < 8 {
		return nil, fmt.Errorf("%w: password must be at least 8 characters", errs.ErrInvalidArgument)
	}

	if existing, err := s.users.GetByEmail(ctx, nil, email); err == nil && existing != nil {
		return nil, fmt.Errorf("%w: email already registered", errs.ErrInvalidArgument)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	workspaceName := strings.TrimSpace(input.WorkspaceName)
	if workspaceName == "" {
		workspaceName = email + "'s workspace"
	}

	var user *types.User
	var workspaceID uuid.UUID
	txErr := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		ws, err := s.workspaces.Create(ctx, tx, &types.Workspace{Name: workspaceName})
		if err != nil {
			return err
		}
		workspaceID = ws.ID

		u, err := s.users.Create(ctx, tx, &types.User{
			Email:          email,
			HashedPassword: string(hashed),
			WorkspaceID:    &ws.ID,
			Role:           "user",
		})
		if err != nil {
			return err
		}
		user = u

		ws.OwnerID = &u.ID
		return tx.Model(ws).Update("owner_id", u.ID).Error
	})
	if txErr != nil {
		return nil, fmt.Errorf("register: %w", txErr)
	}

	s.log.Info("User registered", "user_id", user.ID, "workspace_id", workspaceID)
	return s.issueToken(user, workspaceID)
}

func (s *authService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	user, err := s.users.GetByEmail(ctx, nil, email)
	if err != nil {
		// Same failure shape whether the account exists or not.
		return nil, errs.ErrUnauthorized
	}
	if bcrypt.CompareHashAndPassword([]byte(user.HashedPassword), []byte(password)) != nil {
		return nil, errs.ErrUnauthorized
	}
	if user.WorkspaceID == nil {
		return nil, errs.ErrUnauthorized
	}
	return s.issueToken(user, *user.WorkspaceID)
}

func (s *authService) issueToken(user *types.User, workspaceID uuid.UUID) (*AuthResult, error) {
	expiresAt := time.Now().Add(s.tokenTTL)

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":          user.ID.String(),
		"workspace_id": workspaceID.String(),
		"role":         user.Role,
		"exp":          expiresAt.Unix(),
		"iat":          time.Now().Unix(),
	})
	signed, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return nil, fmt.Errorf("sign token: %w", err)
	}

	return &AuthResult{
		User:        user,
		WorkspaceID: workspaceID,
		AccessToken: signed,
		ExpiresAt:   expiresAt,
	}, nil
}

func (s *authService) VerifyToken(tokenString string) (*TokenClaims, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil || !token.Valid {
		return nil, errs.ErrUnauthorized
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, errs.ErrUnauthorized
	}

	sub, _ := claims["sub"].(string)
	wsID, _ := claims["workspace_id"].(string)
	role, _ := claims["role"].(string)

	userID, err := uuid.Parse(sub)
	if err != nil {
		return nil, errs.ErrUnauthorized
	}
	workspaceID, err := uuid.Parse(wsID)
	if err != nil {
		return nil, errs.ErrUnauthorized
	}

	return &TokenClaims{UserID: userID, WorkspaceID: workspaceID, Role: role}, nil
}

// CreateAPIKey issues a new raw key of the form "fc_<hex>". Only the bcrypt
// hash is persisted; the raw key is returned once.
func (s *authService) CreateAPIKey(ctx context.Context, userID uuid.UUID, name string) (string, *types.APIKey, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", nil, fmt.Errorf("%w: key name required", errs.ErrInvalidArgument)
	}

	buf := make([]byte, 24)
	if _, err := rand.Read(buf); err != nil {
		return "", nil, fmt.Errorf("generate key: %w", err)
	}
	rawKey := "fc_" + hex.EncodeToString(buf)

	hashed, err := bcrypt.GenerateFromPassword([]byte(rawKey), bcrypt.DefaultCost)
	if err != nil {
		return "", nil, fmt.Errorf("hash key: %w", err)
	}

	key, err := s.apiKeys.Create(ctx, nil, &types.APIKey{
		UserID:    userID,
		Name:      name,
		HashedKey: string(hashed),
	})
	if err != nil {
		return "", nil, err
	}
	return rawKey, key, nil
}

func (s *authService) VerifyAPIKey(ctx context.Context, rawKey string) (*TokenClaims, error) {
	rawKey = strings.TrimSpace(rawKey)
	if !strings.HasPrefix(rawKey, "fc_") {
		return nil, errs.ErrUnauthorized
	}

	// API keys carry no lookup identifier, so candidate hashes are compared
	// per user at auth time. Key volume per deployment is small.
	var keys []*types.APIKey
	if err := s.db.WithContext(ctx).Where("revoked_at IS NULL").Find(&keys).Error; err != nil {
		return nil, err
	}

	for _, key := range keys {
		if bcrypt.CompareHashAndPassword([]byte(key.HashedKey), []byte(rawKey)) != nil {
			continue
		}

		user, err := s.users.GetByID(ctx, nil, key.UserID)
		if err != nil || user.WorkspaceID == nil {
			return nil, errs.ErrUnauthorized
		}
		if err := s.apiKeys.TouchLastUsed(ctx, nil, key.ID); err != nil {
			s.log.Warn("Failed to update api key last_used_at", "key_id", key.ID, "error", err)
		}
		return &TokenClaims{UserID: user.ID, WorkspaceID: *user.WorkspaceID, Role: user.Role}, nil
	}

	return nil, errs.ErrUnauthorized
}

func (s *authService) RevokeAPIKey(ctx context.Context, userID, keyID uuid.UUID) error {
	keys, err := s.apiKeys.GetActiveByUserID(ctx, nil, userID)
	if err != nil {
		return err
	}
	for _, key := range keys {
		if key.ID == keyID {
			return s.apiKeys.Revoke(ctx, nil, keyID)
		}
	}
	return errs.ErrNotFound
}
