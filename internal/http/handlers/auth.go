package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/fieldcraft/fieldcraft-backend/internal/http/middleware"
	"github.com/fieldcraft/fieldcraft-backend/internal/http/response"
	"github.com/fieldcraft/fieldcraft-backend/internal/services"
)

type AuthHandler struct {
	authService services.AuthService
}

func NewAuthHandler(authService services.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

func (ah *AuthHandler) Register(c *gin.Context) {
	var req struct {
		Email         string `json:"email"`
		Password      string `json:"password"`
		WorkspaceName string `json:"workspace_name"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}

	result, err := ah.authService.Register(c.Request.Context(), services.RegisterInput{
		Email:         req.Email,
		Password:      req.Password,
		WorkspaceName: req.WorkspaceName,
	})
	if err != nil {
		response.RespondMapped(c, err)
		return
	}
	response.RespondCreated(c, gin.H{
		"user_id":      result.User.ID,
		"workspace_id": result.WorkspaceID,
		"access_token": result.AccessToken,
		"expires_at":   result.ExpiresAt,
	})
}

func (ah *AuthHandler) Login(c *gin.Context) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}

	result, err := ah.authService.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		response.RespondError(c, http.StatusUnauthorized, "invalid_credentials", err)
		return
	}
	response.RespondOK(c, gin.H{
		"user_id":      result.User.ID,
		"workspace_id": result.WorkspaceID,
		"access_token": result.AccessToken,
		"expires_at":   result.ExpiresAt,
	})
}

func (ah *AuthHandler) CreateAPIKey(c *gin.Context) {
	claims := middleware.GetClaims(c)

	var req struct {
		Name string `json:"name"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}

	rawKey, key, err := ah.authService.CreateAPIKey(c.Request.Context(), claims.UserID, req.Name)
	if err != nil {
		response.RespondMapped(c, err)
		return
	}
	response.RespondCreated(c, gin.H{
		"id":   key.ID,
		"name": key.Name,
		// Shown once; only the hash is stored.
		"key": rawKey,
	})
}

func (ah *AuthHandler) RevokeAPIKey(c *gin.Context) {
	claims := middleware.GetClaims(c)

	keyID, err := uuid.Parse(c.Param("key_id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	if err := ah.authService.RevokeAPIKey(c.Request.Context(), claims.UserID, keyID); err != nil {
		response.RespondMapped(c, err)
		return
	}
	response.RespondOK(c, gin.H{"ok": true})
}
