package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Dorstol/BitBuddies/internal/domain/entities"
	domainerrors "github.com/Dorstol/BitBuddies/internal/domain/errors"
	"github.com/Dorstol/BitBuddies/internal/interfaces/http/response"
	"github.com/Dorstol/BitBuddies/internal/usecases"
	"github.com/Dorstol/BitBuddies/pkg/crypto"
	"github.com/Dorstol/BitBuddies/pkg/redis"
)

// AuthHandler handles authentication endpoints
type AuthHandler struct {
	accountUsecase *usecases.AccountUsecase
	sessionStore   *redis.SessionStore
	sessionTTL     time.Duration
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(accountUsecase *usecases.AccountUsecase, sessionStore *redis.SessionStore, sessionTTL time.Duration) *AuthHandler {
	return &AuthHandler{
		accountUsecase: accountUsecase,
		sessionStore:   sessionStore,
		sessionTTL:     sessionTTL,
	}
}

// Register handles user registration
// POST /api/v1/auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	var input entities.CreateUserInput

	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}

	user, err := h.accountUsecase.Register(c.Request.Context(), &input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusCreated, user)
}

// Login handles user login
// POST /api/v1/auth/jwt/login
func (h *AuthHandler) Login(c *gin.Context) {
	var input entities.LoginInput

	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}

	authResponse, err := h.accountUsecase.Login(c.Request.Context(), &input)
	if err != nil {
		response.Error(c, err)
		return
	}

	if input.UseSession && h.sessionStore != nil {
		sessionID, err := crypto.GenerateSessionID()
		if err != nil {
			response.Error(c, domainerrors.InternalError(err))
			return
		}

		data := &redis.SessionData{
			AccessToken:  authResponse.AccessToken,
			RefreshToken: authResponse.RefreshToken,
			UserID:       authResponse.User.ID,
		}
		if err := h.sessionStore.CreateSession(c.Request.Context(), sessionID, data, h.sessionTTL); err != nil {
			response.Error(c, domainerrors.InternalError(err))
			return
		}

		authResponse.SessionID = sessionID
		authResponse.AccessToken = ""
		authResponse.RefreshToken = ""
	}

	response.Success(c, http.StatusOK, authResponse)
}

// RefreshToken re-issues a token pair
// POST /api/v1/auth/refresh
func (h *AuthHandler) RefreshToken(c *gin.Context) {
	var input struct {
		RefreshToken string `json:"refreshToken" binding:"required"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}

	tokenPair, err := h.accountUsecase.RefreshToken(c.Request.Context(), input.RefreshToken)
	if err != nil {
		response.Error(c, domainerrors.Unauthorized("Invalid or expired refresh token"))
		return
	}

	response.Success(c, http.StatusOK, tokenPair)
}

// RequestVerifyToken re-sends the verification email
// POST /api/v1/auth/request-verify-token
func (h *AuthHandler) RequestVerifyToken(c *gin.Context) {
	var input struct {
		Email string `json:"email" binding:"required,email"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}

	if err := h.accountUsecase.RequestVerification(c.Request.Context(), input.Email); err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusAccepted, gin.H{
		"message": "Verification email sent",
	})
}

// VerifyEmail confirms a verification token
// POST /api/v1/auth/verify
func (h *AuthHandler) VerifyEmail(c *gin.Context) {
	var input struct {
		Token string `json:"token" binding:"required"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}

	user, err := h.accountUsecase.VerifyEmail(c.Request.Context(), input.Token)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, user)
}

// ForgotPassword dispatches a reset email
// POST /api/v1/auth/forgot-password
func (h *AuthHandler) ForgotPassword(c *gin.Context) {
	var input struct {
		Email string `json:"email" binding:"required,email"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}

	if err := h.accountUsecase.ForgotPassword(c.Request.Context(), input.Email); err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusAccepted, gin.H{
		"message": "Password reset email sent",
	})
}

// ResetPassword replaces the password using a reset token
// POST /api/v1/auth/reset-password
func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var input struct {
		Token    string `json:"token" binding:"required"`
		Password string `json:"password" binding:"required,min=8"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}

	if err := h.accountUsecase.ResetPassword(c.Request.Context(), input.Token, input.Password); err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"message": "Password has been reset",
	})
}
