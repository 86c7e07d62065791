package handlers

import (
	"errors"
	"net/http"
	"time"

	"storefront/internal/dto"
	"storefront/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type AuthHandler struct {
	auth *service.AuthService
	log  *zap.Logger
}

func NewAuthHandler(auth *service.AuthService, log *zap.Logger) *AuthHandler {
	return &AuthHandler{auth: auth, log: log}
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Warn("Invalid registration request", zap.Error(err))
		c.JSON(http.StatusBadRequest, dto.NewValidationError("invalid request body", []dto.FieldError{}))
		return
	}

	user, err := h.auth.Register(c.Request.Context(), req.Email, req.Password, req.Name)
	if err != nil {
		if errors.Is(err, service.ErrAlreadyExists) {
			h.log.Warn("User already exists", zap.String("email", req.Email))
			c.JSON(http.StatusConflict, dto.NewConflictError("user with this email already exists"))
			return
		}
		h.log.Error("Registration failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, dto.NewInternalError(""))
		return
	}

	c.JSON(http.StatusOK, dto.RegisterResponse{
		UserId:    user.ID.String(),
		Email:     user.Email,
		Role:      "user",
		CreatedAt: user.CreatedAt.Format(time.RFC3339),
		Message:   "Account created",
	})
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Warn("Invalid login request", zap.Error(err))
		c.JSON(http.StatusBadRequest, dto.NewValidationError("invalid request body", []dto.FieldError{}))
		return
	}

	userID, role, pair, err := h.auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNotFound):
			h.log.Warn("User not found", zap.String("email", req.Email))
			c.JSON(http.StatusNotFound, dto.NewNotFoundError("user with this email not found"))
		case errors.Is(err, service.ErrInvalidCredentials):
			h.log.Warn("Invalid credentials", zap.String("email", req.Email))
			c.JSON(http.StatusUnauthorized, dto.NewUnauthorizedError("invalid email or password"))
		default:
			h.log.Error("Login failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, dto.NewInternalError(""))
		}
		return
	}

	c.JSON(http.StatusOK, dto.LoginResponse{
		UserId:     userID.String(),
		Role:       string(role),
		RedirectTo: service.LandingPath(role),
		Message:    "You've successfully signed in",
		Tokens:     toTokens(pair),
	})
}

func (h *AuthHandler) Refresh(c *gin.Context) {
	var req dto.RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Warn("Invalid refresh request", zap.Error(err))
		c.JSON(http.StatusBadRequest, dto.NewValidationError("invalid request body", []dto.FieldError{}))
		return
	}

	_, _, pair, err := h.auth.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		if errors.Is(err, service.ErrTokenExpired) || errors.Is(err, service.ErrNotFound) {
			c.JSON(http.StatusUnauthorized, dto.NewUnauthorizedError("refresh token expired or revoked"))
			return
		}
		h.log.Error("Refresh failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, dto.NewInternalError(""))
		return
	}

	c.JSON(http.StatusOK, dto.RefreshResponse{Tokens: toTokens(pair)})
}

func (h *AuthHandler) Logout(c *gin.Context) {
	var req dto.LogoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.NewValidationError("invalid request body", []dto.FieldError{}))
		return
	}

	if err := h.auth.Logout(c.Request.Context(), req.RefreshToken); err != nil {
		if errors.Is(err, service.ErrTokenNotFoundOrRevoked) {
			c.JSON(http.StatusUnauthorized, dto.NewUnauthorizedError("token not found or already revoked"))
			return
		}
		h.log.Error("Logout failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, dto.NewInternalError(""))
		return
	}

	c.JSON(http.StatusOK, dto.MessageResponse{Message: "You've been successfully signed out"})
}

func (h *AuthHandler) RequestPasswordReset(c *gin.Context) {
	var req dto.PasswordResetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.NewValidationError("invalid request body", []dto.FieldError{}))
		return
	}

	if err := h.auth.RequestPasswordReset(c.Request.Context(), req.Email); err != nil {
		switch {
		case errors.Is(err, service.ErrNotFound):
			c.JSON(http.StatusNotFound, dto.NewNotFoundError("user with this email not found"))
		case errors.Is(err, service.ErrTooManyRequests):
			c.JSON(http.StatusTooManyRequests, dto.NewRateLimitedError("reset code was requested recently, try again later"))
		default:
			h.log.Error("Password reset request failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, dto.NewInternalError(""))
		}
		return
	}

	c.JSON(http.StatusOK, dto.MessageResponse{Message: "Password reset code sent"})
}

func (h *AuthHandler) ConfirmPasswordReset(c *gin.Context) {
	var req dto.PasswordResetConfirmRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.NewValidationError("invalid request body", []dto.FieldError{}))
		return
	}

	if err := h.auth.ConfirmPasswordReset(c.Request.Context(), req.Code, req.NewPassword); err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidOrExpiredCode):
			c.JSON(http.StatusBadRequest, dto.NewValidationError("invalid or expired code", []dto.FieldError{}))
		case errors.Is(err, service.ErrNotFound):
			c.JSON(http.StatusNotFound, dto.NewNotFoundError("user not found"))
		default:
			h.log.Error("Password reset confirm failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, dto.NewInternalError(""))
		}
		return
	}

	c.JSON(http.StatusOK, dto.MessageResponse{Message: "Password has been reset"})
}

func toTokens(pair service.TokenPair) dto.Tokens {
	now := time.Now()
	return dto.Tokens{
		AccessToken:      pair.AccessToken,
		RefreshToken:     pair.RefreshOpaque,
		AccessExpiresIn:  int64(pair.AccessExpiresAt.Sub(now).Seconds()),
		RefreshExpiresIn: int64(pair.RefreshExpiresAt.Sub(now).Seconds()),
	}
}
