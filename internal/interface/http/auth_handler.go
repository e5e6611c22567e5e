package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/gharbhada/gharbhada-api/internal/application"
	"github.com/gharbhada/gharbhada-api/internal/domain/entity"
	"github.com/gharbhada/gharbhada-api/pkg/helpers"
	"github.com/gharbhada/gharbhada-api/pkg/response"
)

// AuthHandler serializes auth service results. It performs no error
// mapping of its own; apperr values carry their status and code.
type AuthHandler struct {
	Svc     *application.AuthService
	JWT     *helpers.JWTManager
	Logger  *logrus.Logger
	Cookies *helpers.Manager
}

func NewAuthHandler(svc *application.AuthService, jwt *helpers.JWTManager, logger *logrus.Logger, cookieDomain string, cookieSecure bool) *AuthHandler {
	return &AuthHandler{Svc: svc, JWT: jwt, Logger: logger, Cookies: helpers.NewCookie(cookieDomain, cookieSecure)}
}

type registerRequest struct {
	FullName   string `json:"full_name" binding:"required"`
	Email      string `json:"email" binding:"required,email"`
	Phone      string `json:"phone" binding:"required"`
	Password   string `json:"password" binding:"required,pwd"`
	RePassword string `json:"re_password" binding:"required"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

func userSummary(u *entity.User) gin.H {
	return gin.H{
		"id":        u.ID,
		"email":     u.Email,
		"full_name": u.FullName,
		"phone":     u.Phone,
		"role":      u.Role,
	}
}

// Register POST /api/auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	u, err := h.Svc.Register(c.Request.Context(), application.RegisterInput{
		FullName:   req.FullName,
		Email:      req.Email,
		Phone:      req.Phone,
		Password:   req.Password,
		RePassword: req.RePassword,
	})
	if err != nil {
		response.AppError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"id": u.ID, "email": u.Email}, "User registered successfully", nil)
}

// Login POST /api/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	u, pair, err := h.Svc.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		response.AppError(c, err)
		return
	}
	h.Cookies.SetPair(c, pair.AccessToken, pair.AccessTokenExpiry, pair.RefreshToken, pair.RefreshTokenExpiry)
	data := userSummary(u)
	data["token"] = pair.AccessToken
	response.Success(c, http.StatusOK, data, "Login successful", gin.H{
		"access_expires_at":  pair.AccessTokenExpiry,
		"refresh_expires_at": pair.RefreshTokenExpiry,
	})
}

// Refresh POST /api/auth/refresh
func (h *AuthHandler) Refresh(c *gin.Context) {
	refresh, err := c.Cookie("refresh_token")
	if err != nil || refresh == "" {
		response.Error[any](c, http.StatusUnauthorized, "missing refresh token", nil)
		return
	}
	claims, err := h.JWT.ParseRefreshToken(refresh)
	if err != nil {
		response.Error[any](c, http.StatusUnauthorized, "invalid refresh token", nil)
		return
	}
	_, pair, err := h.Svc.Refresh(c.Request.Context(), claims.UserID, claims.SessionID)
	if err != nil {
		response.AppError(c, err)
		return
	}
	h.Cookies.SetPair(c, pair.AccessToken, pair.AccessTokenExpiry, pair.RefreshToken, pair.RefreshTokenExpiry)
	response.Success[any](c, http.StatusOK, gin.H{"refreshed": true}, "token refreshed", gin.H{
		"access_expires_at":  pair.AccessTokenExpiry,
		"refresh_expires_at": pair.RefreshTokenExpiry,
	})
}

// Logout POST /api/auth/logout (auth required)
func (h *AuthHandler) Logout(c *gin.Context) {
	h.Svc.Logout(c.Request.Context(), c.GetString("userID"))
	h.Cookies.Clear(c)
	response.Success[any](c, http.StatusOK, gin.H{"logged_out": true}, "logged out", nil)
}

// GetProfile GET /api/profile (auth required)
func (h *AuthHandler) GetProfile(c *gin.Context) {
	u, err := h.Svc.GetProfile(c.Request.Context(), c.GetString("userID"))
	if err != nil {
		response.AppError(c, err)
		return
	}
	data := userSummary(u)
	data["avatar_url"] = u.AvatarURL
	data["created_at"] = u.CreatedAt
	data["updated_at"] = u.UpdatedAt
	response.Success(c, http.StatusOK, data, "profile", nil)
}

type updateProfileRequest struct {
	FullName  string `json:"full_name"`
	Phone     string `json:"phone"`
	AvatarURL string `json:"avatar_url"`
}

// UpdateProfile PUT /api/profile (auth required)
func (h *AuthHandler) UpdateProfile(c *gin.Context) {
	var req updateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	u, err := h.Svc.UpdateProfile(c.Request.Context(), c.GetString("userID"), application.UpdateProfileInput{
		FullName:  req.FullName,
		Phone:     req.Phone,
		AvatarURL: req.AvatarURL,
	})
	if err != nil {
		response.AppError(c, err)
		return
	}
	data := userSummary(u)
	data["avatar_url"] = u.AvatarURL
	data["updated_at"] = u.UpdatedAt
	response.Success(c, http.StatusOK, data, "profile updated", nil)
}
