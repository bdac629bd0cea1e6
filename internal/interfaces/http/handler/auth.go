package handler

import (
	accountsapp "github.com/erp/platform/internal/application/accounts"
	"github.com/erp/platform/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
)

// AuthHandler handles registration, login, tokens and the caller's own profile
type AuthHandler struct {
	BaseHandler
	authService *accountsapp.AuthService
	userService *accountsapp.UserService
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService *accountsapp.AuthService, userService *accountsapp.UserService) *AuthHandler {
	return &AuthHandler{authService: authService, userService: userService}
}

// Register godoc
// @Summary      Register an organization
// @Description  Creates the organization, its first admin user and sends the welcome email
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body accountsapp.RegisterRequest true "Registration"
// @Success      201 {object} dto.Response{data=accountsapp.AuthResult}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req accountsapp.RegisterRequest
	if !h.bindJSON(c, &req) {
		return
	}
	result, err := h.authService.Register(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, result)
}

// Login godoc
// @Summary      User login
// @Description  Authenticate with email and password
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body accountsapp.LoginRequest true "Login credentials"
// @Success      200 {object} dto.Response{data=accountsapp.AuthResult}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req accountsapp.LoginRequest
	if !h.bindJSON(c, &req) {
		return
	}
	req.IP = c.ClientIP()

	result, err := h.authService.Login(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// RefreshToken godoc
// @Summary      Rotate tokens
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body accountsapp.RefreshRequest true "Refresh token"
// @Success      200 {object} dto.Response
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /auth/refresh [post]
func (h *AuthHandler) RefreshToken(c *gin.Context) {
	var req accountsapp.RefreshRequest
	if !h.bindJSON(c, &req) {
		return
	}
	pair, err := h.authService.RefreshToken(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, pair)
}

// Logout godoc
// @Summary      Logout
// @Description  Revokes the access token until it expires
// @Tags         auth
// @Produce      json
// @Success      200 {object} dto.Response
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	claims := middleware.GetJWTClaims(c)
	if claims == nil {
		h.Unauthorized(c, "Authentication required")
		return
	}
	userID, err := claims.GetUserUUID()
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	err = h.authService.Logout(c.Request.Context(), accountsapp.LogoutInput{
		UserID:   userID,
		TokenJTI: claims.ID,
		TTL:      claims.GetRemainingTTL(),
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, gin.H{"message": "Logged out"})
}

// RequestPasswordReset godoc
// @Summary      Request a password reset email
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body accountsapp.PasswordResetRequest true "Email"
// @Success      200 {object} dto.Response{data=accountsapp.EmailResult}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /auth/password-reset [post]
func (h *AuthHandler) RequestPasswordReset(c *gin.Context) {
	var req accountsapp.PasswordResetRequest
	if !h.bindJSON(c, &req) {
		return
	}
	result, err := h.authService.RequestPasswordReset(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// ConfirmPasswordReset godoc
// @Summary      Set a new password with a reset token
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body accountsapp.PasswordResetConfirmRequest true "Token and new password"
// @Success      200 {object} dto.Response
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /auth/password-reset/confirm [post]
func (h *AuthHandler) ConfirmPasswordReset(c *gin.Context) {
	var req accountsapp.PasswordResetConfirmRequest
	if !h.bindJSON(c, &req) {
		return
	}
	if err := h.authService.ConfirmPasswordReset(c.Request.Context(), req); err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, gin.H{"message": "Password has been reset"})
}

// VerifyEmail godoc
// @Summary      Verify an email address
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body accountsapp.VerifyEmailRequest true "Verification token"
// @Success      200 {object} dto.Response{data=accountsapp.UserResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /auth/verify-email [post]
func (h *AuthHandler) VerifyEmail(c *gin.Context) {
	var req accountsapp.VerifyEmailRequest
	if !h.bindJSON(c, &req) {
		return
	}
	user, err := h.authService.VerifyEmail(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, user)
}

// ResendVerification godoc
// @Summary      Re-send the verification email
// @Tags         auth
// @Produce      json
// @Success      200 {object} dto.Response{data=accountsapp.EmailResult}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /auth/verify-email/resend [post]
func (h *AuthHandler) ResendVerification(c *gin.Context) {
	tenantID, userID, ok := h.identity(c)
	if !ok {
		return
	}
	result, err := h.authService.ResendVerification(c.Request.Context(), tenantID, userID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// GetMe godoc
// @Summary      Current user
// @Tags         me
// @Produce      json
// @Success      200 {object} dto.Response{data=accountsapp.UserResponse}
// @Security     BearerAuth
// @Router       /me [get]
func (h *AuthHandler) GetMe(c *gin.Context) {
	tenantID, userID, ok := h.identity(c)
	if !ok {
		return
	}
	user, err := h.userService.GetByID(c.Request.Context(), tenantID, userID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, user)
}

// UpdateMe godoc
// @Summary      Update own profile
// @Tags         me
// @Accept       json
// @Produce      json
// @Param        request body accountsapp.UpdateProfileRequest true "Profile"
// @Success      200 {object} dto.Response{data=accountsapp.UserResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /me [put]
func (h *AuthHandler) UpdateMe(c *gin.Context) {
	tenantID, userID, ok := h.identity(c)
	if !ok {
		return
	}
	var req accountsapp.UpdateProfileRequest
	if !h.bindJSON(c, &req) {
		return
	}
	user, err := h.userService.UpdateProfile(c.Request.Context(), tenantID, userID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, user)
}

// ChangePassword godoc
// @Summary      Change own password
// @Tags         me
// @Accept       json
// @Produce      json
// @Param        request body accountsapp.ChangePasswordRequest true "Old and new password"
// @Success      200 {object} dto.Response
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /me/change-password [post]
func (h *AuthHandler) ChangePassword(c *gin.Context) {
	tenantID, userID, ok := h.identity(c)
	if !ok {
		return
	}
	var req accountsapp.ChangePasswordRequest
	if !h.bindJSON(c, &req) {
		return
	}
	if err := h.userService.ChangePassword(c.Request.Context(), tenantID, userID, req); err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, gin.H{"message": "Password changed"})
}
