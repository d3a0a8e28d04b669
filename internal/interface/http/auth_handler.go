package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/pfa-screening-api/internal/application"
	"github.com/oksasatya/pfa-screening-api/pkg/response"
	"github.com/oksasatya/pfa-screening-api/pkg/validation"
)

type AuthHandler struct {
	Svc    *application.AuthService
	Logger *logrus.Logger
}

func NewAuthHandler(svc *application.AuthService, logger *logrus.Logger) *AuthHandler {
	return &AuthHandler{Svc: svc, Logger: logger}
}

type registerRequest struct {
	Name     string `json:"name" binding:"required,displayname"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,pwd"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type resetPasswordRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required,pwd"`
}

// Register POST /register {name, email, password}
func (h *AuthHandler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}

	_, err := h.Svc.Register(c.Request.Context(), req.Name, req.Email, req.Password)
	switch {
	case errors.Is(err, application.ErrEmailExists):
		response.Error[any](c, http.StatusBadRequest, "Email already registered!", nil)
	case err != nil:
		serverError(c, h.Logger, err, "Registration failed")
	default:
		response.Success[any](c, http.StatusOK, nil, "Registration Link Sent!", nil)
	}
}

// VerifyEmail GET /verify/:token
func (h *AuthHandler) VerifyEmail(c *gin.Context) {
	err := h.Svc.VerifyEmail(c.Request.Context(), c.Param("token"))
	switch {
	case errors.Is(err, application.ErrInvalidVerificationToken):
		response.Error[any](c, http.StatusNotFound, "Invalid verification token", nil)
	case err != nil:
		serverError(c, h.Logger, err, "Email Verification Failed")
	default:
		response.Success[any](c, http.StatusOK, nil, "Email verified successfully", nil)
	}
}

// Login POST /login {email, password}
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}

	token, err := h.Svc.Login(c.Request.Context(), req.Email, req.Password)
	switch {
	case errors.Is(err, application.ErrInvalidCredentials):
		response.Error[any](c, http.StatusUnauthorized, "Invalid Email or Password", nil)
	case errors.Is(err, application.ErrEmailNotVerified):
		response.Error[any](c, http.StatusBadRequest, "User is not verified", nil)
	case errors.Is(err, application.ErrInvalidPassword):
		response.Error[any](c, http.StatusUnauthorized, "Invalid Password", nil)
	case err != nil:
		serverError(c, h.Logger, err, "Login Failed")
	default:
		response.Success(c, http.StatusOK, gin.H{"token": token}, "login successful", nil)
	}
}

// SendOTP GET /sendOTP/:email
func (h *AuthHandler) SendOTP(c *gin.Context) {
	token, err := h.Svc.RequestPasswordResetOTP(c.Request.Context(), c.Param("email"))
	switch {
	case errors.Is(err, application.ErrInvalidCredentials):
		response.Error[any](c, http.StatusUnauthorized, "Invalid Email or Password", nil)
	case err != nil:
		serverError(c, h.Logger, err, "Error while sending OTP")
	default:
		response.Success(c, http.StatusOK, gin.H{"token": token}, "otp sent", nil)
	}
}

// ResetPassword POST /resetPassword {email, password}
func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var req resetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}

	err := h.Svc.ResetPassword(c.Request.Context(), req.Email, req.Password)
	switch {
	case errors.Is(err, application.ErrUserNotFound):
		response.Error[any](c, http.StatusUnauthorized, "User could not be found", nil)
	case err != nil:
		serverError(c, h.Logger, err, "Reset Password Failed")
	default:
		response.Success[any](c, http.StatusOK, nil, "Reset Password Successful", nil)
	}
}

// Me GET /me (bearer auth required)
func (h *AuthHandler) Me(c *gin.Context) {
	uid := c.GetString("userID")
	if uid == "" {
		response.Error[any](c, http.StatusUnauthorized, "unauthorized", nil)
		return
	}
	response.Success(c, http.StatusOK, gin.H{
		"id":    uid,
		"name":  c.GetString("userName"),
		"email": c.GetString("userEmail"),
	}, "profile", nil)
}
