package controllers

import (
	"context"
	"net/http"

	"go.uber.org/zap"

	"go-storefront/models"
	"go-storefront/utils"
)

// AuthService is what UserController needs from the identity layer.
type AuthService interface {
	Register(ctx context.Context, req models.RegisterRequest) (*models.AuthResponse, error)
	Login(ctx context.Context, req models.LoginRequest) (*models.AuthResponse, error)
	RequestPasswordReset(ctx context.Context, email string) error
	VerifyResetCode(ctx context.Context, email, code string) error
	ResetPassword(ctx context.Context, email, newPassword string) error
}

// UserController handles registration, login and password reset.
type UserController struct {
	auth   AuthService
	logger *zap.Logger
}

func NewUserController(auth AuthService, logger *zap.Logger) *UserController {
	return &UserController{auth: auth, logger: logger}
}

// Register handles user registration
func (uc *UserController) Register(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterRequest
	if err := utils.DecodeAndValidate(r.Body, &req); err != nil {
		respondError(w, uc.logger, "register", err)
		return
	}

	resp, err := uc.auth.Register(r.Context(), req)
	if err != nil {
		respondError(w, uc.logger, "register", err)
		return
	}
	utils.WriteJSON(w, http.StatusCreated, resp)
}

// Login handles user authentication
func (uc *UserController) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := utils.DecodeAndValidate(r.Body, &req); err != nil {
		respondError(w, uc.logger, "login", err)
		return
	}

	resp, err := uc.auth.Login(r.Context(), req)
	if err != nil {
		respondError(w, uc.logger, "login", err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, resp)
}

// ForgotPassword emails a one-time reset code.
func (uc *UserController) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req models.ForgotPasswordRequest
	if err := utils.DecodeAndValidate(r.Body, &req); err != nil {
		respondError(w, uc.logger, "forgot password", err)
		return
	}

	if err := uc.auth.RequestPasswordReset(r.Context(), req.Email); err != nil {
		respondError(w, uc.logger, "forgot password", err)
		return
	}
	utils.WriteMessage(w, http.StatusOK, "OTP sent to your email")
}

func (uc *UserController) VerifyOTP(w http.ResponseWriter, r *http.Request) {
	var req models.VerifyOTPRequest
	if err := utils.DecodeAndValidate(r.Body, &req); err != nil {
		respondError(w, uc.logger, "verify otp", err)
		return
	}

	if err := uc.auth.VerifyResetCode(r.Context(), req.Email, req.OTP); err != nil {
		respondError(w, uc.logger, "verify otp", err)
		return
	}
	utils.WriteMessage(w, http.StatusOK, "OTP verified successfully")
}

func (uc *UserController) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var req models.ResetPasswordRequest
	if err := utils.DecodeAndValidate(r.Body, &req); err != nil {
		respondError(w, uc.logger, "reset password", err)
		return
	}

	if err := uc.auth.ResetPassword(r.Context(), req.Email, req.NewPassword); err != nil {
		respondError(w, uc.logger, "reset password", err)
		return
	}
	utils.WriteMessage(w, http.StatusOK, "Password reset successful")
}
