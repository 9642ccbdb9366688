package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/markbates/goth/gothic"
	"github.com/rs/zerolog/log"

	"toolscout/internal/services"
	"toolscout/internal/utils"
)

type AuthHandler struct {
	authService services.AuthService
	otpService  services.OTPService
}

func NewAuthHandler(authService services.AuthService, otpService services.OTPService) *AuthHandler {
	return &AuthHandler{authService: authService, otpService: otpService}
}

func (a *AuthHandler) ProviderAuth(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	provider := vars["provider"]

	if provider == "" {
		log.Error().Msg("Provider not specified in URL")
		http.Error(w, "Provider not specified", http.StatusBadRequest)
		return
	}

	log.Info().Str("provider", provider).Msg("Initiating authentication with provider")

	gothic.BeginAuthHandler(w, r)
}

func (a *AuthHandler) ProviderCallback(w http.ResponseWriter, r *http.Request) {
	log.Info().Msg("Provider callback initiated")

	pUser, err := gothic.CompleteUserAuth(w, r)
	if err != nil {
		log.Error().Err(err).Msg("Error completing user authentication")
		http.Redirect(w, r, "/api/auth/error", http.StatusTemporaryRedirect)
		return
	}

	log.Info().Str("email", pUser.Email).Msg("User authenticated with provider, attempting to handle login")
	token, err := a.authService.HandleLogin(r.Context(), pUser)
	if err != nil {
		log.Error().Err(err).Msg("Error handling login after provider authentication")
		http.Redirect(w, r, "/api/auth/error", http.StatusTemporaryRedirect)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     "jwt",
		Value:    token,
		HttpOnly: true,
		Path:     "/",
	})
	log.Info().Str("email", pUser.Email).Msg("JWT cookie set successfully")

	http.Redirect(w, r, "/api/auth/success", http.StatusTemporaryRedirect)
}

func (a *AuthHandler) AuthSuccess(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("Authentication successful! Redirecting..."))
}

func (a *AuthHandler) AuthError(w http.ResponseWriter, r *http.Request) {
	http.Error(w, "Authentication failed. Please try again.", http.StatusBadRequest)
}

type forgotPasswordRequest struct {
	Email string `json:"email"`
}

func (a *AuthHandler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req forgotPasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Email == "" {
		utils.SendJSONError(w, "Valid email is required", http.StatusBadRequest)
		return
	}

	if _, err := a.otpService.GenerateOTPForgotPassword(r.Context(), req.Email); err != nil {
		log.Error().Err(err).Str("email", req.Email).Msg("Failed to generate password reset OTP")
		// Do not reveal whether the email exists.
	}

	utils.RespondWithJSON(w, http.StatusOK, map[string]string{
		"message": "If the email is registered, a reset code has been sent",
	})
}

type resetPasswordRequest struct {
	Email       string `json:"email"`
	OTPCode     string `json:"otp_code"`
	NewPassword string `json:"new_password"`
}

func (a *AuthHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var req resetPasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.SendJSONError(w, "Invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}
	if req.Email == "" || req.OTPCode == "" || req.NewPassword == "" {
		utils.SendJSONError(w, "email, otp_code and new_password are required", http.StatusBadRequest)
		return
	}

	if err := a.otpService.ResetPassword(r.Context(), req.Email, req.OTPCode, req.NewPassword); err != nil {
		log.Error().Err(err).Str("email", req.Email).Msg("Password reset failed")
		utils.SendJSONError(w, err.Error(), http.StatusUnauthorized)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, map[string]string{"message": "password updated"})
}
