package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/Thonzy/Inventory-App/internal/auth"
	"github.com/Thonzy/Inventory-App/internal/mail"
	"github.com/Thonzy/Inventory-App/internal/models"
	"github.com/Thonzy/Inventory-App/internal/services"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

// UserHandler handles HTTP requests for registration, sessions and
// password management.
type UserHandler struct {
	users       services.UserServiceProvider
	resets      services.ResetServiceProvider
	events      services.EventServiceProvider
	issuer      *auth.TokenIssuer
	mailer      mail.Mailer
	frontendURL string
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(users services.UserServiceProvider, resets services.ResetServiceProvider, events services.EventServiceProvider, issuer *auth.TokenIssuer, mailer mail.Mailer, frontendURL string) *UserHandler {
	return &UserHandler{
		users:       users,
		resets:      resets,
		events:      events,
		issuer:      issuer,
		mailer:      mailer,
		frontendURL: frontendURL,
	}
}

// RegisterPayload defines the structure for registration requests.
type RegisterPayload struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthPayload defines the structure for login requests.
type AuthPayload struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// authResponse is a user profile plus the freshly issued session token.
type authResponse struct {
	models.User
	Token string `json:"token"`
}

// Register handles new user registration and starts a session.
func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	var payload RegisterPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if payload.Name == "" || payload.Email == "" || payload.Password == "" {
		writeError(w, http.StatusBadRequest, "Please fill in all required fields")
		return
	}

	user, err := h.users.CreateUser(payload.Name, payload.Email, payload.Password)
	if err != nil {
		log.Warn().Err(err).Str("email", payload.Email).Msg("Failed to register user")
		writeServiceError(w, err)
		return
	}

	token, err := h.issuer.Issue(user.ID)
	if err != nil {
		log.Error().Err(err).Str("user_id", user.ID).Msg("Failed to issue session token")
		writeError(w, http.StatusInternalServerError, "Something went wrong")
		return
	}
	auth.AttachSession(w, token)

	h.events.CreateEvent("user.register", "info", "New user registered: "+user.Email, &user.ID)
	writeJSON(w, http.StatusCreated, authResponse{User: user, Token: token})
}

// Login handles credential verification and session issuance.
func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	var payload AuthPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if payload.Email == "" || payload.Password == "" {
		writeError(w, http.StatusBadRequest, "Please add email and password")
		return
	}

	user, err := h.users.AuthenticateUser(payload.Email, payload.Password)
	if err != nil {
		log.Warn().Str("email", payload.Email).Msg("Failed authentication attempt")
		writeServiceError(w, err)
		return
	}

	token, err := h.issuer.Issue(user.ID)
	if err != nil {
		log.Error().Err(err).Str("user_id", user.ID).Msg("Failed to issue session token")
		writeError(w, http.StatusInternalServerError, "Something went wrong")
		return
	}
	auth.AttachSession(w, token)

	h.events.CreateEvent("user.login", "info", "User logged in: "+user.Email, &user.ID)
	writeJSON(w, http.StatusOK, authResponse{User: user, Token: token})
}

// Logout clears the session cookie. The token itself stays valid until
// its natural expiry; the server keeps no session table.
func (h *UserHandler) Logout(w http.ResponseWriter, r *http.Request) {
	auth.ClearSession(w)
	writeJSON(w, http.StatusOK, map[string]string{"message": "Successfully logged out"})
}

// LoginStatus reports whether the request carries a valid session.
// It always answers 200 with a bare boolean.
func (h *UserHandler) LoginStatus(w http.ResponseWriter, r *http.Request) {
	tokenStr := auth.ExtractSession(r)
	if tokenStr == "" {
		writeJSON(w, http.StatusOK, false)
		return
	}
	if _, err := h.issuer.Verify(tokenStr); err != nil {
		writeJSON(w, http.StatusOK, false)
		return
	}
	writeJSON(w, http.StatusOK, true)
}

// GetUser returns the authenticated user's profile.
func (h *UserHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.CurrentUser(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Not authorized, please login")
		return
	}
	writeJSON(w, http.StatusOK, user)
}

// UpdateUser applies a partial profile update. Only name, photo, phone
// and bio are caller-mutable; email is not updatable through this route.
func (h *UserHandler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.CurrentUser(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Not authorized, please login")
		return
	}

	var payload struct {
		Name  *string `json:"name"`
		Photo *string `json:"photo"`
		Phone *string `json:"phone"`
		Bio   *string `json:"bio"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	updated, err := h.users.UpdateProfile(user.ID, services.ProfileUpdate{
		Name:  payload.Name,
		Photo: payload.Photo,
		Phone: payload.Phone,
		Bio:   payload.Bio,
	})
	if err != nil {
		log.Error().Err(err).Str("user_id", user.ID).Msg("Failed to update user")
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

// ChangePassword verifies the old password and replaces the hash.
func (h *UserHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.CurrentUser(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Not authorized, please login")
		return
	}

	var payload struct {
		OldPassword string `json:"oldPassword"`
		Password    string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if payload.OldPassword == "" || payload.Password == "" {
		writeError(w, http.StatusBadRequest, "Please add old and new password")
		return
	}

	if err := h.users.UpdatePassword(user.ID, payload.OldPassword, payload.Password); err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			writeError(w, http.StatusBadRequest, "Old password is incorrect")
			return
		}
		log.Error().Err(err).Str("user_id", user.ID).Msg("Failed to change password")
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Password changed successfully"})
}

// ForgotPassword issues a reset token and emails it to the user.
func (h *UserHandler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Email string `json:"email"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil || payload.Email == "" {
		writeError(w, http.StatusBadRequest, "Please add an email")
		return
	}

	userID, err := h.users.EmailExists(payload.Email)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	plaintext, _, err := h.resets.IssueFor(userID)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID).Msg("Failed to issue reset token")
		writeError(w, http.StatusInternalServerError, "Something went wrong")
		return
	}

	resetURL := h.frontendURL + "/resetpassword/" + plaintext

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()
	if err := h.mailer.SendResetPassword(ctx, payload.Email, resetURL); err != nil {
		log.Error().Err(err).Str("user_id", userID).Msg("Failed to send reset email")
		writeError(w, http.StatusInternalServerError, "Email not sent, please try again")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Reset Email Sent",
	})
}

// ResetPassword consumes a reset token and sets the new password.
func (h *UserHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	resetToken := chi.URLParam(r, "resetToken")

	var payload struct {
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil || payload.Password == "" {
		writeError(w, http.StatusBadRequest, "Please add a new password")
		return
	}
	// Validate before consuming so a rejected password does not burn the token.
	if len(payload.Password) < services.MinPasswordLength {
		writeServiceError(w, services.ErrPasswordTooShort)
		return
	}

	userID, err := h.resets.Consume(resetToken)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	if err := h.users.SetPassword(userID, payload.Password); err != nil {
		log.Error().Err(err).Str("user_id", userID).Msg("Failed to reset password")
		writeServiceError(w, err)
		return
	}

	h.events.CreateEvent("user.password_reset", "info", "User completed a password reset.", &userID)
	writeJSON(w, http.StatusOK, map[string]string{"message": "Password Reset Successful, Please Login"})
}
