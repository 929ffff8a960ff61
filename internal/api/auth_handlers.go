package api

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/stockwise/stockwise-backend/internal/auth"
	"github.com/stockwise/stockwise-backend/internal/domain"
	"github.com/stockwise/stockwise-backend/internal/store"
)

// AuthHandler serves registration, login, and the OTP request/verify flow.
type AuthHandler struct {
	repo       store.UserRepository
	codec      *auth.TokenCodec
	otp        *auth.OTPService
	producer   auth.EventPublisher
	sessionTTL time.Duration
}

// NewAuthHandler creates a new handler for the authentication endpoints.
func NewAuthHandler(repo store.UserRepository, codec *auth.TokenCodec, otp *auth.OTPService, producer auth.EventPublisher, sessionTTL time.Duration) *AuthHandler {
	return &AuthHandler{
		repo:       repo,
		codec:      codec,
		otp:        otp,
		producer:   producer,
		sessionTTL: sessionTTL,
	}
}

// HandleRegister creates a new user account with a salted password digest.
func (h *AuthHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var req domain.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Username == "" || req.Password == "" || req.Email == "" {
		http.Error(w, "Username, password and email are required", http.StatusBadRequest)
		return
	}
	if req.Role == "" {
		req.Role = domain.RoleStaff
	}
	if req.Role != domain.RoleAdmin && req.Role != domain.RoleStaff {
		http.Error(w, "Unknown role", http.StatusBadRequest)
		return
	}

	digest, err := auth.HashPassword(req.Password)
	if err != nil {
		log.Printf("Error hashing password: %v", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	newUser := &domain.User{
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: digest,
		Role:         req.Role,
	}

	userID, err := h.repo.CreateUser(r.Context(), newUser)
	if err != nil {
		if errors.Is(err, store.ErrDuplicateEmail) {
			http.Error(w, "Email already registered", http.StatusBadRequest)
			return
		}
		http.Error(w, "Internal server error: could not create user", http.StatusInternalServerError)
		return
	}

	// Best effort: downstream services learn about the account from the broker.
	event := domain.UserRegisteredEvent{UserID: userID, Username: req.Username, Email: req.Email}
	if err := h.producer.Publish(r.Context(), domain.EventsExchange, domain.RoutingUserRegistered, event); err != nil {
		log.Printf("Failed to publish user.registered event for user %s: %v", userID, err)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(map[string]string{"user_id": userID, "status": "registered"})
}

// HandleLogin verifies credentials and issues a signed session token carrying
// the user's identity and role.
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req domain.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Email == "" || req.Password == "" {
		http.Error(w, "Email and password are required", http.StatusBadRequest)
		return
	}

	user, err := h.repo.FindByEmail(r.Context(), req.Email)
	if err != nil {
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	if user == nil {
		http.Error(w, "User not found", http.StatusNotFound)
		return
	}

	if !auth.CheckPassword(req.Password, user.PasswordHash) {
		http.Error(w, "Invalid credentials", http.StatusUnauthorized)
		return
	}

	token, err := h.codec.Issue(map[string]any{
		"sub":  user.ID,
		"role": string(user.Role),
	}, h.sessionTTL)
	if err != nil {
		log.Printf("Error signing session token for user %s: %v", user.ID, err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{
		"token":    token,
		"role":     string(user.Role),
		"email":    user.Email,
		"username": user.Username,
	})
}

type otpRequestBody struct {
	Email string `json:"email"`
}

// HandleRequestOTP generates a passcode for the given email, hands it to the
// notification side channel, and returns the signed delivery token.
func (h *AuthHandler) HandleRequestOTP(w http.ResponseWriter, r *http.Request) {
	var req otpRequestBody
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(req.Email) == "" {
		http.Error(w, "Email is required", http.StatusBadRequest)
		return
	}

	token, err := h.otp.Request(r.Context(), req.Email)
	if err != nil {
		if errors.Is(err, auth.ErrUserNotFound) {
			http.Error(w, "User not found", http.StatusNotFound)
			return
		}
		log.Printf("Error issuing OTP: %v", err)
		http.Error(w, "Could not send OTP", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"token": token})
}

type otpVerifyBody struct {
	Token string      `json:"token"`
	OTP   json.Number `json:"otp"`
}

// HandleVerifyOTP checks a caller-submitted passcode against the one embedded
// in the delivery token. All failure modes map to 400; signature tampering and
// structural corruption are indistinguishable to the caller.
func (h *AuthHandler) HandleVerifyOTP(w http.ResponseWriter, r *http.Request) {
	var req otpVerifyBody
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.Token == "" || req.OTP == "" {
		http.Error(w, "Token and OTP are required", http.StatusBadRequest)
		return
	}

	entered, err := strconv.Atoi(req.OTP.String())
	if err != nil {
		http.Error(w, "OTP must be numeric", http.StatusBadRequest)
		return
	}

	if err := h.otp.Verify(req.Token, entered); err != nil {
		switch {
		case errors.Is(err, auth.ErrOTPExpired):
			http.Error(w, "OTP has expired", http.StatusBadRequest)
		case errors.Is(err, auth.ErrInvalidOTP):
			http.Error(w, "Invalid OTP", http.StatusBadRequest)
		default:
			http.Error(w, "Invalid or malformed token", http.StatusBadRequest)
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "otp_verified"})
}
