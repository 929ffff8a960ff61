package auth

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/stockwise/stockwise-backend/internal/domain"
)

// UserDirectory is the slice of the user store the OTP flow needs.
// FindByEmail returns (nil, nil) when no user has the given email.
type UserDirectory interface {
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
}

// EventPublisher publishes delivery events to the notification side channel.
type EventPublisher interface {
	Publish(ctx context.Context, exchange, routingKey string, body interface{}) error
}

// OTPService issues and verifies time-boxed one-time passcodes. The passcode
// and its own expiry instant travel inside a signed token, so verification
// needs no server-side state. The token-level ttl is deliberately longer than
// the embedded passcode expiry; Verify enforces the tighter embedded window.
type OTPService struct {
	users     UserDirectory
	codec     *TokenCodec
	publisher EventPublisher
	otpTTL    time.Duration
	tokenTTL  time.Duration
	now       func() time.Time
}

// NewOTPService wires the OTP flow. otpTTL bounds the passcode itself;
// tokenTTL bounds the carrier token.
func NewOTPService(users UserDirectory, codec *TokenCodec, publisher EventPublisher, otpTTL, tokenTTL time.Duration) *OTPService {
	return &OTPService{
		users:     users,
		codec:     codec,
		publisher: publisher,
		otpTTL:    otpTTL,
		tokenTTL:  tokenTTL,
		now:       time.Now,
	}
}

// Request looks up the user, generates a fresh 4-digit passcode, and hands it
// to the notification side channel addressed to the user's email. The signed
// token carrying the passcode is returned to the caller; the passcode itself
// is not. A delivery failure fails the whole operation: no token should reach
// the client unless the passcode left for the side channel.
func (s *OTPService) Request(ctx context.Context, email string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return "", fmt.Errorf("looking up user: %w", err)
	}
	if user == nil {
		return "", ErrUserNotFound
	}

	code, err := randomPasscode()
	if err != nil {
		return "", fmt.Errorf("generating passcode: %w", err)
	}

	expiry := s.now().Add(s.otpTTL)
	token, err := s.codec.Issue(map[string]any{
		"otp":        code,
		"expiration": expiry.Unix(),
	}, s.tokenTTL)
	if err != nil {
		return "", fmt.Errorf("signing otp token: %w", err)
	}

	event := domain.OTPRequestedEvent{
		Email:         user.Email,
		Username:      user.Username,
		Code:          code,
		ExpiryMinutes: int(s.otpTTL / time.Minute),
	}
	if err := s.publisher.Publish(ctx, domain.EventsExchange, domain.RoutingOTPRequested, event); err != nil {
		return "", fmt.Errorf("delivering otp notification: %w", err)
	}

	return token, nil
}

// Verify decodes the delivery token and compares the embedded passcode with
// the caller-submitted one. Structural and signature failures collapse into
// ErrInvalidToken so the caller cannot distinguish tampering from corruption.
// The embedded expiry is checked before the passcode: a correctly signed,
// unexpired token can still carry an expired passcode.
func (s *OTPService) Verify(token string, entered int) error {
	claims, err := s.codec.Verify(token)
	if err != nil {
		if err == ErrTokenExpired {
			return ErrOTPExpired
		}
		return ErrInvalidToken
	}

	expiry, ok := claimInt64(claims["expiration"])
	if !ok {
		return ErrInvalidToken
	}
	if s.now().Unix() > expiry {
		return ErrOTPExpired
	}

	code, ok := claimInt64(claims["otp"])
	if !ok {
		return ErrInvalidToken
	}
	if int64(entered) != code {
		return ErrInvalidOTP
	}
	return nil
}

// randomPasscode draws a uniform 4-digit integer in [1000, 9999] from
// crypto/rand.
func randomPasscode() (int, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(9000))
	if err != nil {
		return 0, err
	}
	return int(n.Int64()) + 1000, nil
}

// claimInt64 normalizes a numeric claim. Claims round-trip through JSON, so
// numbers come back as float64.
func claimInt64(v any) (int64, bool) {
	switch n := v.(type) {
	case float64:
		return int64(n), true
	case int64:
		return n, true
	case int:
		return int64(n), true
	default:
		return 0, false
	}
}
