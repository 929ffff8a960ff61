package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stockwise/stockwise-backend/internal/domain"
)

type stubDirectory struct {
	users map[string]*domain.User
}

func (d *stubDirectory) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	return d.users[email], nil
}

type recordingPublisher struct {
	events []domain.OTPRequestedEvent
	fail   error
}

func (p *recordingPublisher) Publish(ctx context.Context, exchange, routingKey string, body interface{}) error {
	if p.fail != nil {
		return p.fail
	}
	if event, ok := body.(domain.OTPRequestedEvent); ok {
		p.events = append(p.events, event)
	}
	return nil
}

func newTestOTPService(pub *recordingPublisher) *OTPService {
	directory := &stubDirectory{users: map[string]*domain.User{
		"a@x.com": {ID: "user-1", Username: "ada", Email: "a@x.com", Role: domain.RoleAdmin},
	}}
	codec := NewTokenCodec([]byte("otp-test-secret"))
	return NewOTPService(directory, codec, pub, 2*time.Minute, 10*time.Minute)
}

func TestOTPRequestIssuesTokenAndPublishes(t *testing.T) {
	pub := &recordingPublisher{}
	svc := newTestOTPService(pub)

	token, err := svc.Request(context.Background(), "A@X.com")
	if err != nil {
		t.Fatalf("Request error: %v", err)
	}
	if token == "" {
		t.Fatalf("expected a delivery token")
	}
	if len(pub.events) != 1 {
		t.Fatalf("expected exactly one published event, got %d", len(pub.events))
	}

	event := pub.events[0]
	if event.Email != "a@x.com" {
		t.Fatalf("event addressed to %q, want a@x.com", event.Email)
	}
	if event.Code < 1000 || event.Code > 9999 {
		t.Fatalf("passcode %d outside [1000, 9999]", event.Code)
	}

	// The delivered passcode must verify against the returned token.
	if err := svc.Verify(token, event.Code); err != nil {
		t.Fatalf("Verify with delivered passcode: %v", err)
	}
}

func TestOTPRequestUnknownEmail(t *testing.T) {
	pub := &recordingPublisher{}
	svc := newTestOTPService(pub)

	_, err := svc.Request(context.Background(), "nobody@x.com")
	if !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
	if len(pub.events) != 0 {
		t.Fatalf("no notification may be published for an unknown email")
	}
}

func TestOTPRequestDeliveryFailure(t *testing.T) {
	pub := &recordingPublisher{fail: errors.New("broker down")}
	svc := newTestOTPService(pub)

	if _, err := svc.Request(context.Background(), "a@x.com"); err == nil {
		t.Fatalf("expected request to fail when delivery fails")
	}
}

func TestOTPVerifyWrongPasscode(t *testing.T) {
	pub := &recordingPublisher{}
	svc := newTestOTPService(pub)

	token, err := svc.Request(context.Background(), "a@x.com")
	if err != nil {
		t.Fatalf("Request error: %v", err)
	}

	wrong := pub.events[0].Code + 1
	if wrong > 9999 {
		wrong = 1000
	}
	if err := svc.Verify(token, wrong); err != ErrInvalidOTP {
		t.Fatalf("expected ErrInvalidOTP, got %v", err)
	}
}

func TestOTPVerifyEmbeddedExpiryBeatsTokenTTL(t *testing.T) {
	pub := &recordingPublisher{}
	svc := newTestOTPService(pub)

	token, err := svc.Request(context.Background(), "a@x.com")
	if err != nil {
		t.Fatalf("Request error: %v", err)
	}
	code := pub.events[0].Code

	// Three minutes later the passcode window (2m) is over but the carrier
	// token (10m) is still signature-valid and unexpired.
	svc.now = func() time.Time { return time.Now().Add(3 * time.Minute) }
	if err := svc.Verify(token, code); err != ErrOTPExpired {
		t.Fatalf("expected ErrOTPExpired after embedded expiry, got %v", err)
	}
}

func TestOTPVerifyReplayableUntilExpiry(t *testing.T) {
	// Verification is stateless: the same token/passcode pair verifies
	// repeatedly until the embedded expiry passes.
	pub := &recordingPublisher{}
	svc := newTestOTPService(pub)

	token, err := svc.Request(context.Background(), "a@x.com")
	if err != nil {
		t.Fatalf("Request error: %v", err)
	}
	code := pub.events[0].Code

	for i := 0; i < 3; i++ {
		if err := svc.Verify(token, code); err != nil {
			t.Fatalf("verification %d failed: %v", i+1, err)
		}
	}
}

func TestOTPVerifyGarbageToken(t *testing.T) {
	svc := newTestOTPService(&recordingPublisher{})

	if err := svc.Verify("not-a-token", 1234); err != ErrInvalidToken {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestOTPVerifyTokenMissingClaims(t *testing.T) {
	svc := newTestOTPService(&recordingPublisher{})

	// A structurally valid token from the same issuer without OTP claims must
	// be rejected, not treated as a match.
	token, err := svc.codec.Issue(map[string]any{"sub": "user-1"}, time.Minute)
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}
	if err := svc.Verify(token, 1234); err != ErrInvalidToken {
		t.Fatalf("expected ErrInvalidToken for token without otp claims, got %v", err)
	}
}
