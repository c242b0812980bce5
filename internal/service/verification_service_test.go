package service

import (
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"
)

func newTestService() (*VerificationService, *SessionStore) {
	store := NewSessionStore(time.Hour)
	codec := NewTokenCodec("secret", 24*time.Hour)
	svc := NewVerificationService(zap.NewNop(), store, codec, "http://localhost:8080/")
	return svc, store
}

func TestVerificationService_IssueSession(t *testing.T) {
	svc, _ := newTestService()

	result := svc.IssueSession()
	if result.SessionToken == "" {
		t.Fatalf("expected session token")
	}
	wantURL := "http://localhost:8080/verify/" + DeriveShortID(result.SessionToken)
	if result.ShortURL != wantURL {
		t.Fatalf("expected short url %q, got %q", wantURL, result.ShortURL)
	}
}

func TestVerificationService_ResolveShortLink(t *testing.T) {
	svc, _ := newTestService()

	result := svc.IssueSession()
	token, err := svc.ResolveShortLink(DeriveShortID(result.SessionToken))
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if token != result.SessionToken {
		t.Fatalf("expected %q, got %q", result.SessionToken, token)
	}

	if _, err := svc.ResolveShortLink("ffffffff"); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound, got %v", err)
	}
}

func TestVerificationService_CompleteVerificationErrors(t *testing.T) {
	svc, store := newTestService()

	if _, err := svc.CompleteVerification("unknown", "dev123"); !errors.Is(err, ErrSessionInvalid) {
		t.Fatalf("expected ErrSessionInvalid, got %v", err)
	}

	result := svc.IssueSession()
	store.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	if _, err := svc.CompleteVerification(result.SessionToken, "dev123"); !errors.Is(err, ErrSessionExpired) {
		t.Fatalf("expected ErrSessionExpired, got %v", err)
	}
}

func TestVerificationService_EndToEnd(t *testing.T) {
	svc, _ := newTestService()

	issued := svc.IssueSession()

	token, err := svc.ResolveShortLink(DeriveShortID(issued.SessionToken))
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if token != issued.SessionToken {
		t.Fatalf("resolved token mismatch")
	}

	result, err := svc.CompleteVerification(token, "dev123")
	if err != nil {
		t.Fatalf("complete verification: %v", err)
	}
	if result.SignedToken == "" {
		t.Fatalf("expected signed token")
	}
	wantNext := time.Now().UTC().Unix() + 86400
	if result.NextVerifyAt < wantNext-2 || result.NextVerifyAt > wantNext+2 {
		t.Fatalf("nextVerifyAt %d not near now+86400", result.NextVerifyAt)
	}

	if !svc.CheckToken(result.SignedToken) {
		t.Fatalf("expected signed token to validate")
	}
	if svc.CheckToken("garbage") {
		t.Fatalf("expected garbage token to be invalid")
	}
}

func TestIssueRateLimiter_Allow(t *testing.T) {
	limiter := NewIssueRateLimiter(time.Minute, 3)

	for i := 0; i < 3; i++ {
		if !limiter.Allow("10.0.0.1") {
			t.Fatalf("expected call %d within limit", i+1)
		}
	}
	if limiter.Allow("10.0.0.1") {
		t.Fatalf("expected fourth call to be limited")
	}
	if !limiter.Allow("10.0.0.2") {
		t.Fatalf("expected other key to be unaffected")
	}
}
