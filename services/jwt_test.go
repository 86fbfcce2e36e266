package services

import (
	"testing"
	"time"
)

func newTestJWT() *JWTService {
	return &JWTService{
		AccessTokenDuration: time.Hour,
		jwtSecretKey:        "test-secret",
	}
}

func TestJWTRoundTrip(t *testing.T) {
	svc := newTestJWT()

	token, err := svc.ToJWT("user-123")
	if err != nil {
		t.Fatalf("ToJWT failed: %v", err)
	}

	userID, err := svc.VerifyJWTToken(token)
	if err != nil {
		t.Fatalf("VerifyJWTToken failed: %v", err)
	}
	if userID != "user-123" {
		t.Errorf("userID = %q, want user-123", userID)
	}
}

func TestJWTRejectsWrongSecret(t *testing.T) {
	token, err := newTestJWT().ToJWT("user-123")
	if err != nil {
		t.Fatalf("ToJWT failed: %v", err)
	}

	other := &JWTService{AccessTokenDuration: time.Hour, jwtSecretKey: "different-secret"}
	if _, err := other.VerifyJWTToken(token); err == nil {
		t.Error("token verified under the wrong secret")
	}
}

func TestJWTRejectsExpired(t *testing.T) {
	svc := &JWTService{AccessTokenDuration: -time.Minute, jwtSecretKey: "test-secret"}

	token, err := svc.ToJWT("user-123")
	if err != nil {
		t.Fatalf("ToJWT failed: %v", err)
	}
	if _, err := svc.VerifyJWTToken(token); err == nil {
		t.Error("expired token verified")
	}
}

func TestJWTRejectsGarbage(t *testing.T) {
	if _, err := newTestJWT().VerifyJWTToken("not-a-token"); err == nil {
		t.Error("garbage token verified")
	}
}

func TestExtractTokenFromHeader(t *testing.T) {
	svc := newTestJWT()

	tests := []struct {
		header  string
		want    string
		wantErr bool
	}{
		{"Bearer abc.def.ghi", "abc.def.ghi", false},
		{"", "", true},
		{"abc.def.ghi", "", true},
		{"Basic abc", "", true},
	}

	for _, tt := range tests {
		got, err := svc.ExtractTokenFromHeader(tt.header)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ExtractTokenFromHeader(%q) expected error", tt.header)
			}
			continue
		}
		if err != nil {
			t.Errorf("ExtractTokenFromHeader(%q) failed: %v", tt.header, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ExtractTokenFromHeader(%q) = %q, want %q", tt.header, got, tt.want)
		}
	}
}

func TestGenerateTokenPair(t *testing.T) {
	svc := newTestJWT()

	pair, err := svc.GenerateTokenPair("user-123")
	if err != nil {
		t.Fatalf("GenerateTokenPair failed: %v", err)
	}
	if pair.AccessToken == "" {
		t.Error("empty access token")
	}
	if pair.ExpiresIn != 3600 {
		t.Errorf("expiresIn = %d, want 3600", pair.ExpiresIn)
	}
}
