package auth

import "testing"

const testSecret = "test-secret"

func TestTokenPairRoundTrip(t *testing.T) {
	access, refresh, err := GenerateTokenPair(42, testSecret, 30, 7)
	if err != nil {
		t.Fatalf("GenerateTokenPair: %v", err)
	}

	claims, err := ValidateAccessToken(access, testSecret)
	if err != nil {
		t.Fatalf("ValidateAccessToken: %v", err)
	}
	if claims.UserID != 42 {
		t.Errorf("access UserID = %d, want 42", claims.UserID)
	}

	claims, err = ValidateRefreshToken(refresh, testSecret)
	if err != nil {
		t.Fatalf("ValidateRefreshToken: %v", err)
	}
	if claims.UserID != 42 {
		t.Errorf("refresh UserID = %d, want 42", claims.UserID)
	}
}

func TestTokenTypeMismatch(t *testing.T) {
	access, refresh, err := GenerateTokenPair(42, testSecret, 30, 7)
	if err != nil {
		t.Fatalf("GenerateTokenPair: %v", err)
	}

	if _, err := ValidateAccessToken(refresh, testSecret); err == nil {
		t.Error("expected refresh token to fail access validation")
	}
	if _, err := ValidateRefreshToken(access, testSecret); err == nil {
		t.Error("expected access token to fail refresh validation")
	}
}

func TestTokenWrongSecret(t *testing.T) {
	access, err := GenerateAccessToken(42, testSecret, 30)
	if err != nil {
		t.Fatalf("GenerateAccessToken: %v", err)
	}

	if _, err := ValidateAccessToken(access, "other-secret"); err == nil {
		t.Error("expected validation with a different secret to fail")
	}
}

func TestExpiredToken(t *testing.T) {
	access, err := GenerateAccessToken(42, testSecret, -1)
	if err != nil {
		t.Fatalf("GenerateAccessToken: %v", err)
	}

	if _, err := ValidateAccessToken(access, testSecret); err == nil {
		t.Error("expected expired token to fail validation")
	}
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("hunter2!")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if hash == "hunter2!" {
		t.Fatal("hash must not equal the plaintext")
	}

	if !CheckPassword("hunter2!", hash) {
		t.Error("expected correct password to verify")
	}
	if CheckPassword("wrong", hash) {
		t.Error("expected wrong password to fail")
	}
}
