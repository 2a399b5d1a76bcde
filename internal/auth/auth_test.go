package auth

import (
	"testing"

	"time-planner/internal/model"
)

func TestPasswordHashing(t *testing.T) {
	m := NewManager("secret")

	hash, err := m.HashPassword("Password1!")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if hash == "Password1!" {
		t.Fatal("password stored in plain text")
	}
	if !m.CheckPassword(hash, "Password1!") {
		t.Error("correct password rejected")
	}
	if m.CheckPassword(hash, "wrong") {
		t.Error("wrong password accepted")
	}
}

func TestTokenRoundTrip(t *testing.T) {
	m := NewManager("secret")
	user := &model.User{ID: 42, Username: "testuser01"}

	token, err := m.Sign(user)
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}

	claims, err := m.Parse(token)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if claims.UserID != 42 || claims.Username != "testuser01" {
		t.Errorf("claims = %+v", claims)
	}
}

func TestParseRejectsForeignToken(t *testing.T) {
	token, err := NewManager("secret-a").Sign(&model.User{ID: 1, Username: "u"})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := NewManager("secret-b").Parse(token); err == nil {
		t.Error("token signed with another secret accepted")
	}
	if _, err := NewManager("secret-a").Parse("garbage"); err == nil {
		t.Error("malformed token accepted")
	}
}
