package testutil

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/dom/weather-gate/internal/domain"
	"github.com/dom/weather-gate/internal/repository"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// UserBuilder creates test users with a builder pattern
type UserBuilder struct {
	username string
	password string
}

// NewUserBuilder creates a new UserBuilder with default values
func NewUserBuilder() *UserBuilder {
	return &UserBuilder{
		username: fmt.Sprintf("testuser_%s", uuid.New().String()[:8]),
		password: "testpassword123",
	}
}

// WithUsername sets the login name
func (b *UserBuilder) WithUsername(name string) *UserBuilder {
	b.username = name
	return b
}

// WithPassword sets the password
func (b *UserBuilder) WithPassword(password string) *UserBuilder {
	b.password = password
	return b
}

// Build stores the user directly in the repository and returns it with the raw password
func (b *UserBuilder) Build(t *testing.T, repo repository.UserRepository) (*domain.User, string) {
	t.Helper()

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(b.password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	user := &domain.User{
		Username:     b.username,
		PasswordHash: string(hashedPassword),
	}

	if err := repo.Create(context.Background(), user); err != nil {
		t.Fatalf("failed to create user: %v", err)
	}

	return user, b.password
}

// Envelope matches the API response envelope
type Envelope struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
	Message string          `json:"message,omitempty"`
	Route   string          `json:"route,omitempty"`
}

// SignUp registers the user through the API using client, so the session
// cookie lands in the client's jar. It returns the issued token.
func (b *UserBuilder) SignUp(t *testing.T, ts *TestServer, client *http.Client) string {
	t.Helper()

	body, _ := json.Marshal(map[string]string{
		"login":    b.username,
		"password": b.password,
	})

	resp, err := client.Post(ts.URL("/sign-up"), "application/json", bytes.NewBuffer(body))
	if err != nil {
		t.Fatalf("failed to sign up: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("unexpected status code: %d", resp.StatusCode)
	}

	token, ok := CookieValue(resp, "Token")
	if !ok {
		t.Fatalf("sign-up response carried no Token cookie")
	}
	return token
}
