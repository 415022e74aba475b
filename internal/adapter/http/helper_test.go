package http

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"goldvault-backend/internal/domain/user"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

const testSecret = "test-secret-0123456789"

var (
	adminUID  = strings.Repeat("a", 32)
	clientUID = strings.Repeat("c", 32)
)

func newEchoWithValidator() *echo.Echo {
	e := echo.New()
	e.Validator = NewValidator()
	return e
}

func mustJSON(v any) *bytes.Reader {
	b, _ := json.Marshal(v)
	return bytes.NewReader(b)
}

func containsFieldMsg(list []FieldError, field, substr string) bool {
	for _, e := range list {
		if e.Field == field && strings.Contains(e.Message, substr) {
			return true
		}
	}
	return false
}

func withUser(c echo.Context, u *user.User) echo.Context {
	c.Set(ctxUserKey, u)
	return c
}

func approvedClient() *user.User {
	return &user.User{ID: 2, UserID: clientUID, Email: "client@example.com", FormStatus: user.FormApproved}
}

func admin() *user.User {
	return &user.User{ID: 1, UserID: adminUID, Email: "admin@example.com", IsAdmin: true}
}

func signToken(t *testing.T, method jwt.SigningMethod, secret, sub, email, issuer string, exp time.Time) string {
	t.Helper()
	claims := Claims{
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   sub,
			Issuer:    issuer,
			ExpiresAt: jwt.NewNumericDate(exp),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	s, err := jwt.NewWithClaims(method, claims).SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return s
}

func decodeError(t *testing.T, b []byte) ErrorResponse {
	t.Helper()
	var er ErrorResponse
	if err := json.Unmarshal(b, &er); err != nil {
		t.Fatalf("bad error json %q: %v", b, err)
	}
	return er
}
