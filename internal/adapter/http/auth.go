package http

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"goldvault-backend/internal/domain/user"
	"goldvault-backend/internal/usecase/account"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

const ctxUserKey = "goldvault.user"

// Claims are issued by the identity gateway in front of the portal.
type Claims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

type signInFunc func(ctx context.Context, in account.Identity) (*user.User, error)

// Authenticator verifies HS256 bearer tokens and resolves them to a stored
// user, creating it on first sight.
type Authenticator struct {
	secret []byte
	issuer string
	signIn signInFunc
}

func NewAuthenticator(secret, issuer string, accounts *account.Usecase) *Authenticator {
	return &Authenticator{secret: []byte(secret), issuer: issuer, signIn: accounts.SignIn}
}

func (a *Authenticator) Middleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		raw := c.Request().Header.Get(echo.HeaderAuthorization)
		if !strings.HasPrefix(strings.ToLower(raw), "bearer ") {
			return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "missing bearer token"})
		}
		claims, err := a.parse(strings.TrimSpace(raw[len("Bearer "):]))
		if err != nil {
			slog.Debug("auth: invalid token", slog.Any("err", err))
			return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "invalid token"})
		}

		u, err := a.signIn(c.Request().Context(), account.Identity{Email: claims.Email, ExternalAuthID: claims.Subject})
		if err != nil {
			return writeError(c, err)
		}
		c.Set(ctxUserKey, u)
		return next(c)
	}
}

func (a *Authenticator) parse(token string) (*Claims, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	}
	if a.issuer != "" {
		opts = append(opts, jwt.WithIssuer(a.issuer))
	}
	claims := &Claims{}
	tok, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return a.secret, nil
	}, opts...)
	if err != nil {
		return nil, err
	}
	if !tok.Valid {
		return nil, errors.New("token not valid")
	}
	if claims.Subject == "" || claims.Email == "" {
		return nil, errors.New("token lacks sub or email")
	}
	return claims, nil
}

// CurrentUser is the signed-in user; nil outside authenticated routes.
func CurrentUser(c echo.Context) *user.User {
	u, _ := c.Get(ctxUserKey).(*user.User)
	return u
}

// CurrentUserID satisfies middleware.SubjectFunc.
func CurrentUserID(c echo.Context) string {
	if u := CurrentUser(c); u != nil {
		return u.UserID
	}
	return ""
}

func RequireAdmin(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		u := CurrentUser(c)
		if u == nil {
			return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthenticated"})
		}
		if !u.IsAdmin {
			return c.JSON(http.StatusForbidden, ErrorResponse{Error: user.ErrForbidden.Error()})
		}
		return next(c)
	}
}

// RequireClient admits admins and clients whose registration form was approved.
func RequireClient(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		u := CurrentUser(c)
		if u == nil {
			return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthenticated"})
		}
		switch area := user.Route(u); area {
		case user.AreaAdmin, user.AreaClient:
			return next(c)
		default:
			return c.JSON(http.StatusForbidden, ErrorResponse{
				Error: "registration is not approved",
				Data:  map[string]any{"area": area},
			})
		}
	}
}

func selfOrAdmin(c echo.Context, userID string) bool {
	u := CurrentUser(c)
	return u != nil && (u.IsAdmin || u.UserID == userID)
}
