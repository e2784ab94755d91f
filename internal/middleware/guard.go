// Package middleware carries the route guard: protected routes are
// annotated with a required role and the guard decides Allow or Deny
// before the protected handler runs.
package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

// Decision is the guard outcome. Deny redirects to the login view and
// the protected handler is never invoked.
type Decision int

const (
	Deny Decision = iota
	Allow
)

// LoginPath is where denied navigation attempts are sent.
const LoginPath = "/login"

// GuardState is the session evidence the guard evaluates.
type GuardState struct {
	LoggedIn bool
	Role     string
}

// Evaluate is the pure guard decision: Allow only when logged in and
// the required role is satisfied. An empty requiredRole means any
// authenticated user.
func Evaluate(state GuardState, requiredRole string) Decision {
	if !state.LoggedIn {
		return Deny
	}
	if requiredRole != "" && state.Role != requiredRole {
		return Deny
	}
	return Allow
}

type contextKey string

const (
	userIDKey contextKey = "user_id"
	emailKey  contextKey = "email"
	roleKey   contextKey = "role"
)

// GetUserID returns the authenticated user id, or "" outside a guarded
// route.
func GetUserID(ctx context.Context) string {
	id, _ := ctx.Value(userIDKey).(string)
	return id
}

func GetEmail(ctx context.Context) string {
	email, _ := ctx.Value(emailKey).(string)
	return email
}

func GetRole(ctx context.Context) string {
	role, _ := ctx.Value(roleKey).(string)
	return role
}

// RouteGuard gates a route group behind a required role. Session
// evidence is an HS256 JWT from the Authorization header or the session
// cookie.
func RouteGuard(jwtSecret, requiredRole string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			state, claims := stateFromRequest(r, jwtSecret)

			if Evaluate(state, requiredRole) == Deny {
				http.Redirect(w, r, LoginPath, http.StatusSeeOther)
				return
			}

			ctx := r.Context()
			ctx = context.WithValue(ctx, userIDKey, stringClaim(claims, "user_id"))
			ctx = context.WithValue(ctx, emailKey, stringClaim(claims, "email"))
			ctx = context.WithValue(ctx, roleKey, stringClaim(claims, "role"))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func stateFromRequest(r *http.Request, jwtSecret string) (GuardState, jwt.MapClaims) {
	tokenString := bearerToken(r)
	if tokenString == "" {
		return GuardState{}, nil
	}

	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(jwtSecret), nil
	})
	if err != nil || !token.Valid {
		return GuardState{}, nil
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return GuardState{}, nil
	}

	return GuardState{LoggedIn: true, Role: stringClaim(claims, "role")}, claims
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimPrefix(header, "Bearer ")
	}
	if cookie, err := r.Cookie("session"); err == nil {
		return cookie.Value
	}
	return ""
}

func stringClaim(claims jwt.MapClaims, key string) string {
	if claims == nil {
		return ""
	}
	value, _ := claims[key].(string)
	return value
}
