package api

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/warp/leavedesk/store/sqlite"
)

// Claims are the bearer token claims. Tokens are issued by the identity
// provider; this service only verifies them.
type Claims struct {
	UserID string `json:"uid"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// Identity is the authenticated caller.
type Identity struct {
	UserID string
	Role   string
}

// IsManager reports whether the caller has the manager role.
func (id Identity) IsManager() bool { return id.Role == sqlite.RoleManager }

// CanAccess reports whether the caller may read or act on userID's data.
func (id Identity) CanAccess(userID string) bool {
	return id.IsManager() || id.UserID == userID
}

type ctxKey int

const ctxKeyIdentity ctxKey = iota

// IdentityFrom returns the identity stored by Authenticate.
func IdentityFrom(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(ctxKeyIdentity).(Identity)
	return id, ok
}

// NewToken signs an HS256 token for uid with role, valid for ttl.
func NewToken(secret, uid, role string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID: uid,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// ParseToken verifies tokenString and returns its claims.
func ParseToken(secret, tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (any, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token")
	}
	if claims.UserID == "" {
		return nil, errors.New("token has no uid claim")
	}
	if claims.Role != sqlite.RoleEmployee && claims.Role != sqlite.RoleManager {
		return nil, errors.New("token has an unknown role")
	}
	return claims, nil
}

// Authenticate rejects requests without a valid bearer token.
func Authenticate(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			parts := strings.Fields(r.Header.Get("Authorization"))
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				writeError(w, http.StatusUnauthorized, "Authentication required", nil)
				return
			}

			claims, err := ParseToken(secret, parts[1])
			if err != nil {
				writeError(w, http.StatusUnauthorized, "Invalid token", err)
				return
			}

			ctx := context.WithValue(r.Context(), ctxKeyIdentity, Identity{
				UserID: claims.UserID,
				Role:   claims.Role,
			})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireManager rejects callers without the manager role.
func RequireManager(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, ok := IdentityFrom(r.Context())
		if !ok {
			writeError(w, http.StatusUnauthorized, "Authentication required", nil)
			return
		}
		if !id.IsManager() {
			writeError(w, http.StatusForbidden, "Manager role required", nil)
			return
		}
		next.ServeHTTP(w, r)
	})
}
