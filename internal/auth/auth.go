package auth

import (
	"context"
	"net/http"
	"slices"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"mindful-chat/internal/config"
	"mindful-chat/internal/logger"
)

type contextKey string

// ownerContextKey carries the resolved owner identifier through the
// request context
const ownerContextKey contextKey = "owner"

// Verifier resolves owner identities from bearer tokens issued by the
// external identity provider. This server never issues tokens itself;
// it only verifies the signature and reads the subject claim.
type Verifier struct {
	secretKey      []byte
	publishableKey string
}

// NewVerifier creates a Verifier from the identity provider key pair
func NewVerifier(cfg config.IdentityConfig) *Verifier {
	return &Verifier{
		secretKey:      cfg.SecretKey,
		publishableKey: cfg.PublishableKey,
	}
}

// resolveOwner validates the token and returns the owner identifier
func (v *Verifier) resolveOwner(tokenString string) (string, error) {
	token, err := jwt.ParseWithClaims(tokenString, &jwt.RegisteredClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return v.secretKey, nil
	})
	if err != nil {
		return "", err
	}

	claims, ok := token.Claims.(*jwt.RegisteredClaims)
	if !ok || !token.Valid {
		return "", jwt.ErrTokenInvalidClaims
	}

	if claims.Subject == "" {
		return "", jwt.ErrTokenRequiredClaimMissing
	}

	// When a publishable key is configured the token must have been
	// minted for this application.
	if v.publishableKey != "" && !slices.Contains(claims.Audience, v.publishableKey) {
		return "", jwt.ErrTokenInvalidAudience
	}

	return claims.Subject, nil
}

// Middleware resolves the owner identity from the Authorization header
// and rejects the request with 401 before any handler work when it is
// missing or invalid
func (v *Verifier) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			unauthorized(w, "Missing Authorization header")
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			unauthorized(w, "Authorization header must be 'Bearer <token>'")
			return
		}

		ownerID, err := v.resolveOwner(parts[1])
		if err != nil {
			logger.Log.WithError(err).Debug("Token verification failed")
			unauthorized(w, "Invalid or expired token")
			return
		}

		ctx := context.WithValue(r.Context(), ownerContextKey, ownerID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// OwnerFromContext returns the owner identifier resolved by Middleware
func OwnerFromContext(ctx context.Context) (string, bool) {
	ownerID, ok := ctx.Value(ownerContextKey).(string)
	return ownerID, ok
}

// unauthorized sends a 401 JSON error without leaking verification detail
func unauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	w.Write([]byte(`{"error":"` + message + `"}`))
}
