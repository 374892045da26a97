package middleware

import (
	"context"
	"crypto/subtle"
	"errors"
	"net/http"
	"strings"
	"time"

	"luxe-backoffice/internal/model"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
)

// RoleAdmin is the role claim granting back-office access.
const RoleAdmin = "admin"

// Claims are the admin bearer token claims.
type Claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// Principal is the caller identified from request credentials.
type Principal struct {
	Subject string
	Role    string
}

// IsAdmin reports whether the principal may use admin routes.
func (p *Principal) IsAdmin() bool {
	return p != nil && p.Role == RoleAdmin
}

type principalKey struct{}

// WithPrincipal returns a copy of ctx carrying p.
func WithPrincipal(ctx context.Context, p *Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

// PrincipalFrom returns the identified caller, or nil for anonymous requests.
func PrincipalFrom(ctx context.Context) *Principal {
	p, _ := ctx.Value(principalKey{}).(*Principal)
	return p
}

// IsAdmin reports whether the request carrying ctx was made by an admin.
func IsAdmin(ctx context.Context) bool {
	return PrincipalFrom(ctx).IsAdmin()
}

var errInvalidToken = errors.New("invalid token")

// Authenticator checks API keys and HS256 bearer tokens.
type Authenticator struct {
	apiKey string
	secret []byte
	logger zerolog.Logger
}

// NewAuthenticator creates an Authenticator. Bearer tokens are rejected when jwtSecret is empty.
func NewAuthenticator(apiKey, jwtSecret string, logger zerolog.Logger) *Authenticator {
	return &Authenticator{
		apiKey: apiKey,
		secret: []byte(jwtSecret),
		logger: logger.With().Str("component", "auth").Logger(),
	}
}

// GenerateToken signs a token for subject with role, valid for ttl.
func (a *Authenticator) GenerateToken(subject, role string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := &Claims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			Issuer:    "luxe-backoffice",
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(a.secret)
}

// ParseToken validates a signed token and returns its claims.
func (a *Authenticator) ParseToken(tokenString string) (*Claims, error) {
	if len(a.secret) == 0 {
		return nil, errInvalidToken
	}

	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		return a.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, err
	}

	if claims, ok := token.Claims.(*Claims); ok && token.Valid {
		return claims, nil
	}

	return nil, errInvalidToken
}

// Identify resolves request credentials into a Principal. Requests without
// credentials continue anonymously; bad credentials are rejected with 401.
func (a *Authenticator) Identify(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if key := r.Header.Get("X-API-Key"); key != "" {
			if subtle.ConstantTimeCompare([]byte(key), []byte(a.apiKey)) != 1 {
				a.logger.Warn().
					Str("path", r.URL.Path).
					Str("provided_key", key[:min(8, len(key))]).
					Msg("invalid API key")
				writeError(w, r, http.StatusUnauthorized, model.ErrCodeUnauthorised, "invalid API key")
				return
			}
			p := &Principal{Subject: "api-key", Role: RoleAdmin}
			next.ServeHTTP(w, r.WithContext(WithPrincipal(r.Context(), p)))
			return
		}

		if header := r.Header.Get("Authorization"); header != "" {
			scheme, token, ok := strings.Cut(header, " ")
			if !ok || !strings.EqualFold(scheme, "Bearer") || token == "" {
				writeError(w, r, http.StatusUnauthorized, model.ErrCodeUnauthorised, "authorization header format must be Bearer {token}")
				return
			}
			claims, err := a.ParseToken(token)
			if err != nil {
				a.logger.Warn().Err(err).Str("path", r.URL.Path).Msg("invalid bearer token")
				writeError(w, r, http.StatusUnauthorized, model.ErrCodeUnauthorised, "invalid token")
				return
			}
			p := &Principal{Subject: claims.Subject, Role: claims.Role}
			next.ServeHTTP(w, r.WithContext(WithPrincipal(r.Context(), p)))
			return
		}

		next.ServeHTTP(w, r)
	})
}

// RequireAdmin rejects anonymous callers with 401 and non-admin callers with 403.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		p := PrincipalFrom(r.Context())
		switch {
		case p == nil:
			writeError(w, r, http.StatusUnauthorized, model.ErrCodeUnauthorised, "authentication credentials were not provided")
		case !p.IsAdmin():
			writeError(w, r, http.StatusForbidden, model.ErrCodeForbidden, "you do not have permission to perform this action")
		default:
			next.ServeHTTP(w, r)
		}
	})
}
