package api

import (
	"errors"
	"net"
	"net/http"
	"slices"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rpupo63/reelbyte-backend/errs"
	"github.com/rs/zerolog/log"
)

const (
	RoleCreator = "creator"
	RoleClient  = "client"
	RoleBoth    = "both"

	accessTokenType = "access"
)

// Claims are the fields this service reads from an access token. Tokens are
// issued elsewhere and only verified here.
type Claims struct {
	Type             string `json:"type"`
	Role             string `json:"role"`
	CreatorProfileID string `json:"creator_profile_id,omitempty"`
	ClientProfileID  string `json:"client_profile_id,omitempty"`
	jwt.RegisteredClaims
}

// CreatorID returns the caller's creator profile.
func (c *Claims) CreatorID() (uuid.UUID, error) {
	return profileID(c.CreatorProfileID, "creator")
}

// ClientID returns the caller's client profile.
func (c *Claims) ClientID() (uuid.UUID, error) {
	return profileID(c.ClientProfileID, "client")
}

func profileID(raw, kind string) (uuid.UUID, error) {
	if raw == "" {
		return uuid.Nil, errs.NewMissingProfileError(kind)
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, errs.NewMissingProfileError(kind)
	}
	return id, nil
}

type authMiddleware struct {
	responder Responder
	secret    []byte
}

func newAuthMiddleware(secret string) authMiddleware {
	logger := log.With().Str("handlerName", "authMiddleware").Logger()
	return authMiddleware{
		responder: NewResponder(logger),
		secret:    []byte(secret),
	}
}

// parse verifies an HS256 access token.
func (m authMiddleware) parse(tokenStr string) (*Claims, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (any, error) {
		return m.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if errors.Is(err, jwt.ErrTokenExpired) {
		return nil, errs.NewExpiredTokenError()
	}
	if err != nil {
		return nil, errs.NewInvalidTokenError(err)
	}
	if claims.Type != accessTokenType || claims.Subject == "" {
		return nil, errs.NewInvalidTokenError(errors.New("not an access token"))
	}
	return claims, nil
}

func bearerToken(r *http.Request) string {
	parts := strings.Fields(r.Header.Get("Authorization"))
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return ""
	}
	return parts[1]
}

// authenticate rejects requests without a valid access token.
func (m authMiddleware) authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if len(m.secret) == 0 {
			m.responder.WriteError(w, errs.NewFeatureDisabledError("authentication"))
			return
		}

		tokenStr := bearerToken(r)
		if tokenStr == "" {
			m.responder.WriteError(w, errs.NewMissingTokenError())
			return
		}

		claims, err := m.parse(tokenStr)
		if err != nil {
			m.responder.WriteError(w, err)
			return
		}
		next.ServeHTTP(w, r.WithContext(ctxWithClaims(r.Context(), claims)))
	})
}

// identify attaches claims when the request carries a valid token and lets
// anonymous or badly authenticated requests through unchanged.
func (m authMiddleware) identify(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tokenStr := bearerToken(r)
		if tokenStr == "" || len(m.secret) == 0 {
			next.ServeHTTP(w, r)
			return
		}
		claims, err := m.parse(tokenStr)
		if err != nil {
			next.ServeHTTP(w, r)
			return
		}
		next.ServeHTTP(w, r.WithContext(ctxWithClaims(r.Context(), claims)))
	})
}

// requireRole admits authenticated callers whose role is one of roles.
func (m authMiddleware) requireRole(action string, roles ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims := ctxGetClaims(r.Context())
			if claims == nil {
				m.responder.WriteError(w, errs.NewMissingTokenError())
				return
			}
			if !slices.Contains(roles, claims.Role) {
				m.responder.WriteError(w, errs.NewForbiddenError(action))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// viewerKey identifies who is viewing an entity, for view de-duplication.
// Authenticated callers are keyed by user, everyone else by address.
func viewerKey(r *http.Request) string {
	if claims := ctxGetClaims(r.Context()); claims != nil {
		return "user:" + claims.Subject
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		host = r.RemoteAddr
	}
	if host == "" {
		return ""
	}
	return "ip:" + host
}
