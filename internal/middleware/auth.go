package middleware

import (
	"net/http"
	"os"
	"strings"

	"basetrack/internal/apperr"
	"basetrack/internal/policy"
	"basetrack/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const actorKey = "actor"

func GetJWTSecret() []byte {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		if os.Getenv("GIN_MODE") == "release" {
			panic("FATAL: JWT_SECRET environment variable is required in production mode")
		}
		secret = "default_super_secret_key" // development fallback only
	}
	return []byte(secret)
}

// Authenticate validates the bearer token and stores the resulting actor in
// the gin context. All scoped authorization happens later in the policy
// package; this middleware only establishes who is calling.
func Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			abortUnauthenticated(c, "authorization is missing")
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			abortUnauthenticated(c, "invalid authorization format, expected 'Bearer <token>'")
			return
		}

		token, err := jwt.Parse(parts[1], func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return GetJWTSecret(), nil
		})
		if err != nil || !token.Valid {
			abortUnauthenticated(c, "invalid or expired token")
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			abortUnauthenticated(c, "invalid token claims")
			return
		}

		actor := policy.Actor{}
		if sub, ok := claims["sub"].(string); ok {
			actor.ID = sub
		}
		if username, ok := claims["username"].(string); ok {
			actor.Username = username
		}
		if role, ok := claims["role"].(string); ok {
			actor.Role = role
		}
		if baseID, ok := claims["base_id"].(string); ok {
			actor.BaseID = baseID
		}
		if actor.ID == "" || actor.Role == "" {
			abortUnauthenticated(c, "token is missing required claims")
			return
		}

		c.Set(actorKey, actor)
		c.Next()
	}
}

// ActorFromContext returns the authenticated actor set by Authenticate.
func ActorFromContext(c *gin.Context) (policy.Actor, bool) {
	v, exists := c.Get(actorKey)
	if !exists {
		return policy.Actor{}, false
	}
	actor, ok := v.(policy.Actor)
	return actor, ok
}

func abortUnauthenticated(c *gin.Context, msg string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized,
		response.Fail(http.StatusUnauthorized, string(apperr.CodeUnauthenticated), msg))
}
