package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"approval-flow-api/internal/domain"
	"approval-flow-api/internal/response"
)

// CallerKey is the gin context key the resolved caller is stored under
const CallerKey = "caller"

// Identity materializes the caller context from the x-user-id, x-user-name
// and x-user-role headers. The authentication collaborator in front of this
// service is expected to have set them; they are trusted as given. When a JWT
// secret is configured and a Bearer token is present, the token subject
// overrides the header user id.
func Identity(jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		caller := domain.Caller{
			UserID:   c.GetHeader("x-user-id"),
			UserName: c.GetHeader("x-user-name"),
			Role:     c.GetHeader("x-user-role"),
		}

		if jwtSecret != "" {
			if sub, ok := subjectFromBearer(c.GetHeader("Authorization"), jwtSecret); ok {
				caller.UserID = sub
			}
		}

		c.Set(CallerKey, caller)
		c.Next()
	}
}

// RequireUser rejects requests whose caller has no user id. Mutating approval
// endpoints sit behind this guard so no default identity is ever assumed.
func RequireUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		caller := CallerFrom(c)
		if caller.UserID == "" {
			response.Error(c, http.StatusUnauthorized, "missing x-user-id header")
			c.Abort()
			return
		}
		c.Next()
	}
}

// CallerFrom returns the caller stored by the Identity middleware
func CallerFrom(c *gin.Context) domain.Caller {
	if v, ok := c.Get(CallerKey); ok {
		if caller, ok := v.(domain.Caller); ok {
			return caller
		}
	}
	return domain.Caller{}
}

// subjectFromBearer parses an HMAC-signed bearer token and returns its
// subject claim
func subjectFromBearer(authHeader, secret string) (string, bool) {
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" {
		return "", false
	}

	token, err := jwt.Parse(parts[1], func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(secret), nil
	})
	if err != nil || !token.Valid {
		return "", false
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", false
	}
	sub, ok := claims["sub"].(string)
	return sub, ok && sub != ""
}
