package middleware

import (
	"fmt"
	"net/http"
	"strings"

	"delivery-api/models"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
)

// Context keys set by Authenticate and read by the controllers.
const (
	ActorIDKey   = "actor_id"
	ActorRoleKey = "actor_role"
)

// Authenticate validates the HS256 bearer token and stores the actor's
// identity and role in the gin context. Token issuance happens in the
// identity service; this middleware only verifies and extracts.
func Authenticate(secret string) gin.HandlerFunc {
	key := []byte(secret)
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			abortUnauthorized(c, "MISSING_TOKEN", "Authorization header with bearer token is required")
			return
		}
		tokenStr := strings.TrimPrefix(header, "Bearer ")

		token, err := jwt.Parse(tokenStr, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return key, nil
		})
		if err != nil || !token.Valid {
			abortUnauthorized(c, "INVALID_TOKEN", "Invalid or expired token")
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			abortUnauthorized(c, "INVALID_TOKEN", "Invalid token claims")
			return
		}

		sub, _ := claims["sub"].(string)
		actorID, err := uuid.Parse(sub)
		if err != nil {
			abortUnauthorized(c, "INVALID_TOKEN", "Token subject is not a valid actor id")
			return
		}

		roleStr, _ := claims["role"].(string)
		role := models.Role(roleStr)
		if !models.ValidRole(role) {
			abortUnauthorized(c, "INVALID_TOKEN", "Token carries an unknown role")
			return
		}

		c.Set(ActorIDKey, actorID)
		c.Set(ActorRoleKey, role)
		c.Next()
	}
}

// GetActor extracts the authenticated actor's id and role from the context.
func GetActor(c *gin.Context) (uuid.UUID, models.Role, error) {
	idVal, exists := c.Get(ActorIDKey)
	if !exists {
		return uuid.Nil, "", &AuthError{Code: "MISSING_ACTOR", Message: "Actor not found in context"}
	}
	actorID, ok := idVal.(uuid.UUID)
	if !ok {
		return uuid.Nil, "", &AuthError{Code: "INVALID_ACTOR", Message: "Actor id is not a UUID"}
	}

	roleVal, exists := c.Get(ActorRoleKey)
	if !exists {
		return uuid.Nil, "", &AuthError{Code: "MISSING_ROLE", Message: "Actor role not found in context"}
	}
	role, ok := roleVal.(models.Role)
	if !ok {
		return uuid.Nil, "", &AuthError{Code: "INVALID_ROLE", Message: "Actor role is not valid"}
	}

	return actorID, role, nil
}

// RequireRole rejects requests whose authenticated actor is not of the given
// role.
func RequireRole(role models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		_, actorRole, err := GetActor(c)
		if err != nil {
			abortUnauthorized(c, "UNAUTHORIZED", "Could not extract actor information")
			return
		}
		if actorRole != role {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "FORBIDDEN",
					"message": fmt.Sprintf("This operation requires the %s role", role),
				},
			})
			return
		}
		c.Next()
	}
}

func abortUnauthorized(c *gin.Context, code, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"success": false,
		"error": gin.H{
			"code":    code,
			"message": message,
		},
	})
}

// AuthError represents an authentication error
type AuthError struct {
	Code    string
	Message string
}

func (e *AuthError) Error() string {
	return e.Message
}
