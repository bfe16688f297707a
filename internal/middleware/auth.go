package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

const callerIDKey = contextKey("callerID")

// AuthMiddleware validates back-office credentials on the API group. Two
// credential shapes are accepted: an HS256 service token (POS terminals and
// integrations, subject = terminal id) or the static admin token, compared
// against its bcrypt hash from configuration.
func AuthMiddleware(serviceTokenSecret, adminTokenHash string) gin.HandlerFunc {
	return func(c *gin.Context) {
		logger := GetLoggerFromCtx(c.Request.Context())

		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			logger.Warn("Authorization header missing")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header required"})
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			logger.Warn("Authorization header format invalid")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header format must be Bearer {token}"})
			return
		}

		tokenString := parts[1]

		claims := &jwt.RegisteredClaims{}
		token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, errors.New("unexpected signing method")
			}
			return []byte(serviceTokenSecret), nil
		})
		if err == nil && token.Valid {
			c.Set(string(callerIDKey), claims.Subject)
			c.Next()
			return
		}

		if adminTokenHash != "" {
			if bcrypt.CompareHashAndPassword([]byte(adminTokenHash), []byte(tokenString)) == nil {
				c.Set(string(callerIDKey), "admin")
				c.Next()
				return
			}
		}

		logger.Warn("Invalid bearer token")
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
	}
}

// GetCallerIDFromContext retrieves the authenticated caller id set by
// AuthMiddleware.
func GetCallerIDFromContext(c *gin.Context) (string, bool) {
	val, exists := c.Get(string(callerIDKey))
	if !exists {
		return "", false
	}
	callerID, ok := val.(string)
	return callerID, ok
}
