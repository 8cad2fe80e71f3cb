package middleware

import (
	"crypto/rsa"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"

	"storefront-service/services"
)

const UserKey = "authUser"

// RequireAuth verifies the identity provider's session JWT (RS256) and puts
// the shopper into the gin context. With no verification key configured,
// every gated route rejects.
func RequireAuth(publicKeyPEM string) gin.HandlerFunc {
	var publicKey *rsa.PublicKey
	if publicKeyPEM != "" {
		key, err := jwt.ParseRSAPublicKeyFromPEM([]byte(publicKeyPEM))
		if err == nil {
			publicKey = key
		}
	}

	return func(c *gin.Context) {
		if publicKey == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Missing token"})
			return
		}
		tokenString := strings.TrimPrefix(header, "Bearer ")

		token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodRSA); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return publicKey, nil
		})
		if err != nil || !token.Valid {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			return
		}

		user := services.AuthUser{
			ID:    claimString(claims, "sub"),
			Email: claimString(claims, "email"),
			Name:  claimString(claims, "name"),
		}
		if user.ID == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			return
		}

		c.Set(UserKey, user)
		c.Next()
	}
}

// CurrentUser returns the authenticated shopper set by RequireAuth.
func CurrentUser(c *gin.Context) services.AuthUser {
	if val, exists := c.Get(UserKey); exists {
		if user, ok := val.(services.AuthUser); ok {
			return user
		}
	}
	return services.AuthUser{}
}

func claimString(claims jwt.MapClaims, key string) string {
	if val, ok := claims[key].(string); ok {
		return val
	}
	return ""
}
