package middleware

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

type Claims struct {
	jwt.RegisteredClaims
	Id          string   `json:"id"`
	UserID      string   `json:"userId"`
	Username    string   `json:"username"`
	Email       string   `json:"email"`
	Permissions []string `json:"permissions"`
}

func VerifyToken(tokenString, secret string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(
		tokenString,
		&Claims{},
		func(token *jwt.Token) (any, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return []byte(secret), nil
		},
	)
	if err != nil {
		return nil, fmt.Errorf("invalid token: %w", err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token claims")
	}
	return claims, nil
}

// Auth resolves the caller's identity into the X-User-ID header. Requests
// arriving through the gateway already carry the header and pass straight
// through; direct calls must present a bearer token.
func Auth(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetHeader("X-User-ID") != "" {
			c.Next()
			return
		}

		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "Authentication required",
				"code":  "MISSING_CREDENTIALS",
			})
			c.Abort()
			return
		}

		claims, err := VerifyToken(strings.TrimPrefix(header, "Bearer "), secret)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "Invalid token",
				"code":  "INVALID_TOKEN",
			})
			c.Abort()
			return
		}
		if claims.UserID == "" {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "Token carries no user",
				"code":  "MISSING_USER_ID",
			})
			c.Abort()
			return
		}

		c.Request.Header.Set("X-User-ID", claims.UserID)
		c.Set("permissions", claims.Permissions)
		c.Next()
	}
}
