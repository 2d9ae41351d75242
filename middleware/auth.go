package middleware

import (
	"fmt"
	"log"
	"strings"

	"quest-board/models"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"gorm.io/gorm"
)

// TokenAuthMiddleware validates the bearer JWT and requires its api_tokens
// row to still exist — logout deletes the row, revoking the token. The
// caller's user id and token id are attached to ctx locals for handlers.
func TokenAuthMiddleware(db *gorm.DB, secret []byte) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "authentication token missing",
			})
		}

		// Strictly "Bearer <token>"; anything else is malformed.
		raw := strings.TrimPrefix(authHeader, "Bearer ")
		if raw == authHeader || raw == "" {
			log.Printf("🚫 [AUTH] Malformed Authorization header for %s", c.Path())
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "invalid authentication token",
			})
		}

		token, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
			}
			return secret, nil
		})
		if err != nil || !token.Valid {
			log.Printf("🚫 [AUTH] Invalid token for %s", c.Path())
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "invalid authentication token",
			})
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "invalid authentication token",
			})
		}
		tokenID, _ := claims["jti"].(string)

		var apiToken models.ApiToken
		if err := db.First(&apiToken, "id = ?", tokenID).Error; err != nil {
			log.Printf("🚫 [AUTH] Revoked or unknown token for %s", c.Path())
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "token has been revoked",
			})
		}

		userID, _ := claims["sub"].(string)
		c.Locals("user_id", userID)
		c.Locals("token_id", tokenID)

		return c.Next()
	}
}
