package handlers

import (
	"quest-board/services"

	"github.com/gofiber/fiber/v2"
)

// SetupSecurityRoutes must be registered before the secured route groups so
// /login stays reachable without a token.
func SetupSecurityRoutes(app *fiber.App, auth fiber.Handler, authService *services.AuthService) {
	app.Post("/login", authService.Login)

	secured := app.Group("/", auth)
	secured.Post("/logout", authService.Logout)
}
