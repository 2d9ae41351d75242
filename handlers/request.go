package handlers

import (
	"quest-board/services"

	"github.com/gofiber/fiber/v2"
)

func SetupRequestRoutes(app *fiber.App, auth fiber.Handler, requestService *services.RequestService, sweeper *services.Sweeper) {
	secured := app.Group("/", auth)

	// Request CRUD
	secured.Get("/requests", requestService.List)
	secured.Post("/requests", requestService.Create)
	secured.Get("/requests/:requestId", requestService.GetByID)
	secured.Put("/requests/:requestId", requestService.Update)

	// Assignments
	secured.Post("/requests/:requestId/adventurers", requestService.AddAdventurer)
	secured.Delete("/requests/:requestId/adventurers/:adventurerId", requestService.RemoveAdventurer)

	// Manual trigger for the expiration sweep
	secured.Post("/sweep", sweeper.Run)
}
