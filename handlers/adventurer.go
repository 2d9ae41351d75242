package handlers

import (
	"quest-board/services"

	"github.com/gofiber/fiber/v2"
)

func SetupAdventurerRoutes(app *fiber.App, auth fiber.Handler, adventurerService *services.AdventurerService, specialityService *services.SpecialityService) {
	secured := app.Group("/", auth)

	// Adventurers
	secured.Get("/adventurers", adventurerService.List)
	secured.Post("/adventurers", adventurerService.Create)
	secured.Get("/adventurers/:adventurerId", adventurerService.GetByID)
	secured.Delete("/adventurers/:adventurerId", adventurerService.Delete)

	// Specialities (static reference data)
	secured.Get("/specialities", specialityService.List)
}
