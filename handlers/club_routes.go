// handlers/club_routes.go
package handlers

import (
	"club-management-system/middleware"
	"club-management-system/services"

	"github.com/gofiber/fiber/v2"
)

func SetupClubRoutes(app *fiber.App, clubService *services.ClubService) {
	// 🔓 Public routes — *no user context*, but **still require Gateway auth**
	app.Get("/clubs", clubService.GetAllClubs)
	app.Get("/clubs/:id", clubService.GetClubByID)
	app.Get("/clubs/:id/events", clubService.GetClubEvents)

	// 🔐 Secured routes — require user context (userID, roles)
	secured := app.Group("/", middleware.UserContextMiddleware())

	secured.Post("/clubs", clubService.CreateClub)
	secured.Put("/clubs/:id", clubService.UpdateClub)
	secured.Delete("/clubs/:id", clubService.DeleteClub)
	secured.Post("/clubs/:id/logo", clubService.UploadClubLogo)

	// Publishing an event is the qualifying-event trigger for EVENT_COUNT
	// competitions.
	secured.Post("/clubs/:id/events", clubService.PublishClubEvent)
}
