package router

import (
	"github.com/gofiber/fiber/v3"

	"github.com/Alijeyrad/ticketcreator_backend/internal/api/http/handler"
)

func (r *Router) registerTicketRoutes(api fiber.Router, th *handler.TicketHandler) {
	tickets := api.Group("/tickets")

	tickets.Get("/", th.List)
	tickets.Post("/", th.Create)

	t := tickets.Group("/:id")
	t.Get("/", th.Get)
	t.Patch("/", th.Update)
	t.Delete("/", th.Delete)

	t.Post("/steps", th.AddStep)
	t.Patch("/steps/:stepId", th.UpdateStep)
	t.Delete("/steps/:stepId", th.DeleteStep)

	t.Post("/notes", th.AddNote)
	t.Patch("/notes/:noteId", th.UpdateNote)
	t.Delete("/notes/:noteId", th.DeleteNote)
}
