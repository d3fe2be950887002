package app

import (
	"go.uber.org/fx"

	"github.com/Alijeyrad/ticketcreator_backend/internal/service/ticket"
	"github.com/Alijeyrad/ticketcreator_backend/internal/store"
)

// ServiceModule provides all application service dependencies.
var ServiceModule = fx.Module("services",
	fx.Provide(ProvideTicketService),
)

func ProvideTicketService(st store.Tickets, pub ticket.EventPublisher) ticket.Service {
	return ticket.New(st, pub)
}
