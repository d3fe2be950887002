// Package events publishes ticket change notifications on NATS.
package events

import (
	"context"
	"fmt"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/nats-io/nats.go"

	"github.com/Alijeyrad/ticketcreator_backend/pkg/reqctx"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Envelope is the message body on every subject.
type Envelope struct {
	Kind       string    `json:"kind"`
	TicketID   string    `json:"ticketId"`
	RequestID  string    `json:"requestId,omitempty"`
	OccurredAt time.Time `json:"occurredAt"`
	Payload    any       `json:"payload,omitempty"`
}

// Publisher is fire-and-forget. A nil *Publisher is valid and drops
// everything, which is what runs when nats.url is empty.
type Publisher struct {
	nc     *nats.Conn
	prefix string
}

func NewPublisher(nc *nats.Conn, prefix string) *Publisher {
	if nc == nil {
		return nil
	}
	if prefix == "" {
		prefix = "tickets"
	}
	return &Publisher{nc: nc, prefix: prefix}
}

// Subject builds "<prefix>.ticket.<kind>.<id>".
func Subject(prefix, kind, ticketID string) string {
	return fmt.Sprintf("%s.ticket.%s.%s", prefix, kind, ticketID)
}

func (p *Publisher) Publish(ctx context.Context, kind, ticketID string, payload any) {
	if p == nil || p.nc == nil {
		return
	}

	data, err := json.Marshal(Envelope{
		Kind:       kind,
		TicketID:   ticketID,
		RequestID:  reqctx.RequestIDFromContext(ctx),
		OccurredAt: time.Now().UTC(),
		Payload:    payload,
	})
	if err != nil {
		reqctx.Logger(ctx).Warn("events: encode failed", "kind", kind, "ticket_id", ticketID, "err", err)
		return
	}

	if err := p.nc.Publish(Subject(p.prefix, kind, ticketID), data); err != nil {
		reqctx.Logger(ctx).Warn("events: publish failed", "kind", kind, "ticket_id", ticketID, "err", err)
	}
}
