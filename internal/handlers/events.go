package handlers

import (
	"github.com/dimitrije/rosterdesk-api/internal/sse"
	"github.com/google/uuid"
	"github.com/m1z23r/drift/pkg/drift"
)

type EventsHandler struct {
	hub         EventHub
	teamService TeamServiceInterface
}

func NewEventsHandler(hub EventHub, teamService TeamServiceInterface) *EventsHandler {
	return &EventsHandler{
		hub:         hub,
		teamService: teamService,
	}
}

// Stream keeps a server-sent event connection open for one team. Clients
// receive performance sync status changes and refetch what they show.
func (h *EventsHandler) Stream(c *drift.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	teamID, ok := parseIDParam(c, "id", "team")
	if !ok {
		return
	}

	if _, ok := memberRole(c, h.teamService, teamID, userID, "team not found"); !ok {
		return
	}

	stream := c.SSE()

	client := &sse.Client{
		ID:     uuid.New().String(),
		UserID: userID,
		TeamID: teamID,
		Send:   make(chan []byte, 64),
	}

	h.hub.Register(client)
	defer h.hub.Unregister(client)

	if err := stream.SendJSON(map[string]string{
		"type":      "connected",
		"client_id": client.ID,
	}, "system", ""); err != nil {
		return
	}

	done := c.Request.Context().Done()
	for {
		select {
		case msg, ok := <-client.Send:
			if !ok {
				return
			}
			if err := stream.Send(string(msg), "message", ""); err != nil {
				return
			}
		case <-done:
			return
		}
	}
}
