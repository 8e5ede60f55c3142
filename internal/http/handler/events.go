package handler

import (
	"bufio"
	"encoding/json"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"

	"docingest/internal/notify"
)

// keepAliveInterval spaces the comment lines that keep idle streams open through proxies.
const keepAliveInterval = 15 * time.Second

// Subscriber yields a project's events until cancel is called.
type Subscriber interface {
	Subscribe(projectID string) (<-chan notify.Event, func())
}

// ProjectEvents godoc
// @Summary Stream a project's file events
// @Description Server-sent events; each event is named after its action.
// @Tags events
// @Produce text/event-stream
// @Param id path string true "Project ID"
// @Success 200 {object} notify.Event
// @Router /projects/{id}/events [get]
func ProjectEvents(hub Subscriber) fiber.Handler {
	return func(c *fiber.Ctx) error {
		projectID := c.Params("id")
		if !validID(projectID) {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}

		c.Set(fiber.HeaderContentType, "text/event-stream")
		c.Set(fiber.HeaderCacheControl, "no-cache")
		c.Set(fiber.HeaderConnection, "keep-alive")
		c.Set("X-Accel-Buffering", "no")

		events, cancel := hub.Subscribe(projectID)
		c.Context().SetBodyStreamWriter(func(w *bufio.Writer) {
			defer cancel()
			ticker := time.NewTicker(keepAliveInterval)
			defer ticker.Stop()

			for {
				select {
				case ev, ok := <-events:
					if !ok {
						return
					}
					if err := writeEvent(w, ev); err != nil {
						return
					}
				case <-ticker.C:
					if _, err := w.WriteString(": keep-alive\n\n"); err != nil {
						return
					}
				}
				// A failed flush means the client went away.
				if err := w.Flush(); err != nil {
					return
				}
			}
		})
		return nil
	}
}

func writeEvent(w *bufio.Writer, ev notify.Event) error {
	data, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "event: %s\ndata: %s\n\n", ev.Action, data)
	return err
}
