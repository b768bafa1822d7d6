package handlers

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/tajious/visitdesk/internal/apiclient"
	"github.com/tajious/visitdesk/internal/metrics"
	"github.com/tajious/visitdesk/internal/middleware"
	"github.com/tajious/visitdesk/internal/models"
	"github.com/tajious/visitdesk/internal/poller"
	"github.com/tajious/visitdesk/internal/session"
	"github.com/tajious/visitdesk/internal/views"
	"github.com/valyala/fasthttp"
)

type NotificationHandler struct {
	base
	api      *apiclient.Client
	interval time.Duration
}

func NewNotificationHandler(auth *middleware.AuthMiddleware, api *apiclient.Client, interval time.Duration) *NotificationHandler {
	return &NotificationHandler{
		base:     base{auth: auth},
		api:      api,
		interval: interval,
	}
}

func (h *NotificationHandler) List(c *fiber.Ctx) error {
	list := middleware.ViewsFrom(c).Notifications
	var (
		notes []models.Notification
		err   error
	)
	if c.QueryBool("refresh") {
		notes, err = list.Refetch(c.UserContext())
	} else {
		notes, err = list.Items(c.UserContext())
	}
	if err != nil {
		return h.fail(c, err, "view notifications")
	}
	return c.JSON(fiber.Map{
		"notifications": notes,
		"unread":        metrics.UnreadCount(notes),
	})
}

func (h *NotificationHandler) MarkRead(c *fiber.Ctx) error {
	id, err := idParam(c)
	if err != nil {
		return badRequest(c, err)
	}
	client := middleware.ClientFrom(c)
	err = middleware.ViewsFrom(c).Notifications.Modify(c.UserContext(), id,
		func(ctx context.Context) error { return client.MarkNotificationRead(ctx, id) },
		func(n *models.Notification) { n.IsRead = true })
	if err != nil {
		return h.fail(c, err, "update this notification")
	}
	return message(c, "Notification marked as read")
}

func (h *NotificationHandler) Delete(c *fiber.Ctx) error {
	id, err := idParam(c)
	if err != nil {
		return badRequest(c, err)
	}
	client := middleware.ClientFrom(c)
	err = middleware.ViewsFrom(c).Notifications.Remove(c.UserContext(), id,
		func(ctx context.Context) error { return client.DeleteNotification(ctx, id) })
	if err != nil {
		return h.fail(c, err, "delete this notification")
	}
	return message(c, "Notification deleted successfully")
}

// streamHeartbeat is how often an idle stream writes a comment line. fasthttp
// only reports a departed client when a write fails, so the heartbeat bounds
// how long the poller keeps running for nobody.
const streamHeartbeat = 15 * time.Second

// Stream pushes the notification list as server-sent events, polling the API
// for as long as the connection stays open. The stream ends at the first
// failed write (an update or a heartbeat) or when the session is rejected.
func (h *NotificationHandler) Stream(c *fiber.Ctx) error {
	token := middleware.TokenFrom(c)
	list := middleware.ViewsFrom(c).Notifications
	// The request context is gone once the stream starts, so the stream gets
	// its own copy of the token.
	client := h.api.WithCredentials(session.NewMemoryStore(token))

	c.Set(fiber.HeaderContentType, "text/event-stream")
	c.Set(fiber.HeaderCacheControl, "no-cache")
	c.Set(fiber.HeaderConnection, "keep-alive")
	c.Set("X-Accel-Buffering", "no")

	c.Context().SetBodyStreamWriter(fasthttp.StreamWriter(func(w *bufio.Writer) {
		ctx, cancel := context.WithCancel(views.WithClient(context.Background(), client))
		defer cancel()

		updates := make(chan []models.Notification, 1)
		failures := make(chan error, 1)
		p := &poller.Poller[[]models.Notification]{
			Interval: h.interval,
			Fetch:    list.Refetch,
			OnUpdate: func(notes []models.Notification) { replace(updates, notes) },
			OnError:  func(err error) { replace(failures, err) },
		}
		stop := p.Start(ctx)
		defer stop()

		heartbeat := time.NewTicker(streamHeartbeat)
		defer heartbeat.Stop()

		err := pump(w, updates, failures, heartbeat.C)
		if errors.Is(err, apiclient.ErrUnauthorized) {
			h.auth.Forget(ctx, token)
			return
		}
		log.Printf("notifications: stream closed: %v", err)
	}))
	return nil
}

// pump writes events until a write fails or the session is rejected, and
// returns the error that ended it.
func pump(w *bufio.Writer, updates <-chan []models.Notification, failures <-chan error, heartbeat <-chan time.Time) error {
	for {
		var err error
		select {
		case notes := <-updates:
			err = writeEvent(w, "notifications", fiber.Map{
				"notifications": notes,
				"unread":        metrics.UnreadCount(notes),
			})
		case ferr := <-failures:
			if errors.Is(ferr, apiclient.ErrUnauthorized) {
				_ = writeEvent(w, "unauthorized", fiber.Map{"redirect": session.LoginPath})
				return ferr
			}
			err = writeEvent(w, "error", fiber.Map{"error": apiclient.MessageOf(ferr)})
		case <-heartbeat:
			err = writeComment(w, "ping")
		}
		if err != nil {
			return err
		}
	}
}

// replace puts v in a one-slot channel, dropping any value not yet consumed.
func replace[T any](ch chan T, v T) {
	for {
		select {
		case ch <- v:
			return
		default:
		}
		select {
		case <-ch:
		default:
		}
	}
}

func writeEvent(w *bufio.Writer, event string, payload interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event, data); err != nil {
		return err
	}
	return w.Flush()
}

func writeComment(w *bufio.Writer, text string) error {
	if _, err := fmt.Fprintf(w, ": %s\n\n", text); err != nil {
		return err
	}
	return w.Flush()
}
