package notification

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	apperrors "storefront/internal/errors"
	"storefront/internal/identity"
	"storefront/internal/response"
)

type SessionRegistry interface {
	Acquire(ctx context.Context, viewer identity.Viewer) (*Session, func(), error)
	Get(viewerID string) (*Session, bool)
}

type ListResponse struct {
	TraceID       string         `json:"traceId"`
	Notifications []Notification `json:"notifications"`
	HasUnread     bool           `json:"hasUnread"`
}

type Controller struct {
	sessions  SessionRegistry
	heartbeat time.Duration
	logger    *zap.Logger
}

func NewController(sessions SessionRegistry, logger *zap.Logger) *Controller {
	return &Controller{
		sessions:  sessions,
		heartbeat: 25 * time.Second,
		logger:    logger,
	}
}

// Stream sends server-sent events: "notifications" with the full store after
// every change and "effect" for each sound, toast or modal.
func (c *Controller) Stream(w http.ResponseWriter, r *http.Request) {
	traceID := uuid.New().String()
	logger := c.logger.With(zap.String("traceId", traceID))

	viewer, ok := identity.FromContext(r.Context())
	if !ok {
		response.WriteError(w, logger, traceID, apperrors.NewForbiddenError("a signed-in viewer is required"))
		return
	}

	session, release, err := c.sessions.Acquire(r.Context(), viewer)
	if err != nil {
		response.WriteError(w, logger, traceID, err)
		return
	}
	defer release()

	effects, detach := session.Effects.Attach()
	defer detach()

	snapshots := make(chan []Notification, 1)
	unsubscribe := session.Store.Subscribe(func(snapshot []Notification) {
		// keep only the latest snapshot
		select {
		case <-snapshots:
		default:
		}
		select {
		case snapshots <- snapshot:
		default:
		}
	})
	defer unsubscribe()

	rc := http.NewResponseController(w)
	if err := rc.SetWriteDeadline(time.Time{}); err != nil {
		logger.Debug("write deadline not adjustable", zap.Error(err))
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)

	logger.Info("notification stream opened", zap.String("viewerId", viewer.UserID), zap.String("channel", session.Router.Channel().String()))
	defer logger.Info("notification stream closed", zap.String("viewerId", viewer.UserID))

	ticker := time.NewTicker(c.heartbeat)
	defer ticker.Stop()

	for {
		var err error
		select {
		case <-r.Context().Done():
			return
		case snapshot := <-snapshots:
			err = writeEvent(w, "notifications", snapshot)
		case effect, ok := <-effects:
			if !ok {
				return
			}
			err = writeEvent(w, "effect", effect)
		case <-ticker.C:
			_, err = fmt.Fprint(w, ": ping\n\n")
		}
		if err == nil {
			err = rc.Flush()
		}
		if err != nil {
			logger.Debug("notification stream write failed", zap.Error(err))
			return
		}
	}
}

func (c *Controller) List(w http.ResponseWriter, r *http.Request) {
	traceID := uuid.New().String()
	logger := c.logger.With(zap.String("traceId", traceID))

	resp := ListResponse{TraceID: traceID, Notifications: []Notification{}}
	if session, ok := c.session(r); ok {
		resp.Notifications = session.Store.Snapshot()
		resp.HasUnread = len(resp.Notifications) > 0
	}

	response.WriteJSON(w, logger, http.StatusOK, resp)
}

func (c *Controller) MarkAsRead(w http.ResponseWriter, r *http.Request) {
	if session, ok := c.session(r); ok {
		session.Store.Remove(chi.URLParam(r, "orderId"))
	}
	w.WriteHeader(http.StatusNoContent)
}

func (c *Controller) ClearAll(w http.ResponseWriter, r *http.Request) {
	if session, ok := c.session(r); ok {
		session.Store.ClearAll()
	}
	w.WriteHeader(http.StatusNoContent)
}

// session finds the live session of the request's viewer. Without an open
// stream there is nothing stored.
func (c *Controller) session(r *http.Request) (*Session, bool) {
	viewer, ok := identity.FromContext(r.Context())
	if !ok {
		return nil, false
	}
	return c.sessions.Get(viewer.UserID)
}

func writeEvent(w http.ResponseWriter, event string, data interface{}) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("encoding %s event: %w", event, err)
	}
	_, err = fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event, payload)
	return err
}
