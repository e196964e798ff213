package handler

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/Nate91117/teamnotes/domain"
	"github.com/Nate91117/teamnotes/pkg/httpcontext"
)

// ChangeSubscriber streams a team's change events until the context ends.
type ChangeSubscriber interface {
	Subscribe(ctx context.Context, teamID string) (<-chan domain.ChangeEvent, error)
}

const (
	defaultPollWait = 20 * time.Second
	maxPollWait     = 30 * time.Second
)

type ChangeHandler struct {
	baseHandler
	subscriber ChangeSubscriber
}

func NewChangeHandler(subscriber ChangeSubscriber, adapter *httpcontext.Adapter, logger *zap.Logger) *ChangeHandler {
	return &ChangeHandler{
		baseHandler: newBaseHandler(adapter, logger),
		subscriber:  subscriber,
	}
}

// @Summary Long-poll for team change events
// @Tags changes
// @Router /api/v1/changes [get]
func (h *ChangeHandler) Poll(ctx *fasthttp.RequestCtx) {
	scope, ok := h.scope(ctx)
	if !ok {
		return
	}

	// The poll holds the connection open past the normal per-request
	// deadline, so the wait context is built independently of the adapter.
	waitCtx, cancel := context.WithTimeout(context.Background(), pollWait(ctx))
	defer cancel()

	events, err := h.subscriber.Subscribe(waitCtx, scope.TeamID)
	if err != nil {
		h.respondError(ctx, err)
		return
	}

	collected := []domain.ChangeEvent{}
	select {
	case event, open := <-events:
		if open {
			collected = append(collected, event)
		}
	case <-waitCtx.Done():
	}
	h.respondSuccess(ctx, http.StatusOK, collected)
}

// pollWait reads the optional wait query argument in seconds, clamped to
// keep a slow client from pinning the connection.
func pollWait(ctx *fasthttp.RequestCtx) time.Duration {
	raw := string(ctx.QueryArgs().Peek("wait"))
	if raw == "" {
		return defaultPollWait
	}
	seconds, err := strconv.Atoi(raw)
	if err != nil || seconds <= 0 {
		return defaultPollWait
	}
	wait := time.Duration(seconds) * time.Second
	if wait > maxPollWait {
		return maxPollWait
	}
	return wait
}
