package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/valyala/fasthttp"

	"github.com/Nate91117/teamnotes/domain"
)

type stubSubscriber struct {
	events chan domain.ChangeEvent
	err    error
	teamID string
}

func (s *stubSubscriber) Subscribe(ctx context.Context, teamID string) (<-chan domain.ChangeEvent, error) {
	s.teamID = teamID
	if s.err != nil {
		return nil, s.err
	}
	return s.events, nil
}

func pollRequest(teamID string) *fasthttp.RequestCtx {
	ctx := new(fasthttp.RequestCtx)
	ctx.Request.SetRequestURI("/api/v1/changes?wait=1")
	ctx.Request.Header.Set("X-User-ID", "user-1")
	if teamID != "" {
		ctx.Request.Header.Set("X-Team-ID", teamID)
	}
	return ctx
}

func TestPollDeliversBufferedEvent(t *testing.T) {
	sub := &stubSubscriber{events: make(chan domain.ChangeEvent, 1)}
	sub.events <- domain.ChangeEvent{Table: "tasks", Operation: "update", TeamID: "team-1"}
	h := NewChangeHandler(sub, nil, nil)

	ctx := pollRequest("team-1")
	h.Poll(ctx)

	assert.Equal(t, http.StatusOK, ctx.Response.StatusCode())
	assert.Equal(t, "team-1", sub.teamID)

	var envelope struct {
		Status string               `json:"status"`
		Data   []domain.ChangeEvent `json:"data"`
	}
	assert.NoError(t, json.Unmarshal(ctx.Response.Body(), &envelope))
	assert.Equal(t, "success", envelope.Status)
	assert.Len(t, envelope.Data, 1)
	assert.Equal(t, "tasks", envelope.Data[0].Table)
}

func TestPollClosedFeedAnswersEmpty(t *testing.T) {
	events := make(chan domain.ChangeEvent)
	close(events)
	h := NewChangeHandler(&stubSubscriber{events: events}, nil, nil)

	ctx := pollRequest("team-1")
	h.Poll(ctx)

	assert.Equal(t, http.StatusOK, ctx.Response.StatusCode())

	var envelope struct {
		Data []domain.ChangeEvent `json:"data"`
	}
	assert.NoError(t, json.Unmarshal(ctx.Response.Body(), &envelope))
	assert.Empty(t, envelope.Data)
}

func TestPollRequiresSelectedTeam(t *testing.T) {
	sub := &stubSubscriber{events: make(chan domain.ChangeEvent)}
	h := NewChangeHandler(sub, nil, nil)

	ctx := pollRequest("")
	h.Poll(ctx)

	assert.Equal(t, http.StatusBadRequest, ctx.Response.StatusCode())
	assert.Empty(t, sub.teamID)
}
