package handler

import (
	"encoding/json"
	"net/http"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/Nate91117/teamnotes/api/transport"
	"github.com/Nate91117/teamnotes/domain"
	"github.com/Nate91117/teamnotes/pkg/httpcontext"
	noteUC "github.com/Nate91117/teamnotes/usecase/note"
)

type NoteHandler struct {
	baseHandler
	uc *noteUC.UseCase
}

func NewNoteHandler(uc *noteUC.UseCase, adapter *httpcontext.Adapter, logger *zap.Logger) *NoteHandler {
	return &NoteHandler{
		baseHandler: newBaseHandler(adapter, logger),
		uc:          uc,
	}
}

// @Summary List notes
// @Tags notes
// @Router /api/v1/notes [get]
func (h *NoteHandler) List(ctx *fasthttp.RequestCtx) {
	scope, ok := h.scope(ctx)
	if !ok {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	notes, err := h.uc.List(stdCtx, scope)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, notes)
}

// @Summary Get note
// @Tags notes
// @Router /api/v1/notes/{id} [get]
func (h *NoteHandler) Get(ctx *fasthttp.RequestCtx) {
	if userID := h.userID(ctx); userID == "" {
		return
	}
	id := pathID(ctx)
	if id == "" {
		h.respondInvalid(ctx, "missing note id")
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	note, err := h.uc.Get(stdCtx, id)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, note)
}

// @Summary Create note
// @Tags notes
// @Router /api/v1/notes [post]
func (h *NoteHandler) Create(ctx *fasthttp.RequestCtx) {
	scope, ok := h.scope(ctx)
	if !ok {
		return
	}
	note, ok := h.parseNote(ctx)
	if !ok {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	created, err := h.uc.Create(stdCtx, scope, note)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusCreated, created)
}

// @Summary Update note
// @Tags notes
// @Router /api/v1/notes/{id} [put]
func (h *NoteHandler) Update(ctx *fasthttp.RequestCtx) {
	scope, ok := h.scope(ctx)
	if !ok {
		return
	}
	note, ok := h.parseNote(ctx)
	if !ok {
		return
	}
	if note.ID == "" {
		note.ID = pathID(ctx)
	}
	note.UserID = scope.UserID
	note.TeamID = scope.TeamID

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	updated, err := h.uc.Update(stdCtx, scope, note)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, updated)
}

// @Summary Delete note
// @Tags notes
// @Router /api/v1/notes/{id} [delete]
func (h *NoteHandler) Delete(ctx *fasthttp.RequestCtx) {
	scope, ok := h.scope(ctx)
	if !ok {
		return
	}
	id := pathID(ctx)
	if id == "" {
		h.respondInvalid(ctx, "missing note id")
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	if err := h.uc.Delete(stdCtx, scope, id); err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusNoContent, nil)
}

func (h *NoteHandler) parseNote(ctx *fasthttp.RequestCtx) (*domain.Note, bool) {
	var req transport.NoteRequest
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil {
		h.respondInvalid(ctx, "invalid payload")
		return nil, false
	}
	return &domain.Note{
		ID:                req.ID,
		Title:             req.Title,
		Content:           req.Content,
		LinkedTaskID:      req.LinkedTaskID,
		SharedToDashboard: req.SharedToDashboard,
	}, true
}
