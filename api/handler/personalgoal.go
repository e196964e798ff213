package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/Nate91117/teamnotes/api/transport"
	"github.com/Nate91117/teamnotes/domain"
	"github.com/Nate91117/teamnotes/pkg/httpcontext"
	pgUC "github.com/Nate91117/teamnotes/usecase/personalgoal"
)

type PersonalGoalHandler struct {
	baseHandler
	uc *pgUC.UseCase
}

func NewPersonalGoalHandler(uc *pgUC.UseCase, adapter *httpcontext.Adapter, logger *zap.Logger) *PersonalGoalHandler {
	return &PersonalGoalHandler{
		baseHandler: newBaseHandler(adapter, logger),
		uc:          uc,
	}
}

// @Summary List personal goals
// @Tags personal-goals
// @Router /api/v1/personal-goals [get]
func (h *PersonalGoalHandler) List(ctx *fasthttp.RequestCtx) {
	scope, ok := h.scope(ctx)
	if !ok {
		return
	}
	year, _ := strconv.Atoi(string(ctx.QueryArgs().Peek("year")))

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	goals, err := h.uc.List(stdCtx, scope, year)
	if err != nil {
		h.respondError(ctx, err)
		return
	}

	// Attach derived progress so clients need no extra round trip.
	type withProgress struct {
		domain.PersonalGoal
		Progress int `json:"progress"`
	}
	out := make([]withProgress, len(goals))
	for i := range goals {
		out[i] = withProgress{PersonalGoal: goals[i], Progress: goals[i].Progress()}
	}
	h.respondSuccess(ctx, http.StatusOK, out)
}

// @Summary Get personal goal
// @Tags personal-goals
// @Router /api/v1/personal-goals/{id} [get]
func (h *PersonalGoalHandler) Get(ctx *fasthttp.RequestCtx) {
	if userID := h.userID(ctx); userID == "" {
		return
	}
	id := pathID(ctx)
	if id == "" {
		h.respondInvalid(ctx, "missing personal goal id")
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	goal, err := h.uc.Get(stdCtx, id)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, goal)
}

// @Summary Create personal goal
// @Tags personal-goals
// @Router /api/v1/personal-goals [post]
func (h *PersonalGoalHandler) Create(ctx *fasthttp.RequestCtx) {
	scope, ok := h.scope(ctx)
	if !ok {
		return
	}
	goal, ok := h.parsePersonalGoal(ctx)
	if !ok {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	created, err := h.uc.Create(stdCtx, scope, goal)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusCreated, created)
}

// @Summary Update personal goal
// @Tags personal-goals
// @Router /api/v1/personal-goals/{id} [put]
func (h *PersonalGoalHandler) Update(ctx *fasthttp.RequestCtx) {
	scope, ok := h.scope(ctx)
	if !ok {
		return
	}
	goal, ok := h.parsePersonalGoal(ctx)
	if !ok {
		return
	}
	if goal.ID == "" {
		goal.ID = pathID(ctx)
	}
	goal.UserID = scope.UserID
	goal.TeamID = scope.TeamID

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	updated, err := h.uc.Update(stdCtx, scope, goal)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, updated)
}

// @Summary Delete personal goal
// @Tags personal-goals
// @Router /api/v1/personal-goals/{id} [delete]
func (h *PersonalGoalHandler) Delete(ctx *fasthttp.RequestCtx) {
	scope, ok := h.scope(ctx)
	if !ok {
		return
	}
	id := pathID(ctx)
	if id == "" {
		h.respondInvalid(ctx, "missing personal goal id")
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

// @Summary Reorder personal goals
// @Tags personal-goals
// @Router /api/v1/personal-goals/reorder [put]
func (h *PersonalGoalHandler) Reorder(ctx *fasthttp.RequestCtx) {
	scope, ok := h.scope(ctx)
	if !ok {
		return
	}

	var req transport.ReorderRequest
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil {
		h.respondInvalid(ctx, "invalid payload")
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	if err := h.uc.Reorder(stdCtx, scope, req.IDs); err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, nil)
}

// @Summary Replace linked team goals
// @Tags personal-goals
// @Router /api/v1/personal-goals/{id}/goals [put]
func (h *PersonalGoalHandler) ReplaceGoalLinks(ctx *fasthttp.RequestCtx) {
	scope, ok := h.scope(ctx)
	if !ok {
		return
	}
	id := pathID(ctx)
	if id == "" {
		h.respondInvalid(ctx, "missing personal goal id")
		return
	}

	var req transport.LinkSetRequest
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil {
		h.respondInvalid(ctx, "invalid payload")
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	if err := h.uc.ReplaceGoalLinks(stdCtx, scope, id, req.IDs); err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, nil)
}

func (h *PersonalGoalHandler) parsePersonalGoal(ctx *fasthttp.RequestCtx) (*domain.PersonalGoal, bool) {
	var req transport.PersonalGoalRequest
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil {
		h.respondInvalid(ctx, "invalid payload")
		return nil, false
	}
	return &domain.PersonalGoal{
		ID:            req.ID,
		Title:         req.Title,
		Description:   req.Description,
		Year:          req.Year,
		Status:        domain.PersonalGoalStatus(req.Status),
		LinkedGoalIDs: req.LinkedGoalIDs,
	}, true
}
