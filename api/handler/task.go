package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/Nate91117/teamnotes/api/transport"
	"github.com/Nate91117/teamnotes/domain"
	"github.com/Nate91117/teamnotes/pkg/dates"
	"github.com/Nate91117/teamnotes/pkg/httpcontext"
	appLogger "github.com/Nate91117/teamnotes/pkg/logger"
	"github.com/Nate91117/teamnotes/usecase/recurrence"
	taskUC "github.com/Nate91117/teamnotes/usecase/task"
)

type TaskHandler struct {
	baseHandler
	uc           *taskUC.UseCase
	materializer *recurrence.Materializer
}

func NewTaskHandler(uc *taskUC.UseCase, materializer *recurrence.Materializer, adapter *httpcontext.Adapter, logger *zap.Logger) *TaskHandler {
	return &TaskHandler{
		baseHandler:  newBaseHandler(adapter, logger),
		uc:           uc,
		materializer: materializer,
	}
}

// @Summary List tasks
// @Tags tasks
// @Router /api/v1/tasks [get]
func (h *TaskHandler) List(ctx *fasthttp.RequestCtx) {
	scope, ok := h.scope(ctx)
	if !ok {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	// Recurring templates materialize lazily, right before the read that
	// would show their instances.
	if h.materializer != nil {
		if err := h.materializer.Run(stdCtx, scope); err != nil {
			appLogger.WithRequestID(stdCtx, h.logger).Error("recurrence materialization failed", zap.Error(err))
		}
	}

	tasks, err := h.uc.List(stdCtx, scope)
	if err != nil {
		h.respondError(ctx, err)
		return
	}

	switch string(ctx.QueryArgs().Peek("view")) {
	case "kanban":
		h.respondSuccess(ctx, http.StatusOK, taskUC.GroupByStatus(tasks))
	case "due":
		h.respondSuccess(ctx, http.StatusOK, taskUC.SortedByDueDate(tasks))
	default:
		h.respondSuccess(ctx, http.StatusOK, tasks)
	}
}

// @Summary Get task
// @Tags tasks
// @Router /api/v1/tasks/{id} [get]
func (h *TaskHandler) Get(ctx *fasthttp.RequestCtx) {
	if userID := h.userID(ctx); userID == "" {
		return
	}
	id := pathID(ctx)
	if id == "" {
		h.respondInvalid(ctx, "missing task id")
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	task, err := h.uc.Get(stdCtx, id)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, task)
}

// @Summary Create task
// @Tags tasks
// @Router /api/v1/tasks [post]
func (h *TaskHandler) Create(ctx *fasthttp.RequestCtx) {
	scope, ok := h.scope(ctx)
	if !ok {
		return
	}
	task, ok := h.parseTask(ctx)
	if !ok {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	created, err := h.uc.Create(stdCtx, scope, task)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusCreated, created)
}

// @Summary Update task
// @Tags tasks
// @Router /api/v1/tasks/{id} [put]
func (h *TaskHandler) Update(ctx *fasthttp.RequestCtx) {
	scope, ok := h.scope(ctx)
	if !ok {
		return
	}
	task, ok := h.parseTask(ctx)
	if !ok {
		return
	}
	if task.ID == "" {
		task.ID = pathID(ctx)
	}
	task.UserID = scope.UserID
	task.TeamID = scope.TeamID

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	updated, err := h.uc.Update(stdCtx, scope, task)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, updated)
}

// @Summary Change task status
// @Tags tasks
// @Router /api/v1/tasks/{id}/status [put]
func (h *TaskHandler) SetStatus(ctx *fasthttp.RequestCtx) {
	scope, ok := h.scope(ctx)
	if !ok {
		return
	}
	id := pathID(ctx)
	if id == "" {
		h.respondInvalid(ctx, "missing task id")
		return
	}

	var req transport.StatusRequest
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil {
		h.respondInvalid(ctx, "invalid payload")
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	task, err := h.uc.SetStatus(stdCtx, scope, id, domain.TaskStatus(req.Status))
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, task)
}

// @Summary Delete task
// @Tags tasks
// @Router /api/v1/tasks/{id} [delete]
func (h *TaskHandler) Delete(ctx *fasthttp.RequestCtx) {
	scope, ok := h.scope(ctx)
	if !ok {
		return
	}
	id := pathID(ctx)
	if id == "" {
		h.respondInvalid(ctx, "missing task id")
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

// @Summary Reorder tasks
// @Tags tasks
// @Router /api/v1/tasks/reorder [put]
func (h *TaskHandler) Reorder(ctx *fasthttp.RequestCtx) {
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

// @Summary Replace task assignees
// @Tags tasks
// @Router /api/v1/tasks/{id}/assignees [put]
func (h *TaskHandler) ReplaceAssignees(ctx *fasthttp.RequestCtx) {
	h.replaceLinks(ctx, h.uc.ReplaceAssignees)
}

// @Summary Replace task personal-goal links
// @Tags tasks
// @Router /api/v1/tasks/{id}/personal-goals [put]
func (h *TaskHandler) ReplacePersonalGoalLinks(ctx *fasthttp.RequestCtx) {
	h.replaceLinks(ctx, h.uc.ReplacePersonalGoalLinks)
}

func (h *TaskHandler) replaceLinks(ctx *fasthttp.RequestCtx, replace func(stdCtx context.Context, scope domain.Scope, id string, ids []string) error) {
	scope, ok := h.scope(ctx)
	if !ok {
		return
	}
	id := pathID(ctx)
	if id == "" {
		h.respondInvalid(ctx, "missing task id")
		return
	}

	var req transport.LinkSetRequest
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil {
		h.respondInvalid(ctx, "invalid payload")
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	if err := replace(stdCtx, scope, id, req.IDs); err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, nil)
}

func (h *TaskHandler) parseTask(ctx *fasthttp.RequestCtx) (*domain.Task, bool) {
	var req transport.TaskRequest
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil {
		h.respondInvalid(ctx, "invalid payload")
		return nil, false
	}

	var due *time.Time
	if req.DueDate != "" {
		anchored, err := dates.ParseDueDate(req.DueDate)
		if err != nil {
			h.respondInvalid(ctx, "invalid due date")
			return nil, false
		}
		due = &anchored
	}

	return &domain.Task{
		ID:                    req.ID,
		Title:                 req.Title,
		Description:           req.Description,
		Notes:                 req.Notes,
		Status:                domain.TaskStatus(req.Status),
		DueDate:               due,
		SharedToDashboard:     req.SharedToDashboard,
		LinkedGoalID:          req.LinkedGoalID,
		IsRecurring:           req.IsRecurring,
		Assignees:             req.Assignees,
		LinkedPersonalGoalIDs: req.LinkedPersonalGoalIDs,
	}, true
}
