package handler

import (
	"encoding/json"
	"net/http"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/Nate91117/teamnotes/api/transport"
	"github.com/Nate91117/teamnotes/domain"
	"github.com/Nate91117/teamnotes/pkg/httpcontext"
	reportUC "github.com/Nate91117/teamnotes/usecase/report"
)

type ReportHandler struct {
	baseHandler
	uc *reportUC.UseCase
}

func NewReportHandler(uc *reportUC.UseCase, adapter *httpcontext.Adapter, logger *zap.Logger) *ReportHandler {
	return &ReportHandler{
		baseHandler: newBaseHandler(adapter, logger),
		uc:          uc,
	}
}

// @Summary List reports
// @Tags reports
// @Router /api/v1/reports [get]
func (h *ReportHandler) List(ctx *fasthttp.RequestCtx) {
	scope, ok := h.scope(ctx)
	if !ok {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	reports, err := h.uc.List(stdCtx, scope)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, reports)
}

// @Summary Create report
// @Tags reports
// @Router /api/v1/reports [post]
func (h *ReportHandler) Create(ctx *fasthttp.RequestCtx) {
	scope, ok := h.scope(ctx)
	if !ok {
		return
	}
	report, ok := h.parseReport(ctx)
	if !ok {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	created, err := h.uc.Create(stdCtx, scope, report)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusCreated, created)
}

// @Summary Update report
// @Tags reports
// @Router /api/v1/reports/{id} [put]
func (h *ReportHandler) Update(ctx *fasthttp.RequestCtx) {
	scope, ok := h.scope(ctx)
	if !ok {
		return
	}
	report, ok := h.parseReport(ctx)
	if !ok {
		return
	}
	if report.ID == "" {
		report.ID = pathID(ctx)
	}
	report.TeamID = scope.TeamID

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	updated, err := h.uc.Update(stdCtx, scope, report)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, updated)
}

// @Summary Delete report
// @Tags reports
// @Router /api/v1/reports/{id} [delete]
func (h *ReportHandler) Delete(ctx *fasthttp.RequestCtx) {
	scope, ok := h.scope(ctx)
	if !ok {
		return
	}
	id := pathID(ctx)
	if id == "" {
		h.respondInvalid(ctx, "missing report id")
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

func (h *ReportHandler) parseReport(ctx *fasthttp.RequestCtx) (*domain.Report, bool) {
	var req transport.ReportRequest
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil {
		h.respondInvalid(ctx, "invalid payload")
		return nil, false
	}
	return &domain.Report{
		ID:             req.ID,
		Title:          req.Title,
		AssignedUserID: req.AssignedUserID,
	}, true
}
