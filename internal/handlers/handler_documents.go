package handlers

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/SscSPs/etracking_app/internal/core/domain"
	portssvc "github.com/SscSPs/etracking_app/internal/core/ports/services"
	"github.com/SscSPs/etracking_app/internal/dto"
	"github.com/SscSPs/etracking_app/internal/middleware"
	"github.com/gin-gonic/gin"
)

// documentHandler serves the tracking boards and their dialogs.
type documentHandler struct {
	trackingService portssvc.TrackingSvcFacade
}

func newDocumentHandler(ts portssvc.TrackingSvcFacade) *documentHandler {
	return &documentHandler{trackingService: ts}
}

// registerDocumentRoutes registers the board, row and dialog routes of every document kind.
func registerDocumentRoutes(rg *gin.RouterGroup, trackingService portssvc.TrackingSvcFacade) {
	h := newDocumentHandler(trackingService)

	docs := rg.Group("/documents/:kind")
	{
		docs.GET("", h.getBoard)
		docs.POST("", h.createDocuments)
		docs.PUT("/selection", h.setSelection)
		docs.PUT("/test-mode", h.setTestMode)

		rows := docs.Group("/rows/:id")
		{
			rows.POST("/transition", h.requestTransition)
			rows.DELETE("", h.deleteDocument)
			rows.PUT("/remark", h.editRemark)
			rows.PUT("/discrepancy", h.toggleDiscrepancy)
			rows.PUT("/delivery-date", h.setDeliveryDate)
			rows.PUT("/document-date", h.setDocumentDate)
		}

		dialog := docs.Group("/interaction")
		{
			dialog.GET("", h.getInteraction)
			dialog.POST("/confirm", h.confirm)
			dialog.POST("/select", h.selectOption)
			dialog.POST("/cancel", h.cancel)
		}
	}
}

// request holds what every board route needs: the parsed kind, the
// operator and a logger carrying both.
type request struct {
	kind     domain.DocumentKind
	operator string
	logger   *slog.Logger
}

func (h *documentHandler) begin(c *gin.Context) (request, bool) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	kind, err := domain.ParseKind(c.Param("kind"))
	if err != nil {
		logger.Warn("Unknown document kind", slog.String("kind", c.Param("kind")))
		c.JSON(http.StatusNotFound, ErrorResponse{Error: err.Error()})
		return request{}, false
	}

	operator, ok := middleware.GetOperatorFromContext(c)
	if !ok {
		logger.Error("Operator not found in context")
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return request{}, false
	}

	logger = logger.With(slog.String("kind", string(kind)))
	if id := c.Param("id"); id != "" {
		logger = logger.With(slog.String("document_id", id))
	}
	return request{kind: kind, operator: operator, logger: logger}, true
}

func bind[T any](c *gin.Context, logger *slog.Logger, req *T) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		logger.Warn("Failed to bind JSON", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return false
	}
	return true
}

// respondStep writes a step result or maps the service error.
func respondStep(c *gin.Context, logger *slog.Logger, res *domain.StepResult, err error, fallback string) {
	if err != nil {
		respondServiceError(c, logger, err, fallback)
		return
	}
	logger.Info("Workflow step applied",
		slog.String("outcome", string(res.Outcome.Kind)),
		slog.String("interaction", string(res.Interaction.State)),
		slog.Int("documents", len(res.Documents)))
	c.JSON(http.StatusOK, dto.ToStepResponse(res))
}

// rowStep binds the body of a row route and runs call with it.
func rowStep[T any](h *documentHandler, c *gin.Context, fallback string,
	call func(ctx context.Context, r request, id string, req T) (*domain.StepResult, error)) {
	r, ok := h.begin(c)
	if !ok {
		return
	}
	var req T
	if !bind(c, r.logger, &req) {
		return
	}
	res, err := call(c.Request.Context(), r, c.Param("id"), req)
	respondStep(c, r.logger, res, err, fallback)
}

// getBoard godoc
// @Summary Get a document board
// @Description Returns every row of a collection with the open dialog, the selection and test mode
// @Tags documents
// @Produce json
// @Param kind path string true "Document kind" Enums(invoice, credit_note, delivery_order, grn)
// @Success 200 {object} dto.BoardResponse
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse "Unknown document kind"
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /documents/{kind} [get]
func (h *documentHandler) getBoard(c *gin.Context) {
	r, ok := h.begin(c)
	if !ok {
		return
	}
	board, err := h.trackingService.GetBoard(c.Request.Context(), r.kind)
	if err != nil {
		respondServiceError(c, r.logger, err, "Failed to load documents")
		return
	}
	r.logger.Debug("Board retrieved", slog.Int("count", len(board.Documents)))
	c.JSON(http.StatusOK, dto.ToBoardResponse(board))
}

// getInteraction godoc
// @Summary Get the open dialog
// @Tags documents
// @Produce json
// @Param kind path string true "Document kind"
// @Success 200 {object} dto.InteractionResponse
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /documents/{kind}/interaction [get]
func (h *documentHandler) getInteraction(c *gin.Context) {
	r, ok := h.begin(c)
	if !ok {
		return
	}
	in, err := h.trackingService.GetInteraction(c.Request.Context(), r.kind)
	if err != nil {
		respondServiceError(c, r.logger, err, "Failed to load interaction")
		return
	}
	c.JSON(http.StatusOK, dto.ToInteractionResponse(in))
}

// createDocuments godoc
// @Summary Create documents
// @Description Adds typed rows as Billed. Numbers that already exist open an overwrite confirmation.
// @Tags documents
// @Accept json
// @Produce json
// @Param kind path string true "Document kind"
// @Param entries body dto.CreateDocumentsRequest true "Rows to create"
// @Success 200 {object} dto.StepResponse
// @Failure 400 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "A dialog is open"
// @Security BearerAuth
// @Router /documents/{kind} [post]
func (h *documentHandler) createDocuments(c *gin.Context) {
	r, ok := h.begin(c)
	if !ok {
		return
	}
	var req dto.CreateDocumentsRequest
	if !bind(c, r.logger, &req) {
		return
	}
	res, err := h.trackingService.CreateDocuments(c.Request.Context(), r.kind, req, r.operator)
	respondStep(c, r.logger, res, err, "Failed to create documents")
}

// requestTransition godoc
// @Summary Request a status change
// @Description Evaluates the transition rules. The result either commits, is denied, or opens a dialog.
// @Tags documents
// @Accept json
// @Produce json
// @Param kind path string true "Document kind"
// @Param id path string true "Document ID"
// @Param transition body dto.TransitionRequest true "Target status"
// @Success 200 {object} dto.StepResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "A dialog is open"
// @Security BearerAuth
// @Router /documents/{kind}/rows/{id}/transition [post]
func (h *documentHandler) requestTransition(c *gin.Context) {
	rowStep(h, c, "Failed to change status", func(ctx context.Context, r request, id string, req dto.TransitionRequest) (*domain.StepResult, error) {
		return h.trackingService.RequestTransition(ctx, r.kind, id, req, r.operator)
	})
}

// deleteDocument godoc
// @Summary Delete a document
// @Description Only allowed in test mode.
// @Tags documents
// @Produce json
// @Param kind path string true "Document kind"
// @Param id path string true "Document ID"
// @Success 200 {object} dto.StepResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Security BearerAuth
// @Router /documents/{kind}/rows/{id} [delete]
func (h *documentHandler) deleteDocument(c *gin.Context) {
	r, ok := h.begin(c)
	if !ok {
		return
	}
	res, err := h.trackingService.DeleteDocument(c.Request.Context(), r.kind, c.Param("id"), r.operator)
	respondStep(c, r.logger, res, err, "Failed to delete document")
}

// editRemark godoc
// @Summary Edit a remark
// @Tags documents
// @Accept json
// @Produce json
// @Param kind path string true "Document kind"
// @Param id path string true "Document ID"
// @Param remark body dto.RemarkRequest true "Remark"
// @Success 200 {object} dto.StepResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /documents/{kind}/rows/{id}/remark [put]
func (h *documentHandler) editRemark(c *gin.Context) {
	rowStep(h, c, "Failed to edit remark", func(ctx context.Context, r request, id string, req dto.RemarkRequest) (*domain.StepResult, error) {
		return h.trackingService.EditRemark(ctx, r.kind, id, req, r.operator)
	})
}

// toggleDiscrepancy godoc
// @Summary Check or uncheck the discrepancy box
// @Description Checking opens the discrepancy details dialog.
// @Tags documents
// @Accept json
// @Produce json
// @Param kind path string true "Document kind"
// @Param id path string true "Document ID"
// @Param discrepancy body dto.DiscrepancyToggleRequest true "Checked"
// @Success 200 {object} dto.StepResponse
// @Security BearerAuth
// @Router /documents/{kind}/rows/{id}/discrepancy [put]
func (h *documentHandler) toggleDiscrepancy(c *gin.Context) {
	rowStep(h, c, "Failed to update discrepancy", func(ctx context.Context, r request, id string, req dto.DiscrepancyToggleRequest) (*domain.StepResult, error) {
		return h.trackingService.ToggleDiscrepancy(ctx, r.kind, id, req, r.operator)
	})
}

// setDeliveryDate godoc
// @Summary Edit the delivery date
// @Tags documents
// @Accept json
// @Produce json
// @Param kind path string true "Document kind"
// @Param id path string true "Document ID"
// @Param date body dto.DateRequest true "yyyy-mm-dd or dd/mm/yyyy"
// @Success 200 {object} dto.StepResponse
// @Failure 400 {object} ErrorResponse
// @Security BearerAuth
// @Router /documents/{kind}/rows/{id}/delivery-date [put]
func (h *documentHandler) setDeliveryDate(c *gin.Context) {
	rowStep(h, c, "Failed to set delivery date", func(ctx context.Context, r request, id string, req dto.DateRequest) (*domain.StepResult, error) {
		return h.trackingService.SetDeliveryDate(ctx, r.kind, id, req, r.operator)
	})
}

// setDocumentDate godoc
// @Summary Edit the document date
// @Tags documents
// @Accept json
// @Produce json
// @Param kind path string true "Document kind"
// @Param id path string true "Document ID"
// @Param date body dto.DateRequest true "yyyy-mm-dd or dd/mm/yyyy"
// @Success 200 {object} dto.StepResponse
// @Failure 400 {object} ErrorResponse
// @Security BearerAuth
// @Router /documents/{kind}/rows/{id}/document-date [put]
func (h *documentHandler) setDocumentDate(c *gin.Context) {
	rowStep(h, c, "Failed to set document date", func(ctx context.Context, r request, id string, req dto.DateRequest) (*domain.StepResult, error) {
		return h.trackingService.SetDocumentDate(ctx, r.kind, id, req, r.operator)
	})
}

// confirm godoc
// @Summary Answer the open confirmation
// @Tags documents
// @Accept json
// @Produce json
// @Param kind path string true "Document kind"
// @Param answer body dto.ConfirmRequest true "Yes or no"
// @Success 200 {object} dto.StepResponse
// @Failure 409 {object} ErrorResponse "No confirmation is open"
// @Security BearerAuth
// @Router /documents/{kind}/interaction/confirm [post]
func (h *documentHandler) confirm(c *gin.Context) {
	r, ok := h.begin(c)
	if !ok {
		return
	}
	var req dto.ConfirmRequest
	if !bind(c, r.logger, &req) {
		return
	}
	res, err := h.trackingService.Confirm(c.Request.Context(), r.kind, req, r.operator)
	respondStep(c, r.logger, res, err, "Failed to answer confirmation")
}

// selectOption godoc
// @Summary Answer the open selection
// @Description Only the fields the open selection reads are used.
// @Tags documents
// @Accept json
// @Produce json
// @Param kind path string true "Document kind"
// @Param answer body dto.SelectRequest true "Choice"
// @Success 200 {object} dto.StepResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse "Unknown employee, warehouse or invoice"
// @Failure 409 {object} ErrorResponse "No selection is open"
// @Security BearerAuth
// @Router /documents/{kind}/interaction/select [post]
func (h *documentHandler) selectOption(c *gin.Context) {
	r, ok := h.begin(c)
	if !ok {
		return
	}
	var req dto.SelectRequest
	if !bind(c, r.logger, &req) {
		return
	}
	res, err := h.trackingService.Select(c.Request.Context(), r.kind, req, r.operator)
	respondStep(c, r.logger, res, err, "Failed to apply selection")
}

// cancel godoc
// @Summary Dismiss the open dialog
// @Tags documents
// @Produce json
// @Param kind path string true "Document kind"
// @Success 200 {object} dto.StepResponse
// @Failure 409 {object} ErrorResponse "No dialog is open"
// @Security BearerAuth
// @Router /documents/{kind}/interaction/cancel [post]
func (h *documentHandler) cancel(c *gin.Context) {
	r, ok := h.begin(c)
	if !ok {
		return
	}
	res, err := h.trackingService.Cancel(c.Request.Context(), r.kind, r.operator)
	respondStep(c, r.logger, res, err, "Failed to cancel dialog")
}

// setSelection godoc
// @Summary Replace the selected rows
// @Tags documents
// @Accept json
// @Produce json
// @Param kind path string true "Document kind"
// @Param selection body dto.SelectionRequest true "Selected ids"
// @Success 200 {object} dto.BoardResponse
// @Failure 404 {object} ErrorResponse "Unknown id"
// @Security BearerAuth
// @Router /documents/{kind}/selection [put]
func (h *documentHandler) setSelection(c *gin.Context) {
	r, ok := h.begin(c)
	if !ok {
		return
	}
	var req dto.SelectionRequest
	if !bind(c, r.logger, &req) {
		return
	}
	board, err := h.trackingService.SetSelection(c.Request.Context(), r.kind, req)
	if err != nil {
		respondServiceError(c, r.logger, err, "Failed to set selection")
		return
	}
	c.JSON(http.StatusOK, dto.ToBoardResponse(board))
}

// setTestMode godoc
// @Summary Turn test mode on or off
// @Description Test mode unlocks Completed rows and deletion. It is not persisted.
// @Tags documents
// @Accept json
// @Produce json
// @Param kind path string true "Document kind"
// @Param mode body dto.TestModeRequest true "Enabled"
// @Success 200 {object} dto.BoardResponse
// @Security BearerAuth
// @Router /documents/{kind}/test-mode [put]
func (h *documentHandler) setTestMode(c *gin.Context) {
	r, ok := h.begin(c)
	if !ok {
		return
	}
	var req dto.TestModeRequest
	if !bind(c, r.logger, &req) {
		return
	}
	board, err := h.trackingService.SetTestMode(c.Request.Context(), r.kind, req)
	if err != nil {
		respondServiceError(c, r.logger, err, "Failed to set test mode")
		return
	}
	r.logger.Info("Test mode changed", slog.Bool("enabled", board.TestMode))
	c.JSON(http.StatusOK, dto.ToBoardResponse(board))
}
