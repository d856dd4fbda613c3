package handlers

import (
	"log/slog"
	"net/http"

	"github.com/SscSPs/etracking_app/internal/core/domain"
	portssvc "github.com/SscSPs/etracking_app/internal/core/ports/services"
	"github.com/SscSPs/etracking_app/internal/dto"
	"github.com/SscSPs/etracking_app/internal/middleware"
	"github.com/gin-gonic/gin"
)

// referenceHandler serves the employee and warehouse pick lists.
type referenceHandler struct {
	referenceService portssvc.ReferenceSvcFacade
}

func newReferenceHandler(rs portssvc.ReferenceSvcFacade) *referenceHandler {
	return &referenceHandler{referenceService: rs}
}

// registerReferenceRoutes registers routes related to reference data.
func registerReferenceRoutes(rg *gin.RouterGroup, referenceService portssvc.ReferenceSvcFacade) {
	h := newReferenceHandler(referenceService)

	rg.GET("/employees", h.listEmployees)
	rg.GET("/warehouses", h.listWarehouses)
	rg.POST("/reference/seed", h.seed)
}

// listEmployees godoc
// @Summary List employees
// @Description Lists employees, optionally filtered by position
// @Tags reference
// @Produce json
// @Param position query string false "Position" Enums(Salesman, Lorry Driver, Clerk)
// @Success 200 {array} dto.EmployeeResponse
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /employees [get]
func (h *referenceHandler) listEmployees(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var params dto.ListEmployeesParams
	if err := c.ShouldBindQuery(&params); err != nil {
		logger.Warn("Failed to bind query parameters for ListEmployees", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid query parameters: " + err.Error()})
		return
	}

	var position *domain.Position
	if params.Position != "" {
		p := domain.Position(params.Position)
		position = &p
	}

	employees, err := h.referenceService.ListEmployees(c.Request.Context(), position)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to list employees")
		return
	}
	c.JSON(http.StatusOK, dto.ToListEmployeeResponse(employees))
}

// listWarehouses godoc
// @Summary List warehouses
// @Tags reference
// @Produce json
// @Success 200 {array} dto.WarehouseResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /warehouses [get]
func (h *referenceHandler) listWarehouses(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	warehouses, err := h.referenceService.ListWarehouses(c.Request.Context())
	if err != nil {
		respondServiceError(c, logger, err, "Failed to list warehouses")
		return
	}
	c.JSON(http.StatusOK, dto.ToListWarehouseResponse(warehouses))
}

// seed godoc
// @Summary Seed reference data
// @Description Upserts employees and warehouses by id
// @Tags reference
// @Accept json
// @Produce json
// @Param seed body dto.SeedReferenceRequest true "Reference data"
// @Success 204
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /reference/seed [post]
func (h *referenceHandler) seed(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.SeedReferenceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for SeedReference", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	operator, ok := middleware.GetOperatorFromContext(c)
	if !ok {
		logger.Error("Operator not found in context")
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	employees, warehouses := req.ToDomain()
	if err := h.referenceService.Seed(c.Request.Context(), employees, warehouses, operator); err != nil {
		respondServiceError(c, logger, err, "Failed to seed reference data")
		return
	}
	c.Status(http.StatusNoContent)
}
