package api

import (
	"github.com/labstack/echo/v4"

	"github.com/chaofengh/stock-price-analyze-Backend/internal/domain/models"
	"github.com/chaofengh/stock-price-analyze-Backend/internal/usecase"
	xhttp "github.com/chaofengh/stock-price-analyze-Backend/pkg/http"
	applogger "github.com/chaofengh/stock-price-analyze-Backend/pkg/logger"
)

// SummaryHandler serves on-demand single-symbol analysis.
type SummaryHandler struct {
	logger  *applogger.Logger
	summary *usecase.Summary
}

func NewSummaryHandler(logger *applogger.Logger, summary *usecase.Summary) *SummaryHandler {
	return &SummaryHandler{logger: logger, summary: summary}
}

func (h *SummaryHandler) RegisterRoutes(e *echo.Echo) {
	e.GET("/api/summary", h.Get)
}

func (h *SummaryHandler) Get(c echo.Context) error {
	req := &models.SummaryRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	res, err := h.summary.Analyze(c.Request().Context(), req.Symbol, req.Lookback)
	if err != nil {
		h.logger.Error("summary failed",
			applogger.String("symbol", req.Symbol),
			applogger.Error(err),
		)
		return xhttp.InternalServerErrorResponse(c)
	}
	return xhttp.SuccessResponse(c, res)
}
