package api

import (
	"errors"

	"github.com/labstack/echo/v4"

	"github.com/chaofengh/stock-price-analyze-Backend/internal/domain/models"
	drepo "github.com/chaofengh/stock-price-analyze-Backend/internal/domain/repository"
	"github.com/chaofengh/stock-price-analyze-Backend/internal/repository"
	xhttp "github.com/chaofengh/stock-price-analyze-Backend/pkg/http"
	applogger "github.com/chaofengh/stock-price-analyze-Backend/pkg/logger"
)

// TickersHandler manages the tracked-symbol set.
type TickersHandler struct {
	logger *applogger.Logger
	store  drepo.TickerStore
}

func NewTickersHandler(logger *applogger.Logger, store drepo.TickerStore) *TickersHandler {
	return &TickersHandler{logger: logger, store: store}
}

func (h *TickersHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api/tickers")
	g.GET("", h.List)
	g.POST("", h.Add)
	g.DELETE("/:symbol", h.Remove)
}

func (h *TickersHandler) List(c echo.Context) error {
	symbols, err := h.store.List(c.Request().Context())
	if err != nil {
		h.logger.Error("list tickers failed", applogger.Error(err))
		return xhttp.InternalServerErrorResponse(c)
	}
	return xhttp.SuccessResponse(c, map[string]interface{}{"tickers": symbols})
}

func (h *TickersHandler) Add(c echo.Context) error {
	req := &models.AddTickersRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	if err := h.store.Add(c.Request().Context(), req.Symbols...); err != nil {
		h.logger.Error("add tickers failed", applogger.Error(err))
		return xhttp.InternalServerErrorResponse(c)
	}
	return xhttp.CreatedResponse(c, map[string]interface{}{"added": req.Symbols})
}

func (h *TickersHandler) Remove(c echo.Context) error {
	symbol := c.Param("symbol")
	if err := h.store.Remove(c.Request().Context(), symbol); err != nil {
		if errors.Is(err, repository.ErrTickerNotFound) {
			return xhttp.NotFoundResponse(c, err.Error())
		}
		h.logger.Error("remove ticker failed",
			applogger.String("symbol", symbol),
			applogger.Error(err),
		)
		return xhttp.InternalServerErrorResponse(c)
	}
	return xhttp.NoContentResponse(c)
}
