package api

import "github.com/labstack/echo/v4"

// Router bundles all API handlers into one route registrar.
type Router struct {
	Alerts  *AlertsHandler
	Tickers *TickersHandler
	Summary *SummaryHandler
}

func NewRouter(alerts *AlertsHandler, tickers *TickersHandler, summary *SummaryHandler) *Router {
	return &Router{Alerts: alerts, Tickers: tickers, Summary: summary}
}

func (r *Router) RegisterRoutes(e *echo.Echo) {
	r.Alerts.RegisterRoutes(e)
	r.Tickers.RegisterRoutes(e)
	r.Summary.RegisterRoutes(e)
}
