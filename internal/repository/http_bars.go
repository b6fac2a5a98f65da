package repository

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/chaofengh/stock-price-analyze-Backend/internal/domain/models"
	drepo "github.com/chaofengh/stock-price-analyze-Backend/internal/domain/repository"
	xhttp "github.com/chaofengh/stock-price-analyze-Backend/pkg/http"
	"github.com/chaofengh/stock-price-analyze-Backend/pkg/util"
)

// HTTPBars fetches daily bars from an upstream market-data HTTP API.
type HTTPBars struct {
	client  *xhttp.Client
	baseURL string
}

// NewHTTPBars creates a BarSource over the provider API.
func NewHTTPBars(baseURL string, timeout time.Duration) *HTTPBars {
	return &HTTPBars{
		client:  xhttp.NewClient(xhttp.WithTimeout(timeout)),
		baseURL: baseURL,
	}
}

type barDTO struct {
	Timestamp string  `json:"timestamp"`
	Open      float64 `json:"open"`
	High      float64 `json:"high"`
	Low       float64 `json:"low"`
	Close     float64 `json:"close"`
	Volume    float64 `json:"volume"`
}

type barsResponse struct {
	Symbol string   `json:"symbol"`
	Bars   []barDTO `json:"bars"`
}

func (s *HTTPBars) GetDailyBars(ctx context.Context, symbol string, lookbackDays int) ([]models.Bar, error) {
	var resp barsResponse
	err := s.client.SendAndParse(ctx, &xhttp.RequestOptions{
		Method: xhttp.MethodGet,
		URL:    s.baseURL + "/v1/bars/daily",
		QueryParams: map[string][]string{
			"symbol": {symbol},
			"days":   {strconv.Itoa(lookbackDays)},
		},
	}, &resp)
	if err != nil {
		return nil, fmt.Errorf("%w: provider fetch %s: %v", drepo.ErrDataUnavailable, symbol, err)
	}
	if len(resp.Bars) == 0 {
		return nil, fmt.Errorf("%w: provider returned no bars for %s", drepo.ErrDataUnavailable, symbol)
	}

	out := make([]models.Bar, 0, len(resp.Bars))
	for _, d := range resp.Bars {
		ts, ok := util.ParseTime(d.Timestamp)
		if !ok {
			return nil, fmt.Errorf("%w: bad bar timestamp %q for %s", drepo.ErrDataUnavailable, d.Timestamp, symbol)
		}
		out = append(out, models.Bar{
			Timestamp: ts,
			Open:      d.Open,
			High:      d.High,
			Low:       d.Low,
			Close:     d.Close,
			Volume:    d.Volume,
		})
	}
	return out, nil
}
