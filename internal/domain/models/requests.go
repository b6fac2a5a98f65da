package models

// SummaryRequest asks for an on-demand analysis of a single symbol.
type SummaryRequest struct {
	Symbol   string `query:"symbol" validate:"required,min=1,max=12"`
	Lookback int    `query:"lookback" default:"130" validate:"gte=0,lte=2000"`
}

// AddTickersRequest adds symbols to the tracked set.
type AddTickersRequest struct {
	Symbols []string `json:"symbols" validate:"required,min=1,dive,required,max=12"`
}
