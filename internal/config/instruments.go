package config

import "FXPulse/internal/model"

// DefaultInstruments is the FX watchlist used when none is configured.
func DefaultInstruments() []model.Instrument {
	return []model.Instrument{
		{Name: "AUD/USD", Symbol: "AUDUSD=X"},
		{Name: "AUD/JPY", Symbol: "AUDJPY=X"},
		{Name: "AUD/NZD", Symbol: "AUDNZD=X"},
		{Name: "AUD/CHF", Symbol: "AUDCHF=X"},
		{Name: "AUD/CAD", Symbol: "AUDCAD=X"},
		{Name: "EUR/USD", Symbol: "EURUSD=X"},
		{Name: "USD/JPY", Symbol: "USDJPY=X"},
		{Name: "GBP/USD", Symbol: "GBPUSD=X"},
		{Name: "USD/CAD", Symbol: "USDCAD=X"},
		{Name: "USD/CHF", Symbol: "USDCHF=X"},
		{Name: "NZD/USD", Symbol: "NZDUSD=X"},
		{Name: "EUR/GBP", Symbol: "EURGBP=X"},
		{Name: "EUR/JPY", Symbol: "EURJPY=X"},
		{Name: "GBP/JPY", Symbol: "GBPJPY=X"},
		{Name: "EUR/CHF", Symbol: "EURCHF=X"},
		{Name: "CAD/JPY", Symbol: "CADJPY=X"},
		{Name: "EUR/CAD", Symbol: "EURCAD=X"},
		{Name: "EUR/NZD", Symbol: "EURNZD=X"},
		{Name: "EUR/AUD", Symbol: "EURAUD=X"},
		{Name: "GBP/AUD", Symbol: "GBPAUD=X"},
		{Name: "GBP/CAD", Symbol: "GBPCAD=X"},
		{Name: "GBP/NZD", Symbol: "GBPNZD=X"},
		{Name: "CAD/CHF", Symbol: "CADCHF=X"},
		{Name: "NZD/CHF", Symbol: "NZDCHF=X"},
		{Name: "NZD/JPY", Symbol: "NZDJPY=X"},
		{Name: "USD/SEK", Symbol: "USDSEK=X"},
		{Name: "USD/NOK", Symbol: "USDNOK=X"},
		{Name: "USD/DKK", Symbol: "USDDKK=X"},
	}
}
