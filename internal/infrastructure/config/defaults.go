package config

import "time"

const (
	DefaultExchangeAPIBase = "https://v6.exchangerate-api.com/v6"
	DefaultRequestTimeout  = 10 * time.Second
	DefaultRetryBackoff    = 1 * time.Second
	DefaultSheetName       = "Sheet1"
	DefaultLockTTL         = time.Minute
)
