package provider

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"

	"fxrates-exporter/internal/application"
	"fxrates-exporter/internal/domain"
)

//go:embed sample_latest.json
var sampleLatest []byte

// Ensure Static implements application.RateFetcher.
var _ application.RateFetcher = (*Static)(nil)

// Static serves a fixed payload without touching the network. Used for dry
// runs (PROVIDER=static) and tests. The payload is quoted in a single base,
// so a query for any other base is rejected.
type Static struct {
	body []byte
}

// NewStatic returns a Static fetcher for body; a nil body uses the bundled
// USD sample.
func NewStatic(body []byte) *Static {
	if body == nil {
		body = sampleLatest
	}
	return &Static{body: body}
}

func (s *Static) Fetch(_ context.Context, _ string, q domain.RateQuery) (domain.RawRateResponse, error) {
	base, err := domain.NormalizeCurrency(q.Base)
	if err != nil {
		return domain.RawRateResponse{}, fmt.Errorf("static: %w", err)
	}
	var raw domain.RawRateResponse
	if err := json.Unmarshal(s.body, &raw); err != nil {
		return domain.RawRateResponse{}, &domain.FetchError{Kind: domain.ErrMalformedResponse, Attempts: 1, Err: err}
	}
	if len(raw.Rates) == 0 {
		return domain.RawRateResponse{}, &domain.FetchError{Kind: domain.ErrMissingRates, Attempts: 1}
	}
	if raw.BaseCode != "" && raw.BaseCode != base {
		return domain.RawRateResponse{}, fmt.Errorf("static: %w: sample is quoted in %s, not %s",
			domain.ErrInvalidCurrency, raw.BaseCode, base)
	}
	return raw, nil
}
