package provider

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"fxrates-exporter/internal/application"
	"fxrates-exporter/internal/domain"
	infraconfig "fxrates-exporter/internal/infrastructure/config"
	"fxrates-exporter/internal/infrastructure/httpx"

	"go.uber.org/zap"
)

// ExchangeRateAPI fetches latest rates from exchangerate-api.com v6:
// GET {BaseURL}/{key}/latest/{base}.
type ExchangeRateAPI struct {
	BaseURL string
	Client  *http.Client
	// Backoff is the pause between attempts, one second when zero.
	Backoff time.Duration
	Log     *zap.Logger
}

var _ application.RateFetcher = (*ExchangeRateAPI)(nil)

func (p *ExchangeRateAPI) Fetch(ctx context.Context, credential string, q domain.RateQuery) (domain.RawRateResponse, error) {
	log := p.Log
	if log == nil {
		log = zap.NewNop()
	}
	credential = strings.TrimSpace(credential)
	if credential == "" {
		err := &domain.FetchError{Kind: domain.ErrEmptyCredential}
		log.Error("fetch_rejected", zap.Error(err))
		return domain.RawRateResponse{}, err
	}
	base, err := domain.NormalizeCurrency(q.Base)
	if err != nil {
		return domain.RawRateResponse{}, fmt.Errorf("exchangerateapi: %w", err)
	}
	target, err := p.target(credential, base)
	if err != nil {
		return domain.RawRateResponse{}, err
	}

	timeout := q.Timeout
	if timeout <= 0 {
		timeout = infraconfig.DefaultRequestTimeout
	}
	hc := &httpx.Client{
		HTTP:    p.Client,
		Retries: q.Retries,
		Backoff: p.Backoff,
		Timeout: timeout,
		Redact:  func(s string) string { return strings.ReplaceAll(s, credential, MaskSecret(credential)) },
		Log:     log.With(zap.String("base", base)),
	}
	res, err := hc.Get(ctx, target)
	if err != nil {
		attempts := q.Retries + 1
		var re *httpx.RetryError
		if errors.As(err, &re) {
			attempts = re.Attempts
			err = re.Err
		}
		return domain.RawRateResponse{}, &domain.FetchError{Kind: domain.ErrNetworkFailure, Attempts: attempts, Err: err}
	}

	raw, err := decodeLatest(res)
	if err != nil {
		log.Error("fetch_invalid_response", zap.Int("status", res.StatusCode), zap.Error(err))
		return domain.RawRateResponse{}, err
	}
	return raw, nil
}

func (p *ExchangeRateAPI) target(credential, base string) (string, error) {
	baseURL := p.BaseURL
	if baseURL == "" {
		baseURL = infraconfig.DefaultExchangeAPIBase
	}
	u, err := url.JoinPath(baseURL, credential, "latest", base)
	if err != nil {
		return "", fmt.Errorf("exchangerateapi: invalid base url: %w", err)
	}
	return u, nil
}

// decodeLatest validates a latest-rates payload. Non-2xx responses are
// classified from their body when it carries one.
func decodeLatest(res httpx.Response) (domain.RawRateResponse, error) {
	ok := res.StatusCode >= 200 && res.StatusCode < 300

	var body domain.RawRateResponse
	if err := json.Unmarshal(res.Body, &body); err != nil {
		if !ok {
			return domain.RawRateResponse{}, &domain.FetchError{
				Kind:     domain.ErrAPILogical,
				Code:     fmt.Sprintf("http_%d", res.StatusCode),
				Attempts: 1,
			}
		}
		return domain.RawRateResponse{}, &domain.FetchError{Kind: domain.ErrMalformedResponse, Attempts: 1, Err: err}
	}
	if body.Result != domain.ResultSuccess || !ok {
		code := body.ErrorType
		switch {
		case code == "" && !ok:
			code = fmt.Sprintf("http_%d", res.StatusCode)
		case code == "":
			code = "unknown"
		}
		return domain.RawRateResponse{}, &domain.FetchError{Kind: domain.ErrAPILogical, Code: code, Attempts: 1}
	}
	if len(body.Rates) == 0 {
		return domain.RawRateResponse{}, &domain.FetchError{Kind: domain.ErrMissingRates, Attempts: 1}
	}
	return body, nil
}

// MaskSecret keeps the first two and last four characters of a secret.
func MaskSecret(s string) string {
	if len(s) <= 6 {
		return "****"
	}
	return s[:2] + "****" + s[len(s)-4:]
}
