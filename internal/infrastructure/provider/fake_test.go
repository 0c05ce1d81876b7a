package provider_test

import (
	"context"
	"testing"

	"fxrates-exporter/internal/domain"
	"fxrates-exporter/internal/infrastructure/provider"

	"github.com/stretchr/testify/require"
)

func TestStatic_BundledSample(t *testing.T) {
	t.Parallel()
	raw, err := provider.NewStatic(nil).Fetch(context.Background(), "", domain.RateQuery{Base: "USD"})
	require.NoError(t, err)
	require.Equal(t, "USD", raw.BaseCode)
	require.NotEmpty(t, raw.Rates)
	require.Equal(t, "USD", raw.Rates[0].Currency)
}

func TestStatic_Body(t *testing.T) {
	t.Parallel()
	raw, err := provider.NewStatic([]byte(sampleOK)).Fetch(context.Background(), "", domain.RateQuery{Base: "USD"})
	require.NoError(t, err)
	require.Len(t, raw.Rates, 3)

	_, err = provider.NewStatic([]byte("nope")).Fetch(context.Background(), "", domain.RateQuery{Base: "USD"})
	require.ErrorIs(t, err, domain.ErrMalformedResponse)

	_, err = provider.NewStatic([]byte(`{"result":"success"}`)).Fetch(context.Background(), "", domain.RateQuery{Base: "USD"})
	require.ErrorIs(t, err, domain.ErrMissingRates)
}

func TestStatic_RejectsOtherBase(t *testing.T) {
	t.Parallel()
	_, err := provider.NewStatic(nil).Fetch(context.Background(), "", domain.RateQuery{Base: "eur"})
	require.ErrorIs(t, err, domain.ErrInvalidCurrency)
	require.Contains(t, err.Error(), "quoted in USD, not EUR")

	raw, err := provider.NewStatic(nil).Fetch(context.Background(), "", domain.RateQuery{Base: "usd"})
	require.NoError(t, err)
	require.Equal(t, "USD", raw.BaseCode)
}
