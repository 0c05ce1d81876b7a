package application

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"fxrates-exporter/internal/domain"

	"github.com/stretchr/testify/require"
)

const body = `{
  "result": "success",
  "base_code": "USD",
  "time_last_update_utc": "Sun, 10 Nov 2024 00:00:01 +0000",
  "conversion_rates": {"EUR": 0.93214999, "JPY": 150.1, "XXX": "bad"}
}`

var runAt = time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)

func formats() []TableWriter {
	return []TableWriter{fakeWriter{name: "csv", ext: "csv"}, fakeWriter{name: "xlsx", ext: "xlsx"}}
}

func request() Request {
	return Request{
		Credential: "key",
		Query:      domain.RateQuery{Base: "usd", Timeout: time.Second, Retries: 2},
		OutputDir:  "exports",
		Writers:    formats(),
	}
}

func Test_Run_SavesEveryFormat(t *testing.T) {
	t.Parallel()
	f := &fakeFetcher{body: body}
	s := &fakeSaver{}
	exp := NewExporter(f, s, WithClock(fakeClock{t: runAt}), WithIDGen(fixedID("run-1")))

	rep, err := exp.Run(context.Background(), request())
	require.NoError(t, err)
	require.Equal(t, "run-1", rep.RunID)
	require.Equal(t, "USD", rep.Base)
	require.Equal(t, "Sun, 10 Nov 2024 00:00:01 +0000", rep.LastUpdate)
	require.Equal(t, []domain.RateRecord{{Currency: "JPY", Rate: 150.1}, {Currency: "EUR", Rate: 0.9321}}, rep.Table.Records())

	require.Equal(t, "USD", f.got.Base)
	require.Equal(t, 2, f.got.Retries)
	require.Equal(t, []saveCall{
		{path: filepath.Join("exports", "exchange_rates_2025-01-02_03-04-05.csv"), format: "csv", rows: 2},
		{path: filepath.Join("exports", "exchange_rates_2025-01-02_03-04-05.xlsx"), format: "xlsx", rows: 2},
	}, s.calls)
	require.Len(t, rep.Outcomes, 2)
	require.False(t, rep.Outcomes[0].Result.Cancelled)
	require.Equal(t, domain.OutputTarget{Path: s.calls[1].path, Format: "xlsx"}, rep.Outcomes[1].Target)
}

func Test_Run_FetchErrorWritesNothing(t *testing.T) {
	t.Parallel()
	fetchErr := &domain.FetchError{Kind: domain.ErrAPILogical, Code: "invalid-key", Attempts: 1}
	s := &fakeSaver{}
	exp := NewExporter(&fakeFetcher{err: fetchErr}, s)

	_, err := exp.Run(context.Background(), request())
	require.ErrorIs(t, err, domain.ErrAPILogical)
	var se *StageError
	require.ErrorAs(t, err, &se)
	require.Equal(t, StageFetch, se.Stage)
	require.Equal(t, "fetch failed: api logical error: invalid-key", err.Error())
	require.Empty(t, s.calls)
}

func Test_Run_CancelDoesNotStopSiblings(t *testing.T) {
	t.Parallel()
	s := &fakeSaver{results: map[string]domain.SaveResult{
		"csv": {Path: "exports/x.csv", Cancelled: true},
	}}
	exp := NewExporter(&fakeFetcher{body: body}, s, WithClock(fakeClock{t: runAt}))

	rep, err := exp.Run(context.Background(), request())
	require.NoError(t, err)
	require.Len(t, s.calls, 2)
	require.True(t, rep.Outcomes[0].Result.Cancelled)
	require.False(t, rep.Outcomes[1].Result.Cancelled)
}

func Test_Run_WriteFailureAborts(t *testing.T) {
	t.Parallel()
	werr := &domain.WriteError{Path: "exports/x.csv", Format: "csv", Err: ErrDisk}
	s := &fakeSaver{errs: map[string]error{"csv": werr}}
	exp := NewExporter(&fakeFetcher{body: body}, s)

	_, err := exp.Run(context.Background(), request())
	require.ErrorIs(t, err, domain.ErrWriteFailure)
	require.ErrorIs(t, err, ErrDisk)
	var se *StageError
	require.ErrorAs(t, err, &se)
	require.Equal(t, StageSave, se.Stage)
	require.Len(t, s.calls, 1)
}

func Test_Run_LockHeld(t *testing.T) {
	t.Parallel()
	lock := &fakeLock{}
	f := &fakeFetcher{body: body}
	exp := NewExporter(f, &fakeSaver{}, WithClock(fakeClock{t: runAt}), WithLock(lock))

	_, err := exp.Run(context.Background(), request())
	require.NoError(t, err)
	_, err = exp.Run(context.Background(), request())
	require.ErrorIs(t, err, ErrConflict)
	require.Equal(t, 1, f.calls)
	require.True(t, lock.held["fxrates:export:USD:2025-01-02_03-04-05"])
}

func Test_Run_BadRequest(t *testing.T) {
	t.Parallel()
	f := &fakeFetcher{body: body}
	exp := NewExporter(f, &fakeSaver{})

	req := request()
	req.Query.Base = "dollar"
	_, err := exp.Run(context.Background(), req)
	require.ErrorIs(t, err, domain.ErrInvalidCurrency)

	req = request()
	req.Writers = nil
	_, err = exp.Run(context.Background(), req)
	require.True(t, errors.Is(err, ErrBadRequest))
	require.Zero(t, f.calls)
}
