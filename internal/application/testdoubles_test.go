package application

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"fxrates-exporter/internal/domain"
)

var (
	ErrDisk = errors.New("disk full")
)

type fakeFetcher struct {
	body  string
	err   error
	calls int
	got   domain.RateQuery
}

func (f *fakeFetcher) Fetch(_ context.Context, _ string, q domain.RateQuery) (domain.RawRateResponse, error) {
	f.calls++
	f.got = q
	if f.err != nil {
		return domain.RawRateResponse{}, f.err
	}
	var raw domain.RawRateResponse
	if err := json.Unmarshal([]byte(f.body), &raw); err != nil {
		return domain.RawRateResponse{}, err
	}
	return raw, nil
}

type fakeWriter struct{ name, ext string }

func (w fakeWriter) Name() string { return w.name }
func (w fakeWriter) Ext() string { return w.ext }
func (w fakeWriter) Write(string, domain.RateTable) error { return nil }

type saveCall struct {
	path   string
	format string
	rows   int
}

// fakeSaver answers per format; formats missing from results are saved as requested.
type fakeSaver struct {
	calls   []saveCall
	results map[string]domain.SaveResult
	errs    map[string]error
}

func (f *fakeSaver) Save(_ context.Context, t domain.RateTable, path string, w TableWriter) (domain.SaveResult, error) {
	f.calls = append(f.calls, saveCall{path: path, format: w.Name(), rows: t.Len()})
	if err := f.errs[w.Name()]; err != nil {
		return domain.SaveResult{}, err
	}
	if res, ok := f.results[w.Name()]; ok {
		return res, nil
	}
	return domain.SaveResult{Path: path}, nil
}

type fakeLock struct{ held map[string]bool }

func (f *fakeLock) TryAcquire(_ context.Context, key string) (bool, error) {
	if f.held == nil {
		f.held = map[string]bool{}
	}
	if f.held[key] {
		return false, nil
	}
	f.held[key] = true
	return true, nil
}

type fakeClock struct{ t time.Time }

func (c fakeClock) Now() time.Time { return c.t }

type fixedID string

func (g fixedID) NewID() string { return string(g) }
