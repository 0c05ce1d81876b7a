package application

import (
	"context"

	"fxrates-exporter/internal/domain"
)

type RateFetcher interface {
	Fetch(ctx context.Context, credential string, q domain.RateQuery) (domain.RawRateResponse, error)
}

// TableWriter serializes a table into one file format.
type TableWriter interface {
	Name() string
	Ext() string
	Write(path string, t domain.RateTable) error
}

// Saver persists a table at path, resolving conflicts with existing files.
type Saver interface {
	Save(ctx context.Context, t domain.RateTable, path string, w TableWriter) (domain.SaveResult, error)
}

// Decider is asked what to do when a target path already exists.
type Decider interface {
	Decide(ctx context.Context, path string) (domain.Decision, error)
}
