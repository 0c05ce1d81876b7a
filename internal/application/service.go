package application

import (
	"context"
	"fmt"
	"time"

	"fxrates-exporter/internal/domain"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// TopRows is how many leading rows are logged after a build.
const TopRows = 20

type Clock interface{ Now() time.Time }

type IDGen interface{ NewID() string }

type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }

type defaultIDGen struct{}

func (defaultIDGen) NewID() string { return uuid.NewString() }

// Request is one export run.
type Request struct {
	Credential string
	Query      domain.RateQuery
	OutputDir  string
	Writers    []TableWriter
}

// Outcome is the result of saving one format. Target is the path that was
// proposed before any conflict resolution.
type Outcome struct {
	Target domain.OutputTarget
	Result domain.SaveResult
}

type Report struct {
	RunID      string
	Base       string
	LastUpdate string
	Table      domain.RateTable
	Outcomes   []Outcome
}

// Exporter runs fetch, build and save strictly in that order.
type Exporter struct {
	fetcher RateFetcher
	saver   Saver
	lock    RunLock
	log     *zap.Logger
	clock   Clock
	idgen   IDGen
}

type Option func(*Exporter)

func WithClock(c Clock) Option { return func(e *Exporter) { e.clock = c } }
func WithIDGen(g IDGen) Option { return func(e *Exporter) { e.idgen = g } }
func WithLock(l RunLock) Option { return func(e *Exporter) { e.lock = l } }
func WithLogger(l *zap.Logger) Option { return func(e *Exporter) { e.log = l } }

func NewExporter(fetcher RateFetcher, saver Saver, opts ...Option) *Exporter {
	e := &Exporter{fetcher: fetcher, saver: saver}
	for _, opt := range opts {
		opt(e)
	}
	if e.lock == nil {
		e.lock = NoopLock{}
	}
	if e.log == nil {
		e.log = zap.NewNop()
	}
	if e.clock == nil {
		e.clock = realClock{}
	}
	if e.idgen == nil {
		e.idgen = defaultIDGen{}
	}
	return e
}

// Run exports the latest rates. A fetch error stops the run before anything
// is written; a cancelled target is reported in the outcomes and does not
// stop the remaining ones.
func (e *Exporter) Run(ctx context.Context, req Request) (Report, error) {
	runID := e.idgen.NewID()
	log := e.log.With(zap.String("run_id", runID))

	base, err := domain.NormalizeCurrency(req.Query.Base)
	if err != nil {
		return Report{}, &StageError{Stage: StageRequest, Err: err}
	}
	if len(req.Writers) == 0 {
		return Report{}, &StageError{Stage: StageRequest, Err: fmt.Errorf("%w: no output formats", ErrBadRequest)}
	}
	q := req.Query
	q.Base = base

	now := e.clock.Now()
	key := fmt.Sprintf("fxrates:export:%s:%s", base, now.Format(domain.TimestampLayout))
	ok, err := e.lock.TryAcquire(ctx, key)
	if err != nil {
		return Report{}, &StageError{Stage: StageLock, Err: err}
	}
	if !ok {
		return Report{}, &StageError{Stage: StageLock, Err: fmt.Errorf("%w: %s is held by another run", ErrConflict, key)}
	}

	raw, err := e.fetcher.Fetch(ctx, req.Credential, q)
	if err != nil {
		log.Error("export_aborted", zap.String("stage", StageFetch), zap.String("base", base), zap.Error(err))
		return Report{}, &StageError{Stage: StageFetch, Err: err}
	}
	log.Info("rates_received",
		zap.String("base_code", raw.BaseCode),
		zap.String("last_update", raw.TimeLastUpdateUTC),
		zap.Time("last_update_at", raw.LastUpdate()),
		zap.Int("entries", len(raw.Rates)))

	table := domain.BuildRateTable(raw)
	log.Info("table_built", zap.Int("rows", table.Len()), zap.Int("dropped", len(raw.Rates)-table.Len()))
	for i, r := range table.Head(TopRows) {
		log.Debug("table_row", zap.Int("rank", i+1), zap.String("currency", r.Currency), zap.Float64("rate", r.Rate))
	}

	report := Report{
		RunID:      runID,
		Base:       raw.BaseCode,
		LastUpdate: raw.TimeLastUpdateUTC,
		Table:      table,
	}
	for _, w := range req.Writers {
		path := domain.OutputPath(req.OutputDir, now, w.Ext())
		res, err := e.saver.Save(ctx, table, path, w)
		if err != nil {
			log.Error("save_failed", zap.String("format", w.Name()), zap.String("path", path), zap.Error(err))
			return report, &StageError{Stage: StageSave, Err: err}
		}
		report.Outcomes = append(report.Outcomes, Outcome{
			Target: domain.OutputTarget{Path: path, Format: w.Name()},
			Result: res,
		})
	}
	log.Info("export_done", zap.Int("targets", len(report.Outcomes)))
	return report, nil
}
