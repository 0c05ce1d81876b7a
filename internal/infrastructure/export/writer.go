package export

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"fxrates-exporter/internal/application"
	"fxrates-exporter/internal/domain"

	"go.uber.org/zap"
)

var _ application.Saver = (*Writer)(nil)

// Writer saves tables and asks Decider what to do when the target exists.
type Writer struct {
	Decider application.Decider
	Log     *zap.Logger
}

func NewWriter(d application.Decider, log *zap.Logger) *Writer {
	return &Writer{Decider: d, Log: log}
}

// Save writes t to path with w. On an existing path the decider picks
// overwrite, a "_new" sibling, or cancel. A "_new" sibling that already
// exists is overwritten without asking again.
func (s *Writer) Save(ctx context.Context, t domain.RateTable, path string, w application.TableWriter) (domain.SaveResult, error) {
	log := s.Log
	if log == nil {
		log = zap.NewNop()
	}
	log = log.With(zap.String("format", w.Name()))

	exists, err := pathExists(path)
	if err != nil {
		return domain.SaveResult{}, &domain.WriteError{Path: path, Format: w.Name(), Err: err}
	}
	if exists {
		if s.Decider == nil {
			return domain.SaveResult{}, errors.New("export: target exists and no decider is configured")
		}
		d, err := s.Decider.Decide(ctx, path)
		if err != nil {
			return domain.SaveResult{}, fmt.Errorf("export: confirm %s: %w", path, err)
		}
		log.Info("save_conflict", zap.String("path", path), zap.Stringer("decision", d))
		switch d {
		case domain.DecisionOverwrite:
		case domain.DecisionRename:
			path = domain.AlternatePath(path)
			alt, err := pathExists(path)
			switch {
			case err != nil:
				log.Warn("alternate_stat_failed", zap.String("path", path), zap.Error(err))
			case alt:
				log.Warn("alternate_exists_overwriting", zap.String("path", path))
			}
		case domain.DecisionCancel:
			log.Info("save_cancelled", zap.String("path", path))
			return domain.SaveResult{Path: path, Cancelled: true}, nil
		default:
			return domain.SaveResult{}, fmt.Errorf("export: unknown decision %d", d)
		}
	}

	if err := w.Write(path, t); err != nil {
		return domain.SaveResult{}, &domain.WriteError{Path: path, Format: w.Name(), Err: err}
	}
	log.Info("saved", zap.String("path", path), zap.Int("rows", t.Len()))
	return domain.SaveResult{Path: path}, nil
}

func pathExists(path string) (bool, error) {
	_, err := os.Stat(path)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, fs.ErrNotExist):
		return false, nil
	default:
		return false, err
	}
}
