package domain

import (
	"path/filepath"
	"strings"
	"time"
)

const (
	// TimestampLayout stamps output file names.
	TimestampLayout = "2006-01-02_15-04-05"
	// OutputPrefix starts every output file name.
	OutputPrefix = "exchange_rates_"
	// AlternateSuffix is appended to the stem when a save is renamed.
	AlternateSuffix = "_new"
)

// Decision is the answer of a confirmation collaborator when a target exists.
// The zero value cancels.
type Decision int

const (
	DecisionCancel Decision = iota
	DecisionOverwrite
	DecisionRename
)

func (d Decision) String() string {
	switch d {
	case DecisionOverwrite:
		return "overwrite"
	case DecisionRename:
		return "rename"
	case DecisionCancel:
		return "cancel"
	default:
		return "unknown"
	}
}

// OutputTarget is a destination path together with its serialization format.
type OutputTarget struct {
	Path   string
	Format string
}

// SaveResult reports where a table ended up. Path is the requested path when
// Cancelled is set.
type SaveResult struct {
	Path      string
	Cancelled bool
}

// OutputPath builds dir/exchange_rates_<stamp>.<ext>.
func OutputPath(dir string, at time.Time, ext string) string {
	return filepath.Join(dir, OutputPrefix+at.Format(TimestampLayout)+"."+strings.TrimPrefix(ext, "."))
}

// AlternatePath inserts AlternateSuffix between stem and extension.
func AlternatePath(path string) string {
	ext := filepath.Ext(path)
	return strings.TrimSuffix(path, ext) + AlternateSuffix + ext
}
