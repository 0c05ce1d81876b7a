//go:build wireinject

package bootstrap

import (
	"io"

	"fxrates-exporter/internal/application"
	"fxrates-exporter/internal/config"

	"github.com/google/wire"
	"go.uber.org/zap"
)

var exportSet = wire.NewSet(
	ProvideHTTPClient,
	ProvideFetcher,
	ProvideDecider,
	ProvideSaver,
	ProvideRunLock,
	ProvideExporter,
)

// InitExporter builds the exporter and a cleanup for its connections.
func InitExporter(cfg config.Config, log *zap.Logger, in io.Reader, out io.Writer) (*application.Exporter, func(), error) {
	wire.Build(exportSet)
	return nil, nil, nil
}
