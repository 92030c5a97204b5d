// Package wire provides dependency injection for the ncirc application.
// It creates singleton services with lazy initialization.
package wire

import (
	"errors"
	"io"
	"os"
	"sync"

	"go.uber.org/zap"

	cliadapter "github.com/example/ncirc/internal/adapters/cli"
	"github.com/example/ncirc/internal/adapters/httpapi"
	"github.com/example/ncirc/internal/adapters/zaplog"
	"github.com/example/ncirc/internal/app"
	"github.com/example/ncirc/internal/config"
	"github.com/example/ncirc/internal/core/nitrogen"
	"github.com/example/ncirc/internal/ports/primary"
)

var (
	cfg    = config.Default()
	logger = zap.NewNop()

	scenarioService primary.ScenarioService
	once            sync.Once
)

// Configure sets the resolved config and root logger.
// Must be called before the first service accessor to take effect.
func Configure(c *config.Config, l *zap.Logger) {
	if c != nil {
		cfg = c
	}
	if l != nil {
		logger = l
	}
}

// Config returns the active configuration.
func Config() *config.Config {
	return cfg
}

// Logger returns the root logger.
func Logger() *zap.Logger {
	return logger
}

// ScenarioService returns the singleton ScenarioService instance.
func ScenarioService() primary.ScenarioService {
	once.Do(initServices)
	return scenarioService
}

// initServices initializes all services and their dependencies.
// This is called once via sync.Once.
func initServices() {
	// The reference dataset is validated once; a defective baseline is fatal.
	model, err := nitrogen.DefaultModel()
	if err != nil {
		if errors.Is(err, nitrogen.ErrDegenerateBaseline) {
			logger.Fatal("degenerate baseline dataset", zap.Error(err))
		}
		logger.Fatal("failed to build nitrogen model", zap.Error(err))
	}

	runLog := zaplog.NewRunLogger(logger)
	scenarioService = app.NewScenarioService(model, runLog, cfg.SweepWorkers)
}

// ScenarioAdapter returns a new ScenarioAdapter writing to stdout.
// Each call creates a new adapter (adapters are stateless translators).
func ScenarioAdapter() *cliadapter.ScenarioAdapter {
	return ScenarioAdapterWithOutput(os.Stdout)
}

// ScenarioAdapterWithOutput returns a new ScenarioAdapter writing to the given output.
func ScenarioAdapterWithOutput(out io.Writer) *cliadapter.ScenarioAdapter {
	return cliadapter.NewScenarioAdapter(ScenarioService(), out)
}

// APIServer returns a new HTTP API server configured from the active config.
func APIServer() *httpapi.Server {
	return httpapi.NewServer(ScenarioService(), logger, httpapi.Options{
		Addr:             cfg.ListenAddr,
		DefaultReduction: cfg.DefaultReduction,
		ChartWidth:       cfg.ChartWidth,
		ChartHeight:      cfg.ChartHeight,
	})
}
