package app

import (
	"context"
	"sync"
	"testing"

	"go.uber.org/goleak"

	"github.com/example/ncirc/internal/core/nitrogen"
	"github.com/example/ncirc/internal/ctxutil"
	"github.com/example/ncirc/internal/ports/secondary"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// Ensure mockRunLogger implements the interface
var _ secondary.RunLogger = (*mockRunLogger)(nil)

// mockRunLogger implements secondary.RunLogger for testing.
type mockRunLogger struct {
	mu       sync.Mutex
	runs     []secondary.RunRecord
	runIDs   []string
	rejected []float64
}

func newMockRunLogger() *mockRunLogger {
	return &mockRunLogger{}
}

func (m *mockRunLogger) LogRun(ctx context.Context, record secondary.RunRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.runs = append(m.runs, record)
	m.runIDs = append(m.runIDs, ctxutil.RunIDFromContext(ctx))
	return nil
}

func (m *mockRunLogger) LogRejected(ctx context.Context, reduction float64, reason error) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rejected = append(m.rejected, reduction)
	return nil
}

func newTestScenarioService(t *testing.T) (*ScenarioServiceImpl, *mockRunLogger) {
	t.Helper()
	model, err := nitrogen.DefaultModel()
	if err != nil {
		t.Fatalf("DefaultModel() failed: %v", err)
	}
	runLog := newMockRunLogger()
	return NewScenarioService(model, runLog, 4), runLog
}
