package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/fatih/color"

	"github.com/example/ncirc/internal/adapters/encode"
	"github.com/example/ncirc/internal/ports/primary"
)

// mockScenarioService implements primary.ScenarioService for testing
type mockScenarioService struct {
	applyFn func(ctx context.Context, req primary.ScenarioRequest) (*primary.Scenario, error)
	sweepFn func(ctx context.Context, req primary.SweepRequest) ([]*primary.Scenario, error)

	// Track calls for verification
	lastApplyReq primary.ScenarioRequest
	lastSweepReq primary.SweepRequest
}

func testScenario(reduction float64) *primary.Scenario {
	housing := 900 * (1 - reduction/100)
	return &primary.Scenario{
		RunID:     "RUN-1",
		Reduction: reduction,
		Delta:     900 - housing,
		Flows: []primary.Flow{
			{Key: "F6", Label: "excretion", Value: 2400 + 900 - housing, Baseline: 2400},
			{Key: "F7", Label: "housing loss", Value: housing, Baseline: 900},
			{Key: "F1", Label: "purchased feed", Value: 4800, Baseline: 4800},
		},
		Metrics:   primary.Metrics{Input: 5100, Circular: 3000, Accessible: 50, Lost: 2050, Environmental: 1550, LockedStable: 500},
		Breakdown: primary.Breakdown{CircularPct: 58.8, AccessiblePct: 1, LostPct: 40.2},
	}
}

func (m *mockScenarioService) Baseline(ctx context.Context) (*primary.Scenario, error) {
	return testScenario(0), nil
}

func (m *mockScenarioService) ApplyHousingReduction(ctx context.Context, req primary.ScenarioRequest) (*primary.Scenario, error) {
	m.lastApplyReq = req
	if m.applyFn != nil {
		return m.applyFn(ctx, req)
	}
	return testScenario(req.Reduction), nil
}

func (m *mockScenarioService) Sweep(ctx context.Context, req primary.SweepRequest) ([]*primary.Scenario, error) {
	m.lastSweepReq = req
	if m.sweepFn != nil {
		return m.sweepFn(ctx, req)
	}
	return []*primary.Scenario{testScenario(req.From), testScenario(req.To)}, nil
}

func (m *mockScenarioService) Graph(ctx context.Context) (*primary.Graph, error) {
	return &primary.Graph{
		Compartments: []string{"FEED_PURCHASED", "ANIMALS"},
		Links: []primary.Flow{
			{Key: "F1", Source: "FEED_PURCHASED", Target: "ANIMALS", Label: "purchased feed", Value: 4800},
		},
		Partitions: []primary.Partition{
			{Group: "crops", Origin: "CROPS", Base: 1300, Fractions: map[string]float64{"F16": 0.3846, "F15": 0.6154}},
		},
		AccessibleTarget: 50,
	}, nil
}

func newTestAdapter() (*ScenarioAdapter, *mockScenarioService, *bytes.Buffer) {
	color.NoColor = true
	mockService := &mockScenarioService{}
	var buf bytes.Buffer
	return NewScenarioAdapter(mockService, &buf), mockService, &buf
}

func TestScenarioAdapter_Show(t *testing.T) {
	adapter, mockService, buf := newTestAdapter()

	if err := adapter.Show(context.Background(), 5, encode.FormatTable); err != nil {
		t.Fatalf("Show() failed: %v", err)
	}
	if mockService.lastApplyReq.Reduction != 5 {
		t.Errorf("Reduction = %v, want 5", mockService.lastApplyReq.Reduction)
	}

	output := buf.String()
	for _, want := range []string{
		"Housing N loss reduction: 5%",
		"N saved from housing emissions: 45.0 kg N/yr",
		"External N input = 5100 kg N/yr",
		"Circular (products) = 3000 kg N/yr (58.8%)",
		"Housing N loss (F7) = 855 kg N/yr",
		"Excreted N to storage (F6) = 2445 kg N/yr",
		"-45.0",
		"+45.0",
	} {
		if !strings.Contains(output, want) {
			t.Errorf("output missing %q:\n%s", want, output)
		}
	}
}

func TestScenarioAdapter_ShowError(t *testing.T) {
	adapter, mockService, buf := newTestAdapter()
	mockService.applyFn = func(ctx context.Context, req primary.ScenarioRequest) (*primary.Scenario, error) {
		return nil, errors.New("invalid parameter: out of range")
	}

	err := adapter.Show(context.Background(), 120, encode.FormatTable)
	if err == nil || !strings.Contains(err.Error(), "out of range") {
		t.Errorf("Show() error = %v, want out of range", err)
	}
	if buf.Len() != 0 {
		t.Errorf("expected no output on error, got %q", buf.String())
	}
}

func TestScenarioAdapter_ShowJSON(t *testing.T) {
	adapter, _, buf := newTestAdapter()

	if err := adapter.Show(context.Background(), 10, encode.FormatJSON); err != nil {
		t.Fatalf("Show() failed: %v", err)
	}

	var decoded primary.Scenario
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, buf.String())
	}
	if decoded.Reduction != 10 {
		t.Errorf("Reduction = %v, want 10", decoded.Reduction)
	}
}

func TestScenarioAdapter_Baseline(t *testing.T) {
	adapter, _, buf := newTestAdapter()

	if err := adapter.Baseline(context.Background(), encode.FormatTable); err != nil {
		t.Fatalf("Baseline() failed: %v", err)
	}
	output := buf.String()
	if !strings.Contains(output, "Baseline grow-finish farm N budget") {
		t.Errorf("output missing header:\n%s", output)
	}
	if !strings.Contains(output, "Net stable soil N gain = 500 kg N/yr") {
		t.Errorf("output missing locked-stable line:\n%s", output)
	}
}

func TestScenarioAdapter_Sweep(t *testing.T) {
	adapter, mockService, buf := newTestAdapter()

	req := primary.SweepRequest{From: 0, To: 50, Step: 25}
	if err := adapter.Sweep(context.Background(), req, encode.FormatTable); err != nil {
		t.Fatalf("Sweep() failed: %v", err)
	}
	if mockService.lastSweepReq != req {
		t.Errorf("SweepRequest = %+v, want %+v", mockService.lastSweepReq, req)
	}

	output := buf.String()
	if !strings.Contains(output, "REDUCE") || !strings.Contains(output, "50%") {
		t.Errorf("unexpected sweep output:\n%s", output)
	}
	if !strings.Contains(output, "450.0") {
		t.Errorf("sweep output missing housing loss at 50%%:\n%s", output)
	}
}

func TestScenarioAdapter_Graph(t *testing.T) {
	adapter, _, buf := newTestAdapter()

	if err := adapter.Graph(context.Background(), encode.FormatTable); err != nil {
		t.Fatalf("Graph() failed: %v", err)
	}
	output := buf.String()
	if !strings.Contains(output, "C1   FEED_PURCHASED") {
		t.Errorf("output missing compartment row:\n%s", output)
	}
	if !strings.Contains(output, "crops (CROPS, base 1300): F15=0.6154 F16=0.3846") {
		t.Errorf("output missing ordered partition row:\n%s", output)
	}
}

func TestScenarioAdapter_Chart(t *testing.T) {
	adapter, _, buf := newTestAdapter()

	if err := adapter.Chart(context.Background(), 5, 300, 300); err != nil {
		t.Fatalf("Chart() failed: %v", err)
	}
	if !bytes.HasPrefix(buf.Bytes(), []byte("\x89PNG")) {
		t.Error("Chart() did not write a PNG")
	}
}
