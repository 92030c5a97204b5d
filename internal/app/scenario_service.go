package app

import (
	"context"
	"fmt"
	"math"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/example/ncirc/internal/core/nitrogen"
	"github.com/example/ncirc/internal/ctxutil"
	"github.com/example/ncirc/internal/ports/primary"
	"github.com/example/ncirc/internal/ports/secondary"
)

// maxSweepPoints bounds the number of scenarios a single sweep evaluates.
const maxSweepPoints = 1001

// ScenarioServiceImpl implements the ScenarioService interface.
// The model is shared read-only across concurrent calls.
type ScenarioServiceImpl struct {
	model        *nitrogen.Model
	runLog       secondary.RunLogger
	sweepWorkers int
}

// NewScenarioService creates a new ScenarioService with injected dependencies.
func NewScenarioService(model *nitrogen.Model, runLog secondary.RunLogger, sweepWorkers int) *ScenarioServiceImpl {
	if sweepWorkers < 1 {
		sweepWorkers = 1
	}
	return &ScenarioServiceImpl{
		model:        model,
		runLog:       runLog,
		sweepWorkers: sweepWorkers,
	}
}

// Baseline returns the unperturbed flow table and its metrics.
func (s *ScenarioServiceImpl) Baseline(ctx context.Context) (*primary.Scenario, error) {
	return s.ApplyHousingReduction(ctx, primary.ScenarioRequest{Reduction: 0})
}

// ApplyHousingReduction cascades a housing-loss reduction through the flow graph.
func (s *ScenarioServiceImpl) ApplyHousingReduction(ctx context.Context, req primary.ScenarioRequest) (*primary.Scenario, error) {
	ctx, runID := ctxutil.EnsureRunID(ctx)
	return s.run(ctx, runID, req.Reduction)
}

// Sweep evaluates reductions From, From+Step, ... up to To concurrently.
func (s *ScenarioServiceImpl) Sweep(ctx context.Context, req primary.SweepRequest) ([]*primary.Scenario, error) {
	reductions, err := sweepPoints(req)
	if err != nil {
		return nil, err
	}

	ctx, sweepID := ctxutil.EnsureRunID(ctx)
	results := make([]*primary.Scenario, len(reductions))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.sweepWorkers)
	for i, r := range reductions {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			runID := fmt.Sprintf("%s-%03d", sweepID, i)
			scenario, err := s.run(ctxutil.WithRunID(gctx, runID), runID, r)
			if err != nil {
				return err
			}
			results[i] = scenario
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("sweep failed: %w", err)
	}
	return results, nil
}

// Graph describes compartments, links and derived partitions.
func (s *ScenarioServiceImpl) Graph(ctx context.Context) (*primary.Graph, error) {
	base := s.model.Baseline()

	graph := &primary.Graph{AccessibleTarget: nitrogen.AccessibleTarget}
	for _, c := range nitrogen.Compartments() {
		graph.Compartments = append(graph.Compartments, string(c))
	}
	graph.Links = s.flowsFor(base)

	for _, p := range s.model.Ratios().Groups() {
		part := primary.Partition{
			Group:     string(p.Group),
			Origin:    string(p.Origin),
			Base:      p.Base,
			Fractions: make(map[string]float64, len(p.Ratios)),
		}
		for _, r := range p.Ratios {
			part.Fractions[string(r.Flow)] = p.Fraction(r.Flow)
		}
		graph.Partitions = append(graph.Partitions, part)
	}
	return graph, nil
}

// Helper methods

func (s *ScenarioServiceImpl) run(ctx context.Context, runID string, reduction float64) (*primary.Scenario, error) {
	start := time.Now()

	result, err := s.model.Run(reduction)
	if err != nil {
		_ = s.runLog.LogRejected(ctx, reduction, err)
		return nil, fmt.Errorf("failed to apply housing reduction: %w", err)
	}

	_ = s.runLog.LogRun(ctx, secondary.RunRecord{
		Reduction:  result.Percent,
		Delta:      result.Delta,
		Input:      result.Metrics.Input,
		Circular:   result.Metrics.Circular,
		Accessible: result.Metrics.Accessible,
		Lost:       result.Metrics.Lost,
		Elapsed:    time.Since(start),
	})

	return s.scenarioToPrimary(runID, result), nil
}

func (s *ScenarioServiceImpl) scenarioToPrimary(runID string, sc nitrogen.Scenario) *primary.Scenario {
	b := sc.Metrics.Breakdown()
	return &primary.Scenario{
		RunID:     runID,
		Reduction: sc.Percent,
		Delta:     sc.Delta,
		Flows:     s.flowsFor(sc.Flows),
		Metrics: primary.Metrics{
			Input:         sc.Metrics.Input,
			Circular:      sc.Metrics.Circular,
			Accessible:    sc.Metrics.Accessible,
			Lost:          sc.Metrics.Lost,
			Environmental: sc.Metrics.Environmental,
			LockedStable:  sc.Metrics.LockedStable,
		},
		Breakdown: primary.Breakdown{
			CircularPct:   b.CircularPct,
			AccessiblePct: b.AccessiblePct,
			LostPct:       b.LostPct,
		},
	}
}

// flowsFor lists the table's flows in link order.
func (s *ScenarioServiceImpl) flowsFor(table nitrogen.FlowTable) []primary.Flow {
	base := s.model.Baseline()
	links := nitrogen.Links()
	flows := make([]primary.Flow, 0, len(links))
	for _, l := range links {
		flows = append(flows, primary.Flow{
			Key:         string(l.Key),
			Label:       l.Label,
			Source:      string(l.Source),
			Target:      string(l.Target),
			SourceIndex: nitrogen.CompartmentIndex(l.Source),
			TargetIndex: nitrogen.CompartmentIndex(l.Target),
			Value:       table[l.Key],
			Baseline:    base[l.Key],
		})
	}
	return flows
}

// sweepPoints expands a sweep request into reductions.
func sweepPoints(req primary.SweepRequest) ([]float64, error) {
	if err := nitrogen.CanApplyHousingReduction(req.From).Error(); err != nil {
		return nil, fmt.Errorf("invalid sweep start: %w", err)
	}
	if err := nitrogen.CanApplyHousingReduction(req.To).Error(); err != nil {
		return nil, fmt.Errorf("invalid sweep end: %w", err)
	}
	if req.From > req.To {
		return nil, fmt.Errorf("%w: sweep start %g exceeds end %g", nitrogen.ErrInvalidParameter, req.From, req.To)
	}
	if !(req.Step > 0) || math.IsInf(req.Step, 0) {
		return nil, fmt.Errorf("%w: sweep step must be positive, got %g", nitrogen.ErrInvalidParameter, req.Step)
	}

	count := math.Floor((req.To-req.From)/req.Step+1e-9) + 1
	if count > maxSweepPoints {
		return nil, fmt.Errorf("%w: sweep of %g points exceeds limit %d", nitrogen.ErrInvalidParameter, count, maxSweepPoints)
	}

	n := int(count)
	points := make([]float64, n)
	for i := range points {
		points[i] = math.Min(req.From+float64(i)*req.Step, req.To)
	}
	return points, nil
}

// Ensure ScenarioServiceImpl implements the interface
var _ primary.ScenarioService = (*ScenarioServiceImpl)(nil)
