// Package engine orchestrates count aggregation, tail probabilities and
// multiple-testing correction into ranked hypothesis lists.
package engine

import (
	"sort"

	"goterm/domain/core"
	"goterm/domain/enrich"
	"goterm/domain/ontology"
	"goterm/internal"
	"goterm/internal/annotate"
	"goterm/internal/dist"
	"goterm/ports"
)

// Config holds the construction parameters for one engine instance.
type Config struct {
	// PopulationSize is the background population cardinality N. When the
	// annotation source resolves more items than this, the size is adjusted
	// upward to match; when it resolves fewer, the shortfall is treated as
	// additional, entirely unclassified items.
	PopulationSize int

	// Aspect selects the ontology branch all lookups are routed through.
	Aspect ontology.Aspect

	// Annotation supplies direct item-to-category assignments.
	Annotation ports.AnnotationSource

	// Graph is the category DAG collaborator.
	Graph ports.CategoryGraph

	// Background optionally fixes the background population explicitly.
	// When empty, the annotation source's resolvable-item set is used.
	Background []core.ItemID
}

// Engine computes term enrichment for queries against one fixed background
// population and aspect. Construction-time state is immutable; separate
// queries may run concurrently on one instance.
type Engine struct {
	cfg        Config
	branch     ontology.Category
	aggregator *annotate.Aggregator
	dist       *dist.Distributions

	populationSize int
	background     annotate.CountMap
	bgDiagnostics  []enrich.Diagnostic

	log *internal.Logger
}

// New validates the configuration, builds the background count map and
// sizes the probability caches. Configuration problems abort construction.
func New(cfg Config) (*Engine, error) {
	if !cfg.Aspect.IsValid() {
		return nil, core.ErrMissingAspect
	}
	if cfg.Annotation == nil {
		return nil, core.ErrMissingAnnotation
	}
	if cfg.Graph == nil {
		return nil, core.ErrMissingOntology
	}
	if cfg.PopulationSize < 0 {
		return nil, core.ErrInvalidPopulation
	}

	branch, ok := aspectBranch(cfg.Graph, cfg.Aspect)
	if !ok {
		return nil, core.NewConfigurationError("aspect", "has no branch node under the ontology root")
	}

	e := &Engine{
		cfg:        cfg,
		branch:     branch,
		aggregator: annotate.NewAggregator(cfg.Graph, cfg.Annotation, cfg.Aspect, branch),
		log:        internal.DefaultLogger,
	}

	background := cfg.Background
	if len(background) == 0 {
		background = cfg.Annotation.BackgroundItems()
	}

	e.populationSize = cfg.PopulationSize
	if len(background) > e.populationSize {
		e.log.Info("population size %d raised to %d resolvable background items", cfg.PopulationSize, len(background))
		e.populationSize = len(background)
	}

	e.background, e.bgDiagnostics = e.aggregator.Build(background)
	for _, d := range e.bgDiagnostics {
		e.log.Warn("background: %s", d.Message)
	}

	// A configured population larger than the annotated item set stands for
	// extra items with no classification at all.
	if shortfall := e.populationSize - len(background); shortfall > 0 {
		for _, id := range []core.CategoryID{cfg.Graph.Root().ID, branch.ID, ontology.UnannotatedID} {
			t, ok := e.background[id]
			if !ok {
				t = &annotate.Tally{}
				e.background[id] = t
			}
			t.Count += shortfall
			t.Direct += shortfall
		}
	}

	e.dist = dist.New(e.populationSize)
	return e, nil
}

// PopulationSize returns the effective background population size N.
func (e *Engine) PopulationSize() int { return e.populationSize }

// BackgroundCount returns the background count for one category.
func (e *Engine) BackgroundCount(id core.CategoryID) int { return e.background.Count(id) }

// BackgroundDiagnostics returns the non-fatal conditions seen while
// building the background count map.
func (e *Engine) BackgroundDiagnostics() []enrich.Diagnostic { return e.bgDiagnostics }

// FindTerms evaluates the query items against the background population and
// returns one hypothesis per tested category, ordered by ascending raw
// p-value with ties broken by ascending category id.
//
// A query larger than the configured population is a caller-input problem:
// the call returns an empty result carrying an input-size diagnostic, not
// an error. Unsupported mode or correction selectors are configuration
// errors and fail the call.
func (e *Engine) FindTerms(items []core.ItemID, mode enrich.Mode, correction enrich.Correction) (*enrich.Result, error) {
	mode, err := enrich.ParseMode(string(mode))
	if err != nil {
		return nil, err
	}
	correction, err = enrich.ParseCorrection(string(correction))
	if err != nil {
		return nil, err
	}

	result := &enrich.Result{
		RunID:            core.NewRunID(),
		Aspect:           e.cfg.Aspect.String(),
		Mode:             mode,
		Correction:       correction,
		PopulationSize:   e.populationSize,
		CorrectionFactor: 1,
		CreatedAt:        core.Now(),
	}

	querySize := distinctCount(items)
	result.QuerySize = querySize
	if querySize > e.populationSize {
		err := core.NewInputSizeError(querySize, e.populationSize)
		e.log.Warn("%v", err)
		result.Diagnostics = append(result.Diagnostics, enrich.Diagf(enrich.DiagInputSize, "%v", err))
		return result, nil
	}

	queryCounts, diags := e.aggregator.Build(items)
	result.Diagnostics = append(result.Diagnostics, diags...)

	hypotheses := make([]enrich.Hypothesis, 0, len(queryCounts))
	for id, tally := range queryCounts {
		// A category supported by a single queried item is never
		// statistically interesting and never becomes a hypothesis.
		if tally.Count < 2 {
			continue
		}

		backgroundCount := e.background.Count(id)
		if backgroundCount < tally.Count {
			// Query items outside the configured background still count
			// toward the category; the background cannot report fewer.
			backgroundCount = tally.Count
		}

		var rawP float64
		switch mode {
		case enrich.ModeBinomial:
			p := float64(backgroundCount) / float64(e.populationSize)
			rawP = e.dist.BinomialTail(tally.Count, querySize, p)
		default:
			// Query items outside the configured background can push an
			// observed count below the urn's structural minimum for the
			// remaining categories. Below that minimum the upper tail is
			// certain.
			if floor := querySize - (e.populationSize - backgroundCount); tally.Count < floor {
				rawP = 1
			} else {
				rawP = e.dist.HypergeometricTail(tally.Count, querySize, backgroundCount, e.populationSize)
			}
		}

		h, err := enrich.NewHypothesis(e.category(id), rawP, tally.Count, backgroundCount, tally.Items)
		if err != nil {
			return nil, err
		}
		hypotheses = append(hypotheses, h)
	}

	sort.Slice(hypotheses, func(i, j int) bool {
		if hypotheses[i].RawP != hypotheses[j].RawP {
			return hypotheses[i].RawP < hypotheses[j].RawP
		}
		return hypotheses[i].Category.ID < hypotheses[j].Category.ID
	})

	if correction == enrich.CorrectionMinimalSet && len(hypotheses) > 0 {
		factor := minimalHypothesisSetSize(hypotheses, queryCounts, e.cfg.Graph)
		for i := range hypotheses {
			hypotheses[i].CorrectedP = capped(hypotheses[i].RawP * float64(factor))
		}
		result.CorrectionFactor = factor
	}

	result.Hypotheses = hypotheses
	return result, nil
}

// category resolves a counted category id to its record. The sentinel is
// not a graph node and is resolved directly.
func (e *Engine) category(id core.CategoryID) ontology.Category {
	if ontology.IsUnannotated(id) {
		return ontology.Unannotated()
	}
	if cat, ok := e.cfg.Graph.ByID(id); ok {
		return cat
	}
	// Counted ids come from the graph or the sentinel, so this is
	// unreachable; a bare record keeps the result well-formed regardless.
	return ontology.Category{ID: id}
}

func aspectBranch(g ports.CategoryGraph, aspect ontology.Aspect) (ontology.Category, bool) {
	for _, child := range g.RootChildren() {
		if child.Aspect == aspect {
			return child, true
		}
	}
	return ontology.Category{}, false
}

func distinctCount(items []core.ItemID) int {
	seen := make(map[core.ItemID]bool, len(items))
	for _, item := range items {
		seen[item] = true
	}
	return len(seen)
}

func capped(p float64) float64 {
	if p > 1 {
		return 1
	}
	return p
}
