package enrich

import (
	"fmt"
	"sort"
	"strings"

	"goterm/domain/core"
	"goterm/domain/ontology"
)

// Mode selects the null sampling model used for raw p-values.
type Mode string

const (
	// ModeHypergeometric samples without replacement (the default).
	ModeHypergeometric Mode = "hypergeometric"
	// ModeBinomial samples with replacement.
	ModeBinomial Mode = "binomial"
)

// ParseMode parses a string into a Mode.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "hypergeometric":
		return ModeHypergeometric, nil
	case "binomial":
		return ModeBinomial, nil
	}
	return "", fmt.Errorf("%w: %q", core.ErrUnsupportedMode, s)
}

// Correction selects the multiple-testing correction strategy.
type Correction string

const (
	// CorrectionMinimalSet scales raw p-values by the size of the minimal
	// hypothesis set from which every tested hypothesis can be reconstructed.
	CorrectionMinimalSet Correction = "minimal-set"
	// CorrectionNone leaves raw p-values unscaled.
	CorrectionNone Correction = "none"
)

// ParseCorrection parses a string into a Correction.
func ParseCorrection(s string) (Correction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "minimal-set":
		return CorrectionMinimalSet, nil
	case "none":
		return CorrectionNone, nil
	}
	return "", fmt.Errorf("%w: %q", core.ErrUnsupportedCorrection, s)
}

// Hypothesis is one tested category with its significance values.
// INVARIANTS:
// - RawP and CorrectedP in [0.0, 1.0], CorrectedP >= RawP
// - QueryCount >= 2 (single-item categories are never materialized)
// - QueryCount <= BackgroundCount
type Hypothesis struct {
	Category        ontology.Category `json:"category"`
	RawP            float64           `json:"raw_p"`
	CorrectedP      float64           `json:"corrected_p"`
	QueryCount      int               `json:"query_count"`
	BackgroundCount int               `json:"background_count"`
	Items           []core.ItemID     `json:"items"`
}

// NewHypothesis creates a hypothesis record with validation.
func NewHypothesis(cat ontology.Category, rawP float64, queryCount, backgroundCount int, items []core.ItemID) (Hypothesis, error) {
	if rawP < 0.0 || rawP > 1.0 {
		return Hypothesis{}, fmt.Errorf("raw p-value must be in [0.0, 1.0], got %g", rawP)
	}
	if queryCount < 2 {
		return Hypothesis{}, fmt.Errorf("query count must be >= 2, got %d", queryCount)
	}
	if queryCount > backgroundCount {
		return Hypothesis{}, fmt.Errorf("query count %d exceeds background count %d", queryCount, backgroundCount)
	}
	sorted := make([]core.ItemID, len(items))
	copy(sorted, items)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })
	return Hypothesis{
		Category:        cat,
		RawP:            rawP,
		CorrectedP:      rawP,
		QueryCount:      queryCount,
		BackgroundCount: backgroundCount,
		Items:           sorted,
	}, nil
}

// DiagnosticCode classifies non-fatal conditions accumulated during a run.
type DiagnosticCode string

const (
	DiagInputSize        DiagnosticCode = "INPUT_SIZE"        // query larger than population, run aborted
	DiagUnresolvedItem   DiagnosticCode = "UNRESOLVED_ITEM"   // item folded into the unannotated policy
	DiagDanglingCategory DiagnosticCode = "DANGLING_CATEGORY" // annotation references a category absent from the DAG
)

// Diagnostic is one non-fatal condition observed during a run.
type Diagnostic struct {
	Code    DiagnosticCode `json:"code"`
	Message string         `json:"message"`
}

// Diagf builds a diagnostic with a formatted message.
func Diagf(code DiagnosticCode, format string, args ...interface{}) Diagnostic {
	return Diagnostic{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Result is the outcome of one enrichment query call. Hypotheses are
// ordered by ascending raw p-value, ties broken by ascending category id.
type Result struct {
	RunID            core.RunID     `json:"run_id"`
	Aspect           string         `json:"aspect"`
	Mode             Mode           `json:"mode"`
	Correction       Correction     `json:"correction"`
	QuerySize        int            `json:"query_size"`
	PopulationSize   int            `json:"population_size"`
	CorrectionFactor int            `json:"correction_factor"`
	Hypotheses       []Hypothesis   `json:"hypotheses"`
	Diagnostics      []Diagnostic   `json:"diagnostics,omitempty"`
	CreatedAt        core.Timestamp `json:"created_at"`
}

// Empty reports whether the run produced no hypotheses.
func (r *Result) Empty() bool { return len(r.Hypotheses) == 0 }

// Significant returns the hypotheses whose corrected p-value is below alpha.
func (r *Result) Significant(alpha float64) []Hypothesis {
	var out []Hypothesis
	for _, h := range r.Hypotheses {
		if h.CorrectedP < alpha {
			out = append(out, h)
		}
	}
	return out
}
