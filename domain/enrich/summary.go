package enrich

import (
	"github.com/montanaflynn/stats"
)

// Summary condenses the raw p-value distribution of a result for run
// manifests and report headers.
type Summary struct {
	Hypotheses int     `json:"hypotheses"`
	Factor     int     `json:"correction_factor"`
	MinRawP    float64 `json:"min_raw_p"`
	MedianRawP float64 `json:"median_raw_p"`
	MaxRawP    float64 `json:"max_raw_p"`
}

// Summarize computes the p-value summary for a result. An empty result
// yields a zero summary.
func Summarize(r *Result) Summary {
	s := Summary{Hypotheses: len(r.Hypotheses), Factor: r.CorrectionFactor}
	if len(r.Hypotheses) == 0 {
		return s
	}
	pvals := make([]float64, len(r.Hypotheses))
	for i, h := range r.Hypotheses {
		pvals[i] = h.RawP
	}
	s.MinRawP, _ = stats.Min(pvals)
	s.MedianRawP, _ = stats.Median(pvals)
	s.MaxRawP, _ = stats.Max(pvals)
	return s
}
