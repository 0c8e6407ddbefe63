// Package dist provides exact tail probabilities for the hypergeometric
// and binomial sampling models. It is not a general statistics library;
// it is a performance feature tightly bound to the enrichment engine.
//
// Factorials grow past float range almost immediately, so everything is
// computed in log space:
//
//	log(nCr) = log(n!) - (log(r!) + log((n-r)!))
//
// with log(n!) served from a prefix-sum cache sized to the maximum
// population seen at construction.
package dist

import (
	"fmt"
	"math"
	"sync"
)

// Distributions owns the log-factorial cache and the memoized
// log(n choose r) values for one engine instance. It is safe for
// concurrent use by multiple query calls.
type Distributions struct {
	maxPopulationSize int
	logFactorial      []float64

	mu      sync.RWMutex
	logNCrs map[nrKey]float64
}

type nrKey struct {
	n int
	r int
}

// New creates a Distributions instance able to serve populations up to
// maxPopulationSize. Requesting values beyond that size later is a
// programming error and panics; callers must size the cache correctly
// at construction.
func New(maxPopulationSize int) *Distributions {
	if maxPopulationSize < 0 {
		panic(fmt.Sprintf("dist: negative population size %d", maxPopulationSize))
	}
	d := &Distributions{
		maxPopulationSize: maxPopulationSize,
		logFactorial:      make([]float64, maxPopulationSize+1),
		logNCrs:           make(map[nrKey]float64),
	}
	// log(n!) = log(n) + log(n-1) + ... + log(1)
	for i := 2; i <= maxPopulationSize; i++ {
		d.logFactorial[i] = d.logFactorial[i-1] + math.Log(float64(i))
	}
	return d
}

// MaxPopulationSize returns the size the caches were built for.
func (d *Distributions) MaxPopulationSize() int { return d.maxPopulationSize }

// LogFactorial returns log(n!) from the cache.
func (d *Distributions) LogFactorial(n int) float64 {
	if n < 0 || n > d.maxPopulationSize {
		panic(fmt.Sprintf("dist: log factorial of %d outside cached range [0, %d]", n, d.maxPopulationSize))
	}
	return d.logFactorial[n]
}

// LogNCr returns log(n choose r), memoized per (n, r) pair because the
// same pairs recur across repeated category evaluations.
func (d *Distributions) LogNCr(n, r int) float64 {
	if r < 0 || r > n {
		panic(fmt.Sprintf("dist: nCr undefined for n=%d r=%d", n, r))
	}
	key := nrKey{n: n, r: r}

	d.mu.RLock()
	v, ok := d.logNCrs[key]
	d.mu.RUnlock()
	if ok {
		return v
	}

	v = d.LogFactorial(n) - (d.LogFactorial(r) + d.LogFactorial(n-r))

	d.mu.Lock()
	d.logNCrs[key] = v
	d.mu.Unlock()
	return v
}

// Hypergeometric returns the probability of picking exactly x positives
// in a sample of n drawn without replacement, given M positives in a
// population of N:
//
//	P = (M choose x) (N-M choose n-x) / (N choose n)
func (d *Distributions) Hypergeometric(x, n, M, N int) float64 {
	z := d.LogNCr(M, x) + d.LogNCr(N-M, n-x) - d.LogNCr(N, n)
	return math.Exp(z)
}

// HypergeometricTail returns the p-value of observing x or more positives
// in a sample of n, given M positives in a population of N.
func (d *Distributions) HypergeometricTail(x, n, M, N int) float64 {
	// The number of failures in the sample cannot exceed the failures in
	// the population, and a sample cannot hold more positives than either
	// the sample or the positive class. Violations are caller bugs.
	switch {
	case x > n:
		panic(fmt.Sprintf("dist: x=%d positives in a sample of n=%d is impossible", x, n))
	case M > N:
		panic(fmt.Sprintf("dist: M=%d positives in a population of N=%d is impossible", M, N))
	case (N - M) < (n - x):
		panic(fmt.Sprintf("dist: for N=%d M=%d n=%d x=%d, (N-M) < (n-x), which is impossible", N, M, n, x))
	}

	// Terms past min(M, n) are structurally zero.
	upper := M
	if n < M {
		upper = n
	}
	pValue := 0.0
	for i := x; i <= upper; i++ {
		pValue += d.Hypergeometric(i, n, M, N)
	}
	if pValue > 1 { // absorb rounding
		pValue = 1
	}
	return pValue
}

// Binomial returns the probability of exactly j successes in n trials
// with per-trial success probability p, sampling with replacement.
func (d *Distributions) Binomial(j, n int, p float64) float64 {
	if p == 1 {
		// log(1-p) is undefined; the outcome is deterministic.
		if j == n {
			return 1
		}
		return 0
	}
	if p == 0 {
		if j == 0 {
			return 1
		}
		return 0
	}
	z := d.LogNCr(n, j) + float64(j)*math.Log(p) + float64(n-j)*math.Log(1-p)
	return math.Exp(z)
}

// BinomialTail returns the p-value of observing x or more successes in
// n trials with per-trial success probability p.
func (d *Distributions) BinomialTail(x, n int, p float64) float64 {
	if x > n {
		panic(fmt.Sprintf("dist: x=%d successes in n=%d trials is impossible", x, n))
	}
	pValue := 0.0
	for j := x; j <= n; j++ {
		pValue += d.Binomial(j, n, p)
	}
	if pValue > 1 {
		pValue = 1
	}
	return pValue
}
