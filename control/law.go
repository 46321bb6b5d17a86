// Package control implements the dynamic aggregation controller. Every
// interval it looks at the worst voice delay behind each access point and
// moves the access point's aggregation size with one of six control laws.
package control

import (
	"errors"
	"fmt"
	"math"
)

// ErrUnknownLaw is returned for a law selector outside 0..5.
var ErrUnknownLaw = errors.New("unknown control law")

// Law selects how a new aggregation size is computed.
type Law int

// The six control laws. The values are the selectors used in configuration.
const (
	LawLinear Law = iota
	LawDrasticDecrease
	LawHalveGap
	LawGeometric
	LawBisection
	LawDrasticIncrease
)

// Laws lists every law by selector.
var Laws = []Law{
	LawLinear,
	LawDrasticDecrease,
	LawHalveGap,
	LawGeometric,
	LawBisection,
	LawDrasticIncrease,
}

var lawNames = map[Law]string{
	LawLinear:          "linear",
	LawDrasticDecrease: "drastic-decrease",
	LawHalveGap:        "halve-gap",
	LawGeometric:       "geometric",
	LawBisection:       "bisection",
	LawDrasticIncrease: "drastic-increase",
}

var lawDescriptions = map[Law]string{
	LawLinear: "over budget: -aggressiveness*step, " +
		"otherwise +step",
	LawDrasticDecrease: "over budget: minimum, otherwise +2*step",
	LawHalveGap: "over budget: (current-minimum)/2, " +
		"otherwise halfway to the maximum",
	LawGeometric: "under budget: x2, otherwise x0.618",
	LawBisection: "moves two remembered bounds by step and " +
		"takes their midpoint",
	LawDrasticIncrease: "over budget: -aggressiveness*step, " +
		"otherwise maximum",
}

// ParseLaw converts a selector into a Law.
func ParseLaw(selector int) (Law, error) {
	l := Law(selector)
	if _, ok := lawNames[l]; !ok {
		return 0, fmt.Errorf("%w: %d", ErrUnknownLaw, selector)
	}

	return l, nil
}

func (l Law) String() string {
	if name, ok := lawNames[l]; ok {
		return name
	}

	return fmt.Sprintf("law(%d)", int(l))
}

// Description is a one-line summary of what the law does.
func (l Law) Description() string {
	return lawDescriptions[l]
}

// Params are the constants of a run.
type Params struct {
	// Step is the increment in bytes.
	Step uint32

	// Minimum is the smallest size a law produces, the MTU plus 100 bytes.
	Minimum uint32

	// MaxSize is the protocol ceiling.
	MaxSize uint32

	// Aggressiveness multiplies the step of linear decreases.
	Aggressiveness uint32

	// Budget is the tolerated voice delay in seconds.
	Budget float64
}

// Bounds are the two sizes the bisection law remembers between ticks.
type Bounds struct {
	LastBelowBudget uint32
	LastAboveBudget uint32
}

// InitialBounds returns the bounds before the first tick.
func InitialBounds(p Params) Bounds {
	return Bounds{LastBelowBudget: p.Minimum, LastAboveBudget: p.MaxSize}
}

// bisectionEpsilon is how far under budget, in seconds, the delay must be
// before the bisection law grows.
const bisectionEpsilon = 0.001

// geometricDecrease is the factor the geometric law shrinks by.
const geometricDecrease = 0.618

type input struct {
	current int64
	worst   float64
	p       Params
	bounds  Bounds
}

func (in input) overBudget() bool {
	return in.worst > in.p.Budget
}

func (in input) min() int64 {
	return int64(in.p.Minimum)
}

func (in input) max() int64 {
	return int64(in.p.MaxSize)
}

func (in input) step() int64 {
	return int64(in.p.Step)
}

type lawFunc func(in input) (int64, Bounds)

var lawFuncs = map[Law]lawFunc{
	LawLinear:          linear,
	LawDrasticDecrease: drasticDecrease,
	LawHalveGap:        halveGap,
	LawGeometric:       geometric,
	LawBisection:       bisection,
	LawDrasticIncrease: drasticIncrease,
}

// Next computes the new aggregation size from the current one and the worst
// voice delay. The result is always within [Minimum, MaxSize].
func Next(
	law Law,
	current uint32,
	worstDelay float64,
	p Params,
	b Bounds,
) (uint32, Bounds, error) {
	f, ok := lawFuncs[law]
	if !ok {
		return current, b, fmt.Errorf("%w: %d", ErrUnknownLaw, int(law))
	}

	v, b := f(input{
		current: int64(current),
		worst:   worstDelay,
		p:       p,
		bounds:  b,
	})

	return clamp(v, int64(p.Minimum), int64(p.MaxSize)), b, nil
}

func clamp(v, lo, hi int64) uint32 {
	if v < lo {
		v = lo
	}

	if v > hi {
		v = hi
	}

	return uint32(v)
}

func linearDecrease(in input) int64 {
	return max(in.current-int64(in.p.Aggressiveness)*in.step(), in.min())
}

func linear(in input) (int64, Bounds) {
	if in.overBudget() {
		return linearDecrease(in), in.bounds
	}

	return min(in.current+in.step(), in.max()), in.bounds
}

func drasticDecrease(in input) (int64, Bounds) {
	if in.overBudget() {
		return in.min(), in.bounds
	}

	return min(in.current+2*in.step(), in.max()), in.bounds
}

func halveGap(in input) (int64, Bounds) {
	if in.overBudget() {
		return (in.current - in.min()) / 2, in.bounds
	}

	return in.current + ceilHalf(in.max()-in.current+1), in.bounds
}

// geometric grows while under budget. Its comparison is the reverse of the
// other laws: a delay exactly at the budget shrinks.
func geometric(in input) (int64, Bounds) {
	if in.worst < in.p.Budget {
		return min(2*in.current, in.max()), in.bounds
	}

	shrunk := int64(math.Floor(float64(in.current) * geometricDecrease))

	return max(shrunk, in.min()), in.bounds
}

func bisection(in input) (int64, Bounds) {
	b := in.bounds
	below := int64(b.LastBelowBudget)
	above := int64(b.LastAboveBudget)

	switch {
	case in.overBudget():
		below = max(below-in.step(), in.min())
		above = max(above-in.step(), in.min())
	case in.p.Budget-in.worst > bisectionEpsilon:
		below = min(below+in.step(), in.max())
		above = min(above+in.step(), in.max())
	default:
		return in.current, b
	}

	b.LastBelowBudget = uint32(below)
	b.LastAboveBudget = uint32(above)

	return ceilHalf(below + above), b
}

func drasticIncrease(in input) (int64, Bounds) {
	if in.overBudget() {
		return linearDecrease(in), in.bounds
	}

	return in.max(), in.bounds
}

func ceilHalf(v int64) int64 {
	if v <= 0 {
		return v / 2
	}

	return (v + 1) / 2
}
