package engine

import "absint/internal/domain"

// Params configures the fixpoint engine's loop-handling strategy (spec §4.4).
// The zero value is not directly usable because WideningThreshold has no
// sensible zero; construct via DefaultParams and adjust the fields.
type Params struct {
	// LoopUnrollings is how many times a while's body is analysed
	// unconditionally before the Kleene phase begins (spec §4.4: "unroll the
	// loop body this many times first, feeding each unrolled iteration's
	// output memory into the next").
	LoopUnrollings int
	// UseWidening enables widening during the Kleene phase once
	// WideningDelays plain joins have occurred.
	UseWidening bool
	// WideningDelays is how many plain joins happen before widening is
	// applied on subsequent iterations.
	WideningDelays int
	// WideningThreshold bounds how far a widening step may jump (spec §4.3).
	WideningThreshold domain.Value
}

// DefaultParams returns the spec's default: no unrolling, no widening, a
// ⊤ threshold (spec §4.4: "default {0, false, 0, ⊤}").
func DefaultParams(dom domain.Domain) Params {
	return Params{
		LoopUnrollings:    0,
		UseWidening:       false,
		WideningDelays:    0,
		WideningThreshold: dom.Top(),
	}
}
