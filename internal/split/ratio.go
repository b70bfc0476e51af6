package split

// DeriveNestedRatio computes the ratio for a nested split so that the nested
// test set has (approximately) the same absolute size as the parent's test
// set.
//
// Parent: population M, ratio p, test size floor(p*M), train size
// M' = M - floor(p*M). Splitting the train pool with p' = p/(1-p) yields
// floor(p'*M') ~= floor(p*M). Naively reusing p would roughly halve the
// nested test set relative to the reference size.
//
// The identity is exact when p*M and M' are integers; otherwise the nearest
// achievable count is accepted. Callers needing exact equality should pass
// the parent's test size as a count-mode Spec instead.
func DeriveNestedRatio(p float64) (float64, error) {
	if p <= 0 || p >= 1 {
		return 0, &InvalidRatioError{Ratio: p}
	}
	return p / (1 - p), nil
}

// NestedSpec derives the spec for the nested validation split from the
// parent's spec.
//
// A count-mode parent reuses the same absolute count: the nested population
// is smaller and the reference size must match exactly. A ratio-mode parent
// gets the derived ratio p/(1-p). The parent's seed is reused; determinism
// comes from the (population, seed) pair and the nested population differs
// from the parent's.
func NestedSpec(parent Spec) (Spec, error) {
	if err := parent.Validate(); err != nil {
		return Spec{}, err
	}
	if parent.Count != nil {
		return CountSpec(*parent.Count, parent.Seed), nil
	}
	derived, err := DeriveNestedRatio(*parent.Ratio)
	if err != nil {
		return Spec{}, err
	}
	// The derived ratio may legitimately reach [0.5, 1) for large parent
	// ratios; Spec validation still applies at split time, where a derived
	// ratio >= 1 (parent p >= 0.5) surfaces as InvalidRatioError.
	return RatioSpec(derived, parent.Seed), nil
}
