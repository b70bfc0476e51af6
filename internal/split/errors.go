package split

import "fmt"

// EmptyCollectionError reports an attempt to split zero units.
type EmptyCollectionError struct{}

func (e *EmptyCollectionError) Error() string {
	return "cannot split an empty collection"
}

// InvalidSplitSizeError reports a requested test size larger than the
// population being split.
type InvalidSplitSizeError struct {
	Requested  int
	Population int
}

func (e *InvalidSplitSizeError) Error() string {
	return fmt.Sprintf("requested test size %d exceeds population %d", e.Requested, e.Population)
}

// InvalidRatioError reports a split ratio outside (0,1).
type InvalidRatioError struct {
	Ratio float64
}

func (e *InvalidRatioError) Error() string {
	return fmt.Sprintf("split ratio %v must be in (0,1)", e.Ratio)
}
