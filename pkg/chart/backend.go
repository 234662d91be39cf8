package chart

import "context"

// Surface is a display region holding any number of charts.
type Surface interface {
	// Clear removes every chart of the region.
	Clear() error
	// Add draws spec as a new chart at the end of the region.
	Add(ctx context.Context, spec *Spec) (Instance, error)
}

// Instance is a drawn chart. Dispose releases the resources of the backend
// and must be safe to call more than once.
type Instance interface {
	Dispose() error
}
