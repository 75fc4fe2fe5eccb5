package autograd

// GraphError reports a structural misuse of the tape: backward on an
// empty or already-consumed tape, or a loss that is not a recorded
// scalar.
type GraphError struct {
	Reason string
}

func (e *GraphError) Error() string {
	return "graph: " + e.Reason
}
