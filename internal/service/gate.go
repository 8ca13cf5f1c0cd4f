package service

// Decision is the access gate's verdict for one request. Counter is the value
// to hand back to the caller whatever the verdict.
type Decision struct {
	Admit   bool
	Counter int
}

// Gate admits authenticated callers unconditionally and stops anonymous ones
// on every request whose incremented counter is a multiple of the threshold.
type Gate struct {
	threshold int
}

func NewGate(threshold int) *Gate {
	return &Gate{threshold: threshold}
}

func (g *Gate) Decide(counter int, authenticated bool) Decision {
	if counter < 0 {
		counter = 0
	}
	next := counter + 1

	return Decision{
		Admit:   authenticated || next%g.threshold != 0,
		Counter: next,
	}
}
