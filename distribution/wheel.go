package distribution

// RoundRobinWheel is a minimal bounded counter: each Spin returns the
// current position and advances, wrapping at the fixed size. It load
// balances sender selection across the members of a subgrid row.
type RoundRobinWheel struct {
	size    int
	current int
}

func NewRoundRobinWheel(size int) *RoundRobinWheel {
	return &RoundRobinWheel{size: size}
}

func (w *RoundRobinWheel) Spin() (n int) {
	n = w.current
	w.current++
	if w.current == w.size {
		w.current = 0
	}
	return
}
