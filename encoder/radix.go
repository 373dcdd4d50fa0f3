package encoder

// counter enumerates the cartesian product of the given dimensions in
// row-major order, the last dimension varying fastest. Stack depth stays
// constant regardless of the scope size. Zero dimensions yield a single
// empty assignment.
type counter struct {
	dims   []int
	digits []int
	done   bool
}

func newCounter(dims []int) *counter {
	return &counter{dims: dims, digits: make([]int, len(dims))}
}

func (c *counter) more() bool { return !c.done }

func (c *counter) advance() {
	for i := len(c.digits) - 1; i >= 0; i-- {
		c.digits[i]++
		if c.digits[i] < c.dims[i] {
			return
		}
		c.digits[i] = 0
	}
	c.done = true
}

// dims returns the domain sizes of the scope variables, in scope order.
func (e *Encoder) dims(scope []string) []int {
	dims := make([]int, len(scope))
	for k, v := range scope {
		dims[k] = len(e.net.States[v])
	}
	return dims
}
