package arrayh5

// Transpose reverses the axis order of the array in place: axis k
// becomes axis rank-1-k, and every element is physically relocated so
// that the buffer stays contiguous row-major in the new axis order.
// Runs in O(N) time with one full extra buffer; no view or stride
// abstraction is involved.
func (a *NDArray) Transpose() {
	out := make([]float64, len(a.data))
	a.relocate(0, 0, 0, out)
	a.data = out

	for i, j := 0, len(a.dims)-1; i < j; i, j = i+1, j-1 {
		a.dims[i], a.dims[j] = a.dims[j], a.dims[i]
	}
}

// relocate copies dimension dim of the source buffer into out, walking
// dimensions outermost-to-innermost in the original axis order.  The
// source offset advances by the product of the extents after dim (row
// major in the original order); the destination offset advances by the
// product of the extents before dim, because in the reversed order the
// current axis is the least significant one seen so far.
func (a *NDArray) relocate(dim, src, dst int, out []float64) {
	rank := len(a.dims)
	if rank == 0 {
		out[dst] = a.data[src]
		return
	}

	before, after := 1, 1
	for i := 0; i < dim; i++ {
		before *= a.dims[i]
	}
	for i := dim + 1; i < rank; i++ {
		after *= a.dims[i]
	}

	if dim == rank-1 {
		for i := 0; i < a.dims[dim]; i++ {
			out[dst+i*before] = a.data[src+i]
		}
		return
	}
	for i := 0; i < a.dims[dim]; i++ {
		a.relocate(dim+1, src+i*after, dst+i*before, out)
	}
}
