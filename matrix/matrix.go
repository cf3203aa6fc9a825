// Package matrix 7 feb 2018, float64 version 3 march 2024
// Two dimensional arrays of float64 with one backing slice.
// Call NewDMatrix2d with the right size. New space is zero, so call
// Fill if you need some other starting value.
// With zero rows, no space and no row slices are allocated.
package matrix

// DMatrix2d is a two dimensional array of float64's
type DMatrix2d struct {
	Mat      [][]float64
	fullData []float64
}

// fixSlices sets the row slices so they point into fullData.
func (mat *DMatrix2d) fixSlices(n_r, n_c int) {
	tmp := mat.fullData
	mat.Mat = make([][]float64, n_r)
	for i := range mat.Mat {
		mat.Mat[i] = tmp[:n_c:n_c]
		tmp = tmp[n_c:]
	}
}

// NewDMatrix2d gives us a two dimensional matrix of n_r x n_c.
func NewDMatrix2d(n_r, n_c int) *DMatrix2d {
	r := new(DMatrix2d)
	r.fullData = make([]float64, n_r*n_c)
	r.fixSlices(n_r, n_c)
	return r
}

// Fill sets every element to x.
func (mat *DMatrix2d) Fill(x float64) {
	for i := range mat.fullData {
		mat.fullData[i] = x
	}
}
