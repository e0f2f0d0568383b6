package tensor

import "github.com/pkg/errors"

// Shape represents the rectangular index domain of a tensor: one extent per
// dimension, outermost first.
type Shape []int

// NumElements returns the total number of elements (the domain's volume).
func (s Shape) NumElements() int {
	if len(s) == 0 {
		return 1 // Scalar has 1 element
	}
	n := 1
	for _, dim := range s {
		n *= dim
	}
	return n
}

// Validate checks if the shape is valid (rank >= 1, all extents > 0).
func (s Shape) Validate() error {
	if len(s) == 0 {
		return errors.New("shape must have rank >= 1")
	}
	for i, dim := range s {
		if dim <= 0 {
			return errors.Errorf("invalid extent at dimension %d: %d (must be > 0)", i, dim)
		}
	}
	return nil
}

// Equal checks if two shapes are equal.
func (s Shape) Equal(other Shape) bool {
	if len(s) != len(other) {
		return false
	}
	for i := range s {
		if s[i] != other[i] {
			return false
		}
	}
	return true
}

// Clone returns a copy of the shape.
func (s Shape) Clone() Shape {
	clone := make(Shape, len(s))
	copy(clone, s)
	return clone
}

// ComputeStrides calculates row-major strides for the shape.
// Strides define memory layout: stride[i] = product of all extents after i.
func (s Shape) ComputeStrides() []int {
	strides := make([]int, len(s))
	if len(s) == 0 {
		return strides
	}

	strides[len(s)-1] = 1
	for i := len(s) - 2; i >= 0; i-- {
		strides[i] = strides[i+1] * s[i+1]
	}
	return strides
}

// Collapse returns a derived shape with the extent of every listed axis set
// to 1, preserving rank and dimension order. Axes must be in range and
// listed at most once.
//
// Example:
//
//	Shape{2, 3, 4}.Collapse([]int{0, 2}) // Shape{1, 3, 1}
func (s Shape) Collapse(axes []int) (Shape, error) {
	out := s.Clone()
	seen := make(map[int]bool, len(axes))
	for _, axis := range axes {
		if axis < 0 || axis >= len(s) {
			return nil, errors.Errorf("axis %d out of range for rank %d shape", axis, len(s))
		}
		if seen[axis] {
			return nil, errors.Errorf("duplicate axis %d", axis)
		}
		seen[axis] = true
		out[axis] = 1
	}
	return out, nil
}
