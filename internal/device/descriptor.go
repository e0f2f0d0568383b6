package device

import (
	"github.com/pkg/errors"

	"github.com/axonml/axon/internal/tensor"
)

// ReduceOp selects the accumulation rule of the reduction primitive.
type ReduceOp int

// Supported reduction primitives.
const (
	ReduceSum ReduceOp = iota // additive accumulation
	ReduceAvg                 // arithmetic mean of the collapsed elements
)

// String returns a human-readable op name.
func (op ReduceOp) String() string {
	switch op {
	case ReduceSum:
		return "sum"
	case ReduceAvg:
		return "avg"
	default:
		return "unknown"
	}
}

// NanPropagation controls how the primitives treat NaN inputs.
type NanPropagation int

// NaN policies.
const (
	// PropagateNaN: any NaN in a reduced group makes the result NaN.
	PropagateNaN NanPropagation = iota
	// NotPropagateNaN: NaN inputs are skipped. Not implemented by the
	// current backends; descriptor construction rejects it.
	NotPropagateNaN
)

// TensorDescriptor binds a shape and data type to a device-level tensor
// layout. Descriptors are immutable once created and must be released
// exactly once by their owner.
type TensorDescriptor struct {
	shape    tensor.Shape
	strides  []int
	dtype    tensor.DataType
	released bool
}

// NewTensorDescriptor creates a descriptor for a dense row-major tensor of
// the given shape and data type. Only Float32 is supported by the current
// backends.
func NewTensorDescriptor(shape tensor.Shape, dtype tensor.DataType) (*TensorDescriptor, error) {
	if err := shape.Validate(); err != nil {
		return nil, errors.Wrap(err, "tensor descriptor")
	}
	if dtype != tensor.Float32 {
		return nil, errors.Errorf("tensor descriptor: unsupported dtype %s", dtype)
	}
	return &TensorDescriptor{
		shape:   shape.Clone(),
		strides: shape.ComputeStrides(),
		dtype:   dtype,
	}, nil
}

// Shape returns the descriptor's shape.
func (d *TensorDescriptor) Shape() tensor.Shape { return d.shape }

// Strides returns the descriptor's row-major strides.
func (d *TensorDescriptor) Strides() []int { return d.strides }

// DType returns the descriptor's data type.
func (d *TensorDescriptor) DType() tensor.DataType { return d.dtype }

// Volume returns the number of elements a bound buffer must hold.
func (d *TensorDescriptor) Volume() int { return d.shape.NumElements() }

// Release frees the descriptor. The owner must call it exactly once;
// enqueues with a released descriptor are rejected.
func (d *TensorDescriptor) Release() {
	d.shape = nil
	d.strides = nil
	d.released = true
}

func (d *TensorDescriptor) valid() error {
	if d == nil {
		return errors.New("nil tensor descriptor")
	}
	if d.released {
		return errors.New("tensor descriptor used after release")
	}
	return nil
}

// ReduceOpDescriptor describes a reduction operation: the accumulation
// rule, the compute data type, and the NaN policy.
type ReduceOpDescriptor struct {
	op       ReduceOp
	dtype    tensor.DataType
	nan      NanPropagation
	released bool
}

// NewReduceOpDescriptor creates a reduction-operation descriptor.
func NewReduceOpDescriptor(op ReduceOp, dtype tensor.DataType, nan NanPropagation) (*ReduceOpDescriptor, error) {
	switch op {
	case ReduceSum, ReduceAvg:
	default:
		return nil, errors.Errorf("reduce descriptor: unsupported op %d", op)
	}
	if dtype != tensor.Float32 {
		return nil, errors.Errorf("reduce descriptor: unsupported dtype %s", dtype)
	}
	if nan != PropagateNaN {
		return nil, errors.New("reduce descriptor: only NaN propagation is supported")
	}
	return &ReduceOpDescriptor{op: op, dtype: dtype, nan: nan}, nil
}

// Op returns the accumulation rule.
func (d *ReduceOpDescriptor) Op() ReduceOp { return d.op }

// DType returns the compute data type.
func (d *ReduceOpDescriptor) DType() tensor.DataType { return d.dtype }

// NanPropagation returns the NaN policy.
func (d *ReduceOpDescriptor) NanPropagation() NanPropagation { return d.nan }

// Release frees the descriptor. The owner must call it exactly once.
func (d *ReduceOpDescriptor) Release() {
	d.released = true
}

func (d *ReduceOpDescriptor) valid() error {
	if d == nil {
		return errors.New("nil reduce descriptor")
	}
	if d.released {
		return errors.New("reduce descriptor used after release")
	}
	return nil
}
