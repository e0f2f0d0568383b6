// Package ops implements the Axon operator kernels. Each operator splits
// into an immutable descriptor, built once per instantiation at
// graph-compile time, and stateless forward/backward routines invoked once
// per training step with pre-resolved buffers.
package ops

import (
	"github.com/pkg/errors"

	"github.com/axonml/axon/internal/device"
	"github.com/axonml/axon/internal/tensor"
)

// ReduceKind selects the reduction operator.
type ReduceKind int

// Supported reduction operators.
const (
	ReduceSum ReduceKind = iota
	ReduceMean
)

// String returns a human-readable operator name.
func (k ReduceKind) String() string {
	switch k {
	case ReduceSum:
		return "sum"
	case ReduceMean:
		return "mean"
	default:
		return "unknown"
	}
}

// ReduceConfig describes a reduction operator instantiation: which operator
// to apply and which input axes to collapse.
type ReduceConfig struct {
	Kind ReduceKind
	Axes []int
}

// ReduceDescriptor is the per-instantiation metadata of a reduction
// operator: the derived output shape, the group size collapsed into each
// output element, and the device descriptors the kernels dispatch with.
// It is immutable once constructed and must be destroyed exactly once.
type ReduceDescriptor struct {
	kind          ReduceKind
	inputShape    tensor.Shape
	outputShape   tensor.Shape
	reductionSize int

	inDesc  *device.TensorDescriptor
	outDesc *device.TensorDescriptor
	opDesc  *device.ReduceOpDescriptor
}

// NewReduceDescriptor validates the configuration against the input shape
// and binds the device descriptors. The output shape equals the input shape
// with every listed axis collapsed to extent 1. Configuration errors (axis
// out of range, duplicate axis, unsupported kind) are reported eagerly so a
// misconfigured operator never reaches the forward/backward path.
func NewReduceDescriptor(cfg ReduceConfig, input tensor.Shape) (*ReduceDescriptor, error) {
	if err := input.Validate(); err != nil {
		return nil, errors.Wrap(err, "reduce: input shape")
	}

	output, err := input.Collapse(cfg.Axes)
	if err != nil {
		return nil, errors.Wrap(err, "reduce")
	}

	inVol := input.NumElements()
	outVol := output.NumElements()
	if outVol <= 0 || inVol%outVol != 0 {
		return nil, errors.Errorf("reduce: input volume %d not divisible by output volume %d",
			inVol, outVol)
	}

	var op device.ReduceOp
	switch cfg.Kind {
	case ReduceSum:
		op = device.ReduceSum
	case ReduceMean:
		op = device.ReduceAvg
	default:
		return nil, errors.Errorf("reduce: unsupported operator kind %d", cfg.Kind)
	}

	opDesc, err := device.NewReduceOpDescriptor(op, tensor.Float32, device.PropagateNaN)
	if err != nil {
		return nil, errors.Wrap(err, "reduce")
	}
	inDesc, err := device.NewTensorDescriptor(input, tensor.Float32)
	if err != nil {
		opDesc.Release()
		return nil, errors.Wrap(err, "reduce: input descriptor")
	}
	outDesc, err := device.NewTensorDescriptor(output, tensor.Float32)
	if err != nil {
		opDesc.Release()
		inDesc.Release()
		return nil, errors.Wrap(err, "reduce: output descriptor")
	}

	return &ReduceDescriptor{
		kind:          cfg.Kind,
		inputShape:    input.Clone(),
		outputShape:   output,
		reductionSize: inVol / outVol,
		inDesc:        inDesc,
		outDesc:       outDesc,
		opDesc:        opDesc,
	}, nil
}

// Destroy releases the device descriptors. The owning operator instance
// must call it exactly once; the descriptor is unusable afterward.
func (d *ReduceDescriptor) Destroy() {
	d.inDesc.Release()
	d.outDesc.Release()
	d.opDesc.Release()
}

// Kind returns the reduction operator.
func (d *ReduceDescriptor) Kind() ReduceKind { return d.kind }

// InputShape returns the shape the descriptor was built for.
func (d *ReduceDescriptor) InputShape() tensor.Shape { return d.inputShape }

// OutputShape returns the derived reduced shape.
func (d *ReduceDescriptor) OutputShape() tensor.Shape { return d.outputShape }

// ReductionSize returns the number of input elements collapsed into each
// output element.
func (d *ReduceDescriptor) ReductionSize() int { return d.reductionSize }
