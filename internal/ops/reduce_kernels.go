package ops

import (
	"fmt"

	"github.com/axonml/axon/internal/device"
)

// ReduceForward enqueues the forward reduction on stream: every output
// element becomes the sum or mean of the reductionSize input elements that
// map to it. The output buffer is fully overwritten (no accumulation).
func ReduceForward(h *device.Handle, stream *device.Stream, d *ReduceDescriptor,
	input, output []float32) error {

	h.SetStream(stream)
	return h.ReduceTensor(d.opDesc,
		1.0, d.inDesc, input,
		0.0, d.outDesc, output)
}

// ReduceBackward enqueues the backward pass on stream: each output-gradient
// element is broadcast back to the reductionSize input positions that
// contributed to it, accumulating into inputGrad so other consumers'
// gradient contributions survive. The broadcast scale follows the chain
// rule of the operator: 1 for sum, 1/reductionSize for mean.
func ReduceBackward(h *device.Handle, stream *device.Stream, d *ReduceDescriptor,
	outputGrad, inputGrad []float32) error {

	var alpha float32
	switch d.kind {
	case ReduceSum:
		alpha = 1.0
	case ReduceMean:
		alpha = 1.0 / float32(d.reductionSize)
	default:
		panic(fmt.Sprintf("ops: reduce backward: unhandled operator kind %d", d.kind))
	}

	h.SetStream(stream)
	return h.AddTensor(
		alpha, d.outDesc, outputGrad,
		1.0, d.inDesc, inputGrad)
}
