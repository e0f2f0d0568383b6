// Copyright 2026 Axon ML. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package ops exposes the Axon operator kernels: per-instantiation
// descriptors plus stateless forward/backward routines dispatched on a
// device stream.
//
// Example:
//
//	h := device.NewHandle(cpu.New())
//	defer h.Close()
//
//	desc, err := ops.NewReduceDescriptor(
//	    ops.ReduceConfig{Kind: ops.ReduceMean, Axes: []int{1}},
//	    tensor.Shape{4, 8},
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer desc.Destroy()
//
//	stream := device.NewStream()
//	defer stream.Close()
//	if err := ops.ReduceForward(h, stream, desc, input, output); err != nil {
//	    log.Fatal(err)
//	}
//	if err := stream.Synchronize(); err != nil {
//	    log.Fatal(err)
//	}
package ops

import (
	"github.com/axonml/axon/internal/device"
	"github.com/axonml/axon/internal/ops"
	"github.com/axonml/axon/internal/tensor"
)

// ReduceKind selects the reduction operator.
type ReduceKind = ops.ReduceKind

// Supported reduction operators.
const (
	ReduceSum  = ops.ReduceSum
	ReduceMean = ops.ReduceMean
)

// ReduceConfig describes a reduction operator instantiation.
type ReduceConfig = ops.ReduceConfig

// ReduceDescriptor is the immutable per-instantiation metadata of a
// reduction operator. Build it once per input shape at graph-compile time
// and destroy it with the operator instance.
type ReduceDescriptor = ops.ReduceDescriptor

// NewReduceDescriptor validates the configuration against the input shape
// and binds the device descriptors.
func NewReduceDescriptor(cfg ReduceConfig, input tensor.Shape) (*ReduceDescriptor, error) {
	return ops.NewReduceDescriptor(cfg, input)
}

// ReduceForward enqueues the forward reduction on stream, overwriting the
// output buffer.
func ReduceForward(h *device.Handle, stream *device.Stream, d *ReduceDescriptor,
	input, output []float32) error {
	return ops.ReduceForward(h, stream, d, input, output)
}

// ReduceBackward enqueues the backward pass on stream, accumulating the
// broadcast (and, for mean, rescaled) output gradient into inputGrad.
func ReduceBackward(h *device.Handle, stream *device.Stream, d *ReduceDescriptor,
	outputGrad, inputGrad []float32) error {
	return ops.ReduceBackward(h, stream, d, outputGrad, inputGrad)
}
