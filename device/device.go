// Copyright 2026 Axon ML. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package device exposes the execution-context layer of Axon: handles,
// streams, and the tensor/reduction descriptors the accelerated device
// primitives consume.
//
// Example:
//
//	import (
//	    "github.com/axonml/axon/backend/cpu"
//	    "github.com/axonml/axon/device"
//	)
//
//	func main() {
//	    h := device.NewHandle(cpu.New())
//	    defer h.Close()
//
//	    stream := device.NewStream()
//	    defer stream.Close()
//	    // ... enqueue kernels, then:
//	    if err := stream.Synchronize(); err != nil {
//	        log.Fatal(err)
//	    }
//	}
package device

import (
	"github.com/axonml/axon/internal/device"
	"github.com/axonml/axon/internal/tensor"
)

// Handle is the device execution context shared by many operator instances:
// a compute backend, the bound stream, and a reusable scratch workspace.
type Handle = device.Handle

// Stream is an ordered work queue; enqueued work executes asynchronously in
// enqueue order, and errors surface at Synchronize.
type Stream = device.Stream

// TensorDescriptor binds a shape and data type to a device tensor layout.
type TensorDescriptor = device.TensorDescriptor

// ReduceOpDescriptor describes a reduction operation bound to a data type
// and a NaN policy.
type ReduceOpDescriptor = device.ReduceOpDescriptor

// Primitives is the accelerated-primitive surface a compute backend
// implements.
type Primitives = device.Primitives

// ReduceOp selects the accumulation rule of the reduction primitive.
type ReduceOp = device.ReduceOp

// Supported reduction primitives.
const (
	ReduceSum = device.ReduceSum
	ReduceAvg = device.ReduceAvg
)

// NanPropagation controls how the primitives treat NaN inputs.
type NanPropagation = device.NanPropagation

// NaN policies.
const (
	PropagateNaN    = device.PropagateNaN
	NotPropagateNaN = device.NotPropagateNaN
)

// ErrStreamClosed is returned when work is enqueued on a closed stream.
var ErrStreamClosed = device.ErrStreamClosed

// NewHandle creates an execution context over the given backend.
func NewHandle(p Primitives) *Handle {
	return device.NewHandle(p)
}

// NewStream creates a stream and starts its dispatch goroutine.
func NewStream() *Stream {
	return device.NewStream()
}

// NewTensorDescriptor creates a descriptor for a dense row-major tensor.
func NewTensorDescriptor(shape tensor.Shape, dtype tensor.DataType) (*TensorDescriptor, error) {
	return device.NewTensorDescriptor(shape, dtype)
}

// NewReduceOpDescriptor creates a reduction-operation descriptor.
func NewReduceOpDescriptor(op ReduceOp, dtype tensor.DataType, nan NanPropagation) (*ReduceOpDescriptor, error) {
	return device.NewReduceOpDescriptor(op, dtype, nan)
}
