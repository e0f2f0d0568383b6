// Copyright 2026 Axon ML. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package tensor provides the shape, dtype, and raw buffer types consumed
// by the Axon device backends and operator kernels.
//
// Shapes describe the rectangular index domain of a tensor; RawTensor owns
// a flat buffer and exposes typed views the kernels read and write through.
//
// Example:
//
//	raw, _ := tensor.NewRaw(tensor.Shape{2, 3}, tensor.Float32, tensor.CPU)
//	data := raw.AsFloat32()
package tensor

import (
	"github.com/axonml/axon/internal/tensor"
)

// Shape represents the rectangular index domain of a tensor: one extent per
// dimension, outermost first.
type Shape = tensor.Shape

// DataType represents runtime type information for tensor buffers.
type DataType = tensor.DataType

// Supported data types.
const (
	Float32 = tensor.Float32
	Float64 = tensor.Float64
)

// Device identifies the compute device a buffer lives on.
type Device = tensor.Device

// Supported compute devices.
const (
	CPU    = tensor.CPU
	WebGPU = tensor.WebGPU
)

// RawTensor is the low-level buffer representation.
//
// RawTensor provides:
//   - Shape and type information via Shape(), DType(), Device()
//   - Type-safe data access via AsFloat32(), AsFloat64()
type RawTensor = tensor.RawTensor

// NewRaw creates a new RawTensor with the given shape and type.
// Memory is allocated and zero-initialized.
func NewRaw(shape Shape, dtype DataType, device Device) (*RawTensor, error) {
	return tensor.NewRaw(shape, dtype, device)
}
