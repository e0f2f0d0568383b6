// Copyright 2026 Axon ML. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package webgpu provides the WebGPU backend for GPU-accelerated device
// primitives.
//
// WebGPU is a cross-platform graphics and compute API that works on:
//   - Windows (via Dawn/D3D12)
//   - macOS (via Dawn/Metal)
//   - Linux (via Dawn/Vulkan)
//
// Example:
//
//	gpu, err := webgpu.New()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer gpu.Release()
//
//	h := device.NewHandle(gpu)
//	defer h.Close()
package webgpu

import (
	internalwebgpu "github.com/axonml/axon/internal/backend/webgpu"

	"github.com/axonml/axon/device"
)

// Backend represents the WebGPU backend implementation for GPU-accelerated
// device primitives.
type Backend = internalwebgpu.Backend

// Compile-time check that Backend implements device.Primitives.
var _ device.Primitives = (*Backend)(nil)

// New creates a new WebGPU backend.
//
// This function initializes the WebGPU device and returns a backend ready
// for dispatch. Call Release() when done to free GPU resources.
//
// Returns an error if WebGPU initialization fails (e.g., no compatible GPU).
func New() (*Backend, error) {
	return internalwebgpu.New()
}

// IsAvailable checks if WebGPU is available on the current system.
//
// It attempts to initialize a WebGPU adapter to verify that a compatible
// GPU and drivers are present. Useful for graceful fallback to the CPU
// backend:
//
//	if webgpu.IsAvailable() {
//	    gpu, _ := webgpu.New()
//	    h = device.NewHandle(gpu)
//	} else {
//	    h = device.NewHandle(cpu.New())
//	}
func IsAvailable() bool {
	return internalwebgpu.IsAvailable()
}
