// Package cpu implements the Axon device primitives in pure Go, with
// chunked parallelism over the output domain.
package cpu

import (
	"github.com/axonml/axon/internal/parallel"
	"github.com/axonml/axon/internal/tensor"
)

// Backend implements device.Primitives on the host CPU.
type Backend struct {
	device tensor.Device
	cfg    parallel.Config
}

// New creates a new CPU backend.
func New() *Backend {
	return &Backend{
		device: tensor.CPU,
		cfg:    parallel.DefaultConfig(),
	}
}

// Name returns the backend name.
func (cpu *Backend) Name() string {
	return "CPU"
}

// Device returns the compute device.
func (cpu *Backend) Device() tensor.Device {
	return cpu.device
}
