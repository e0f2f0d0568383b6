// Copyright 2026 Axon ML. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package cpu

import (
	internalcpu "github.com/axonml/axon/internal/backend/cpu"

	"github.com/axonml/axon/device"
)

// Backend represents the CPU backend implementation.
//
// The CPU backend provides pure Go implementations of the device
// primitives, parallelized over the output domain.
type Backend = internalcpu.Backend

// Compile-time check that Backend implements device.Primitives.
var _ device.Primitives = (*Backend)(nil)

// New creates a new CPU backend.
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
//	}
func New() *Backend {
	return internalcpu.New()
}
