// Package device models the execution-context layer the Axon operator
// kernels dispatch onto: a Handle bundling a compute backend with a bound
// stream and a reusable scratch workspace, host-side Streams that order
// enqueued work, and the tensor/reduction descriptors the accelerated
// primitives consume.
//
// Kernels never talk to a backend directly; they validate and enqueue
// through the Handle, and the device-side work executes asynchronously in
// stream order. Errors are reported synchronously at enqueue for contract
// violations, or at the next Synchronize for failures inside the primitive.
package device

import "github.com/axonml/axon/internal/tensor"

// Primitives is the accelerated-primitive surface a compute backend must
// provide. Implementations are synchronous; ordering and workspace
// management are the Handle's and Stream's job.
type Primitives interface {
	// ReduceTensor computes c = alpha*reduce(a) + beta*c, where reduce
	// collapses every dimension whose extent is 1 in cDesc but greater
	// than 1 in aDesc, summing (ReduceSum) or averaging (ReduceAvg) the
	// collapsed elements. ws is scratch of at least cDesc.Volume()
	// elements.
	ReduceTensor(ws []float32, opDesc *ReduceOpDescriptor,
		alpha float32, aDesc *TensorDescriptor, a []float32,
		beta float32, cDesc *TensorDescriptor, c []float32) error

	// AddTensor computes c = alpha*broadcast(a) + beta*c, broadcasting a
	// along every dimension whose extent is 1 in aDesc but greater than 1
	// in cDesc.
	AddTensor(alpha float32, aDesc *TensorDescriptor, a []float32,
		beta float32, cDesc *TensorDescriptor, c []float32) error

	// Name returns the backend name for logs and diagnostics.
	Name() string

	// Device returns the compute device the backend runs on.
	Device() tensor.Device
}
