package device

import (
	"sync"

	"github.com/dustin/go-humanize"
	"github.com/pkg/errors"
	"k8s.io/klog/v2"

	"github.com/axonml/axon/internal/tensor"
)

// Handle is the device execution context shared by many operator instances:
// a compute backend, the stream work is dispatched on, and a reusable
// scratch workspace for the primitives' internal use.
//
// A Handle serializes nothing by itself. Dispatches on the bound stream are
// ordered by the stream; issuing work on the same handle from multiple
// threads or streams concurrently requires external synchronization because
// the workspace is shared.
type Handle struct {
	prims         Primitives
	defaultStream *Stream

	mu     sync.Mutex
	stream *Stream
	ws     []float32
}

// NewHandle creates an execution context over the given backend with a
// fresh default stream bound.
func NewHandle(p Primitives) *Handle {
	h := &Handle{
		prims:         p,
		defaultStream: NewStream(),
	}
	h.stream = h.defaultStream
	klog.V(1).Infof("device: handle created on %s backend (%s)", p.Name(), p.Device())
	return h
}

// SetStream binds the stream subsequent dispatches are enqueued on.
// Passing nil rebinds the handle's default stream.
func (h *Handle) SetStream(s *Stream) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if s == nil {
		s = h.defaultStream
	}
	h.stream = s
}

// Stream returns the currently bound stream.
func (h *Handle) Stream() *Stream {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.stream
}

// Primitives returns the backend this handle dispatches onto.
func (h *Handle) Primitives() Primitives {
	return h.prims
}

// Workspace returns a scratch slice of at least n float32 elements, reused
// across dispatches and grown geometrically on demand. The slice is only
// valid for work ordered on a single stream.
func (h *Handle) Workspace(n int) []float32 {
	h.mu.Lock()
	defer h.mu.Unlock()
	if cap(h.ws) < n {
		grown := max(n, 2*cap(h.ws))
		h.ws = make([]float32, grown)
		klog.V(2).Infof("device: workspace grown to %s",
			humanize.Bytes(uint64(grown)*4))
	}
	return h.ws[:n]
}

// Close releases the handle's default stream. Streams bound via SetStream
// stay owned by their creators.
func (h *Handle) Close() {
	h.defaultStream.Close()
}

// ReduceTensor enqueues c = alpha*reduce(a) + beta*c on the bound stream.
// Descriptor and buffer agreement is checked synchronously; primitive
// failures surface at the stream's next Synchronize.
func (h *Handle) ReduceTensor(opDesc *ReduceOpDescriptor,
	alpha float32, aDesc *TensorDescriptor, a []float32,
	beta float32, cDesc *TensorDescriptor, c []float32) error {

	if err := opDesc.valid(); err != nil {
		return err
	}
	if err := checkBinding(aDesc, a); err != nil {
		return errors.Wrap(err, "reduce input")
	}
	if err := checkBinding(cDesc, c); err != nil {
		return errors.Wrap(err, "reduce output")
	}
	if err := checkCollapsed(aDesc.shape, cDesc.shape); err != nil {
		return err
	}
	if opDesc.dtype != aDesc.dtype || opDesc.dtype != cDesc.dtype {
		return errors.Errorf("reduce: dtype mismatch: op %s, input %s, output %s",
			opDesc.dtype, aDesc.dtype, cDesc.dtype)
	}

	ws := h.Workspace(cDesc.Volume())
	return h.Stream().enqueue(func() error {
		return h.prims.ReduceTensor(ws, opDesc, alpha, aDesc, a, beta, cDesc, c)
	})
}

// AddTensor enqueues c = alpha*broadcast(a) + beta*c on the bound stream,
// broadcasting a along its extent-1 dimensions.
func (h *Handle) AddTensor(alpha float32, aDesc *TensorDescriptor, a []float32,
	beta float32, cDesc *TensorDescriptor, c []float32) error {

	if err := checkBinding(aDesc, a); err != nil {
		return errors.Wrap(err, "add source")
	}
	if err := checkBinding(cDesc, c); err != nil {
		return errors.Wrap(err, "add destination")
	}
	if err := checkCollapsed(cDesc.shape, aDesc.shape); err != nil {
		return err
	}
	if aDesc.dtype != cDesc.dtype {
		return errors.Errorf("add: dtype mismatch: source %s, destination %s",
			aDesc.dtype, cDesc.dtype)
	}

	return h.Stream().enqueue(func() error {
		return h.prims.AddTensor(alpha, aDesc, a, beta, cDesc, c)
	})
}

// checkBinding verifies a buffer can back a descriptor.
func checkBinding(d *TensorDescriptor, buf []float32) error {
	if err := d.valid(); err != nil {
		return err
	}
	if len(buf) < d.Volume() {
		return errors.Errorf("buffer holds %d elements, descriptor needs %d",
			len(buf), d.Volume())
	}
	return nil
}

// checkCollapsed verifies small is full with some dimensions collapsed to
// extent 1: equal rank, and every extent equal or 1 in small.
func checkCollapsed(full, small tensor.Shape) error {
	if len(full) != len(small) {
		return errors.Errorf("rank mismatch: %v vs %v", full, small)
	}
	for i := range full {
		if small[i] != full[i] && small[i] != 1 {
			return errors.Errorf("dimension %d: extent %d is neither %d nor 1",
				i, small[i], full[i])
		}
	}
	return nil
}
