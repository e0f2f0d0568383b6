package cpu

import (
	"github.com/axonml/axon/internal/device"
	"github.com/axonml/axon/internal/parallel"
)

// ReduceTensor computes c = alpha*reduce(a) + beta*c on the CPU.
//
// Every dimension whose extent collapses to 1 in cDesc is reduced. Reduced
// values are staged in ws before the alpha/beta blend so that partially
// written output is never observed through c. A beta of zero never reads c.
func (cpu *Backend) ReduceTensor(ws []float32, opDesc *device.ReduceOpDescriptor,
	alpha float32, aDesc *device.TensorDescriptor, a []float32,
	beta float32, cDesc *device.TensorDescriptor, c []float32) error {

	aShape := aDesc.Shape()
	cShape := cDesc.Shape()
	aStrides := aDesc.Strides()
	cStrides := cDesc.Strides()
	cVol := cDesc.Volume()
	red := ws[:cVol]

	// Extents and input strides of the collapsed dimensions only.
	var redExt, redStride []int
	redSize := 1
	for d := range aShape {
		if cShape[d] == 1 && aShape[d] > 1 {
			redExt = append(redExt, aShape[d])
			redStride = append(redStride, aStrides[d])
			redSize *= aShape[d]
		}
	}

	if cVol == 1 {
		// Full reduction: single flat pass, no coordinate decoding.
		var sum float32
		for _, v := range a[:aDesc.Volume()] {
			sum += v
		}
		red[0] = sum
	} else {
		parallel.For(cVol, func(start, end int) {
			for o := start; o < end; o++ {
				// Map the output element to its input base offset.
				// Collapsed dimensions contribute coordinate 0.
				base := 0
				rem := o
				for d := range cShape {
					base += (rem / cStrides[d]) * aStrides[d]
					rem %= cStrides[d]
				}

				// Gather the group of collapsed elements.
				var sum float32
				for r := 0; r < redSize; r++ {
					off := 0
					rr := r
					for j := len(redExt) - 1; j >= 0; j-- {
						off += (rr % redExt[j]) * redStride[j]
						rr /= redExt[j]
					}
					sum += a[base+off]
				}
				red[o] = sum
			}
		}, cpu.cfg)
	}

	if opDesc.Op() == device.ReduceAvg {
		inv := 1 / float32(redSize)
		for o := range red {
			red[o] *= inv
		}
	}

	parallel.For(cVol, func(start, end int) {
		if beta == 0 {
			for o := start; o < end; o++ {
				c[o] = alpha * red[o]
			}
			return
		}
		for o := start; o < end; o++ {
			c[o] = alpha*red[o] + beta*c[o]
		}
	}, cpu.cfg)

	return nil
}

// AddTensor computes c = alpha*broadcast(a) + beta*c, broadcasting a along
// its extent-1 dimensions. A beta of zero never reads c.
func (cpu *Backend) AddTensor(alpha float32, aDesc *device.TensorDescriptor, a []float32,
	beta float32, cDesc *device.TensorDescriptor, c []float32) error {

	aShape := aDesc.Shape()
	aStrides := aDesc.Strides()
	cStrides := cDesc.Strides()
	cVol := cDesc.Volume()

	parallel.For(cVol, func(start, end int) {
		for i := start; i < end; i++ {
			// Map the destination element onto the broadcast source:
			// extent-1 source dimensions pin coordinate 0.
			src := 0
			rem := i
			for d := range aShape {
				coord := rem / cStrides[d]
				rem %= cStrides[d]
				if aShape[d] != 1 {
					src += coord * aStrides[d]
				}
			}
			if beta == 0 {
				c[i] = alpha * a[src]
			} else {
				c[i] = alpha*a[src] + beta*c[i]
			}
		}
	}, cpu.cfg)

	return nil
}
