package webgpu

import (
	"encoding/binary"
	"math"

	"github.com/go-webgpu/webgpu/wgpu"
	"github.com/pkg/errors"

	"github.com/axonml/axon/internal/device"
)

// ReduceTensor computes c = alpha*reduce(a) + beta*c on the GPU, one shader
// invocation per output element. The host-side workspace is unused here;
// staging happens in device memory.
func (b *Backend) ReduceTensor(_ []float32, opDesc *device.ReduceOpDescriptor,
	alpha float32, aDesc *device.TensorDescriptor, a []float32,
	beta float32, cDesc *device.TensorDescriptor, c []float32) error {

	aShape := aDesc.Shape()
	cShape := cDesc.Shape()
	aStrides := aDesc.Strides()
	cStrides := cDesc.Strides()
	rank := len(aShape)
	cVol := cDesc.Volume()

	// Pack shape metadata: input strides, output strides, then extents and
	// input strides of the collapsed dimensions.
	meta := make([]uint32, 0, 4*rank)
	for _, s := range aStrides {
		meta = append(meta, uint32(s))
	}
	for _, s := range cStrides {
		meta = append(meta, uint32(s))
	}
	redSize := 1
	redRank := 0
	for d := range aShape {
		if cShape[d] == 1 && aShape[d] > 1 {
			meta = append(meta, uint32(aShape[d]))
			redSize *= aShape[d]
			redRank++
		}
	}
	for d := range aShape {
		if cShape[d] == 1 && aShape[d] > 1 {
			meta = append(meta, uint32(aStrides[d]))
		}
	}

	avg := uint32(0)
	if opDesc.Op() == device.ReduceAvg {
		avg = 1
	}

	params := make([]byte, 32)
	binary.LittleEndian.PutUint32(params[0:4], uint32(cVol))
	binary.LittleEndian.PutUint32(params[4:8], uint32(rank))
	binary.LittleEndian.PutUint32(params[8:12], uint32(redSize))
	binary.LittleEndian.PutUint32(params[12:16], uint32(redRank))
	binary.LittleEndian.PutUint32(params[16:20], math.Float32bits(alpha))
	binary.LittleEndian.PutUint32(params[20:24], math.Float32bits(beta))
	binary.LittleEndian.PutUint32(params[24:28], avg)

	return b.runReduceStyleOp("reduce", reduceShader,
		a[:aDesc.Volume()], c[:cVol], meta, params)
}

// AddTensor computes c = alpha*broadcast(a) + beta*c on the GPU,
// broadcasting a along its extent-1 dimensions.
func (b *Backend) AddTensor(alpha float32, aDesc *device.TensorDescriptor, a []float32,
	beta float32, cDesc *device.TensorDescriptor, c []float32) error {

	aShape := aDesc.Shape()
	aStrides := aDesc.Strides()
	cStrides := cDesc.Strides()
	rank := len(aShape)
	cVol := cDesc.Volume()

	// Pack shape metadata: source extents, source strides, output strides.
	meta := make([]uint32, 0, 3*rank)
	for _, e := range aShape {
		meta = append(meta, uint32(e))
	}
	for _, s := range aStrides {
		meta = append(meta, uint32(s))
	}
	for _, s := range cStrides {
		meta = append(meta, uint32(s))
	}

	params := make([]byte, 16)
	binary.LittleEndian.PutUint32(params[0:4], uint32(cVol))
	binary.LittleEndian.PutUint32(params[4:8], uint32(rank))
	binary.LittleEndian.PutUint32(params[8:12], math.Float32bits(alpha))
	binary.LittleEndian.PutUint32(params[12:16], math.Float32bits(beta))

	return b.runReduceStyleOp("add_broadcast", addBroadcastShader,
		a[:aDesc.Volume()], c[:cVol], meta, params)
}

// runReduceStyleOp dispatches a shader with the (src, dst, meta, params)
// binding layout shared by the reduction and broadcast-add kernels, and
// reads the result back into dst. dst's prior contents are uploaded so the
// shader's beta path can blend with them.
func (b *Backend) runReduceStyleOp(name, code string, src, dst []float32,
	meta []uint32, params []byte) error {

	shader := b.compileShader(name, code)
	pipeline := b.getOrCreatePipeline(name, shader)

	bufferSrc := b.createBuffer(float32Bytes(src), wgpu.BufferUsageStorage|wgpu.BufferUsageCopySrc)
	defer bufferSrc.Release()

	dstSize := uint64(len(dst) * 4)
	bufferDst := b.createBuffer(float32Bytes(dst),
		wgpu.BufferUsageStorage|wgpu.BufferUsageCopySrc|wgpu.BufferUsageCopyDst)
	defer bufferDst.Release()

	bufferMeta := b.createBuffer(uint32Bytes(meta), wgpu.BufferUsageStorage)
	defer bufferMeta.Release()

	bufferParams := b.createUniformBuffer(params)
	defer bufferParams.Release()

	bindGroupLayout := pipeline.GetBindGroupLayout(0)
	bindGroup := b.device.CreateBindGroupSimple(bindGroupLayout, []wgpu.BindGroupEntry{
		wgpu.BufferBindingEntry(0, bufferSrc, 0, uint64(len(src)*4)),
		wgpu.BufferBindingEntry(1, bufferDst, 0, dstSize),
		wgpu.BufferBindingEntry(2, bufferMeta, 0, uint64(len(meta)*4)),
		wgpu.BufferBindingEntry(3, bufferParams, 0, uint64((len(params)+15)&^15)),
	})
	defer bindGroup.Release()

	encoder := b.device.CreateCommandEncoder(nil)
	computePass := encoder.BeginComputePass(nil)

	computePass.SetPipeline(pipeline)
	computePass.SetBindGroup(0, bindGroup, nil)

	//nolint:gosec // G115: workgroup count is non-negative
	workgroups := uint32((len(dst) + workgroupSize - 1) / workgroupSize)
	computePass.DispatchWorkgroups(workgroups, 1, 1)
	computePass.End()

	cmdBuffer := encoder.Finish(nil)
	b.queue.Submit(cmdBuffer)

	resultData, err := b.readBuffer(bufferDst, dstSize)
	if err != nil {
		return errors.Wrapf(err, "webgpu: %s readback", name)
	}

	copy(float32Bytes(dst), resultData)
	return nil
}
