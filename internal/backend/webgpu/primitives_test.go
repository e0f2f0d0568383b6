package webgpu

import (
	"math"
	"testing"

	"github.com/axonml/axon/internal/backend/cpu"
	"github.com/axonml/axon/internal/device"
	"github.com/axonml/axon/internal/tensor"
)

func gpuBackend(t *testing.T) *Backend {
	t.Helper()
	backend, err := New()
	if err != nil {
		t.Skipf("WebGPU not available: %v", err)
	}
	t.Cleanup(backend.Release)
	return backend
}

// TestReduceTensorMatchesCPU checks GPU reductions against the CPU backend
// on the same inputs.
func TestReduceTensorMatchesCPU(t *testing.T) {
	gpu := gpuBackend(t)
	ref := cpu.New()

	tests := []struct {
		name string
		op   device.ReduceOp
		in   tensor.Shape
		out  tensor.Shape
	}{
		{"sum last dim", device.ReduceSum, tensor.Shape{4, 8}, tensor.Shape{4, 1}},
		{"sum first dim", device.ReduceSum, tensor.Shape{4, 8}, tensor.Shape{1, 8}},
		{"avg middle dim", device.ReduceAvg, tensor.Shape{3, 5, 2}, tensor.Shape{3, 1, 2}},
		{"sum all dims", device.ReduceSum, tensor.Shape{2, 3, 4}, tensor.Shape{1, 1, 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opDesc, err := device.NewReduceOpDescriptor(tt.op, tensor.Float32, device.PropagateNaN)
			if err != nil {
				t.Fatal(err)
			}
			aDesc, err := device.NewTensorDescriptor(tt.in, tensor.Float32)
			if err != nil {
				t.Fatal(err)
			}
			cDesc, err := device.NewTensorDescriptor(tt.out, tensor.Float32)
			if err != nil {
				t.Fatal(err)
			}

			a := make([]float32, aDesc.Volume())
			for i := range a {
				a[i] = float32(i%7) - 3
			}
			got := make([]float32, cDesc.Volume())
			want := make([]float32, cDesc.Volume())
			ws := make([]float32, cDesc.Volume())

			if err := gpu.ReduceTensor(nil, opDesc, 1, aDesc, a, 0, cDesc, got); err != nil {
				t.Fatal(err)
			}
			if err := ref.ReduceTensor(ws, opDesc, 1, aDesc, a, 0, cDesc, want); err != nil {
				t.Fatal(err)
			}

			for i := range want {
				if math.Abs(float64(got[i]-want[i])) > 1e-4 {
					t.Errorf("Element %d: GPU %v, CPU %v", i, got[i], want[i])
				}
			}
		})
	}
}

// TestAddTensorMatchesCPU checks the GPU broadcast-accumulate against the
// CPU backend.
func TestAddTensorMatchesCPU(t *testing.T) {
	gpu := gpuBackend(t)
	ref := cpu.New()

	srcDesc, err := device.NewTensorDescriptor(tensor.Shape{3, 1, 2}, tensor.Float32)
	if err != nil {
		t.Fatal(err)
	}
	dstDesc, err := device.NewTensorDescriptor(tensor.Shape{3, 5, 2}, tensor.Float32)
	if err != nil {
		t.Fatal(err)
	}

	src := make([]float32, srcDesc.Volume())
	for i := range src {
		src[i] = float32(i + 1)
	}
	got := make([]float32, dstDesc.Volume())
	want := make([]float32, dstDesc.Volume())
	for i := range got {
		got[i] = float32(i % 3)
		want[i] = float32(i % 3)
	}

	if err := gpu.AddTensor(0.25, srcDesc, src, 1, dstDesc, got); err != nil {
		t.Fatal(err)
	}
	if err := ref.AddTensor(0.25, srcDesc, src, 1, dstDesc, want); err != nil {
		t.Fatal(err)
	}

	for i := range want {
		if math.Abs(float64(got[i]-want[i])) > 1e-5 {
			t.Errorf("Element %d: GPU %v, CPU %v", i, got[i], want[i])
		}
	}
}
