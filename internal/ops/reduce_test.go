package ops

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/axonml/axon/internal/backend/cpu"
	"github.com/axonml/axon/internal/device"
	"github.com/axonml/axon/internal/tensor"
)

func newHandle(t *testing.T) (*device.Handle, *device.Stream) {
	t.Helper()
	h := device.NewHandle(cpu.New())
	s := device.NewStream()
	t.Cleanup(func() {
		s.Close()
		h.Close()
	})
	return h, s
}

func constant(n int, v float32) []float32 {
	buf := make([]float32, n)
	for i := range buf {
		buf[i] = v
	}
	return buf
}

func TestNewReduceDescriptorShapes(t *testing.T) {
	tests := []struct {
		name     string
		input    tensor.Shape
		axes     []int
		wantOut  tensor.Shape
		wantSize int
	}{
		{"last axis", tensor.Shape{2, 3, 4}, []int{2}, tensor.Shape{2, 3, 1}, 4},
		{"first axis", tensor.Shape{2, 3, 4}, []int{0}, tensor.Shape{1, 3, 4}, 2},
		{"two axes", tensor.Shape{2, 3, 4}, []int{0, 2}, tensor.Shape{1, 3, 1}, 8},
		{"all axes", tensor.Shape{2, 3, 4}, []int{0, 1, 2}, tensor.Shape{1, 1, 1}, 24},
		{"no axes", tensor.Shape{5}, nil, tensor.Shape{5}, 1},
		{"rank 1", tensor.Shape{7}, []int{0}, tensor.Shape{1}, 7},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := NewReduceDescriptor(ReduceConfig{Kind: ReduceSum, Axes: tt.axes}, tt.input)
			require.NoError(t, err)
			defer d.Destroy()

			assert.True(t, d.OutputShape().Equal(tt.wantOut),
				"output shape %v, want %v", d.OutputShape(), tt.wantOut)
			assert.Equal(t, tt.wantSize, d.ReductionSize())
			assert.Equal(t, tt.input.NumElements(),
				d.ReductionSize()*d.OutputShape().NumElements(),
				"input volume must equal reduction size times output volume")
		})
	}
}

func TestNewReduceDescriptorRejectsBadConfig(t *testing.T) {
	_, err := NewReduceDescriptor(ReduceConfig{Kind: ReduceSum, Axes: []int{3}}, tensor.Shape{2, 3})
	assert.Error(t, err, "axis out of range")

	_, err = NewReduceDescriptor(ReduceConfig{Kind: ReduceSum, Axes: []int{0, 0}}, tensor.Shape{2, 3})
	assert.Error(t, err, "duplicate axis")

	_, err = NewReduceDescriptor(ReduceConfig{Kind: ReduceKind(42), Axes: []int{0}}, tensor.Shape{2, 3})
	assert.Error(t, err, "unsupported kind")

	_, err = NewReduceDescriptor(ReduceConfig{Kind: ReduceSum, Axes: nil}, tensor.Shape{})
	assert.Error(t, err, "rank-0 input")
}

func TestReduceForwardSumConstant(t *testing.T) {
	h, s := newHandle(t)

	d, err := NewReduceDescriptor(ReduceConfig{Kind: ReduceSum, Axes: []int{1, 2}}, tensor.Shape{3, 4, 5})
	require.NoError(t, err)
	defer d.Destroy()

	const v = 1.5
	input := constant(60, v)
	output := make([]float32, 3)

	require.NoError(t, ReduceForward(h, s, d, input, output))
	require.NoError(t, s.Synchronize())

	for i, got := range output {
		assert.InDelta(t, v*float32(d.ReductionSize()), got, 1e-5, "output[%d]", i)
	}
}

func TestReduceForwardMeanConstant(t *testing.T) {
	h, s := newHandle(t)

	d, err := NewReduceDescriptor(ReduceConfig{Kind: ReduceMean, Axes: []int{0, 2}}, tensor.Shape{3, 4, 5})
	require.NoError(t, err)
	defer d.Destroy()

	const v = -2.25
	input := constant(60, v)
	output := make([]float32, 4)

	require.NoError(t, ReduceForward(h, s, d, input, output))
	require.NoError(t, s.Synchronize())

	// The mean of equal elements is the element itself.
	for i, got := range output {
		assert.InDelta(t, v, got, 1e-5, "output[%d]", i)
	}
}

func TestReduceForwardOverwritesOutput(t *testing.T) {
	h, s := newHandle(t)

	d, err := NewReduceDescriptor(ReduceConfig{Kind: ReduceSum, Axes: []int{1}}, tensor.Shape{2, 3})
	require.NoError(t, err)
	defer d.Destroy()

	input := []float32{1, 2, 3, 4, 5, 6}
	output := []float32{100, 200} // stale contents must not accumulate

	require.NoError(t, ReduceForward(h, s, d, input, output))
	require.NoError(t, s.Synchronize())

	assert.Equal(t, []float32{6, 15}, output)
}

func TestReduceBackwardSum(t *testing.T) {
	h, s := newHandle(t)

	d, err := NewReduceDescriptor(ReduceConfig{Kind: ReduceSum, Axes: []int{1}}, tensor.Shape{2, 4})
	require.NoError(t, err)
	defer d.Destroy()

	const g = 3.0
	outputGrad := constant(2, g)
	inputGrad := make([]float32, 8)

	require.NoError(t, ReduceBackward(h, s, d, outputGrad, inputGrad))
	require.NoError(t, s.Synchronize())

	for i, got := range inputGrad {
		assert.InDelta(t, g, got, 1e-6, "inputGrad[%d]", i)
	}
}

func TestReduceBackwardMean(t *testing.T) {
	h, s := newHandle(t)

	d, err := NewReduceDescriptor(ReduceConfig{Kind: ReduceMean, Axes: []int{0, 1}}, tensor.Shape{2, 4})
	require.NoError(t, err)
	defer d.Destroy()

	const g = 8.0
	outputGrad := constant(1, g)
	inputGrad := make([]float32, 8)

	require.NoError(t, ReduceBackward(h, s, d, outputGrad, inputGrad))
	require.NoError(t, s.Synchronize())

	want := float32(g) / float32(d.ReductionSize())
	for i, got := range inputGrad {
		assert.InDelta(t, want, got, 1e-6, "inputGrad[%d]", i)
	}
}

func TestReduceBackwardAccumulates(t *testing.T) {
	h, s := newHandle(t)

	d, err := NewReduceDescriptor(ReduceConfig{Kind: ReduceSum, Axes: []int{0}}, tensor.Shape{4, 2})
	require.NoError(t, err)
	defer d.Destroy()

	outputGrad := []float32{1, 2}
	inputGrad := constant(8, 10) // prior contributions from another consumer

	require.NoError(t, ReduceBackward(h, s, d, outputGrad, inputGrad))
	require.NoError(t, ReduceBackward(h, s, d, outputGrad, inputGrad))
	require.NoError(t, s.Synchronize())

	// Two backward passes add the broadcast gradient twice on top of the
	// prior contents.
	for i, got := range inputGrad {
		want := float32(10 + 2*(1+i%2))
		assert.InDelta(t, want, got, 1e-6, "inputGrad[%d]", i)
	}
}

func TestReduceForwardNaNPropagation(t *testing.T) {
	for _, kind := range []ReduceKind{ReduceSum, ReduceMean} {
		h, s := newHandle(t)

		d, err := NewReduceDescriptor(ReduceConfig{Kind: kind, Axes: []int{1}}, tensor.Shape{2, 3})
		require.NoError(t, err)
		defer d.Destroy()

		input := []float32{1, float32(math.NaN()), 3, 4, 5, 6}
		output := make([]float32, 2)

		require.NoError(t, ReduceForward(h, s, d, input, output))
		require.NoError(t, s.Synchronize())

		assert.True(t, math.IsNaN(float64(output[0])), "%s: NaN not propagated", kind)
		assert.False(t, math.IsNaN(float64(output[1])), "%s: NaN leaked into clean group", kind)
	}
}

func TestReduceFullAxisRoundTrip(t *testing.T) {
	h, s := newHandle(t)

	in := tensor.Shape{2, 3, 4}
	d, err := NewReduceDescriptor(ReduceConfig{Kind: ReduceSum, Axes: []int{0, 1, 2}}, in)
	require.NoError(t, err)
	defer d.Destroy()

	assert.Equal(t, 1, d.OutputShape().NumElements())
	assert.Equal(t, in.NumElements(), d.ReductionSize())

	input := make([]float32, 24)
	for i := range input {
		input[i] = float32(i + 1)
	}
	output := make([]float32, 1)

	require.NoError(t, ReduceForward(h, s, d, input, output))
	require.NoError(t, s.Synchronize())
	assert.InDelta(t, 300, output[0], 1e-4)
}

func TestReduceForwardBackwardGradientShape(t *testing.T) {
	// Non-constant data: check exact sums and the matching gradient
	// scatter for a middle-axis reduction.
	h, s := newHandle(t)

	d, err := NewReduceDescriptor(ReduceConfig{Kind: ReduceSum, Axes: []int{1}}, tensor.Shape{2, 3, 2})
	require.NoError(t, err)
	defer d.Destroy()

	input := []float32{
		1, 2, 3, 4, 5, 6, // block 0: rows (1,2) (3,4) (5,6)
		7, 8, 9, 10, 11, 12, // block 1
	}
	output := make([]float32, 4)

	require.NoError(t, ReduceForward(h, s, d, input, output))
	require.NoError(t, s.Synchronize())
	assert.Equal(t, []float32{9, 12, 27, 30}, output)

	outputGrad := []float32{1, 2, 3, 4}
	inputGrad := make([]float32, 12)
	require.NoError(t, ReduceBackward(h, s, d, outputGrad, inputGrad))
	require.NoError(t, s.Synchronize())
	assert.Equal(t, []float32{1, 2, 1, 2, 1, 2, 3, 4, 3, 4, 3, 4}, inputGrad)
}

func TestReduceBackwardUnknownKindPanics(t *testing.T) {
	h, s := newHandle(t)

	d, err := NewReduceDescriptor(ReduceConfig{Kind: ReduceSum, Axes: []int{0}}, tensor.Shape{2})
	require.NoError(t, err)
	defer d.Destroy()
	d.kind = ReduceKind(42) // simulate a corrupted operator contract

	assert.Panics(t, func() {
		_ = ReduceBackward(h, s, d, []float32{1}, make([]float32, 2))
	})
}
