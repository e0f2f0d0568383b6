package webgpu

// workgroupSize is the number of invocations per workgroup for 1D dispatches.
const workgroupSize = 64

// reduceShader collapses the dimensions whose extent is 1 in the output
// shape, one invocation per output element. Shape metadata is packed into
// the meta buffer: input strides [0, rank), output strides [rank, 2*rank),
// collapsed extents [2*rank, 2*rank+red_rank), collapsed input strides
// [2*rank+red_rank, 2*rank+2*red_rank).
//
// out = alpha * reduce(in) + beta * out; beta == 0 never reads out.
const reduceShader = `
struct Params {
    c_vol: u32,
    rank: u32,
    red_size: u32,
    red_rank: u32,
    alpha: f32,
    beta: f32,
    avg: u32,
    _pad: u32,
}

@group(0) @binding(0) var<storage, read> input: array<f32>;
@group(0) @binding(1) var<storage, read_write> output: array<f32>;
@group(0) @binding(2) var<storage, read> meta: array<u32>;
@group(0) @binding(3) var<uniform> params: Params;

@compute @workgroup_size(64)
fn main(@builtin(global_invocation_id) gid: vec3<u32>) {
    let o = gid.x;
    if (o >= params.c_vol) {
        return;
    }

    // Map the output element to its input base offset; collapsed
    // dimensions contribute coordinate 0.
    var base: u32 = 0u;
    var rem: u32 = o;
    for (var d: u32 = 0u; d < params.rank; d = d + 1u) {
        let c_stride = meta[params.rank + d];
        let coord = rem / c_stride;
        rem = rem % c_stride;
        base = base + coord * meta[d];
    }

    var sum: f32 = 0.0;
    for (var r: u32 = 0u; r < params.red_size; r = r + 1u) {
        var off: u32 = 0u;
        var rr: u32 = r;
        for (var j: i32 = i32(params.red_rank) - 1; j >= 0; j = j - 1) {
            let ext = meta[2u * params.rank + u32(j)];
            let stride = meta[2u * params.rank + params.red_rank + u32(j)];
            off = off + (rr % ext) * stride;
            rr = rr / ext;
        }
        sum = sum + input[base + off];
    }

    if (params.avg == 1u) {
        sum = sum / f32(params.red_size);
    }

    if (params.beta == 0.0) {
        output[o] = params.alpha * sum;
    } else {
        output[o] = params.alpha * sum + params.beta * output[o];
    }
}
`

// addBroadcastShader computes out = alpha * broadcast(src) + beta * out,
// one invocation per output element, broadcasting src along its extent-1
// dimensions. Meta layout: src extents [0, rank), src strides [rank,
// 2*rank), output strides [2*rank, 3*rank).
const addBroadcastShader = `
struct Params {
    c_vol: u32,
    rank: u32,
    alpha: f32,
    beta: f32,
}

@group(0) @binding(0) var<storage, read> src: array<f32>;
@group(0) @binding(1) var<storage, read_write> output: array<f32>;
@group(0) @binding(2) var<storage, read> meta: array<u32>;
@group(0) @binding(3) var<uniform> params: Params;

@compute @workgroup_size(64)
fn main(@builtin(global_invocation_id) gid: vec3<u32>) {
    let i = gid.x;
    if (i >= params.c_vol) {
        return;
    }

    // Extent-1 source dimensions pin coordinate 0.
    var s: u32 = 0u;
    var rem: u32 = i;
    for (var d: u32 = 0u; d < params.rank; d = d + 1u) {
        let c_stride = meta[2u * params.rank + d];
        let coord = rem / c_stride;
        rem = rem % c_stride;
        if (meta[d] != 1u) {
            s = s + coord * meta[params.rank + d];
        }
    }

    if (params.beta == 0.0) {
        output[i] = params.alpha * src[s];
    } else {
        output[i] = params.alpha * src[s] + params.beta * output[i];
    }
}
`
