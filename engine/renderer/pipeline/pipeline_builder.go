package pipeline

import "github.com/cogentcore/webgpu/wgpu"

// PipelineOption customizes a Pipeline after NewFromCachedPipeline has
// folded its combined feature.PipelineState in, for overrides that don't
// belong on any single feature (debug tooling, per-call tweaks the feature
// set itself shouldn't need to know about).
type PipelineOption func(*pipeline)

// WithBlendDisabled forces blending off regardless of what the combined
// feature state set, leaving BlendState itself untouched so it can still be
// inspected.
//
// Returns:
//   - PipelineOption: a function that disables blending for this pipeline
func WithBlendDisabled() PipelineOption {
	return func(p *pipeline) {
		p.blendEnabled = false
	}
}

// WithDepthBias overrides the depth bias pair independently of any
// feature's PipelineState.DepthBias/DepthBiasSlopeScale.
//
// Parameters:
//   - bias: the constant depth bias to apply
//   - slopeScale: the slope scale depth bias to apply
//
// Returns:
//   - PipelineOption: a function that overrides the depth bias for this pipeline
func WithDepthBias(bias int32, slopeScale float32) PipelineOption {
	return func(p *pipeline) {
		p.depthBias = bias
		p.depthBiasSlopeScale = slopeScale
	}
}

// WithWriteMask overrides the color write mask independently of any
// feature's PipelineState.WriteMask.
//
// Parameters:
//   - writeMask: the color write mask to use for this pipeline (e.g., wgpu.ColorWriteMaskAll, wgpu.ColorWriteMaskRed, wgpu.ColorWriteMaskGreen, wgpu.ColorWriteMaskBlue, wgpu.ColorWriteMaskAlpha)
//
// Returns:
//   - PipelineOption: a function that overrides the color write mask for this pipeline
func WithWriteMask(writeMask wgpu.ColorWriteMask) PipelineOption {
	return func(p *pipeline) {
		p.writeMask = writeMask
	}
}
