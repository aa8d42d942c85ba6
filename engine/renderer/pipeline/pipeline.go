package pipeline

import (
	"github.com/Carmen-Shannon/gfx-core/feature"
	"github.com/Carmen-Shannon/gfx-core/pipelinebuilder"
	"github.com/cogentcore/webgpu/wgpu"
)

// pipeline is the implementation of the Pipeline interface. It wraps a
// device render pipeline produced by pipelinebuilder.Build together with
// the fixed-function state folded from every feature that contributed to
// the build (spec's render pipeline compilation core has no compute
// pipeline concept — see SPEC_FULL.md's Non-goals).
type pipeline struct {
	// pipelineKey is the unique identifier for this pipeline, used for caching and lookups
	pipelineKey string

	// renderPipeline is the device render pipeline this wraps
	renderPipeline *wgpu.RenderPipeline
	// wgslSource is the generated WGSL this pipeline's shader module was compiled from, kept for debugging
	wgslSource string

	// The following properties are folded from the combined feature.PipelineState during NewFromCachedPipeline.

	depthTestEnabled    bool
	depthWriteEnabled   bool
	depthBias           int32
	depthBiasSlopeScale float32
	blendEnabled        bool
	cullMode            wgpu.CullMode
	topology            wgpu.PrimitiveTopology
	frontFace           wgpu.FrontFace
	writeMask           wgpu.ColorWriteMask
	blendState          *wgpu.BlendState
}

// Pipeline defines the interface for a compiled render pipeline, encapsulating
// the device pipeline object and the fixed-function state (depth, blend, cull,
// topology) folded together from the features that built it.
type Pipeline interface {
	// PipelineKey returns the unique key associated with this pipeline, used for caching and lookups.
	//
	// Returns:
	//   - string: the unique key for this pipeline
	PipelineKey() string

	// RenderPipeline returns the underlying device render pipeline.
	//
	// Returns:
	//   - *wgpu.RenderPipeline: the device render pipeline
	RenderPipeline() *wgpu.RenderPipeline

	// WGSLSource returns the WGSL text this pipeline's shader module was compiled
	// from, for diagnostics and caching by source.
	//
	// Returns:
	//   - string: the generated WGSL source
	WGSLSource() string

	// DepthTestEnabled returns whether depth testing is enabled for this pipeline.
	//
	// Returns:
	//   - bool: true if depth testing is enabled, false otherwise
	DepthTestEnabled() bool

	// DepthWriteEnabled returns whether depth writing is enabled for this pipeline.
	//
	// Returns:
	//   - bool: true if depth writing is enabled, false otherwise
	DepthWriteEnabled() bool

	// DepthBias returns the depth bias value configured for this pipeline.
	//
	// Returns:
	//   - int32: the depth bias value for this pipeline
	DepthBias() int32

	// DepthBiasSlopeScale returns the depth bias slope scale configured for this pipeline.
	//
	// Returns:
	//   - float32: the depth bias slope scale for this pipeline
	DepthBiasSlopeScale() float32

	// BlendEnabled returns whether blending is enabled for this pipeline.
	//
	// Returns:
	//   - bool: true if blending is enabled, false otherwise
	BlendEnabled() bool

	// CullMode returns the cull mode configured for this pipeline.
	//
	// Returns:
	//   - wgpu.CullMode: the cull mode for this pipeline (e.g., wgpu.CullModeNone, wgpu.CullModeFront, wgpu.CullModeBack)
	CullMode() wgpu.CullMode

	// Topology returns the primitive topology configured for this pipeline.
	//
	// Returns:
	//   - wgpu.PrimitiveTopology: the primitive topology for this pipeline (e.g., wgpu.PrimitiveTopologyTriangleList)
	Topology() wgpu.PrimitiveTopology

	// FrontFace returns the front face winding order configured for this pipeline.
	//
	// Returns:
	//   - wgpu.FrontFace: the front face winding order for this pipeline (e.g., wgpu.FrontFaceCCW, wgpu.FrontFaceCW)
	FrontFace() wgpu.FrontFace

	// WriteMask returns the color write mask configured for this pipeline.
	//
	// Returns:
	//   - wgpu.ColorWriteMask: the color write mask for this pipeline (e.g., wgpu.ColorWriteMaskAll)
	WriteMask() wgpu.ColorWriteMask

	// BlendState returns the blend state configured for this pipeline.
	//
	// Returns:
	//   - *wgpu.BlendState: the blend state from the combined feature state, or nil if none set one;
	//     WithBlendDisabled leaves it in place, so it can be non-nil while BlendEnabled reports false
	BlendState() *wgpu.BlendState

	// SetRenderPipeline replaces the device render pipeline this wraps.
	//
	// Parameters:
	//   - p: the WebGPU render pipeline to set
	SetRenderPipeline(p *wgpu.RenderPipeline)
}

var _ Pipeline = &pipeline{}

// NewFromCachedPipeline wraps a pipelinebuilder.CachedPipeline — already
// compiled against a combined vertex+fragment shader module — into a
// Pipeline, copying the fixed-function state folded from every feature's
// PipelineState during the build, then applying opts. cached must not be
// Failed(); callers inspect CachedPipeline.CompilationError before reaching
// here.
//
// Parameters:
//   - pipelineKey: the unique key for this pipeline
//   - cached: the compiled pipeline produced by pipelinebuilder.Build
//   - state: the combined fixed-function state the build folded together
//   - opts: overrides applied after state is folded in
//
// Returns:
//   - Pipeline: a render pipeline wrapping cached's device handle
func NewFromCachedPipeline(pipelineKey string, cached *pipelinebuilder.CachedPipeline, state feature.PipelineState, opts ...PipelineOption) Pipeline {
	p := &pipeline{
		pipelineKey:       pipelineKey,
		depthTestEnabled:  true,
		depthWriteEnabled: true,
		cullMode:          wgpu.CullModeNone,
		topology:          wgpu.PrimitiveTopologyTriangleList,
		frontFace:         wgpu.FrontFaceCCW,
		writeMask:         wgpu.ColorWriteMaskAll,
	}
	if state.CullMode != nil {
		p.cullMode = *state.CullMode
	}
	if state.Topology != nil {
		p.topology = *state.Topology
	}
	if state.FrontFace != nil {
		p.frontFace = *state.FrontFace
	}
	if state.WriteMask != nil {
		p.writeMask = *state.WriteMask
	}
	if state.DepthTestEnabled != nil {
		p.depthTestEnabled = *state.DepthTestEnabled
	}
	if state.DepthWriteEnabled != nil {
		p.depthWriteEnabled = *state.DepthWriteEnabled
	}
	if state.DepthBias != nil {
		p.depthBias = *state.DepthBias
	}
	if state.DepthBiasSlopeScale != nil {
		p.depthBiasSlopeScale = *state.DepthBiasSlopeScale
	}
	if state.BlendState != nil {
		p.blendState = state.BlendState
		p.blendEnabled = true
	}
	p.renderPipeline = cached.RenderPipeline
	p.wgslSource = cached.WGSLSource
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *pipeline) PipelineKey() string {
	return p.pipelineKey
}

func (p *pipeline) RenderPipeline() *wgpu.RenderPipeline {
	return p.renderPipeline
}

func (p *pipeline) WGSLSource() string {
	return p.wgslSource
}

func (p *pipeline) DepthTestEnabled() bool {
	return p.depthTestEnabled
}

func (p *pipeline) DepthWriteEnabled() bool {
	return p.depthWriteEnabled
}

func (p *pipeline) DepthBias() int32 {
	return p.depthBias
}

func (p *pipeline) DepthBiasSlopeScale() float32 {
	return p.depthBiasSlopeScale
}

func (p *pipeline) BlendEnabled() bool {
	return p.blendEnabled
}

func (p *pipeline) CullMode() wgpu.CullMode {
	return p.cullMode
}

func (p *pipeline) Topology() wgpu.PrimitiveTopology {
	return p.topology
}

func (p *pipeline) FrontFace() wgpu.FrontFace {
	return p.frontFace
}

func (p *pipeline) WriteMask() wgpu.ColorWriteMask {
	return p.writeMask
}

func (p *pipeline) BlendState() *wgpu.BlendState {
	return p.blendState
}

func (p *pipeline) SetRenderPipeline(rp *wgpu.RenderPipeline) {
	p.renderPipeline = rp
}
