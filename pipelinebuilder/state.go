// Package pipelinebuilder is the top-level orchestrator: given a set of
// features, a mesh format, and a render-target layout, it assembles struct
// layouts, WGSL source, and a compiled wgpu render pipeline, returning a
// CachedPipeline the caller owns and eventually releases.
package pipelinebuilder

import (
	"github.com/Carmen-Shannon/gfx-core/binding"
	"github.com/cogentcore/webgpu/wgpu"
)

// BuildState names one step of the linear build pipeline a CachedPipeline
// passes through. No backward transitions exist; any step may instead
// transition to Failed.
type BuildState int

const (
	Seeded BuildState = iota
	ParametersCollected
	EntryPointsCollected
	TexturesCollected
	IndexedBindingsState
	OptimizedLayouts
	LayoutsBuilt
	ShaderGenerated
	ShaderCompiled
	PipelineCreated
	Failed
)

func (s BuildState) String() string {
	switch s {
	case Seeded:
		return "Seeded"
	case ParametersCollected:
		return "ParametersCollected"
	case EntryPointsCollected:
		return "EntryPointsCollected"
	case TexturesCollected:
		return "TexturesCollected"
	case IndexedBindingsState:
		return "IndexedBindings"
	case OptimizedLayouts:
		return "OptimizedLayouts"
	case LayoutsBuilt:
		return "LayoutsBuilt"
	case ShaderGenerated:
		return "ShaderGenerated"
	case ShaderCompiled:
		return "ShaderCompiled"
	case PipelineCreated:
		return "PipelineCreated"
	case Failed:
		return "Failed"
	default:
		return "Unknown"
	}
}

// BuildPipelineOptions toggles caller-controlled behavior of one build.
type BuildPipelineOptions struct {
	// IgnoreDrawableFeatures is carried on the options but Build does not
	// read it: Build takes no per-drawable features, so every feature passed
	// to Build is used whether or not the flag is set.
	IgnoreDrawableFeatures bool
	// StrictEntryPointDependencies rejects entry points naming a Before/After
	// dependency on an entry point absent from the final set, instead of
	// silently ignoring it.
	StrictEntryPointDependencies bool
}

// CachedPipeline is the fully-resolved output of a build: the compiled wgpu
// render pipeline plus every device handle and layout needed to bind and
// draw with it. It owns every handle it holds; Release tears them down in
// reverse creation order.
type CachedPipeline struct {
	State State

	RenderPipeline    *wgpu.RenderPipeline
	PipelineLayout    *wgpu.PipelineLayout
	DrawBindGroupLayout *wgpu.BindGroupLayout
	ViewBindGroupLayout *wgpu.BindGroupLayout
	ShaderModule      *wgpu.ShaderModule

	Bindings binding.Layout

	BaseDrawParameters map[string]any
	BaseViewParameters map[string]any

	WGSLSource string

	CompilationError error
}

// State mirrors BuildState but is stored on the pipeline itself so a caller
// holding only a *CachedPipeline can inspect how far the build got.
type State = BuildState

// Release destroys every device handle this pipeline owns, in the reverse
// of the order they were created in: render pipeline, pipeline layout, view
// then draw bind group layout, then shader module. The cached pipeline
// record exclusively owns these handles and releases them on destruction.
func (p *CachedPipeline) Release() {
	if p.RenderPipeline != nil {
		p.RenderPipeline.Release()
		p.RenderPipeline = nil
	}
	if p.PipelineLayout != nil {
		p.PipelineLayout.Release()
		p.PipelineLayout = nil
	}
	if p.ViewBindGroupLayout != nil {
		p.ViewBindGroupLayout.Release()
		p.ViewBindGroupLayout = nil
	}
	if p.DrawBindGroupLayout != nil {
		p.DrawBindGroupLayout.Release()
		p.DrawBindGroupLayout = nil
	}
	if p.ShaderModule != nil {
		p.ShaderModule.Release()
		p.ShaderModule = nil
	}
}

// Failed reports whether the build recorded a CompilationError.
func (p *CachedPipeline) Failed() bool { return p.CompilationError != nil }
