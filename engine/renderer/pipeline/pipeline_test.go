package pipeline

import (
	"testing"

	"github.com/Carmen-Shannon/gfx-core/feature"
	"github.com/Carmen-Shannon/gfx-core/pipelinebuilder"
	"github.com/cogentcore/webgpu/wgpu"
)

func TestNewFromCachedPipelineDefaultsWhenStateUnset(t *testing.T) {
	p := NewFromCachedPipeline("key", &pipelinebuilder.CachedPipeline{}, feature.PipelineState{})
	if p.CullMode() != wgpu.CullModeNone {
		t.Errorf("expected default cull mode None, got %v", p.CullMode())
	}
	if !p.DepthTestEnabled() || !p.DepthWriteEnabled() {
		t.Error("expected depth test and write enabled by default")
	}
	if p.BlendEnabled() {
		t.Error("expected blending disabled when no BlendState was set")
	}
}

func TestNewFromCachedPipelineAppliesFeatureState(t *testing.T) {
	cullBack := wgpu.CullModeBack
	noWrite := false
	state := feature.PipelineState{
		CullMode:          &cullBack,
		DepthWriteEnabled: &noWrite,
		BlendState:        &wgpu.BlendState{},
	}
	p := NewFromCachedPipeline("key", &pipelinebuilder.CachedPipeline{}, state)
	if p.CullMode() != wgpu.CullModeBack {
		t.Errorf("expected cull mode Back, got %v", p.CullMode())
	}
	if p.DepthWriteEnabled() {
		t.Error("expected depth write disabled")
	}
	if !p.BlendEnabled() {
		t.Error("expected blending enabled once a BlendState is set")
	}
}

func TestNewFromCachedPipelineExposesWGSLSource(t *testing.T) {
	cached := &pipelinebuilder.CachedPipeline{WGSLSource: "fn vertex_main() {}"}
	p := NewFromCachedPipeline("key", cached, feature.PipelineState{})
	if p.WGSLSource() != cached.WGSLSource {
		t.Errorf("WGSLSource() = %q, want %q", p.WGSLSource(), cached.WGSLSource)
	}
	if p.RenderPipeline() != cached.RenderPipeline {
		t.Error("RenderPipeline() did not round-trip the cached pipeline's device handle")
	}
}

func TestPipelineOptionsOverrideFoldedState(t *testing.T) {
	blend := &wgpu.BlendState{}
	state := feature.PipelineState{BlendState: blend}
	p := NewFromCachedPipeline("key", &pipelinebuilder.CachedPipeline{}, state,
		WithBlendDisabled(),
		WithDepthBias(4, 0.5),
		WithWriteMask(wgpu.ColorWriteMaskRed),
	)
	if p.BlendEnabled() {
		t.Error("expected WithBlendDisabled to override the folded BlendState")
	}
	if p.BlendState() != blend {
		t.Error("expected WithBlendDisabled to leave BlendState itself intact")
	}
	if p.DepthBias() != 4 || p.DepthBiasSlopeScale() != 0.5 {
		t.Errorf("expected overridden depth bias (4, 0.5), got (%d, %f)", p.DepthBias(), p.DepthBiasSlopeScale())
	}
	if p.WriteMask() != wgpu.ColorWriteMaskRed {
		t.Errorf("expected overridden write mask Red, got %v", p.WriteMask())
	}
}
