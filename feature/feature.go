package feature

import (
	"github.com/Carmen-Shannon/gfx-core/binding"
	"github.com/Carmen-Shannon/gfx-core/shadergen"
	"github.com/Carmen-Shannon/gfx-core/typesystem"
)

// ParameterKind discriminates the three parameter shapes a Feature can
// expose: a numeric value read from the view or object buffer, a sampled
// texture, and a block-bound single resource.
type ParameterKind int

const (
	ParamNumeric ParameterKind = iota
	ParamTexture
	ParamBlock
)

// NumericParameter declares a named field a Feature reads from the view or
// object buffer, per Group (defaults to binding.Draw, the per-draw object
// buffer, when left unset).
type NumericParameter struct {
	Name  string
	Type  typesystem.NumType
	Group binding.BindGroupId
}

// TextureParameter declares a named texture binding a Feature requires.
type TextureParameter struct {
	Name string
	Type typesystem.TextureType
}

// BlockParameter declares a named single-resource buffer binding a Feature
// requires, distinct from the shared per-draw object buffer.
type BlockParameter struct {
	Name   string
	Layout typesystem.Type
	Space  typesystem.AddressSpace
	Group  binding.BindGroupId
}

// PipelineModifier is a callback a Feature may register to mutate the
// combined PipelineState directly, after the Feature's own State has been
// folded into it. It receives only that PipelineState; render target
// formats, multisample count and buffer dimensions are not reachable
// through it.
type PipelineModifier func(state *PipelineState)

// Feature is one composable unit of shader behavior: a set of declared
// parameters, shader entry points contributing to the final program, and
// optional fixed-function pipeline state overrides.
type Feature struct {
	ID                 Ref
	State              PipelineState
	ShaderParams       []NumericParameter
	TextureParams      []TextureParameter
	BlockParams        []BlockParameter
	ShaderEntryPoints  []shadergen.EntryPoint
	PipelineModifiers  []PipelineModifier
}

// NewFeature constructs an unregistered Feature. Call Registry.Register to
// obtain a stable Ref other code can resolve back to this instance without
// holding a raw pointer.
func NewFeature() *Feature {
	return &Feature{}
}

// Combine folds every feature's PipelineState together in slice order; the
// caller's ordering is the combine contract.
func Combine(features []*Feature) PipelineState {
	var result PipelineState
	for _, f := range features {
		result = result.Combine(f.State)
	}
	return result
}

// AllEntryPoints concatenates every feature's shader entry points in slice
// order, suitable as direct input to shadergen.SortEntryPoints.
func AllEntryPoints(features []*Feature) []shadergen.EntryPoint {
	var out []shadergen.EntryPoint
	for _, f := range features {
		out = append(out, f.ShaderEntryPoints...)
	}
	return out
}
