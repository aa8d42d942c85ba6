// Package feature implements composable render features: named parameter
// sets, shader entry points, and fixed-function pipeline state overrides
// that a pipeline builder folds together when assembling a CachedPipeline.
package feature

import "github.com/cogentcore/webgpu/wgpu"

// PipelineState is a set of optional fixed-function pipeline state
// overrides a Feature may contribute. Every field is a pointer so "unset"
// is distinguishable from "set to the zero value", which Combine relies on.
type PipelineState struct {
	CullMode            *wgpu.CullMode
	Topology            *wgpu.PrimitiveTopology
	FrontFace           *wgpu.FrontFace
	WriteMask           *wgpu.ColorWriteMask
	BlendState          *wgpu.BlendState
	DepthTestEnabled    *bool
	DepthWriteEnabled   *bool
	DepthBias           *int32
	DepthBiasSlopeScale *float32
}

// Combine folds other onto the receiver, keeping the receiver's value for
// any field other leaves unset and overwriting with other's value for any
// field other sets: a right-biased fold where A.Combine(B) keeps A's set
// fields and overwrites with B's set fields. Combine is idempotent:
// s.Combine(s) always equals s.
func (s PipelineState) Combine(other PipelineState) PipelineState {
	result := s
	if other.CullMode != nil {
		result.CullMode = other.CullMode
	}
	if other.Topology != nil {
		result.Topology = other.Topology
	}
	if other.FrontFace != nil {
		result.FrontFace = other.FrontFace
	}
	if other.WriteMask != nil {
		result.WriteMask = other.WriteMask
	}
	if other.BlendState != nil {
		result.BlendState = other.BlendState
	}
	if other.DepthTestEnabled != nil {
		result.DepthTestEnabled = other.DepthTestEnabled
	}
	if other.DepthWriteEnabled != nil {
		result.DepthWriteEnabled = other.DepthWriteEnabled
	}
	if other.DepthBias != nil {
		result.DepthBias = other.DepthBias
	}
	if other.DepthBiasSlopeScale != nil {
		result.DepthBiasSlopeScale = other.DepthBiasSlopeScale
	}
	return result
}

// Equal reports whether two PipelineStates have identical set/unset fields
// and, where set, identical values.
func (s PipelineState) Equal(other PipelineState) bool {
	return equalPtr(s.CullMode, other.CullMode) &&
		equalPtr(s.Topology, other.Topology) &&
		equalPtr(s.FrontFace, other.FrontFace) &&
		equalPtr(s.WriteMask, other.WriteMask) &&
		equalBlendState(s.BlendState, other.BlendState) &&
		equalPtr(s.DepthTestEnabled, other.DepthTestEnabled) &&
		equalPtr(s.DepthWriteEnabled, other.DepthWriteEnabled) &&
		equalPtr(s.DepthBias, other.DepthBias) &&
		equalPtr(s.DepthBiasSlopeScale, other.DepthBiasSlopeScale)
}

func equalPtr[T comparable](a, b *T) bool {
	if (a == nil) != (b == nil) {
		return false
	}
	if a == nil {
		return true
	}
	return *a == *b
}

func equalBlendState(a, b *wgpu.BlendState) bool {
	if (a == nil) != (b == nil) {
		return false
	}
	if a == nil {
		return true
	}
	return *a == *b
}

// CullModeState returns a PipelineState with only CullMode set.
func CullModeState(m wgpu.CullMode) PipelineState { return PipelineState{CullMode: &m} }

// BlendStateState returns a PipelineState with only BlendState set.
func BlendStateState(b wgpu.BlendState) PipelineState { return PipelineState{BlendState: &b} }

// DepthTest returns a PipelineState with only DepthTestEnabled/DepthWriteEnabled set.
func DepthTest(test, write bool) PipelineState {
	return PipelineState{DepthTestEnabled: &test, DepthWriteEnabled: &write}
}
