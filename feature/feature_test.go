package feature

import (
	"testing"

	"github.com/cogentcore/webgpu/wgpu"
)

func TestPipelineStateCombineIsRightBiased(t *testing.T) {
	a := CullModeState(wgpu.CullModeBack)
	b := DepthTest(true, true)
	combined := a.Combine(b)
	if combined.CullMode == nil || *combined.CullMode != wgpu.CullModeBack {
		t.Fatal("expected CullMode from a to survive")
	}
	if combined.DepthTestEnabled == nil || !*combined.DepthTestEnabled {
		t.Fatal("expected DepthTestEnabled from b to be applied")
	}
}

func TestPipelineStateCombineOverwritesOnConflict(t *testing.T) {
	a := CullModeState(wgpu.CullModeBack)
	b := CullModeState(wgpu.CullModeFront)
	combined := a.Combine(b)
	if *combined.CullMode != wgpu.CullModeFront {
		t.Fatalf("expected b's CullMode to win, got %v", *combined.CullMode)
	}
}

func TestPipelineStateCombineIdempotent(t *testing.T) {
	s := CullModeState(wgpu.CullModeBack).Combine(DepthTest(true, false))
	twice := s.Combine(s)
	if !twice.Equal(s) {
		t.Fatalf("combine is not idempotent: %+v vs %+v", twice, s)
	}
}

func TestCombineAppliesInSliceOrder(t *testing.T) {
	f1 := NewFeature()
	f1.State = CullModeState(wgpu.CullModeBack)
	f2 := NewFeature()
	f2.State = CullModeState(wgpu.CullModeFront)

	result := Combine([]*Feature{f1, f2})
	if *result.CullMode != wgpu.CullModeFront {
		t.Fatalf("expected later feature in the slice to win, got %v", *result.CullMode)
	}

	reversed := Combine([]*Feature{f2, f1})
	if *reversed.CullMode != wgpu.CullModeBack {
		t.Fatalf("expected order-dependence to flip when the slice is reversed, got %v", *reversed.CullMode)
	}
}

func TestRegistryResolvesRegisteredFeature(t *testing.T) {
	reg := NewRegistry()
	f := NewFeature()
	ref := reg.Register(f)
	resolved, ok := reg.Resolve(ref)
	if !ok || resolved != f {
		t.Fatal("expected Resolve to return the registered feature")
	}
}

func TestRegistryForgetInvalidatesRef(t *testing.T) {
	reg := NewRegistry()
	f := NewFeature()
	ref := reg.Register(f)
	reg.Forget(ref)
	if _, ok := reg.Resolve(ref); ok {
		t.Fatal("expected Resolve to fail after Forget")
	}
}

func TestRegistryZeroRefIsAlwaysInvalid(t *testing.T) {
	reg := NewRegistry()
	if _, ok := reg.Resolve(Ref{}); ok {
		t.Fatal("zero Ref must never resolve")
	}
}
