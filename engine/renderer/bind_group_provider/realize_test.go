package bind_group_provider

import (
	"testing"

	"github.com/Carmen-Shannon/gfx-core/binding"
	"github.com/Carmen-Shannon/gfx-core/typesystem"
	"github.com/cogentcore/webgpu/wgpu"
)

func TestBufferTypeAndUsageMapsAddressSpace(t *testing.T) {
	cases := []struct {
		space     typesystem.AddressSpace
		wantType  wgpu.BufferBindingType
		wantUsage wgpu.BufferUsage
	}{
		{typesystem.Uniform, wgpu.BufferBindingTypeUniform, wgpu.BufferUsageUniform | wgpu.BufferUsageCopyDst},
		{typesystem.Storage, wgpu.BufferBindingTypeReadOnlyStorage, wgpu.BufferUsageStorage | wgpu.BufferUsageCopyDst},
		{typesystem.StorageRW, wgpu.BufferBindingTypeStorage, wgpu.BufferUsageStorage | wgpu.BufferUsageCopyDst},
	}
	for _, c := range cases {
		gotType, gotUsage := bufferTypeAndUsage(c.space)
		if gotType != c.wantType || gotUsage != c.wantUsage {
			t.Errorf("bufferTypeAndUsage(%v) = (%v, %v), want (%v, %v)", c.space, gotType, gotUsage, c.wantType, c.wantUsage)
		}
	}
}

func TestInitFromBindingLayoutNoEntriesIsNoop(t *testing.T) {
	layout := binding.Layout{
		Buffers: []binding.BufferBinding{
			{BindGroup: binding.Draw, Binding: 0, Name: "object", Layout: typesystem.NewStructType(), AddressSpace: typesystem.Uniform},
		},
	}
	p := NewBindGroupProvider("empty")
	if err := InitFromBindingLayout(nil, p, layout, binding.View); err != nil {
		t.Fatalf("unexpected error for a group with no matching bindings: %v", err)
	}
	if p.BindGroupLayout() != nil {
		t.Fatal("expected no bind group layout to be created for an empty group")
	}
	if p.Group() != binding.View {
		t.Errorf("expected Group() to record binding.View even with no matching bindings, got %v", p.Group())
	}
}
