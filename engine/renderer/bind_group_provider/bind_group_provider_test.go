package bind_group_provider

import (
	"testing"

	"github.com/Carmen-Shannon/gfx-core/binding"
)

func TestWithGroupPreAssignsGroup(t *testing.T) {
	p := NewBindGroupProvider("material", WithGroup(binding.View))
	if p.Group() != binding.View {
		t.Errorf("Group() = %v, want %v", p.Group(), binding.View)
	}
}

func TestSetGroupOverridesGroup(t *testing.T) {
	p := NewBindGroupProvider("material")
	if p.Group() != binding.Draw {
		t.Errorf("expected zero-value Group() to be binding.Draw, got %v", p.Group())
	}
	p.SetGroup(binding.View)
	if p.Group() != binding.View {
		t.Errorf("Group() = %v, want %v", p.Group(), binding.View)
	}
}

func TestApplyWritesSkipsUnrealizedBindings(t *testing.T) {
	p := NewBindGroupProvider("material")
	writes := []BufferWrite{
		{Provider: p, Binding: 0, Offset: 0, Data: []byte{1, 2, 3, 4}},
	}
	// No queue interaction should occur since Buffer(0) is nil; passing a nil
	// queue here would panic if ApplyWrites attempted a write.
	ApplyWrites(nil, writes)
}
