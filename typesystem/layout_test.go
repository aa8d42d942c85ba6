package typesystem

import "testing"

func TestScalarAndVectorAlignment(t *testing.T) {
	cases := []struct {
		name       string
		typ        Type
		wantSize   uint64
		wantAlign  uint64
	}{
		{"f32", Float, 4, 4},
		{"vec2f32", Float2, 8, 8},
		{"vec3f32", Float3, 12, 16},
		{"vec4f32", Float4, 16, 16},
		{"mat4x4f32", Float4x4, 64, 16},
		{"mat3x3f32", Float3x3, 48, 16},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			size, err := MapSize(c.typ, Storage)
			if err != nil {
				t.Fatalf("MapSize: %v", err)
			}
			align, err := MapAlignment(c.typ, Storage)
			if err != nil {
				t.Fatalf("MapAlignment: %v", err)
			}
			if size != c.wantSize {
				t.Errorf("size = %d, want %d", size, c.wantSize)
			}
			if align != c.wantAlign {
				t.Errorf("align = %d, want %d", align, c.wantAlign)
			}
		})
	}
}

func TestStructLayoutUniformEscalation(t *testing.T) {
	b := NewStructLayoutBuilder(Uniform)
	must(t, b.Push("a", Float3))
	must(t, b.Push("b", Float))
	layout, err := b.Finalize()
	if err != nil {
		t.Fatalf("Finalize: %v", err)
	}
	if layout.Items[0].Offset != 0 || layout.Items[0].Size != 12 {
		t.Errorf("field a = %+v", layout.Items[0])
	}
	if layout.Items[1].Offset != 12 {
		t.Errorf("field b offset = %d, want 12", layout.Items[1].Offset)
	}
	if layout.MaxAlignment != 16 {
		t.Errorf("struct alignment = %d, want 16 (uniform escalation)", layout.MaxAlignment)
	}
	if layout.Size != 16 {
		t.Errorf("struct size = %d, want 16", layout.Size)
	}
}

func TestStructLayoutStorageNoEscalation(t *testing.T) {
	b := NewStructLayoutBuilder(Storage)
	must(t, b.Push("a", Float))
	must(t, b.Push("b", Float))
	layout, err := b.Finalize()
	if err != nil {
		t.Fatalf("Finalize: %v", err)
	}
	if layout.MaxAlignment != 4 {
		t.Errorf("struct alignment = %d, want 4 (no escalation in storage)", layout.MaxAlignment)
	}
	if layout.Size != 8 {
		t.Errorf("struct size = %d, want 8", layout.Size)
	}
}

func TestRuntimeArrayMustBeTail(t *testing.T) {
	b := NewStructLayoutBuilder(Storage)
	must(t, b.Push("header", Float))
	must(t, b.Push("items", NewArrayType(Float4, nil)))
	if err := b.Push("trailer", Float); err == nil {
		t.Fatal("expected error pushing a field after a runtime-sized array")
	}
}

func TestDuplicateFieldSameTypeIsNoop(t *testing.T) {
	b := NewStructLayoutBuilder(Storage)
	must(t, b.Push("a", Float))
	if err := b.Push("a", Float); err != nil {
		t.Fatalf("re-pushing identical field should be a no-op: %v", err)
	}
	if len(b.FieldNames()) != 1 {
		t.Fatalf("expected 1 field, got %d", len(b.FieldNames()))
	}
}

func TestDuplicateFieldDifferentTypeFails(t *testing.T) {
	b := NewStructLayoutBuilder(Storage)
	must(t, b.Push("a", Float))
	if err := b.Push("a", Float2); err == nil {
		t.Fatal("expected DuplicateFieldError")
	}
}

func TestForceAlignmentToPadsToDynamicOffsetBoundary(t *testing.T) {
	b := NewStructLayoutBuilder(Uniform)
	must(t, b.Push("a", Float4))
	item, err := b.ForceAlignmentTo(256)
	if err != nil {
		t.Fatalf("ForceAlignmentTo: %v", err)
	}
	if item == nil {
		t.Fatal("expected padding field")
	}
	layout, err := b.Finalize()
	if err != nil {
		t.Fatalf("Finalize: %v", err)
	}
	if layout.Size%256 != 0 {
		t.Errorf("size = %d, not a multiple of 256", layout.Size)
	}
}

func TestForceAlignmentToNoopWhenAlreadyAligned(t *testing.T) {
	b := NewStructLayoutBuilder(Uniform)
	item, err := b.ForceAlignmentTo(16)
	if err != nil {
		t.Fatalf("ForceAlignmentTo: %v", err)
	}
	if item != nil {
		t.Fatalf("expected no padding, got %+v", item)
	}
}

func TestInnerStructCaching(t *testing.T) {
	inner := NewStructType(StructField{Name: "x", Type: Float3})
	cache := newLayoutCache()
	l1, err := cache.layoutOf(*inner.Struct, Uniform)
	if err != nil {
		t.Fatalf("layoutOf: %v", err)
	}
	l2, err := cache.layoutOf(*inner.Struct, Uniform)
	if err != nil {
		t.Fatalf("layoutOf: %v", err)
	}
	if l1.Size != l2.Size || l1.MaxAlignment != l2.MaxAlignment {
		t.Fatalf("cached layout diverged: %+v vs %+v", l1, l2)
	}
	if len(cache.entries) != 1 {
		t.Fatalf("expected 1 cache entry, got %d", len(cache.entries))
	}
}

func TestOptimizeKeepsOnlyFilteredFieldsInOrder(t *testing.T) {
	st := NewStructType(
		StructField{Name: "used1", Type: Float},
		StructField{Name: "dead", Type: Float4},
		StructField{Name: "used2", Type: Float2},
	)
	keep := map[string]bool{"used1": true, "used2": true}
	b, err := Optimize(Storage, *st.Struct, func(name string, _ Type) bool { return keep[name] })
	if err != nil {
		t.Fatalf("Optimize: %v", err)
	}
	names := b.FieldNames()
	if len(names) != 2 || names[0] != "used1" || names[1] != "used2" {
		t.Fatalf("unexpected field order: %v", names)
	}
}

func TestTypeKeyStructuralEquality(t *testing.T) {
	a := NewStructType(StructField{Name: "p", Type: Float3}, StructField{Name: "n", Type: Float3})
	b := NewStructType(StructField{Name: "p", Type: Float3}, StructField{Name: "n", Type: Float3})
	if !a.Equal(b) {
		t.Fatalf("structurally identical struct types should be Equal: %q vs %q", a.Key(), b.Key())
	}
	c := NewStructType(StructField{Name: "p", Type: Float3}, StructField{Name: "n", Type: Float4})
	if a.Equal(c) {
		t.Fatal("struct types with a differing field type must not be Equal")
	}
}

func must(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
