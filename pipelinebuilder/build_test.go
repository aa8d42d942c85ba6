package pipelinebuilder

import (
	"testing"

	"github.com/Carmen-Shannon/gfx-core/binding"
	"github.com/Carmen-Shannon/gfx-core/meshformat"
	"github.com/Carmen-Shannon/gfx-core/shadergen"
	"github.com/Carmen-Shannon/gfx-core/typesystem"
	"github.com/cogentcore/webgpu/wgpu"
)

func TestBuildStateStringCoversEveryState(t *testing.T) {
	states := []BuildState{
		Seeded, ParametersCollected, EntryPointsCollected, TexturesCollected,
		IndexedBindingsState, OptimizedLayouts, LayoutsBuilt, ShaderGenerated,
		ShaderCompiled, PipelineCreated, Failed,
	}
	for _, s := range states {
		if s.String() == "Unknown" {
			t.Errorf("state %d has no String() case", s)
		}
	}
}

func TestCachedPipelineReleaseIsSafeOnZeroValue(t *testing.T) {
	p := &CachedPipeline{}
	p.Release() // must not panic on a pipeline that never created any handle
}

func TestCachedPipelineFailedReflectsCompilationError(t *testing.T) {
	ok := &CachedPipeline{}
	if ok.Failed() {
		t.Fatal("zero-value pipeline reported Failed")
	}
	bad := &CachedPipeline{CompilationError: errTest{}}
	if !bad.Failed() {
		t.Fatal("pipeline with a CompilationError did not report Failed")
	}
}

type errTest struct{}

func (errTest) Error() string { return "boom" }

func TestPrunedStructTypeDropsUnreadFields(t *testing.T) {
	st := &build{
		indexed: shadergen.IndexedBindings{
			BufferBindings: []shadergen.IndexedBufferBinding{
				{Name: "object", AccessedFields: map[string]typesystem.NumType{"tint": typesystem.Float4.Num}},
			},
		},
	}
	original := typesystem.NewStructType(
		typesystem.StructField{Name: "tint", Type: typesystem.Float4},
		typesystem.StructField{Name: "unused", Type: typesystem.Float},
	).Struct

	pruned, err := st.prunedStructType(original, "object", binding.One())
	if err != nil {
		t.Fatalf("prunedStructType returned error: %v", err)
	}
	if len(pruned.Struct.Entries) != 1 || pruned.Struct.Entries[0].Name != "tint" {
		t.Fatalf("expected only 'tint' to survive pruning, got %+v", pruned.Struct.Entries)
	}
}

func TestPrunedStructTypePadsDynamicOffsetBuffers(t *testing.T) {
	st := &build{
		indexed: shadergen.IndexedBindings{
			BufferBindings: []shadergen.IndexedBufferBinding{
				{Name: "object", AccessedFields: map[string]typesystem.NumType{"tint": typesystem.Float4.Num}},
			},
		},
	}
	original := typesystem.NewStructType(
		typesystem.StructField{Name: "tint", Type: typesystem.Float4},
	).Struct

	pruned, err := st.prunedStructType(original, "object", binding.DynamicDim())
	if err != nil {
		t.Fatalf("prunedStructType returned error: %v", err)
	}
	b := typesystem.NewStructLayoutBuilder(typesystem.Uniform)
	if err := b.PushFromStruct(*pruned.Struct); err != nil {
		t.Fatalf("laying out padded struct failed: %v", err)
	}
	layout, err := b.Finalize()
	if err != nil {
		t.Fatalf("finalizing padded struct layout failed: %v", err)
	}
	minAlign := uint64(wgpu.DefaultLimits().MinUniformBufferOffsetAlignment)
	if layout.Size%minAlign != 0 {
		t.Fatalf("padded struct size %d is not a multiple of device min alignment %d", layout.Size, minAlign)
	}
}

func TestPrunedStructTypeEmptyOriginalYieldsEmptyStruct(t *testing.T) {
	st := &build{}
	pruned, err := st.prunedStructType(nil, "object", binding.One())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(pruned.Struct.Entries) != 0 {
		t.Fatalf("expected empty struct, got %+v", pruned.Struct.Entries)
	}
}

func TestBufferBindingTypeMapsAddressSpace(t *testing.T) {
	cases := map[typesystem.AddressSpace]wgpu.BufferBindingType{
		typesystem.Uniform:   wgpu.BufferBindingTypeUniform,
		typesystem.Storage:   wgpu.BufferBindingTypeReadOnlyStorage,
		typesystem.StorageRW: wgpu.BufferBindingTypeStorage,
	}
	for space, want := range cases {
		if got := bufferBindingType(space); got != want {
			t.Errorf("bufferBindingType(%v) = %v, want %v", space, got, want)
		}
	}
}

func TestTextureSampleTypeMapsSampleFormat(t *testing.T) {
	cases := map[typesystem.SampleFormat]wgpu.TextureSampleType{
		typesystem.SampleInt:               wgpu.TextureSampleTypeSint,
		typesystem.SampleUInt:              wgpu.TextureSampleTypeUint,
		typesystem.SampleDepth:             wgpu.TextureSampleTypeDepth,
		typesystem.SampleUnfilterableFloat: wgpu.TextureSampleTypeUnfilterableFloat,
		typesystem.SampleFloat:             wgpu.TextureSampleTypeFloat,
	}
	for format, want := range cases {
		tt := typesystem.TextureType{SampleFormat: format}
		if got := textureSampleType(tt); got != want {
			t.Errorf("textureSampleType(%v) = %v, want %v", format, got, want)
		}
	}
}

func TestDetermineOutputFieldsSkipsDepthEntry(t *testing.T) {
	color := meshformat.RenderTargetEntry{Name: "albedo", Format: wgpu.TextureFormatBGRA8Unorm}
	depthEntry := meshformat.RenderTargetEntry{Name: "depth", Format: wgpu.TextureFormatDepth32Float}
	targets := meshformat.NewRenderTargetLayout([]meshformat.RenderTargetEntry{color}, &depthEntry)

	st := &build{targets: targets}
	if err := st.determineOutputFields(); err != nil {
		t.Fatalf("determineOutputFields returned error: %v", err)
	}
	if len(st.outputFields) != 1 || st.outputFields[0].Name != "albedo" {
		t.Fatalf("expected only the color entry to survive, got %+v", st.outputFields)
	}
}
