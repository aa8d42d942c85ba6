package shadergen

import (
	"strings"
	"testing"

	"github.com/Carmen-Shannon/gfx-core/binding"
	"github.com/Carmen-Shannon/gfx-core/meshformat"
	"github.com/Carmen-Shannon/gfx-core/shaderblock"
	"github.com/Carmen-Shannon/gfx-core/typesystem"
	"github.com/cogentcore/webgpu/wgpu"
)

func testMeshFormat() meshformat.MeshFormat {
	return meshformat.NewMeshFormat(
		wgpu.PrimitiveTopologyTriangleList,
		wgpu.FrontFaceCCW,
		wgpu.IndexFormatUint16,
		meshformat.VertexAttribute{Name: "position", Type: typesystem.Float3.Num},
		meshformat.VertexAttribute{Name: "color", Type: typesystem.Float4.Num},
	)
}

func objectBufferBinding() binding.BufferBinding {
	layout := typesystem.NewStructType(
		typesystem.StructField{Name: "tint", Type: typesystem.Float4},
		typesystem.StructField{Name: "unused", Type: typesystem.Float},
	)
	return binding.BufferBinding{
		BindGroup: binding.Draw, Binding: 0, Name: "object",
		Layout: layout, AddressSpace: typesystem.Uniform, Dimension: binding.One(),
	}
}

func TestGeneratorBuildEmitsVertexAndFragmentFunctions(t *testing.T) {
	gen := &Generator{
		BufferBindings: []binding.BufferBinding{objectBufferBinding()},
		MeshFormat:     testMeshFormat(),
		OutputFields:   []meshformat.RenderTargetEntry{{Name: "color", Format: wgpu.TextureFormatRGBA8Unorm}},
	}
	eps := []EntryPoint{
		NewEntryPoint("passthroughPosition", StageVertex, shaderblock.NewWriteOutput("position", typesystem.Float4.Num, shaderblock.ReadInput{Name: "position"})),
		NewEntryPoint("writeColor", StageFragment, shaderblock.NewWriteOutput("color", typesystem.Float4.Num, shaderblock.NewReadBuffer("tint", typesystem.Float4.Num, "object"))),
	}
	out, err := gen.Build(eps)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if len(out.Errors) != 0 {
		t.Fatalf("unexpected generator errors: %v", out.Errors)
	}
	if !strings.Contains(out.WGSLSource, "@vertex") || !strings.Contains(out.WGSLSource, "@fragment") {
		t.Fatalf("expected both stage entry points, got:\n%s", out.WGSLSource)
	}
	if !strings.Contains(out.WGSLSource, "var<uniform> object:") {
		t.Fatalf("expected object buffer declaration, got:\n%s", out.WGSLSource)
	}
}

func TestIndexerPrunesUnreadBufferFields(t *testing.T) {
	gen := &Generator{
		BufferBindings: []binding.BufferBinding{objectBufferBinding()},
		MeshFormat:     testMeshFormat(),
	}
	eps := []EntryPoint{
		NewEntryPoint("writeColor", StageFragment, shaderblock.NewWriteOutput("color", typesystem.Float4.Num, shaderblock.NewReadBuffer("tint", typesystem.Float4.Num, "object"))),
	}
	ix := NewIndexer(gen)
	indexed, err := ix.IndexBindings(eps)
	if err != nil {
		t.Fatalf("IndexBindings: %v", err)
	}
	if !indexed.FieldUsed("object", "tint") {
		t.Error("expected tint to be marked used")
	}
	if indexed.FieldUsed("object", "unused") {
		t.Error("expected unused field to be marked unused")
	}
}

func TestIndexerAndGeneratorAgreeOnFieldUsage(t *testing.T) {
	gen := &Generator{
		BufferBindings: []binding.BufferBinding{objectBufferBinding()},
		MeshFormat:     testMeshFormat(),
		OutputFields:   []meshformat.RenderTargetEntry{{Name: "color", Format: wgpu.TextureFormatRGBA8Unorm}},
	}
	eps := []EntryPoint{
		NewEntryPoint("writeColor", StageFragment, shaderblock.NewWriteOutput("color", typesystem.Float4.Num, shaderblock.NewReadBuffer("tint", typesystem.Float4.Num, "object"))),
	}
	ix := NewIndexer(gen)
	indexed, err := ix.IndexBindings(eps)
	if err != nil {
		t.Fatalf("IndexBindings: %v", err)
	}
	out, err := gen.Build(eps)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if indexed.FieldUsed("object", "tint") && !strings.Contains(out.WGSLSource, "object.tint") {
		t.Fatalf("indexer says tint used but generator never emitted a reference to it:\n%s", out.WGSLSource)
	}
}
