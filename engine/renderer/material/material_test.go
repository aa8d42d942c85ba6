package material

import (
	"testing"

	"github.com/Carmen-Shannon/gfx-core/common"
)

func TestWithMetallicAndRoughnessClampToUnitRange(t *testing.T) {
	m := NewMaterial(WithMetallic(4.0), WithRoughness(-1.0))
	if got := m.Metallic(); got != 1.0 {
		t.Errorf("Metallic() = %v, want clamped 1.0", got)
	}
	if got := m.Roughness(); got != 0.0 {
		t.Errorf("Roughness() = %v, want clamped 0.0", got)
	}
}

func TestToFeatureWithoutTexturesReadsBaseColorDirectly(t *testing.T) {
	m := NewMaterial(WithName("plain"))
	f := m.ToFeature()
	if len(f.TextureParams) != 0 {
		t.Errorf("expected no texture params, got %d", len(f.TextureParams))
	}
	if len(f.ShaderEntryPoints) != 1 {
		t.Fatalf("expected exactly one fragment entry point, got %d", len(f.ShaderEntryPoints))
	}
}

func TestToFeatureWithDiffuseTextureAddsTextureParam(t *testing.T) {
	m := NewMaterial(WithName("textured"), WithDiffuseTexture(&common.ImportedTexture{Name: "albedo"}))
	f := m.ToFeature()
	if len(f.TextureParams) != 1 {
		t.Fatalf("expected one texture param for the diffuse texture, got %d", len(f.TextureParams))
	}
	if f.TextureParams[0].Name != "diffuseTexture" {
		t.Errorf("TextureParams[0].Name = %q, want %q", f.TextureParams[0].Name, "diffuseTexture")
	}
}

func TestToFeatureAccumulatesAllPopulatedTextures(t *testing.T) {
	m := NewMaterial(
		WithName("full"),
		WithDiffuseTexture(&common.ImportedTexture{Name: "albedo"}),
		WithNormalTexture(&common.ImportedTexture{Name: "normal"}),
		WithMetallicRoughnessTexture(&common.ImportedTexture{Name: "mr"}),
	)
	f := m.ToFeature()
	if len(f.TextureParams) != 3 {
		t.Fatalf("expected three texture params, got %d", len(f.TextureParams))
	}
}
