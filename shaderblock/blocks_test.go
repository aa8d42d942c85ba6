package shaderblock

import (
	"strings"
	"testing"

	"github.com/Carmen-Shannon/gfx-core/typesystem"
)

// fakeContext is a minimal IGeneratorContext recording every call, used to
// assert a Block's visitation behavior without a real text generator.
type fakeContext struct {
	out             strings.Builder
	inHeader        bool
	header          strings.Builder
	inputs          map[string]typesystem.NumType
	outputs         map[string]typesystem.NumType
	textures        map[string]bool
	tempCounter     int
	errors          []error
	readBufferCalls []string
	refBufferCalls  []string
	readGlobalName  string
	writingGlobal   string
}

func newFakeContext() *fakeContext {
	return &fakeContext{
		inputs:   make(map[string]typesystem.NumType),
		outputs:  make(map[string]typesystem.NumType),
		textures: make(map[string]bool),
	}
}

func (c *fakeContext) Write(s string) {
	if c.inHeader {
		c.header.WriteString(s)
	} else {
		c.out.WriteString(s)
	}
}
func (c *fakeContext) PushHeaderScope() { c.inHeader = true }
func (c *fakeContext) PopHeaderScope()  { c.inHeader = false }
func (c *fakeContext) ReadGlobal(name string) {
	c.readGlobalName = name
	c.Write("global." + name)
}
func (c *fakeContext) BeginWriteGlobal(name string, t typesystem.NumType) {
	c.writingGlobal = name
	c.Write("global." + name)
}
func (c *fakeContext) EndWriteGlobal() { c.writingGlobal = "" }
func (c *fakeContext) HasInput(name string) bool {
	_, ok := c.inputs[name]
	return ok
}
func (c *fakeContext) ReadInput(name string) { c.Write("input." + name) }
func (c *fakeContext) GetOrCreateDynamicInput(name string) (typesystem.NumType, bool) {
	return typesystem.NumType{}, false
}
func (c *fakeContext) HasOutput(name string) bool {
	_, ok := c.outputs[name]
	return ok
}
func (c *fakeContext) WriteOutput(name string, t typesystem.NumType) {
	c.outputs[name] = t
	c.Write("output." + name)
}
func (c *fakeContext) GetOrCreateDynamicOutput(name string, requested typesystem.NumType) (typesystem.NumType, bool) {
	return typesystem.NumType{}, false
}
func (c *fakeContext) HasTexture(name string, defaultTexcoordRequired bool) bool {
	return c.textures[name]
}
func (c *fakeContext) Texture(name string)                       { c.Write("tex." + name) }
func (c *fakeContext) TextureDefaultTextureCoordinate(name string) { c.Write("texCoord." + name) }
func (c *fakeContext) TextureDefaultSampler(name string)          { c.Write("sampler." + name) }
func (c *fakeContext) ReadBuffer(fieldName string, t typesystem.NumType, bufferName string) {
	c.readBufferCalls = append(c.readBufferCalls, bufferName+"."+fieldName)
	c.Write(bufferName + "." + fieldName)
}
func (c *fakeContext) RefBuffer(bufferName string) { c.refBufferCalls = append(c.refBufferCalls, bufferName) }
func (c *fakeContext) Definitions() *GeneratorDefinitions {
	return &GeneratorDefinitions{Inputs: c.inputs, Outputs: c.outputs}
}
func (c *fakeContext) PushError(err error) { c.errors = append(c.errors, err) }
func (c *fakeContext) GenerateTempVariable() string {
	c.tempCounter++
	return "tmp" + string(rune('0'+c.tempCounter))
}

func TestCompoundAppliesChildrenInOrder(t *testing.T) {
	ctx := newFakeContext()
	c := NewCompound("a", Direct("b"), "c")
	c.Apply(ctx)
	if ctx.out.String() != "abc" {
		t.Errorf("got %q, want %q", ctx.out.String(), "abc")
	}
}

func TestWithInputChoosesBranchByPresence(t *testing.T) {
	ctx := newFakeContext()
	ctx.inputs["uv"] = typesystem.Float2.Num
	w := NewWithInput("uv", "has", "missing")
	w.Apply(ctx)
	if ctx.out.String() != "has" {
		t.Errorf("got %q, want %q", ctx.out.String(), "has")
	}

	ctx2 := newFakeContext()
	w2 := NewWithInput("uv", "has", "missing")
	w2.Apply(ctx2)
	if ctx2.out.String() != "missing" {
		t.Errorf("got %q, want %q", ctx2.out.String(), "missing")
	}
}

func TestWriteOutputEmitsAssignment(t *testing.T) {
	ctx := newFakeContext()
	wo := NewWriteOutput("color", typesystem.Float4.Num, "computedColor")
	wo.Apply(ctx)
	want := "output.color = computedColor;\n"
	if ctx.out.String() != want {
		t.Errorf("got %q, want %q", ctx.out.String(), want)
	}
	if _, ok := ctx.outputs["color"]; !ok {
		t.Error("expected output.color to be registered")
	}
}

func TestSampleTextureDefaultCoordinate(t *testing.T) {
	ctx := newFakeContext()
	ctx.textures["albedo"] = true
	s := NewSampleTexture("albedo", nil)
	s.Apply(ctx)
	want := "textureSample(tex.albedo, sampler.albedo, texCoord.albedo)"
	if ctx.out.String() != want {
		t.Errorf("got %q, want %q", ctx.out.String(), want)
	}
}

func TestSampleTextureExplicitCoordinate(t *testing.T) {
	ctx := newFakeContext()
	s := NewSampleTexture("albedo", Direct("myUV"))
	s.Apply(ctx)
	want := "textureSample(tex.albedo, sampler.albedo, myUV)"
	if ctx.out.String() != want {
		t.Errorf("got %q, want %q", ctx.out.String(), want)
	}
}

func TestLinearizeDepthReadsViewProjAndEmitsHeaderFunction(t *testing.T) {
	ctx := newFakeContext()
	l := NewLinearizeDepth(Direct("clipDepth"))
	l.Apply(ctx)
	if len(ctx.readBufferCalls) != 1 || ctx.readBufferCalls[0] != "view.proj" {
		t.Errorf("expected a read of view.proj, got %v", ctx.readBufferCalls)
	}
	if !strings.Contains(ctx.header.String(), "proj: mat4x4<f32>") {
		t.Errorf("expected header function signature, got %q", ctx.header.String())
	}
	if !strings.Contains(ctx.out.String(), "clipDepth") {
		t.Errorf("expected body to reference the input block, got %q", ctx.out.String())
	}
}

func TestDefaultInterpolationSkipsAlreadyWrittenOutputs(t *testing.T) {
	ctx := newFakeContext()
	ctx.inputs["color"] = typesystem.Float4.Num
	ctx.outputs["color"] = typesystem.Float4.Num
	ctx.inputs["texCoord0"] = typesystem.Float2.Num

	d := NewDefaultInterpolation()
	d.Apply(ctx)

	if !strings.Contains(ctx.out.String(), "texCoord0") {
		t.Errorf("expected a passthrough for texCoord0, got %q", ctx.out.String())
	}
	if strings.Count(ctx.out.String(), "output.color") != 0 {
		t.Errorf("color already had an output, should not be re-written: %q", ctx.out.String())
	}
}

func TestRefBufferKeepsBindingAliveWithoutReadingField(t *testing.T) {
	ctx := newFakeContext()
	RefBuffer{BufferName: "object"}.Apply(ctx)
	if len(ctx.refBufferCalls) != 1 || ctx.refBufferCalls[0] != "object" {
		t.Errorf("expected a RefBuffer call for object, got %v", ctx.refBufferCalls)
	}
}
