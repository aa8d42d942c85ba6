package shadergen

import (
	"fmt"
	"strings"

	"github.com/Carmen-Shannon/gfx-core/binding"
	"github.com/Carmen-Shannon/gfx-core/shaderblock"
	"github.com/Carmen-Shannon/gfx-core/typesystem"
)

// generatorContext implements shaderblock.IGeneratorContext, emitting WGSL
// text for one stage's function body while optionally redirecting writes
// into a package-level header buffer (used by blocks like LinearizeDepth
// that declare a helper function ahead of the entry point referencing it).
type generatorContext struct {
	gen    *Generator
	defs   *shaderblock.GeneratorDefinitions
	io     *pipelineIO
	stage  Stage

	body         strings.Builder
	header       strings.Builder
	headerDepth  int
	globalWriter *strings.Builder

	tempCounter int
	errors      []error
}

func newGeneratorContext(g *Generator) *generatorContext {
	defs := shaderblock.NewGeneratorDefinitions()
	for _, b := range g.BufferBindings {
		defs.Buffers[b.Name] = shaderblock.BufferDefinition{Layout: b.Layout, AddressSpace: b.AddressSpace}
	}
	for _, t := range g.TextureBindings {
		defs.Textures[t.Name] = shaderblock.TextureDefinition{
			Type:                     t.Texture,
			DefaultTextureCoordinate: "texCoord0",
			DefaultSampler:           t.Name + "Sampler",
		}
	}
	return &generatorContext{gen: g, defs: defs}
}

func (c *generatorContext) currentWriter() *strings.Builder {
	if c.headerDepth > 0 {
		return &c.header
	}
	return &c.body
}

func (c *generatorContext) Write(s string) { c.currentWriter().WriteString(s) }

func (c *generatorContext) PushHeaderScope() { c.headerDepth++ }
func (c *generatorContext) PopHeaderScope() {
	if c.headerDepth > 0 {
		c.headerDepth--
	}
}

func (c *generatorContext) ReadGlobal(name string) {
	if _, ok := c.io.globals[name]; !ok {
		c.PushError(fmt.Errorf("shadergen: read of undeclared global %q", name))
	}
	c.Write("globals." + name)
}

func (c *generatorContext) BeginWriteGlobal(name string, t typesystem.NumType) {
	c.io.globals[name] = t
	c.Write("globals." + name)
}

func (c *generatorContext) EndWriteGlobal() {}

func (c *generatorContext) HasInput(name string) bool {
	_, ok := c.io.inputs[name]
	return ok
}

func (c *generatorContext) ReadInput(name string) {
	if !c.HasInput(name) {
		if t, ok := c.gen.dynamicInput(name, c.io); ok {
			_ = t
		} else {
			c.PushError(fmt.Errorf("shadergen: read of undeclared input %q", name))
			return
		}
	}
	c.Write("input." + name)
}

func (c *generatorContext) GetOrCreateDynamicInput(name string) (typesystem.NumType, bool) {
	if t, ok := c.io.inputs[name]; ok {
		return t, true
	}
	return c.gen.dynamicInput(name, c.io)
}

func (c *generatorContext) HasOutput(name string) bool {
	_, ok := c.io.outputs[name]
	return ok
}

func (c *generatorContext) WriteOutput(name string, t typesystem.NumType) {
	if !c.HasOutput(name) {
		c.io.outputs[name] = t
	}
	c.Write("output." + name)
}

func (c *generatorContext) GetOrCreateDynamicOutput(name string, requested typesystem.NumType) (typesystem.NumType, bool) {
	if t, ok := c.io.outputs[name]; ok {
		return t, true
	}
	if c.gen.dynamicOutput(name, requested, c.io) {
		return requested, true
	}
	return typesystem.NumType{}, false
}

func (c *generatorContext) HasTexture(name string, defaultTexcoordRequired bool) bool {
	_, ok := c.defs.Textures[name]
	return ok
}

func (c *generatorContext) Texture(name string) { c.Write(name) }

func (c *generatorContext) TextureDefaultTextureCoordinate(name string) {
	def, ok := c.defs.Textures[name]
	if !ok {
		c.PushError(fmt.Errorf("shadergen: no default texture coordinate for undeclared texture %q", name))
		return
	}
	c.ReadInput(def.DefaultTextureCoordinate)
}

func (c *generatorContext) TextureDefaultSampler(name string) {
	def, ok := c.defs.Textures[name]
	if !ok {
		c.PushError(fmt.Errorf("shadergen: no default sampler for undeclared texture %q", name))
		return
	}
	c.Write(def.DefaultSampler)
}

func (c *generatorContext) ReadBuffer(fieldName string, t typesystem.NumType, bufferName string) {
	if _, ok := c.defs.Buffers[bufferName]; !ok {
		c.PushError(fmt.Errorf("shadergen: read from undeclared buffer %q", bufferName))
		return
	}
	c.Write(bufferName + "." + fieldName)
}

func (c *generatorContext) RefBuffer(bufferName string) {
	if _, ok := c.defs.Buffers[bufferName]; !ok {
		c.PushError(fmt.Errorf("shadergen: reference to undeclared buffer %q", bufferName))
	}
}

func (c *generatorContext) Definitions() *shaderblock.GeneratorDefinitions {
	if c.io == nil {
		return c.defs
	}
	return &shaderblock.GeneratorDefinitions{
		Buffers: c.defs.Buffers, Textures: c.defs.Textures,
		Inputs: c.io.inputs, Globals: c.io.globals, Outputs: c.io.outputs,
	}
}

func (c *generatorContext) PushError(err error) { c.errors = append(c.errors, err) }

func (c *generatorContext) GenerateTempVariable() string {
	c.tempCounter++
	return fmt.Sprintf("_tmp%d", c.tempCounter)
}

// emitStage runs every entry point of one stage group against a fresh
// generatorContext bound to io, appending each entry point's own header
// writes into the shared package header and returning the concatenated
// function-body text.
func (c *generatorContext) emitStage(stage Stage, eps []EntryPoint, in, out *pipelineIO) (string, error) {
	sc := &generatorContext{
		gen:   c.gen,
		defs:  c.defs,
		stage: stage,
		io:    &pipelineIO{inputs: in.inputs, outputs: out.outputs, globals: out.globals, builtins: out.builtins},
	}
	for _, ep := range eps {
		if ep.Code != nil {
			ep.Code.Apply(sc)
		}
	}
	c.header.WriteString(sc.header.String())
	c.errors = append(c.errors, sc.errors...)
	return sc.body.String(), nil
}

func (c *generatorContext) renderBufferDeclarations(buffers []binding.BufferBinding) string {
	var b strings.Builder
	for _, buf := range buffers {
		space := buf.AddressSpace.StorageKeyword()
		typeName := buf.Layout.WGSLName()
		if buf.Layout.Kind == typesystem.KindStruct {
			typeName = buf.Name + "_t"
			fmt.Fprintf(&b, "struct %s {\n", typeName)
			for _, f := range buf.Layout.Struct.Entries {
				fmt.Fprintf(&b, "\t%s: %s,\n", f.Name, f.Type.WGSLName())
			}
			b.WriteString("}\n")
		}
		var varType string
		switch buf.Dimension.Kind {
		case binding.DimensionOne:
			varType = typeName
		case binding.DimensionFixed:
			varType = fmt.Sprintf("array<%s, %d>", typeName, buf.Dimension.Length)
		default:
			varType = fmt.Sprintf("array<%s>", typeName)
		}
		fmt.Fprintf(&b, "@group(%d) @binding(%d)\n", buf.BindGroup, buf.Binding)
		fmt.Fprintf(&b, "var<%s> %s: %s;\n", space, buf.Name, varType)
	}
	return b.String()
}

func (c *generatorContext) renderTextureDeclarations(textures []binding.TextureBinding) string {
	var b strings.Builder
	for _, tex := range textures {
		fmt.Fprintf(&b, "@group(%d) @binding(%d)\n", tex.BindGroup, tex.Binding)
		fmt.Fprintf(&b, "var %s: %s;\n", tex.Name, typesystem.Type{Kind: typesystem.KindTexture, Texture: tex.Texture}.WGSLName())
		fmt.Fprintf(&b, "@group(%d) @binding(%d)\n", tex.BindGroup, tex.SamplerBinding)
		fmt.Fprintf(&b, "var %sSampler: sampler;\n", tex.Name)
	}
	return b.String()
}
