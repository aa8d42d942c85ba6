package shadergen

import (
	"fmt"

	"github.com/Carmen-Shannon/gfx-core/shaderblock"
	"github.com/Carmen-Shannon/gfx-core/typesystem"
)

// IndexedBufferBinding records which fields of one buffer were actually
// referenced by the walked entry points, keyed by field name.
type IndexedBufferBinding struct {
	Name           string
	AccessedFields map[string]typesystem.NumType
	Referenced     bool // true if RefBuffer kept the whole buffer alive
}

// IndexedTextureBinding records that a texture binding was referenced.
type IndexedTextureBinding struct {
	Name string
}

// IndexedOutput records one stage output a walked entry point wrote to.
type IndexedOutput struct {
	Name string
	Type typesystem.NumType
}

// IndexedBindings is the complete usage record produced by Indexer,
// consumed by the pipeline builder to prune unused struct fields and
// texture bindings before the optimized shader generation pass runs.
type IndexedBindings struct {
	BufferBindings  []IndexedBufferBinding
	TextureBindings []IndexedTextureBinding
	Outputs         []IndexedOutput
}

// FieldUsed reports whether bufferName.fieldName was read by any entry point.
func (ib IndexedBindings) FieldUsed(bufferName, fieldName string) bool {
	for _, b := range ib.BufferBindings {
		if b.Name != bufferName {
			continue
		}
		if b.Referenced {
			return true
		}
		_, ok := b.AccessedFields[fieldName]
		return ok
	}
	return false
}

// TextureUsed reports whether name was referenced by any entry point.
func (ib IndexedBindings) TextureUsed(name string) bool {
	for _, t := range ib.TextureBindings {
		if t.Name == name {
			return true
		}
	}
	return false
}

// indexerContext implements shaderblock.IGeneratorContext but discards all
// text output, recording only resource usage. It must expose the exact same
// Has*/definitions behavior as generatorContext so that walking the same
// Block tree through either context visits the same branches (spec:
// "indexer and generator must walk the same AST with identical visitation
// order").
type indexerContext struct {
	gen  *Generator
	defs *shaderblock.GeneratorDefinitions
	io   *pipelineIO

	bufferUsage  map[string]*IndexedBufferBinding
	textureUsage map[string]bool
	tempCounter  int
	errors       []error
}

func newIndexerContext(g *Generator, defs *shaderblock.GeneratorDefinitions, io *pipelineIO) *indexerContext {
	return &indexerContext{
		gen:          g,
		defs:         defs,
		io:           io,
		bufferUsage:  make(map[string]*IndexedBufferBinding),
		textureUsage: make(map[string]bool),
	}
}

func (c *indexerContext) Write(string)      {}
func (c *indexerContext) PushHeaderScope()  {}
func (c *indexerContext) PopHeaderScope()   {}
func (c *indexerContext) ReadGlobal(string) {}

func (c *indexerContext) BeginWriteGlobal(name string, t typesystem.NumType) { c.io.globals[name] = t }
func (c *indexerContext) EndWriteGlobal()                                   {}

func (c *indexerContext) HasInput(name string) bool {
	_, ok := c.io.inputs[name]
	return ok
}

func (c *indexerContext) ReadInput(name string) {
	if !c.HasInput(name) {
		c.gen.dynamicInput(name, c.io)
	}
}

func (c *indexerContext) GetOrCreateDynamicInput(name string) (typesystem.NumType, bool) {
	if t, ok := c.io.inputs[name]; ok {
		return t, true
	}
	return c.gen.dynamicInput(name, c.io)
}

func (c *indexerContext) HasOutput(name string) bool {
	_, ok := c.io.outputs[name]
	return ok
}

func (c *indexerContext) WriteOutput(name string, t typesystem.NumType) {
	if !c.HasOutput(name) {
		c.io.outputs[name] = t
	}
}

func (c *indexerContext) GetOrCreateDynamicOutput(name string, requested typesystem.NumType) (typesystem.NumType, bool) {
	if t, ok := c.io.outputs[name]; ok {
		return t, true
	}
	if c.gen.dynamicOutput(name, requested, c.io) {
		return requested, true
	}
	return typesystem.NumType{}, false
}

func (c *indexerContext) HasTexture(name string, defaultTexcoordRequired bool) bool {
	_, ok := c.defs.Textures[name]
	return ok
}

func (c *indexerContext) Texture(name string) { c.textureUsage[name] = true }

func (c *indexerContext) TextureDefaultTextureCoordinate(name string) {
	if def, ok := c.defs.Textures[name]; ok {
		c.ReadInput(def.DefaultTextureCoordinate)
	}
}

func (c *indexerContext) TextureDefaultSampler(string) {}

func (c *indexerContext) ReadBuffer(fieldName string, t typesystem.NumType, bufferName string) {
	b := c.bufferEntry(bufferName)
	b.AccessedFields[fieldName] = t
}

func (c *indexerContext) RefBuffer(bufferName string) {
	c.bufferEntry(bufferName).Referenced = true
}

func (c *indexerContext) bufferEntry(name string) *IndexedBufferBinding {
	b, ok := c.bufferUsage[name]
	if !ok {
		b = &IndexedBufferBinding{Name: name, AccessedFields: make(map[string]typesystem.NumType)}
		c.bufferUsage[name] = b
	}
	return b
}

func (c *indexerContext) Definitions() *shaderblock.GeneratorDefinitions {
	return &shaderblock.GeneratorDefinitions{
		Buffers: c.defs.Buffers, Textures: c.defs.Textures,
		Inputs: c.io.inputs, Globals: c.io.globals, Outputs: c.io.outputs,
	}
}
func (c *indexerContext) PushError(err error)                           { c.errors = append(c.errors, err) }

func (c *indexerContext) GenerateTempVariable() string {
	c.tempCounter++
	return fmt.Sprintf("_idx_tmp%d", c.tempCounter)
}

var _ shaderblock.IGeneratorContext = (*indexerContext)(nil)
var _ shaderblock.IGeneratorContext = (*generatorContext)(nil)

// Indexer walks the same entry point set a Generator will later walk,
// recording only which buffer fields and textures were referenced, so the
// pipeline builder can prune struct layouts and bindings before the
// optimized generation pass.
type Indexer struct {
	Gen *Generator
}

// NewIndexer returns an Indexer sharing gen's buffer/texture/mesh
// definitions.
func NewIndexer(gen *Generator) *Indexer { return &Indexer{Gen: gen} }

// IndexBindings sorts entryPoints identically to Generator.Build and walks
// them with a text-discarding context, returning the accumulated usage.
func (ix *Indexer) IndexBindings(entryPoints []EntryPoint) (IndexedBindings, error) {
	sorted, err := SortEntryPoints(entryPoints, ix.Gen.StrictDependencies)
	if err != nil {
		return IndexedBindings{}, err
	}

	defs := shaderblock.NewGeneratorDefinitions()
	for _, b := range ix.Gen.BufferBindings {
		defs.Buffers[b.Name] = shaderblock.BufferDefinition{Layout: b.Layout, AddressSpace: b.AddressSpace}
	}
	for _, t := range ix.Gen.TextureBindings {
		defs.Textures[t.Name] = shaderblock.TextureDefinition{Type: t.Texture, DefaultTextureCoordinate: "texCoord0", DefaultSampler: t.Name + "Sampler"}
	}

	vertexIO := newPipelineIO()
	for _, a := range ix.Gen.MeshFormat.Attributes {
		vertexIO.inputs[a.Name] = a.Type
	}
	vertexOut := newPipelineIO()
	vctx := newIndexerContext(ix.Gen, defs, &pipelineIO{inputs: vertexIO.inputs, outputs: vertexOut.outputs, globals: vertexOut.globals, builtins: vertexOut.builtins})
	for _, ep := range filterStage(sorted, StageVertex) {
		if ep.Code != nil {
			ep.Code.Apply(vctx)
		}
	}

	fragmentIn := newPipelineIO()
	for name, t := range vertexOut.outputs {
		fragmentIn.inputs[name] = t
	}
	fragmentOut := newPipelineIO()
	fctx := newIndexerContext(ix.Gen, defs, &pipelineIO{inputs: fragmentIn.inputs, outputs: fragmentOut.outputs, globals: fragmentOut.globals, builtins: fragmentOut.builtins})
	for _, ep := range filterStage(sorted, StageFragment) {
		if ep.Code != nil {
			ep.Code.Apply(fctx)
		}
	}

	result := IndexedBindings{}
	merged := map[string]*IndexedBufferBinding{}
	for name, b := range vctx.bufferUsage {
		merged[name] = b
	}
	for name, b := range fctx.bufferUsage {
		if existing, ok := merged[name]; ok {
			for f, t := range b.AccessedFields {
				existing.AccessedFields[f] = t
			}
			existing.Referenced = existing.Referenced || b.Referenced
		} else {
			merged[name] = b
		}
	}
	for _, b := range merged {
		result.BufferBindings = append(result.BufferBindings, *b)
	}

	textureSeen := map[string]bool{}
	for name := range vctx.textureUsage {
		textureSeen[name] = true
	}
	for name := range fctx.textureUsage {
		textureSeen[name] = true
	}
	for name := range textureSeen {
		result.TextureBindings = append(result.TextureBindings, IndexedTextureBinding{Name: name})
	}

	for name, t := range fragmentOut.outputs {
		result.Outputs = append(result.Outputs, IndexedOutput{Name: name, Type: t})
	}

	return result, nil
}
