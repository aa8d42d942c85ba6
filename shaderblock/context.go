// Package shaderblock defines the composable WGSL-fragment AST (Block and
// its concrete cases) and the IGeneratorContext surface blocks write
// through, keeping block structure separate from text emission. A Block
// never emits text itself; it only calls back into whatever
// IGeneratorContext it is handed, so the same tree can be walked once by a
// text-emitting generator and once by a binding indexer that discards text
// and only records which buffer fields and textures were touched.
package shaderblock

import "github.com/Carmen-Shannon/gfx-core/typesystem"

// AddressSpace mirrors typesystem.AddressSpace for buffer declarations
// referenced from block definitions, re-exported here so callers assembling
// entry points don't need to import typesystem directly for this alone.
type AddressSpace = typesystem.AddressSpace

// BufferDefinition describes one named buffer resource visible to
// readBuffer/refBuffer calls: its struct layout type and storage qualifier.
type BufferDefinition struct {
	Layout       typesystem.Type
	AddressSpace AddressSpace
}

// TextureDefinition describes one named texture resource visible to
// texture/SampleTexture calls.
type TextureDefinition struct {
	Type                     typesystem.TextureType
	DefaultTextureCoordinate string
	DefaultSampler           string
}

// GeneratorDefinitions is the read-only view of every resource a context
// knows about: the buffers, textures, inputs, globals, and outputs declared
// so far. Blocks consult it only indirectly, through the Has*/Get* methods
// of IGeneratorContext; it exists as its own type so a generator and an
// indexer can share one definitions snapshot.
type GeneratorDefinitions struct {
	Buffers  map[string]BufferDefinition
	Textures map[string]TextureDefinition
	Inputs   map[string]typesystem.NumType
	Globals  map[string]typesystem.NumType
	Outputs  map[string]typesystem.NumType
}

// NewGeneratorDefinitions returns an empty, ready-to-populate definitions set.
func NewGeneratorDefinitions() *GeneratorDefinitions {
	return &GeneratorDefinitions{
		Buffers:  make(map[string]BufferDefinition),
		Textures: make(map[string]TextureDefinition),
		Inputs:   make(map[string]typesystem.NumType),
		Globals:  make(map[string]typesystem.NumType),
		Outputs:  make(map[string]typesystem.NumType),
	}
}

// DynamicHandler supplies stage inputs/outputs on demand when a block asks
// for a name the context has no static declaration for, such as
// vertex_index, position, frag_depth, or instance_index.
type DynamicHandler interface {
	// CreateDynamicInput returns the type of name and true if this handler
	// can synthesize it as a stage input, false otherwise.
	CreateDynamicInput(name string) (typesystem.NumType, bool)
	// CreateDynamicOutput reports whether this handler accepts name as a
	// stage output of the requested type.
	CreateDynamicOutput(name string, requested typesystem.NumType) bool
}

// IGeneratorContext is the full surface a Block's Apply method may call.
// Two independent implementations walk the same Block tree: a text-emitting
// Generator and a text-discarding Indexer (shadergen package) that records
// only which buffer fields, textures, and outputs were actually referenced.
type IGeneratorContext interface {
	// Write appends raw WGSL text to the current output location.
	Write(s string)

	// PushHeaderScope/PopHeaderScope redirect subsequent Write calls into a
	// header buffer emitted ahead of the function currently being built,
	// used by blocks (LinearizeDepth) that need to emit a helper function.
	PushHeaderScope()
	PopHeaderScope()

	ReadGlobal(name string)
	BeginWriteGlobal(name string, t typesystem.NumType)
	EndWriteGlobal()

	HasInput(name string) bool
	ReadInput(name string)
	GetOrCreateDynamicInput(name string) (typesystem.NumType, bool)

	HasOutput(name string) bool
	WriteOutput(name string, t typesystem.NumType)
	GetOrCreateDynamicOutput(name string, requested typesystem.NumType) (typesystem.NumType, bool)

	HasTexture(name string, defaultTexcoordRequired bool) bool
	Texture(name string)
	TextureDefaultTextureCoordinate(name string)
	TextureDefaultSampler(name string)

	ReadBuffer(fieldName string, t typesystem.NumType, bufferName string)
	RefBuffer(bufferName string)

	Definitions() *GeneratorDefinitions

	PushError(err error)

	// GenerateTempVariable returns a fresh, context-unique identifier.
	GenerateTempVariable() string
}

// RunWriteGlobal is the Block-facing helper mirroring the original's
// templated writeGlobal(name, type, inner) convenience: it brackets inner
// between BeginWriteGlobal/EndWriteGlobal.
func RunWriteGlobal(ctx IGeneratorContext, name string, t typesystem.NumType, inner func()) {
	ctx.BeginWriteGlobal(name, t)
	inner()
	ctx.EndWriteGlobal()
}
