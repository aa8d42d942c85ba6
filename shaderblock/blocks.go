package shaderblock

import (
	"fmt"
	"sort"
	"strings"

	"github.com/Carmen-Shannon/gfx-core/typesystem"
)

// Compound applies a sequence of child blocks in order.
type Compound struct {
	Children []Block
}

// NewCompound accepts a mix of strings and Blocks, coercing each via ToBlock.
func NewCompound(children ...any) *Compound {
	return &Compound{Children: ToBlocks(children...)}
}

// Append adds more children (string or Block) to the compound.
func (c *Compound) Append(children ...any) {
	c.Children = append(c.Children, ToBlocks(children...)...)
}

// AppendLine appends children followed by a ";\n" terminator.
func (c *Compound) AppendLine(children ...any) {
	c.Append(append(children, ";\n")...)
}

// Apply implements Block.
func (c *Compound) Apply(ctx IGeneratorContext) {
	for _, child := range c.Children {
		child.Apply(ctx)
	}
}

// WithInput runs Inner if the named stage input exists, otherwise Else (if
// non-nil).
type WithInput struct {
	Name  string
	Inner Block
	Else  Block
}

// NewWithInput builds a WithInput, coercing inner/elseBlock (string or Block,
// elseBlock may be nil) via ToBlock.
func NewWithInput(name string, inner any, elseBlock any) WithInput {
	return WithInput{Name: name, Inner: ToBlock(inner), Else: ToBlock(elseBlock)}
}

// Apply implements Block.
func (w WithInput) Apply(ctx IGeneratorContext) {
	if ctx.HasInput(w.Name) {
		w.Inner.Apply(ctx)
	} else if w.Else != nil {
		w.Else.Apply(ctx)
	}
}

// WithOutput runs Inner if the named stage output already exists, otherwise
// Else (if non-nil).
type WithOutput struct {
	Name  string
	Inner Block
	Else  Block
}

// NewWithOutput builds a WithOutput.
func NewWithOutput(name string, inner any, elseBlock any) WithOutput {
	return WithOutput{Name: name, Inner: ToBlock(inner), Else: ToBlock(elseBlock)}
}

// Apply implements Block.
func (w WithOutput) Apply(ctx IGeneratorContext) {
	if ctx.HasOutput(w.Name) {
		w.Inner.Apply(ctx)
	} else if w.Else != nil {
		w.Else.Apply(ctx)
	}
}

// WithTexture runs Inner if the named texture binding exists, otherwise Else
// (if non-nil). DefaultTexcoordRequired governs whether the bound texture
// must carry a default texture-coordinate source to count as present.
type WithTexture struct {
	Name                     string
	DefaultTexcoordRequired  bool
	Inner                    Block
	Else                     Block
}

// NewWithTexture builds a WithTexture.
func NewWithTexture(name string, defaultTexcoordRequired bool, inner any, elseBlock any) WithTexture {
	return WithTexture{Name: name, DefaultTexcoordRequired: defaultTexcoordRequired, Inner: ToBlock(inner), Else: ToBlock(elseBlock)}
}

// Apply implements Block.
func (w WithTexture) Apply(ctx IGeneratorContext) {
	if ctx.HasTexture(w.Name, w.DefaultTexcoordRequired) {
		w.Inner.Apply(ctx)
	} else if w.Else != nil {
		w.Else.Apply(ctx)
	}
}

// WriteOutput emits `<output-target> = <inner>;\n`, declaring the output
// with the given type if it does not already exist.
type WriteOutput struct {
	Name  string
	Type  typesystem.NumType
	Inner Block
}

// NewWriteOutput builds a WriteOutput from one or more inner values, joined
// as a Compound when more than one is given.
func NewWriteOutput(name string, t typesystem.NumType, inner ...any) WriteOutput {
	return WriteOutput{Name: name, Type: t, Inner: innerOf(inner...)}
}

func innerOf(inner ...any) Block {
	if len(inner) == 1 {
		return ToBlock(inner[0])
	}
	return NewCompound(inner...)
}

// Apply implements Block.
func (w WriteOutput) Apply(ctx IGeneratorContext) {
	ctx.WriteOutput(w.Name, w.Type)
	ctx.Write(" = ")
	w.Inner.Apply(ctx)
	ctx.Write(";\n")
}

// ReadInput emits a reference to a stage input variable.
type ReadInput struct {
	Name string
}

// Apply implements Block.
func (r ReadInput) Apply(ctx IGeneratorContext) { ctx.ReadInput(r.Name) }

// WriteGlobal emits an assignment to a named global, declaring it with Type
// if new.
type WriteGlobal struct {
	Name  string
	Type  typesystem.NumType
	Inner Block
}

// NewWriteGlobal builds a WriteGlobal from one or more inner values.
func NewWriteGlobal(name string, t typesystem.NumType, inner ...any) WriteGlobal {
	return WriteGlobal{Name: name, Type: t, Inner: innerOf(inner...)}
}

// Apply implements Block.
func (w WriteGlobal) Apply(ctx IGeneratorContext) {
	RunWriteGlobal(ctx, w.Name, w.Type, func() { w.Inner.Apply(ctx) })
}

// ReadGlobal emits a reference to a named global variable.
type ReadGlobal struct {
	Name string
}

// Apply implements Block.
func (r ReadGlobal) Apply(ctx IGeneratorContext) { ctx.ReadGlobal(r.Name) }

// ReadBuffer emits a reference to a named field of a bound buffer, defaulting
// BufferName to "object" as the original does for per-draw data.
type ReadBuffer struct {
	FieldName  string
	Type       typesystem.NumType
	BufferName string
}

// NewReadBuffer builds a ReadBuffer, defaulting bufferName to "object" when
// empty.
func NewReadBuffer(fieldName string, t typesystem.NumType, bufferName string) ReadBuffer {
	if bufferName == "" {
		bufferName = "object"
	}
	return ReadBuffer{FieldName: fieldName, Type: t, BufferName: bufferName}
}

// Apply implements Block.
func (r ReadBuffer) Apply(ctx IGeneratorContext) {
	ctx.ReadBuffer(r.FieldName, r.Type, r.BufferName)
}

// RefBuffer records that a buffer is referenced without reading any specific
// field from it, keeping the whole buffer binding alive through pruning.
type RefBuffer struct {
	BufferName string
}

// Apply implements Block.
func (r RefBuffer) Apply(ctx IGeneratorContext) { ctx.RefBuffer(r.BufferName) }

// SampleTexture emits textureSample(tex, sampler, coord). SampleCoordinate
// may be nil, in which case the context's default texture coordinate source
// for Name is used.
type SampleTexture struct {
	Name             string
	SampleCoordinate Block
}

// NewSampleTexture builds a SampleTexture, coercing coordinate (string,
// Block, or nil) via ToBlock.
func NewSampleTexture(name string, coordinate any) SampleTexture {
	return SampleTexture{Name: name, SampleCoordinate: ToBlock(coordinate)}
}

// Apply implements Block.
func (s SampleTexture) Apply(ctx IGeneratorContext) {
	ctx.Write("textureSample(")
	ctx.Texture(s.Name)
	ctx.Write(", ")
	ctx.TextureDefaultSampler(s.Name)
	ctx.Write(", ")
	if s.SampleCoordinate != nil {
		s.SampleCoordinate.Apply(ctx)
	} else {
		ctx.TextureDefaultTextureCoordinate(s.Name)
	}
	ctx.Write(")")
}

// LinearizeDepth converts a clip-space depth value to view-space linear
// depth using the view buffer's projection matrix, per the
// linalg::frustum_matrix convention (forward=neg_z, range=zero_to_one):
// given range=far-near, a=-far/range, b=-near*far/range, linear depth equals
// b / (clip_depth + a). proj[2][2] and proj[3][2] recover a and b without
// needing near/far directly.
type LinearizeDepth struct {
	Input Block
}

// NewLinearizeDepth wraps input (string or Block) in a LinearizeDepth.
func NewLinearizeDepth(input any) LinearizeDepth {
	return LinearizeDepth{Input: ToBlock(input)}
}

// Apply implements Block.
func (l LinearizeDepth) Apply(ctx IGeneratorContext) {
	funcName := ctx.GenerateTempVariable()
	ctx.PushHeaderScope()
	ctx.Write(fmt.Sprintf(`fn %s(proj: mat4x4<f32>, clip_depth: f32) -> f32 {
  let a = proj[2][2];
  let b = proj[3][2];
  return b / (clip_depth + a);
}
`, funcName))
	ctx.PopHeaderScope()

	ctx.Write(funcName + "(")
	ctx.ReadBuffer("proj", typesystem.Float4x4.Num, "view")
	ctx.Write(", ")
	l.Input.Apply(ctx)
	ctx.Write(")")
}

// Custom runs an arbitrary callback at generation time. Equivalent to
// BlockFunc; kept as a distinct named type so generated ASTs read the same
// way the original's blocks::Custom did.
type Custom struct {
	Callback func(ctx IGeneratorContext)
}

// Apply implements Block.
func (c Custom) Apply(ctx IGeneratorContext) { c.Callback(ctx) }

// DefaultInterpolation generates passthrough outputs for every stage input
// whose name matches one of MatchPrefixes, when that name does not already
// have an output written. This is how the built-in "interpolate" vertex
// entry point carries fragment-stage inputs through without every feature
// needing to wire its own pass-through block.
type DefaultInterpolation struct {
	MatchPrefixes []string
}

// NewDefaultInterpolation returns a DefaultInterpolation matching the
// standard vertex-to-fragment carrier prefixes.
func NewDefaultInterpolation() DefaultInterpolation {
	return DefaultInterpolation{MatchPrefixes: []string{"color", "texCoord", "worldNormal", "worldPosition"}}
}

// Apply implements Block.
func (d DefaultInterpolation) Apply(ctx IGeneratorContext) {
	defs := ctx.Definitions()
	names := make([]string, 0, len(defs.Inputs))
	for name := range defs.Inputs {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		t := defs.Inputs[name]
		if !hasAnyPrefix(name, d.MatchPrefixes) {
			continue
		}
		if ctx.HasOutput(name) {
			continue
		}
		ctx.WriteOutput(name, t)
		ctx.Write(" = ")
		ctx.ReadInput(name)
		ctx.Write(";\n")
	}
}

func hasAnyPrefix(s string, prefixes []string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(s, p) {
			return true
		}
	}
	return false
}
