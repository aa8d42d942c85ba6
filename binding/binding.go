// Package binding describes the resource bindings a render pipeline exposes
// to its shader stages: per-draw and per-view buffers, sampled textures, and
// the fixed two-group layout (Draw=0, View=1) the pipeline builder assigns
// them into.
package binding

import "github.com/Carmen-Shannon/gfx-core/typesystem"

// BindGroupId names the two fixed bind groups a pipeline uses. Bindings
// within each group are assigned densely starting at 0 in declaration order.
type BindGroupId int

const (
	Draw BindGroupId = iota
	View
)

func (g BindGroupId) String() string {
	if g == View {
		return "view"
	}
	return "draw"
}

// DimensionKind discriminates the cases of Dimension.
type DimensionKind int

const (
	// One is a single, statically-sized instance of the buffer's struct type.
	DimensionOne DimensionKind = iota
	// Fixed is a compile-time-known-length array of the struct type.
	DimensionFixed
	// Dynamic is a runtime-sized array addressed with a dynamic byte offset
	// per draw, indexed via a WGSL dynamic offset.
	DimensionDynamic
	// PerInstance indicates the binding is indexed by instance index rather
	// than by a dynamic byte offset.
	DimensionPerInstance
)

// Dimension describes how many instances of a buffer's element type a
// binding's underlying storage holds and how an individual instance is
// selected at draw time.
type Dimension struct {
	Kind   DimensionKind
	Length uint64 // meaningful only when Kind == DimensionFixed
}

// One is the Dimension for a buffer holding exactly one struct instance.
func One() Dimension { return Dimension{Kind: DimensionOne} }

// Fixed is the Dimension for a buffer holding a compile-time-known array.
func Fixed(length uint64) Dimension { return Dimension{Kind: DimensionFixed, Length: length} }

// DynamicDim is the Dimension for a runtime-sized, dynamic-offset-addressed
// buffer.
func DynamicDim() Dimension { return Dimension{Kind: DimensionDynamic} }

// PerInstanceDim is the Dimension for a buffer indexed by instance index.
func PerInstanceDim() Dimension { return Dimension{Kind: DimensionPerInstance} }

// RequiresDynamicOffset reports whether a binding with this dimension must
// be recorded among the pipeline's ordered dynamic buffer offsets.
func (d Dimension) RequiresDynamicOffset() bool { return d.Kind == DimensionDynamic }

// BufferBinding is one named buffer resource assigned to a bind group.
type BufferBinding struct {
	BindGroup    BindGroupId
	Binding      uint32
	Name         string
	Layout       typesystem.Type
	AddressSpace typesystem.AddressSpace
	Dimension    Dimension
}

// TextureBinding is one named sampled-texture resource plus its paired
// sampler, consuming two consecutive binding slots within a bind group.
type TextureBinding struct {
	BindGroup      BindGroupId
	Binding        uint32
	SamplerBinding uint32
	Name           string
	Texture        typesystem.TextureType
}

// Layout is the complete, densely-numbered set of bindings a pipeline
// exposes, plus the ordered list of dynamic-offset buffers a draw call must
// supply offsets for, in the order they were encountered.
type Layout struct {
	Buffers           []BufferBinding
	Textures          []TextureBinding
	DynamicBufferRefs []string
}

// NewLayoutBuilder starts an empty Layout under construction.
func NewLayoutBuilder() *LayoutBuilder {
	return &LayoutBuilder{nextBinding: map[BindGroupId]uint32{}}
}

// LayoutBuilder assigns dense, group-scoped binding indices as resources are
// added, in the order AddBuffer/AddTexture are called.
type LayoutBuilder struct {
	nextBinding map[BindGroupId]uint32
	layout      Layout
}

// AddBuffer appends a buffer binding to group, assigning it the next free
// binding index within that group.
func (b *LayoutBuilder) AddBuffer(group BindGroupId, name string, layout typesystem.Type, space typesystem.AddressSpace, dim Dimension) BufferBinding {
	binding := BufferBinding{
		BindGroup:    group,
		Binding:      b.nextBinding[group],
		Name:         name,
		Layout:       layout,
		AddressSpace: space,
		Dimension:    dim,
	}
	b.nextBinding[group]++
	b.layout.Buffers = append(b.layout.Buffers, binding)
	if dim.RequiresDynamicOffset() {
		b.layout.DynamicBufferRefs = append(b.layout.DynamicBufferRefs, name)
	}
	return binding
}

// AddTexture appends a texture binding (consuming two binding slots: the
// texture itself and its default sampler) to group.
func (b *LayoutBuilder) AddTexture(group BindGroupId, name string, t typesystem.TextureType) TextureBinding {
	binding := TextureBinding{
		BindGroup:      group,
		Binding:        b.nextBinding[group],
		SamplerBinding: b.nextBinding[group] + 1,
		Name:           name,
		Texture:        t,
	}
	b.nextBinding[group] += 2
	b.layout.Textures = append(b.layout.Textures, binding)
	return binding
}

// Build finalizes the layout.
func (b *LayoutBuilder) Build() Layout { return b.layout }
