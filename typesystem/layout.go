package typesystem

// StructLayoutItem is one field's resolved placement within a StructLayout.
type StructLayoutItem struct {
	Offset uint64
	Size   uint64
	Type   Type
}

// StructLayout records, for one struct type laid out in one address space,
// the offset/size/type of every field plus the struct's own total size and
// alignment.
type StructLayout struct {
	Items          []StructLayoutItem
	FieldNames     []string
	Size           uint64
	MaxAlignment   uint64
	IsRuntimeSized bool
	AddressSpace   AddressSpace
}

// ArrayStride returns the stride to use when this struct is itself the
// element type of an array: alignTo(size, maxAlignment).
func (l StructLayout) ArrayStride() uint64 {
	return roundUpAlign(l.MaxAlignment, l.Size)
}

// FieldIndex returns the index of the named field, or -1 if absent.
func (l StructLayout) FieldIndex(name string) int {
	for i, n := range l.FieldNames {
		if n == name {
			return i
		}
	}
	return -1
}

// layoutCache memoizes StructLayouts keyed by (StructType.Key(), AddressSpace)
// so that a struct type shared by many fields is only laid out once. A nil
// *layoutCache is never passed around; NewStructLayoutBuilder always
// allocates one, and NewStructLayoutBuilderWithCache takes a shared
// instance instead.
type layoutCache struct {
	entries map[string]StructLayout
}

func newLayoutCache() *layoutCache {
	return &layoutCache{entries: make(map[string]StructLayout)}
}

func cacheKey(st StructType, space AddressSpace) string {
	t := Type{Kind: KindStruct, Struct: &st}
	return t.Key() + "@" + spaceKey(space)
}

func spaceKey(space AddressSpace) string {
	switch space {
	case Uniform:
		return "uniform"
	case StorageRW:
		return "storage_rw"
	default:
		return "storage"
	}
}

func (c *layoutCache) layoutOf(st StructType, space AddressSpace) (StructLayout, error) {
	key := cacheKey(st, space)
	if l, ok := c.entries[key]; ok {
		return l, nil
	}
	b := newBuilderWithCache(space, c)
	for _, f := range st.Entries {
		if err := b.Push(f.Name, f.Type); err != nil {
			return StructLayout{}, err
		}
	}
	layout, err := b.finalizeInternal()
	if err != nil {
		return StructLayout{}, err
	}
	c.entries[key] = layout
	return layout, nil
}

// StructLayoutBuilder incrementally accumulates fields into a StructLayout.
// It is not safe for concurrent use; callers needing a shared inner-struct
// cache across builders should construct one layoutCache and pass it to
// every builder they create, provided its mutations are externally
// synchronized.
type StructLayoutBuilder struct {
	space      AddressSpace
	cache      *layoutCache
	fieldNames []string
	fieldTypes []Type
	offset     uint64
	maxAlign   uint64
	runtime    bool
	finalized  bool
}

// NewStructLayoutBuilder creates a builder targeting the given address
// space, with a private inner-struct layout cache.
func NewStructLayoutBuilder(space AddressSpace) *StructLayoutBuilder {
	return newBuilderWithCache(space, newLayoutCache())
}

// NewStructLayoutBuilderWithCache creates a builder sharing the supplied
// cache with other builders, so structurally identical inner struct types
// are laid out exactly once across all of them.
func NewStructLayoutBuilderWithCache(space AddressSpace, cache *layoutCache) *StructLayoutBuilder {
	return newBuilderWithCache(space, cache)
}

func newBuilderWithCache(space AddressSpace, cache *layoutCache) *StructLayoutBuilder {
	return &StructLayoutBuilder{space: space, cache: cache, maxAlign: 1}
}

// Push appends a field to the struct under construction. It fails if the
// builder already finalized, if name is already present with a structurally
// different type (DuplicateFieldError), or if the current tail field is a
// runtime-sized array (RuntimeArrayTailError).
func (b *StructLayoutBuilder) Push(name string, t Type) error {
	if b.finalized {
		return &FinalizedBuilderError{}
	}
	if b.runtime {
		return &RuntimeArrayTailError{Name: name}
	}
	if idx := indexOf(b.fieldNames, name); idx >= 0 {
		if !b.fieldTypes[idx].Equal(t) {
			return &DuplicateFieldError{Name: name}
		}
		return nil
	}

	align, err := mapAlignment(t, b.space, b.cache)
	if err != nil {
		return err
	}
	size, err := mapSize(t, b.space, b.cache)
	if err != nil {
		return err
	}

	b.offset = roundUpAlign(align, b.offset)
	b.fieldNames = append(b.fieldNames, name)
	b.fieldTypes = append(b.fieldTypes, t)
	b.offset += size
	if align > b.maxAlign {
		b.maxAlign = align
	}
	if t.IsRuntimeArray() {
		b.runtime = true
	}
	return nil
}

// PushFromStruct appends every entry of an existing StructType in order.
func (b *StructLayoutBuilder) PushFromStruct(st StructType) error {
	for _, f := range st.Entries {
		if err := b.Push(f.Name, f.Type); err != nil {
			return err
		}
	}
	return nil
}

// FieldNames returns the names pushed so far, in declaration order.
func (b *StructLayoutBuilder) FieldNames() []string {
	out := make([]string, len(b.fieldNames))
	copy(out, b.fieldNames)
	return out
}

// HasField reports whether name has already been pushed.
func (b *StructLayoutBuilder) HasField(name string) bool {
	return indexOf(b.fieldNames, name) >= 0
}

// ForceAlignmentTo pads the struct's total size up to the next multiple of n
// by appending a trailing `_array_padding_` field of array<f32,k>, if the
// current size is not already a multiple of n. Returns the layout item
// describing the padding field, or nil if no padding was required.
func (b *StructLayoutBuilder) ForceAlignmentTo(n uint64) (*StructLayoutItem, error) {
	if b.finalized {
		return nil, &FinalizedBuilderError{}
	}
	// In uniform space the struct size rounds up to at least 16 and the
	// padding array itself starts on a 16-byte boundary.
	structAlign, padAlign := b.maxAlign, uint64(4)
	if b.space == Uniform {
		padAlign = 16
		if structAlign < 16 {
			structAlign = 16
		}
	}
	currentSize := roundUpAlign(structAlign, b.offset)
	aligned := roundUpAlign(n, currentSize)
	if aligned == currentSize {
		return nil, nil
	}
	offsetBefore := roundUpAlign(padAlign, b.offset)
	padBytes := aligned - offsetBefore
	if padBytes%4 != 0 {
		return nil, &UnsupportedTypeError{Operation: "forceAlignmentTo: padding not a multiple of 4"}
	}
	count := padBytes / 4
	padType := NewArrayType(Float, &count)
	if err := b.Push("_array_padding_", padType); err != nil {
		return nil, err
	}
	return &StructLayoutItem{Offset: offsetBefore, Size: padBytes, Type: padType}, nil
}

// finalizeInternal produces the layout without marking the builder finalized,
// used by layoutCache for inner-struct memoization (which may need to
// continue using the same builder object's bookkeeping elsewhere).
func (b *StructLayoutBuilder) finalizeInternal() (StructLayout, error) {
	items := make([]StructLayoutItem, len(b.fieldNames))
	runningOffset := uint64(0)
	maxAlign := uint64(1)
	for i, name := range b.fieldNames {
		t := b.fieldTypes[i]
		align, err := mapAlignment(t, b.space, b.cache)
		if err != nil {
			return StructLayout{}, err
		}
		size, err := mapSize(t, b.space, b.cache)
		if err != nil {
			return StructLayout{}, err
		}
		runningOffset = roundUpAlign(align, runningOffset)
		items[i] = StructLayoutItem{Offset: runningOffset, Size: size, Type: t}
		runningOffset += size
		if align > maxAlign {
			maxAlign = align
		}
		_ = name
	}
	if b.space == Uniform && maxAlign < 16 {
		maxAlign = 16
	}
	size := roundUpAlign(maxAlign, runningOffset)
	return StructLayout{
		Items:          items,
		FieldNames:     append([]string(nil), b.fieldNames...),
		Size:           size,
		MaxAlignment:   maxAlign,
		IsRuntimeSized: b.runtime,
		AddressSpace:   b.space,
	}, nil
}

// Finalize consumes the builder, producing the final layout. After Finalize
// returns successfully no further mutation of the builder is permitted.
func (b *StructLayoutBuilder) Finalize() (StructLayout, error) {
	if b.finalized {
		return StructLayout{}, &FinalizedBuilderError{}
	}
	layout, err := b.finalizeInternal()
	if err != nil {
		return StructLayout{}, err
	}
	b.finalized = true
	return layout, nil
}

// Optimize rebuilds a new StructLayoutBuilder keeping only the fields of st
// for which filter returns true, preserving relative declaration order.
func Optimize(space AddressSpace, st StructType, filter func(name string, t Type) bool) (*StructLayoutBuilder, error) {
	b := NewStructLayoutBuilder(space)
	for _, f := range st.Entries {
		if filter(f.Name, f.Type) {
			if err := b.Push(f.Name, f.Type); err != nil {
				return nil, err
			}
		}
	}
	return b, nil
}

func indexOf(names []string, name string) int {
	for i, n := range names {
		if n == name {
			return i
		}
	}
	return -1
}

// MapSize is the exported form of mapSize for callers outside this package
// that need pure WGSL rule evaluation without a builder.
func MapSize(t Type, space AddressSpace) (uint64, error) {
	return mapSize(t, space, newLayoutCache())
}

// MapAlignment is the exported form of mapAlignment.
func MapAlignment(t Type, space AddressSpace) (uint64, error) {
	return mapAlignment(t, space, newLayoutCache())
}

// MapArrayStride is the exported form of mapArrayStride.
func MapArrayStride(t Type, space AddressSpace) (uint64, error) {
	return mapArrayStride(t, space, newLayoutCache())
}
