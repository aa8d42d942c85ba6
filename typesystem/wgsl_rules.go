package typesystem

// AddressSpace is the WGSL storage qualifier a buffer declaration lives in.
// It governs the 16-byte struct/array alignment escalation rule.
type AddressSpace int

const (
	Uniform AddressSpace = iota
	Storage
	StorageRW
)

// StorageKeyword returns the WGSL var<...> storage-class keyword for this
// address space.
func (a AddressSpace) StorageKeyword() string {
	switch a {
	case Uniform:
		return "uniform"
	case StorageRW:
		return "storage, read_write"
	default:
		return "storage"
	}
}

// roundUpAlign rounds value up to the next multiple of alignment. alignment
// must be a power of two.
func roundUpAlign(alignment, value uint64) uint64 {
	if alignment == 0 {
		return value
	}
	return (value + alignment - 1) &^ (alignment - 1)
}

// vectorLayout holds the exact WGSL size/align pair for one base-type width,
// indexed by component count (1=scalar, 2/3/4=vector). These numbers are
// normative per the WGSL specification.
type vectorLayout struct {
	size, align uint64
}

func scalarLayout(b BaseType) vectorLayout {
	s := b.scalarSize()
	return vectorLayout{size: s, align: s}
}

func vectorLayoutFor(b BaseType, components int) vectorLayout {
	s := b.scalarSize()
	switch components {
	case 1:
		return vectorLayout{size: s, align: s}
	case 2:
		return vectorLayout{size: 2 * s, align: 2 * s}
	case 3:
		return vectorLayout{size: 3 * s, align: 4 * s}
	case 4:
		return vectorLayout{size: 4 * s, align: 4 * s}
	default:
		return vectorLayout{size: s, align: s}
	}
}

// numLayout computes the unaligned-in-struct size and alignment of a NumType:
// scalars and vectors per vectorLayoutFor, matrices aligned and strided as
// MatrixDim column vectors of Components rows.
func numLayout(n NumType) (size, align uint64) {
	col := vectorLayoutFor(n.BaseType, n.Components)
	if n.MatrixDim <= 1 {
		if n.Atomic {
			s := n.BaseType.scalarSize()
			return s, s
		}
		return col.size, col.align
	}
	stride := roundUpAlign(col.align, col.size)
	return stride * uint64(n.MatrixDim), col.align
}

// mapSize returns the WGSL byte size of t. Texture and sampler types have no
// representable buffer size and fail with *UnsupportedTypeError.
func mapSize(t Type, space AddressSpace, cache *layoutCache) (uint64, error) {
	switch t.Kind {
	case KindNum:
		size, _ := numLayout(t.Num)
		return size, nil
	case KindArray:
		elemSize, err := mapSize(t.Array.Element, space, cache)
		if err != nil {
			return 0, err
		}
		elemAlign, err := mapAlignment(t.Array.Element, space, cache)
		if err != nil {
			return 0, err
		}
		stride := roundUpAlign(elemAlign, elemSize)
		if t.Array.FixedLength == nil {
			return stride, nil
		}
		return stride * *t.Array.FixedLength, nil
	case KindStruct:
		layout, err := cache.layoutOf(*t.Struct, space)
		if err != nil {
			return 0, err
		}
		return layout.Size, nil
	default:
		return 0, &UnsupportedTypeError{Type: t, Operation: "mapSize"}
	}
}

// mapAlignment returns the WGSL alignment of t in the given address space.
// Array and struct alignment are rounded up to 16 in the uniform address
// space.
func mapAlignment(t Type, space AddressSpace, cache *layoutCache) (uint64, error) {
	switch t.Kind {
	case KindNum:
		_, align := numLayout(t.Num)
		return align, nil
	case KindArray:
		elemAlign, err := mapAlignment(t.Array.Element, space, cache)
		if err != nil {
			return 0, err
		}
		if space == Uniform && elemAlign < 16 {
			elemAlign = 16
		}
		return elemAlign, nil
	case KindStruct:
		layout, err := cache.layoutOf(*t.Struct, space)
		if err != nil {
			return 0, err
		}
		return layout.MaxAlignment, nil
	default:
		return 0, &UnsupportedTypeError{Type: t, Operation: "mapAlignment"}
	}
}

// mapArrayStride returns the WGSL array stride of an ArrayType: the element
// size rounded up to the element alignment.
func mapArrayStride(a Type, space AddressSpace, cache *layoutCache) (uint64, error) {
	if a.Kind != KindArray {
		return 0, &UnsupportedTypeError{Type: a, Operation: "mapArrayStride"}
	}
	elemSize, err := mapSize(a.Array.Element, space, cache)
	if err != nil {
		return 0, err
	}
	elemAlign, err := mapAlignment(a.Array.Element, space, cache)
	if err != nil {
		return 0, err
	}
	return roundUpAlign(elemAlign, elemSize), nil
}
