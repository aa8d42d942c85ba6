// Package typesystem implements the WGSL-equivalent type representation and struct
// layout rules consumed by the shader generator and pipeline builder: scalars,
// vectors, matrices, fixed/runtime-sized arrays, structs, textures, and samplers,
// plus the byte-size and alignment computations the WebGPU Shading Language
// mandates for the uniform and storage address spaces.
package typesystem

import (
	"fmt"
	"strings"
)

// BaseType is the scalar element type underlying a NumType.
type BaseType int

const (
	Bool BaseType = iota
	U8
	I8
	U16
	I16
	U32
	I32
	F16
	F32
)

// String returns the WGSL-ish lowercase name of the base type.
func (b BaseType) String() string {
	switch b {
	case Bool:
		return "bool"
	case U8:
		return "u8"
	case I8:
		return "i8"
	case U16:
		return "u16"
	case I16:
		return "i16"
	case U32:
		return "u32"
	case I32:
		return "i32"
	case F16:
		return "f16"
	case F32:
		return "f32"
	default:
		return "unknown"
	}
}

// IsFloat reports whether the base type is a floating-point scalar.
func (b BaseType) IsFloat() bool {
	return b == F16 || b == F32
}

// IsInteger reports whether the base type is an integral scalar (including bool).
func (b BaseType) IsInteger() bool {
	return !b.IsFloat()
}

// scalarSize returns the byte size of one component of this base type.
func (b BaseType) scalarSize() uint64 {
	switch b {
	case Bool, U32, I32, F32:
		return 4
	case U8, I8:
		return 1
	case U16, I16, F16:
		return 2
	default:
		return 4
	}
}

// Kind discriminates the tagged-union cases of Type.
type Kind int

const (
	KindNum Kind = iota
	KindArray
	KindStruct
	KindTexture
	KindSampler
)

// TextureDimension enumerates the dimensionalities a TextureType may declare.
type TextureDimension int

const (
	TextureD1 TextureDimension = iota
	TextureD2
	TextureCube
)

// SampleFormat enumerates the sampling behavior of a texture binding.
type SampleFormat int

const (
	SampleInt SampleFormat = iota
	SampleUInt
	SampleFloat
	SampleUnfilterableFloat
	SampleDepth
)

// NumType describes a scalar, vector, matrix, or matrix column count of a given
// base type. Components==1 && MatrixDim==1 is a plain scalar; Components>1 with
// MatrixDim==1 is a vector; MatrixDim>1 is a matrix with MatrixDim columns of
// Components-row vectors. Atomic is only meaningful for scalar i32/u32.
type NumType struct {
	BaseType   BaseType
	Components int
	MatrixDim  int
	Atomic     bool
}

// TextureType describes a sampled texture binding.
type TextureType struct {
	Dimension    TextureDimension
	SampleFormat SampleFormat
}

// SamplerType is the singleton sampler binding type.
type SamplerType struct{}

// ArrayType wraps an element type with an optional fixed length. A nil
// FixedLength denotes a runtime-sized array, legal only as the final field of
// its enclosing struct.
type ArrayType struct {
	Element     Type
	FixedLength *uint64
}

// StructField is one named, ordered member of a StructType.
type StructField struct {
	Name string
	Type Type
}

// StructType is an ordered sequence of named fields. Two StructTypes are
// value-equal (share a Key()) when their field lists are pairwise equal, both
// in name and type, independent of identity.
type StructType struct {
	Entries []StructField
}

// Type is a tagged-union value. Exactly one of the embedded pointer/value
// fields is meaningful, selected by Kind. A Type is copied by value; the
// pointer fields exist purely to avoid infinite recursion in the Go type
// definition (an ArrayType/StructType may recursively contain a Type).
type Type struct {
	Kind    Kind
	Num     NumType
	Array   *ArrayType
	Struct  *StructType
	Texture TextureType
	Sampler SamplerType
}

// NewNumType builds a Type wrapping a NumType value.
func NewNumType(n NumType) Type { return Type{Kind: KindNum, Num: n} }

// NewArrayType builds a Type wrapping an ArrayType value.
func NewArrayType(element Type, fixedLength *uint64) Type {
	return Type{Kind: KindArray, Array: &ArrayType{Element: element, FixedLength: fixedLength}}
}

// NewStructType builds a Type wrapping a StructType value.
func NewStructType(entries ...StructField) Type {
	cp := make([]StructField, len(entries))
	copy(cp, entries)
	return Type{Kind: KindStruct, Struct: &StructType{Entries: cp}}
}

// NewTextureType builds a Type wrapping a TextureType value.
func NewTextureType(dim TextureDimension, format SampleFormat) Type {
	return Type{Kind: KindTexture, Texture: TextureType{Dimension: dim, SampleFormat: format}}
}

// NewSamplerType builds the singleton sampler Type.
func NewSamplerType() Type {
	return Type{Kind: KindSampler}
}

// IsRuntimeArray reports whether t is an ArrayType with no fixed length.
func (t Type) IsRuntimeArray() bool {
	return t.Kind == KindArray && t.Array.FixedLength == nil
}

// Key returns a canonical string encoding of the type, suitable as a map key
// for structural-equality caches such as the inner-struct layout cache keyed
// by StructType identity. Two Types with pairwise-equal structure always
// produce the same Key, regardless of the identity of any nested pointers.
func (t Type) Key() string {
	var b strings.Builder
	t.writeKey(&b)
	return b.String()
}

func (t Type) writeKey(b *strings.Builder) {
	switch t.Kind {
	case KindNum:
		fmt.Fprintf(b, "num(%s,%d,%d,%v)", t.Num.BaseType, t.Num.Components, t.Num.MatrixDim, t.Num.Atomic)
	case KindArray:
		b.WriteString("array(")
		t.Array.Element.writeKey(b)
		if t.Array.FixedLength != nil {
			fmt.Fprintf(b, ",%d)", *t.Array.FixedLength)
		} else {
			b.WriteString(",runtime)")
		}
	case KindStruct:
		b.WriteString("struct{")
		for i, f := range t.Struct.Entries {
			if i > 0 {
				b.WriteByte(';')
			}
			b.WriteString(f.Name)
			b.WriteByte(':')
			f.Type.writeKey(b)
		}
		b.WriteByte('}')
	case KindTexture:
		fmt.Fprintf(b, "texture(%d,%d)", t.Texture.Dimension, t.Texture.SampleFormat)
	case KindSampler:
		b.WriteString("sampler")
	}
}

// Equal reports structural equality between two types (see Key).
func (t Type) Equal(other Type) bool {
	return t.Key() == other.Key()
}

// WGSLName returns the WGSL source-level spelling of the type, used by the
// generator and type-builder when emitting struct and variable declarations.
func (t Type) WGSLName() string {
	switch t.Kind {
	case KindNum:
		return numTypeWGSLName(t.Num)
	case KindArray:
		elem := t.Array.Element.WGSLName()
		if t.Array.FixedLength != nil {
			return fmt.Sprintf("array<%s, %d>", elem, *t.Array.FixedLength)
		}
		return fmt.Sprintf("array<%s>", elem)
	case KindStruct:
		// Anonymous. shadergen names a buffer binding's top-level struct
		// itself (<buffer>_t) when declaring it; a struct nested inside
		// another prints as this placeholder.
		return "struct"
	case KindTexture:
		return textureTypeWGSLName(t.Texture)
	case KindSampler:
		return "sampler"
	default:
		return "unknown"
	}
}

func numTypeWGSLName(n NumType) string {
	base := n.BaseType.String()
	if n.Atomic {
		return fmt.Sprintf("atomic<%s>", base)
	}
	if n.MatrixDim > 1 {
		return fmt.Sprintf("mat%dx%d<%s>", n.MatrixDim, n.Components, base)
	}
	if n.Components > 1 {
		return fmt.Sprintf("vec%d<%s>", n.Components, base)
	}
	return base
}

func textureTypeWGSLName(t TextureType) string {
	var dim string
	switch t.Dimension {
	case TextureD1:
		dim = "1d"
	case TextureD2:
		dim = "2d"
	case TextureCube:
		dim = "cube"
	}
	if t.SampleFormat == SampleDepth {
		return fmt.Sprintf("texture_depth_%s", dim)
	}
	var sampled string
	switch t.SampleFormat {
	case SampleInt:
		sampled = "i32"
	case SampleUInt:
		sampled = "u32"
	default:
		sampled = "f32"
	}
	return fmt.Sprintf("texture_%s<%s>", dim, sampled)
}

// Common named numeric Type values (use .Num where a NumType is required),
// mirroring the frequently-used constants
// a shader author reaches for (analogous to the original's Types namespace).
var (
	Float   = NewNumType(NumType{BaseType: F32, Components: 1, MatrixDim: 1})
	Float2  = NewNumType(NumType{BaseType: F32, Components: 2, MatrixDim: 1})
	Float3  = NewNumType(NumType{BaseType: F32, Components: 3, MatrixDim: 1})
	Float4  = NewNumType(NumType{BaseType: F32, Components: 4, MatrixDim: 1})
	Float2x2 = NewNumType(NumType{BaseType: F32, Components: 2, MatrixDim: 2})
	Float3x3 = NewNumType(NumType{BaseType: F32, Components: 3, MatrixDim: 3})
	Float4x4 = NewNumType(NumType{BaseType: F32, Components: 4, MatrixDim: 4})
	UInt32  = NewNumType(NumType{BaseType: U32, Components: 1, MatrixDim: 1})
	Int32   = NewNumType(NumType{BaseType: I32, Components: 1, MatrixDim: 1})
	Int2    = NewNumType(NumType{BaseType: I32, Components: 2, MatrixDim: 1})
	Int3    = NewNumType(NumType{BaseType: I32, Components: 3, MatrixDim: 1})
	Int4    = NewNumType(NumType{BaseType: I32, Components: 4, MatrixDim: 1})
	BoolT   = NewNumType(NumType{BaseType: Bool, Components: 1, MatrixDim: 1})
)
