package typesystem

import (
	"encoding/binary"
	"math"
)

// BufferSerializer writes and reads host scalar/vector values into a byte
// buffer at caller-supplied offsets (such as a StructLayoutItem's Offset),
// enforcing that the host
// value's base type and component count match the WGSL type found at that
// offset. It holds no buffer of its own; callers supply the destination/source
// slice on every call rather than accumulating state across writes.
type BufferSerializer struct{}

// NewBufferSerializer constructs a BufferSerializer. It carries no state;
// the constructor exists so call sites read the same way as the package's
// other New* builders.
func NewBufferSerializer() BufferSerializer {
	return BufferSerializer{}
}

func (BufferSerializer) checkScalarTarget(t Type, wantComponents int) error {
	if t.Kind != KindNum {
		return &SerializerMismatchError{Expected: t, Reason: "target is not a numeric type"}
	}
	if t.Num.Components != wantComponents {
		return &SerializerMismatchError{Expected: t, Reason: "component count mismatch"}
	}
	if t.Num.MatrixDim > 1 {
		return &SerializerMismatchError{Expected: t, Reason: "target is a matrix, not a vector"}
	}
	if t.Num.BaseType == F16 {
		return &SerializerMismatchError{Expected: t, Reason: "f16 is not a supported host serialization type"}
	}
	return nil
}

// WriteFloat32 writes a single f32 scalar at offset within dst.
func (s BufferSerializer) WriteFloat32(dst []byte, offset uint64, t Type, v float32) error {
	if err := s.checkScalarTarget(t, 1); err != nil {
		return err
	}
	if !t.Num.BaseType.IsFloat() {
		return &SerializerMismatchError{Expected: t, Reason: "value is float but target base type is integral"}
	}
	binary.LittleEndian.PutUint32(dst[offset:], math.Float32bits(v))
	return nil
}

// WriteFloat32Vec writes an N-component f32 vector at offset within dst.
// len(v) must equal the target's component count.
func (s BufferSerializer) WriteFloat32Vec(dst []byte, offset uint64, t Type, v []float32) error {
	if err := s.checkScalarTarget(t, len(v)); err != nil {
		return err
	}
	if !t.Num.BaseType.IsFloat() {
		return &SerializerMismatchError{Expected: t, Reason: "value is float but target base type is integral"}
	}
	for i, f := range v {
		binary.LittleEndian.PutUint32(dst[offset+uint64(i)*4:], math.Float32bits(f))
	}
	return nil
}

// WriteUint32 writes a single u32 scalar at offset within dst.
func (s BufferSerializer) WriteUint32(dst []byte, offset uint64, t Type, v uint32) error {
	if err := s.checkScalarTarget(t, 1); err != nil {
		return err
	}
	if t.Num.BaseType != U32 && t.Num.BaseType != Bool {
		return &SerializerMismatchError{Expected: t, Reason: "value is u32 but target base type differs"}
	}
	binary.LittleEndian.PutUint32(dst[offset:], v)
	return nil
}

// WriteInt32 writes a single i32 scalar at offset within dst.
func (s BufferSerializer) WriteInt32(dst []byte, offset uint64, t Type, v int32) error {
	if err := s.checkScalarTarget(t, 1); err != nil {
		return err
	}
	if t.Num.BaseType != I32 {
		return &SerializerMismatchError{Expected: t, Reason: "value is i32 but target base type differs"}
	}
	binary.LittleEndian.PutUint32(dst[offset:], uint32(v))
	return nil
}

// WriteMatrix writes a column-major matrix of f32 values, one column vector
// at a time, stepping by the column stride the WGSL rules give t's column
// type (16 bytes for three-row columns, matCx3). cols must have length
// t.Num.MatrixDim, each of length t.Num.Components.
func (s BufferSerializer) WriteMatrix(dst []byte, offset uint64, space AddressSpace, t Type, cols [][]float32) error {
	if t.Kind != KindNum || t.Num.MatrixDim <= 1 {
		return &SerializerMismatchError{Expected: t, Reason: "target is not a matrix type"}
	}
	if len(cols) != t.Num.MatrixDim {
		return &SerializerMismatchError{Expected: t, Reason: "column count mismatch"}
	}
	colType := NewNumType(NumType{BaseType: t.Num.BaseType, Components: t.Num.Components, MatrixDim: 1})
	colAlign, err := MapAlignment(colType, space)
	if err != nil {
		return err
	}
	colSize, err := MapSize(colType, space)
	if err != nil {
		return err
	}
	stride := roundUpAlign(colAlign, colSize)
	for i, col := range cols {
		if err := s.WriteFloat32Vec(dst, offset+uint64(i)*stride, colType, col); err != nil {
			return err
		}
	}
	return nil
}

// ReadFloat32 reads a single f32 scalar from offset within src.
func (s BufferSerializer) ReadFloat32(src []byte, offset uint64, t Type) (float32, error) {
	if err := s.checkScalarTarget(t, 1); err != nil {
		return 0, err
	}
	return math.Float32frombits(binary.LittleEndian.Uint32(src[offset:])), nil
}

// ReadFloat32Vec reads an N-component f32 vector from offset within src.
func (s BufferSerializer) ReadFloat32Vec(src []byte, offset uint64, t Type) ([]float32, error) {
	if t.Kind != KindNum || t.Num.MatrixDim > 1 {
		return nil, &SerializerMismatchError{Expected: t, Reason: "target is not a vector type"}
	}
	out := make([]float32, t.Num.Components)
	for i := range out {
		out[i] = math.Float32frombits(binary.LittleEndian.Uint32(src[offset+uint64(i)*4:]))
	}
	return out, nil
}

// ReadUint32 reads a single u32 scalar from offset within src.
func (s BufferSerializer) ReadUint32(src []byte, offset uint64, t Type) (uint32, error) {
	if err := s.checkScalarTarget(t, 1); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(src[offset:]), nil
}
