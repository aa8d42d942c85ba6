package typesystem

import "testing"

func TestSerializerFloat32RoundTrip(t *testing.T) {
	s := NewBufferSerializer()
	buf := make([]byte, 4)
	if err := s.WriteFloat32(buf, 0, Float, 3.5); err != nil {
		t.Fatalf("WriteFloat32: %v", err)
	}
	got, err := s.ReadFloat32(buf, 0, Float)
	if err != nil {
		t.Fatalf("ReadFloat32: %v", err)
	}
	if got != 3.5 {
		t.Errorf("got %v, want 3.5", got)
	}
}

func TestSerializerVectorRoundTrip(t *testing.T) {
	s := NewBufferSerializer()
	buf := make([]byte, 16)
	in := []float32{1, 2, 3, 4}
	if err := s.WriteFloat32Vec(buf, 0, Float4, in); err != nil {
		t.Fatalf("WriteFloat32Vec: %v", err)
	}
	out, err := s.ReadFloat32Vec(buf, 0, Float4)
	if err != nil {
		t.Fatalf("ReadFloat32Vec: %v", err)
	}
	for i := range in {
		if in[i] != out[i] {
			t.Errorf("component %d: got %v, want %v", i, out[i], in[i])
		}
	}
}

func TestSerializerRejectsComponentMismatch(t *testing.T) {
	s := NewBufferSerializer()
	buf := make([]byte, 16)
	if err := s.WriteFloat32Vec(buf, 0, Float3, []float32{1, 2, 3, 4}); err == nil {
		t.Fatal("expected SerializerMismatchError for component count mismatch")
	}
}

func TestSerializerRejectsBaseTypeMismatch(t *testing.T) {
	s := NewBufferSerializer()
	buf := make([]byte, 4)
	if err := s.WriteUint32(buf, 0, Float, 7); err == nil {
		t.Fatal("expected SerializerMismatchError writing u32 into an f32 field")
	}
}

func TestSerializerRejectsF16(t *testing.T) {
	s := NewBufferSerializer()
	half := NewNumType(NumType{BaseType: F16, Components: 1, MatrixDim: 1})
	buf := make([]byte, 4)
	if err := s.WriteFloat32(buf, 0, half, 1.0); err == nil {
		t.Fatal("expected f16 writes to be rejected as unsupported")
	}
}

func TestSerializerMatrixColumnStride(t *testing.T) {
	s := NewBufferSerializer()
	buf := make([]byte, 64)
	cols := [][]float32{
		{1, 0, 0, 0},
		{0, 1, 0, 0},
		{0, 0, 1, 0},
		{0, 0, 0, 1},
	}
	if err := s.WriteMatrix(buf, 0, Uniform, Float4x4, cols); err != nil {
		t.Fatalf("WriteMatrix: %v", err)
	}
	col2, err := s.ReadFloat32Vec(buf[32:], 0, Float4)
	if err != nil {
		t.Fatalf("ReadFloat32Vec: %v", err)
	}
	if col2[2] != 1 {
		t.Errorf("third column z = %v, want 1 (identity matrix)", col2[2])
	}
}
