package pipelinebuilder

import (
	"github.com/Carmen-Shannon/gfx-core/typesystem"
	"github.com/cogentcore/webgpu/wgpu"
)

// vertexFormatSize maps a vertex attribute's NumType to its wgpu vertex
// format and byte size.
func vertexFormatSize(t typesystem.NumType) (uint64, wgpu.VertexFormat) {
	switch {
	case t.BaseType == typesystem.F32 && t.Components == 1:
		return 4, wgpu.VertexFormatFloat32
	case t.BaseType == typesystem.F32 && t.Components == 2:
		return 8, wgpu.VertexFormatFloat32x2
	case t.BaseType == typesystem.F32 && t.Components == 3:
		return 12, wgpu.VertexFormatFloat32x3
	case t.BaseType == typesystem.F32 && t.Components == 4:
		return 16, wgpu.VertexFormatFloat32x4
	case t.BaseType == typesystem.U32 && t.Components == 1:
		return 4, wgpu.VertexFormatUint32
	case t.BaseType == typesystem.U32 && t.Components == 2:
		return 8, wgpu.VertexFormatUint32x2
	case t.BaseType == typesystem.U32 && t.Components == 4:
		return 16, wgpu.VertexFormatUint32x4
	case t.BaseType == typesystem.I32 && t.Components == 1:
		return 4, wgpu.VertexFormatSint32
	case t.BaseType == typesystem.I32 && t.Components == 4:
		return 16, wgpu.VertexFormatSint32x4
	default:
		return 4, wgpu.VertexFormatFloat32
	}
}
