package bind_group_provider

import "github.com/cogentcore/webgpu/wgpu"

// BufferWrite describes a single GPU buffer write operation targeting a specific binding
// on a BindGroupProvider at a given byte offset. Producers (material.Material's shader
// param serialization, scene-level view uniforms) stage these once per frame; ApplyWrites
// flushes the batch through a single queue.
type BufferWrite struct {
	Provider BindGroupProvider
	Binding  int
	Offset   uint64
	Data     []byte
}

// ApplyWrites flushes a batch of staged buffer writes to the GPU queue. A write whose
// provider has not yet been realized for the binding it targets (Buffer returns nil) is
// silently skipped, since that binding may belong to a group InitFromBindingLayout hasn't
// been run against yet.
//
// Parameters:
//   - queue: the device queue to submit the writes to
//   - writes: the staged writes to flush
func ApplyWrites(queue *wgpu.Queue, writes []BufferWrite) {
	for _, w := range writes {
		buf := w.Provider.Buffer(w.Binding)
		if buf == nil {
			continue
		}
		queue.WriteBuffer(buf, w.Offset, w.Data)
	}
}
