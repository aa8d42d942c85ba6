package pipelinebuilder

import (
	"github.com/Carmen-Shannon/gfx-core/meshformat"
	"github.com/cogentcore/webgpu/wgpu"
)

// PipelineBuilderOption configures a Builder before Build runs.
type PipelineBuilderOption func(*Builder)

// WithStrictEntryPointDependencies rejects entry points naming a missing
// Before/After dependency instead of silently tolerating it.
func WithStrictEntryPointDependencies() PipelineBuilderOption {
	return func(b *Builder) { b.opts.StrictEntryPointDependencies = true }
}

// WithIgnoreDrawableFeatures sets BuildPipelineOptions.IgnoreDrawableFeatures,
// which Build does not read.
func WithIgnoreDrawableFeatures() PipelineBuilderOption {
	return func(b *Builder) { b.opts.IgnoreDrawableFeatures = true }
}

// WithLabel sets a debug label applied to every device object this builder
// creates.
func WithLabel(label string) PipelineBuilderOption {
	return func(b *Builder) { b.label = label }
}

// Builder drives one pipeline build against a device. It holds no state
// between calls to Build; a single Builder may be reused for many
// unrelated builds.
type Builder struct {
	device *wgpu.Device
	opts   BuildPipelineOptions
	label  string
}

// NewBuilder constructs a Builder bound to device, applying opts.
func NewBuilder(device *wgpu.Device, opts ...PipelineBuilderOption) *Builder {
	b := &Builder{device: device}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// meshVertexStride sums the byte size of every attribute in a mesh format,
// used to derive the vertex buffer layout's stride.
func meshVertexStride(mf meshformat.MeshFormat) uint64 {
	var stride uint64
	for _, a := range mf.Attributes {
		size, _ := vertexFormatSize(a.Type)
		stride += size
	}
	return stride
}
