package bind_group_provider

import (
	"fmt"

	"github.com/Carmen-Shannon/gfx-core/binding"
	"github.com/Carmen-Shannon/gfx-core/typesystem"
	"github.com/cogentcore/webgpu/wgpu"
)

// InitFromBindingLayout creates the GPU buffers, bind group layout, and bind
// group for the subset of layout belonging to group, writing the created
// handles back onto provider. Texture and sampler bindings must already be
// populated on provider via SetTextureView/SetSampler before calling this.
func InitFromBindingLayout(device *wgpu.Device, provider BindGroupProvider, layout binding.Layout, group binding.BindGroupId) error {
	entries := make([]wgpu.BindGroupLayoutEntry, 0, len(layout.Buffers)+2*len(layout.Textures))

	for _, b := range layout.Buffers {
		if b.BindGroup != group {
			continue
		}
		size, err := typesystem.MapSize(b.Layout, b.AddressSpace)
		if err != nil {
			return fmt.Errorf("bind_group_provider: sizing buffer %q: %w", b.Name, err)
		}
		bufType, usage := bufferTypeAndUsage(b.AddressSpace)
		entries = append(entries, wgpu.BindGroupLayoutEntry{
			Binding:    b.Binding,
			Visibility: wgpu.ShaderStageVertex | wgpu.ShaderStageFragment,
			Buffer: wgpu.BufferBindingLayout{
				Type:             bufType,
				HasDynamicOffset: b.Dimension.RequiresDynamicOffset(),
				MinBindingSize:   size,
			},
		})
		buf, err := device.CreateBuffer(&wgpu.BufferDescriptor{
			Label: provider.Label() + " " + b.Name,
			Size:  size,
			Usage: usage,
		})
		if err != nil {
			return fmt.Errorf("bind_group_provider: creating buffer %q: %w", b.Name, err)
		}
		provider.SetBuffer(int(b.Binding), buf)
	}

	for _, t := range layout.Textures {
		if t.BindGroup != group {
			continue
		}
		entries = append(entries,
			wgpu.BindGroupLayoutEntry{
				Binding:    t.Binding,
				Visibility: wgpu.ShaderStageFragment,
				Texture:    wgpu.TextureBindingLayout{SampleType: wgpu.TextureSampleTypeFloat},
			},
			wgpu.BindGroupLayoutEntry{
				Binding:    t.SamplerBinding,
				Visibility: wgpu.ShaderStageFragment,
				Sampler:    wgpu.SamplerBindingLayout{Type: wgpu.SamplerBindingTypeFiltering},
			},
		)
	}

	if len(entries) == 0 {
		provider.SetGroup(group)
		return nil
	}

	bgLayout, err := device.CreateBindGroupLayout(&wgpu.BindGroupLayoutDescriptor{
		Label:   provider.Label() + " Layout",
		Entries: entries,
	})
	if err != nil {
		return fmt.Errorf("bind_group_provider: creating bind group layout: %w", err)
	}
	provider.SetBindGroupLayout(bgLayout)
	provider.SetGroup(group)

	bindGroupEntries := make([]wgpu.BindGroupEntry, len(entries))
	for i, entry := range entries {
		binding := int(entry.Binding)
		switch {
		case entry.Texture.SampleType != wgpu.TextureSampleTypeUndefined:
			tv := provider.TextureView(binding)
			if tv == nil {
				return fmt.Errorf("bind_group_provider: texture binding %d has no texture view — call SetTextureView first", binding)
			}
			bindGroupEntries[i] = wgpu.BindGroupEntry{Binding: entry.Binding, TextureView: tv}
		case entry.Sampler.Type != wgpu.SamplerBindingTypeUndefined:
			s := provider.Sampler(binding)
			if s == nil {
				return fmt.Errorf("bind_group_provider: sampler binding %d has no sampler — call SetSampler first", binding)
			}
			bindGroupEntries[i] = wgpu.BindGroupEntry{Binding: entry.Binding, Sampler: s}
		default:
			buf := provider.Buffer(binding)
			bindGroupEntries[i] = wgpu.BindGroupEntry{Binding: entry.Binding, Buffer: buf, Offset: 0, Size: wgpu.WholeSize}
		}
	}

	bg, err := device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:   provider.Label() + " Bind Group",
		Layout:  bgLayout,
		Entries: bindGroupEntries,
	})
	if err != nil {
		return fmt.Errorf("bind_group_provider: creating bind group: %w", err)
	}
	provider.SetBindGroup(bg)
	return nil
}

func bufferTypeAndUsage(space typesystem.AddressSpace) (wgpu.BufferBindingType, wgpu.BufferUsage) {
	switch space {
	case typesystem.Storage:
		return wgpu.BufferBindingTypeReadOnlyStorage, wgpu.BufferUsageStorage | wgpu.BufferUsageCopyDst
	case typesystem.StorageRW:
		return wgpu.BufferBindingTypeStorage, wgpu.BufferUsageStorage | wgpu.BufferUsageCopyDst
	default:
		return wgpu.BufferBindingTypeUniform, wgpu.BufferUsageUniform | wgpu.BufferUsageCopyDst
	}
}
