package pipelinebuilder

import (
	"fmt"

	"github.com/Carmen-Shannon/gfx-core/binding"
	"github.com/Carmen-Shannon/gfx-core/feature"
	"github.com/Carmen-Shannon/gfx-core/meshformat"
	"github.com/Carmen-Shannon/gfx-core/shaderblock"
	"github.com/Carmen-Shannon/gfx-core/shadergen"
	"github.com/Carmen-Shannon/gfx-core/typesystem"
	"github.com/cogentcore/webgpu/wgpu"
)

// build accumulates the mutable state threaded through every step of one
// Build call. It is never shared between builds.
type build struct {
	device       *wgpu.Device
	opts         BuildPipelineOptions
	label        string
	features     []*feature.Feature
	meshFormat   meshformat.MeshFormat
	targets      meshformat.RenderTargetLayout

	viewFields   []typesystem.StructField
	objectFields []typesystem.StructField
	objectDim    binding.Dimension

	outputFields []meshformat.RenderTargetEntry
	entryPoints  []shadergen.EntryPoint
	textures     []textureRequest

	bufferBindings  []binding.BufferBinding
	textureBindings []binding.TextureBinding

	indexed shadergen.IndexedBindings

	combinedState feature.PipelineState

	state State
}

type textureRequest struct {
	name string
	t    typesystem.TextureType
}

// Build runs the full build sequence against features, producing a
// CachedPipeline or a pipeline carrying only CompilationError.
func (b *Builder) Build(features []*feature.Feature, mf meshformat.MeshFormat, targets meshformat.RenderTargetLayout) (*CachedPipeline, error) {
	st := &build{
		device:     b.device,
		opts:       b.opts,
		label:      b.label,
		features:   features,
		meshFormat: mf,
		targets:    targets,
		objectDim:  binding.One(),
		state:      Seeded,
	}

	steps := []func(*build) error{
		(*build).collectParameters,
		(*build).setMeshFormat,
		(*build).determineOutputFields,
		(*build).collectEntryPoints,
		(*build).collectTextureBindings,
		(*build).firstShaderSetup,
		(*build).indexBindings,
		(*build).optimizeBufferLayouts,
		(*build).secondShaderSetup,
		(*build).buildBindGroupLayouts,
	}
	stateAfter := []State{
		ParametersCollected,
		ParametersCollected, // mesh format carries no dedicated state transition
		ParametersCollected,
		EntryPointsCollected,
		TexturesCollected,
		TexturesCollected, // coarse setup is internal bookkeeping only
		IndexedBindingsState,
		OptimizedLayouts,
		OptimizedLayouts, // optimized setup is internal bookkeeping only
		LayoutsBuilt,
	}

	for i, step := range steps {
		if err := step(st); err != nil {
			return &CachedPipeline{State: Failed, CompilationError: err}, nil
		}
		st.state = stateAfter[i]
	}

	genOut, err := st.generateShader()
	if err != nil {
		return &CachedPipeline{State: Failed, CompilationError: err}, nil
	}
	st.state = ShaderGenerated

	shaderModule, err := st.compileShader(genOut)
	if err != nil {
		return &CachedPipeline{State: Failed, WGSLSource: genOut.WGSLSource, CompilationError: err}, nil
	}
	st.state = ShaderCompiled

	pipeline, err := st.buildRenderPipeline(shaderModule)
	if err != nil {
		return &CachedPipeline{State: Failed, WGSLSource: genOut.WGSLSource, CompilationError: err}, nil
	}
	pipeline.WGSLSource = genOut.WGSLSource
	pipeline.State = PipelineCreated
	return pipeline, nil
}

// collectParameters implements build-sequence steps 1-2: seed the built-in
// view/object buffers and fold in every feature's declared parameters plus
// its pipeline modifier and combined fixed-function state.
func (st *build) collectParameters() error {
	for _, f := range st.features {
		for _, p := range f.ShaderParams {
			switch p.Group {
			case binding.View:
				st.viewFields = append(st.viewFields, typesystem.StructField{Name: p.Name, Type: typesystem.NewNumType(p.Type)})
			default:
				st.objectFields = append(st.objectFields, typesystem.StructField{Name: p.Name, Type: typesystem.NewNumType(p.Type)})
			}
		}
		st.combinedState = st.combinedState.Combine(f.State)
		for _, mod := range f.PipelineModifiers {
			mod(&st.combinedState)
		}
	}
	return nil
}

// setMeshFormat implements step 3; the mesh format is already attached to
// build, this step exists so the sequence's step numbering stays explicit.
func (st *build) setMeshFormat() error { return nil }

// determineOutputFields implements step 4: collect every non-depth render
// target as a shader output field. The pixel format is mapped to a NumType
// later, by shadergen's Generator through meshformat.OutputNumType.
func (st *build) determineOutputFields() error {
	for i, e := range st.targets.Entries {
		if st.targets.DepthIndex != nil && i == *st.targets.DepthIndex {
			continue
		}
		st.outputFields = append(st.outputFields, e)
	}
	return nil
}

// collectEntryPoints implements step 5: combine every feature's entry
// points with the built-in DefaultInterpolation vertex pass, which always
// runs last in the vertex stage (SUPPLEMENTED FEATURES #3).
func (st *build) collectEntryPoints() error {
	st.entryPoints = feature.AllEntryPoints(st.features)
	st.entryPoints = append(st.entryPoints, shadergen.NewEntryPoint(
		"interpolate", shadergen.StageVertex, shaderblock.NewDefaultInterpolation(),
	))
	return nil
}

// collectTextureBindings implements step 6.
func (st *build) collectTextureBindings() error {
	seen := map[string]bool{}
	for _, f := range st.features {
		for _, tp := range f.TextureParams {
			if seen[tp.Name] {
				continue
			}
			seen[tp.Name] = true
			st.textures = append(st.textures, textureRequest{name: tp.Name, t: tp.Type})
		}
	}
	return nil
}

func (st *build) buildStructType(fields []typesystem.StructField) typesystem.Type {
	return typesystem.NewStructType(fields...)
}

func (st *build) generator(viewLayout, objectLayout typesystem.Type) *shadergen.Generator {
	return &shadergen.Generator{
		BufferBindings:     st.bufferBindings,
		TextureBindings:    st.textureBindings,
		MeshFormat:         st.meshFormat,
		OutputFields:       st.outputFields,
		StrictDependencies: st.opts.StrictEntryPointDependencies,
	}
}

// firstShaderSetup and secondShaderSetup both delegate to
// applyShaderDefinitions; the redundant-looking second call is intentional
// (SUPPLEMENTED FEATURES #5) since indexing depends on the coarse pass's
// dense binding assignment and the final WGSL depends on the optimized one.
func (st *build) firstShaderSetup() error {
	return st.applyShaderDefinitions(st.buildStructType(st.viewFields), st.buildStructType(st.objectFields))
}

func (st *build) secondShaderSetup() error {
	prunedView, err := st.prunedStructType(st.buildStructType(st.viewFields).Struct, "view", binding.One())
	if err != nil {
		return err
	}
	prunedObject, err := st.prunedStructType(st.buildStructType(st.objectFields).Struct, "object", st.objectDim)
	if err != nil {
		return err
	}
	return st.applyShaderDefinitions(prunedView, prunedObject)
}

func (st *build) applyShaderDefinitions(viewLayout, objectLayout typesystem.Type) error {
	builder := binding.NewLayoutBuilder()
	var buffers []binding.BufferBinding
	if len(viewLayout.Struct.Entries) > 0 {
		buffers = append(buffers, builder.AddBuffer(binding.View, "view", viewLayout, typesystem.Uniform, binding.One()))
	}
	if len(objectLayout.Struct.Entries) > 0 {
		buffers = append(buffers, builder.AddBuffer(binding.Draw, "object", objectLayout, typesystem.Uniform, st.objectDim))
	}
	var textures []binding.TextureBinding
	for _, t := range st.textures {
		textures = append(textures, builder.AddTexture(binding.Draw, t.name, t.t))
	}
	st.bufferBindings = buffers
	st.textureBindings = textures
	return nil
}

// prunedStructType drops fields the indexer never saw read, per build-
// sequence step 9, then pads dynamic-offset buffers up to the device's
// minimum offset alignment with the trailing _array_padding_ field that
// ForceAlignmentTo appends.
func (st *build) prunedStructType(original *typesystem.StructType, bufferName string, dim binding.Dimension) (typesystem.Type, error) {
	if original == nil || len(original.Entries) == 0 {
		return typesystem.NewStructType(), nil
	}
	kept := make([]typesystem.StructField, 0, len(original.Entries))
	for _, f := range original.Entries {
		if st.indexed.FieldUsed(bufferName, f.Name) {
			kept = append(kept, f)
		}
	}
	if !dim.RequiresDynamicOffset() || len(kept) == 0 {
		return typesystem.NewStructType(kept...), nil
	}

	limits := wgpu.DefaultLimits()
	alignment := uint64(limits.MinUniformBufferOffsetAlignment)
	b := typesystem.NewStructLayoutBuilder(typesystem.Uniform)
	if err := b.PushFromStruct(typesystem.StructType{Entries: kept}); err != nil {
		return typesystem.Type{}, err
	}
	pad, err := b.ForceAlignmentTo(alignment)
	if err != nil {
		return typesystem.Type{}, err
	}
	padded := make([]typesystem.StructField, 0, len(kept)+1)
	for _, name := range b.FieldNames() {
		idx := indexOfField(kept, name)
		if idx >= 0 {
			padded = append(padded, kept[idx])
			continue
		}
		padded = append(padded, typesystem.StructField{Name: name, Type: pad.Type})
	}
	return typesystem.NewStructType(padded...), nil
}

func indexOfField(fields []typesystem.StructField, name string) int {
	for i, f := range fields {
		if f.Name == name {
			return i
		}
	}
	return -1
}

// indexBindings implements step 8.
func (st *build) indexBindings() error {
	gen := st.generator(typesystem.NewStructType(st.viewFields...), typesystem.NewStructType(st.objectFields...))
	ix := shadergen.NewIndexer(gen)
	indexed, err := ix.IndexBindings(st.entryPoints)
	if err != nil {
		return err
	}
	st.indexed = indexed
	return nil
}

// optimizeBufferLayouts implements step 9. The actual field pruning, 16-byte
// uniform escalation, and dynamic-offset padding all happen inside
// prunedStructType, invoked from secondShaderSetup once the optimized struct
// types are needed; this step exists only to keep the state machine's step
// numbering explicit.
func (st *build) optimizeBufferLayouts() error { return nil }

// buildBindGroupLayouts marks steps 11-12 in the step sequence and creates
// nothing itself: the draw and view group entries (built by
// bindGroupEntries) and the pipeline layout are created in
// buildRenderPipeline.
func (st *build) buildBindGroupLayouts() (err error) {
	return nil // bind group layout device objects are created in buildRenderPipeline, after shader compilation succeeds (step 16 needs the pipeline layout immediately before CreateRenderPipeline).
}

func (st *build) generateShader() (shadergen.GeneratorOutput, error) {
	gen := st.generator(typesystem.Type{}, typesystem.Type{})
	return gen.Build(st.entryPoints)
}

func (st *build) compileShader(out shadergen.GeneratorOutput) (*wgpu.ShaderModule, error) {
	if len(out.Errors) > 0 {
		return nil, fmt.Errorf("pipelinebuilder: shader generation reported %d error(s): %v", len(out.Errors), out.Errors[0])
	}
	module, err := st.device.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
		Label: st.label,
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{
			Code: out.WGSLSource,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("pipelinebuilder: shader compilation failed: %w", err)
	}
	return module, nil
}

func (st *build) buildRenderPipeline(module *wgpu.ShaderModule) (*CachedPipeline, error) {
	drawEntries, dynamicDraw := st.bindGroupEntries(binding.Draw)
	viewEntries, dynamicView := st.bindGroupEntries(binding.View)

	drawLayout, err := st.device.CreateBindGroupLayout(&wgpu.BindGroupLayoutDescriptor{Label: st.label + "_draw", Entries: drawEntries})
	if err != nil {
		return nil, fmt.Errorf("pipelinebuilder: draw bind group layout: %w", err)
	}
	viewLayout, err := st.device.CreateBindGroupLayout(&wgpu.BindGroupLayoutDescriptor{Label: st.label + "_view", Entries: viewEntries})
	if err != nil {
		drawLayout.Release()
		return nil, fmt.Errorf("pipelinebuilder: view bind group layout: %w", err)
	}
	pipelineLayout, err := st.device.CreatePipelineLayout(&wgpu.PipelineLayoutDescriptor{
		Label:            st.label,
		BindGroupLayouts: []*wgpu.BindGroupLayout{drawLayout, viewLayout},
	})
	if err != nil {
		drawLayout.Release()
		viewLayout.Release()
		return nil, fmt.Errorf("pipelinebuilder: pipeline layout: %w", err)
	}

	vertexLayout := st.vertexBufferLayout()
	colorTargets := st.colorTargetStates()

	desc := &wgpu.RenderPipelineDescriptor{
		Label:  st.label,
		Layout: pipelineLayout,
		Vertex: wgpu.VertexState{
			Module:     module,
			EntryPoint: "vertex_main",
			Buffers:    []wgpu.VertexBufferLayout{vertexLayout},
		},
		Primitive: wgpu.PrimitiveState{
			Topology:  st.meshFormat.Topology,
			FrontFace: st.meshFormat.WindingOrder,
			CullMode:  st.resolveCullMode(),
		},
		Fragment: &wgpu.FragmentState{
			Module:     module,
			EntryPoint: "fragment_main",
			Targets:    colorTargets,
		},
		Multisample: wgpu.MultisampleState{
			Count: 1,
			Mask:  0xFFFFFFFF,
		},
	}
	if st.meshFormat.Topology == wgpu.PrimitiveTopologyTriangleStrip || st.meshFormat.Topology == wgpu.PrimitiveTopologyLineStrip {
		desc.Primitive.StripIndexFormat = st.meshFormat.IndexFormat
	}
	if depthState := st.depthStencilState(); depthState != nil {
		desc.DepthStencil = depthState
	}

	rp, err := st.device.CreateRenderPipeline(desc)
	if err != nil {
		drawLayout.Release()
		viewLayout.Release()
		pipelineLayout.Release()
		return nil, fmt.Errorf("pipelinebuilder: render pipeline creation: %w", err)
	}

	bindings := binding.Layout{Buffers: st.bufferBindings, Textures: st.textureBindings}
	bindings.DynamicBufferRefs = append(dynamicDraw, dynamicView...)

	return &CachedPipeline{
		RenderPipeline:      rp,
		PipelineLayout:      pipelineLayout,
		DrawBindGroupLayout: drawLayout,
		ViewBindGroupLayout: viewLayout,
		ShaderModule:        module,
		Bindings:            bindings,
	}, nil
}

func (st *build) resolveCullMode() wgpu.CullMode {
	if st.combinedState.CullMode != nil {
		return *st.combinedState.CullMode
	}
	return wgpu.CullModeNone
}

func (st *build) depthStencilState() *wgpu.DepthStencilState {
	if st.targets.DepthIndex == nil {
		return nil
	}
	depth := st.targets.Entries[*st.targets.DepthIndex]
	compare := wgpu.CompareFunctionLess
	if st.combinedState.DepthTestEnabled != nil && !*st.combinedState.DepthTestEnabled {
		compare = wgpu.CompareFunctionAlways
	}
	writeEnabled := true
	if st.combinedState.DepthWriteEnabled != nil {
		writeEnabled = *st.combinedState.DepthWriteEnabled
	}
	var bias int32
	var biasSlopeScale float32
	if st.combinedState.DepthBias != nil {
		bias = *st.combinedState.DepthBias
	}
	if st.combinedState.DepthBiasSlopeScale != nil {
		biasSlopeScale = *st.combinedState.DepthBiasSlopeScale
	}
	return &wgpu.DepthStencilState{
		Format:              depth.Format,
		DepthWriteEnabled:   writeEnabled,
		DepthCompare:        compare,
		DepthBias:           bias,
		DepthBiasSlopeScale: biasSlopeScale,
		StencilFront:        wgpu.StencilFaceState{Compare: wgpu.CompareFunctionAlways},
		StencilBack:         wgpu.StencilFaceState{Compare: wgpu.CompareFunctionAlways},
	}
}

func (st *build) vertexBufferLayout() wgpu.VertexBufferLayout {
	attrs := make([]wgpu.VertexAttribute, 0, len(st.meshFormat.Attributes))
	var offset uint64
	for i, a := range st.meshFormat.Attributes {
		size, format := vertexFormatSize(a.Type)
		attrs = append(attrs, wgpu.VertexAttribute{
			Format:         format,
			Offset:         offset,
			ShaderLocation: uint32(i),
		})
		offset += size
	}
	return wgpu.VertexBufferLayout{
		ArrayStride: meshVertexStride(st.meshFormat),
		StepMode:    wgpu.VertexStepModeVertex,
		Attributes:  attrs,
	}
}

func (st *build) colorTargetStates() []wgpu.ColorTargetState {
	targets := make([]wgpu.ColorTargetState, 0, len(st.outputFields))
	for _, f := range st.outputFields {
		writeMask := wgpu.ColorWriteMaskAll
		if st.combinedState.WriteMask != nil {
			writeMask = *st.combinedState.WriteMask
		}
		target := wgpu.ColorTargetState{
			Format:    f.Format,
			WriteMask: writeMask,
		}
		if st.combinedState.BlendState != nil {
			target.Blend = st.combinedState.BlendState
		}
		targets = append(targets, target)
	}
	return targets
}

func (st *build) bindGroupEntries(group binding.BindGroupId) ([]wgpu.BindGroupLayoutEntry, []string) {
	var entries []wgpu.BindGroupLayoutEntry
	var dynamicRefs []string
	for _, b := range st.bufferBindings {
		if b.BindGroup != group {
			continue
		}
		entry := wgpu.BindGroupLayoutEntry{
			Binding:    b.Binding,
			Visibility: wgpu.ShaderStageVertex | wgpu.ShaderStageFragment,
			Buffer: wgpu.BufferBindingLayout{
				Type:             bufferBindingType(b.AddressSpace),
				HasDynamicOffset: b.Dimension.RequiresDynamicOffset(),
			},
		}
		entries = append(entries, entry)
		if b.Dimension.RequiresDynamicOffset() {
			dynamicRefs = append(dynamicRefs, b.Name)
		}
	}
	for _, t := range st.textureBindings {
		if t.BindGroup != group {
			continue
		}
		entries = append(entries,
			wgpu.BindGroupLayoutEntry{
				Binding:    t.Binding,
				Visibility: wgpu.ShaderStageFragment,
				Texture: wgpu.TextureBindingLayout{
					SampleType:    textureSampleType(t.Texture),
					ViewDimension: textureViewDimension(t.Texture),
				},
			},
			wgpu.BindGroupLayoutEntry{
				Binding:    t.SamplerBinding,
				Visibility: wgpu.ShaderStageFragment,
				Sampler: wgpu.SamplerBindingLayout{
					Type: samplerBindingType(t.Texture),
				},
			},
		)
	}
	return entries, dynamicRefs
}

func bufferBindingType(space typesystem.AddressSpace) wgpu.BufferBindingType {
	switch space {
	case typesystem.StorageRW:
		return wgpu.BufferBindingTypeStorage
	case typesystem.Storage:
		return wgpu.BufferBindingTypeReadOnlyStorage
	default:
		return wgpu.BufferBindingTypeUniform
	}
}

func textureSampleType(t typesystem.TextureType) wgpu.TextureSampleType {
	switch t.SampleFormat {
	case typesystem.SampleInt:
		return wgpu.TextureSampleTypeSint
	case typesystem.SampleUInt:
		return wgpu.TextureSampleTypeUint
	case typesystem.SampleDepth:
		return wgpu.TextureSampleTypeDepth
	case typesystem.SampleUnfilterableFloat:
		return wgpu.TextureSampleTypeUnfilterableFloat
	default:
		return wgpu.TextureSampleTypeFloat
	}
}

func samplerBindingType(t typesystem.TextureType) wgpu.SamplerBindingType {
	if t.SampleFormat == typesystem.SampleUnfilterableFloat || t.SampleFormat == typesystem.SampleDepth {
		return wgpu.SamplerBindingTypeNonFiltering
	}
	return wgpu.SamplerBindingTypeFiltering
}

func textureViewDimension(t typesystem.TextureType) wgpu.TextureViewDimension {
	switch t.Dimension {
	case typesystem.TextureD1:
		return wgpu.TextureViewDimension1D
	case typesystem.TextureCube:
		return wgpu.TextureViewDimensionCube
	default:
		return wgpu.TextureViewDimension2D
	}
}
