package shadergen

import (
	"fmt"
	"sort"
	"strings"

	"github.com/Carmen-Shannon/gfx-core/binding"
	"github.com/Carmen-Shannon/gfx-core/meshformat"
	"github.com/Carmen-Shannon/gfx-core/shaderblock"
	"github.com/Carmen-Shannon/gfx-core/typesystem"
)

// GeneratorOutput is the text a Generator produced plus any non-fatal
// errors blocks reported along the way via PushError.
type GeneratorOutput struct {
	WGSLSource string
	Errors     []error
}

// Generator assembles WGSL source from a sorted set of EntryPoints, given
// the buffer and texture bindings, mesh vertex attributes, and render
// target output fields the pipeline has already resolved.
type Generator struct {
	BufferBindings   []binding.BufferBinding
	TextureBindings  []binding.TextureBinding
	MeshFormat       meshformat.MeshFormat
	OutputFields     []meshformat.RenderTargetEntry
	StrictDependencies bool
}

// Build sorts entryPoints and emits complete WGSL source: struct
// declarations for bindings and stage IO, buffer/texture global
// declarations, and one function per entry point group, composed by stage.
func (g *Generator) Build(entryPoints []EntryPoint) (GeneratorOutput, error) {
	sorted, err := SortEntryPoints(entryPoints, g.StrictDependencies)
	if err != nil {
		return GeneratorOutput{}, err
	}

	ctx := newGeneratorContext(g)
	var body strings.Builder

	body.WriteString(ctx.renderBufferDeclarations(g.BufferBindings))
	body.WriteString(ctx.renderTextureDeclarations(g.TextureBindings))

	vertexIO := newPipelineIO()
	for _, a := range g.MeshFormat.Attributes {
		vertexIO.inputs[a.Name] = a.Type
	}
	vertexOut := newPipelineIO()
	fragmentOut := newPipelineIO()
	for _, f := range g.OutputFields {
		fragmentOut.outputs[f.Name] = meshformat.OutputNumType(f.Format)
	}

	vertexEPs := filterStage(sorted, StageVertex)
	fragmentEPs := filterStage(sorted, StageFragment)

	vertexBody, err := ctx.emitStage(StageVertex, vertexEPs, vertexIO, vertexOut)
	if err != nil {
		return GeneratorOutput{}, err
	}
	fragmentIn := newPipelineIO()
	for name, t := range vertexOut.outputs {
		fragmentIn.inputs[name] = t
	}
	fragmentBody, err := ctx.emitStage(StageFragment, fragmentEPs, fragmentIn, fragmentOut)
	if err != nil {
		return GeneratorOutput{}, err
	}

	body.WriteString(renderStruct("VertexInput", vertexIO.inputs, vertexIO.builtins))
	body.WriteString(renderStruct("VertexOutput", vertexOut.outputs, vertexOut.builtins))
	body.WriteString(renderStruct("FragmentOutput", fragmentOut.outputs, fragmentOut.builtins))

	body.WriteString("@vertex\n")
	body.WriteString("fn vertex_main(input: VertexInput) -> VertexOutput {\n")
	body.WriteString("\tvar output: VertexOutput;\n")
	body.WriteString(indent(vertexBody))
	body.WriteString("\treturn output;\n}\n")

	body.WriteString("@fragment\n")
	body.WriteString("fn fragment_main(input: VertexOutput) -> FragmentOutput {\n")
	body.WriteString("\tvar output: FragmentOutput;\n")
	body.WriteString(indent(fragmentBody))
	body.WriteString("\treturn output;\n}\n")

	final := ctx.header.String() + body.String()
	return GeneratorOutput{WGSLSource: final, Errors: ctx.errors}, nil
}

func filterStage(eps []EntryPoint, stage Stage) []EntryPoint {
	out := make([]EntryPoint, 0, len(eps))
	for _, ep := range eps {
		if ep.Stage == stage {
			out = append(out, ep)
		}
	}
	return out
}

func indent(s string) string {
	if s == "" {
		return ""
	}
	lines := strings.Split(strings.TrimRight(s, "\n"), "\n")
	for i, l := range lines {
		lines[i] = "\t" + l
	}
	return strings.Join(lines, "\n") + "\n"
}

func renderStruct(name string, fields map[string]typesystem.NumType, builtins map[string]string) string {
	if len(fields) == 0 {
		return fmt.Sprintf("struct %s {}\n", name)
	}
	names := make([]string, 0, len(fields))
	for n := range fields {
		names = append(names, n)
	}
	sort.Strings(names)
	var b strings.Builder
	fmt.Fprintf(&b, "struct %s {\n", name)
	location := 0
	for _, n := range names {
		t := fields[n]
		wgslType := typesystem.NewNumType(t).WGSLName()
		if tag, ok := builtins[n]; ok {
			fmt.Fprintf(&b, "\t@builtin(%s) %s: %s,\n", tag, n, wgslType)
		} else {
			fmt.Fprintf(&b, "\t@location(%d) %s: %s,\n", location, n, wgslType)
			location++
		}
	}
	b.WriteString("}\n")
	return b.String()
}

// pipelineIO tracks the inputs/outputs/globals visible to one stage's
// entry point group plus which names are bound to WGSL builtins rather than
// numbered @location slots, mirroring the original's InternalStructField
// builtin-tag/location duality.
type pipelineIO struct {
	inputs   map[string]typesystem.NumType
	outputs  map[string]typesystem.NumType
	globals  map[string]typesystem.NumType
	builtins map[string]string
}

func newPipelineIO() *pipelineIO {
	return &pipelineIO{
		inputs:   make(map[string]typesystem.NumType),
		outputs:  make(map[string]typesystem.NumType),
		globals:  make(map[string]typesystem.NumType),
		builtins: make(map[string]string),
	}
}

func (g *Generator) dynamicInput(name string, io *pipelineIO) (typesystem.NumType, bool) {
	switch name {
	case "vertex_index", "instance_index":
		t := typesystem.NumType{BaseType: typesystem.U32, Components: 1, MatrixDim: 1}
		io.inputs[name] = t
		io.builtins[name] = name
		return t, true
	}
	return typesystem.NumType{}, false
}

func (g *Generator) dynamicOutput(name string, requested typesystem.NumType, io *pipelineIO) bool {
	switch name {
	case "position":
		io.outputs[name] = requested
		io.builtins[name] = "position"
		return true
	case "frag_depth":
		io.outputs[name] = requested
		io.builtins[name] = "frag_depth"
		return true
	}
	return false
}
