package pipestate

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
)

var tracer = otel.Tracer("github.com/celer/vkreplay/pipestate")

// Build transcribes the captured creation info and the live state vector
// into a Snapshot. It never fails: values it cannot represent are replaced
// by the zero member of their enum and reported in Snapshot.Diagnostics.
//
// With no graphics pipeline bound every graphics dependent record is left
// zero, and likewise for the compute pipeline.
func Build(ctx context.Context, info *CreationInfo, state *StateVector) Snapshot {
	_, span := tracer.Start(ctx, "pipestate.Build")
	defer span.End()

	if info == nil {
		info = &CreationInfo{}
	}
	if state == nil {
		state = &StateVector{}
	}
	b := &builder{info: info, state: state}

	b.snap.Compute.ID = state.ComputePipeline
	b.snap.Graphics.ID = state.GraphicsPipeline

	if p, ok := lookup(b, "ComputePipeline", info.Pipelines, state.ComputePipeline); ok {
		b.compute(p)
	}
	if p, ok := lookup(b, "GraphicsPipeline", info.Pipelines, state.GraphicsPipeline); ok {
		b.graphics(p)
	}

	span.SetAttributes(
		attribute.Int64("pipeline.graphics", int64(state.GraphicsPipeline)),
		attribute.Int64("pipeline.compute", int64(state.ComputePipeline)),
		attribute.Int("diagnostics", len(b.snap.Diagnostics)),
	)
	return b.snap
}

type builder struct {
	info  *CreationInfo
	state *StateVector
	snap  Snapshot
}

func (b *builder) report(field string, value uint64, substitute string) {
	d := Diagnostic{Field: field, Value: value, Substitute: substitute}
	b.snap.Diagnostics = append(b.snap.Diagnostics, d)
	slogger().Warn("pipeline state value not representable",
		"field", d.Field, "value", d.Value, "substitute", d.Substitute)
}

func (b *builder) enum(field string, t enumTable, v uint32) string {
	name, ok := t.lookup(v)
	if !ok {
		b.report(field, uint64(v), name)
	}
	return name
}

func (b *builder) format(field string, f uint32) ResourceFormat {
	rf, ok := MakeResourceFormat(f)
	if !ok {
		b.report(field, uint64(f), rf.Name)
	}
	return rf
}

// lookup finds id in table. The null id is not looked up; any other id
// missing from the table is reported.
func lookup[T any](b *builder, field string, table map[ResourceID]T, id ResourceID) (T, bool) {
	var zero T
	if id == 0 {
		return zero, false
	}
	v, ok := table[id]
	if !ok {
		b.report(field, uint64(id), "empty")
		return zero, false
	}
	return v, true
}

func stage(id ResourceID, s Stage) ShaderStage {
	return ShaderStage{
		Shader: id,
		Name:   fmt.Sprintf("Shader %d", uint64(id)),
		Stage:  s,
	}
}

func (b *builder) compute(p Pipeline) {
	b.snap.Compute.Flags = p.Flags
	b.snap.CS = stage(p.Shaders[StageCompute], StageCompute)
}

func (b *builder) graphics(p Pipeline) {
	s := &b.snap
	state := b.state

	s.Graphics.Flags = p.Flags

	s.IA = InputAssembly{
		IndexBuffer:            state.IndexBuffer,
		PrimitiveRestartEnable: p.PrimitiveRestartEnable,
		Topology:               b.enum("IA.Topology", topologies, p.Topology),
	}

	s.VI.Attributes = make([]VertexAttribute, len(p.VertexAttrs))
	for i, a := range p.VertexAttrs {
		s.VI.Attributes[i] = VertexAttribute{
			Location:   a.Location,
			Binding:    a.Binding,
			ByteOffset: a.ByteOffset,
			Format:     b.format(fmt.Sprintf("VI.Attributes[%d].Format", i), a.Format),
		}
	}
	s.VI.Bindings = make([]VertexBinding, len(p.VertexBindings))
	copy(s.VI.Bindings, p.VertexBindings)
	s.VI.VertexBuffers = make([]BufferBinding, len(state.VertexBuffers))
	copy(s.VI.VertexBuffers, state.VertexBuffers)

	stages := s.Stages()
	for st := StageVertex; st <= StageFragment; st++ {
		*stages[st] = stage(p.Shaders[st], st)
	}

	s.Tess.ControlPoints = p.PatchControlPoints

	b.viewports()
	b.rasterizer(p)

	s.MSAA = Multisample{
		RasterSamples:       p.RasterSamples,
		SampleShadingEnable: p.SampleShadingEnable,
		MinSampleShading:    p.MinSampleShading,
		SampleMask:          p.SampleMask,
	}

	b.colorBlend(p)
	b.depthStencil(p)
	b.renderPass()
}

func (b *builder) viewports() {
	vp := &b.snap.VP
	vp.State = b.state.DynamicVP

	vs, _ := lookup(b, "VP.State", b.info.ViewportScissors, b.state.DynamicVP)
	if len(vs.Scissors) < len(vs.Viewports) {
		b.report("VP.Scissors", uint64(len(vs.Scissors)), "zero scissor")
	}
	vp.ViewportScissors = make([]ViewportScissor, len(vs.Viewports))
	for i, v := range vs.Viewports {
		var sc Rect
		if i < len(vs.Scissors) {
			sc = vs.Scissors[i]
		}
		vp.ViewportScissors[i] = ViewportScissor{Viewport: v, Scissor: sc}
	}
}

func (b *builder) rasterizer(p Pipeline) {
	rs, _ := lookup(b, "RS.State", b.info.Rasters, b.state.DynamicRS)
	front := b.enum("RS.FrontFace", frontFaces, p.FrontFace)

	b.snap.RS = Rasterizer{
		State:                   b.state.DynamicRS,
		DepthClipEnable:         p.DepthClipEnable,
		RasterizerDiscardEnable: p.RasterizerDiscardEnable,
		FrontCCW:                front == frontFaces[0],
		FillMode:                b.enum("RS.FillMode", fillModes, p.PolygonMode),
		CullMode:                b.enum("RS.CullMode", cullModes, p.CullMode),
		DepthBias:               rs.DepthBias,
		DepthBiasClamp:          rs.DepthBiasClamp,
		SlopeScaledDepthBias:    rs.SlopeScaledDepthBias,
		LineWidth:               rs.LineWidth,
	}
}

func (b *builder) blend(field string, eq BlendEquation) Blend {
	return Blend{
		Source:      b.enum(field+".Source", blendFactors, eq.Source),
		Destination: b.enum(field+".Destination", blendFactors, eq.Destination),
		Operation:   b.enum(field+".Operation", blendOps, eq.Operation),
	}
}

func (b *builder) colorBlend(p Pipeline) {
	cs, _ := lookup(b, "CB.State", b.info.Blends, b.state.DynamicCB)

	atts := make([]BlendTarget, len(p.Attachments))
	for i, a := range p.Attachments {
		field := fmt.Sprintf("CB.Attachments[%d]", i)
		atts[i] = BlendTarget{
			BlendEnable: a.BlendEnable,
			Blend:       b.blend(field+".Blend", a.Color),
			AlphaBlend:  b.blend(field+".AlphaBlend", a.Alpha),
			WriteMask:   a.WriteMask,
		}
	}

	b.snap.CB = ColorBlend{
		State:                 b.state.DynamicCB,
		LogicOpEnable:         p.LogicOpEnable,
		AlphaToCoverageEnable: p.AlphaToCoverageEnable,
		LogicOp:               b.enum("CB.LogicOp", logicOps, p.LogicOp),
		Attachments:           atts,
		BlendConst:            cs.BlendConst,
	}
}

func (b *builder) stencil(field string, ops StencilOps, ref uint32) StencilFace {
	return StencilFace{
		FailOp:      b.enum(field+".FailOp", stencilOps, ops.FailOp),
		PassOp:      b.enum(field+".PassOp", stencilOps, ops.PassOp),
		DepthFailOp: b.enum(field+".DepthFailOp", stencilOps, ops.DepthFailOp),
		Func:        b.enum(field+".Func", compareOps, ops.CompareOp),
		Ref:         ref,
	}
}

func (b *builder) depthStencil(p Pipeline) {
	ds, _ := lookup(b, "DS.State", b.info.DepthStencils, b.state.DynamicDS)

	b.snap.DS = DepthStencil{
		State:             b.state.DynamicDS,
		DepthTestEnable:   p.DepthTestEnable,
		DepthWriteEnable:  p.DepthWriteEnable,
		DepthBoundsEnable: p.DepthBoundsEnable,
		DepthCompareOp:    b.enum("DS.DepthCompareOp", compareOps, p.DepthCompareOp),
		StencilTestEnable: p.StencilTestEnable,
		Front:             b.stencil("DS.Front", p.Front, ds.StencilFrontRef),
		Back:              b.stencil("DS.Back", p.Back, ds.StencilBackRef),
		MinDepthBounds:    ds.MinDepthBounds,
		MaxDepthBounds:    ds.MaxDepthBounds,
		StencilReadMask:   ds.StencilReadMask,
		StencilWriteMask:  ds.StencilWriteMask,
	}
}

func (b *builder) renderPass() {
	fb, _ := lookup(b, "Pass.Framebuffer", b.info.Framebuffers, b.state.Framebuffer)

	atts := make([]ResourceID, len(fb.Attachments))
	copy(atts, fb.Attachments)

	b.snap.Pass = RenderPass{
		RenderPass: b.state.RenderPass,
		Framebuffer: FramebufferInfo{
			ID:          b.state.Framebuffer,
			Width:       fb.Width,
			Height:      fb.Height,
			Layers:      fb.Layers,
			Attachments: atts,
		},
		RenderArea: b.state.RenderArea,
	}
}
