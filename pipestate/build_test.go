package pipestate

import (
	"context"
	"reflect"
	"testing"
)

const (
	gfxID     ResourceID = 10
	computeID ResourceID = 11
	vpID      ResourceID = 20
	rsID      ResourceID = 21
	cbID      ResourceID = 22
	dsID      ResourceID = 23
	rpID      ResourceID = 30
	fbID      ResourceID = 31
)

func fixture() (*CreationInfo, *StateVector) {
	info := NewCreationInfo()
	info.Pipelines[gfxID] = Pipeline{
		Flags:                  4,
		Shaders:                [StageCount]ResourceID{100, 0, 0, 0, 104, 0},
		Topology:               4,
		PrimitiveRestartEnable: true,
		VertexAttrs: []VertexAttr{
			{Location: 0, Binding: 0, ByteOffset: 0, Format: 106},
			{Location: 1, Binding: 0, ByteOffset: 12, Format: 103},
		},
		VertexBindings:     []VertexBinding{{Binding: 0, ByteStride: 20}},
		PatchControlPoints: 3,
		PolygonMode:        1,
		CullMode:           2,
		FrontFace:          1,
		RasterSamples:      4,
		MinSampleShading:   0.25,
		SampleMask:         0xffffffff,
		LogicOp:            3,
		Attachments: []BlendAttachment{
			{BlendEnable: true, Color: BlendEquation{6, 7, 0}, Alpha: BlendEquation{1, 0, 0}, WriteMask: 0xf},
			{WriteMask: 0x1},
			{Color: BlendEquation{Operation: 4}, WriteMask: 0x3},
		},
		DepthTestEnable: true,
		DepthCompareOp:  3,
		Front:           StencilOps{FailOp: 1, PassOp: 2, DepthFailOp: 0, CompareOp: 7},
		Back:            StencilOps{CompareOp: 5},
	}
	info.Pipelines[computeID] = Pipeline{
		Flags:   1,
		Shaders: [StageCount]ResourceID{StageCompute: 200},
	}
	info.ViewportScissors[vpID] = ViewportScissorState{
		Viewports: []Viewport{{X: 0, Y: 0, Width: 1280, Height: 720, MinDepth: 0, MaxDepth: 1}},
		Scissors:  []Rect{{X: 4, Y: 8, Width: 100, Height: 50}},
	}
	info.Rasters[rsID] = RasterState{DepthBias: -1.5, DepthBiasClamp: 100, SlopeScaledDepthBias: 3.25, LineWidth: 7}
	info.Blends[cbID] = BlendState{BlendConst: [4]float32{0.1, 0.2, 0.3, 0.4}}
	info.DepthStencils[dsID] = DepthStencilState{
		MinDepthBounds:   -2,
		MaxDepthBounds:   5,
		StencilReadMask:  0xaa,
		StencilWriteMask: 0x55,
		StencilFrontRef:  7,
		StencilBackRef:   9,
	}
	info.Framebuffers[fbID] = Framebuffer{Width: 1280, Height: 720, Layers: 1, Attachments: []ResourceID{40, 41}}

	state := &StateVector{
		ComputePipeline:  computeID,
		GraphicsPipeline: gfxID,
		IndexBuffer:      BufferBinding{Buffer: 50, Offset: 64},
		VertexBuffers:    []BufferBinding{{Buffer: 51}, {Buffer: 52, Offset: 16}},
		DynamicVP:        vpID,
		DynamicRS:        rsID,
		DynamicCB:        cbID,
		DynamicDS:        dsID,
		RenderPass:       rpID,
		Framebuffer:      fbID,
		RenderArea:       Rect{Width: 1280, Height: 720},
	}
	return info, state
}

func TestBuildUnbound(t *testing.T) {
	info, _ := fixture()
	snap := Build(context.Background(), info, &StateVector{})

	if !reflect.DeepEqual(snap, Snapshot{}) {
		t.Fatalf("expected zero snapshot, got %+v", snap)
	}
	if len(snap.VP.ViewportScissors) != 0 || snap.CS.Name != "" {
		t.Fatal("unbound snapshot has stage or viewport records")
	}
}

func TestBuildNilInputs(t *testing.T) {
	snap := Build(context.Background(), nil, nil)
	if !reflect.DeepEqual(snap, Snapshot{}) {
		t.Fatalf("expected zero snapshot, got %+v", snap)
	}
}

func TestBuildComputeOnly(t *testing.T) {
	info, _ := fixture()
	snap := Build(context.Background(), info, &StateVector{ComputePipeline: computeID})

	if snap.Compute.ID != computeID || snap.Compute.Flags != 1 {
		t.Fatalf("compute %+v", snap.Compute)
	}
	if snap.CS.Shader != 200 || snap.CS.Name != "Shader 200" || snap.CS.Stage != StageCompute {
		t.Fatalf("compute stage %+v", snap.CS)
	}
	if snap.VS != (ShaderStage{}) || snap.VI.Attributes != nil || snap.CB.Attachments != nil {
		t.Fatal("graphics records populated without a graphics pipeline")
	}
}

func TestBuildListLengths(t *testing.T) {
	info, state := fixture()
	snap := Build(context.Background(), info, state)

	if got := len(snap.VI.Attributes); got != 2 {
		t.Errorf("attributes: %d", got)
	}
	if got := len(snap.VI.Bindings); got != 1 {
		t.Errorf("bindings: %d", got)
	}
	if got := len(snap.CB.Attachments); got != 3 {
		t.Errorf("blend attachments: %d", got)
	}
	if got := len(snap.VI.VertexBuffers); got != 2 {
		t.Errorf("vertex buffers: %d", got)
	}
	if got := len(snap.VP.ViewportScissors); got != 1 {
		t.Errorf("viewports: %d", got)
	}
	if got := len(snap.Pass.Framebuffer.Attachments); got != 2 {
		t.Errorf("framebuffer attachments: %d", got)
	}
	if len(snap.Diagnostics) != 0 {
		t.Errorf("unexpected diagnostics %v", snap.Diagnostics)
	}
}

func TestBuildTranslatesEnums(t *testing.T) {
	info, state := fixture()
	snap := Build(context.Background(), info, state)

	checks := []struct {
		name, got, want string
	}{
		{"topology", snap.IA.Topology, "TriangleStrip"},
		{"fill mode", snap.RS.FillMode, "Wireframe"},
		{"cull mode", snap.RS.CullMode, "Back"},
		{"logic op", snap.CB.LogicOp, "Copy"},
		{"blend source", snap.CB.Attachments[0].Blend.Source, "SrcAlpha"},
		{"blend destination", snap.CB.Attachments[0].Blend.Destination, "OneMinusSrcAlpha"},
		{"alpha source", snap.CB.Attachments[0].AlphaBlend.Source, "One"},
		{"blend op", snap.CB.Attachments[2].Blend.Operation, "Max"},
		{"depth compare", snap.DS.DepthCompareOp, "LessEqual"},
		{"front fail", snap.DS.Front.FailOp, "Zero"},
		{"front pass", snap.DS.Front.PassOp, "Replace"},
		{"front func", snap.DS.Front.Func, "Always"},
		{"back func", snap.DS.Back.Func, "NotEqual"},
		{"back pass", snap.DS.Back.PassOp, "Keep"},
		{"attribute format", snap.VI.Attributes[0].Format.Name, "R32G32B32_SFLOAT"},
		{"attribute format", snap.VI.Attributes[1].Format.Name, "R32G32_SFLOAT"},
	}
	for _, c := range checks {
		if c.got != c.want {
			t.Errorf("%s: got %q, want %q", c.name, c.got, c.want)
		}
	}
	if snap.RS.FrontCCW {
		t.Error("clockwise front face reported as counter clockwise")
	}
}

func TestBuildCopiesValuesVerbatim(t *testing.T) {
	info, state := fixture()
	snap := Build(context.Background(), info, state)

	if snap.RS.DepthBias != -1.5 || snap.RS.DepthBiasClamp != 100 ||
		snap.RS.SlopeScaledDepthBias != 3.25 || snap.RS.LineWidth != 7 {
		t.Errorf("raster values %+v", snap.RS)
	}
	if snap.CB.BlendConst != [4]float32{0.1, 0.2, 0.3, 0.4} {
		t.Errorf("blend constants %v", snap.CB.BlendConst)
	}
	if snap.DS.MinDepthBounds != -2 || snap.DS.MaxDepthBounds != 5 {
		t.Errorf("depth bounds %v %v", snap.DS.MinDepthBounds, snap.DS.MaxDepthBounds)
	}
	if snap.DS.StencilReadMask != 0xaa || snap.DS.StencilWriteMask != 0x55 ||
		snap.DS.Front.Ref != 7 || snap.DS.Back.Ref != 9 {
		t.Errorf("stencil values %+v", snap.DS)
	}
	if snap.MSAA != (Multisample{RasterSamples: 4, MinSampleShading: 0.25, SampleMask: 0xffffffff}) {
		t.Errorf("msaa %+v", snap.MSAA)
	}
	want := ViewportScissor{
		Viewport: Viewport{Width: 1280, Height: 720, MaxDepth: 1},
		Scissor:  Rect{X: 4, Y: 8, Width: 100, Height: 50},
	}
	if snap.VP.ViewportScissors[0] != want {
		t.Errorf("viewport %+v", snap.VP.ViewportScissors[0])
	}
	if snap.IA.IndexBuffer != (BufferBinding{Buffer: 50, Offset: 64}) || !snap.IA.PrimitiveRestartEnable {
		t.Errorf("input assembly %+v", snap.IA)
	}
	if snap.Pass.RenderPass != rpID || snap.Pass.Framebuffer.ID != fbID ||
		snap.Pass.Framebuffer.Width != 1280 || snap.Pass.RenderArea.Height != 720 {
		t.Errorf("pass %+v", snap.Pass)
	}
	if snap.Tess.ControlPoints != 3 {
		t.Errorf("control points %d", snap.Tess.ControlPoints)
	}
	if snap.VP.State != vpID || snap.RS.State != rsID || snap.CB.State != cbID || snap.DS.State != dsID {
		t.Error("dynamic state ids not carried")
	}
}

func TestBuildStages(t *testing.T) {
	info, state := fixture()
	snap := Build(context.Background(), info, state)

	want := [StageCount]ResourceID{100, 0, 0, 0, 104, 200}
	names := [StageCount]string{"Shader 100", "Shader 0", "Shader 0", "Shader 0", "Shader 104", "Shader 200"}
	for i, st := range snap.Stages() {
		if st.Shader != want[i] || st.Name != names[i] || st.Stage != Stage(i) {
			t.Errorf("stage %s: %+v", Stage(i), *st)
		}
		if st.Reflection != nil || st.CustomName {
			t.Errorf("stage %s has reflection or custom name", Stage(i))
		}
	}
}

func TestBuildUnknownEnumsDefault(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(p *Pipeline)
		field  string
		check  func(s Snapshot) string
		want   string
	}{
		{"fill mode", func(p *Pipeline) { p.PolygonMode = 1000001000 }, "RS.FillMode",
			func(s Snapshot) string { return s.RS.FillMode }, "Solid"},
		{"cull mode", func(p *Pipeline) { p.CullMode = 8 }, "RS.CullMode",
			func(s Snapshot) string { return s.RS.CullMode }, "None"},
		{"compare op", func(p *Pipeline) { p.DepthCompareOp = 9 }, "DS.DepthCompareOp",
			func(s Snapshot) string { return s.DS.DepthCompareOp }, "Never"},
		{"stencil op", func(p *Pipeline) { p.Back.FailOp = 8 }, "DS.Back.FailOp",
			func(s Snapshot) string { return s.DS.Back.FailOp }, "Keep"},
		{"logic op", func(p *Pipeline) { p.LogicOp = 16 }, "CB.LogicOp",
			func(s Snapshot) string { return s.CB.LogicOp }, "Clear"},
		{"blend factor", func(p *Pipeline) { p.Attachments[1].Alpha.Destination = 19 }, "CB.Attachments[1].AlphaBlend.Destination",
			func(s Snapshot) string { return s.CB.Attachments[1].AlphaBlend.Destination }, "Zero"},
		{"blend op", func(p *Pipeline) { p.Attachments[0].Color.Operation = 1000148000 }, "CB.Attachments[0].Blend.Operation",
			func(s Snapshot) string { return s.CB.Attachments[0].Blend.Operation }, "Add"},
		{"topology", func(p *Pipeline) { p.Topology = 11 }, "IA.Topology",
			func(s Snapshot) string { return s.IA.Topology }, "PointList"},
		{"format", func(p *Pipeline) { p.VertexAttrs[1].Format = 1000054000 }, "VI.Attributes[1].Format",
			func(s Snapshot) string { return s.VI.Attributes[1].Format.Name }, "UNKNOWN"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info, state := fixture()
			p := info.Pipelines[gfxID]
			p.Attachments = append([]BlendAttachment(nil), p.Attachments...)
			p.VertexAttrs = append([]VertexAttr(nil), p.VertexAttrs...)
			tt.mutate(&p)
			info.Pipelines[gfxID] = p

			snap := Build(context.Background(), info, state)
			if got := tt.check(snap); got != tt.want {
				t.Fatalf("got %q, want %q", got, tt.want)
			}
			if len(snap.Diagnostics) != 1 {
				t.Fatalf("expected one diagnostic, got %v", snap.Diagnostics)
			}
			if d := snap.Diagnostics[0]; d.Field != tt.field || d.Substitute != tt.want {
				t.Fatalf("diagnostic %+v", d)
			}
		})
	}
}

func TestBuildUnknownFrontFace(t *testing.T) {
	info, state := fixture()
	p := info.Pipelines[gfxID]
	p.FrontFace = 2
	info.Pipelines[gfxID] = p

	snap := Build(context.Background(), info, state)
	if !snap.RS.FrontCCW {
		t.Fatal("unknown front face should fall back to counter clockwise")
	}
	if len(snap.Diagnostics) != 1 || snap.Diagnostics[0].Value != 2 {
		t.Fatalf("diagnostics %v", snap.Diagnostics)
	}
}

func TestBuildMissingTables(t *testing.T) {
	info, state := fixture()
	delete(info.Rasters, rsID)
	delete(info.Framebuffers, fbID)

	snap := Build(context.Background(), info, state)
	if snap.RS.LineWidth != 0 || snap.RS.State != rsID {
		t.Fatalf("rasterizer %+v", snap.RS)
	}
	if snap.RS.CullMode != "Back" {
		t.Fatal("pipeline raster state dropped with the dynamic state")
	}
	if snap.Pass.Framebuffer.Attachments == nil || len(snap.Pass.Framebuffer.Attachments) != 0 {
		t.Fatalf("framebuffer attachments %v", snap.Pass.Framebuffer.Attachments)
	}
	fields := map[string]bool{}
	for _, d := range snap.Diagnostics {
		fields[d.Field] = true
	}
	if len(snap.Diagnostics) != 2 || !fields["RS.State"] || !fields["Pass.Framebuffer"] {
		t.Fatalf("diagnostics %v", snap.Diagnostics)
	}
}

func TestBuildMissingPipeline(t *testing.T) {
	info, state := fixture()
	state.GraphicsPipeline = 99

	snap := Build(context.Background(), info, state)
	if snap.Graphics.ID != 99 || snap.Graphics.Flags != 0 {
		t.Fatalf("graphics %+v", snap.Graphics)
	}
	if snap.VI.Attributes != nil || snap.VP.ViewportScissors != nil || snap.VS != (ShaderStage{}) {
		t.Fatal("graphics records populated for a missing pipeline")
	}
	if snap.CS.Shader != 200 {
		t.Fatal("compute stage lost")
	}
	if len(snap.Diagnostics) != 1 || snap.Diagnostics[0] != (Diagnostic{Field: "GraphicsPipeline", Value: 99, Substitute: "empty"}) {
		t.Fatalf("diagnostics %v", snap.Diagnostics)
	}
}

func TestBuildShortScissorList(t *testing.T) {
	info, state := fixture()
	info.ViewportScissors[vpID] = ViewportScissorState{Viewports: make([]Viewport, 3), Scissors: make([]Rect, 1)}

	snap := Build(context.Background(), info, state)
	if len(snap.VP.ViewportScissors) != 3 {
		t.Fatalf("viewports %d", len(snap.VP.ViewportScissors))
	}
	if len(snap.Diagnostics) != 1 || snap.Diagnostics[0].Field != "VP.Scissors" {
		t.Fatalf("diagnostics %v", snap.Diagnostics)
	}
}

func TestBuildDoesNotAlias(t *testing.T) {
	info, state := fixture()
	snap := Build(context.Background(), info, state)

	snap.VI.Bindings[0].ByteStride = 99
	snap.VI.VertexBuffers[0].Offset = 99
	snap.Pass.Framebuffer.Attachments[0] = 99

	if info.Pipelines[gfxID].VertexBindings[0].ByteStride != 20 ||
		state.VertexBuffers[0].Offset != 0 ||
		info.Framebuffers[fbID].Attachments[0] != 40 {
		t.Fatal("snapshot shares memory with its inputs")
	}
}

func TestDiagnosticString(t *testing.T) {
	d := Diagnostic{Field: "RS.CullMode", Value: 8, Substitute: "None"}
	if got := d.String(); got != "RS.CullMode: unexpected value 0x8, using None" {
		t.Fatalf("got %q", got)
	}
}
