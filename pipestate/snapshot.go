package pipestate

import "fmt"

// Snapshot is the normalized pipeline state at one event. A fresh Snapshot
// is built for every request and belongs to the caller.
type Snapshot struct {
	Graphics PipelineInfo
	Compute  PipelineInfo

	IA InputAssembly
	VI VertexInput

	VS, TCS, TES, GS, FS, CS ShaderStage

	Tess Tessellation
	VP   ViewportState
	RS   Rasterizer
	MSAA Multisample
	CB   ColorBlend
	DS   DepthStencil
	Pass RenderPass

	Diagnostics []Diagnostic
}

// Stages returns pointers to the six stage records in Stage order.
func (s *Snapshot) Stages() [StageCount]*ShaderStage {
	return [StageCount]*ShaderStage{&s.VS, &s.TCS, &s.TES, &s.GS, &s.FS, &s.CS}
}

type PipelineInfo struct {
	ID    ResourceID
	Flags uint32
}

type InputAssembly struct {
	IndexBuffer            BufferBinding
	PrimitiveRestartEnable bool
	Topology               string
}

type VertexAttribute struct {
	Location   uint32
	Binding    uint32
	ByteOffset uint32
	Format     ResourceFormat
}

type VertexInput struct {
	Attributes    []VertexAttribute
	Bindings      []VertexBinding
	VertexBuffers []BufferBinding
}

type ShaderStage struct {
	Shader ResourceID
	// Reflection is filled in by the shader reflection collaborator and is
	// always nil here.
	Reflection any
	CustomName bool
	Name       string
	Stage      Stage
}

type Tessellation struct {
	ControlPoints uint32
}

type ViewportScissor struct {
	Viewport Viewport
	Scissor  Rect
}

type ViewportState struct {
	State            ResourceID
	ViewportScissors []ViewportScissor
}

type Rasterizer struct {
	State                   ResourceID
	DepthClipEnable         bool
	RasterizerDiscardEnable bool
	FrontCCW                bool
	FillMode                string
	CullMode                string
	DepthBias               float32
	DepthBiasClamp          float32
	SlopeScaledDepthBias    float32
	LineWidth               float32
}

type Multisample struct {
	RasterSamples       uint32
	SampleShadingEnable bool
	MinSampleShading    float32
	SampleMask          uint32
}

type Blend struct {
	Source      string
	Destination string
	Operation   string
}

type BlendTarget struct {
	BlendEnable bool
	Blend       Blend
	AlphaBlend  Blend
	WriteMask   uint8
}

type ColorBlend struct {
	State                 ResourceID
	LogicOpEnable         bool
	AlphaToCoverageEnable bool
	LogicOp               string
	Attachments           []BlendTarget
	BlendConst            [4]float32
}

type StencilFace struct {
	FailOp      string
	PassOp      string
	DepthFailOp string
	Func        string
	Ref         uint32
}

type DepthStencil struct {
	State             ResourceID
	DepthTestEnable   bool
	DepthWriteEnable  bool
	DepthBoundsEnable bool
	DepthCompareOp    string
	StencilTestEnable bool
	Front             StencilFace
	Back              StencilFace
	MinDepthBounds    float32
	MaxDepthBounds    float32
	StencilReadMask   uint32
	StencilWriteMask  uint32
}

type FramebufferInfo struct {
	ID          ResourceID
	Width       uint32
	Height      uint32
	Layers      uint32
	Attachments []ResourceID
}

type RenderPass struct {
	RenderPass  ResourceID
	Framebuffer FramebufferInfo
	RenderArea  Rect
}

// Diagnostic reports a captured value the builder could not represent. Value
// is the raw input and Substitute what the snapshot holds instead.
type Diagnostic struct {
	Field      string
	Value      uint64
	Substitute string
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%s: unexpected value %#x, using %s", d.Field, d.Value, d.Substitute)
}
