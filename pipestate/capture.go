package pipestate

// ResourceID identifies a captured object. Zero is the null id.
type ResourceID uint64

// Stage indexes the shader stages of a pipeline.
type Stage int

const (
	StageVertex Stage = iota
	StageTessControl
	StageTessEval
	StageGeometry
	StageFragment
	StageCompute

	StageCount
)

var stageNames = [StageCount]string{"Vertex", "TessControl", "TessEval", "Geometry", "Fragment", "Compute"}

func (s Stage) String() string {
	if s < 0 || s >= StageCount {
		return "Unknown"
	}
	return stageNames[s]
}

// CreationInfo holds the creation parameters recorded for captured objects.
// Enum-valued fields carry the numeric Vulkan values.
type CreationInfo struct {
	Pipelines        map[ResourceID]Pipeline
	ViewportScissors map[ResourceID]ViewportScissorState
	Rasters          map[ResourceID]RasterState
	Blends           map[ResourceID]BlendState
	DepthStencils    map[ResourceID]DepthStencilState
	Framebuffers     map[ResourceID]Framebuffer
}

// NewCreationInfo returns a CreationInfo with empty tables.
func NewCreationInfo() *CreationInfo {
	return &CreationInfo{
		Pipelines:        make(map[ResourceID]Pipeline),
		ViewportScissors: make(map[ResourceID]ViewportScissorState),
		Rasters:          make(map[ResourceID]RasterState),
		Blends:           make(map[ResourceID]BlendState),
		DepthStencils:    make(map[ResourceID]DepthStencilState),
		Framebuffers:     make(map[ResourceID]Framebuffer),
	}
}

type VertexAttr struct {
	Location   uint32
	Binding    uint32
	ByteOffset uint32
	Format     uint32
}

type VertexBinding struct {
	Binding     uint32
	ByteStride  uint32
	PerInstance bool
}

type BlendEquation struct {
	Source      uint32
	Destination uint32
	Operation   uint32
}

type BlendAttachment struct {
	BlendEnable bool
	Color       BlendEquation
	Alpha       BlendEquation
	WriteMask   uint8
}

type StencilOps struct {
	FailOp      uint32
	PassOp      uint32
	DepthFailOp uint32
	CompareOp   uint32
}

// Pipeline is the creation state of a graphics or compute pipeline. Compute
// pipelines only use Flags and Shaders[StageCompute].
type Pipeline struct {
	Flags   uint32
	Shaders [StageCount]ResourceID

	Topology               uint32
	PrimitiveRestartEnable bool

	VertexAttrs    []VertexAttr
	VertexBindings []VertexBinding

	PatchControlPoints uint32

	DepthClipEnable         bool
	RasterizerDiscardEnable bool
	PolygonMode             uint32
	CullMode                uint32
	FrontFace               uint32

	RasterSamples       uint32
	SampleShadingEnable bool
	MinSampleShading    float32
	SampleMask          uint32

	LogicOpEnable         bool
	AlphaToCoverageEnable bool
	LogicOp               uint32
	Attachments           []BlendAttachment

	DepthTestEnable   bool
	DepthWriteEnable  bool
	DepthBoundsEnable bool
	DepthCompareOp    uint32
	StencilTestEnable bool
	Front             StencilOps
	Back              StencilOps
}

type Viewport struct {
	X, Y          float32
	Width, Height float32
	MinDepth      float32
	MaxDepth      float32
}

type Rect struct {
	X, Y          int32
	Width, Height uint32
}

// ViewportScissorState is a dynamic viewport state object. Viewports and
// scissors pair up by index.
type ViewportScissorState struct {
	Viewports []Viewport
	Scissors  []Rect
}

type RasterState struct {
	DepthBias            float32
	DepthBiasClamp       float32
	SlopeScaledDepthBias float32
	LineWidth            float32
}

type BlendState struct {
	BlendConst [4]float32
}

type DepthStencilState struct {
	MinDepthBounds   float32
	MaxDepthBounds   float32
	StencilReadMask  uint32
	StencilWriteMask uint32
	StencilFrontRef  uint32
	StencilBackRef   uint32
}

type Framebuffer struct {
	Width       uint32
	Height      uint32
	Layers      uint32
	Attachments []ResourceID
}

type BufferBinding struct {
	Buffer ResourceID
	Offset uint64
}

// StateVector is the live binding state at the selected event.
type StateVector struct {
	ComputePipeline  ResourceID
	GraphicsPipeline ResourceID

	IndexBuffer   BufferBinding
	VertexBuffers []BufferBinding

	DynamicVP ResourceID
	DynamicRS ResourceID
	DynamicCB ResourceID
	DynamicDS ResourceID

	RenderPass  ResourceID
	Framebuffer ResourceID
	RenderArea  Rect
}
