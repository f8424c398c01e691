package output

// Handles are opaque backend identifiers. Zero is the null handle for every kind.
type (
	Image       uint64
	ImageView   uint64
	Framebuffer uint64
	RenderPass  uint64
	Swapchain   uint64
	Semaphore   uint64
	Memory      uint64
	Surface     uint64
	Buffer      uint64
	Pipeline    uint64
)

// Extent is a two dimensional size in pixels.
type Extent struct {
	Width  uint32
	Height uint32
}

// Color is a linear RGBA value.
type Color [4]float32

// LoadOp selects how an attachment starts a render pass.
type LoadOp int

const (
	LoadOpClear LoadOp = iota
	LoadOpLoad
)

// SwapchainConfig describes a swapchain for a surface. Old, when non-zero, is
// handed to the new swapchain and is retired even if creation fails.
type SwapchainConfig struct {
	Surface    Surface
	Extent     Extent
	ImageCount uint32
	Old        Swapchain
}

// RenderPassConfig describes a single subpass render pass over one color
// attachment in ColorAttachmentOptimal and an optional depth attachment in
// DepthStencilAttachmentOptimal.
type RenderPassConfig struct {
	ColorLoad LoadOp
	Depth     bool
}

// FramebufferConfig describes a framebuffer over views of one extent.
type FramebufferConfig struct {
	RenderPass  RenderPass
	Attachments []ImageView
	Extent      Extent
}

// DepthTarget is a device local depth/stencil image with its view and memory.
type DepthTarget struct {
	Image  Image
	View   ImageView
	Memory Memory
}

// ClearValue holds either a color or a depth/stencil pair.
type ClearValue struct {
	Color   Color
	Depth   float32
	Stencil uint32
}

// Device is the subset of a logical device the output manager drives.
type Device interface {
	WaitIdle() error

	// CreateSwapchain returns the extent the swapchain was actually created
	// with, which the surface may force to differ from cfg.Extent.
	CreateSwapchain(cfg SwapchainConfig) (Swapchain, Extent, error)
	DestroySwapchain(s Swapchain)
	SwapchainImages(s Swapchain) ([]Image, error)
	AcquireNextImage(s Swapchain, signal Semaphore) (uint32, error)

	CreateRenderPass(cfg RenderPassConfig) (RenderPass, error)
	DestroyRenderPass(rp RenderPass)

	CreateImageView(img Image) (ImageView, error)
	DestroyImageView(v ImageView)

	CreateFramebuffer(cfg FramebufferConfig) (Framebuffer, error)
	DestroyFramebuffer(fb Framebuffer)

	CreateDepthTarget(extent Extent) (DepthTarget, error)
	DestroyDepthTarget(t DepthTarget)

	// CreateCheckerboardPipeline may return a zero pipeline and no error when
	// the backend has no checkerboard shaders; the background pass then only
	// clears.
	CreateCheckerboardPipeline(rp RenderPass, extent Extent) (Pipeline, error)
	DestroyPipeline(p Pipeline)

	CreateSemaphore() (Semaphore, error)
	DestroySemaphore(s Semaphore)

	CreateReadbackBuffer(size uint64) (Buffer, Memory, error)
	ReadMemory(m Memory, size uint64) ([]byte, error)
	DestroyBuffer(b Buffer, m Memory)
}

// Queue submits recorded work and presents swapchain images.
type Queue interface {
	Submit(cmd CommandBuffer) error
	// WaitSemaphore submits an empty batch that waits on s.
	WaitSemaphore(s Semaphore) error
	Present(s Swapchain, index uint32) error
	WaitIdle() error
}

// CommandBuffer records GPU work. It is reused for every submission.
type CommandBuffer interface {
	Begin() error
	End() error
	PipelineBarrier(barriers ...Barrier)
	BeginRenderPass(rp RenderPass, fb Framebuffer, area Extent, clears ...ClearValue)
	EndRenderPass()
	BindCheckerboard(p Pipeline)
	Draw(vertexCount, instanceCount uint32)
	CopyImage(src, dst Image, extent Extent)
	CopyImageToBuffer(src Image, x, y int32, dst Buffer)
}
