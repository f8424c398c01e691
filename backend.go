package vkreplay

import (
	"fmt"

	vk "github.com/vulkan-go/vulkan"

	"github.com/celer/vkreplay/output"
)

// NativeSurfaces is a surface factory whose surfaces are Vulkan surfaces.
// RequiredExtensions is consulted before the instance exists; SetInstance is
// called once it does, before any surface is created.
type NativeSurfaces interface {
	output.SurfaceFactory
	RequiredExtensions() []string
	SetInstance(instance vk.Instance)
	VKSurface(s output.Surface) (vk.Surface, error)
}

type swapchainEntry struct {
	swapchain *Swapchain
	images    []output.Image
}

// Backend drives a single logical device, queue and command buffer for the
// output manager. It implements output.Device itself; Queue and Commands
// return the queue and command buffer sides. Every native object it creates
// is held in a handle table and released exactly once.
type Backend struct {
	device      *Device
	queue       *Queue
	pool        *CommandPool
	cmd         *CommandBuffer
	cache       *PipelineCache
	checker     *checkerboard
	surfaces    NativeSurfaces
	presentMode vk.PresentMode

	ids          handles
	swapchains   map[output.Swapchain]*swapchainEntry
	images       map[output.Image]*Image
	views        map[output.ImageView]*ImageView
	renderPasses map[output.RenderPass]*RenderPass
	framebuffers map[output.Framebuffer]*Framebuffer
	memories     map[output.Memory]*DeviceMemory
	buffers      map[output.Buffer]*Buffer
	pipelines    map[output.Pipeline]vk.Pipeline
	semaphores   map[output.Semaphore]vk.Semaphore
	// sources maps uploaded source images to their memory.
	sources map[output.Image]*DeviceMemory

	recordErr error
	inPass    bool
}

func newBackend(device *Device, queue *Queue, surfaces NativeSurfaces, presentMode vk.PresentMode) *Backend {
	return &Backend{
		device:       device,
		queue:        queue,
		surfaces:     surfaces,
		presentMode:  presentMode,
		swapchains:   make(map[output.Swapchain]*swapchainEntry),
		images:       make(map[output.Image]*Image),
		views:        make(map[output.ImageView]*ImageView),
		renderPasses: make(map[output.RenderPass]*RenderPass),
		framebuffers: make(map[output.Framebuffer]*Framebuffer),
		memories:     make(map[output.Memory]*DeviceMemory),
		buffers:      make(map[output.Buffer]*Buffer),
		pipelines:    make(map[output.Pipeline]vk.Pipeline),
		semaphores:   make(map[output.Semaphore]vk.Semaphore),
		sources:      make(map[output.Image]*DeviceMemory),
	}
}

var _ output.Device = (*Backend)(nil)

func (b *Backend) WaitIdle() error {
	return b.device.WaitIdle()
}

func (b *Backend) CreateSwapchain(cfg output.SwapchainConfig) (output.Swapchain, output.Extent, error) {
	surface, err := b.surfaces.VKSurface(cfg.Surface)
	if err != nil {
		return 0, output.Extent{}, err
	}

	opts := CreateSwapchainOptions{
		ActualSize:                vk.Extent2D{Width: cfg.Extent.Width, Height: cfg.Extent.Height},
		DesiredNumSwapchainImages: int(cfg.ImageCount),
		PresentMode:               b.presentMode,
	}
	if cfg.Old != 0 {
		old, err := get(b.swapchains, cfg.Old, "swapchain")
		if err != nil {
			return 0, output.Extent{}, err
		}
		opts.OldSwapchain = old.swapchain
	}

	sc, err := b.device.CreateSwapchain(surface, b.queue, opts)
	if err != nil {
		return 0, output.Extent{}, err
	}

	images, err := sc.GetImages()
	if err != nil {
		sc.Destroy()
		return 0, output.Extent{}, err
	}

	e := &swapchainEntry{swapchain: sc, images: make([]output.Image, len(images))}
	for i, img := range images {
		e.images[i] = put(&b.ids, b.images, img)
	}
	h := put(&b.ids, b.swapchains, e)
	slogger().Debug("swapchain created", "swapchain", uint64(h), "images", len(images),
		"width", sc.Extent.Width, "height", sc.Extent.Height)
	return h, output.Extent{Width: sc.Extent.Width, Height: sc.Extent.Height}, nil
}

// DestroySwapchain releases the swapchain and forgets its image handles.
func (b *Backend) DestroySwapchain(s output.Swapchain) {
	e, ok := take(b.swapchains, s)
	if !ok {
		return
	}
	for _, img := range e.images {
		delete(b.images, img)
	}
	e.swapchain.Destroy()
}

func (b *Backend) SwapchainImages(s output.Swapchain) ([]output.Image, error) {
	e, err := get(b.swapchains, s, "swapchain")
	if err != nil {
		return nil, err
	}
	return append([]output.Image(nil), e.images...), nil
}

func (b *Backend) AcquireNextImage(s output.Swapchain, signal output.Semaphore) (uint32, error) {
	e, err := get(b.swapchains, s, "swapchain")
	if err != nil {
		return 0, err
	}
	sem, err := get(b.semaphores, signal, "semaphore")
	if err != nil {
		return 0, err
	}
	return e.swapchain.AcquireNextImage(sem)
}

func (b *Backend) CreateRenderPass(cfg output.RenderPassConfig) (output.RenderPass, error) {
	rp, err := b.device.CreateRenderPass(RenderPassOptions{
		ColorFormat: vk.FormatB8g8r8a8Unorm,
		LoadColor:   cfg.ColorLoad == output.LoadOpLoad,
		Depth:       cfg.Depth,
	})
	if err != nil {
		return 0, err
	}
	return put(&b.ids, b.renderPasses, rp), nil
}

func (b *Backend) DestroyRenderPass(rp output.RenderPass) {
	if r, ok := take(b.renderPasses, rp); ok {
		r.Destroy()
	}
}

func (b *Backend) CreateImageView(img output.Image) (output.ImageView, error) {
	i, err := get(b.images, img, "image")
	if err != nil {
		return 0, err
	}
	v, err := i.CreateImageView()
	if err != nil {
		return 0, err
	}
	return put(&b.ids, b.views, v), nil
}

func (b *Backend) DestroyImageView(v output.ImageView) {
	if iv, ok := take(b.views, v); ok {
		iv.Destroy()
	}
}

func (b *Backend) CreateFramebuffer(cfg output.FramebufferConfig) (output.Framebuffer, error) {
	rp, err := get(b.renderPasses, cfg.RenderPass, "render pass")
	if err != nil {
		return 0, err
	}
	views := make([]*ImageView, len(cfg.Attachments))
	for i, a := range cfg.Attachments {
		if views[i], err = get(b.views, a, "image view"); err != nil {
			return 0, err
		}
	}
	fb, err := b.device.CreateFramebuffer(rp, vk.Extent2D{Width: cfg.Extent.Width, Height: cfg.Extent.Height}, views...)
	if err != nil {
		return 0, err
	}
	return put(&b.ids, b.framebuffers, fb), nil
}

func (b *Backend) DestroyFramebuffer(fb output.Framebuffer) {
	if f, ok := take(b.framebuffers, fb); ok {
		f.Destroy()
	}
}

// CreateDepthTarget creates a device local depth/stencil image of extent.
func (b *Backend) CreateDepthTarget(extent output.Extent) (output.DepthTarget, error) {
	img, err := b.device.CreateBoundImage(
		vk.Extent2D{Width: extent.Width, Height: extent.Height},
		DepthFormat,
		vk.ImageTilingOptimal,
		vk.ImageUsageFlags(vk.ImageUsageDepthStencilAttachmentBit),
		vk.MemoryPropertyFlags(vk.MemoryPropertyDeviceLocalBit))
	if err != nil {
		return output.DepthTarget{}, err
	}

	view, err := img.CreateImageViewWithAspectMask(vk.ImageAspectFlags(vk.ImageAspectDepthBit | vk.ImageAspectStencilBit))
	if err != nil {
		img.Destroy()
		return output.DepthTarget{}, err
	}

	return output.DepthTarget{
		Image:  put(&b.ids, b.images, &img.Image),
		View:   put(&b.ids, b.views, view),
		Memory: put(&b.ids, b.memories, img.DeviceMemory),
	}, nil
}

func (b *Backend) DestroyDepthTarget(t output.DepthTarget) {
	b.DestroyImageView(t.View)
	if img, ok := take(b.images, t.Image); ok {
		img.Destroy()
	}
	if mem, ok := take(b.memories, t.Memory); ok {
		mem.Destroy()
	}
}

// CreateCheckerboardPipeline returns the zero pipeline when no checkerboard
// shaders were loaded.
func (b *Backend) CreateCheckerboardPipeline(rp output.RenderPass, extent output.Extent) (output.Pipeline, error) {
	if b.checker == nil {
		return 0, nil
	}
	pass, err := get(b.renderPasses, rp, "render pass")
	if err != nil {
		return 0, err
	}
	p, err := b.cache.CreateGraphicsPipeline(b.checker.config, pass, vk.Extent2D{Width: extent.Width, Height: extent.Height})
	if err != nil {
		return 0, err
	}
	return put(&b.ids, b.pipelines, p), nil
}

func (b *Backend) DestroyPipeline(p output.Pipeline) {
	if pl, ok := take(b.pipelines, p); ok {
		vk.DestroyPipeline(b.device.VKDevice, pl, nil)
	}
}

func (b *Backend) CreateSemaphore() (output.Semaphore, error) {
	s, err := b.device.VKCreateSemaphore()
	if err != nil {
		return 0, err
	}
	return put(&b.ids, b.semaphores, s), nil
}

func (b *Backend) DestroySemaphore(s output.Semaphore) {
	if sem, ok := take(b.semaphores, s); ok {
		b.device.VKDestroySemaphore(sem)
	}
}

// CreateReadbackBuffer creates a host visible transfer destination buffer.
func (b *Backend) CreateReadbackBuffer(size uint64) (output.Buffer, output.Memory, error) {
	buf, mem, err := b.device.CreateBoundBuffer(size,
		vk.BufferUsageFlags(vk.BufferUsageTransferDstBit),
		vk.MemoryPropertyFlags(vk.MemoryPropertyHostVisibleBit|vk.MemoryPropertyHostCoherentBit))
	if err != nil {
		return 0, 0, err
	}
	return put(&b.ids, b.buffers, buf), put(&b.ids, b.memories, mem), nil
}

func (b *Backend) ReadMemory(m output.Memory, size uint64) ([]byte, error) {
	mem, err := get(b.memories, m, "memory")
	if err != nil {
		return nil, err
	}
	return mem.MapReadUnmap(size)
}

func (b *Backend) DestroyBuffer(buf output.Buffer, m output.Memory) {
	if bb, ok := take(b.buffers, buf); ok {
		bb.Destroy()
	}
	if mem, ok := take(b.memories, m); ok {
		mem.Destroy()
	}
}

// Queue returns the queue side of the backend.
func (b *Backend) Queue() output.Queue {
	return backendQueue{b}
}

// Commands returns the command buffer side of the backend.
func (b *Backend) Commands() output.CommandBuffer {
	return backendCommands{b}
}

// live reports the number of objects held in every handle table.
func (b *Backend) live() int {
	return len(b.swapchains) + len(b.images) + len(b.views) + len(b.renderPasses) +
		len(b.framebuffers) + len(b.memories) + len(b.buffers) + len(b.pipelines) + len(b.semaphores)
}

// Destroy releases the shared objects. Windows must be destroyed first.
func (b *Backend) Destroy() {
	if n := b.live(); n > 0 {
		slogger().Warn("backend destroyed with live objects", "objects", n)
	}
	if b.checker != nil {
		b.checker.Destroy()
		b.checker = nil
	}
	if b.cache != nil {
		b.cache.Destroy()
		b.cache = nil
	}
	if b.pool != nil {
		if b.cmd != nil {
			b.pool.FreeBuffer(b.cmd)
			b.cmd = nil
		}
		b.pool.Destroy()
		b.pool = nil
	}
}

func (b *Backend) String() string {
	return fmt.Sprintf("{Device: %s Objects: %d}", b.device, b.live())
}
