package vkreplay

import (
	"errors"

	"github.com/celer/vkreplay/output"
)

var errFakeSubmit = errors.New("submit failed")

// stubDevice hands out increasing handles for every output.Device call.
type stubDevice struct {
	next   uint64
	images int
}

func (d *stubDevice) handle() uint64 {
	d.next++
	return d.next
}

func (d *stubDevice) WaitIdle() error { return nil }

func (d *stubDevice) CreateSwapchain(cfg output.SwapchainConfig) (output.Swapchain, output.Extent, error) {
	return output.Swapchain(d.handle()), cfg.Extent, nil
}

func (d *stubDevice) DestroySwapchain(output.Swapchain) {}

func (d *stubDevice) SwapchainImages(output.Swapchain) ([]output.Image, error) {
	imgs := make([]output.Image, d.images)
	for i := range imgs {
		imgs[i] = output.Image(d.handle())
	}
	return imgs, nil
}

func (d *stubDevice) AcquireNextImage(output.Swapchain, output.Semaphore) (uint32, error) {
	return 0, nil
}

func (d *stubDevice) CreateRenderPass(output.RenderPassConfig) (output.RenderPass, error) {
	return output.RenderPass(d.handle()), nil
}

func (d *stubDevice) DestroyRenderPass(output.RenderPass) {}

func (d *stubDevice) CreateImageView(output.Image) (output.ImageView, error) {
	return output.ImageView(d.handle()), nil
}

func (d *stubDevice) DestroyImageView(output.ImageView) {}

func (d *stubDevice) CreateFramebuffer(output.FramebufferConfig) (output.Framebuffer, error) {
	return output.Framebuffer(d.handle()), nil
}

func (d *stubDevice) DestroyFramebuffer(output.Framebuffer) {}

func (d *stubDevice) CreateDepthTarget(output.Extent) (output.DepthTarget, error) {
	return output.DepthTarget{
		Image:  output.Image(d.handle()),
		View:   output.ImageView(d.handle()),
		Memory: output.Memory(d.handle()),
	}, nil
}

func (d *stubDevice) DestroyDepthTarget(output.DepthTarget) {}

func (d *stubDevice) CreateCheckerboardPipeline(output.RenderPass, output.Extent) (output.Pipeline, error) {
	return 0, nil
}

func (d *stubDevice) DestroyPipeline(output.Pipeline) {}

func (d *stubDevice) CreateSemaphore() (output.Semaphore, error) {
	return output.Semaphore(d.handle()), nil
}

func (d *stubDevice) DestroySemaphore(output.Semaphore) {}

func (d *stubDevice) CreateReadbackBuffer(size uint64) (output.Buffer, output.Memory, error) {
	return output.Buffer(d.handle()), output.Memory(d.handle()), nil
}

func (d *stubDevice) ReadMemory(m output.Memory, size uint64) ([]byte, error) {
	return make([]byte, size), nil
}

func (d *stubDevice) DestroyBuffer(output.Buffer, output.Memory) {}

type stubQueue struct {
	failSubmits int
	presents    int
}

func (q *stubQueue) Submit(output.CommandBuffer) error {
	if q.failSubmits > 0 {
		q.failSubmits--
		return errFakeSubmit
	}
	return nil
}

func (q *stubQueue) WaitSemaphore(output.Semaphore) error { return nil }

func (q *stubQueue) Present(output.Swapchain, uint32) error {
	q.presents++
	return nil
}

func (q *stubQueue) WaitIdle() error { return nil }

type stubCommands struct{}

func (stubCommands) Begin() error { return nil }

func (stubCommands) End() error { return nil }

func (stubCommands) PipelineBarrier(...output.Barrier) {}

func (stubCommands) BeginRenderPass(output.RenderPass, output.Framebuffer, output.Extent, ...output.ClearValue) {
}

func (stubCommands) EndRenderPass() {}

func (stubCommands) BindCheckerboard(output.Pipeline) {}

func (stubCommands) Draw(uint32, uint32) {}

func (stubCommands) CopyImage(output.Image, output.Image, output.Extent) {}

func (stubCommands) CopyImageToBuffer(output.Image, int32, int32, output.Buffer) {}

type stubSurfaces struct{ next output.Surface }

func (s *stubSurfaces) CreateSurface(output.WindowHandle) (output.Surface, error) {
	s.next++
	return s.next, nil
}

func (s *stubSurfaces) DestroySurface(output.Surface) {}

func (s *stubSurfaces) WindowSize(output.WindowHandle) (int32, int32) { return 320, 240 }

// newStubReplay returns a replay whose windows run on the stub device.
func newStubReplay(q *stubQueue) *Replay {
	dev := &stubDevice{images: 2}
	return &Replay{
		windows: output.NewManager(dev, q, stubCommands{}, &stubSurfaces{}),
		bound:   make(map[output.WindowID]output.Target),
	}
}
