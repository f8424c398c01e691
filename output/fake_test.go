package output

import (
	"errors"
	"fmt"
)

var errFake = errors.New("fake failure")

// recorder is shared by the fake device, queue and command buffer so tests
// can check the order of operations across all three.
type recorder struct {
	ops []string
}

func (r *recorder) add(format string, args ...any) {
	r.ops = append(r.ops, fmt.Sprintf(format, args...))
}

type fakeDevice struct {
	rec *recorder

	next      uint64
	kinds     map[uint64]string
	destroyed map[uint64]int

	images     int
	acquired   map[Swapchain]uint32
	swapchains []SwapchainConfig
	noPipeline bool

	// surfaceExtent, when set, is the extent every swapchain is created with.
	surfaceExtent Extent
	// extents records the extent handed to each kind of sized object.
	extents map[string][]Extent

	// failKind fails the failAt-th (1 based) creation of that kind.
	failKind string
	failAt   int
	counts   map[string]int

	memory map[Memory][]byte
}

func newFakeDevice(rec *recorder, images int) *fakeDevice {
	return &fakeDevice{
		rec:       rec,
		kinds:     make(map[uint64]string),
		destroyed: make(map[uint64]int),
		images:    images,
		acquired:  make(map[Swapchain]uint32),
		counts:    make(map[string]int),
		extents:   make(map[string][]Extent),
		memory:    make(map[Memory][]byte),
	}
}

func (d *fakeDevice) alloc(kind string) (uint64, error) {
	d.counts[kind]++
	if kind == d.failKind && d.counts[kind] == d.failAt {
		return 0, errFake
	}
	d.next++
	d.kinds[d.next] = kind
	return d.next, nil
}

func (d *fakeDevice) release(h uint64) {
	d.destroyed[h]++
}

// live returns the handles of kind that were created and not destroyed.
func (d *fakeDevice) live(kind string) []uint64 {
	var ret []uint64
	for h := uint64(1); h <= d.next; h++ {
		if d.kinds[h] == kind && d.destroyed[h] == 0 {
			ret = append(ret, h)
		}
	}
	return ret
}

func (d *fakeDevice) WaitIdle() error {
	d.rec.add("device-wait-idle")
	return nil
}

func (d *fakeDevice) CreateSwapchain(cfg SwapchainConfig) (Swapchain, Extent, error) {
	d.swapchains = append(d.swapchains, cfg)
	h, err := d.alloc("swapchain")
	if err != nil {
		return 0, Extent{}, err
	}
	extent := cfg.Extent
	if d.surfaceExtent != (Extent{}) {
		extent = d.surfaceExtent
	}
	return Swapchain(h), extent, nil
}

func (d *fakeDevice) DestroySwapchain(s Swapchain) { d.release(uint64(s)) }

func (d *fakeDevice) SwapchainImages(s Swapchain) ([]Image, error) {
	imgs := make([]Image, d.images)
	for i := range imgs {
		h, err := d.alloc("swapchain-image")
		if err != nil {
			return nil, err
		}
		imgs[i] = Image(h)
	}
	return imgs, nil
}

func (d *fakeDevice) AcquireNextImage(s Swapchain, signal Semaphore) (uint32, error) {
	idx := d.acquired[s] % uint32(d.images)
	d.acquired[s]++
	d.rec.add("acquire:%d", idx)
	return idx, nil
}

func (d *fakeDevice) CreateRenderPass(cfg RenderPassConfig) (RenderPass, error) {
	h, err := d.alloc("render-pass")
	return RenderPass(h), err
}

func (d *fakeDevice) DestroyRenderPass(rp RenderPass) { d.release(uint64(rp)) }

func (d *fakeDevice) CreateImageView(img Image) (ImageView, error) {
	h, err := d.alloc("image-view")
	return ImageView(h), err
}

func (d *fakeDevice) DestroyImageView(v ImageView) { d.release(uint64(v)) }

func (d *fakeDevice) CreateFramebuffer(cfg FramebufferConfig) (Framebuffer, error) {
	d.extents["framebuffer"] = append(d.extents["framebuffer"], cfg.Extent)
	h, err := d.alloc("framebuffer")
	return Framebuffer(h), err
}

func (d *fakeDevice) DestroyFramebuffer(fb Framebuffer) { d.release(uint64(fb)) }

func (d *fakeDevice) CreateDepthTarget(extent Extent) (DepthTarget, error) {
	d.extents["depth"] = append(d.extents["depth"], extent)
	img, err := d.alloc("depth-image")
	if err != nil {
		return DepthTarget{}, err
	}
	view, _ := d.alloc("depth-view")
	mem, _ := d.alloc("depth-memory")
	return DepthTarget{Image: Image(img), View: ImageView(view), Memory: Memory(mem)}, nil
}

func (d *fakeDevice) DestroyDepthTarget(t DepthTarget) {
	d.release(uint64(t.View))
	d.release(uint64(t.Image))
	d.release(uint64(t.Memory))
}

func (d *fakeDevice) CreateCheckerboardPipeline(rp RenderPass, extent Extent) (Pipeline, error) {
	d.extents["pipeline"] = append(d.extents["pipeline"], extent)
	if d.noPipeline {
		return 0, nil
	}
	h, err := d.alloc("pipeline")
	return Pipeline(h), err
}

func (d *fakeDevice) DestroyPipeline(p Pipeline) { d.release(uint64(p)) }

func (d *fakeDevice) CreateSemaphore() (Semaphore, error) {
	h, err := d.alloc("semaphore")
	return Semaphore(h), err
}

func (d *fakeDevice) DestroySemaphore(s Semaphore) { d.release(uint64(s)) }

func (d *fakeDevice) CreateReadbackBuffer(size uint64) (Buffer, Memory, error) {
	b, err := d.alloc("buffer")
	if err != nil {
		return 0, 0, err
	}
	m, _ := d.alloc("buffer-memory")
	d.memory[Memory(m)] = make([]byte, size)
	return Buffer(b), Memory(m), nil
}

func (d *fakeDevice) ReadMemory(m Memory, size uint64) ([]byte, error) {
	data, ok := d.memory[m]
	if !ok {
		return nil, errFake
	}
	return data[:size], nil
}

func (d *fakeDevice) DestroyBuffer(b Buffer, m Memory) {
	d.release(uint64(b))
	d.release(uint64(m))
}

type fakeQueue struct {
	rec        *recorder
	failSubmit bool
	// failWaits fails that many semaphore waits before succeeding again.
	failWaits int
}

func (q *fakeQueue) Submit(cmd CommandBuffer) error {
	if q.failSubmit {
		return errFake
	}
	q.rec.add("submit")
	return nil
}

func (q *fakeQueue) WaitSemaphore(s Semaphore) error {
	if q.failWaits > 0 {
		q.failWaits--
		return errFake
	}
	q.rec.add("wait-semaphore")
	return nil
}

func (q *fakeQueue) Present(s Swapchain, index uint32) error {
	q.rec.add("present:%d", index)
	return nil
}

func (q *fakeQueue) WaitIdle() error {
	q.rec.add("queue-wait-idle")
	return nil
}

type copyOp struct {
	src, dst Image
	extent   Extent
}

type fakeCommandBuffer struct {
	rec      *recorder
	barriers []Barrier
	copies   []copyOp
	clears   [][]ClearValue
	areas    []Extent
	draws    int
	readback func(src Image, x, y int32, dst Buffer)
}

func (c *fakeCommandBuffer) Begin() error {
	c.rec.add("begin")
	return nil
}

func (c *fakeCommandBuffer) End() error {
	c.rec.add("end")
	return nil
}

func (c *fakeCommandBuffer) PipelineBarrier(barriers ...Barrier) {
	for _, b := range barriers {
		c.rec.add("barrier:%d:%s->%s", b.Image, b.OldLayout, b.NewLayout)
	}
	c.barriers = append(c.barriers, barriers...)
}

func (c *fakeCommandBuffer) BeginRenderPass(rp RenderPass, fb Framebuffer, area Extent, clears ...ClearValue) {
	c.rec.add("begin-render-pass:%d", rp)
	c.clears = append(c.clears, clears)
	c.areas = append(c.areas, area)
}

func (c *fakeCommandBuffer) EndRenderPass() { c.rec.add("end-render-pass") }

func (c *fakeCommandBuffer) BindCheckerboard(p Pipeline) { c.rec.add("bind-checkerboard") }

func (c *fakeCommandBuffer) Draw(vertexCount, instanceCount uint32) {
	c.draws++
	c.rec.add("draw:%d:%d", vertexCount, instanceCount)
}

func (c *fakeCommandBuffer) CopyImage(src, dst Image, extent Extent) {
	c.copies = append(c.copies, copyOp{src: src, dst: dst, extent: extent})
	c.rec.add("copy:%d->%d", src, dst)
}

func (c *fakeCommandBuffer) CopyImageToBuffer(src Image, x, y int32, dst Buffer) {
	c.rec.add("copy-to-buffer:%d", src)
	if c.readback != nil {
		c.readback(src, x, y, dst)
	}
}

type fakeSurfaces struct {
	sizes     map[WindowHandle][2]int32
	next      Surface
	created   int
	destroyed map[Surface]int
	fail      bool
}

func newFakeSurfaces() *fakeSurfaces {
	return &fakeSurfaces{
		sizes:     make(map[WindowHandle][2]int32),
		destroyed: make(map[Surface]int),
	}
}

func (f *fakeSurfaces) CreateSurface(h WindowHandle) (Surface, error) {
	if f.fail {
		return 0, errFake
	}
	f.next++
	f.created++
	return f.next, nil
}

func (f *fakeSurfaces) DestroySurface(s Surface) { f.destroyed[s]++ }

func (f *fakeSurfaces) WindowSize(h WindowHandle) (int32, int32) {
	s := f.sizes[h]
	return s[0], s[1]
}

type harness struct {
	rec      *recorder
	dev      *fakeDevice
	queue    *fakeQueue
	cmd      *fakeCommandBuffer
	surfaces *fakeSurfaces
	m        *Manager
}

func newHarness(images int, opts ...Option) *harness {
	rec := &recorder{}
	h := &harness{
		rec:      rec,
		dev:      newFakeDevice(rec, images),
		queue:    &fakeQueue{rec: rec},
		cmd:      &fakeCommandBuffer{rec: rec},
		surfaces: newFakeSurfaces(),
	}
	h.m = NewManager(h.dev, h.queue, h.cmd, h.surfaces, opts...)
	return h
}

// reset clears recorded operations.
func (h *harness) reset() {
	h.rec.ops = nil
	h.cmd.barriers = nil
	h.cmd.copies = nil
	h.cmd.clears = nil
	h.cmd.areas = nil
	h.cmd.draws = 0
}
