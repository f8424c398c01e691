package output

import (
	"context"
	"fmt"
	"sort"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var tracer = otel.Tracer("github.com/celer/vkreplay/output")

// WindowID identifies an output window. Zero is never a live window.
type WindowID uint64

// State is the lifecycle position of an output window.
type State int

const (
	StateUninitialized State = iota
	StateBound
	StateAcquired
	StatePresented
	StateDestroyed
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "Uninitialized"
	case StateBound:
		return "Bound"
	case StateAcquired:
		return "Acquired"
	case StatePresented:
		return "Presented"
	case StateDestroyed:
		return "Destroyed"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// Target is the window a caller is rendering to, returned by
// BindForRendering and handed back to Present and the clear operations.
type Target struct {
	ID    WindowID
	Depth bool
}

// Source describes the offscreen image holding the most recently replayed frame.
type Source struct {
	ID     uint64
	Image  Image
	Extent Extent
	Layout Layout
}

// WindowInfo is a read only view of a live window.
type WindowInfo struct {
	ID          WindowID
	Width       int32
	Height      int32
	State       State
	Depth       bool
	Current     uint32
	SlotLayouts []Layout
}

type slot struct {
	image   Image
	view    ImageView
	fb      Framebuffer
	depthFB Framebuffer
	trans   LayoutTransition
	cleared bool
}

// targets is one complete set of presentation objects for a window.
type targets struct {
	extent     Extent
	swapchain  Swapchain
	renderPass RenderPass
	depthPass  RenderPass
	pipeline   Pipeline
	depth      *DepthTarget
	depthTrans LayoutTransition
	slots      []slot
}

type window struct {
	id      WindowID
	handle  WindowHandle
	surface Surface
	width   int32
	height  int32
	depth   bool
	t       *targets
	current uint32
	state   State
	// stale is set when the targets were lost or an acquired image could not
	// be used. The next bind rebuilds.
	stale bool
}

type sourceImage struct {
	Source
	trans LayoutTransition
}

// Option configures a Manager.
type Option func(*Manager)

// WithSwapchainImages sets the number of images requested per swapchain.
func WithSwapchainImages(n uint32) Option {
	return func(m *Manager) {
		if n > 0 {
			m.imageCount = n
		}
	}
}

// WithClearColor sets the background color cleared before compositing.
func WithClearColor(c Color) Option {
	return func(m *Manager) {
		m.clearColor = c
	}
}

// Manager owns every output window and drives them on a single device,
// queue and command buffer. It is not safe for concurrent use.
type Manager struct {
	dev      Device
	queue    Queue
	cmd      CommandBuffer
	surfaces SurfaceFactory

	imageCount uint32
	clearColor Color

	windows map[WindowID]*window
	nextID  WindowID
	source  *sourceImage
}

// NewManager creates a manager with no windows.
func NewManager(dev Device, queue Queue, cmd CommandBuffer, surfaces SurfaceFactory, opts ...Option) *Manager {
	m := &Manager{
		dev:        dev,
		queue:      queue,
		cmd:        cmd,
		surfaces:   surfaces,
		imageCount: 2,
		clearColor: Color{0, 0, 1, 1},
		windows:    make(map[WindowID]*window),
	}
	for _, o := range opts {
		o(m)
	}
	return m
}

func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}

// CreateOutputWindow registers a window for h. A nil handle creates a
// window with no surface that is never presented.
func (m *Manager) CreateOutputWindow(ctx context.Context, h WindowHandle, wantDepth bool) (id WindowID, err error) {
	_, span := tracer.Start(ctx, "output.CreateOutputWindow")
	defer func() { endSpan(span, err) }()

	m.nextID++
	w := &window{id: m.nextID, handle: h, depth: wantDepth, state: StateUninitialized}
	span.SetAttributes(attribute.Int64("window.id", int64(w.id)))

	if h != nil {
		w.width, w.height = m.surfaces.WindowSize(h)
		surface, err := m.surfaces.CreateSurface(h)
		if err != nil {
			return 0, resourceErr(w.id, "surface", err)
		}
		w.surface = surface
		if w.width > 0 && w.height > 0 {
			if err := m.buildTargets(w, wantDepth); err != nil {
				m.surfaces.DestroySurface(surface)
				return 0, err
			}
		}
	}

	m.windows[w.id] = w
	slogger().Info("output window created", "window", w.id, "width", w.width, "height", w.height, "depth", wantDepth)
	return w.id, nil
}

// DestroyOutputWindow drains the device and releases everything the window
// owns. Unknown ids are ignored.
func (m *Manager) DestroyOutputWindow(id WindowID) {
	w, ok := m.windows[id]
	if !ok {
		return
	}
	if err := m.dev.WaitIdle(); err != nil {
		slogger().Warn("device wait idle failed before destroy", "window", id, "error", err)
	}
	if w.t != nil {
		m.releaseTargets(w.t)
		w.t = nil
	}
	if w.surface != 0 {
		m.surfaces.DestroySurface(w.surface)
		w.surface = 0
	}
	w.state = StateDestroyed
	delete(m.windows, id)
	slogger().Info("output window destroyed", "window", id)
}

// BuildPresentationTargets rebuilds the swapchain and every per-image object
// of a window. The old swapchain is chained into the new one.
func (m *Manager) BuildPresentationTargets(ctx context.Context, id WindowID, wantDepth bool) (err error) {
	_, span := tracer.Start(ctx, "output.BuildPresentationTargets",
		trace.WithAttributes(attribute.Int64("window.id", int64(id))))
	defer func() { endSpan(span, err) }()

	w, ok := m.windows[id]
	if !ok {
		return nil
	}
	if w.surface == 0 {
		return stateError(id, w.state, "build targets without a surface")
	}
	return m.buildTargets(w, wantDepth)
}

func (m *Manager) buildTargets(w *window, wantDepth bool) error {
	if err := m.dev.WaitIdle(); err != nil {
		return fmt.Errorf("output window %d: wait idle: %w", w.id, err)
	}

	old := w.t
	t := &targets{}

	var oldSwapchain Swapchain
	if old != nil {
		oldSwapchain = old.swapchain
	}

	requested := Extent{Width: uint32(w.width), Height: uint32(w.height)}
	retired, err := m.createTargets(w.id, w.surface, t, requested, oldSwapchain, wantDepth)
	if err != nil {
		m.releaseTargets(t)
		if retired && old != nil {
			// The old swapchain was handed to the new one and can no longer
			// acquire, so its targets go too.
			m.releaseTargets(old)
			w.t = nil
			w.current = 0
			w.state = StateUninitialized
			w.stale = true
			slogger().Warn("presentation targets lost", "window", w.id, "error", err)
		}
		return err
	}

	if old != nil {
		m.releaseTargets(old)
	}
	w.t = t
	w.depth = wantDepth
	w.current = 0
	w.state = StateBound
	w.stale = false

	slogger().Info("presentation targets built", "window", w.id, "images", len(t.slots),
		"width", t.extent.Width, "height", t.extent.Height, "depth", wantDepth)
	return nil
}

// createTargets fills t. Render passes are created before the swapchain so
// their failure leaves old untouched. Once the swapchain call is made, old is
// retired whatever the outcome, which createTargets reports.
func (m *Manager) createTargets(id WindowID, surface Surface, t *targets, requested Extent, old Swapchain, wantDepth bool) (retired bool, err error) {
	t.renderPass, err = m.dev.CreateRenderPass(RenderPassConfig{ColorLoad: LoadOpClear})
	if err != nil {
		return false, resourceErr(id, "render pass", err)
	}
	if wantDepth {
		t.depthPass, err = m.dev.CreateRenderPass(RenderPassConfig{ColorLoad: LoadOpLoad, Depth: true})
		if err != nil {
			return false, resourceErr(id, "depth render pass", err)
		}
	}

	t.swapchain, t.extent, err = m.dev.CreateSwapchain(SwapchainConfig{
		Surface:    surface,
		Extent:     requested,
		ImageCount: m.imageCount,
		Old:        old,
	})
	retired = old != 0
	if err != nil {
		return retired, resourceErr(id, "swapchain", err)
	}
	if t.extent != requested {
		slogger().Debug("swapchain extent differs from window size", "window", id,
			"width", t.extent.Width, "height", t.extent.Height,
			"window_width", requested.Width, "window_height", requested.Height)
	}

	images, err := m.dev.SwapchainImages(t.swapchain)
	if err != nil {
		return retired, resourceErr(id, "swapchain images", err)
	}

	if wantDepth {
		dt, err := m.dev.CreateDepthTarget(t.extent)
		if err != nil {
			return retired, resourceErr(id, "depth target", err)
		}
		t.depth = &dt
		t.depthTrans = NewLayoutTransition(dt.Image, AspectDepth|AspectStencil)
	}

	t.pipeline, err = m.dev.CreateCheckerboardPipeline(t.renderPass, t.extent)
	if err != nil {
		return retired, resourceErr(id, "checkerboard pipeline", err)
	}

	t.slots = make([]slot, 0, len(images))
	for i, img := range images {
		t.slots = append(t.slots, slot{image: img, trans: NewLayoutTransition(img, AspectColor)})
		s := &t.slots[i]

		s.view, err = m.dev.CreateImageView(img)
		if err != nil {
			return retired, resourceErr(id, fmt.Sprintf("image view %d", i), err)
		}

		s.fb, err = m.dev.CreateFramebuffer(FramebufferConfig{
			RenderPass:  t.renderPass,
			Attachments: []ImageView{s.view},
			Extent:      t.extent,
		})
		if err != nil {
			return retired, resourceErr(id, fmt.Sprintf("framebuffer %d", i), err)
		}

		if t.depth != nil {
			s.depthFB, err = m.dev.CreateFramebuffer(FramebufferConfig{
				RenderPass:  t.depthPass,
				Attachments: []ImageView{s.view, t.depth.View},
				Extent:      t.extent,
			})
			if err != nil {
				return retired, resourceErr(id, fmt.Sprintf("depth framebuffer %d", i), err)
			}
		}
	}
	return retired, nil
}

// releaseTargets destroys every non-zero object in t. Swapchain images are
// owned by the swapchain.
func (m *Manager) releaseTargets(t *targets) {
	for i := range t.slots {
		s := &t.slots[i]
		if s.depthFB != 0 {
			m.dev.DestroyFramebuffer(s.depthFB)
		}
		if s.fb != 0 {
			m.dev.DestroyFramebuffer(s.fb)
		}
		if s.view != 0 {
			m.dev.DestroyImageView(s.view)
		}
	}
	t.slots = nil
	if t.pipeline != 0 {
		m.dev.DestroyPipeline(t.pipeline)
	}
	if t.depthPass != 0 {
		m.dev.DestroyRenderPass(t.depthPass)
	}
	if t.renderPass != 0 {
		m.dev.DestroyRenderPass(t.renderPass)
	}
	if t.depth != nil {
		m.dev.DestroyDepthTarget(*t.depth)
		t.depth = nil
	}
	if t.swapchain != 0 {
		m.dev.DestroySwapchain(t.swapchain)
	}
	*t = targets{}
}

// CheckResize compares the host window size with the stored size. On a
// change it stores the new size and rebuilds when both sides are positive.
// A failed rebuild restores the previous size so the next call retries.
// It reports whether the size changed.
func (m *Manager) CheckResize(ctx context.Context, id WindowID) (bool, error) {
	if id == 0 {
		return false, nil
	}
	w, ok := m.windows[id]
	if !ok || w.handle == nil || w.surface == 0 {
		return false, nil
	}

	width, height := m.surfaces.WindowSize(w.handle)
	if width == w.width && height == w.height {
		return false, nil
	}
	slogger().Debug("output window resized", "window", id, "width", width, "height", height)
	prevWidth, prevHeight := w.width, w.height
	w.width, w.height = width, height

	if width > 0 && height > 0 {
		if err := m.BuildPresentationTargets(ctx, id, w.depth); err != nil {
			w.width, w.height = prevWidth, prevHeight
			return true, err
		}
	}
	return true, nil
}

// BindForRendering acquires the next swapchain image of the window and
// returns the target to render to. Unknown ids and windows without targets
// return the target without doing any work. A window whose targets were lost
// or left holding an unusable image is rebuilt first.
func (m *Manager) BindForRendering(ctx context.Context, id WindowID, wantDepth bool) (tgt Target, err error) {
	_, span := tracer.Start(ctx, "output.BindForRendering",
		trace.WithAttributes(attribute.Int64("window.id", int64(id))))
	defer func() { endSpan(span, err) }()

	tgt = Target{ID: id, Depth: wantDepth}

	w, ok := m.windows[id]
	if id == 0 || !ok {
		return tgt, nil
	}
	if w.stale && w.surface != 0 && w.width > 0 && w.height > 0 {
		if err := m.buildTargets(w, w.depth); err != nil {
			return tgt, err
		}
	}
	if w.t == nil {
		return tgt, nil
	}
	if w.state == StateAcquired {
		return tgt, stateError(id, w.state, "acquire")
	}

	sem, err := m.dev.CreateSemaphore()
	if err != nil {
		return tgt, resourceErr(id, "acquire semaphore", err)
	}
	defer m.dev.DestroySemaphore(sem)

	idx, err := m.dev.AcquireNextImage(w.t.swapchain, sem)
	if err != nil {
		return tgt, fmt.Errorf("output window %d: acquire: %w", id, err)
	}

	// From here the swapchain has handed out an image that is only returned
	// by presenting it or by retiring the swapchain. Failures mark the window
	// stale so the next bind rebuilds.
	if err := m.queue.WaitSemaphore(sem); err != nil {
		w.stale = true
		return tgt, fmt.Errorf("output window %d: wait acquire semaphore: %w", id, err)
	}
	if err := m.queue.WaitIdle(); err != nil {
		w.stale = true
		return tgt, fmt.Errorf("output window %d: wait idle: %w", id, err)
	}
	if int(idx) >= len(w.t.slots) {
		w.stale = true
		return tgt, fmt.Errorf("output window %d: acquire returned image %d of %d", id, idx, len(w.t.slots))
	}

	w.current = idx
	w.t.slots[idx].cleared = false
	w.state = StateAcquired
	span.SetAttributes(attribute.Int64("slot", int64(idx)))
	slogger().Debug("acquired image", "window", id, "slot", idx)
	return tgt, nil
}

// Present composites the source image into the acquired slot, presents it and
// waits for the device to go idle.
func (m *Manager) Present(ctx context.Context, tgt Target) (err error) {
	_, span := tracer.Start(ctx, "output.Present",
		trace.WithAttributes(attribute.Int64("window.id", int64(tgt.ID))))
	defer func() { endSpan(span, err) }()

	w, ok := m.windows[tgt.ID]
	if !ok || w.t == nil {
		return nil
	}
	if w.state != StateAcquired {
		return stateError(w.id, w.state, "present")
	}
	return m.compositeAndPresent(w)
}

// acquiredSlot returns the window and slot of an acquired target. A nil
// window with a nil error means the target is not backed by a window.
func (m *Manager) acquiredSlot(tgt Target, op string) (*window, *slot, error) {
	w, ok := m.windows[tgt.ID]
	if !ok || w.t == nil {
		return nil, nil, nil
	}
	if w.state != StateAcquired {
		return nil, nil, stateError(w.id, w.state, op)
	}
	return w, &w.t.slots[w.current], nil
}

// SetSource sets the image composited by Present and read by PickPixel. A
// zero image clears it.
func (m *Manager) SetSource(src Source) {
	if src.Image == 0 {
		m.source = nil
		return
	}
	trans := NewLayoutTransition(src.Image, AspectColor)
	trans.OldLayout = src.Layout
	trans.NewLayout = src.Layout
	m.source = &sourceImage{Source: src, trans: trans}
}

// SourceLayout reports the tracked layout of the source image.
func (m *Manager) SourceLayout() (Layout, bool) {
	if m.source == nil {
		return LayoutUndefined, false
	}
	return m.source.trans.NewLayout, true
}

// Windows returns the ids of all live windows in ascending order.
func (m *Manager) Windows() []WindowID {
	ids := make([]WindowID, 0, len(m.windows))
	for id := range m.windows {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// Window reports the state of a live window.
func (m *Manager) Window(id WindowID) (WindowInfo, bool) {
	w, ok := m.windows[id]
	if !ok {
		return WindowInfo{}, false
	}
	info := WindowInfo{
		ID:      w.id,
		Width:   w.width,
		Height:  w.height,
		State:   w.state,
		Depth:   w.depth,
		Current: w.current,
	}
	if w.t != nil {
		info.SlotLayouts = make([]Layout, len(w.t.slots))
		for i := range w.t.slots {
			info.SlotLayouts[i] = w.t.slots[i].trans.NewLayout
		}
	}
	return info, true
}

// Close destroys every window.
func (m *Manager) Close() {
	for _, id := range m.Windows() {
		m.DestroyOutputWindow(id)
	}
}
