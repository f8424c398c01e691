package vkreplay

import (
	"context"
	"fmt"

	"github.com/celer/vkreplay/output"
	"github.com/celer/vkreplay/pipestate"
)

// ErrUnsupported is returned, with a zero result, by queries the replay does
// not implement.
var ErrUnsupported = output.ErrUnsupported

// Replay presents replayed frames to output windows and answers pipeline
// state queries for the current capture position. It is driven from a
// single goroutine.
type Replay struct {
	gpu      *gpu
	windows  *output.Manager
	bound    map[output.WindowID]output.Target
	source   *sourceTexture
	info     *pipestate.CreationInfo
	state    *pipestate.StateVector
	snapshot pipestate.Snapshot
}

// NewReplay creates the device and the output window manager. Vulkan must
// already be initialized, and surfaces must know every window whose
// instance extensions are needed.
func NewReplay(opts Options, surfaces NativeSurfaces) (*Replay, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	g, err := bootstrap(opts, surfaces)
	if err != nil {
		return nil, err
	}
	b := g.backend
	return &Replay{
		gpu:     g,
		windows: output.NewManager(b, b.Queue(), b.Commands(), surfaces, output.WithSwapchainImages(opts.SwapchainImages)),
		bound:   make(map[output.WindowID]output.Target),
	}, nil
}

// MakeOutputWindow creates an output window for h. A nil handle yields a
// headless window that only renders offscreen.
func (r *Replay) MakeOutputWindow(ctx context.Context, h output.WindowHandle, depth bool) (output.WindowID, error) {
	return r.windows.CreateOutputWindow(ctx, h, depth)
}

func (r *Replay) DestroyOutputWindow(id output.WindowID) {
	delete(r.bound, id)
	r.windows.DestroyOutputWindow(id)
}

// CheckResizeOutputWindow rebuilds the window's targets if its host window
// changed size, and reports whether it did.
func (r *Replay) CheckResizeOutputWindow(ctx context.Context, id output.WindowID) (bool, error) {
	return r.windows.CheckResize(ctx, id)
}

// GetOutputWindowDimensions returns the last known size of the window.
func (r *Replay) GetOutputWindowDimensions(id output.WindowID) (width, height int32) {
	info, ok := r.windows.Window(id)
	if !ok {
		return 0, 0
	}
	return info.Width, info.Height
}

// BindOutputWindow acquires the window's next image for rendering.
func (r *Replay) BindOutputWindow(ctx context.Context, id output.WindowID, depth bool) error {
	tgt, err := r.windows.BindForRendering(ctx, id, depth)
	if err != nil {
		return err
	}
	r.bound[id] = tgt
	return nil
}

func (r *Replay) target(id output.WindowID, op string) (output.Target, error) {
	tgt, ok := r.bound[id]
	if !ok {
		return output.Target{}, fmt.Errorf("%w: %s on unbound window %d", output.ErrInvalidState, op, id)
	}
	return tgt, nil
}

// FlipOutputWindow composites the source image into the bound window and
// presents it. The window stays bound while its image is still acquired, so
// a failed flip can be retried.
func (r *Replay) FlipOutputWindow(ctx context.Context, id output.WindowID) error {
	tgt, err := r.target(id, "flip")
	if err != nil {
		return err
	}
	err = r.windows.Present(ctx, tgt)
	if info, ok := r.windows.Window(id); !ok || info.State != output.StateAcquired {
		delete(r.bound, id)
	}
	return err
}

func (r *Replay) ClearOutputWindowColour(ctx context.Context, id output.WindowID, c output.Color) error {
	tgt, err := r.target(id, "clear colour")
	if err != nil {
		return err
	}
	return r.windows.ClearColor(ctx, tgt, c)
}

func (r *Replay) ClearOutputWindowDepth(ctx context.Context, id output.WindowID, depth float32, stencil uint32) error {
	tgt, err := r.target(id, "clear depth")
	if err != nil {
		return err
	}
	return r.windows.ClearDepth(ctx, tgt, depth, stencil)
}

// PickPixel reads one texel of the source image as RGBA.
func (r *Replay) PickPixel(ctx context.Context, x, y uint32) (output.Pixel, error) {
	return r.windows.PickPixel(ctx, x, y)
}

// SetSourceImage uploads B8G8R8A8 pixels as the image presented by every
// window, replacing the previous one.
func (r *Replay) SetSourceImage(id pipestate.ResourceID, pixels []byte, extent output.Extent) error {
	b := r.gpu.backend
	img, err := b.UploadSourceImage(pixels, extent)
	if err != nil {
		return fmt.Errorf("upload source %d: %w", uint64(id), err)
	}
	old := r.source
	r.source = &sourceTexture{id: id, image: img, extent: extent}
	r.windows.SetSource(output.Source{ID: uint64(id), Image: img, Extent: extent, Layout: output.LayoutPresentSource})

	if old != nil {
		if err := b.WaitIdle(); err != nil {
			slogger().Warn("wait idle before source release", "err", err)
		}
		b.DestroySourceImage(old.image)
	}
	return nil
}

// SetCaptureState replaces the creation info and state vector the next
// SavePipelineState reads.
func (r *Replay) SetCaptureState(info *pipestate.CreationInfo, state *pipestate.StateVector) {
	r.info = info
	r.state = state
}

// SavePipelineState rebuilds the pipeline snapshot from the capture state.
func (r *Replay) SavePipelineState(ctx context.Context) pipestate.Snapshot {
	r.snapshot = pipestate.Build(ctx, r.info, r.state)
	return r.snapshot
}

// GetPipelineSnapshot returns the snapshot built by the last SavePipelineState.
func (r *Replay) GetPipelineSnapshot() pipestate.Snapshot {
	return r.snapshot
}

// GetTextures lists the textures the replay can display.
func (r *Replay) GetTextures() []pipestate.ResourceID {
	if r.source != nil {
		return []pipestate.ResourceID{r.source.id}
	}
	return []pipestate.ResourceID{BackbufferID}
}

// GetTexture describes a texture listed by GetTextures.
func (r *Replay) GetTexture(id pipestate.ResourceID) (Texture, error) {
	switch {
	case r.source != nil && id == r.source.id:
		return presentableTexture(id, r.source.extent), nil
	case r.source == nil && id == BackbufferID:
		return presentableTexture(id, placeholderExtent), nil
	}
	return Texture{}, fmt.Errorf("%w: texture %d", ErrUnknownHandle, uint64(id))
}

// ShaderReflection describes a shader's interface.
type ShaderReflection struct {
	EntryPoint string
	Stage      pipestate.Stage
}

// ShaderVariable is one constant buffer member filled from raw bytes.
type ShaderVariable struct {
	Name    string
	Rows    uint32
	Columns uint32
	Value   []float32
}

func (r *Replay) GetShader(id pipestate.ResourceID) (*ShaderReflection, error) {
	return nil, ErrUnsupported
}

func (r *Replay) GetMinMax(tex pipestate.ResourceID, slice, mip uint32) (lo, hi output.Pixel, err error) {
	return output.Pixel{}, output.Pixel{}, ErrUnsupported
}

func (r *Replay) GetHistogram(tex pipestate.ResourceID, slice, mip uint32, lo, hi float32, channels [4]bool) ([]uint32, error) {
	return nil, ErrUnsupported
}

func (r *Replay) GetBufferData(buf pipestate.ResourceID, offset, length uint64) ([]byte, error) {
	return nil, ErrUnsupported
}

func (r *Replay) FillCBufferVariables(shader pipestate.ResourceID, cbuffer uint32, data []byte) ([]ShaderVariable, error) {
	return nil, ErrUnsupported
}

// Shutdown destroys every window and the device. The Replay cannot be used
// afterwards.
func (r *Replay) Shutdown() {
	if r.gpu == nil {
		return
	}
	r.windows.Close()
	r.bound = nil
	if err := r.gpu.backend.WaitIdle(); err != nil {
		slogger().Warn("wait idle at shutdown", "err", err)
	}
	if r.source != nil {
		r.gpu.backend.DestroySourceImage(r.source.image)
		r.source = nil
	}
	r.gpu.close()
	r.gpu = nil
	slogger().Info("replay shut down")
}
