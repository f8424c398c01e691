package vkreplay

import (
	"fmt"
	"sync"

	"github.com/vulkan-go/glfw/v3.3/glfw"
	vk "github.com/vulkan-go/vulkan"

	"github.com/celer/vkreplay/output"
)

// GLFWSurfaces creates presentation surfaces for glfw windows. Host window
// handles are mapped to windows with Register before they are handed to the
// output manager.
type GLFWSurfaces struct {
	mu       sync.Mutex
	instance vk.Instance
	windows  map[output.WindowHandle]*glfw.Window
	ids      handles
	surfaces map[output.Surface]vk.Surface
}

var _ NativeSurfaces = (*GLFWSurfaces)(nil)

func NewGLFWSurfaces() *GLFWSurfaces {
	return &GLFWSurfaces{
		windows:  make(map[output.WindowHandle]*glfw.Window),
		surfaces: make(map[output.Surface]vk.Surface),
	}
}

// Register associates h with win. Registering a handle twice replaces the window.
func (g *GLFWSurfaces) Register(h output.WindowHandle, win *glfw.Window) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.windows[h] = win
}

// Unregister forgets h. Surfaces already created for it stay valid.
func (g *GLFWSurfaces) Unregister(h output.WindowHandle) {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.windows, h)
}

func (g *GLFWSurfaces) window(h output.WindowHandle) (*glfw.Window, error) {
	switch h.(type) {
	case output.XCBWindow, output.Win32Window:
	default:
		return nil, fmt.Errorf("%w: %T", output.ErrUnsupportedHandle, h)
	}
	win, ok := g.windows[h]
	if !ok {
		return nil, fmt.Errorf("%w: %+v is not registered", output.ErrUnsupportedHandle, h)
	}
	return win, nil
}

// RequiredExtensions returns the instance extensions glfw needs to present
// to the registered windows.
func (g *GLFWSurfaces) RequiredExtensions() []string {
	g.mu.Lock()
	defer g.mu.Unlock()
	for _, win := range g.windows {
		return win.GetRequiredInstanceExtensions()
	}
	return nil
}

func (g *GLFWSurfaces) SetInstance(instance vk.Instance) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.instance = instance
}

func (g *GLFWSurfaces) CreateSurface(h output.WindowHandle) (output.Surface, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.instance == nil {
		return 0, fmt.Errorf("create surface: no vulkan instance")
	}
	win, err := g.window(h)
	if err != nil {
		return 0, err
	}
	ptr, err := win.CreateWindowSurface(g.instance, nil)
	if err != nil {
		return 0, fmt.Errorf("create surface: %w", err)
	}
	return put(&g.ids, g.surfaces, vk.SurfaceFromPointer(ptr)), nil
}

func (g *GLFWSurfaces) DestroySurface(s output.Surface) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if surface, ok := take(g.surfaces, s); ok {
		vk.DestroySurface(g.instance, surface, nil)
	}
}

// WindowSize returns the framebuffer size of the window, or zero for
// handles that are not registered.
func (g *GLFWSurfaces) WindowSize(h output.WindowHandle) (width, height int32) {
	g.mu.Lock()
	defer g.mu.Unlock()
	win, err := g.window(h)
	if err != nil {
		return 0, 0
	}
	w, hgt := win.GetFramebufferSize()
	return int32(w), int32(hgt)
}

func (g *GLFWSurfaces) VKSurface(s output.Surface) (vk.Surface, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return get(g.surfaces, s, "surface")
}

// Close destroys every surface still held.
func (g *GLFWSurfaces) Close() {
	g.mu.Lock()
	defer g.mu.Unlock()
	for s, surface := range g.surfaces {
		vk.DestroySurface(g.instance, surface, nil)
		delete(g.surfaces, s)
	}
}
