package output

// WindowHandle identifies a host window. It has exactly two shapes,
// XCBWindow and Win32Window.
type WindowHandle interface {
	windowHandle()
}

// XCBWindow is a display server connection and window id.
type XCBWindow struct {
	Connection uintptr
	Window     uint32
}

// Win32Window is a module handle and window handle.
type Win32Window struct {
	Module uintptr
	Window uintptr
}

func (XCBWindow) windowHandle()   {}
func (Win32Window) windowHandle() {}

// SurfaceFactory creates presentation surfaces for host windows. One
// implementation is selected per host platform at startup.
type SurfaceFactory interface {
	CreateSurface(h WindowHandle) (Surface, error)
	DestroySurface(s Surface)
	WindowSize(h WindowHandle) (width, height int32)
}
