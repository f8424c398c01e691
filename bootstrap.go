package vkreplay

import (
	"errors"
	"fmt"

	vk "github.com/vulkan-go/vulkan"
)

// ErrNoDevice is returned when no physical device has a graphics queue and
// swapchain support.
var ErrNoDevice = errors.New("vkreplay: no graphics capable device")

const swapchainExtension = "VK_KHR_swapchain"

// InitHeadless loads the Vulkan loader without a window system, for tools
// that only enumerate devices.
func InitHeadless() error {
	if err := vk.SetDefaultGetInstanceProcAddr(); err != nil {
		return err
	}
	return vk.Init()
}

// gpu is everything bootstrap creates, in creation order. close releases it
// in reverse.
type gpu struct {
	instance *Instance
	device   *Device
	backend  *Backend
}

func (g *gpu) close() {
	if g.backend != nil {
		g.backend.Destroy()
		g.backend = nil
	}
	if g.device != nil {
		g.device.Destroy()
		g.device = nil
	}
	if g.instance != nil {
		g.instance.Destroy()
		g.instance = nil
	}
}

// bootstrap creates the instance and a logical device with one graphics
// queue, then the command buffer, pipeline cache and checkerboard resources
// the backend records with. Vulkan must already be initialized.
func bootstrap(opts Options, surfaces NativeSurfaces) (_ *gpu, err error) {
	mode, err := parsePresentMode(opts.PresentMode)
	if err != nil {
		return nil, err
	}
	light, err := color4("checker light", opts.CheckerLight)
	if err != nil {
		return nil, err
	}
	dark, err := color4("checker dark", opts.CheckerDark)
	if err != nil {
		return nil, err
	}

	g := &gpu{}
	defer func() {
		if err != nil {
			g.close()
		}
	}()

	app := &App{Name: opts.AppName, EngineName: "vkreplay", Version: Version{Minor: 1}}
	for _, ext := range surfaces.RequiredExtensions() {
		app.EnableExtension(ext)
	}
	if opts.Debug {
		if err := app.EnableDebugging(); err != nil {
			slogger().Warn("validation unavailable", "err", err)
		}
	}

	g.instance, err = app.CreateInstance()
	if err != nil {
		return nil, fmt.Errorf("create instance: %w", err)
	}
	if opts.Debug {
		if err := g.instance.UseDebugLogger(); err != nil {
			slogger().Warn("debug report callback unavailable", "err", err)
		}
	}
	surfaces.SetInstance(g.instance.VKInstance)

	pdevice, family, err := pickDevice(g.instance)
	if err != nil {
		return nil, err
	}

	g.device, err = pdevice.CreateLogicalDeviceWithOptions(QueueFamilySlice{family}, &CreateDeviceOptions{
		EnabledExtensions: []string{swapchainExtension},
	})
	if err != nil {
		return nil, fmt.Errorf("unable to create device: %w", err)
	}

	b := newBackend(g.device, g.device.GetQueue(family), surfaces, mode)
	g.backend = b

	b.pool, err = g.device.CreateCommandPool(family)
	if err != nil {
		return nil, fmt.Errorf("create command pool: %w", err)
	}
	b.cmd, err = b.pool.AllocateBuffer()
	if err != nil {
		return nil, fmt.Errorf("allocate command buffer: %w", err)
	}
	b.cache, err = g.device.CreatePipelineCache()
	if err != nil {
		return nil, fmt.Errorf("create pipeline cache: %w", err)
	}

	if opts.ShaderDir != "" {
		b.checker, err = g.device.createCheckerboard(opts.ShaderDir, light, dark)
		if err != nil {
			return nil, fmt.Errorf("checkerboard: %w", err)
		}
	}

	slogger().Info("device selected", "device", pdevice.DeviceName, "queue_family", family.Index,
		"present_mode", opts.PresentMode, "checkerboard", b.checker != nil)
	return g, nil
}

// pickDevice returns the first physical device that can present, with its
// first graphics queue family.
func pickDevice(instance *Instance) (*PhysicalDevice, *QueueFamily, error) {
	devices, err := instance.PhysicalDevices()
	if err != nil {
		return nil, nil, fmt.Errorf("error getting devices: %w", err)
	}
	for _, d := range devices {
		family, err := GraphicsFamily(d)
		if err != nil {
			return nil, nil, err
		}
		if family != nil && d.HasExtension(swapchainExtension) {
			return d, family, nil
		}
		slogger().Debug("device skipped", "device", d.DeviceName)
	}
	return nil, nil, ErrNoDevice
}

// GraphicsFamily returns the first graphics queue family of d, or nil.
func GraphicsFamily(d *PhysicalDevice) (*QueueFamily, error) {
	families, err := d.QueueFamilies()
	if err != nil {
		return nil, fmt.Errorf("unable to load device queue families: %w", err)
	}
	if g := families.FilterGraphics(); len(g) > 0 {
		return g[0], nil
	}
	return nil, nil
}
