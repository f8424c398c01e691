package vkreplay

import (
	"fmt"

	vk "github.com/vulkan-go/vulkan"
)

type Swapchain struct {
	Extent      vk.Extent2D
	Format      vk.Format
	Device      *Device
	VKSwapchain vk.Swapchain
}

func (s *Swapchain) Destroy() {
	vk.DestroySwapchain(s.Device.VKDevice, s.VKSwapchain, nil)
}

// GetImages returns the presentable images owned by the swapchain. They are
// released with the swapchain and must not be destroyed individually.
func (s *Swapchain) GetImages() ([]*Image, error) {
	var imageCount uint32
	err := vk.Error(vk.GetSwapchainImages(s.Device.VKDevice, s.VKSwapchain, &imageCount, nil))
	if err != nil {
		return nil, err
	}

	swapchainImages := make([]vk.Image, imageCount)
	err = vk.Error(vk.GetSwapchainImages(s.Device.VKDevice, s.VKSwapchain, &imageCount, swapchainImages))
	if err != nil {
		return nil, err
	}

	ret := make([]*Image, imageCount)
	for i := range swapchainImages {
		ret[i] = &Image{
			Device:   s.Device,
			VKImage:  swapchainImages[i],
			VKFormat: s.Format,
			Extent:   s.Extent,
		}
	}
	return ret, nil
}

type CreateSwapchainOptions struct {
	OldSwapchain              *Swapchain
	ActualSize                vk.Extent2D
	DesiredNumSwapchainImages int
	// PresentMode is used when the surface supports it, otherwise FIFO.
	PresentMode vk.PresentMode
}

// CreateSwapchain creates a B8G8R8A8_UNORM swapchain on surface usable as a
// color attachment and as a transfer source and destination.
func (d *Device) CreateSwapchain(surface vk.Surface, queue *Queue, options CreateSwapchainOptions) (*Swapchain, error) {
	if !queue.QueueFamily.SupportsPresent(surface) {
		return nil, fmt.Errorf("queue family %d cannot present to surface", queue.QueueFamily.Index)
	}

	modes, err := d.PhysicalDevice.GetSurfacePresentModes(surface)
	if err != nil {
		return nil, err
	}

	presentMode := vk.PresentModeFifo
	if modes.Contains(options.PresentMode) {
		presentMode = options.PresentMode
	}

	formats, err := d.PhysicalDevice.GetSurfaceFormats(surface)
	if err != nil {
		return nil, err
	}

	matching := formats.Filter(func(f vk.SurfaceFormat) bool {
		return f.Format == vk.FormatB8g8r8a8Unorm
	})
	if len(matching) == 0 {
		return nil, fmt.Errorf("surface does not support B8G8R8A8_UNORM")
	}
	format := matching[0]

	caps, err := d.PhysicalDevice.GetSurfaceCapabilities(surface)
	if err != nil {
		return nil, err
	}

	swapchainSize := caps.CurrentExtent
	if caps.CurrentExtent.Width == vk.MaxUint32 {
		swapchainSize = options.ActualSize
	}

	images := uint32(options.DesiredNumSwapchainImages)
	if images < caps.MinImageCount {
		images = caps.MinImageCount
	}
	if caps.MaxImageCount > 0 && images > caps.MaxImageCount {
		images = caps.MaxImageCount
	}

	createInfo := &vk.SwapchainCreateInfo{
		SType:           vk.StructureTypeSwapchainCreateInfo,
		Surface:         surface,
		MinImageCount:   images,
		ImageFormat:     format.Format,
		ImageColorSpace: format.ColorSpace,
		ImageExtent: vk.Extent2D{
			Width:  swapchainSize.Width,
			Height: swapchainSize.Height,
		},
		PresentMode: presentMode,
		ImageUsage: vk.ImageUsageFlags(vk.ImageUsageColorAttachmentBit |
			vk.ImageUsageTransferSrcBit | vk.ImageUsageTransferDstBit),
		ImageArrayLayers: 1,
		ImageSharingMode: vk.SharingModeExclusive,
		Clipped:          vk.True,
		PreTransform:     caps.CurrentTransform,
		CompositeAlpha:   vk.CompositeAlphaOpaqueBit,
		OldSwapchain:     vk.NullSwapchain,
	}

	if options.OldSwapchain != nil {
		createInfo.OldSwapchain = options.OldSwapchain.VKSwapchain
	}

	var swapchain vk.Swapchain
	err = vk.Error(vk.CreateSwapchain(d.VKDevice, createInfo, nil, &swapchain))
	if err != nil {
		return nil, err
	}

	return &Swapchain{
		VKSwapchain: swapchain,
		Device:      d,
		Extent:      createInfo.ImageExtent,
		Format:      format.Format,
	}, nil
}

// AcquireNextImage blocks until an image is available and returns its index.
// signal is signaled once the image may be written.
func (s *Swapchain) AcquireNextImage(signal vk.Semaphore) (uint32, error) {
	var index uint32
	err := vk.Error(vk.AcquireNextImage(s.Device.VKDevice, s.VKSwapchain, vk.MaxUint64, signal, vk.NullFence, &index))
	return index, err
}
