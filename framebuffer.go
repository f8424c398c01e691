package vkreplay

import (
	vk "github.com/vulkan-go/vulkan"
)

type Framebuffer struct {
	Device        *Device
	VKFramebuffer vk.Framebuffer
}

func (f *Framebuffer) Destroy() {
	vk.DestroyFramebuffer(f.Device.VKDevice, f.VKFramebuffer, nil)
}

func (d *Device) CreateFramebuffer(rp *RenderPass, extent vk.Extent2D, views ...*ImageView) (*Framebuffer, error) {
	attachments := make([]vk.ImageView, len(views))
	for i, v := range views {
		attachments[i] = v.VKImageView
	}

	fbCreateInfo := vk.FramebufferCreateInfo{
		SType:           vk.StructureTypeFramebufferCreateInfo,
		RenderPass:      rp.VKRenderPass,
		Layers:          1,
		AttachmentCount: uint32(len(attachments)),
		PAttachments:    attachments,
		Width:           extent.Width,
		Height:          extent.Height,
	}

	var fb vk.Framebuffer
	err := vk.Error(vk.CreateFramebuffer(d.VKDevice, &fbCreateInfo, nil, &fb))
	if err != nil {
		return nil, err
	}
	return &Framebuffer{Device: d, VKFramebuffer: fb}, nil
}
