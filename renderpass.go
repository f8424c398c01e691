package vkreplay

import (
	vk "github.com/vulkan-go/vulkan"
)

// DepthFormat is the format of every window depth target.
const DepthFormat = vk.FormatD32SfloatS8Uint

type RenderPass struct {
	Device       *Device
	VKRenderPass vk.RenderPass
}

func (r *RenderPass) Destroy() {
	vk.DestroyRenderPass(r.Device.VKDevice, r.VKRenderPass, nil)
}

// RenderPassOptions selects the attachments of a single subpass render pass.
// The color attachment starts and ends in ColorAttachmentOptimal; the depth
// attachment, when present, in DepthStencilAttachmentOptimal.
type RenderPassOptions struct {
	ColorFormat vk.Format
	// LoadColor keeps the existing color contents instead of clearing them.
	LoadColor bool
	Depth     bool
}

// VKRenderPassCreateInfo builds the create info for o.
func (o RenderPassOptions) VKRenderPassCreateInfo() vk.RenderPassCreateInfo {
	colorLoad := vk.AttachmentLoadOpClear
	if o.LoadColor {
		colorLoad = vk.AttachmentLoadOpLoad
	}

	attachmentDescriptions := []vk.AttachmentDescription{{
		Format:         o.ColorFormat,
		Samples:        vk.SampleCount1Bit,
		LoadOp:         colorLoad,
		StoreOp:        vk.AttachmentStoreOpStore,
		StencilLoadOp:  vk.AttachmentLoadOpDontCare,
		StencilStoreOp: vk.AttachmentStoreOpDontCare,
		InitialLayout:  vk.ImageLayoutColorAttachmentOptimal,
		FinalLayout:    vk.ImageLayoutColorAttachmentOptimal,
	}}

	subpass := vk.SubpassDescription{
		PipelineBindPoint:    vk.PipelineBindPointGraphics,
		ColorAttachmentCount: 1,
		PColorAttachments: []vk.AttachmentReference{{
			Attachment: 0,
			Layout:     vk.ImageLayoutColorAttachmentOptimal,
		}},
	}

	if o.Depth {
		attachmentDescriptions = append(attachmentDescriptions, vk.AttachmentDescription{
			Format:         DepthFormat,
			Samples:        vk.SampleCount1Bit,
			LoadOp:         vk.AttachmentLoadOpClear,
			StoreOp:        vk.AttachmentStoreOpStore,
			StencilLoadOp:  vk.AttachmentLoadOpClear,
			StencilStoreOp: vk.AttachmentStoreOpStore,
			InitialLayout:  vk.ImageLayoutDepthStencilAttachmentOptimal,
			FinalLayout:    vk.ImageLayoutDepthStencilAttachmentOptimal,
		})
		subpass.PDepthStencilAttachment = &vk.AttachmentReference{
			Attachment: 1,
			Layout:     vk.ImageLayoutDepthStencilAttachmentOptimal,
		}
	}

	dependency := vk.SubpassDependency{
		SrcSubpass:    vk.SubpassExternal,
		DstSubpass:    0,
		SrcStageMask:  vk.PipelineStageFlags(vk.PipelineStageColorAttachmentOutputBit),
		SrcAccessMask: 0,
		DstStageMask:  vk.PipelineStageFlags(vk.PipelineStageColorAttachmentOutputBit),
		DstAccessMask: vk.AccessFlags(vk.AccessColorAttachmentReadBit | vk.AccessColorAttachmentWriteBit),
	}

	return vk.RenderPassCreateInfo{
		SType:           vk.StructureTypeRenderPassCreateInfo,
		AttachmentCount: uint32(len(attachmentDescriptions)),
		PAttachments:    attachmentDescriptions,
		SubpassCount:    1,
		PSubpasses:      []vk.SubpassDescription{subpass},
		DependencyCount: 1,
		PDependencies:   []vk.SubpassDependency{dependency},
	}
}

func (d *Device) CreateRenderPass(o RenderPassOptions) (*RenderPass, error) {
	renderPassCreateInfo := o.VKRenderPassCreateInfo()

	var renderPass vk.RenderPass
	err := vk.Error(vk.CreateRenderPass(d.VKDevice, &renderPassCreateInfo, nil, &renderPass))
	if err != nil {
		return nil, err
	}
	return &RenderPass{Device: d, VKRenderPass: renderPass}, nil
}
