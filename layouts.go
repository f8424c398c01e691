package vkreplay

import (
	vk "github.com/vulkan-go/vulkan"

	"github.com/celer/vkreplay/output"
)

var vkLayouts = [...]vk.ImageLayout{
	output.LayoutUndefined:                     vk.ImageLayoutUndefined,
	output.LayoutColorAttachmentOptimal:        vk.ImageLayoutColorAttachmentOptimal,
	output.LayoutTransferSrcOptimal:            vk.ImageLayoutTransferSrcOptimal,
	output.LayoutTransferDstOptimal:            vk.ImageLayoutTransferDstOptimal,
	output.LayoutPresentSource:                 vk.ImageLayoutPresentSrc,
	output.LayoutDepthStencilAttachmentOptimal: vk.ImageLayoutDepthStencilAttachmentOptimal,
}

var vkAccess = [...]vk.AccessFlagBits{
	output.LayoutUndefined:                     0,
	output.LayoutColorAttachmentOptimal:        vk.AccessColorAttachmentReadBit | vk.AccessColorAttachmentWriteBit,
	output.LayoutTransferSrcOptimal:            vk.AccessTransferReadBit,
	output.LayoutTransferDstOptimal:            vk.AccessTransferWriteBit,
	output.LayoutPresentSource:                 vk.AccessMemoryReadBit,
	output.LayoutDepthStencilAttachmentOptimal: vk.AccessDepthStencilAttachmentReadBit | vk.AccessDepthStencilAttachmentWriteBit,
}

func vkLayout(l output.Layout) vk.ImageLayout {
	if l >= 0 && int(l) < len(vkLayouts) {
		return vkLayouts[l]
	}
	return vk.ImageLayoutUndefined
}

// accessMask is the access that must complete before leaving, or may start
// after entering, layout l.
func accessMask(l output.Layout) vk.AccessFlags {
	if l >= 0 && int(l) < len(vkAccess) {
		return vk.AccessFlags(vkAccess[l])
	}
	return 0
}

func aspectMask(a output.Aspect) vk.ImageAspectFlags {
	var mask vk.ImageAspectFlagBits
	if a&output.AspectColor != 0 {
		mask |= vk.ImageAspectColorBit
	}
	if a&output.AspectDepth != 0 {
		mask |= vk.ImageAspectDepthBit
	}
	if a&output.AspectStencil != 0 {
		mask |= vk.ImageAspectStencilBit
	}
	return vk.ImageAspectFlags(mask)
}

// imageBarrier converts b into a native barrier on img.
func imageBarrier(img vk.Image, b output.Barrier) vk.ImageMemoryBarrier {
	return vk.ImageMemoryBarrier{
		SType:               vk.StructureTypeImageMemoryBarrier,
		SrcAccessMask:       accessMask(b.OldLayout),
		DstAccessMask:       accessMask(b.NewLayout),
		OldLayout:           vkLayout(b.OldLayout),
		NewLayout:           vkLayout(b.NewLayout),
		SrcQueueFamilyIndex: vk.QueueFamilyIgnored,
		DstQueueFamilyIndex: vk.QueueFamilyIgnored,
		Image:               img,
		SubresourceRange: vk.ImageSubresourceRange{
			AspectMask:     aspectMask(b.Range.Aspect),
			BaseMipLevel:   b.Range.BaseMip,
			LevelCount:     b.Range.MipCount,
			BaseArrayLayer: b.Range.BaseLayer,
			LayerCount:     b.Range.LayerCount,
		},
	}
}
