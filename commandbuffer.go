package vkreplay

import (
	vk "github.com/vulkan-go/vulkan"
)

// CommandBuffer describes a sequence of commands executed once submitted to
// a queue. Only the commands the presentation path records are wrapped;
// callers may use VK with the native vulkan command APIs.
type CommandBuffer struct {
	VKCommandBuffer vk.CommandBuffer
}

// VK is a utility function for accessing the native vulkan command buffer
func (c *CommandBuffer) VK() vk.CommandBuffer {
	return c.VKCommandBuffer
}

// Reset this command buffer
func (c *CommandBuffer) Reset() error {
	return vk.Error(vk.ResetCommandBuffer(c.VKCommandBuffer, 0))
}

// BeginOneTime resets the buffer and begins recording work that is submitted once.
func (c *CommandBuffer) BeginOneTime() error {
	if err := c.Reset(); err != nil {
		return err
	}
	beginInfo := vk.CommandBufferBeginInfo{
		SType: vk.StructureTypeCommandBufferBeginInfo,
		Flags: vk.CommandBufferUsageFlags(vk.CommandBufferUsageOneTimeSubmitBit),
	}
	return vk.Error(vk.BeginCommandBuffer(c.VKCommandBuffer, &beginInfo))
}

// End describing work for this command buffer
func (c *CommandBuffer) End() error {
	return vk.Error(vk.EndCommandBuffer(c.VKCommandBuffer))
}

func (c *CommandBuffer) CmdImageBarriers(src, dst vk.PipelineStageFlags, barriers []vk.ImageMemoryBarrier) {
	if len(barriers) == 0 {
		return
	}
	vk.CmdPipelineBarrier(c.VKCommandBuffer, src, dst, 0, 0, nil, 0, nil, uint32(len(barriers)), barriers)
}

func (c *CommandBuffer) CmdBeginRenderPass(rp *RenderPass, fb *Framebuffer, area vk.Extent2D, clears []vk.ClearValue) {
	renderPassBeginInfo := vk.RenderPassBeginInfo{
		SType:       vk.StructureTypeRenderPassBeginInfo,
		RenderPass:  rp.VKRenderPass,
		Framebuffer: fb.VKFramebuffer,
		RenderArea: vk.Rect2D{
			Offset: vk.Offset2D{X: 0, Y: 0},
			Extent: area,
		},
		ClearValueCount: uint32(len(clears)),
		PClearValues:    clears,
	}
	vk.CmdBeginRenderPass(c.VKCommandBuffer, &renderPassBeginInfo, vk.SubpassContentsInline)
}

func (c *CommandBuffer) CmdEndRenderPass() {
	vk.CmdEndRenderPass(c.VKCommandBuffer)
}

func (c *CommandBuffer) CmdBindGraphicsPipeline(p vk.Pipeline) {
	vk.CmdBindPipeline(c.VKCommandBuffer, vk.PipelineBindPointGraphics, p)
}

func (c *CommandBuffer) CmdBindDescriptorSets(bindPoint vk.PipelineBindPoint, layout *PipelineLayout, firstSet int, descriptorSets ...*DescriptorSet) {
	sets := make([]vk.DescriptorSet, len(descriptorSets))
	for i := range descriptorSets {
		sets[i] = descriptorSets[i].VKDescriptorSet
	}

	vk.CmdBindDescriptorSets(c.VKCommandBuffer, bindPoint,
		layout.VKPipelineLayout, uint32(firstSet), uint32(len(descriptorSets)), sets, 0, nil)
}

func (c *CommandBuffer) CmdDraw(vertexCount, instanceCount uint32) {
	vk.CmdDraw(c.VKCommandBuffer, vertexCount, instanceCount, 0, 0)
}

var colorLayers = vk.ImageSubresourceLayers{
	AspectMask: vk.ImageAspectFlags(vk.ImageAspectColorBit),
	LayerCount: 1,
}

// CmdCopyImage copies the top left extent of src, in TransferSrcOptimal, to
// dst, in TransferDstOptimal.
func (c *CommandBuffer) CmdCopyImage(src, dst vk.Image, extent vk.Extent2D) {
	region := vk.ImageCopy{
		SrcSubresource: colorLayers,
		DstSubresource: colorLayers,
		Extent:         vk.Extent3D{Width: extent.Width, Height: extent.Height, Depth: 1},
	}
	vk.CmdCopyImage(c.VKCommandBuffer,
		src, vk.ImageLayoutTransferSrcOptimal,
		dst, vk.ImageLayoutTransferDstOptimal,
		1, []vk.ImageCopy{region})
}

// CmdCopyImageToBuffer copies a width x height block of src at x, y into the
// start of dst.
func (c *CommandBuffer) CmdCopyImageToBuffer(src vk.Image, x, y int32, width, height uint32, dst *Buffer) {
	region := vk.BufferImageCopy{
		ImageSubresource: colorLayers,
		ImageOffset:      vk.Offset3D{X: x, Y: y},
		ImageExtent:      vk.Extent3D{Width: width, Height: height, Depth: 1},
	}
	vk.CmdCopyImageToBuffer(c.VKCommandBuffer, src, vk.ImageLayoutTransferSrcOptimal, dst.VKBuffer, 1, []vk.BufferImageCopy{region})
}

// CmdCopyBufferToImage fills the whole of dst, in TransferDstOptimal, from src.
func (c *CommandBuffer) CmdCopyBufferToImage(src *Buffer, dst *Image) {
	region := vk.BufferImageCopy{
		ImageSubresource: colorLayers,
		ImageExtent:      vk.Extent3D{Width: dst.Extent.Width, Height: dst.Extent.Height, Depth: 1},
	}
	vk.CmdCopyBufferToImage(c.VKCommandBuffer, src.VKBuffer, dst.VKImage, vk.ImageLayoutTransferDstOptimal, 1, []vk.BufferImageCopy{region})
}
