package vkreplay

import (
	"fmt"

	vk "github.com/vulkan-go/vulkan"
)

type Queue struct {
	Device      *Device
	QueueFamily *QueueFamily
	VKQueue     vk.Queue
}

func (q *Queue) WaitIdle() error {
	return vk.Error(vk.QueueWaitIdle(q.VKQueue))
}

// SubmitWithFence submits buffers in one batch that first waits on wait at
// every pipeline stage. fence may be nil.
func (q *Queue) SubmitWithFence(fence *Fence, wait []vk.Semaphore, buffers ...*CommandBuffer) error {
	submitInfo := vk.SubmitInfo{
		SType:              vk.StructureTypeSubmitInfo,
		CommandBufferCount: uint32(len(buffers)),
	}

	if len(buffers) > 0 {
		b := make([]vk.CommandBuffer, len(buffers))
		for i := range buffers {
			b[i] = buffers[i].VKCommandBuffer
		}
		submitInfo.PCommandBuffers = b
	}

	if len(wait) > 0 {
		stages := make([]vk.PipelineStageFlags, len(wait))
		for i := range stages {
			stages[i] = vk.PipelineStageFlags(vk.PipelineStageAllCommandsBit)
		}
		submitInfo.WaitSemaphoreCount = uint32(len(wait))
		submitInfo.PWaitSemaphores = wait
		submitInfo.PWaitDstStageMask = stages
	}

	var vkFence vk.Fence
	if fence != nil {
		vkFence = fence.VKFence
	}

	return vk.Error(vk.QueueSubmit(q.VKQueue, 1, []vk.SubmitInfo{submitInfo}, vkFence))
}

// Present queues image index of swapchain for presentation.
func (q *Queue) Present(swapchain *Swapchain, index uint32) error {
	presentInfo := vk.PresentInfo{
		SType:          vk.StructureTypePresentInfo,
		SwapchainCount: 1,
		PSwapchains:    []vk.Swapchain{swapchain.VKSwapchain},
		PImageIndices:  []uint32{index},
	}
	return vk.Error(vk.QueuePresent(q.VKQueue, &presentInfo))
}

func (q *Queue) String() string {
	return fmt.Sprintf("{Device: %s QueueFamily: %s}", q.Device.String(), q.QueueFamily.String())
}
