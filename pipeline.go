package vkreplay

import (
	vk "github.com/vulkan-go/vulkan"
)

type PipelineCache struct {
	Device          *Device
	VKPipelineCache vk.PipelineCache
}

func (d *Device) CreatePipelineCache() (*PipelineCache, error) {
	pipelineCacheCreate := vk.PipelineCacheCreateInfo{
		SType: vk.StructureTypePipelineCacheCreateInfo,
	}

	var pipelineCache vk.PipelineCache
	err := vk.Error(vk.CreatePipelineCache(d.VKDevice, &pipelineCacheCreate, nil, &pipelineCache))
	if err != nil {
		return nil, err
	}
	return &PipelineCache{Device: d, VKPipelineCache: pipelineCache}, nil
}

func (p *PipelineCache) Destroy() {
	vk.DestroyPipelineCache(p.Device.VKDevice, p.VKPipelineCache, nil)
}

// CreateGraphicsPipeline creates one pipeline from config for subpass 0 of rp.
func (p *PipelineCache) CreateGraphicsPipeline(config *GraphicsPipelineConfig, rp *RenderPass, extent vk.Extent2D) (vk.Pipeline, error) {
	info := config.VKGraphicsPipelineCreateInfo(extent)
	info.RenderPass = rp.VKRenderPass

	pipelines := make([]vk.Pipeline, 1)
	err := vk.Error(vk.CreateGraphicsPipelines(p.Device.VKDevice, p.VKPipelineCache,
		1, []vk.GraphicsPipelineCreateInfo{info}, nil, pipelines))
	return pipelines[0], err
}
