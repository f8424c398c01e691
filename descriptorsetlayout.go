package vkreplay

import (
	vk "github.com/vulkan-go/vulkan"
)

// DescriptorSetLayout is a set layout holding uniform buffers, one per
// binding, visible to the given shader stages.
type DescriptorSetLayout struct {
	Device                *Device
	VKDescriptorSetLayout vk.DescriptorSetLayout
	Bindings              uint32
}

// CreateUniformLayout creates a layout with uniform buffer bindings
// 0..bindings-1, each a single descriptor.
func (d *Device) CreateUniformLayout(bindings uint32, stages vk.ShaderStageFlagBits) (*DescriptorSetLayout, error) {
	b := make([]vk.DescriptorSetLayoutBinding, bindings)
	for i := range b {
		b[i] = vk.DescriptorSetLayoutBinding{
			Binding:         uint32(i),
			DescriptorType:  vk.DescriptorTypeUniformBuffer,
			DescriptorCount: 1,
			StageFlags:      vk.ShaderStageFlags(stages),
		}
	}

	var layout vk.DescriptorSetLayout
	err := vk.Error(vk.CreateDescriptorSetLayout(d.VKDevice, &vk.DescriptorSetLayoutCreateInfo{
		SType:        vk.StructureTypeDescriptorSetLayoutCreateInfo,
		BindingCount: bindings,
		PBindings:    b,
	}, nil, &layout))
	if err != nil {
		return nil, err
	}
	return &DescriptorSetLayout{Device: d, VKDescriptorSetLayout: layout, Bindings: bindings}, nil
}

func (l *DescriptorSetLayout) Destroy() {
	vk.DestroyDescriptorSetLayout(l.Device.VKDevice, l.VKDescriptorSetLayout, nil)
}
