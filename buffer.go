package vkreplay

import (
	vk "github.com/vulkan-go/vulkan"
)

// Buffer is a linear device object backed by DeviceMemory.
type Buffer struct {
	Device   *Device
	VKBuffer vk.Buffer
	Size     uint64
}

func (d *Device) CreateBufferWithOptions(sizeInBytes uint64, usage vk.BufferUsageFlags, sharing vk.SharingMode) (*Buffer, error) {
	bufferCreateInfo := vk.BufferCreateInfo{
		SType:       vk.StructureTypeBufferCreateInfo,
		Size:        vk.DeviceSize(sizeInBytes),
		Usage:       usage,
		SharingMode: sharing,
	}

	var buffer vk.Buffer
	err := vk.Error(vk.CreateBuffer(d.VKDevice, &bufferCreateInfo, nil, &buffer))
	if err != nil {
		return nil, err
	}

	return &Buffer{Device: d, VKBuffer: buffer, Size: sizeInBytes}, nil
}

// CreateBoundBuffer creates a buffer and binds fresh memory with props to it.
func (d *Device) CreateBoundBuffer(size uint64, usage vk.BufferUsageFlags, props vk.MemoryPropertyFlags) (*Buffer, *DeviceMemory, error) {
	b, err := d.CreateBufferWithOptions(size, usage, vk.SharingModeExclusive)
	if err != nil {
		return nil, nil, err
	}

	mr := b.VKMemoryRequirements()
	mem, err := d.Allocate(uint64(mr.Size), mr.MemoryTypeBits, props)
	if err != nil {
		b.Destroy()
		return nil, nil, err
	}

	if err := b.Bind(mem, 0); err != nil {
		mem.Destroy()
		b.Destroy()
		return nil, nil, err
	}
	return b, mem, nil
}

func (b *Buffer) VKMemoryRequirements() vk.MemoryRequirements {
	var memoryRequirements vk.MemoryRequirements
	vk.GetBufferMemoryRequirements(b.Device.VKDevice, b.VKBuffer, &memoryRequirements)
	memoryRequirements.Deref()
	return memoryRequirements
}

func (b *Buffer) Bind(memory *DeviceMemory, offset uint64) error {
	return vk.Error(vk.BindBufferMemory(b.Device.VKDevice, b.VKBuffer, memory.VKDeviceMemory, vk.DeviceSize(offset)))
}

func (b *Buffer) Destroy() {
	vk.DestroyBuffer(b.Device.VKDevice, b.VKBuffer, nil)
}

// DescriptorInfo describes the whole buffer for a descriptor write.
func (b *Buffer) DescriptorInfo() vk.DescriptorBufferInfo {
	return vk.DescriptorBufferInfo{
		Buffer: b.VKBuffer,
		Range:  vk.DeviceSize(b.Size),
	}
}
