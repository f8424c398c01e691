package vkreplay

import (
	"fmt"
	"unsafe"

	vk "github.com/vulkan-go/vulkan"
)

// DeviceMemory maps to Vulkan DeviceMemory and can either be memory on the host or on the device
type DeviceMemory struct {
	Device         *Device
	VKDeviceMemory vk.DeviceMemory
	Size           uint64
}

// Destroy frees this memory
func (d *DeviceMemory) Destroy() {
	vk.FreeMemory(d.Device.VKDevice, d.VKDeviceMemory, nil)
}

// MapWithSize will map this memory starting at offset 0 with a particular size
func (d *DeviceMemory) MapWithSize(size uint64) (unsafe.Pointer, error) {
	if size > d.Size {
		return nil, fmt.Errorf("map %d bytes of %d byte allocation", size, d.Size)
	}
	var res unsafe.Pointer
	err := vk.Error(vk.MapMemory(d.Device.VKDevice, d.VKDeviceMemory, 0, vk.DeviceSize(size), 0, &res))
	if err != nil {
		return nil, err
	}
	return res, nil
}

// Unmap this memory
func (d *DeviceMemory) Unmap() {
	vk.UnmapMemory(d.Device.VKDevice, d.VKDeviceMemory)
}

// MapCopyUnmap will map this memory, copy the specified data to it and unmap
func (d *DeviceMemory) MapCopyUnmap(data []byte) error {
	pm, err := d.MapWithSize(uint64(len(data)))
	if err != nil {
		return err
	}
	copy(toBytes(pm, len(data)), data)
	d.Unmap()
	return nil
}

// MapReadUnmap returns a copy of the first size bytes of this memory.
func (d *DeviceMemory) MapReadUnmap(size uint64) ([]byte, error) {
	pm, err := d.MapWithSize(size)
	if err != nil {
		return nil, err
	}
	out := make([]byte, size)
	copy(out, toBytes(pm, int(size)))
	d.Unmap()
	return out, nil
}
