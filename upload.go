package vkreplay

import (
	"errors"
	"image"
	"image/draw"
	"os"
	"time"

	// Decoders for LoadSourceImage.
	_ "image/png"

	vk "github.com/vulkan-go/vulkan"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"

	"github.com/celer/vkreplay/output"
)

// uploadTimeout bounds the wait for a staging copy.
const uploadTimeout = 10 * time.Second

// UploadSourceImage creates a device local B8G8R8A8_UNORM image of extent
// filled with pixels and leaves it in PresentSource layout, ready to be set
// as the compositor source.
func (b *Backend) UploadSourceImage(pixels []byte, extent output.Extent) (output.Image, error) {
	size := uint64(extent.Width) * uint64(extent.Height) * 4
	if size == 0 || uint64(len(pixels)) != size {
		return 0, errors.New("vkreplay: source pixels do not match extent")
	}

	staging, stagingMem, err := b.device.CreateBoundBuffer(size,
		vk.BufferUsageFlags(vk.BufferUsageTransferSrcBit),
		vk.MemoryPropertyFlags(vk.MemoryPropertyHostVisibleBit|vk.MemoryPropertyHostCoherentBit))
	if err != nil {
		return 0, err
	}
	defer stagingMem.Destroy()
	defer staging.Destroy()

	if err := stagingMem.MapCopyUnmap(pixels); err != nil {
		return 0, err
	}

	img, err := b.device.CreateBoundImage(
		vk.Extent2D{Width: extent.Width, Height: extent.Height},
		vk.FormatB8g8r8a8Unorm,
		vk.ImageTilingOptimal,
		vk.ImageUsageFlags(vk.ImageUsageTransferDstBit|vk.ImageUsageTransferSrcBit|vk.ImageUsageSampledBit),
		vk.MemoryPropertyFlags(vk.MemoryPropertyDeviceLocalBit))
	if err != nil {
		return 0, err
	}

	h := put(&b.ids, b.images, &img.Image)
	if err := b.stage(h, img, staging); err != nil {
		take(b.images, h)
		img.Destroy()
		return 0, err
	}
	b.sources[h] = img.DeviceMemory
	return h, nil
}

// stage copies staging into the image registered as h and leaves it in
// LayoutPresentSource, the layout SetSource expects.
func (b *Backend) stage(h output.Image, img *BoundImage, staging *Buffer) error {
	cmds := b.Commands()
	trans := output.NewLayoutTransition(h, output.AspectColor)

	if err := cmds.Begin(); err != nil {
		return err
	}
	trans.Transition(cmds, output.LayoutTransferDstOptimal)
	b.cmd.CmdCopyBufferToImage(staging, &img.Image)
	trans.Transition(cmds, output.LayoutPresentSource)
	if err := cmds.End(); err != nil {
		return err
	}

	f, err := b.device.CreateFence()
	if err != nil {
		return err
	}
	defer f.Destroy()

	if err := b.queue.SubmitWithFence(f, nil, b.cmd); err != nil {
		return err
	}
	return f.Wait(uploadTimeout)
}

// DestroySourceImage releases an image created by UploadSourceImage.
func (b *Backend) DestroySourceImage(h output.Image) {
	mem, ok := take(b.sources, h)
	if !ok {
		return
	}
	if img, ok := take(b.images, h); ok {
		img.Destroy()
	}
	mem.Destroy()
}

// LoadSourceImage decodes a PNG, BMP or TIFF file into B8G8R8A8 pixels.
func LoadSourceImage(file string) ([]byte, output.Extent, error) {
	f, err := os.Open(file)
	if err != nil {
		return nil, output.Extent{}, err
	}
	defer f.Close()

	src, _, err := image.Decode(f)
	if err != nil {
		return nil, output.Extent{}, err
	}

	b := src.Bounds()
	m := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(m, m.Bounds(), src, b.Min, draw.Src)

	return rgbaToBGRA(m.Pix), output.Extent{Width: uint32(b.Dx()), Height: uint32(b.Dy())}, nil
}

func rgbaToBGRA(pix []byte) []byte {
	out := make([]byte, len(pix))
	for i := 0; i+3 < len(pix); i += 4 {
		out[i+0] = pix[i+2]
		out[i+1] = pix[i+1]
		out[i+2] = pix[i+0]
		out[i+3] = pix[i+3]
	}
	return out
}
