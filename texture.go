package vkreplay

import (
	vk "github.com/vulkan-go/vulkan"

	"github.com/celer/vkreplay/output"
	"github.com/celer/vkreplay/pipestate"
)

// TextureFlags describe how a texture was created.
type TextureFlags uint32

const (
	TextureSwapBuffer TextureFlags = 1 << iota
	TextureShaderResource
	TextureRenderTarget
)

// Texture describes a texture known to the replay.
type Texture struct {
	ID         pipestate.ResourceID
	Name       string
	CustomName bool
	Width      uint32
	Height     uint32
	Depth      uint32
	Dimension  uint32
	Mips       uint32
	ArraySize  uint32
	Samples    uint32
	ByteSize   uint64
	Cubemap    bool
	Flags      TextureFlags
	Format     pipestate.ResourceFormat
}

// BackbufferID is the id of the presentable image reported before any source
// image is set.
const BackbufferID pipestate.ResourceID = 1

const presentableName = "WSI Presentable Image"

var placeholderExtent = output.Extent{Width: 1280, Height: 720}

type sourceTexture struct {
	id     pipestate.ResourceID
	image  output.Image
	extent output.Extent
}

func presentableTexture(id pipestate.ResourceID, extent output.Extent) Texture {
	format, _ := pipestate.MakeResourceFormat(uint32(vk.FormatB8g8r8a8Unorm))
	return Texture{
		ID:        id,
		Name:      presentableName,
		Width:     extent.Width,
		Height:    extent.Height,
		Depth:     1,
		Dimension: 2,
		Mips:      1,
		ArraySize: 1,
		Samples:   1,
		ByteSize:  uint64(extent.Width) * uint64(extent.Height) * 4,
		Flags:     TextureSwapBuffer | TextureShaderResource | TextureRenderTarget,
		Format:    format,
	}
}
