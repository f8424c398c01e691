package output

import "fmt"

// Layout is the tracked state of an image.
type Layout int

const (
	LayoutUndefined Layout = iota
	LayoutColorAttachmentOptimal
	LayoutTransferSrcOptimal
	LayoutTransferDstOptimal
	LayoutPresentSource
	LayoutDepthStencilAttachmentOptimal
)

var layoutNames = [...]string{
	LayoutUndefined:                     "Undefined",
	LayoutColorAttachmentOptimal:        "ColorAttachmentOptimal",
	LayoutTransferSrcOptimal:            "TransferSrcOptimal",
	LayoutTransferDstOptimal:            "TransferDstOptimal",
	LayoutPresentSource:                 "PresentSource",
	LayoutDepthStencilAttachmentOptimal: "DepthStencilAttachmentOptimal",
}

func (l Layout) String() string {
	if l >= 0 && int(l) < len(layoutNames) {
		return layoutNames[l]
	}
	return fmt.Sprintf("Layout(%d)", int(l))
}

// Aspect is a bit mask of image aspects.
type Aspect uint32

const (
	AspectColor Aspect = 1 << iota
	AspectDepth
	AspectStencil
)

// SubresourceRange selects the mips and layers of an image a barrier covers.
type SubresourceRange struct {
	Aspect     Aspect
	BaseMip    uint32
	MipCount   uint32
	BaseLayer  uint32
	LayerCount uint32
}

// Barrier is a single image layout transition as recorded on a command buffer.
type Barrier struct {
	Image     Image
	Range     SubresourceRange
	OldLayout Layout
	NewLayout Layout
}

// LayoutTransition is the per-image record of the last submitted layout
// change. NewLayout is always the layout the image is currently in.
type LayoutTransition struct {
	Image     Image
	Range     SubresourceRange
	OldLayout Layout
	NewLayout Layout
}

// NewLayoutTransition returns an Undefined -> Undefined record over the first
// mip and layer of img.
func NewLayoutTransition(img Image, aspect Aspect) LayoutTransition {
	return LayoutTransition{
		Image: img,
		Range: SubresourceRange{
			Aspect:     aspect,
			MipCount:   1,
			LayerCount: 1,
		},
		OldLayout: LayoutUndefined,
		NewLayout: LayoutUndefined,
	}
}

// Transition records a barrier on cmd moving the image from its last known
// layout to to, then advances the record.
func (t *LayoutTransition) Transition(cmd CommandBuffer, to Layout) {
	cmd.PipelineBarrier(Barrier{
		Image:     t.Image,
		Range:     t.Range,
		OldLayout: t.NewLayout,
		NewLayout: to,
	})
	t.OldLayout = t.NewLayout
	t.NewLayout = to
}

// Reset forgets the tracked layout, used when the image contents are
// discarded by the owner (for example a fresh swapchain image).
func (t *LayoutTransition) Reset(img Image) {
	t.Image = img
	t.OldLayout = LayoutUndefined
	t.NewLayout = LayoutUndefined
}
