package vkreplay

import (
	"errors"

	vk "github.com/vulkan-go/vulkan"

	"github.com/celer/vkreplay/output"
)

type backendQueue struct{ b *Backend }

var _ output.Queue = backendQueue{}

// Submit submits the shared command buffer; every output.CommandBuffer the
// backend hands out records onto it.
func (q backendQueue) Submit(output.CommandBuffer) error {
	return q.b.queue.SubmitWithFence(nil, nil, q.b.cmd)
}

func (q backendQueue) WaitSemaphore(s output.Semaphore) error {
	sem, err := get(q.b.semaphores, s, "semaphore")
	if err != nil {
		return err
	}
	return q.b.queue.SubmitWithFence(nil, []vk.Semaphore{sem})
}

func (q backendQueue) Present(s output.Swapchain, index uint32) error {
	e, err := get(q.b.swapchains, s, "swapchain")
	if err != nil {
		return err
	}
	return q.b.queue.Present(e.swapchain, index)
}

func (q backendQueue) WaitIdle() error {
	return q.b.queue.WaitIdle()
}

// backendCommands records onto the shared command buffer. Handles that do not
// resolve are collected and reported by End.
type backendCommands struct{ b *Backend }

var _ output.CommandBuffer = backendCommands{}

var errRecording = errors.New("vkreplay: recording failed")

func (c backendCommands) fail(err error) {
	c.b.recordErr = errors.Join(c.b.recordErr, err)
}

func (c backendCommands) Begin() error {
	c.b.recordErr = nil
	return c.b.cmd.BeginOneTime()
}

func (c backendCommands) End() error {
	if err := c.b.cmd.End(); err != nil {
		return err
	}
	if c.b.recordErr != nil {
		err := c.b.recordErr
		c.b.recordErr = nil
		return errors.Join(errRecording, err)
	}
	return nil
}

func (c backendCommands) PipelineBarrier(barriers ...output.Barrier) {
	native := make([]vk.ImageMemoryBarrier, 0, len(barriers))
	for _, br := range barriers {
		img, err := get(c.b.images, br.Image, "image")
		if err != nil {
			c.fail(err)
			continue
		}
		native = append(native, imageBarrier(img.VKImage, br))
		slogger().Debug("image barrier", "image", uint64(br.Image), "from", br.OldLayout, "to", br.NewLayout)
	}
	all := vk.PipelineStageFlags(vk.PipelineStageAllCommandsBit)
	c.b.cmd.CmdImageBarriers(all, all, native)
}

// BeginRenderPass uses clears[0] as the color clear and clears[1], when
// present, as the depth/stencil clear.
func (c backendCommands) BeginRenderPass(rp output.RenderPass, fb output.Framebuffer, area output.Extent, clears ...output.ClearValue) {
	pass, err := get(c.b.renderPasses, rp, "render pass")
	if err != nil {
		c.fail(err)
		return
	}
	frame, err := get(c.b.framebuffers, fb, "framebuffer")
	if err != nil {
		c.fail(err)
		return
	}

	values := make([]vk.ClearValue, len(clears))
	for i, cv := range clears {
		if i == 0 {
			values[i] = vk.NewClearValue(cv.Color[:])
		} else {
			values[i] = vk.NewClearDepthStencil(cv.Depth, cv.Stencil)
		}
	}
	c.b.cmd.CmdBeginRenderPass(pass, frame, vk.Extent2D{Width: area.Width, Height: area.Height}, values)
	c.b.inPass = true
}

func (c backendCommands) EndRenderPass() {
	if !c.b.inPass {
		return
	}
	c.b.cmd.CmdEndRenderPass()
	c.b.inPass = false
}

func (c backendCommands) BindCheckerboard(p output.Pipeline) {
	pl, err := get(c.b.pipelines, p, "pipeline")
	if err != nil {
		c.fail(err)
		return
	}
	c.b.checker.bind(c.b.cmd, pl)
}

func (c backendCommands) Draw(vertexCount, instanceCount uint32) {
	c.b.cmd.CmdDraw(vertexCount, instanceCount)
}

func (c backendCommands) CopyImage(src, dst output.Image, extent output.Extent) {
	s, err := get(c.b.images, src, "image")
	if err != nil {
		c.fail(err)
		return
	}
	d, err := get(c.b.images, dst, "image")
	if err != nil {
		c.fail(err)
		return
	}
	c.b.cmd.CmdCopyImage(s.VKImage, d.VKImage, vk.Extent2D{Width: extent.Width, Height: extent.Height})
}

// CopyImageToBuffer copies the single texel at x, y.
func (c backendCommands) CopyImageToBuffer(src output.Image, x, y int32, dst output.Buffer) {
	s, err := get(c.b.images, src, "image")
	if err != nil {
		c.fail(err)
		return
	}
	d, err := get(c.b.buffers, dst, "buffer")
	if err != nil {
		c.fail(err)
		return
	}
	c.b.cmd.CmdCopyImageToBuffer(s.VKImage, x, y, 1, 1, d)
}
