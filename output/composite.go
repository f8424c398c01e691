package output

import "fmt"

// checkerboardVertices is the full screen triangle strip quad, generated in
// the vertex shader from the vertex index.
const checkerboardVertices = 4

// layoutSnapshot remembers tracker state so a recording that never reaches
// the queue can be rolled back.
type layoutSnapshot struct {
	slot   *LayoutTransition
	slotv  LayoutTransition
	source *LayoutTransition
	srcv   LayoutTransition
}

func (m *Manager) snapshotLayouts(s *slot) layoutSnapshot {
	snap := layoutSnapshot{slot: &s.trans, slotv: s.trans}
	if m.source != nil {
		snap.source = &m.source.trans
		snap.srcv = m.source.trans
	}
	return snap
}

func (l layoutSnapshot) restore() {
	*l.slot = l.slotv
	if l.source != nil {
		*l.source = l.srcv
	}
}

func minU32(a, b uint32) uint32 {
	if a < b {
		return a
	}
	return b
}

// compositeAndPresent draws the background, copies the source image into the
// acquired slot and presents it, draining the queue and device before
// returning.
func (m *Manager) compositeAndPresent(w *window) error {
	t := w.t
	s := &t.slots[w.current]
	src := m.source

	snap := m.snapshotLayouts(s)
	submitted := false
	defer func() {
		if !submitted {
			snap.restore()
		}
	}()

	if err := m.cmd.Begin(); err != nil {
		return fmt.Errorf("output window %d: begin commands: %w", w.id, err)
	}

	if src != nil {
		src.trans.Transition(m.cmd, LayoutTransferSrcOptimal)
	}

	if !s.cleared {
		s.trans.Transition(m.cmd, LayoutColorAttachmentOptimal)
		m.cmd.BeginRenderPass(t.renderPass, s.fb, t.extent, ClearValue{Color: m.clearColor})
		if t.pipeline != 0 {
			m.cmd.BindCheckerboard(t.pipeline)
			m.cmd.Draw(checkerboardVertices, 1)
		}
		m.cmd.EndRenderPass()
	}

	if src != nil {
		s.trans.Transition(m.cmd, LayoutTransferDstOptimal)
		m.cmd.CopyImage(src.Image, s.image, Extent{
			Width:  minU32(src.Extent.Width, t.extent.Width),
			Height: minU32(src.Extent.Height, t.extent.Height),
		})
		src.trans.Transition(m.cmd, LayoutPresentSource)
	}

	s.trans.Transition(m.cmd, LayoutPresentSource)

	if err := m.cmd.End(); err != nil {
		return fmt.Errorf("output window %d: end commands: %w", w.id, err)
	}
	if err := m.queue.Submit(m.cmd); err != nil {
		return fmt.Errorf("output window %d: submit: %w", w.id, err)
	}
	submitted = true
	s.cleared = false

	// The slot counts as handed back once its work is submitted.
	w.state = StatePresented

	if err := m.queue.WaitIdle(); err != nil {
		return fmt.Errorf("output window %d: wait idle: %w", w.id, err)
	}
	if err := m.queue.Present(t.swapchain, w.current); err != nil {
		return fmt.Errorf("output window %d: present image %d: %w", w.id, w.current, err)
	}
	if err := m.queue.WaitIdle(); err != nil {
		return fmt.Errorf("output window %d: wait idle: %w", w.id, err)
	}
	if err := m.dev.WaitIdle(); err != nil {
		return fmt.Errorf("output window %d: device wait idle: %w", w.id, err)
	}

	slogger().Debug("presented image", "window", w.id, "slot", w.current)
	return nil
}
