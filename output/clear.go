package output

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// ClearColor clears the acquired slot of the target to c inside a transient
// render pass. The clear replaces the checkerboard background of the next
// Present.
func (m *Manager) ClearColor(ctx context.Context, tgt Target, c Color) (err error) {
	_, span := tracer.Start(ctx, "output.ClearColor",
		trace.WithAttributes(attribute.Int64("window.id", int64(tgt.ID))))
	defer func() { endSpan(span, err) }()

	w, s, err := m.acquiredSlot(tgt, "clear color")
	if w == nil || err != nil {
		return err
	}

	if err := m.cmd.Begin(); err != nil {
		return fmt.Errorf("output window %d: begin commands: %w", w.id, err)
	}
	saved := s.trans
	s.trans.Transition(m.cmd, LayoutColorAttachmentOptimal)
	m.cmd.BeginRenderPass(w.t.renderPass, s.fb, w.t.extent, ClearValue{Color: c})
	m.cmd.EndRenderPass()

	submitted, err := m.submitAndWait()
	if !submitted {
		s.trans = saved
	}
	if err != nil {
		return fmt.Errorf("output window %d: clear color: %w", w.id, err)
	}
	s.cleared = true
	return nil
}

// ClearDepth clears the depth target of the window to depth and stencil.
// The color attachment of the slot is loaded, not cleared.
func (m *Manager) ClearDepth(ctx context.Context, tgt Target, depth float32, stencil uint32) (err error) {
	_, span := tracer.Start(ctx, "output.ClearDepth",
		trace.WithAttributes(attribute.Int64("window.id", int64(tgt.ID))))
	defer func() { endSpan(span, err) }()

	w, s, err := m.acquiredSlot(tgt, "clear depth")
	if w == nil || err != nil {
		return err
	}
	if !tgt.Depth || w.t.depth == nil {
		return fmt.Errorf("%w: window %d", ErrNoDepth, w.id)
	}

	if err := m.cmd.Begin(); err != nil {
		return fmt.Errorf("output window %d: begin commands: %w", w.id, err)
	}
	savedSlot, savedDepth := s.trans, w.t.depthTrans
	s.trans.Transition(m.cmd, LayoutColorAttachmentOptimal)
	w.t.depthTrans.Transition(m.cmd, LayoutDepthStencilAttachmentOptimal)
	m.cmd.BeginRenderPass(w.t.depthPass, s.depthFB, w.t.extent,
		ClearValue{},
		ClearValue{Depth: depth, Stencil: stencil})
	m.cmd.EndRenderPass()

	submitted, err := m.submitAndWait()
	if !submitted {
		s.trans, w.t.depthTrans = savedSlot, savedDepth
	}
	if err != nil {
		return fmt.Errorf("output window %d: clear depth: %w", w.id, err)
	}
	return nil
}

// submitAndWait ends recording, submits the command buffer and waits for
// the queue to drain. It reports whether the work reached the queue.
func (m *Manager) submitAndWait() (bool, error) {
	if err := m.cmd.End(); err != nil {
		return false, fmt.Errorf("end commands: %w", err)
	}
	if err := m.queue.Submit(m.cmd); err != nil {
		return false, fmt.Errorf("submit: %w", err)
	}
	if err := m.queue.WaitIdle(); err != nil {
		return true, fmt.Errorf("wait idle: %w", err)
	}
	return true, nil
}
