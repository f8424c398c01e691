package output

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// pickBufferSize is the readback buffer allocated for a single texel.
const pickBufferSize = 128

// Pixel is an RGBA value in [0, 1].
type Pixel [4]float32

// PickPixel reads back one texel of the source image. The source is assumed
// to hold B8G8R8A8 data. Coordinates outside the source, or no source at
// all, return a zero pixel and ErrOutOfRange without recording any work.
func (m *Manager) PickPixel(ctx context.Context, x, y uint32) (px Pixel, err error) {
	_, span := tracer.Start(ctx, "output.PickPixel",
		trace.WithAttributes(attribute.Int64("x", int64(x)), attribute.Int64("y", int64(y))))
	defer func() { endSpan(span, err) }()

	src := m.source
	if src == nil || x >= src.Extent.Width || y >= src.Extent.Height {
		return Pixel{}, fmt.Errorf("%w: pixel (%d, %d)", ErrOutOfRange, x, y)
	}

	buf, mem, err := m.dev.CreateReadbackBuffer(pickBufferSize)
	if err != nil {
		return Pixel{}, fmt.Errorf("output: create readback buffer: %w", err)
	}
	defer m.dev.DestroyBuffer(buf, mem)

	if err := m.cmd.Begin(); err != nil {
		return Pixel{}, fmt.Errorf("output: begin commands: %w", err)
	}
	saved := src.trans
	prev := src.trans.NewLayout
	src.trans.Transition(m.cmd, LayoutTransferSrcOptimal)
	m.cmd.CopyImageToBuffer(src.Image, int32(x), int32(y), buf)
	src.trans.Transition(m.cmd, prev)

	submitted, err := m.submitAndWait()
	if !submitted {
		src.trans = saved
	}
	if err != nil {
		return Pixel{}, fmt.Errorf("output: pick pixel: %w", err)
	}

	data, err := m.dev.ReadMemory(mem, 4)
	if err != nil {
		return Pixel{}, fmt.Errorf("output: read pixel: %w", err)
	}
	if len(data) < 4 {
		return Pixel{}, fmt.Errorf("output: read pixel: short read of %d bytes", len(data))
	}

	// BGRA in memory.
	return Pixel{
		float32(data[2]) / 255,
		float32(data[1]) / 255,
		float32(data[0]) / 255,
		float32(data[3]) / 255,
	}, nil
}
