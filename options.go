package vkreplay

import (
	"fmt"
	"log/slog"
	"strings"

	vk "github.com/vulkan-go/vulkan"

	"github.com/celer/vkreplay/internal/config"
	tracing "github.com/celer/vkreplay/internal/otel"
)

// Options configures a Replay. LoadOptions fills it from VKREPLAY_*
// environment variables.
type Options struct {
	AppName string `env:"VKREPLAY_APP_NAME" envDefault:"vkreplay"`
	// Debug enables the validation layer and routes its reports to the logger.
	Debug           bool   `env:"VKREPLAY_DEBUG"`
	SwapchainImages uint32 `env:"VKREPLAY_SWAPCHAIN_IMAGES" envDefault:"2"`
	// PresentMode is one of fifo, mailbox or immediate.
	PresentMode string `env:"VKREPLAY_PRESENT_MODE" envDefault:"fifo"`
	// ShaderDir holds blit.vert.spv and checkerboard.frag.spv. Without it
	// windows are cleared instead of drawing the checkerboard.
	ShaderDir    string     `env:"VKREPLAY_SHADER_DIR"`
	CheckerLight []float32  `env:"VKREPLAY_CHECKER_LIGHT" envDefault:"0.6,0,0,1"`
	CheckerDark  []float32  `env:"VKREPLAY_CHECKER_DARK" envDefault:"0,0,0.6,1"`
	LogLevel     slog.Level `env:"VKREPLAY_LOG_LEVEL" envDefault:"INFO"`

	Telemetry tracing.Config
}

// DefaultOptions returns the options LoadOptions yields with an empty
// environment.
func DefaultOptions() Options {
	return Options{
		AppName:         "vkreplay",
		SwapchainImages: 2,
		PresentMode:     "fifo",
		CheckerLight:    []float32{0.6, 0, 0, 1},
		CheckerDark:     []float32{0, 0, 0.6, 1},
		LogLevel:        slog.LevelInfo,
		Telemetry:       tracing.Config{Enabled: true},
	}
}

// LoadOptions reads Options from the environment and validates them.
func LoadOptions() (Options, error) {
	var o Options
	if err := config.ParseEnv(&o); err != nil {
		return Options{}, err
	}
	if err := o.Validate(); err != nil {
		return Options{}, err
	}
	return o, nil
}

// Validate reports the first option that cannot be used.
func (o Options) Validate() error {
	if o.SwapchainImages == 0 {
		return fmt.Errorf("swapchain images: must be at least 1")
	}
	if _, err := parsePresentMode(o.PresentMode); err != nil {
		return err
	}
	if _, err := color4("checker light", o.CheckerLight); err != nil {
		return err
	}
	if _, err := color4("checker dark", o.CheckerDark); err != nil {
		return err
	}
	return nil
}

var presentModes = map[string]vk.PresentMode{
	"fifo":      vk.PresentModeFifo,
	"mailbox":   vk.PresentModeMailbox,
	"immediate": vk.PresentModeImmediate,
}

func parsePresentMode(s string) (vk.PresentMode, error) {
	if s == "" {
		return vk.PresentModeFifo, nil
	}
	m, ok := presentModes[strings.ToLower(s)]
	if !ok {
		return 0, fmt.Errorf("present mode %q: want fifo, mailbox or immediate", s)
	}
	return m, nil
}

func color4(name string, c []float32) ([4]float32, error) {
	var ret [4]float32
	if len(c) != 4 {
		return ret, fmt.Errorf("%s: want 4 components, got %d", name, len(c))
	}
	copy(ret[:], c)
	return ret, nil
}
