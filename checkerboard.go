package vkreplay

import (
	"encoding/binary"
	"math"
	"path/filepath"

	vk "github.com/vulkan-go/vulkan"
)

// Shader file names looked up in Options.ShaderDir.
const (
	blitVertexShader         = "blit.vert.spv"
	checkerboardPixelShader  = "checkerboard.frag.spv"
	checkerboardUniformBytes = 32
)

// checkerboard holds the objects shared by every window's background
// pipeline: the shaders, the uniform buffer with the two tile colors and the
// descriptor set that exposes it.
type checkerboard struct {
	device *Device
	config *GraphicsPipelineConfig
	dsl    *DescriptorSetLayout
	layout *PipelineLayout
	pool   *DescriptorPool
	set    *DescriptorSet
	ubo    *Buffer
	mem    *DeviceMemory
}

// checkerboardUniforms packs the light and dark tile colors as two std140 vec4s.
func checkerboardUniforms(light, dark [4]float32) []byte {
	out := make([]byte, checkerboardUniformBytes)
	for i, c := range append(light[:], dark[:]...) {
		binary.LittleEndian.PutUint32(out[i*4:], math.Float32bits(c))
	}
	return out
}

func (d *Device) createCheckerboard(shaderDir string, light, dark [4]float32) (_ *checkerboard, err error) {
	c := &checkerboard{device: d}
	defer func() {
		if err != nil {
			c.Destroy()
		}
	}()

	c.config = d.CreateGraphicsPipelineConfig()
	c.config.PrimitiveTopology = vk.PrimitiveTopologyTriangleStrip
	c.config.CullMode = vk.CullModeNone
	c.config.FrontFace = vk.FrontFaceClockwise
	c.config.DepthTestEnable = false
	c.config.DepthWriteEnable = false

	err = c.config.AddShaderStageFromFile(filepath.Join(shaderDir, blitVertexShader), "main", vk.ShaderStageVertexBit)
	if err != nil {
		return nil, err
	}
	err = c.config.AddShaderStageFromFile(filepath.Join(shaderDir, checkerboardPixelShader), "main", vk.ShaderStageFragmentBit)
	if err != nil {
		return nil, err
	}

	c.dsl, err = d.CreateUniformLayout(1, vk.ShaderStageFragmentBit)
	if err != nil {
		return nil, err
	}

	c.layout, err = d.CreatePipelineLayout(c.dsl)
	if err != nil {
		return nil, err
	}
	c.config.SetPipelineLayout(c.layout)

	pool := d.NewDescriptorPool()
	pool.AddPoolSize(vk.DescriptorTypeUniformBuffer, int(c.dsl.Bindings))
	c.pool, err = d.CreateDescriptorPool(pool, 1)
	if err != nil {
		return nil, err
	}

	c.ubo, c.mem, err = d.CreateBoundBuffer(checkerboardUniformBytes,
		vk.BufferUsageFlags(vk.BufferUsageUniformBufferBit),
		vk.MemoryPropertyFlags(vk.MemoryPropertyHostVisibleBit|vk.MemoryPropertyHostCoherentBit))
	if err != nil {
		return nil, err
	}
	if err = c.mem.MapCopyUnmap(checkerboardUniforms(light, dark)); err != nil {
		return nil, err
	}

	c.set, err = c.pool.Allocate(c.dsl)
	if err != nil {
		return nil, err
	}
	c.set.AddBuffer(0, vk.DescriptorTypeUniformBuffer, c.ubo)
	c.set.Write()

	return c, nil
}

// bind records the pipeline and the color descriptor set on cmd.
func (c *checkerboard) bind(cmd *CommandBuffer, p vk.Pipeline) {
	cmd.CmdBindGraphicsPipeline(p)
	cmd.CmdBindDescriptorSets(vk.PipelineBindPointGraphics, c.layout, 0, c.set)
}

func (c *checkerboard) Destroy() {
	if c.pool != nil {
		c.pool.Destroy()
	}
	if c.ubo != nil {
		c.ubo.Destroy()
	}
	if c.mem != nil {
		c.mem.Destroy()
	}
	if c.layout != nil {
		c.layout.Destroy()
	}
	if c.dsl != nil {
		c.dsl.Destroy()
	}
	if c.config != nil {
		c.config.Destroy()
	}
	*c = checkerboard{}
}
