// Package shaders holds the GLSL sources of the checkerboard background.
// Point VKREPLAY_SHADER_DIR at this directory after generating.
package shaders

//go:generate glslangValidator -V blit.vert -o blit.vert.spv
//go:generate glslangValidator -V checkerboard.frag -o checkerboard.frag.spv
