/*
Package vkreplay presents replayed Vulkan frames to output windows and
reports the pipeline state at the current capture position.

A Replay owns one instance, one logical device with a single graphics queue
and one reusable command buffer. Every frame is recorded, submitted and
waited on before the next begins, so nothing here is pipelined.

Objects

	Backend		the device side of the output package: swapchains, images,
			render passes and framebuffers keyed by opaque handles
	GLFWSurfaces	presentation surfaces for host windows opened with glfw
	Replay		the facade driven by the debugger UI
	Options		configuration, normally loaded from VKREPLAY_* variables

A typical frame with one window:

	1. BindOutputWindow acquires the next swapchain image
	2. the caller optionally clears colour or depth
	3. FlipOutputWindow draws the checkerboard, copies the source image over
	   it and presents

Native Vulkan structures are exposed on the wrapper types in fields prefixed
with VK, so callers are not limited to what the wrappers provide.

The window lifecycle and layout tracking live in package output; the
pipeline snapshot is built by package pipestate.
*/
package vkreplay
