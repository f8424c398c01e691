// Package pipestate builds pipeline state snapshots from captured Vulkan
// creation info and the replayed state vector.
//
// Inputs carry raw Vulkan enum values. The snapshot carries names for them,
// and any value outside the known set is reported as a Diagnostic instead
// of failing the build.
package pipestate
