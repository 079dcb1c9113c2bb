// Package shaders holds the GLSL sources of the renderer. The compiled
// SPIR-V is loaded from vert.spv and frag.spv at run time.
package shaders

//go:generate glslangValidator -V shader.vert -o vert.spv
//go:generate glslangValidator -V shader.frag -o frag.spv
