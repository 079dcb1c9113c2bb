package hertra

import (
	"encoding/binary"
	"os"

	"github.com/pkg/errors"
	vk "github.com/vulkan-go/vulkan"
	"golang.org/x/exp/slog"
)

const spirvMagic = 0x07230203

// LoadShaderCode reads a SPIR-V binary and checks that it looks like one.
// Every failure wraps ErrShaderLoad.
func LoadShaderCode(path string) ([]byte, error) {
	code, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(ErrShaderLoad, "%s: %v", path, err)
	}
	switch {
	case len(code) == 0:
		return nil, errors.Wrapf(ErrShaderLoad, "%s: file is empty", path)
	case len(code) < 4:
		return nil, errors.Wrapf(ErrShaderLoad, "%s: file too small (%d bytes)", path, len(code))
	case len(code)%4 != 0:
		return nil, errors.Wrapf(ErrShaderLoad, "%s: size %d is not a multiple of 4", path, len(code))
	}
	if magic := binary.LittleEndian.Uint32(code); magic != spirvMagic {
		return nil, errors.Wrapf(ErrShaderLoad, "%s: bad SPIR-V magic %#08x", path, magic)
	}
	Logger().Debug("loaded shader", slog.String("path", path), slog.Int("bytes", len(code)))
	return code, nil
}

// CoreShader is the vertex and fragment module pair of the pipeline.
type CoreShader struct {
	device   vk.Device
	vertex   vk.ShaderModule
	fragment vk.ShaderModule
}

func NewCoreShader(device vk.Device, vertexPath, fragmentPath string) (*CoreShader, error) {
	s := &CoreShader{device: device}
	var err error
	if s.vertex, err = s.load(vertexPath); err != nil {
		return nil, setupError("vertex shader", err)
	}
	if s.fragment, err = s.load(fragmentPath); err != nil {
		s.Destroy()
		return nil, setupError("fragment shader", err)
	}
	return s, nil
}

func (s *CoreShader) load(path string) (vk.ShaderModule, error) {
	code, err := LoadShaderCode(path)
	if err != nil {
		return vk.NullShaderModule, err
	}
	var module vk.ShaderModule
	ret := vk.CreateShaderModule(s.device, &vk.ShaderModuleCreateInfo{
		SType:    vk.StructureTypeShaderModuleCreateInfo,
		CodeSize: uint(len(code)),
		PCode:    sliceUint32(code),
	}, nil, &module)
	if isError(ret) {
		return vk.NullShaderModule, errors.Wrapf(NewError(ret), "create shader module %s", path)
	}
	return module, nil
}

// Stages returns the stage infos, vertex first, with entry point main.
func (s *CoreShader) Stages() []vk.PipelineShaderStageCreateInfo {
	return []vk.PipelineShaderStageCreateInfo{
		{
			SType:  vk.StructureTypePipelineShaderStageCreateInfo,
			Stage:  vk.ShaderStageVertexBit,
			Module: s.vertex,
			PName:  safeString("main"),
		},
		{
			SType:  vk.StructureTypePipelineShaderStageCreateInfo,
			Stage:  vk.ShaderStageFragmentBit,
			Module: s.fragment,
			PName:  safeString("main"),
		},
	}
}

func (s *CoreShader) Destroy() {
	if s.fragment != vk.NullShaderModule {
		vk.DestroyShaderModule(s.device, s.fragment, nil)
		s.fragment = vk.NullShaderModule
	}
	if s.vertex != vk.NullShaderModule {
		vk.DestroyShaderModule(s.device, s.vertex, nil)
		s.vertex = vk.NullShaderModule
	}
}
