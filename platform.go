package hertra

import (
	"unsafe"

	"github.com/pkg/errors"
	vk "github.com/vulkan-go/vulkan"
	"golang.org/x/exp/slog"
)

const debugReportExtension = "VK_EXT_debug_report"

// Platform owns the Vulkan instance, the optional debug report callback
// and the presentation surface.
type Platform struct {
	instance      vk.Instance
	surface       vk.Surface
	debugCallback vk.DebugReportCallback
	layers        []string
}

// NewPlatform creates the instance. required lists the instance
// extensions the windowing system needs for presentation.
func NewPlatform(cfg Config, required []string) (*Platform, error) {
	actualExtensions, err := InstanceExtensions()
	if err != nil {
		return nil, setupError("instance extensions", err)
	}
	var wanted []string
	if cfg.Validation {
		wanted = append(wanted, debugReportExtension)
	}
	extensions := NewExtensionSet(wanted, required, actualExtensions)
	if ok, missing := extensions.HasRequired(); !ok {
		return nil, setupError("instance extensions", errors.Errorf("missing required instance extensions %v", missing))
	}
	if ok, missing := extensions.HasWanted(); !ok {
		Logger().Warn("missing wanted instance extensions", slog.Any("extensions", missing))
	}

	p := &Platform{}
	if cfg.Validation {
		actualLayers, err := ValidationLayers()
		if err != nil {
			return nil, setupError("validation layers", err)
		}
		layers := NewExtensionSet(cfg.ValidationLayers, nil, actualLayers)
		if ok, missing := layers.HasWanted(); !ok {
			Logger().Warn("missing validation layers", slog.Any("layers", missing))
		}
		p.layers = layers.GetExtensions()
	}

	enabled := extensions.GetExtensions()
	var instance vk.Instance
	ret := vk.CreateInstance(&vk.InstanceCreateInfo{
		SType: vk.StructureTypeInstanceCreateInfo,
		PApplicationInfo: &vk.ApplicationInfo{
			SType:              vk.StructureTypeApplicationInfo,
			ApiVersion:         uint32(DefaultAPIVersion),
			ApplicationVersion: uint32(DefaultAppVersion),
			PApplicationName:   safeString(cfg.AppName),
			PEngineName:        safeString(cfg.AppName),
		},
		EnabledExtensionCount:   uint32(len(enabled)),
		PpEnabledExtensionNames: enabled,
		EnabledLayerCount:       uint32(len(p.layers)),
		PpEnabledLayerNames:     p.layers,
	}, nil, &instance)
	if isError(ret) {
		return nil, setupError("instance", NewError(ret))
	}
	p.instance = instance
	vk.InitInstance(instance)

	if cfg.Validation && extensions.has(debugReportExtension) {
		ret := vk.CreateDebugReportCallback(instance, &vk.DebugReportCallbackCreateInfo{
			SType:       vk.StructureTypeDebugReportCallbackCreateInfo,
			Flags:       vk.DebugReportFlags(vk.DebugReportErrorBit | vk.DebugReportWarningBit | vk.DebugReportPerformanceWarningBit),
			PfnCallback: dbgCallbackFunc,
		}, nil, &p.debugCallback)
		if isError(ret) {
			p.DestroyInstance()
			return nil, setupError("debug report callback", NewError(ret))
		}
		Logger().Info("debug report callback enabled")
	}
	return p, nil
}

// SurfaceSource is anything that can produce a presentation surface for an
// instance. The windowing collaborator implements it.
type SurfaceSource interface {
	CreateSurface(instance vk.Instance) (vk.Surface, error)
}

func (p *Platform) CreateSurface(src SurfaceSource) error {
	surface, err := src.CreateSurface(p.instance)
	if err != nil {
		return setupError("surface", err)
	}
	p.surface = surface
	return nil
}

func (p *Platform) Instance() vk.Instance { return p.instance }
func (p *Platform) Surface() vk.Surface   { return p.surface }
func (p *Platform) Layers() []string      { return p.layers }

func (p *Platform) DestroySurface() {
	if p.surface != vk.NullSurface && p.instance != nil {
		vk.DestroySurface(p.instance, p.surface, nil)
		p.surface = vk.NullSurface
	}
}

// DestroyInstance also removes the debug callback.
func (p *Platform) DestroyInstance() {
	if p.instance == nil {
		return
	}
	if p.debugCallback != vk.NullDebugReportCallback {
		vk.DestroyDebugReportCallback(p.instance, p.debugCallback, nil)
		p.debugCallback = vk.NullDebugReportCallback
	}
	vk.DestroyInstance(p.instance, nil)
	p.instance = nil
}

func dbgCallbackFunc(flags vk.DebugReportFlags, objectType vk.DebugReportObjectType,
	object uint64, location uint, messageCode int32, pLayerPrefix string,
	pMessage string, pUserData unsafe.Pointer) vk.Bool32 {

	attrs := []any{slog.String("layer", pLayerPrefix), slog.Int("code", int(messageCode))}
	switch {
	case flags&vk.DebugReportFlags(vk.DebugReportErrorBit) != 0:
		Logger().Error(pMessage, attrs...)
	case flags&vk.DebugReportFlags(vk.DebugReportWarningBit) != 0,
		flags&vk.DebugReportFlags(vk.DebugReportPerformanceWarningBit) != 0:
		Logger().Warn(pMessage, attrs...)
	case flags&vk.DebugReportFlags(vk.DebugReportDebugBit) != 0:
		Logger().Debug(pMessage, attrs...)
	default:
		Logger().Info(pMessage, attrs...)
	}
	return vk.Bool32(vk.False)
}
