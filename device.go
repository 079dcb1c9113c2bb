package hertra

import (
	"github.com/pkg/errors"
	vk "github.com/vulkan-go/vulkan"
	"golang.org/x/exp/slog"
)

// PhysicalDeviceCandidate is what the selector learns about one physical
// device before deciding.
type PhysicalDeviceCandidate struct {
	GPU                 vk.PhysicalDevice
	Name                string
	Families            QueueFamilyIndices
	ExtensionsSupported bool
	HasFormats          bool
	HasPresentModes     bool
}

// Suitable reports whether the device can render and present to the surface.
func (c PhysicalDeviceCandidate) Suitable() bool {
	return c.Families.Complete() && c.ExtensionsSupported && c.HasFormats && c.HasPresentModes
}

// pickCandidate returns the index of the first suitable candidate in
// enumeration order. There is no scoring.
func pickCandidate(candidates []PhysicalDeviceCandidate) (int, error) {
	for i := range candidates {
		if candidates[i].Suitable() {
			return i, nil
		}
	}
	return -1, ErrNoSuitableDevice
}

// collectCandidates probes every device in order. A device whose probe
// fails is kept as an unsuitable candidate so the scan goes on.
func collectCandidates(gpus []vk.PhysicalDevice, probe func(vk.PhysicalDevice) (PhysicalDeviceCandidate, error)) []PhysicalDeviceCandidate {
	candidates := make([]PhysicalDeviceCandidate, 0, len(gpus))
	for i, gpu := range gpus {
		candidate, err := probe(gpu)
		if err != nil {
			Logger().Warn("skipping GPU", slog.Int("index", i), slog.String("name", candidate.Name), slog.Any("error", err))
			candidate = PhysicalDeviceCandidate{GPU: gpu, Name: candidate.Name}
		}
		candidates = append(candidates, candidate)
	}
	return candidates
}

// CoreDevice is the logical device and everything the renderer needs to
// know about the physical device behind it.
type CoreDevice struct {
	gpu              vk.PhysicalDevice
	name             string
	handle           vk.Device
	queues           *CoreQueue
	memoryProperties vk.PhysicalDeviceMemoryProperties
}

// SelectDevice enumerates physical devices, takes the first suitable one and
// creates a logical device with one queue per unique family and the
// required extensions enabled.
func SelectDevice(instance vk.Instance, surface vk.Surface, extensions []string, layers []string) (*CoreDevice, error) {
	var gpuCount uint32
	ret := vk.EnumeratePhysicalDevices(instance, &gpuCount, nil)
	if isError(ret) {
		return nil, setupError("enumerate devices", NewError(ret))
	}
	if gpuCount == 0 {
		return nil, setupError("select device", errors.Wrap(ErrNoSuitableDevice, "no GPU with Vulkan support"))
	}
	gpus := make([]vk.PhysicalDevice, gpuCount)
	ret = vk.EnumeratePhysicalDevices(instance, &gpuCount, gpus)
	if isError(ret) {
		return nil, setupError("enumerate devices", NewError(ret))
	}

	candidates := collectCandidates(gpus[:gpuCount], func(gpu vk.PhysicalDevice) (PhysicalDeviceCandidate, error) {
		return probeCandidate(gpu, surface, extensions)
	})
	index, err := pickCandidate(candidates)
	if err != nil {
		return nil, setupError("select device", err)
	}
	chosen := candidates[index]
	Logger().Info("Using GPU", slog.String("name", chosen.Name))

	queueInfos := chosen.Families.GetCreateInfos()
	enabled := safeStrings(extensions)
	var device vk.Device
	ret = vk.CreateDevice(chosen.GPU, &vk.DeviceCreateInfo{
		SType:                   vk.StructureTypeDeviceCreateInfo,
		QueueCreateInfoCount:    uint32(len(queueInfos)),
		PQueueCreateInfos:       queueInfos,
		EnabledExtensionCount:   uint32(len(enabled)),
		PpEnabledExtensionNames: enabled,
		EnabledLayerCount:       uint32(len(layers)),
		PpEnabledLayerNames:     layers,
		PEnabledFeatures:        []vk.PhysicalDeviceFeatures{{}},
	}, nil, &device)
	if isError(ret) {
		return nil, setupError("create device", NewError(ret))
	}

	core := &CoreDevice{
		gpu:    chosen.GPU,
		name:   chosen.Name,
		handle: device,
		queues: NewCoreQueue(device, chosen.Families),
	}
	vk.GetPhysicalDeviceMemoryProperties(chosen.GPU, &core.memoryProperties)
	core.memoryProperties.Deref()
	return core, nil
}

func probeCandidate(gpu vk.PhysicalDevice, surface vk.Surface, extensions []string) (PhysicalDeviceCandidate, error) {
	var props vk.PhysicalDeviceProperties
	vk.GetPhysicalDeviceProperties(gpu, &props)
	props.Deref()

	candidate := PhysicalDeviceCandidate{
		GPU:      gpu,
		Name:     vk.ToString(props.DeviceName[:]),
		Families: findQueueFamilies(queryQueueFamilies(gpu, surface)),
	}

	actual, err := DeviceExtensions(gpu)
	if err != nil {
		return candidate, err
	}
	candidate.ExtensionsSupported, _ = NewExtensionSet(nil, extensions, actual).HasRequired()
	if candidate.ExtensionsSupported {
		support, err := QuerySwapchainSupport(gpu, surface)
		if err != nil {
			return candidate, err
		}
		candidate.HasFormats = len(support.Formats) > 0
		candidate.HasPresentModes = len(support.PresentModes) > 0
	}
	return candidate, nil
}

// WaitIdle blocks until the device has finished all submitted work.
func (d *CoreDevice) WaitIdle() error {
	if d.handle == nil {
		return nil
	}
	return NewError(vk.DeviceWaitIdle(d.handle))
}

func (d *CoreDevice) Destroy() {
	if d.handle != nil {
		vk.DestroyDevice(d.handle, nil)
		d.handle = nil
	}
}

func (d *CoreDevice) Handle() vk.Device                 { return d.handle }
func (d *CoreDevice) PhysicalDevice() vk.PhysicalDevice { return d.gpu }
func (d *CoreDevice) Queues() *CoreQueue                { return d.queues }
func (d *CoreDevice) Name() string                      { return d.name }
