package hertra

import vk "github.com/vulkan-go/vulkan"

// enumerate runs the usual two-call Vulkan enumeration: once for the count,
// once to fill the list. name extracts the string from each dereferenced entry.
func enumerate[T any](fill func(count *uint32, list []T) vk.Result, name func(*T) string) (names []string, err error) {
	defer checkErr(&err)

	var count uint32
	orPanic(NewError(fill(&count, nil)))
	list := make([]T, count)
	orPanic(NewError(fill(&count, list)))
	for i := range list[:count] {
		names = append(names, name(&list[i]))
	}
	return names, nil
}

// InstanceExtensions gets a list of instance extensions available on the platform.
func InstanceExtensions() ([]string, error) {
	return enumerate(func(count *uint32, list []vk.ExtensionProperties) vk.Result {
		return vk.EnumerateInstanceExtensionProperties("", count, list)
	}, extensionName)
}

// DeviceExtensions gets a list of extensions available on the provided physical device.
func DeviceExtensions(gpu vk.PhysicalDevice) ([]string, error) {
	return enumerate(func(count *uint32, list []vk.ExtensionProperties) vk.Result {
		return vk.EnumerateDeviceExtensionProperties(gpu, "", count, list)
	}, extensionName)
}

// ValidationLayers gets a list of validation layers available on the platform.
func ValidationLayers() ([]string, error) {
	return enumerate(func(count *uint32, list []vk.LayerProperties) vk.Result {
		return vk.EnumerateInstanceLayerProperties(count, list)
	}, func(layer *vk.LayerProperties) string {
		layer.Deref()
		return vk.ToString(layer.LayerName[:])
	})
}

func extensionName(ext *vk.ExtensionProperties) string {
	ext.Deref()
	return vk.ToString(ext.ExtensionName[:])
}
