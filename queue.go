package hertra

import vk "github.com/vulkan-go/vulkan"

// QueueFamilyIndices records the graphics and present family of a
// physical device. A family is absent until its Has flag is set.
type QueueFamilyIndices struct {
	Graphics    uint32
	Present     uint32
	HasGraphics bool
	HasPresent  bool
}

func (q QueueFamilyIndices) Complete() bool {
	return q.HasGraphics && q.HasPresent
}

// Unique lists the distinct family indices, graphics first.
func (q QueueFamilyIndices) Unique() []uint32 {
	if q.Graphics == q.Present {
		return []uint32{q.Graphics}
	}
	return []uint32{q.Graphics, q.Present}
}

// queueFamily is the part of a family's properties the search cares about.
type queueFamily struct {
	flags   vk.QueueFlags
	present bool
}

// findQueueFamilies scans families in order and stops as soon as both a
// graphics and a present family are known.
func findQueueFamilies(families []queueFamily) QueueFamilyIndices {
	var indices QueueFamilyIndices
	for i, family := range families {
		if family.flags&vk.QueueFlags(vk.QueueGraphicsBit) != 0 {
			indices.Graphics = uint32(i)
			indices.HasGraphics = true
		}
		if family.present {
			indices.Present = uint32(i)
			indices.HasPresent = true
		}
		if indices.Complete() {
			break
		}
	}
	return indices
}

// queryQueueFamilies reads the family properties and presentation support
// of gpu for surface.
func queryQueueFamilies(gpu vk.PhysicalDevice, surface vk.Surface) []queueFamily {
	var count uint32
	vk.GetPhysicalDeviceQueueFamilyProperties(gpu, &count, nil)
	properties := make([]vk.QueueFamilyProperties, count)
	vk.GetPhysicalDeviceQueueFamilyProperties(gpu, &count, properties)

	families := make([]queueFamily, count)
	for i := range properties {
		properties[i].Deref()
		var supported vk.Bool32
		vk.GetPhysicalDeviceSurfaceSupport(gpu, uint32(i), surface, &supported)
		families[i] = queueFamily{
			flags:   properties[i].QueueFlags,
			present: supported.B(),
		}
	}
	return families
}

// CoreQueue holds the queues fetched from a logical device.
type CoreQueue struct {
	indices  QueueFamilyIndices
	graphics vk.Queue
	present  vk.Queue
}

// GetCreateInfos builds one create info with a single queue per unique family.
func (indices QueueFamilyIndices) GetCreateInfos() []vk.DeviceQueueCreateInfo {
	unique := indices.Unique()
	infos := make([]vk.DeviceQueueCreateInfo, len(unique))
	for i, family := range unique {
		infos[i] = vk.DeviceQueueCreateInfo{
			SType:            vk.StructureTypeDeviceQueueCreateInfo,
			QueueFamilyIndex: family,
			QueueCount:       1,
			PQueuePriorities: []float32{1.0},
		}
	}
	return infos
}

//Fetches graphics and present queues once the device exists
func NewCoreQueue(device vk.Device, indices QueueFamilyIndices) *CoreQueue {
	q := &CoreQueue{indices: indices}
	vk.GetDeviceQueue(device, indices.Graphics, 0, &q.graphics)
	vk.GetDeviceQueue(device, indices.Present, 0, &q.present)
	return q
}

func (q *CoreQueue) Graphics() vk.Queue { return q.graphics }
func (q *CoreQueue) Present() vk.Queue  { return q.present }

func (q *CoreQueue) Indices() QueueFamilyIndices { return q.indices }
