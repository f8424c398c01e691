package pipestate

// CompType is the interpretation of a format's components.
type CompType int

const (
	CompTypeNone CompType = iota
	CompTypeFloat
	CompTypeUNorm
	CompTypeSNorm
	CompTypeUInt
	CompTypeSInt
	CompTypeDepth
)

func (c CompType) String() string {
	switch c {
	case CompTypeFloat:
		return "Float"
	case CompTypeUNorm:
		return "UNorm"
	case CompTypeSNorm:
		return "SNorm"
	case CompTypeUInt:
		return "UInt"
	case CompTypeSInt:
		return "SInt"
	case CompTypeDepth:
		return "Depth"
	}
	return "None"
}

// ResourceFormat describes an element format. Special formats are packed or
// mixed layouts that ComponentCount and ComponentWidth only approximate.
type ResourceFormat struct {
	Name           string
	ComponentCount uint32
	// ComponentWidth is in bytes.
	ComponentWidth uint32
	CompType       CompType
	SRGB           bool
	Special        bool
}

// UnknownFormat is the description of VK_FORMAT_UNDEFINED and the
// substitute for formats missing from the table.
var UnknownFormat = ResourceFormat{Name: "UNKNOWN", Special: true}

func plain(name string, count, width uint32, t CompType) ResourceFormat {
	return ResourceFormat{Name: name, ComponentCount: count, ComponentWidth: width, CompType: t}
}

var formats = map[uint32]ResourceFormat{
	0: UnknownFormat,

	9:  plain("R8_UNORM", 1, 1, CompTypeUNorm),
	10: plain("R8_SNORM", 1, 1, CompTypeSNorm),
	13: plain("R8_UINT", 1, 1, CompTypeUInt),
	14: plain("R8_SINT", 1, 1, CompTypeSInt),
	16: plain("R8G8_UNORM", 2, 1, CompTypeUNorm),
	17: plain("R8G8_SNORM", 2, 1, CompTypeSNorm),
	20: plain("R8G8_UINT", 2, 1, CompTypeUInt),
	21: plain("R8G8_SINT", 2, 1, CompTypeSInt),

	37: plain("R8G8B8A8_UNORM", 4, 1, CompTypeUNorm),
	38: plain("R8G8B8A8_SNORM", 4, 1, CompTypeSNorm),
	41: plain("R8G8B8A8_UINT", 4, 1, CompTypeUInt),
	42: plain("R8G8B8A8_SINT", 4, 1, CompTypeSInt),
	43: {Name: "R8G8B8A8_SRGB", ComponentCount: 4, ComponentWidth: 1, CompType: CompTypeUNorm, SRGB: true},
	44: plain("B8G8R8A8_UNORM", 4, 1, CompTypeUNorm),
	50: {Name: "B8G8R8A8_SRGB", ComponentCount: 4, ComponentWidth: 1, CompType: CompTypeUNorm, SRGB: true},

	64: {Name: "A2B10G10R10_UNORM_PACK32", ComponentCount: 4, ComponentWidth: 4, CompType: CompTypeUNorm, Special: true},

	70: plain("R16_UNORM", 1, 2, CompTypeUNorm),
	74: plain("R16_UINT", 1, 2, CompTypeUInt),
	75: plain("R16_SINT", 1, 2, CompTypeSInt),
	76: plain("R16_SFLOAT", 1, 2, CompTypeFloat),
	77: plain("R16G16_UNORM", 2, 2, CompTypeUNorm),
	81: plain("R16G16_UINT", 2, 2, CompTypeUInt),
	82: plain("R16G16_SINT", 2, 2, CompTypeSInt),
	83: plain("R16G16_SFLOAT", 2, 2, CompTypeFloat),
	91: plain("R16G16B16A16_UNORM", 4, 2, CompTypeUNorm),
	95: plain("R16G16B16A16_UINT", 4, 2, CompTypeUInt),
	96: plain("R16G16B16A16_SINT", 4, 2, CompTypeSInt),
	97: plain("R16G16B16A16_SFLOAT", 4, 2, CompTypeFloat),

	98:  plain("R32_UINT", 1, 4, CompTypeUInt),
	99:  plain("R32_SINT", 1, 4, CompTypeSInt),
	100: plain("R32_SFLOAT", 1, 4, CompTypeFloat),
	101: plain("R32G32_UINT", 2, 4, CompTypeUInt),
	102: plain("R32G32_SINT", 2, 4, CompTypeSInt),
	103: plain("R32G32_SFLOAT", 2, 4, CompTypeFloat),
	104: plain("R32G32B32_UINT", 3, 4, CompTypeUInt),
	105: plain("R32G32B32_SINT", 3, 4, CompTypeSInt),
	106: plain("R32G32B32_SFLOAT", 3, 4, CompTypeFloat),
	107: plain("R32G32B32A32_UINT", 4, 4, CompTypeUInt),
	108: plain("R32G32B32A32_SINT", 4, 4, CompTypeSInt),
	109: plain("R32G32B32A32_SFLOAT", 4, 4, CompTypeFloat),

	124: plain("D16_UNORM", 1, 2, CompTypeDepth),
	126: plain("D32_SFLOAT", 1, 4, CompTypeDepth),
	129: {Name: "D24_UNORM_S8_UINT", ComponentCount: 2, ComponentWidth: 4, CompType: CompTypeDepth, Special: true},
	130: {Name: "D32_SFLOAT_S8_UINT", ComponentCount: 2, ComponentWidth: 5, CompType: CompTypeDepth, Special: true},
}

// MakeResourceFormat describes the Vulkan format value f. The second result
// is false when f is not in the table and UnknownFormat was substituted.
func MakeResourceFormat(f uint32) (ResourceFormat, bool) {
	rf, ok := formats[f]
	if !ok {
		return UnknownFormat, false
	}
	return rf, true
}
