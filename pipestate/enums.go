package pipestate

// enumTable names the members of a Vulkan enum whose values run from zero
// without gaps. Values outside the table translate to the zero member.
type enumTable []string

func (t enumTable) lookup(v uint32) (string, bool) {
	if v < uint32(len(t)) {
		return t[v], true
	}
	return t[0], false
}

var (
	topologies = enumTable{
		"PointList",
		"LineList",
		"LineStrip",
		"TriangleList",
		"TriangleStrip",
		"TriangleFan",
		"LineListWithAdjacency",
		"LineStripWithAdjacency",
		"TriangleListWithAdjacency",
		"TriangleStripWithAdjacency",
		"PatchList",
	}

	fillModes = enumTable{"Solid", "Wireframe", "Point"}

	cullModes = enumTable{"None", "Front", "Back", "FrontAndBack"}

	frontFaces = enumTable{"CounterClockwise", "Clockwise"}

	compareOps = enumTable{
		"Never",
		"Less",
		"Equal",
		"LessEqual",
		"Greater",
		"NotEqual",
		"GreaterEqual",
		"Always",
	}

	stencilOps = enumTable{
		"Keep",
		"Zero",
		"Replace",
		"IncrementAndClamp",
		"DecrementAndClamp",
		"Invert",
		"IncrementAndWrap",
		"DecrementAndWrap",
	}

	logicOps = enumTable{
		"Clear",
		"And",
		"AndReverse",
		"Copy",
		"AndInverted",
		"NoOp",
		"Xor",
		"Or",
		"Nor",
		"Equivalent",
		"Invert",
		"OrReverse",
		"CopyInverted",
		"OrInverted",
		"Nand",
		"Set",
	}

	blendFactors = enumTable{
		"Zero",
		"One",
		"SrcColor",
		"OneMinusSrcColor",
		"DstColor",
		"OneMinusDstColor",
		"SrcAlpha",
		"OneMinusSrcAlpha",
		"DstAlpha",
		"OneMinusDstAlpha",
		"ConstantColor",
		"OneMinusConstantColor",
		"ConstantAlpha",
		"OneMinusConstantAlpha",
		"SrcAlphaSaturate",
		"Src1Color",
		"OneMinusSrc1Color",
		"Src1Alpha",
		"OneMinusSrc1Alpha",
	}

	blendOps = enumTable{"Add", "Subtract", "ReverseSubtract", "Min", "Max"}
)
