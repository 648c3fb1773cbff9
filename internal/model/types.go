package model

// JSONMap 自由形态的设置字典
type JSONMap map[string]any

// SizePreset 页面尺寸预设
type SizePreset string

const (
	SizePortrait  SizePreset = "portrait"
	SizeLandscape SizePreset = "landscape"
	SizeSquare    SizePreset = "square"
)

// 预设对应的像素尺寸
var presetSizes = map[SizePreset]struct{ Width, Height int }{
	SizePortrait:  {1536, 2048}, // 标准书页
	SizeLandscape: {2048, 1536},
	SizeSquare:    {2048, 2048},
}

// PresetSize 返回预设对应的宽高，未知预设返回 false
func PresetSize(p SizePreset) (width, height int, ok bool) {
	s, ok := presetSizes[p]
	return s.Width, s.Height, ok
}

// Margins 页面边距
type Margins struct {
	Top    int `json:"top"`
	Right  int `json:"right"`
	Bottom int `json:"bottom"`
	Left   int `json:"left"`
}

// DefaultMargins 默认页面边距
func DefaultMargins() Margins {
	return Margins{Top: 48, Right: 48, Bottom: 48, Left: 48}
}

// Grid 页面网格设置
type Grid struct {
	Enabled bool `json:"enabled"`
	Size    int  `json:"size"`
	Snap    bool `json:"snap"`
}

// DefaultGrid 默认网格设置
func DefaultGrid() Grid {
	return Grid{Enabled: false, Size: 24, Snap: true}
}

// Crop 图片裁剪描述，相对于节点自身坐标
type Crop struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	W float64 `json:"w"`
	H float64 `json:"h"`
}

// Style 节点样式。字段按节点类型选用，未设置的字段不落库
type Style struct {
	FontFamily  string   `json:"fontFamily,omitempty"`
	FontSize    float64  `json:"fontSize,omitempty"`
	FontWeight  string   `json:"fontWeight,omitempty"`
	Color       string   `json:"color,omitempty"`
	Fill        string   `json:"fill,omitempty"`
	Stroke      string   `json:"stroke,omitempty"`
	StrokeWidth float64  `json:"strokeWidth,omitempty"`
	Opacity     *float64 `json:"opacity,omitempty"`
	Radius      float64  `json:"radius,omitempty"`
	Align       string   `json:"align,omitempty"`
}
