package model

import "encoding/json"

// NodeType 可视节点类型
type NodeType string

const (
	NodeText        NodeType = "TEXT"
	NodeImage       NodeType = "IMAGE"
	NodeShape       NodeType = "SHAPE"
	NodeLine        NodeType = "LINE"
	NodePlaceholder NodeType = "FRAME" // 占位框
	NodeGroup       NodeType = "GROUP"
)

// NodeTypes 全部节点类型
var NodeTypes = []NodeType{NodeText, NodeImage, NodeShape, NodeLine, NodePlaceholder, NodeGroup}

// ValidNodeType 判断节点类型是否合法
func ValidNodeType(t NodeType) bool {
	switch t {
	case NodeText, NodeImage, NodeShape, NodeLine, NodePlaceholder, NodeGroup:
		return true
	default:
		return false
	}
}

// TextContent 文本节点内容
type TextContent struct {
	Text  string `json:"text"`
	Align string `json:"align,omitempty"`
}

// ImageContent 图片节点内容
type ImageContent struct {
	URL     string `json:"url"`
	Caption string `json:"caption"`
}

// PlaceholderContent 占位框内容，ImageID 为空表示尚未填充
type PlaceholderContent struct {
	ImageID *uint `json:"imageId"`
}

// ShapeContent 形状节点内容
type ShapeContent struct {
	Kind string `json:"kind"`
}

// LineContent 线条节点内容
type LineContent struct {
	Orientation string  `json:"orientation"`
	Thickness   float64 `json:"thickness"`
}

// GroupSlot 组合布局的单元格，可引用一个子节点
type GroupSlot struct {
	FrameID *uint `json:"frameId"`
}

// GroupSlots 2x2 网格的四个命名单元格
type GroupSlots struct {
	TopLeft     GroupSlot `json:"topLeft"`
	TopRight    GroupSlot `json:"topRight"`
	BottomLeft  GroupSlot `json:"bottomLeft"`
	BottomRight GroupSlot `json:"bottomRight"`
}

// GroupContent 组合节点内容，固定 2x2 网格布局
type GroupContent struct {
	Layout string     `json:"layout"`
	Slots  GroupSlots `json:"slots"`
}

// NodeContent 按节点类型取值的内容联合体，每个节点只会设置与其类型
// 对应的一个变体；Raw 用于透传未知形态的内容
type NodeContent struct {
	Text        *TextContent        `json:"text,omitempty"`
	Image       *ImageContent       `json:"image,omitempty"`
	Placeholder *PlaceholderContent `json:"placeholder,omitempty"`
	Shape       *ShapeContent       `json:"shape,omitempty"`
	Line        *LineContent        `json:"line,omitempty"`
	Group       *GroupContent       `json:"group,omitempty"`
	Raw         json.RawMessage     `json:"raw,omitempty"`
}

// IsZero 是否没有任何变体
func (c NodeContent) IsZero() bool {
	return c.Text == nil && c.Image == nil && c.Placeholder == nil &&
		c.Shape == nil && c.Line == nil && c.Group == nil && len(c.Raw) == 0
}

// DefaultContent 按节点类型合成默认内容，对每种类型都有且只有一个默认值
func DefaultContent(t NodeType) NodeContent {
	switch t {
	case NodeText:
		return NodeContent{Text: &TextContent{Text: "Double-click to edit", Align: "left"}}
	case NodeImage:
		return NodeContent{Image: &ImageContent{URL: "", Caption: ""}}
	case NodePlaceholder:
		return NodeContent{Placeholder: &PlaceholderContent{ImageID: nil}}
	case NodeShape:
		return NodeContent{Shape: &ShapeContent{Kind: "rectangle"}}
	case NodeLine:
		return NodeContent{Line: &LineContent{Orientation: "horizontal", Thickness: 2}}
	case NodeGroup:
		return NodeContent{Group: &GroupContent{Layout: "grid-2x2", Slots: GroupSlots{}}}
	default:
		return NodeContent{}
	}
}

// 节点最小宽高
const MinFrameSize = 40.0

// 各类型的默认几何尺寸
var defaultSizes = map[NodeType]struct{ W, H float64 }{
	NodeText:        {320, 120},
	NodeImage:       {320, 240},
	NodeShape:       {200, 200},
	NodeLine:        {240, 40},
	NodePlaceholder: {320, 240},
	NodeGroup:       {560, 320},
}

// DefaultSize 返回节点类型的默认宽高
func DefaultSize(t NodeType) (w, h float64) {
	if s, ok := defaultSizes[t]; ok {
		return s.W, s.H
	}
	return MinFrameSize, MinFrameSize
}
