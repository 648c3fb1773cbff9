package eventbus

// CanvasEventType 画布事件类型
type CanvasEventType string

const (
	// CanvasStorybookTouched 故事书内容发生任意变更（导出方据此探测脏文档）
	CanvasStorybookTouched CanvasEventType = "StorybookTouched"
	CanvasPageCreated      CanvasEventType = "PageCreated"
	CanvasPageDeleted      CanvasEventType = "PageDeleted"
	CanvasPageDuplicated   CanvasEventType = "PageDuplicated"
	CanvasFrameCreated     CanvasEventType = "FrameCreated"
	CanvasFrameUpdated     CanvasEventType = "FrameUpdated"
	CanvasFrameDeleted     CanvasEventType = "FrameDeleted"
)

// CanvasEvent 画布事件，未涉及的 ID 为 0
type CanvasEvent struct {
	Type        CanvasEventType
	StorybookID uint
	PageID      uint
	FrameID     uint
}

type CanvasEventHandler = Handler[CanvasEvent]
type CanvasEventBus = Bus[CanvasEventType, CanvasEvent]

// NewCanvasEventBus 创建画布事件总线
func NewCanvasEventBus() *CanvasEventBus {
	return NewBus[CanvasEventType, CanvasEvent]()
}
