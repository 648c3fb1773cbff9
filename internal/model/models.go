package model

import (
	"time"
)

// 故事书状态
const (
	StatusDraft    = "draft"
	StatusActive   = "active"
	StatusArchived = "archived"
	StatusDeleted  = "deleted"
)

// Storybook 故事书（根聚合），拥有全部页面和章节
type Storybook struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	UUID      string    `json:"uuid" gorm:"size:64;uniqueIndex"`
	OwnerID   string    `json:"owner_id" gorm:"size:64;index;not null"`
	Title     string    `json:"title" gorm:"size:255;not null;default:''"`
	Status    string    `json:"status" gorm:"size:50;default:draft"` // draft, active, archived, deleted
	Settings  JSONMap   `json:"settings" gorm:"serializer:json"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
	Pages     []Page    `json:"pages,omitempty" gorm:"foreignKey:StorybookID;constraint:OnDelete:CASCADE;"`
	Chapters  []Chapter `json:"chapters,omitempty" gorm:"foreignKey:StorybookID;constraint:OnDelete:CASCADE;"`
}

// TableName 指定表名
func (Storybook) TableName() string {
	return "storybooks"
}

// Page 画布页面，OrderIndex 在同一故事书内从 0 开始连续无空洞
type Page struct {
	ID          uint       `json:"id" gorm:"primaryKey"`
	StorybookID uint       `json:"storybook_id" gorm:"index;not null"`
	OwnerID     string     `json:"owner_id" gorm:"size:64;index"` // 创建时从故事书冗余，不再回填
	OrderIndex  int        `json:"order_index" gorm:"index;not null;default:0"`
	SizePreset  SizePreset `json:"size_preset" gorm:"size:50;default:portrait"`
	Width       int        `json:"width"`
	Height      int        `json:"height"`
	Margins     Margins    `json:"margins" gorm:"serializer:json"`
	Grid        Grid       `json:"grid" gorm:"serializer:json"`
	Background  string     `json:"background" gorm:"size:255"`
	IsHidden    bool       `json:"is_hidden" gorm:"default:false"`
	IsLocked    bool       `json:"is_locked" gorm:"default:false"`
	CreatedAt   time.Time  `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt   time.Time  `json:"updated_at" gorm:"autoUpdateTime"`
	Frames      []Frame    `json:"frames,omitempty" gorm:"foreignKey:PageID;constraint:OnDelete:CASCADE;"`
}

// TableName 指定表名
func (Page) TableName() string {
	return "pages"
}

// Frame 页面上的可视节点。ZIndex 在同一页面内从 1 开始连续，
// Version 从 1 开始，每次成功更新严格 +1（乐观并发控制）
type Frame struct {
	ID          uint        `json:"id" gorm:"primaryKey"`
	PageID      uint        `json:"page_id" gorm:"index;not null"`
	StorybookID uint        `json:"storybook_id" gorm:"index;not null"`
	OwnerID     string      `json:"owner_id" gorm:"size:64;index"`
	Type        NodeType    `json:"type" gorm:"size:20;not null"`
	X           float64     `json:"x"`
	Y           float64     `json:"y"`
	W           float64     `json:"w"` // 最小 40
	H           float64     `json:"h"` // 最小 40
	ZIndex      int         `json:"z_index" gorm:"index;not null;default:1"`
	IsLocked    bool        `json:"is_locked" gorm:"default:false"`
	Style       Style       `json:"style" gorm:"serializer:json"`
	Content     NodeContent `json:"content" gorm:"serializer:json"`
	Crop        *Crop       `json:"crop,omitempty" gorm:"serializer:json"`
	Version     int         `json:"version" gorm:"not null;default:1"`
	CreatedAt   time.Time   `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt   time.Time   `json:"updated_at" gorm:"autoUpdateTime"`
}

// TableName 指定表名
func (Frame) TableName() string {
	return "frames"
}

// Chapter 章节，结构与 Page 相同但没有画布布局字段
type Chapter struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	StorybookID uint      `json:"storybook_id" gorm:"index;not null"`
	OwnerID     string    `json:"owner_id" gorm:"size:64;index"`
	OrderIndex  int       `json:"order_index" gorm:"index;not null;default:0"`
	Title       string    `json:"title" gorm:"size:255;not null;default:''"`
	IsHidden    bool      `json:"is_hidden" gorm:"default:false"`
	IsLocked    bool      `json:"is_locked" gorm:"default:false"`
	CreatedAt   time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt   time.Time `json:"updated_at" gorm:"autoUpdateTime"`
	Blocks      []Block   `json:"blocks,omitempty" gorm:"foreignKey:ChapterID;constraint:OnDelete:CASCADE;"`
}

// TableName 指定表名
func (Chapter) TableName() string {
	return "chapters"
}

// Block 章节内的内容块，OrderIndex 与 Frame 的 ZIndex 一样从 1 开始，
// 但不做版本并发控制（最后写入者胜出）
type Block struct {
	ID          uint        `json:"id" gorm:"primaryKey"`
	ChapterID   uint        `json:"chapter_id" gorm:"index;not null"`
	StorybookID uint        `json:"storybook_id" gorm:"index;not null"`
	OwnerID     string      `json:"owner_id" gorm:"size:64;index"`
	Type        NodeType    `json:"type" gorm:"size:20;not null"`
	OrderIndex  int         `json:"order_index" gorm:"index;not null;default:1"`
	IsLocked    bool        `json:"is_locked" gorm:"default:false"`
	Style       Style       `json:"style" gorm:"serializer:json"`
	Content     NodeContent `json:"content" gorm:"serializer:json"`
	CreatedAt   time.Time   `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt   time.Time   `json:"updated_at" gorm:"autoUpdateTime"`
}

// TableName 指定表名
func (Block) TableName() string {
	return "blocks"
}
