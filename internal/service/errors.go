package service

import (
	"errors"
	"fmt"
)

var (
	ErrStorybookNotFound = errors.New("storybook not found")
	ErrPageNotFound      = errors.New("page not found")
	ErrFrameNotFound     = errors.New("frame not found")
	ErrChapterNotFound   = errors.New("chapter not found")
	ErrBlockNotFound     = errors.New("block not found")

	// ErrForbidden 调用方不具备所需能力
	ErrForbidden = errors.New("caller does not hold the required capability")

	ErrInvalidNodeType   = errors.New("invalid node type")
	ErrInvalidSizePreset = errors.New("invalid size preset")
	ErrInvalidStatus     = errors.New("invalid storybook status")
)

// VersionConflictError 版本比较失败，携带当前已存储的版本号，
// 调用方应重新拉取后重试
type VersionConflictError struct {
	CurrentVersion int
}

func (e *VersionConflictError) Error() string {
	return fmt.Sprintf("frame version conflict: current version is %d", e.CurrentVersion)
}
