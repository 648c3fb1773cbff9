// Package ordering 维护同级记录的稠密排序索引。
// 索引字段只允许通过本包的三个操作产生变更：插入让位、删除压实、整体换序。
package ordering

import (
	"errors"
	"sort"
)

// ErrInvalidReorder 换序的 ID 列表不是当前同级集合的一个排列
var ErrInvalidReorder = errors.New("invalid reorder: ids are not a permutation of current siblings")

// Sibling 参与排序的同级记录
type Sibling struct {
	ID    uint
	Index int
}

// Move 一次索引写入，仅包含实际发生变化的记录
type Move struct {
	ID    uint
	Index int
}

// InsertAt 为插入到 requested 位置让位。requested 会被收拢到
// [base, base+len(siblings)]，返回新记录应使用的索引，以及所有
// 索引 >= 该位置的既有记录各 +1 的写入集
func InsertAt(siblings []Sibling, requested, base int) (int, []Move) {
	if requested < base {
		requested = base
	}
	if max := base + len(siblings); requested > max {
		requested = max
	}

	var moves []Move
	for _, s := range siblings {
		if s.Index >= requested {
			moves = append(moves, Move{ID: s.ID, Index: s.Index + 1})
		}
	}
	return requested, moves
}

// Compact 删除后压实：按当前索引升序重排为 base..base+n-1，
// 已在目标位置的记录不产生写入
func Compact(siblings []Sibling, base int) []Move {
	sorted := make([]Sibling, len(siblings))
	copy(sorted, siblings)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Index < sorted[j].Index })

	var moves []Move
	for i, s := range sorted {
		if want := base + i; s.Index != want {
			moves = append(moves, Move{ID: s.ID, Index: want})
		}
	}
	return moves
}

// Permute 校验 orderedIDs 恰好是当前同级 ID 集合的一个排列
// （数量一致、成员一致、无重复），通过后按列表顺序分配
// base..base+n-1，仅返回索引发生变化的记录
func Permute(siblings []Sibling, orderedIDs []uint, base int) ([]Move, error) {
	if len(orderedIDs) != len(siblings) {
		return nil, ErrInvalidReorder
	}

	current := make(map[uint]int, len(siblings))
	for _, s := range siblings {
		current[s.ID] = s.Index
	}

	seen := make(map[uint]bool, len(orderedIDs))
	for _, id := range orderedIDs {
		if _, ok := current[id]; !ok || seen[id] {
			return nil, ErrInvalidReorder
		}
		seen[id] = true
	}

	var moves []Move
	for i, id := range orderedIDs {
		if want := base + i; current[id] != want {
			moves = append(moves, Move{ID: id, Index: want})
		}
	}
	return moves, nil
}
