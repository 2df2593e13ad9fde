// Package shopping 彙總購物車內所有食譜需要的食材數量
package shopping

import (
	"context"
	"fmt"
	"sort"
)

// Line 一筆 (食材名稱, 單位, 數量)
type Line struct {
	Name   string
	Unit   string
	Amount uint
}

// Key 彙總鍵，以名稱+單位合併，不看食材ID
type Key struct {
	Name string
	Unit string
}

// LineSource 讀取使用者購物車內每個食譜的食材
type LineSource interface {
	CartLinesForUser(ctx context.Context, userID uint) ([]Line, error)
}

// Totals 依 Key 加總數量，並保留第一次出現的順序
type Totals struct {
	index map[Key]int
	lines []Line
}

func NewTotals() *Totals {
	return &Totals{index: make(map[Key]int)}
}

// Add 相同 Key 的數量相加
func (t *Totals) Add(line Line) {
	key := Key{Name: line.Name, Unit: line.Unit}
	if i, ok := t.index[key]; ok {
		t.lines[i].Amount += line.Amount
		return
	}
	t.index[key] = len(t.lines)
	t.lines = append(t.lines, line)
}

func (t *Totals) Len() int {
	return len(t.lines)
}

// Amount 回傳 Key 的總數量
func (t *Totals) Amount(key Key) (uint, bool) {
	i, ok := t.index[key]
	if !ok {
		return 0, false
	}
	return t.lines[i].Amount, true
}

// Lines 依第一次出現的順序回傳
func (t *Totals) Lines() []Line {
	lines := make([]Line, len(t.lines))
	copy(lines, t.lines)
	return lines
}

// UnitAmount 某單位的總數量
type UnitAmount struct {
	Unit   string
	Amount uint
}

// Group 同一食材名稱下各單位的總數量
type Group struct {
	Name  string
	Units []UnitAmount
}

// Groups 依名稱、單位排序，輸出 名稱 -> 單位 -> 數量
func (t *Totals) Groups() []Group {
	lines := t.Lines()
	sort.Slice(lines, func(i, j int) bool {
		if lines[i].Name != lines[j].Name {
			return lines[i].Name < lines[j].Name
		}
		return lines[i].Unit < lines[j].Unit
	})

	var groups []Group
	for _, line := range lines {
		if len(groups) == 0 || groups[len(groups)-1].Name != line.Name {
			groups = append(groups, Group{Name: line.Name})
		}
		last := &groups[len(groups)-1]
		last.Units = append(last.Units, UnitAmount{Unit: line.Unit, Amount: line.Amount})
	}
	return groups
}

// Aggregate 彙總使用者購物車，空購物車回傳空結果
// 任何讀取錯誤都使整次彙總失敗，不回傳部分結果
func Aggregate(ctx context.Context, source LineSource, userID uint) (*Totals, error) {
	lines, err := source.CartLinesForUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load cart lines for user %d: %w", userID, err)
	}

	totals := NewTotals()
	for _, line := range lines {
		totals.Add(line)
	}
	return totals, nil
}
