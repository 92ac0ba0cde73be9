// Package types 定义共享的基础类型
// 这个包不依赖任何其他业务包，用于解决循环引用问题
package types

import (
	"fmt"
	"strings"
)

// ItemCategory 定义小游戏物品的类别
// 对应 食物/垃圾/收藏品 三类
type ItemCategory int

const (
	// CategoryNone 未设置（仅用于表示"没有回退类别"等）
	CategoryNone ItemCategory = iota
	// CategoryCommon 普通物品（食物）
	CategoryCommon
	// CategoryUncommon 少见物品（垃圾）
	CategoryUncommon
	// CategoryRare 稀有物品（收藏品），每局保证出现
	CategoryRare
)

// AllItemCategories 固定的类别遍历顺序
// 加权抽样按此顺序扣减权重，顺序变化会改变同一种子下的规划结果
var AllItemCategories = []ItemCategory{
	CategoryCommon,
	CategoryUncommon,
	CategoryRare,
}

// String 返回类别的字符串表示（与配置文件中的键一致）
func (c ItemCategory) String() string {
	switch c {
	case CategoryCommon:
		return "common"
	case CategoryUncommon:
		return "uncommon"
	case CategoryRare:
		return "rare"
	default:
		return "none"
	}
}

// IsValid 是否为三种实际类别之一
func (c ItemCategory) IsValid() bool {
	return c >= CategoryCommon && c <= CategoryRare
}

// ParseItemCategory 从配置字符串解析类别
// 同时接受别名：food/trash/collectible
func ParseItemCategory(s string) (ItemCategory, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "common", "food":
		return CategoryCommon, nil
	case "uncommon", "trash", "bad":
		return CategoryUncommon, nil
	case "rare", "collectible":
		return CategoryRare, nil
	case "", "none":
		return CategoryNone, nil
	default:
		return CategoryNone, fmt.Errorf("unknown item category %q", s)
	}
}
