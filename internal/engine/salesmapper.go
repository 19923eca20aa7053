package engine

import (
	"sort"

	"github.com/TheNameLess001/Perfs-mois/internal/model"
	"github.com/TheNameLess001/Perfs-mois/internal/normalizer"
)

// DuplicatePolicy 对照表归一化键冲突时的裁决策略
// 源系统各版本行为不一致，这里做成显式可配置项，默认保留首次出现。
type DuplicatePolicy string

const (
	DuplicateKeepFirst DuplicatePolicy = "first"
	DuplicateKeepLast  DuplicatePolicy = "last"
)

// RepMap 归一化名称到销售代表的映射，附带去重统计
type RepMap struct {
	byKey map[string]string

	Dropped       int      // 被裁决丢弃的对照表行数
	DuplicateKeys []string // 发生冲突的归一化键（按字典序）
}

// BuildRepMap 由对照表构建销售映射
// 行先按原始顺序排稳，保证同样的输入顺序产生同样的胜者，而不是依赖 map 迭代顺序。
// 代表名统一做去空白加标题大小写处理。
func BuildRepMap(assignments []model.SalesAssignment, policy DuplicatePolicy) *RepMap {
	if policy != DuplicateKeepLast {
		policy = DuplicateKeepFirst
	}

	ordered := make([]model.SalesAssignment, len(assignments))
	copy(ordered, assignments)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].RowNo < ordered[j].RowNo
	})

	m := &RepMap{byKey: make(map[string]string, len(ordered))}
	dupSet := make(map[string]bool)

	for _, a := range ordered {
		key := normalizer.Key(a.RestaurantName)
		if key == "" {
			continue
		}
		rep := normalizer.TitleName(a.SalesRep)

		if _, exists := m.byKey[key]; exists {
			m.Dropped++
			dupSet[key] = true
			if policy == DuplicateKeepLast {
				m.byKey[key] = rep
			}
			continue
		}
		m.byKey[key] = rep
	}

	m.DuplicateKeys = make([]string, 0, len(dupSet))
	for k := range dupSet {
		m.DuplicateKeys = append(m.DuplicateKeys, k)
	}
	sort.Strings(m.DuplicateKeys)

	return m
}

// Lookup 按餐厅展示名查销售代表，无匹配返回哨兵值
func (m *RepMap) Lookup(restaurantName, sentinel string) string {
	if m == nil || len(m.byKey) == 0 {
		return sentinel
	}
	rep, ok := m.byKey[normalizer.Key(restaurantName)]
	if !ok || rep == "" {
		return sentinel
	}
	return rep
}

// Size 映射中的键数量
func (m *RepMap) Size() int {
	if m == nil {
		return 0
	}
	return len(m.byKey)
}
