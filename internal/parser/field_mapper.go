package parser

import (
	"sort"
)

// ColumnAlias 标准列名及其本地化写法
type ColumnAlias struct {
	Canonical  string
	Alternates []string
	Required   bool
}

// FieldMapper 字段映射器：将各语言表头映射为标准列名
type FieldMapper struct {
	aliases []ColumnAlias
	lookup  map[string]string
}

// NewFieldMapper 创建字段映射器
func NewFieldMapper(aliases []ColumnAlias) *FieldMapper {
	m := &FieldMapper{
		aliases: aliases,
		lookup:  make(map[string]string),
	}
	for _, a := range aliases {
		m.lookup[headerKey(a.Canonical)] = a.Canonical
		for _, alt := range a.Alternates {
			m.lookup[headerKey(alt)] = a.Canonical
		}
	}
	return m
}

// Canonical 返回列名对应的标准列名，未识别返回空
func (m *FieldMapper) Canonical(column string) string {
	return m.lookup[headerKey(column)]
}

// Map 映射表头，返回 标准列名 -> 列索引 以及缺失的必需列
// 未识别的列被丢弃；同一标准列出现多次时取第一次
func (m *FieldMapper) Map(headers []string) (map[string]int, []string) {
	mapping := make(map[string]int)
	for idx, h := range headers {
		canonical := m.Canonical(h)
		if canonical == "" {
			continue
		}
		if _, ok := mapping[canonical]; ok {
			continue
		}
		mapping[canonical] = idx
	}

	var missing []string
	for _, a := range m.aliases {
		if !a.Required {
			continue
		}
		if _, ok := mapping[a.Canonical]; !ok {
			missing = append(missing, a.Canonical)
		}
	}
	sort.Strings(missing)
	return mapping, missing
}
