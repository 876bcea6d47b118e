package parser

import "strings"

// Table 读取后的原始表格：一行表头 + 若干数据行（均为字符串）
type Table struct {
	Source  string     `json:"source"`
	Headers []string   `json:"headers"`
	Rows    [][]string `json:"rows"`
}

// Empty 没有数据行
func (t *Table) Empty() bool {
	return t == nil || len(t.Rows) == 0
}

// Cell 读取单元格，越界返回空字符串
func (t *Table) Cell(row, col int) string {
	if row < 0 || row >= len(t.Rows) || col < 0 || col >= len(t.Rows[row]) {
		return ""
	}
	return t.Rows[row][col]
}

// StripSpace 去掉表头与全部单元格首尾空格
func (t *Table) StripSpace() {
	if t == nil {
		return
	}
	for i, h := range t.Headers {
		t.Headers[i] = strings.TrimSpace(h)
	}
	for _, row := range t.Rows {
		for j, v := range row {
			row[j] = strings.TrimSpace(v)
		}
	}
}

func isBlankRow(row []string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
