package parser

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
	"golang.org/x/text/unicode/norm"
)

var spaceRe = regexp.MustCompile(`\s+`)

// NormalizeColumnName 规范化列名：去首尾空格、去换行制表符、压缩空白、NFC 归一
func NormalizeColumnName(name string) string {
	name = norm.NFC.String(name)
	name = strings.ReplaceAll(name, "\n", " ")
	name = strings.ReplaceAll(name, "\r", "")
	name = strings.ReplaceAll(name, "\t", " ")
	name = spaceRe.ReplaceAllString(name, " ")
	return strings.TrimSpace(name)
}

// headerKey 列名比较用的 key（忽略大小写）
func headerKey(name string) string {
	return strings.ToLower(NormalizeColumnName(name))
}

// ParseAmount 将字符串转换为保留 point 位小数的金额
//
// 倒数第三位是 "," 或 "." 时视为以分为单位的整数（去掉分隔符后除以 100），
// 空字符串返回 0。
func ParseAmount(s string, point int32) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" || s == "-" {
		return 0, nil
	}
	if len(s) >= 3 && (s[len(s)-3] == ',' || s[len(s)-3] == '.') {
		digits := strings.NewReplacer(",", "", ".", "").Replace(s)
		d, err := decimal.NewFromString(digits)
		if err != nil {
			return 0, fmt.Errorf("无法解析金额 %q: %w", s, err)
		}
		return d.Div(decimal.NewFromInt(100)).Round(point).InexactFloat64(), nil
	}
	d, err := decimal.NewFromString(strings.ReplaceAll(s, ",", ""))
	if err != nil {
		return 0, fmt.Errorf("无法解析金额 %q: %w", s, err)
	}
	return d.Round(point).InexactFloat64(), nil
}

// ParseCount 将字符串转换为整数，空字符串返回 0
func ParseCount(s string) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" || s == "-" {
		return 0, nil
	}
	s = strings.ReplaceAll(s, ",", "")
	if n, err := strconv.Atoi(s); err == nil {
		return n, nil
	}
	// 原始数值单元格可能是 "3.0"
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("无法解析数量 %q: %w", s, err)
	}
	return int(f), nil
}

var dateLayouts = []string{
	"2006-01-02",
	"2006/01/02",
	"2006.01.02",
	"20060102",
	"02/01/2006",
	"02-01-2006",
	"02 Jan 2006",
	"Jan 2, 2006",
	"2006-01-02 15:04:05",
	"2006/01/02 15:04:05",
	"2006-01-02T15:04:05Z07:00",
}

// ParseDate 解析日期（只保留到天）
// 支持 Excel 日期序列号与常见文本格式
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("日期为空")
	}
	if serial, err := strconv.ParseFloat(s, 64); err == nil && serial > 0 && serial < 2958466 {
		t, err := excelize.ExcelDateToTime(serial, false)
		if err != nil {
			return time.Time{}, fmt.Errorf("无法解析日期 %q: %w", s, err)
		}
		return TruncateDay(t), nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return TruncateDay(t), nil
		}
	}
	return time.Time{}, fmt.Errorf("无法解析日期 %q", s)
}

// TruncateDay 去掉时间部分（UTC 零点）
func TruncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

