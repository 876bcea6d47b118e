package parser

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

// ErrUnsupportedFile 不支持的文件格式
var ErrUnsupportedFile = errors.New("unsupported file type")

// ReadFile 按扩展名读取 xlsx/xlsm/csv 文件
// skipRows 为表头之前需要跳过的行数
func ReadFile(path string, skipRows int) (*Table, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm":
		f, err := excelize.OpenFile(path)
		if err != nil {
			return nil, fmt.Errorf("打开文件失败: %w", err)
		}
		defer f.Close()
		tbl, err := ReadWorkbook(f, "", skipRows)
		if err != nil {
			return nil, err
		}
		tbl.Source = path
		return tbl, nil
	case ".csv":
		fh, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("打开文件失败: %w", err)
		}
		defer fh.Close()
		tbl, err := ReadCSV(fh, skipRows)
		if err != nil {
			return nil, err
		}
		tbl.Source = path
		return tbl, nil
	default:
		return nil, fmt.Errorf("%s: %w", filepath.Base(path), ErrUnsupportedFile)
	}
}

// ReadWorkbook 读取工作簿中的一个 sheet；sheet 为空时读取第一个 sheet
func ReadWorkbook(f *excelize.File, sheet string, skipRows int) (*Table, error) {
	if sheet == "" {
		list := f.GetSheetList()
		if len(list) == 0 {
			return &Table{}, nil
		}
		sheet = list[0]
	}

	// 使用原始值，避免数字被单元格格式转换成本地化文本
	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("读取 Sheet %s 失败: %w", sheet, err)
	}
	return buildTable(rows, skipRows), nil
}

// ReadCSV 读取 csv（兼容 UTF-8 BOM）
func ReadCSV(r io.Reader, skipRows int) (*Table, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("读取 csv 失败: %w", err)
	}
	if len(records) > 0 && len(records[0]) > 0 {
		records[0][0] = strings.TrimPrefix(records[0][0], "\uFEFF")
	}
	return buildTable(records, skipRows), nil
}

func buildTable(rows [][]string, skipRows int) *Table {
	if skipRows < 0 {
		skipRows = 0
	}
	if len(rows) <= skipRows {
		return &Table{}
	}
	rows = rows[skipRows:]

	tbl := &Table{
		Headers: append([]string(nil), rows[0]...),
	}
	width := len(tbl.Headers)
	for _, row := range rows[1:] {
		if isBlankRow(row) {
			continue
		}
		padded := make([]string, width)
		copy(padded, row)
		tbl.Rows = append(tbl.Rows, padded)
	}
	return tbl
}
