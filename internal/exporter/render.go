package exporter

import (
	"errors"
	"fmt"

	"github.com/xuri/excelize/v2"
)

// 列宽范围
const (
	MinColWidth = 12
	MaxColWidth = 100
)

// ErrNoSheets 没有任何可写出的工作表
var ErrNoSheets = errors.New("no sheets to write")

type styles struct {
	header int
	bands  [2]int
}

func newStyles(f *excelize.File) (styles, error) {
	var st styles
	var err error

	st.header, err = f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Family: "Microsoft YaHei", Size: 13, Color: "FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"003366"}},
		Alignment: &excelize.Alignment{
			Horizontal: "center",
			Vertical:   "center",
		},
	})
	if err != nil {
		return st, fmt.Errorf("创建表头样式失败: %w", err)
	}

	for i, color := range []string{"F5F8FC", "E1E8F0"} {
		st.bands[i], err = f.NewStyle(&excelize.Style{
			Font:      &excelize.Font{Family: "Microsoft YaHei", Size: 11},
			Fill:      excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{color}},
			Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
		})
		if err != nil {
			return st, fmt.Errorf("创建内容样式失败: %w", err)
		}
	}
	return st, nil
}

// Render 把工作表写入新工作簿
func Render(sheets []Sheet, progress func(ProgressEvent)) (*excelize.File, error) {
	if len(sheets) == 0 {
		return nil, ErrNoSheets
	}

	f := excelize.NewFile()
	st, err := newStyles(f)
	if err != nil {
		_ = f.Close()
		return nil, err
	}

	for i, s := range sheets {
		if i == 0 {
			if err := f.SetSheetName(f.GetSheetName(0), s.Name); err != nil {
				_ = f.Close()
				return nil, err
			}
		} else if _, err := f.NewSheet(s.Name); err != nil {
			_ = f.Close()
			return nil, err
		}
		if err := writeSheet(f, s, st); err != nil {
			_ = f.Close()
			return nil, fmt.Errorf("写入 %s 失败: %w", s.Name, err)
		}
		reportProgress(progress, i+1, len(sheets), s.Name)
	}

	f.SetActiveSheet(0)
	return f, nil
}

// WriteFile 生成报表并保存到 path
func WriteFile(path string, r Report, progress func(ProgressEvent)) error {
	f, err := Render(r.Sheets(), progress)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("保存报表失败: %w", err)
	}
	return nil
}

func writeSheet(f *excelize.File, s Sheet, st styles) error {
	cols := len(s.Headers)
	widths := make([]int, cols)

	header := make([]interface{}, cols)
	for i, h := range s.Headers {
		header[i] = h
		widths[i] = displayWidth(h)
	}
	if err := f.SetSheetRow(s.Name, "A1", &header); err != nil {
		return err
	}
	last, err := excelize.CoordinatesToCellName(cols, 1)
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(s.Name, "A1", last, st.header); err != nil {
		return err
	}

	for i, row := range s.Rows {
		rowNo := i + 2
		start, _ := excelize.CoordinatesToCellName(1, rowNo)
		end, _ := excelize.CoordinatesToCellName(cols, rowNo)
		if err := f.SetSheetRow(s.Name, start, &row); err != nil {
			return err
		}
		if err := f.SetCellStyle(s.Name, start, end, st.bands[i%2]); err != nil {
			return err
		}
		for j, v := range row {
			if j >= cols {
				break
			}
			if w := displayWidth(fmt.Sprint(v)); w > widths[j] {
				widths[j] = w
			}
		}
	}

	for i, w := range widths {
		name, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return err
		}
		if err := f.SetColWidth(s.Name, name, name, columnWidth(w)); err != nil {
			return err
		}
	}
	return f.SetPanes(s.Name, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	})
}

// columnWidth 内容宽度加 2 后限制在 [MinColWidth, MaxColWidth]
func columnWidth(contentWidth int) float64 {
	w := contentWidth + 2
	if w < MinColWidth {
		w = MinColWidth
	}
	if w > MaxColWidth {
		w = MaxColWidth
	}
	return float64(w)
}
