package parser

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestReadFile_XLSXSkipsPreamble(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "ad.xlsx")
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	require.NoError(t, f.SetCellValue(sheet, "A1", "Sponsored Discovery Report"))
	header := []interface{}{"Date", "Seller SKU", "Revenue"}
	require.NoError(t, f.SetSheetRow(sheet, "A3", &header))
	row := []interface{}{"2020-08-01", " SKU-1 ", 12.5}
	require.NoError(t, f.SetSheetRow(sheet, "A4", &row))
	require.NoError(t, f.SaveAs(path))

	tbl, err := ReadFile(path, 2)
	require.NoError(t, err)
	assert.Equal(t, []string{"Date", "Seller SKU", "Revenue"}, tbl.Headers)
	require.Len(t, tbl.Rows, 1)
	assert.Equal(t, " SKU-1 ", tbl.Rows[0][1])
	assert.Equal(t, "12.5", tbl.Rows[0][2])

	tbl.StripSpace()
	assert.Equal(t, "SKU-1", tbl.Cell(0, 1))
	assert.Equal(t, "", tbl.Cell(3, 0))
}

func TestReadCSV_BOMAndBlankRows(t *testing.T) {
	t.Parallel()

	in := "\uFEFFpay_date,sku,units\n2020-08-01,A,2\n,,\n2020-08-02,B\n"
	tbl, err := ReadCSV(strings.NewReader(in), 0)
	require.NoError(t, err)
	assert.Equal(t, "pay_date", tbl.Headers[0])
	require.Len(t, tbl.Rows, 2)
	assert.Equal(t, []string{"2020-08-02", "B", ""}, tbl.Rows[1])
}

func TestReadFile_Unsupported(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "ad.xls")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))
	_, err := ReadFile(path, 0)
	assert.True(t, errors.Is(err, ErrUnsupportedFile))
}

func TestReadFile_TooShortIsEmpty(t *testing.T) {
	t.Parallel()

	tbl, err := ReadCSV(strings.NewReader("a\nb\n"), 5)
	require.NoError(t, err)
	assert.True(t, tbl.Empty())
}
