// Package export renders a record set as an xlsx statement.
package export

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"jizhang/internal/core"
)

const sheetName = "流水"

var header = []string{"日期", "类型", "分类", "金额", "备注"}

var typeLabels = map[core.RecordType]string{
	core.Expense: "支出",
	core.Income:  "收入",
}

// RecordsXLSX writes one row per record plus a totals footer and returns
// the workbook bytes. Category ids are resolved to display labels; dangling
// references come out as the unknown-category placeholder.
func RecordsXLSX(records []core.Record, cats core.CategorySet) ([]byte, error) {
	xlsx := excelize.NewFile()

	sheet := xlsx.GetSheetName(xlsx.GetActiveSheetIndex())
	if err := xlsx.SetSheetName(sheet, sheetName); err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}

	_ = xlsx.SetColWidth(sheetName, "A", "A", 14)
	_ = xlsx.SetColWidth(sheetName, "B", "C", 10)
	_ = xlsx.SetColWidth(sheetName, "D", "D", 14)
	_ = xlsx.SetColWidth(sheetName, "E", "E", 30)

	bold, err := xlsx.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, fmt.Errorf("create style: %w", err)
	}

	row := 1
	for i, h := range header {
		cell := cellRef(i, row)
		_ = xlsx.SetCellValue(sheetName, cell, h)
		_ = xlsx.SetCellStyle(sheetName, cell, cell, bold)
	}

	for _, r := range records {
		row++
		_ = xlsx.SetCellValue(sheetName, cellRef(0, row), core.DayKey(r.Date))
		_ = xlsx.SetCellValue(sheetName, cellRef(1, row), typeLabels[r.Type])
		_ = xlsx.SetCellValue(sheetName, cellRef(2, row), cats.Resolve(r.Type, r.Category).Label)
		_ = xlsx.SetCellValue(sheetName, cellRef(3, row), r.Amount)
		_ = xlsx.SetCellValue(sheetName, cellRef(4, row), r.Note)
	}

	totals := core.CalculateTotals(records)
	row += 2
	for i, line := range []struct {
		label  string
		amount float64
	}{
		{"收入", totals.Income},
		{"支出", totals.Expense},
		{"结余", totals.Balance},
	} {
		cell := cellRef(2, row+i)
		_ = xlsx.SetCellValue(sheetName, cell, line.label)
		_ = xlsx.SetCellStyle(sheetName, cell, cell, bold)
		_ = xlsx.SetCellValue(sheetName, cellRef(3, row+i), line.amount)
	}

	buf, err := xlsx.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func cellRef(col, row int) string {
	return fmt.Sprintf("%c%d", 'A'+col, row)
}
