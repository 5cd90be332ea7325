package export

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

// excel sheet names are limited to 31 characters
const maxSheetName = 31

// renderSpreadsheet writes t as a single-sheet workbook. Row 1 is the bold
// header, data rows follow, then one blank row and the summary lines.
func renderSpreadsheet(t *Table, f Formatter) ([]byte, error) {
	book := excelize.NewFile()
	defer book.Close()

	sheet := t.Title
	if len(sheet) > maxSheetName {
		sheet = sheet[:maxSheetName]
	}
	if err := book.SetSheetName("Sheet1", sheet); err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}
	if err := book.SetDocProps(&excelize.DocProperties{
		Title:       t.Title,
		Subject:     t.Subtitle,
		Description: t.Subtitle,
		Creator:     "LearnHub Back Office",
	}); err != nil {
		return nil, fmt.Errorf("set document properties: %w", err)
	}

	headerStyle, err := book.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"DDEBF7"}, Pattern: 1},
		Alignment: &excelize.Alignment{Vertical: "center"},
	})
	if err != nil {
		return nil, fmt.Errorf("create header style: %w", err)
	}
	moneyFmt := fmt.Sprintf(`"%s"#,##0.00`, f.Symbol())
	moneyStyle, err := book.NewStyle(&excelize.Style{CustomNumFmt: &moneyFmt})
	if err != nil {
		return nil, fmt.Errorf("create money style: %w", err)
	}
	labelStyle, err := book.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, fmt.Errorf("create label style: %w", err)
	}

	for i, col := range t.Columns {
		name, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return nil, err
		}
		if err := book.SetColWidth(sheet, name, name, col.Width); err != nil {
			return nil, fmt.Errorf("set column width: %w", err)
		}
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := book.SetCellStr(sheet, cell, col.Header); err != nil {
			return nil, fmt.Errorf("write header: %w", err)
		}
	}
	if len(t.Columns) > 0 {
		last, _ := excelize.CoordinatesToCellName(len(t.Columns), 1)
		if err := book.SetCellStyle(sheet, "A1", last, headerStyle); err != nil {
			return nil, fmt.Errorf("style header: %w", err)
		}
	}
	if err := book.SetPanes(sheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		return nil, fmt.Errorf("freeze header: %w", err)
	}

	row := 2
	for _, cells := range t.Rows {
		for i, c := range cells {
			cell, _ := excelize.CoordinatesToCellName(i+1, row)
			if err := writeCell(book, sheet, cell, c, moneyStyle); err != nil {
				return nil, fmt.Errorf("write row %d: %w", row, err)
			}
		}
		row++
	}

	row++
	for _, line := range t.Summary {
		label, _ := excelize.CoordinatesToCellName(1, row)
		value, _ := excelize.CoordinatesToCellName(2, row)
		if err := book.SetCellStr(sheet, label, line.Label); err != nil {
			return nil, fmt.Errorf("write summary: %w", err)
		}
		if err := book.SetCellStyle(sheet, label, label, labelStyle); err != nil {
			return nil, fmt.Errorf("style summary: %w", err)
		}
		switch {
		case line.Amount != nil:
			if err := writeCell(book, sheet, value, Cell{Amount: line.Amount}, moneyStyle); err != nil {
				return nil, fmt.Errorf("write summary: %w", err)
			}
		case line.Count != nil:
			if err := book.SetCellValue(sheet, value, *line.Count); err != nil {
				return nil, fmt.Errorf("write summary: %w", err)
			}
		}
		row++
	}

	buf, err := book.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func writeCell(book *excelize.File, sheet, cell string, c Cell, moneyStyle int) error {
	if c.Amount == nil {
		if c.Text == "" {
			return nil
		}
		return book.SetCellStr(sheet, cell, c.Text)
	}
	if err := book.SetCellFloat(sheet, cell, c.Amount.Round(2).InexactFloat64(), 2, 64); err != nil {
		return err
	}
	return book.SetCellStyle(sheet, cell, cell, moneyStyle)
}
