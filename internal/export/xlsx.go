// Package export renders a computed trip report for people: an Excel
// workbook and a plain-text settlement summary.
package export

import (
	"strings"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/mmynk/tripsplit/internal/calculator"
	"github.com/mmynk/tripsplit/internal/models"
)

// Sheet names in the exported workbook.
const (
	SheetExpenses    = "Detailed Expenses"
	SheetSettlements = "Settlement Details"
	SheetSummary     = "Settlement"
)

// ContentTypeXLSX is the MIME type of the workbook.
const ContentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// WorkbookXLSX builds the three-sheet expense report for trip.
func WorkbookXLSX(trip *models.Trip, report *calculator.Report) ([]byte, error) {
	xlsx := excelize.NewFile()
	defer xlsx.Close()

	_ = xlsx.SetAppProps(&excelize.AppProperties{
		Application: "tripsplit",
		DocSecurity: 0,
	})
	if trip.Name != "" {
		_ = xlsx.SetDocProps(&excelize.DocProperties{
			Title:   trip.Name,
			Creator: "tripsplit",
		})
	}

	first := xlsx.GetSheetName(xlsx.GetActiveSheetIndex())
	if err := xlsx.SetSheetName(first, SheetExpenses); err != nil {
		return nil, err
	}
	if _, err := xlsx.NewSheet(SheetSettlements); err != nil {
		return nil, err
	}
	if _, err := xlsx.NewSheet(SheetSummary); err != nil {
		return nil, err
	}

	writeExpensesSheet(xlsx, trip.Expenses)
	writeSettlementsSheet(xlsx, report.Settlements)
	writeSummarySheet(xlsx, report.Summaries)

	buf, err := xlsx.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writeHeader(xlsx *excelize.File, sheet string, titles ...string) {
	last := 'A' + rune(len(titles)-1)
	for i, title := range titles {
		_ = xlsx.SetCellValue(sheet, cell('A'+rune(i), 1), title)
	}
	style, _ := xlsx.NewStyle(mergeStyles(defaultStyle(), fontBold(), headerFill(), thinBorder("bottom")))
	_ = xlsx.SetCellStyle(sheet, cell('A', 1), cell(last, 1), style)
	_ = xlsx.SetPanes(sheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	})
}

func writeExpensesSheet(xlsx *excelize.File, expenses []models.Expense) {
	sheet := SheetExpenses
	_ = xlsx.SetColWidth(sheet, "A", "A", 12)
	_ = xlsx.SetColWidth(sheet, "B", "B", 30)
	_ = xlsx.SetColWidth(sheet, "C", "D", 14)
	_ = xlsx.SetColWidth(sheet, "E", "E", 40)

	writeHeader(xlsx, sheet, "Date", "Item", "Paid By", "Amount", "Shared By")

	amountStyle, _ := xlsx.NewStyle(mergeStyles(defaultStyle(), amountNumberFormat()))
	row := 2
	for _, e := range expenses {
		_ = xlsx.SetCellValue(sheet, cell('A', row), e.Date.String())
		_ = xlsx.SetCellValue(sheet, cell('B', row), e.Item)
		_ = xlsx.SetCellValue(sheet, cell('C', row), e.Payer)
		_ = xlsx.SetCellValue(sheet, cell('D', row), e.Amount.InexactFloat64())
		_ = xlsx.SetCellValue(sheet, cell('E', row), strings.Join(e.SharedBy, ", "))
		row++
	}
	if row > 2 {
		_ = xlsx.SetCellStyle(sheet, cell('D', 2), cell('D', row-1), amountStyle)

		total := decimal.Zero
		for _, e := range expenses {
			total = total.Add(e.Amount)
		}
		_ = xlsx.SetCellValue(sheet, cell('C', row), "Total")
		_ = xlsx.SetCellValue(sheet, cell('D', row), total.InexactFloat64())
		style, _ := xlsx.NewStyle(mergeStyles(defaultStyle(), fontBold(), amountNumberFormat(), thinBorder("top")))
		_ = xlsx.SetCellStyle(sheet, cell('C', row), cell('D', row), style)
	}
}

func writeSettlementsSheet(xlsx *excelize.File, settlements []calculator.Settlement) {
	sheet := SheetSettlements
	_ = xlsx.SetColWidth(sheet, "A", "B", 20)
	_ = xlsx.SetColWidth(sheet, "C", "C", 14)

	writeHeader(xlsx, sheet, "From", "To", "Amount")

	row := 2
	for _, s := range settlements {
		_ = xlsx.SetCellValue(sheet, cell('A', row), s.From)
		_ = xlsx.SetCellValue(sheet, cell('B', row), s.To)
		_ = xlsx.SetCellValue(sheet, cell('C', row), s.Amount.InexactFloat64())
		row++
	}
	if row > 2 {
		style, _ := xlsx.NewStyle(mergeStyles(defaultStyle(), amountNumberFormat()))
		_ = xlsx.SetCellStyle(sheet, cell('C', 2), cell('C', row-1), style)
	}
}

func writeSummarySheet(xlsx *excelize.File, summaries []calculator.ParticipantSummary) {
	sheet := SheetSummary
	_ = xlsx.SetColWidth(sheet, "A", "A", 20)
	_ = xlsx.SetColWidth(sheet, "B", "D", 18)

	writeHeader(xlsx, sheet, "Participant", "Total Paid", "Share of Expenses", "Net Balance")
	style, _ := xlsx.NewStyle(mergeStyles(defaultStyle(), fontBold(), headerFill(), thinBorder("bottom"), textAlignment("right")))
	_ = xlsx.SetCellStyle(sheet, cell('B', 1), cell('D', 1), style)

	row := 2
	for _, s := range summaries {
		_ = xlsx.SetCellValue(sheet, cell('A', row), s.Participant)
		_ = xlsx.SetCellValue(sheet, cell('B', row), s.TotalPaid.InexactFloat64())
		_ = xlsx.SetCellValue(sheet, cell('C', row), s.TotalShare.InexactFloat64())
		_ = xlsx.SetCellValue(sheet, cell('D', row), s.NetBalance.InexactFloat64())
		row++
	}
	if row > 2 {
		style, _ := xlsx.NewStyle(mergeStyles(defaultStyle(), amountNumberFormat()))
		_ = xlsx.SetCellStyle(sheet, cell('B', 2), cell('C', row-1), style)
		style, _ = xlsx.NewStyle(mergeStyles(defaultStyle(), negativeRed()))
		_ = xlsx.SetCellStyle(sheet, cell('D', 2), cell('D', row-1), style)
	}
}
