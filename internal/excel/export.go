// Package excel builds the customer export workbook and pre-scans uploaded
// import workbooks.
package excel

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/recoverpay/gateway/internal/models"
)

const exportSheet = "Customers"

// exportHeader is the export column order.
var exportHeader = []string{
	"Sr. No.",
	"Customer",
	"Phone",
	"Fore Closure",
	"Settlement",
	"Min. Part Payment",
	"Foreclosure Reward",
	"Settlement Reward",
	"Min. Part Payment Reward",
	"Status",
	"Lender",
	"Verified By",
}

// exportColWidths matches the header order.
var exportColWidths = []float64{8, 18, 14, 14, 14, 18, 18, 18, 22, 10, 16, 16}

// Totals are the sums of the six numeric export columns, computed with
// exact decimal arithmetic.
type Totals struct {
	ForeClosure              decimal.Decimal
	Settlement               decimal.Decimal
	MinimumPartPayment       decimal.Decimal
	ForeclosureReward        decimal.Decimal
	SettlementReward         decimal.Decimal
	MinimumPartPaymentReward decimal.Decimal
}

// BuildCustomerWorkbook renders the styled export workbook: bold header row,
// frozen header pane, autofilter, and a totals row summing the numeric
// columns. It returns the workbook together with the computed totals.
func BuildCustomerWorkbook(customers []models.Customer) (*excelize.File, Totals, error) {
	file := excelize.NewFile()
	index, errSheet := file.NewSheet(exportSheet)
	if errSheet != nil {
		return nil, Totals{}, fmt.Errorf("excel: create sheet: %w", errSheet)
	}
	file.SetActiveSheet(index)
	if errDelete := file.DeleteSheet("Sheet1"); errDelete != nil {
		return nil, Totals{}, fmt.Errorf("excel: drop default sheet: %w", errDelete)
	}

	headerRow := make([]any, len(exportHeader))
	for i, name := range exportHeader {
		headerRow[i] = name
	}
	if errSet := file.SetSheetRow(exportSheet, "A1", &headerRow); errSet != nil {
		return nil, Totals{}, fmt.Errorf("excel: write header: %w", errSet)
	}

	var totals Totals
	for i, customer := range customers {
		status := "Pending"
		if customer.IsPaid {
			status = "Paid"
		}
		lender := customer.LenderName
		if lender == "" {
			lender = "N/A"
		}
		verifiedBy := customer.VerifiedBy
		if verifiedBy == "" {
			verifiedBy = "N/A"
		}
		row := []any{
			i + 1,
			customer.Customer,
			customer.Phone,
			customer.ForeClosure.InexactFloat64(),
			customer.Settlement.InexactFloat64(),
			customer.MinimumPartPayment.InexactFloat64(),
			customer.ForeclosureReward.InexactFloat64(),
			customer.SettlementReward.InexactFloat64(),
			customer.MinimumPartPaymentReward.InexactFloat64(),
			status,
			lender,
			verifiedBy,
		}
		cell := fmt.Sprintf("A%d", i+2)
		if errSet := file.SetSheetRow(exportSheet, cell, &row); errSet != nil {
			return nil, Totals{}, fmt.Errorf("excel: write row %d: %w", i+2, errSet)
		}
		totals.ForeClosure = totals.ForeClosure.Add(customer.ForeClosure.Decimal)
		totals.Settlement = totals.Settlement.Add(customer.Settlement.Decimal)
		totals.MinimumPartPayment = totals.MinimumPartPayment.Add(customer.MinimumPartPayment.Decimal)
		totals.ForeclosureReward = totals.ForeclosureReward.Add(customer.ForeclosureReward.Decimal)
		totals.SettlementReward = totals.SettlementReward.Add(customer.SettlementReward.Decimal)
		totals.MinimumPartPaymentReward = totals.MinimumPartPaymentReward.Add(customer.MinimumPartPaymentReward.Decimal)
	}

	totalsRow := []any{
		"",
		"Total",
		"",
		totals.ForeClosure.InexactFloat64(),
		totals.Settlement.InexactFloat64(),
		totals.MinimumPartPayment.InexactFloat64(),
		totals.ForeclosureReward.InexactFloat64(),
		totals.SettlementReward.InexactFloat64(),
		totals.MinimumPartPaymentReward.InexactFloat64(),
		"",
		"",
		"",
	}
	totalsCell := fmt.Sprintf("A%d", len(customers)+2)
	if errSet := file.SetSheetRow(exportSheet, totalsCell, &totalsRow); errSet != nil {
		return nil, Totals{}, fmt.Errorf("excel: write totals: %w", errSet)
	}

	if errStyle := applyExportStyles(file, len(customers)); errStyle != nil {
		return nil, Totals{}, errStyle
	}
	return file, totals, nil
}

// applyExportStyles sets the header and totals styling, column widths,
// autofilter and the frozen header pane.
func applyExportStyles(file *excelize.File, rows int) error {
	headerStyle, errHeader := file.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "1E293B"},
		Fill:      excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"E5E7EB"}},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if errHeader != nil {
		return fmt.Errorf("excel: header style: %w", errHeader)
	}
	totalsStyle, errTotals := file.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "1E293B"},
		Fill:      excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"F1F5F9"}},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if errTotals != nil {
		return fmt.Errorf("excel: totals style: %w", errTotals)
	}

	lastCol, errCol := excelize.ColumnNumberToName(len(exportHeader))
	if errCol != nil {
		return fmt.Errorf("excel: column name: %w", errCol)
	}
	if errSet := file.SetCellStyle(exportSheet, "A1", lastCol+"1", headerStyle); errSet != nil {
		return fmt.Errorf("excel: style header: %w", errSet)
	}
	totalsRef := fmt.Sprintf("%d", rows+2)
	if errSet := file.SetCellStyle(exportSheet, "A"+totalsRef, lastCol+totalsRef, totalsStyle); errSet != nil {
		return fmt.Errorf("excel: style totals: %w", errSet)
	}

	for i, width := range exportColWidths {
		col, errName := excelize.ColumnNumberToName(i + 1)
		if errName != nil {
			return fmt.Errorf("excel: column name: %w", errName)
		}
		if errWidth := file.SetColWidth(exportSheet, col, col, width); errWidth != nil {
			return fmt.Errorf("excel: column width: %w", errWidth)
		}
	}

	filterRef := fmt.Sprintf("A1:%s%d", lastCol, rows+2)
	if errFilter := file.AutoFilter(exportSheet, filterRef, nil); errFilter != nil {
		return fmt.Errorf("excel: autofilter: %w", errFilter)
	}
	if errPanes := file.SetPanes(exportSheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); errPanes != nil {
		return fmt.Errorf("excel: freeze header: %w", errPanes)
	}
	return nil
}
