package excel

import (
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"
)

// RequiredCustomerHeaders are the columns a customer import workbook must
// carry, in reporting order.
var RequiredCustomerHeaders = []string{
	"customer",
	"phone",
	"fore_closure",
	"settlement",
	"minimum_part_payment",
	"foreclosure_reward",
	"settlement_reward",
	"minimum_part_payment_reward",
	"payment_url",
	"lender_name",
}

// ScanCustomerHeaders opens an uploaded workbook and reports exactly which
// required headers are absent from the first row of the first sheet. A nil
// missing slice means the workbook may be forwarded.
func ScanCustomerHeaders(r io.Reader) ([]string, error) {
	file, errOpen := excelize.OpenReader(r)
	if errOpen != nil {
		return nil, fmt.Errorf("excel: open workbook: %w", errOpen)
	}
	defer func() { _ = file.Close() }()

	sheets := file.GetSheetList()
	if len(sheets) == 0 {
		return append([]string(nil), RequiredCustomerHeaders...), nil
	}
	rows, errRows := file.GetRows(sheets[0])
	if errRows != nil {
		return nil, fmt.Errorf("excel: read rows: %w", errRows)
	}
	if len(rows) == 0 {
		return append([]string(nil), RequiredCustomerHeaders...), nil
	}

	present := make(map[string]bool, len(rows[0]))
	for _, header := range rows[0] {
		present[strings.TrimSpace(header)] = true
	}
	var missing []string
	for _, required := range RequiredCustomerHeaders {
		if !present[required] {
			missing = append(missing, required)
		}
	}
	return missing, nil
}
