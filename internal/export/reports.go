package export

import "rentdesk/internal/domain"

// CollectionsTable lays out the collections summary report.
func CollectionsTable(rows []domain.CollectionSummaryRow) *Table {
	t := &Table{
		Name:    "Collections",
		Columns: []string{"Period", "Period Start", "Period End", "Collection Mode", "Count", "Total Amount"},
		Rows:    make([][]any, 0, len(rows)),
	}
	for i := range rows {
		r := &rows[i]
		t.Rows = append(t.Rows, []any{r.Period, r.PeriodStart, r.PeriodEnd, string(r.CollectionMode), r.Count, r.TotalAmount})
	}
	return t
}

// OutstandingTable lays out the outstanding balances report.
func OutstandingTable(rows []domain.OutstandingRow) *Table {
	t := &Table{
		Name: "Outstanding",
		Columns: []string{
			"Contract Number", "Tenant", "Building", "Unit",
			"Invoiced", "Collected", "Balance", "Oldest Due Date",
		},
		Rows: make([][]any, 0, len(rows)),
	}
	for i := range rows {
		r := &rows[i]
		t.Rows = append(t.Rows, []any{
			r.ContractNumber, r.TenantName, r.BuildingName, r.UnitNumber,
			r.Invoiced, r.Collected, r.Balance, r.OldestDueDate,
		})
	}
	return t
}

// TaxTable lays out the tax summary report.
func TaxTable(rows []domain.TaxSummaryRow) *Table {
	t := &Table{
		Name:    "Tax Summary",
		Columns: []string{"Period", "Period Start", "Charge Type", "Taxable Amount", "Tax Amount", "Total Amount"},
		Rows:    make([][]any, 0, len(rows)),
	}
	for i := range rows {
		r := &rows[i]
		t.Rows = append(t.Rows, []any{r.Period, r.PeriodStart, r.ChargeTypeName, r.TaxableAmount, r.TaxAmount, r.TotalAmount})
	}
	return t
}
