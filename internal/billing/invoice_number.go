package billing

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// InvoiceNumberBase is the prefix plus two-digit year shared by every number
// issued for that prefix in that year, e.g. "INV25".
func InvoiceNumberBase(prefix string, on time.Time) string {
	return fmt.Sprintf("%s%02d", prefix, on.Year()%100)
}

// NextInvoiceNumber increments the trailing sequence of last, the highest
// number already issued for the same base. An empty last starts at 0001.
func NextInvoiceNumber(prefix string, on time.Time, last string) (string, error) {
	base := InvoiceNumberBase(prefix, on)
	seq := 1
	if last != "" {
		if !strings.HasPrefix(last, base) {
			return "", fmt.Errorf("invoice number %q does not start with %q", last, base)
		}
		n, err := strconv.Atoi(last[len(base):])
		if err != nil {
			return "", fmt.Errorf("invoice number %q has a non-numeric sequence: %w", last, err)
		}
		seq = n + 1
	}
	return fmt.Sprintf("%s%04d", base, seq), nil
}
