package cli

import (
	"fmt"
	"io"
	"strings"

	"Inventory/internal/catalog"
)

func printRecord(w io.Writer, r catalog.Record) {
	fmt.Fprintf(w, "- ID: %s | Name: %s | Quantity: %d | Price: %s | Value: %s\n",
		r.ID(), r.Name(), r.Quantity(), r.Price().StringFixed(2), r.TotalValue().StringFixed(2))
}

func printMatches(w io.Writer, recs []catalog.Record) {
	if len(recs) == 0 {
		fmt.Fprintln(w, "No matches.")
		return
	}
	fmt.Fprintf(w, "Found %d product(s):\n", len(recs))
	for _, r := range recs {
		printRecord(w, r)
	}
}

func printSummary(w io.Writer, s catalog.Summary) {
	fmt.Fprintf(w, "Distinct items: %d | Total units: %s | Total value: %s\n",
		s.Items, s.Units.String(), s.Value.StringFixed(2))
}

// sortKeyFromInput maps the accepted sort words, Spanish aliases included,
// onto catalog sort keys.
func sortKeyFromInput(s string) string {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "id":
		return catalog.SortByID
	case "value", "valor":
		return catalog.SortByValue
	default:
		return catalog.SortByName
	}
}
