// Package receipt renders plain-text receipts for committed sales. It is a
// best-effort collaborator: a write failure is surfaced to the caller but
// never unwinds the sale it belongs to.
package receipt

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"medistock/m/domain"
)

// Writer renders receipts into a directory. It returns raw filesystem
// errors; classifying them as receipt failures is the sale orchestrator's
// job.
type Writer struct {
	Dir string
}

// NewWriter constructs a Writer for the given directory.
func NewWriter(dir string) *Writer {
	return &Writer{Dir: dir}
}

// Generate writes a text receipt for the invoice and returns its path.
func (w *Writer) Generate(inv *domain.Invoice) (string, error) {
	if err := os.MkdirAll(w.Dir, 0o755); err != nil {
		return "", err
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Invoice #%d (pharmacy %d)\n", inv.ID, inv.PharmacyID)
	fmt.Fprintf(&b, "Date: %s\n", inv.CreatedAt)
	fmt.Fprintf(&b, "Patient: %s\n", inv.PatientName)
	if inv.PatientPhone != nil {
		fmt.Fprintf(&b, "Phone: %s\n", *inv.PatientPhone)
	}
	b.WriteString(strings.Repeat("-", 40) + "\n")
	for _, item := range inv.Items {
		fmt.Fprintf(&b, "%-20s %3d x %8.2f = %9.2f\n", item.MedicineName, item.Quantity, item.UnitPrice, item.Subtotal)
	}
	b.WriteString(strings.Repeat("-", 40) + "\n")
	fmt.Fprintf(&b, "%-35s %9.2f\n", "TOTAL", inv.TotalAmount)

	name := fmt.Sprintf("receipt-%d-%s.txt", inv.ID, uuid.NewString())
	path := filepath.Join(w.Dir, name)
	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		return "", err
	}
	return path, nil
}
