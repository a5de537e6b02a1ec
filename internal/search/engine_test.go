package search

import (
	"context"
	"reflect"
	"strings"
	"testing"

	"medistock/m/domain"
)

// fakeCatalog serves FindByNameAcrossPharmacies from an in-memory row set.
type fakeCatalog struct {
	rows []domain.MedicineWithPharmacy
}

func (f *fakeCatalog) FindByNameAcrossPharmacies(ctx context.Context, name string) ([]domain.MedicineWithPharmacy, error) {
	var out []domain.MedicineWithPharmacy
	for _, row := range f.rows {
		if strings.EqualFold(row.Name, strings.TrimSpace(name)) {
			out = append(out, row)
		}
	}
	return out, nil
}

func row(pharmacyID int64, pharmacyName, medicine string) domain.MedicineWithPharmacy {
	return domain.MedicineWithPharmacy{
		Medicine:     domain.Medicine{PharmacyID: pharmacyID, Name: medicine, Quantity: 10, Price: 1},
		PharmacyName: pharmacyName,
	}
}

func TestSearchRankingAndPartition(t *testing.T) {
	// Pharmacy A carries both requested names, B one, C neither.
	cat := &fakeCatalog{rows: []domain.MedicineWithPharmacy{
		row(1, "Alpha Pharma", "Paracetamol"),
		row(1, "Alpha Pharma", "Vitamin-C"),
		row(2, "Beta Pharma", "Paracetamol"),
		row(3, "Gamma Pharma", "Aspirin"),
	}}
	e := New(cat)

	result, err := e.Search(context.Background(), []string{"Paracetamol", "Vitamin-C"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Ranked) != 2 {
		t.Fatalf("expected 2 ranked pharmacies, got %d", len(result.Ranked))
	}
	first, second := result.Ranked[0], result.Ranked[1]
	if first.PharmacyID != 1 || first.Coverage != 2 || first.Percent != 100 {
		t.Fatalf("unexpected first entry: %+v", first)
	}
	if second.PharmacyID != 2 || second.Coverage != 1 || second.Percent != 50 {
		t.Fatalf("unexpected second entry: %+v", second)
	}
	if len(result.Complete) != 1 || result.Complete[0].PharmacyID != 1 {
		t.Fatalf("unexpected complete partition: %+v", result.Complete)
	}
	if len(result.Partial) != 1 || result.Partial[0].PharmacyID != 2 {
		t.Fatalf("unexpected partial partition: %+v", result.Partial)
	}
}

func TestSearchOrderIndependent(t *testing.T) {
	cat := &fakeCatalog{rows: []domain.MedicineWithPharmacy{
		row(1, "Alpha Pharma", "Paracetamol"),
		row(1, "Alpha Pharma", "Vitamin-C"),
		row(2, "Beta Pharma", "Vitamin-C"),
	}}
	e := New(cat)
	ctx := context.Background()

	a, err := e.Search(ctx, []string{"Paracetamol", "Vitamin-C"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	b, err := e.Search(ctx, []string{"Vitamin-C", "Paracetamol"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(a.Ranked, b.Ranked) {
		t.Fatalf("ranking depends on input order:\n%+v\n%+v", a.Ranked, b.Ranked)
	}
	if !reflect.DeepEqual(a.Complete, b.Complete) || !reflect.DeepEqual(a.Partial, b.Partial) {
		t.Fatalf("partition depends on input order")
	}
}

func TestSearchDeduplicatesRequestAndRows(t *testing.T) {
	// The same medicine listed under two catalog rows counts once, and a
	// duplicated request name does not inflate N.
	cat := &fakeCatalog{rows: []domain.MedicineWithPharmacy{
		row(1, "Alpha Pharma", "Napa"),
		row(1, "Alpha Pharma", "Napa"),
	}}
	e := New(cat)

	result, err := e.Search(context.Background(), []string{"Napa", " napa ", "NAPA"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Requested) != 1 {
		t.Fatalf("expected N=1, got %d", len(result.Requested))
	}
	if len(result.Ranked) != 1 {
		t.Fatalf("expected 1 pharmacy, got %d", len(result.Ranked))
	}
	entry := result.Ranked[0]
	if entry.Coverage != 1 || len(entry.Matched) != 1 || entry.Percent != 100 {
		t.Fatalf("duplicate rows inflated coverage: %+v", entry)
	}
}

func TestSearchTieBreakByName(t *testing.T) {
	cat := &fakeCatalog{rows: []domain.MedicineWithPharmacy{
		row(3, "zeta pharma", "Napa"),
		row(1, "Alpha Pharma", "Napa"),
		row(2, "beta pharma", "Napa"),
	}}
	e := New(cat)

	result, err := e.Search(context.Background(), []string{"Napa"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var names []string
	for _, entry := range result.Ranked {
		names = append(names, entry.PharmacyName)
	}
	want := []string{"Alpha Pharma", "beta pharma", "zeta pharma"}
	if !reflect.DeepEqual(names, want) {
		t.Fatalf("expected case-insensitive name order %v, got %v", want, names)
	}
}

func TestSearchEmptyRequest(t *testing.T) {
	e := New(&fakeCatalog{})
	cases := [][]string{nil, {}, {"", "   "}}
	for _, names := range cases {
		result, err := e.Search(context.Background(), names)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(result.Ranked) != 0 || len(result.Complete) != 0 || len(result.Partial) != 0 {
			t.Fatalf("expected empty result for %v, got %+v", names, result)
		}
	}
}

func TestSearchExcludesZeroMatchPharmacies(t *testing.T) {
	cat := &fakeCatalog{rows: []domain.MedicineWithPharmacy{
		row(1, "Alpha Pharma", "Napa"),
		row(2, "Beta Pharma", "Seclo"),
	}}
	e := New(cat)

	result, err := e.Search(context.Background(), []string{"Napa"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Ranked) != 1 || result.Ranked[0].PharmacyID != 1 {
		t.Fatalf("zero-match pharmacy leaked into result: %+v", result.Ranked)
	}
}
