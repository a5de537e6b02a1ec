package catalog

import (
	"context"
	"path/filepath"
	"sync"
	"testing"

	"github.com/jmoiron/sqlx"

	"medistock/m/domain"
	"medistock/m/internal/database"
	"medistock/m/internal/migrations"
)

func newTestDB(t *testing.T) *sqlx.DB {
	t.Helper()
	dsn := "file:" + filepath.Join(t.TempDir(), "test.db") + "?_pragma=busy_timeout(10000)"
	db, err := database.Open(dsn)
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	migrations.Run(db)
	return db
}

func seedPharmacy(t *testing.T, db *sqlx.DB, name string) int64 {
	t.Helper()
	var id int64
	err := db.QueryRowx(`INSERT INTO pharmacies (name, address, area) VALUES (?, ?, ?) RETURNING id`,
		name, "addr", "area").Scan(&id)
	if err != nil {
		t.Fatalf("seed pharmacy: %v", err)
	}
	return id
}

func seedMedicine(t *testing.T, s *Store, pharmacyID int64, name string, price float64, qty int64) int64 {
	t.Helper()
	id, err := s.Add(context.Background(), domain.Medicine{
		PharmacyID: pharmacyID,
		Name:       name,
		Price:      price,
		Quantity:   qty,
	})
	if err != nil {
		t.Fatalf("seed medicine %s: %v", name, err)
	}
	return id
}

func stockOf(t *testing.T, s *Store, id int64) int64 {
	t.Helper()
	med, err := s.Get(context.Background(), id)
	if err != nil {
		t.Fatalf("get medicine %d: %v", id, err)
	}
	return med.Quantity
}

func TestCheckAndReserve(t *testing.T) {
	db := newTestDB(t)
	s := New(db)
	ctx := context.Background()
	pharmacy := seedPharmacy(t, db, "P1")
	aspirin := seedMedicine(t, s, pharmacy, "Aspirin", 2.50, 10)

	t.Run("success returns reservation-time price and decrements", func(t *testing.T) {
		res, err := s.CheckAndReserve(ctx, aspirin, 3)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if res.Name != "Aspirin" || res.UnitPrice != 2.50 || res.Quantity != 3 {
			t.Fatalf("unexpected reservation: %+v", res)
		}
		if got := stockOf(t, s, aspirin); got != 7 {
			t.Fatalf("expected stock 7, got %d", got)
		}
	})

	t.Run("out of stock is definitive and leaves stock unchanged", func(t *testing.T) {
		_, err := s.CheckAndReserve(ctx, aspirin, 50)
		if !domain.IsOutOfStock(err) {
			t.Fatalf("expected OutOfStockError, got %v", err)
		}
		if got := stockOf(t, s, aspirin); got != 7 {
			t.Fatalf("expected stock 7 after failed reserve, got %d", got)
		}
	})

	t.Run("unknown medicine", func(t *testing.T) {
		_, err := s.CheckAndReserve(ctx, 99999, 1)
		if !domain.IsNotFound(err) {
			t.Fatalf("expected NotFoundError, got %v", err)
		}
	})

	t.Run("non-positive quantity", func(t *testing.T) {
		_, err := s.CheckAndReserve(ctx, aspirin, 0)
		if !domain.IsValidation(err) {
			t.Fatalf("expected ValidationError, got %v", err)
		}
	})

	t.Run("exact remaining stock can be reserved", func(t *testing.T) {
		if _, err := s.CheckAndReserve(ctx, aspirin, 7); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got := stockOf(t, s, aspirin); got != 0 {
			t.Fatalf("expected stock 0, got %d", got)
		}
	})
}

func TestRelease(t *testing.T) {
	db := newTestDB(t)
	s := New(db)
	ctx := context.Background()
	pharmacy := seedPharmacy(t, db, "P1")
	napa := seedMedicine(t, s, pharmacy, "Napa", 1.20, 5)

	if _, err := s.CheckAndReserve(ctx, napa, 4); err != nil {
		t.Fatalf("reserve: %v", err)
	}
	if err := s.Release(ctx, napa, 4); err != nil {
		t.Fatalf("release: %v", err)
	}
	if got := stockOf(t, s, napa); got != 5 {
		t.Fatalf("expected stock restored to 5, got %d", got)
	}

	if err := s.Release(ctx, 99999, 1); !domain.IsNotFound(err) {
		t.Fatalf("expected NotFoundError releasing unknown medicine, got %v", err)
	}
}

func TestConcurrentReservationsNeverOversell(t *testing.T) {
	db := newTestDB(t)
	s := New(db)
	ctx := context.Background()
	pharmacy := seedPharmacy(t, db, "P1")
	med := seedMedicine(t, s, pharmacy, "Seclo", 4.00, 5)

	const attempts = 20
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		succeeded int
	)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := s.CheckAndReserve(ctx, med, 1); err == nil {
				mu.Lock()
				succeeded++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	if succeeded != 5 {
		t.Fatalf("expected exactly 5 successful reservations, got %d", succeeded)
	}
	if got := stockOf(t, s, med); got != 0 {
		t.Fatalf("expected stock 0, got %d", got)
	}
}

func TestFindByNameAcrossPharmacies(t *testing.T) {
	db := newTestDB(t)
	s := New(db)
	ctx := context.Background()
	p1 := seedPharmacy(t, db, "City Pharma")
	p2 := seedPharmacy(t, db, "Green Care")
	seedMedicine(t, s, p1, "Paracetamol", 1.00, 10)
	seedMedicine(t, s, p2, "paracetamol", 1.10, 3)
	seedMedicine(t, s, p2, "Paracetamol Extra", 1.50, 3)

	rows, err := s.FindByNameAcrossPharmacies(ctx, "PARACETAMOL")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 exact matches, got %d", len(rows))
	}
	for _, row := range rows {
		if row.PharmacyName == "" {
			t.Fatalf("expected pharmacy name on row %+v", row)
		}
	}
}

func TestSearchByNameSubstring(t *testing.T) {
	db := newTestDB(t)
	s := New(db)
	ctx := context.Background()
	p1 := seedPharmacy(t, db, "City Pharma")
	seedMedicine(t, s, p1, "Amoxicillin", 5.00, 10)
	seedMedicine(t, s, p1, "Azithromycin", 8.00, 4)

	meds, err := s.SearchByName(ctx, p1, "moxi")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(meds) != 1 || meds[0].Name != "Amoxicillin" {
		t.Fatalf("expected single Amoxicillin match, got %+v", meds)
	}
}

func TestUpdateAndDelete(t *testing.T) {
	db := newTestDB(t)
	s := New(db)
	ctx := context.Background()
	p1 := seedPharmacy(t, db, "City Pharma")
	id := seedMedicine(t, s, p1, "Histacin", 0.80, 20)

	med, err := s.Get(ctx, id)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	med.Price = 0.90
	if err := s.Update(ctx, med); err != nil {
		t.Fatalf("update: %v", err)
	}
	updated, _ := s.Get(ctx, id)
	if updated.Price != 0.90 {
		t.Fatalf("expected updated price, got %.2f", updated.Price)
	}

	if err := s.Delete(ctx, id); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := s.Get(ctx, id); !domain.IsNotFound(err) {
		t.Fatalf("expected NotFoundError after delete, got %v", err)
	}
	if err := s.Delete(ctx, id); !domain.IsNotFound(err) {
		t.Fatalf("expected NotFoundError on second delete, got %v", err)
	}
}

func TestAddValidation(t *testing.T) {
	db := newTestDB(t)
	s := New(db)
	ctx := context.Background()
	p1 := seedPharmacy(t, db, "City Pharma")

	cases := []struct {
		name string
		med  domain.Medicine
	}{
		{"empty name", domain.Medicine{PharmacyID: p1, Name: "", Price: 1, Quantity: 1}},
		{"negative price", domain.Medicine{PharmacyID: p1, Name: "X", Price: -1, Quantity: 1}},
		{"negative quantity", domain.Medicine{PharmacyID: p1, Name: "X", Price: 1, Quantity: -1}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := s.Add(ctx, tc.med); !domain.IsValidation(err) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
		})
	}
}
