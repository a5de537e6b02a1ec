package migrations

import (
	"log"

	"github.com/jmoiron/sqlx"
)

// Run creates the database schema required by the pharmacy backend. It is
// guaranteed to have completed before any store operation runs; the stores
// themselves never touch schema.
func Run(db *sqlx.DB) {
	schema := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL,
			email TEXT NOT NULL UNIQUE,
			password TEXT NOT NULL,
			dateOfBirth TEXT,
			role TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS pharmacies (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			user_id INTEGER REFERENCES users(id),
			name TEXT NOT NULL,
			address TEXT,
			area TEXT
		);`,
		`CREATE TABLE IF NOT EXISTS medicines (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			pharmacyId INTEGER NOT NULL REFERENCES pharmacies(id),
			name TEXT NOT NULL,
			genericName TEXT,
			brand TEXT,
			price REAL NOT NULL CHECK (price >= 0),
			quantity INTEGER NOT NULL CHECK (quantity >= 0),
			expiryDate TEXT
		);`,
		`CREATE INDEX IF NOT EXISTS idx_medicines_pharmacy ON medicines(pharmacyId);`,
		`CREATE INDEX IF NOT EXISTS idx_medicines_name ON medicines(name);`,
		`CREATE TABLE IF NOT EXISTS invoices (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			pharmacy_id INTEGER NOT NULL REFERENCES pharmacies(id),
			patient_name TEXT NOT NULL,
			patient_phone TEXT,
			total_amount REAL NOT NULL,
			created_at TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP
		);`,
		`CREATE INDEX IF NOT EXISTS idx_invoices_pharmacy ON invoices(pharmacy_id);`,
		`CREATE TABLE IF NOT EXISTS invoice_items (
			invoice_id INTEGER NOT NULL REFERENCES invoices(id),
			medicine_name TEXT NOT NULL,
			quantity INTEGER NOT NULL,
			price REAL NOT NULL,
			subtotal REAL NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_invoice_items_invoice ON invoice_items(invoice_id);`,
	}

	for _, stmt := range schema {
		if _, err := db.Exec(stmt); err != nil {
			log.Fatalf("migration failed: %v", err)
		}
	}
}
