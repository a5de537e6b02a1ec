package seed

import (
	"encoding/csv"
	"io"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/jmoiron/sqlx"
)

// LoadCatalog ingests a CSV of catalog rows into the medicines table.
// Expected columns: pharmacyId, name, genericName, brand, price, quantity,
// expiryDate. Rows that fail to parse are skipped with a log line.
func LoadCatalog(db *sqlx.DB, csvPath string) {
	file, err := os.Open(csvPath)
	if err != nil {
		log.Printf("unable to load catalog %s: %v", csvPath, err)
		return
	}
	defer file.Close()

	reader := csv.NewReader(file)
	// Skip header
	if _, err := reader.Read(); err != nil {
		log.Printf("unable to read catalog header: %v", err)
		return
	}

	tx, err := db.Beginx()
	if err != nil {
		log.Printf("unable to start catalog transaction: %v", err)
		return
	}
	stmt, err := tx.Preparex(`INSERT INTO medicines (pharmacyId, name, genericName, brand, price, quantity, expiryDate) VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		log.Printf("unable to prepare catalog insert: %v", err)
		_ = tx.Rollback()
		return
	}
	defer stmt.Close()

	rows := 0
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			log.Printf("unable to read catalog row: %v", err)
			continue
		}
		if len(record) < 7 {
			continue
		}
		pharmacyID, err := strconv.ParseInt(strings.TrimSpace(record[0]), 10, 64)
		if err != nil {
			continue
		}
		name := strings.TrimSpace(record[1])
		if name == "" {
			continue
		}
		generic := strings.TrimSpace(record[2])
		brand := strings.TrimSpace(record[3])
		price, err := strconv.ParseFloat(strings.TrimSpace(record[4]), 64)
		if err != nil || price < 0 {
			continue
		}
		quantity, err := strconv.ParseInt(strings.TrimSpace(record[5]), 10, 64)
		if err != nil || quantity < 0 {
			continue
		}
		var expiry *string
		if e := strings.TrimSpace(record[6]); e != "" {
			expiry = &e
		}

		if _, err := stmt.Exec(pharmacyID, name, generic, brand, price, quantity, expiry); err != nil {
			log.Printf("unable to insert medicine %s: %v", name, err)
		} else {
			rows++
		}
	}

	if err := tx.Commit(); err != nil {
		log.Printf("unable to commit catalog seed: %v", err)
	} else {
		log.Printf("seeded catalog with %d rows", rows)
	}
}
