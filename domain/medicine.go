package domain

// Medicine is one catalog row owned by a single pharmacy. Stock truth lives
// here and is mutated only through catalog operations.
type Medicine struct {
	ID          int64   `db:"id" json:"id"`
	PharmacyID  int64   `db:"pharmacyId" json:"pharmacy_id"`
	Name        string  `db:"name" json:"name"`
	GenericName string  `db:"genericName" json:"generic_name"`
	Brand       string  `db:"brand" json:"brand"`
	Price       float64 `db:"price" json:"price"`
	Quantity    int64   `db:"quantity" json:"quantity"`
	ExpiryDate  *string `db:"expiryDate" json:"expiry_date,omitempty"`
}

// MedicineWithPharmacy joins a catalog row with its pharmacy for
// cross-pharmacy lookups.
type MedicineWithPharmacy struct {
	Medicine
	PharmacyName string `db:"pharmacy_name" json:"pharmacy_name"`
	PharmacyArea string `db:"pharmacy_area" json:"pharmacy_area"`
}
