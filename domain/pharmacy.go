package domain

type Pharmacy struct {
	ID      int64  `db:"id" json:"id"`
	UserID  *int64 `db:"user_id" json:"user_id,omitempty"`
	Name    string `db:"name" json:"name"`
	Address string `db:"address" json:"address"`
	Area    string `db:"area" json:"area"`
}
