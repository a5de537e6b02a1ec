package domain

type User struct {
	ID          int64  `db:"id" json:"id"`
	Name        string `db:"name" json:"name"`
	Email       string `db:"email" json:"email"`
	Password    string `db:"password" json:"password,omitempty"`
	DateOfBirth string `db:"dateOfBirth" json:"date_of_birth"`
	Role        string `db:"role" json:"role"`
}
