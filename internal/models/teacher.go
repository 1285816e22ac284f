package models

import "time"

// Teacher is the staff member responsible for a subscription.
type Teacher struct {
	ID        int64     `db:"id" json:"id"`
	FirstName string    `db:"first_name" json:"first_name"`
	LastName  string    `db:"last_name" json:"last_name"`
	Specialty string    `db:"specialty" json:"specialty"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
