package models

import "time"

// Owner administers one or more cafes.
type Owner struct {
	ID        string    `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Mobile    string    `db:"mobile_no" json:"mobile_no"`
	PINHash   string    `db:"pin_hash" json:"-"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// Staff operates the tables of exactly one cafe.
type Staff struct {
	ID      string `db:"id" json:"id"`
	CafeID  string `db:"cafe_id" json:"cafe_id"`
	Name    string `db:"name" json:"name"`
	Mobile  string `db:"mobile_no" json:"mobile_no"`
	PINHash string `db:"pin_hash" json:"-"`
}
