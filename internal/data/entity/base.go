package entity

import (
	"time"
)

type Base struct {
	ID        string    `bson:"_id" db:"id"`
	CreatedAt time.Time `bson:"created_at" db:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" db:"updated_at"`
}

type BaseSimple struct {
	ID        string    `bson:"_id" db:"id"`
	CreatedAt time.Time `bson:"created_at" db:"created_at"`
}

// Owned is implemented by every user-authored record.
type Owned interface {
	OwnerID() string
}
