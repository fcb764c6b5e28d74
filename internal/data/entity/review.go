package entity

type Review struct {
	Base       `bson:",inline"`
	UserID     string `bson:"user_id" db:"user_id"`
	MovieID    string `bson:"movie_id" db:"movie_id"`
	MovieTitle string `bson:"movie_title" db:"movie_title"`
	Rating     int    `bson:"rating" db:"rating"` // 1-5
	Text       string `bson:"review" db:"review"`
}

// OwnerID is nil-safe so a missing record fails the ownership check
func (r *Review) OwnerID() string {
	if r == nil {
		return ""
	}
	return r.UserID
}

// Edited reports whether the review changed after it was posted
func (r *Review) Edited() bool {
	return r.UpdatedAt.After(r.CreatedAt)
}
