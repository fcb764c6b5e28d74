package entity

type User struct {
	Base         `bson:",inline"`
	Username     string   `bson:"username" db:"username"`
	Email        string   `bson:"email" db:"email"`
	PasswordHash string   `bson:"password_hash" db:"password_hash"`
	SavedMovies  []string `bson:"saved_movies" db:"saved_movies"`
}

// HasSaved reports whether movieID is in the user's bookmarks
func (u *User) HasSaved(movieID string) bool {
	for _, id := range u.SavedMovies {
		if id == movieID {
			return true
		}
	}
	return false
}
