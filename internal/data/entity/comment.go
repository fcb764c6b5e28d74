package entity

type Comment struct {
	Base    `bson:",inline"`
	UserID  string `bson:"user_id" db:"user_id"`
	MovieID string `bson:"movie_id" db:"movie_id"`
	Content string `bson:"content" db:"content"`
}

func (c *Comment) OwnerID() string {
	if c == nil {
		return ""
	}
	return c.UserID
}

func (c *Comment) Edited() bool {
	return c.UpdatedAt.After(c.CreatedAt)
}
