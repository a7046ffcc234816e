package users

import "time"

// User is an account record. Password always holds a bcrypt hash, never
// plaintext, and is excluded from every JSON projection.
type User struct {
	ID         string    `bson:"_id,omitempty" json:"id"`
	Name       string    `bson:"name" json:"name"`
	Email      string    `bson:"email" json:"email"`
	Password   string    `bson:"password" json:"-"`
	ProfilePic string    `bson:"profilePic,omitempty" json:"profilePic"`
	CreatedAt  time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt  time.Time `bson:"updatedAt" json:"updatedAt"`
}

// Public is the projection returned to clients on login.
type Public struct {
	Name       string `json:"name"`
	Email      string `json:"email"`
	ProfilePic string `json:"profilePic"`
}

// Public returns the client-safe projection of the user.
func (u User) Public() Public {
	return Public{
		Name:       u.Name,
		Email:      u.Email,
		ProfilePic: u.ProfilePic,
	}
}
