package entities

import "time"

// DefaultImageURL is shown for users that did not provide an avatar.
const DefaultImageURL = "/static/images/default-pic.svg"

type User struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Username  string    `gorm:"uniqueIndex;not null" json:"username"`
	Email     string    `gorm:"uniqueIndex;not null" json:"email"`
	Password  string    `gorm:"not null" json:"-"` // bcrypt hash, never plaintext
	ImageURL  string    `gorm:"column:image_url;default:/static/images/default-pic.svg" json:"image_url"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (User) TableName() string {
	return "users"
}

// Avatar returns the user's image URL, falling back to the placeholder.
func (u User) Avatar() string {
	if u.ImageURL == "" {
		return DefaultImageURL
	}
	return u.ImageURL
}
