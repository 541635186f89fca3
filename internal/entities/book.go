package entities

import "time"

type Book struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Title       string    `gorm:"size:140;not null" json:"title"`
	Description string    `gorm:"type:text;not null" json:"description"`
	Author      string    `gorm:"size:140;not null" json:"author"`
	Publisher   string    `gorm:"size:140;not null" json:"publisher"`
	ISBN10      string    `gorm:"column:isbn_10;size:10;uniqueIndex;not null" json:"isbn_10"`
	CreatedAt   time.Time `json:"created_at"`
}

func (Book) TableName() string {
	return "books"
}

// UserBook is a ledger entry: the user tracks the book and may have read it.
// A (user, book) pair appears at most once.
type UserBook struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_users_books_user_book" json:"user_id"`
	BookID    uint      `gorm:"not null;uniqueIndex:idx_users_books_user_book;index" json:"book_id"`
	ReadOrNot bool      `gorm:"column:read_or_not;not null;default:false" json:"read_or_not"`
	CreatedAt time.Time `json:"created_at"`

	User User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Book Book `gorm:"foreignKey:BookID;constraint:OnDelete:CASCADE" json:"book"`
}

func (UserBook) TableName() string {
	return "users_books"
}
