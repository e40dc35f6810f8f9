package models

type User struct {
	ID           int    `gorm:"primary_key;autoIncrement" json:"id"`
	Email        string `gorm:"unique;not null;size:250" json:"email"`
	PasswordHash string `gorm:"column:password;not null;size:250" json:"-"` // json:"-" keeps the hash out of any JSON output
	Name         string `gorm:"not null;size:250" json:"name"`
}

func (User) TableName() string {
	return "m_users"
}

type Post struct {
	ID          uint   `gorm:"primary_key" json:"id"`
	Title       string `gorm:"unique;not null;size:250" json:"title"`
	Subtitle    string `gorm:"not null;size:250" json:"subtitle"`
	ImageURL    string `gorm:"column:img;not null;size:250" json:"image_url"`
	BodySummary string `gorm:"column:body1;type:text;not null" json:"body_summary"` // rich text
	BodyDetail  string `gorm:"column:body2;type:text;not null" json:"body_detail"`  // rich text
}

func (Post) TableName() string {
	return "movie_posts"
}
