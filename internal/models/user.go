package models

// User represents an API user allowed to manage products when auth is enabled.
type User struct {
	ID       uint   `json:"id" gorm:"primaryKey;autoIncrement"`
	Username string `json:"username" gorm:"uniqueIndex;type:varchar(100)" validate:"required,min=3,max=100"`
	Email    string `json:"email" gorm:"uniqueIndex;type:varchar(255)" validate:"required,email"`
	Password string `json:"password,omitempty" gorm:"type:varchar(255)" validate:"required,min=6"` // bcrypt hash once stored
}
