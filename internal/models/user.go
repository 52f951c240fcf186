package models

// User is the identity record. Email is the match key for login and for
// token subjects; matching is case-sensitive. Users are never hard-deleted.
type User struct {
	BaseModel
	Email          string `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	FirstName      string `gorm:"type:varchar(255);not null" json:"first_name"`
	LastName       string `gorm:"type:varchar(255);not null" json:"last_name"`
	HashedPassword string `gorm:"type:varchar(2000);not null" json:"-"`
	IsActive       bool   `gorm:"not null;default:true" json:"is_active"`
	IsSuperuser    bool   `gorm:"not null;default:false" json:"is_superuser"`
	EmailVerified  bool   `gorm:"not null;default:false" json:"email_verified"`
}
