package domain

import "time"

// User represents a registered account.
type User struct {
	ID                     int64      `gorm:"primaryKey;column:id" json:"id"`
	Email                  string     `gorm:"column:email;uniqueIndex;not null" json:"email"`
	PasswordHash           string     `gorm:"column:password_hash;not null" json:"-"`
	IsAdmin                bool       `gorm:"column:is_admin;not null;default:false" json:"is_admin"`
	PasswordResetToken     *string    `gorm:"column:password_reset_token" json:"-"`
	PasswordResetExpiresAt *time.Time `gorm:"column:password_reset_expires_at" json:"-"`
	LastLoginAt            *time.Time `gorm:"column:last_login_at" json:"last_login_at,omitempty"`
	CreatedAt              time.Time  `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt              time.Time  `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`

	// Relationships
	Links    []Link    `gorm:"foreignKey:UserID" json:"links,omitempty"`
	BioPages []BioPage `gorm:"foreignKey:UserID" json:"bio_pages,omitempty"`
}

// TableName returns the table name for GORM
func (User) TableName() string {
	return "users"
}

// CanResetPassword reports whether the stored reset token matches and has not
// expired.
func (u *User) CanResetPassword(token string) bool {
	if u.PasswordResetToken == nil || *u.PasswordResetToken != token {
		return false
	}
	return u.PasswordResetExpiresAt != nil && time.Now().Before(*u.PasswordResetExpiresAt)
}
