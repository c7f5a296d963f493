package domain

import "time"

// Link represents a shortened URL.
//
// ShortCode is globally unique; CustomAlias, when set, is unique within the
// owning user's link set only. IsTemporary is true iff an expiration was set
// at creation time.
type Link struct {
	ID          int64      `gorm:"primaryKey;column:id" json:"id"`
	UserID      int64      `gorm:"column:user_id;not null;index;uniqueIndex:idx_links_owner_alias" json:"user_id"`
	Title       string     `gorm:"column:title;size:255;not null" json:"title"`
	OriginalURL string     `gorm:"column:original_url;type:text;not null" json:"original_url"`
	ShortCode   string     `gorm:"column:short_code;size:64;uniqueIndex;not null" json:"short_code"`
	CustomAlias *string    `gorm:"column:custom_alias;size:64;uniqueIndex:idx_links_owner_alias" json:"custom_alias,omitempty"`
	QRCode      *string    `gorm:"column:qr_code;type:text" json:"qr_code,omitempty"`
	ProfilePic  *string    `gorm:"column:profile_pic;type:text" json:"profile_pic,omitempty"`
	ExpiresAt   *time.Time `gorm:"column:expires_at;index" json:"expires_at,omitempty"`
	IsTemporary bool       `gorm:"column:is_temporary;not null;default:false" json:"is_temporary"`
	CreatedAt   time.Time  `gorm:"column:created_at;autoCreateTime" json:"created_at"`

	// Relationships
	Clicks []Click `gorm:"foreignKey:LinkID" json:"clicks,omitempty"`
}

// TableName returns the table name for GORM
func (Link) TableName() string {
	return "links"
}

// IsExpired reports whether the link's expiration timestamp has elapsed.
// Links with no expiration never expire.
func (l *Link) IsExpired(now time.Time) bool {
	return l.ExpiresAt != nil && now.After(*l.ExpiresAt)
}
