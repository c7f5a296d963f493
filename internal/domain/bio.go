package domain

import (
	"regexp"
	"strings"
	"time"
)

// BioPage represents a public profile-style page aggregating an ordered set
// of the owner's links. Title is unique per owner; the slug is derived from
// the title.
type BioPage struct {
	ID          int64     `gorm:"primaryKey;column:id" json:"id"`
	UserID      int64     `gorm:"column:user_id;not null;index;uniqueIndex:idx_bio_pages_owner_title" json:"user_id"`
	Title       string    `gorm:"column:title;size:255;not null;uniqueIndex:idx_bio_pages_owner_title" json:"title"`
	Slug        string    `gorm:"column:slug;size:255;not null" json:"slug"`
	Description *string   `gorm:"column:description;type:text" json:"description,omitempty"`
	ProfilePic  *string   `gorm:"column:profile_pic;type:text" json:"profile_pic,omitempty"`
	Background  *string   `gorm:"column:background;type:text" json:"background,omitempty"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`

	// Relationships
	BioLinks []BioLink `gorm:"foreignKey:BioID" json:"bio_links,omitempty"`
}

// TableName returns the table name for GORM
func (BioPage) TableName() string {
	return "bio_pages"
}

// BioLink joins a bio page to one of its owner's links. CreatedAt carries the
// display order. Each entry must reference a link owned by the same user as
// the page; this is enforced at the access layer, not by a database
// constraint.
type BioLink struct {
	ID        int64     `gorm:"primaryKey;column:id" json:"id"`
	BioID     int64     `gorm:"column:bio_id;not null;index" json:"bio_id"`
	LinkID    int64     `gorm:"column:link_id;not null;index" json:"link_id"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`

	// Relationships
	BioPage *BioPage `gorm:"foreignKey:BioID" json:"bio_page,omitempty"`
	Link    *Link    `gorm:"foreignKey:LinkID" json:"link,omitempty"`
}

// TableName returns the table name for GORM
func (BioLink) TableName() string {
	return "bio_links"
}

// BioLinkCard carries enough denormalized link data to render one entry of a
// public bio page without a further lookup per link. CreatedAt is the join
// entry's creation time and determines display order.
type BioLinkCard struct {
	LinkID     int64     `json:"link_id"`
	Title      string    `json:"title"`
	ShortCode  string    `json:"short_code"`
	QRCode     *string   `json:"qr_code,omitempty"`
	ProfilePic *string   `json:"profile_pic,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

var slugStrip = regexp.MustCompile(`[^a-z0-9-]`)

// Slugify derives a URL slug from a page title: lowercased, whitespace runs
// replaced with a dash, everything outside [a-z0-9-] dropped.
func Slugify(title string) string {
	slug := strings.ToLower(strings.TrimSpace(title))
	slug = strings.Join(strings.Fields(slug), "-")
	return slugStrip.ReplaceAllString(slug, "")
}
