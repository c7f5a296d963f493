package domain

import (
	"net"
	"time"
)

// Click represents one recorded resolution of a link.
//
// Rows always reference an existing link at creation time; they are purged in
// bulk when the link is deleted and never otherwise mutated.
type Click struct {
	ID        int64     `gorm:"primaryKey;column:id" json:"id"`
	LinkID    int64     `gorm:"column:link_id;not null;index" json:"link_id"`
	Device    string    `gorm:"column:device;size:10;not null;default:'unknown'" json:"device"` // 'mobile', 'tablet', 'desktop', 'unknown'
	Country   *string   `gorm:"column:country;size:64" json:"country,omitempty"`
	City      *string   `gorm:"column:city;size:100" json:"city,omitempty"`
	IPAddress *net.IP   `gorm:"column:ip_address;type:inet" json:"ip_address,omitempty"`
	UserAgent *string   `gorm:"column:user_agent;type:text" json:"user_agent,omitempty"`
	Referer   *string   `gorm:"column:referer;size:500" json:"referer,omitempty"`
	Browser   *string   `gorm:"column:browser;size:50" json:"browser,omitempty"`
	OS        *string   `gorm:"column:os;size:50" json:"os,omitempty"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime;index" json:"created_at"`

	// Relationships
	Link *Link `gorm:"foreignKey:LinkID" json:"link,omitempty"`
}

// TableName returns the table name for GORM
func (Click) TableName() string {
	return "clicks"
}
