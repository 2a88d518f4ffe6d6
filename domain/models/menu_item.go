package models

import (
	"time"

	"github.com/lib/pq"
)

// MenuItem is a node of the dashboard navigation tree. Empty Roles means
// every role sees the item.
type MenuItem struct {
	ID        string         `gorm:"primaryKey;size:24"`
	Title     string         `gorm:"size:100;not null"`
	Path      string         `gorm:"size:255"`
	Icon      string         `gorm:"size:100"`
	ParentID  *string        `gorm:"size:24;index"`
	SortOrder int            `gorm:"not null;default:0"`
	Roles     pq.StringArray `gorm:"type:text[]"`
	IsActive  bool           `gorm:"not null"`
	CreatedAt time.Time
	UpdatedAt time.Time

	Children []MenuItem `gorm:"-"`
}

func (MenuItem) TableName() string {
	return "menu_items"
}

// VisibleTo reports whether role may see the item.
func (m *MenuItem) VisibleTo(role string) bool {
	if len(m.Roles) == 0 {
		return true
	}
	for _, r := range m.Roles {
		if r == role {
			return true
		}
	}
	return false
}
