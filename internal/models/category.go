package models

import (
	"time"
)

type Category struct {
	ID        uint64    `gorm:"primarykey" json:"id"`
	Name      string    `gorm:"type:varchar(100);uniqueIndex;not null" json:"name"`
	Color     *string   `gorm:"type:varchar(7)" json:"color"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relations
	Todos []Todo `gorm:"many2many:todo_category;constraint:OnDelete:CASCADE" json:"-"`
}
