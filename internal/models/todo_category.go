package models

import "time"

// TodoCategory is the join row between a todo and a category.
type TodoCategory struct {
	TodoID     uint64    `gorm:"primarykey" json:"todo_id"`
	CategoryID uint64    `gorm:"primarykey;index" json:"category_id"`
	CreatedAt  time.Time `json:"created_at"`
}

func (TodoCategory) TableName() string {
	return "todo_category"
}
