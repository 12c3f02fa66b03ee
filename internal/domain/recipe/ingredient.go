package recipe

import (
	"github.com/google/uuid"
)

type Ingredient struct {
	ID     uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID uuid.UUID `gorm:"type:uuid;not null;column:user_id;uniqueIndex:idx_ingredient_user_name,priority:1" json:"-"`
	Name   string    `gorm:"size:255;not null;column:name;uniqueIndex:idx_ingredient_user_name,priority:2" json:"name"`
}

func (Ingredient) TableName() string { return "ingredient" }
