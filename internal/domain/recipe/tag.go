package recipe

import (
	"github.com/google/uuid"
)

// Tag is a user owned label. Names are unique per owner.
type Tag struct {
	ID     uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID uuid.UUID `gorm:"type:uuid;not null;column:user_id;uniqueIndex:idx_tag_user_name,priority:1" json:"-"`
	Name   string    `gorm:"size:255;not null;column:name;uniqueIndex:idx_tag_user_name,priority:2" json:"name"`
}

func (Tag) TableName() string { return "tag" }
