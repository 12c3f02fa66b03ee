package recipe

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	TagJoinTable        = "recipe_tag"
	IngredientJoinTable = "recipe_ingredient"
)

type Recipe struct {
	ID          uint64          `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID      uuid.UUID       `gorm:"type:uuid;not null;index;column:user_id" json:"-"`
	Title       string          `gorm:"size:255;not null;column:title" json:"title"`
	TimeMinutes int             `gorm:"not null;default:0;column:time_minutes" json:"time_minutes"`
	Price       decimal.Decimal `gorm:"type:numeric(5,2);not null;default:0;column:price" json:"price"`
	Link        string          `gorm:"size:255;column:link" json:"link"`
	Description string          `gorm:"type:text;column:description" json:"description"`
	// ImageKey is the storage object key, empty when no image is attached.
	ImageKey string `gorm:"column:image_key" json:"-"`

	Tags        []*Tag        `gorm:"many2many:recipe_tag" json:"tags"`
	Ingredients []*Ingredient `gorm:"many2many:recipe_ingredient" json:"ingredient"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (Recipe) TableName() string { return "recipe" }
