package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Recipe is an externally maintained recipe that meals may reference.
// Instructions is stored in whatever shape the recipe source produced.
type Recipe struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title        string             `bson:"title" json:"title"`
	Description  string             `bson:"description,omitempty" json:"description,omitempty"`
	Content      string             `bson:"content,omitempty" json:"content,omitempty"`
	Image        string             `bson:"image,omitempty" json:"image,omitempty"`
	PrepTime     int                `bson:"prep_time,omitempty" json:"prep_time,omitempty"`
	CookTime     int                `bson:"cook_time,omitempty" json:"cook_time,omitempty"`
	Calories     float64            `bson:"calories,omitempty" json:"calories,omitempty"`
	Protein      float64            `bson:"protein,omitempty" json:"protein,omitempty"`
	Carbs        float64            `bson:"carbs,omitempty" json:"carbs,omitempty"`
	Fat          float64            `bson:"fat,omitempty" json:"fat,omitempty"`
	Ingredients  []Ingredient       `bson:"ingredients,omitempty" json:"ingredients,omitempty"`
	Instructions interface{}        `bson:"instructions,omitempty" json:"instructions,omitempty"`
	CreatedAt    time.Time          `bson:"created_at" json:"created_at"`
}

type Ingredient struct {
	Name     string  `bson:"name" json:"name"`
	Quantity float64 `bson:"quantity,omitempty" json:"quantity,omitempty"`
	Unit     string  `bson:"unit,omitempty" json:"unit,omitempty"`
}
