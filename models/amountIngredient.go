package models

import "gorm.io/gorm"

// 食譜所需的食材數量
type AmountIngredient struct {
	gorm.Model
	RecipeID     uint `gorm:"not null;index"`
	Recipe       Recipe
	IngredientID uint `gorm:"not null;index"`
	Ingredient   Ingredient
	Amount       uint `gorm:"not null"`
}
