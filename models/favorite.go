package models

import "gorm.io/gorm"

type Favorite struct {
	gorm.Model
	UserID   uint `gorm:"not null;uniqueIndex:idx_favorite_user_recipe"`
	User     User
	RecipeID uint `gorm:"not null;uniqueIndex:idx_favorite_user_recipe"`
	Recipe   Recipe
}
