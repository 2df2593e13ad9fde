package models

import "gorm.io/gorm"

// 購物車內的食譜
type CartEntry struct {
	gorm.Model
	UserID   uint `gorm:"not null;uniqueIndex:idx_cart_entry_user_recipe"`
	User     User
	RecipeID uint `gorm:"not null;uniqueIndex:idx_cart_entry_user_recipe"`
	Recipe   Recipe
}
