package models

import "gorm.io/gorm"

type Recipe struct {
	gorm.Model
	AuthorID          uint `gorm:"not null;index"`
	Author            User
	Name              string `gorm:"size:200;not null"`
	Image             string `gorm:"not null"`
	Text              string `gorm:"type:text;not null"`
	CookingTime       uint   `gorm:"not null"`
	Tags              []Tag  `gorm:"many2many:recipe_tags;"`
	AmountIngredients []AmountIngredient
}
