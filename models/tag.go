package models

import "gorm.io/gorm"

type Tag struct {
	gorm.Model
	Name    string   `gorm:"size:100;unique;not null"`
	Color   string   `gorm:"size:7;unique;not null"`
	Slug    string   `gorm:"size:50;unique;not null"`
	Recipes []Recipe `gorm:"many2many:recipe_tags;"`
}
