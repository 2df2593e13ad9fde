package models

import "gorm.io/gorm"

// 名稱本身不唯一，名稱+單位才唯一(例如 sugar/g 與 sugar/tsp)
type Ingredient struct {
	gorm.Model
	Name            string `gorm:"size:100;not null;uniqueIndex:idx_ingredient_name_unit"`
	MeasurementUnit string `gorm:"size:20;not null;uniqueIndex:idx_ingredient_name_unit"`
}
