package models

// 依遷移順序列出所有Model
func All() []interface{} {
	return []interface{}{
		&User{},
		&LoginToken{},
		&Subscription{},
		&Tag{},
		&Ingredient{},
		&Recipe{},
		&AmountIngredient{},
		&CartEntry{},
		&Favorite{},
	}
}
