package repository

import (
	"context"
	"errors"
	"foodgram/models"
	"foodgram/shopping"
	"gorm.io/gorm"
)

type CartRepository struct{ DB *gorm.DB }

func NewCartRepository(db *gorm.DB) *CartRepository { return &CartRepository{DB: db} }

// 加入購物車，已存在回傳 ErrAlreadyExists
func (r *CartRepository) Add(ctx context.Context, userID, recipeID uint) error {
	var entry models.CartEntry
	err := r.DB.WithContext(ctx).
		Where("user_id = ? AND recipe_id = ?", userID, recipeID).
		First(&entry).
		Error
	if err == nil {
		return ErrAlreadyExists
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	return r.DB.WithContext(ctx).Create(&models.CartEntry{
		UserID:   userID,
		RecipeID: recipeID,
	}).Error
}

// 從購物車移除，不存在回傳 ErrNotFound
func (r *CartRepository) Remove(ctx context.Context, userID, recipeID uint) error {
	result := r.DB.WithContext(ctx).
		Unscoped().
		Where("user_id = ? AND recipe_id = ?", userID, recipeID).
		Delete(&models.CartEntry{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// CartLinesForUser 以一次JOIN讀出購物車內每個食譜的 (名稱, 單位, 數量)
func (r *CartRepository) CartLinesForUser(ctx context.Context, userID uint) ([]shopping.Line, error) {
	var lines []shopping.Line
	err := r.DB.WithContext(ctx).
		Table("cart_entries").
		Select("ingredients.name AS name, ingredients.measurement_unit AS unit, amount_ingredients.amount AS amount").
		Joins("JOIN amount_ingredients ON amount_ingredients.recipe_id = cart_entries.recipe_id AND amount_ingredients.deleted_at IS NULL").
		Joins("JOIN ingredients ON ingredients.id = amount_ingredients.ingredient_id").
		Where("cart_entries.user_id = ? AND cart_entries.deleted_at IS NULL", userID).
		Order("cart_entries.id, amount_ingredients.id").
		Scan(&lines).
		Error
	if err != nil {
		return nil, err
	}
	return lines, nil
}
