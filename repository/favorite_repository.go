package repository

import (
	"context"
	"errors"
	"foodgram/models"
	"gorm.io/gorm"
)

type FavoriteRepository struct{ DB *gorm.DB }

func NewFavoriteRepository(db *gorm.DB) *FavoriteRepository { return &FavoriteRepository{DB: db} }

// 加入最愛，已存在回傳 ErrAlreadyExists
func (r *FavoriteRepository) Add(ctx context.Context, userID, recipeID uint) error {
	var favorite models.Favorite
	err := r.DB.WithContext(ctx).
		Where("user_id = ? AND recipe_id = ?", userID, recipeID).
		First(&favorite).
		Error
	if err == nil {
		return ErrAlreadyExists
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	return r.DB.WithContext(ctx).Create(&models.Favorite{
		UserID:   userID,
		RecipeID: recipeID,
	}).Error
}

// 移除最愛，不存在回傳 ErrNotFound
func (r *FavoriteRepository) Remove(ctx context.Context, userID, recipeID uint) error {
	result := r.DB.WithContext(ctx).
		Unscoped().
		Where("user_id = ? AND recipe_id = ?", userID, recipeID).
		Delete(&models.Favorite{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

