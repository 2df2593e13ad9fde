package repository

import (
	"context"
	"errors"
	"foodgram/models"
	"gorm.io/gorm"
)

var ErrSelfSubscription = errors.New("cannot subscribe to yourself")

type SubscriptionRepository struct{ DB *gorm.DB }

func NewSubscriptionRepository(db *gorm.DB) *SubscriptionRepository {
	return &SubscriptionRepository{DB: db}
}

// Subscribe 訂閱作者，已訂閱時不做任何事
func (r *SubscriptionRepository) Subscribe(ctx context.Context, userID, authorID uint) error {
	if userID == authorID {
		return ErrSelfSubscription
	}
	subscription := models.Subscription{UserID: userID, AuthorID: authorID}
	return r.DB.WithContext(ctx).
		Where("user_id = ? AND author_id = ?", userID, authorID).
		FirstOrCreate(&subscription).
		Error
}

// Unsubscribe 取消訂閱，未訂閱回傳 ErrNotFound
func (r *SubscriptionRepository) Unsubscribe(ctx context.Context, userID, authorID uint) error {
	result := r.DB.WithContext(ctx).
		Unscoped().
		Where("user_id = ? AND author_id = ?", userID, authorID).
		Delete(&models.Subscription{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// SubscribedTo 回傳 authorIDs 中使用者已訂閱的作者
func (r *SubscriptionRepository) SubscribedTo(ctx context.Context, userID uint, authorIDs []uint) (map[uint]bool, error) {
	subscribed := make(map[uint]bool)
	if userID == 0 || len(authorIDs) == 0 {
		return subscribed, nil
	}

	var ids []uint
	err := r.DB.WithContext(ctx).
		Model(&models.Subscription{}).
		Where("user_id = ? AND author_id IN ?", userID, authorIDs).
		Pluck("author_id", &ids).
		Error
	if err != nil {
		return nil, err
	}
	for _, id := range ids {
		subscribed[id] = true
	}
	return subscribed, nil
}

// Authors 回傳使用者訂閱的作者及總數
func (r *SubscriptionRepository) Authors(ctx context.Context, userID uint, offset, limit int) ([]models.User, int64, error) {
	query := func() *gorm.DB {
		return r.DB.WithContext(ctx).
			Model(&models.User{}).
			Joins("JOIN subscriptions ON subscriptions.author_id = users.id").
			Where("subscriptions.user_id = ?", userID)
	}

	var count int64
	if err := query().Count(&count).Error; err != nil {
		return nil, 0, err
	}

	var authors []models.User
	err := query().
		Select("users.*").
		Order("subscriptions.id").
		Offset(offset).
		Limit(limit).
		Find(&authors).
		Error
	if err != nil {
		return nil, 0, err
	}
	return authors, count, nil
}
