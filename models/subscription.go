package models

import "gorm.io/gorm"

// 訂閱：UserID 追蹤 AuthorID
type Subscription struct {
	gorm.Model
	UserID   uint `gorm:"not null;uniqueIndex:idx_subscription_user_author"`
	User     User
	AuthorID uint `gorm:"not null;uniqueIndex:idx_subscription_user_author"`
	Author   User
}
