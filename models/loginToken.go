package models

import (
	"gorm.io/gorm"
	"time"
)

// LoginToken 記錄已簽發的Token，刪除即撤銷
type LoginToken struct {
	gorm.Model
	Token          string `gorm:"size:768;index"`
	ExpirationTime time.Time
	UserID         uint
	Role           string
}
