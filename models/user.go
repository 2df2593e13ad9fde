package models

import "gorm.io/gorm"

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

type User struct {
	gorm.Model
	Username      string         `gorm:"size:150;unique;not null"`
	Email         string         `gorm:"size:254;unique;not null"`
	FirstName     string         `gorm:"size:150;not null"`
	LastName      string         `gorm:"size:150;not null"`
	Password      string         `gorm:"not null" json:"-"`
	Role          string         `gorm:"size:20;not null;default:user"`
	Recipes       []Recipe       `gorm:"foreignKey:AuthorID" json:"-"`
	LoginTokens   []LoginToken   `json:"-"`
	Subscriptions []Subscription `gorm:"foreignKey:UserID" json:"-"`
}

// 角色是否擁有管理權限
func IsAdminRole(role string) bool {
	return role == RoleAdmin
}
