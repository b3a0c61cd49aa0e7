package models

import "time"

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

type User struct {
	ID               uint       `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	Username         string     `gorm:"column:username;size:100;uniqueIndex;not null" json:"username"`
	Password         string     `gorm:"column:password;size:255;not null" json:"-"` // scrypt "hash.salt", never serialized
	FirstName        string     `gorm:"column:first_name;size:100;not null" json:"firstName"`
	LastName         string     `gorm:"column:last_name;size:100;not null" json:"lastName"`
	Email            string     `gorm:"column:email;size:150;not null" json:"email"`
	Phone            string     `gorm:"column:phone;size:20;not null" json:"phone"`
	City             string     `gorm:"column:city;size:100;not null" json:"city"`
	Occupation       string     `gorm:"column:occupation;size:100;not null" json:"occupation"`
	Instagram        *string    `gorm:"column:instagram;size:100" json:"instagram"`
	AvatarURL        *string    `gorm:"column:avatar_url;type:text" json:"avatarUrl"`
	Role             string     `gorm:"column:role;size:20;not null;default:'user'" json:"role"` // user | admin
	IsApproved       bool       `gorm:"column:is_approved;not null;default:false" json:"isApproved"`
	IsActive         bool       `gorm:"column:is_active;not null;default:true" json:"isActive"`
	ResetToken       *string    `gorm:"column:reset_token;size:512" json:"-"`
	ResetTokenExpiry *time.Time `gorm:"column:reset_token_expiry" json:"-"`
	CreatedAt        time.Time  `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
	UpdatedAt        time.Time  `gorm:"column:updated_at;autoUpdateTime" json:"updatedAt"`
}

func (User) TableName() string {
	return "users"
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
