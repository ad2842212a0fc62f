package models

import "time"

/************************************************
/**** MARK: USER STATUS ****/
/************************************************/
const USER_STATUS_AVAILABLE = 0
const USER_STATUS_PENDING = 1
const USER_STATUS_BLOCKED = 2

// User representa um usuario do app de alarmes.
// Phone é o número canônico ("+" + dígitos); PhoneNumberHash é o fingerprint
// calculado uma única vez na criação da conta (a partir do número verificado)
// e usado pelo matching de contatos sem expor o número cru.
type User struct {
	ID              int64      `gorm:"primary_key;AUTO_INCREMENT" json:"id"`
	Name            string     `gorm:"not null" json:"name" form:"name"`
	Phone           string     `gorm:"not null;unique" json:"phone" form:"phone"`
	PhoneNumberHash string     `gorm:"column:phone_number_hash;not null;unique_index" json:"phone_number_hash"`
	Password        string     `gorm:"not null" json:"password" form:"password"`
	ProfileImageURL string     `gorm:"column:profile_image_url" json:"profile_image_url" form:"profile_image_url"`
	PushToken       string     `gorm:"column:push_token;default:''" json:"push_token"`
	VerifyCode      string     `gorm:"default:''" json:"-"`
	VerifyExpiresAt *time.Time `json:"-"`
	Status          int        `gorm:"default:0" json:"status"`
	CreatedAt       *time.Time `json:"created_at"`
	UpdatedAt       *time.Time `json:"updated_at"`
}

func (user User) MissingFields() string {
	if user.Name == "" {
		return "name"
	} else if user.Phone == "" {
		return "phone"
	} else if user.Password == "" {
		return "password"
	}
	return ""
}
