package models

import "time"

// Friend é um lado de uma amizade bidirecional: cada relação lógica vira dois
// registros (um por direção) compartilhando o mesmo EdgeID. Cada lado guarda
// sua própria cópia de nome/foto do amigo; as cópias podem divergir até uma
// ressincronização.
type Friend struct {
	ID             int64      `gorm:"primary_key;AUTO_INCREMENT" json:"id"`
	EdgeID         string     `gorm:"column:edge_id;not null;index" json:"edge_id"`
	UserID         int64      `gorm:"not null;index" json:"user_id"`
	FriendID       int64      `gorm:"not null;index" json:"friend_id"`
	FriendName     string     `gorm:"not null;default:''" json:"friend_name"`
	FriendPhotoURL string     `gorm:"column:friend_photo_url;default:''" json:"friend_photo_url"`
	CreatedAt      *time.Time `json:"created_at"`
	UpdatedAt      *time.Time `json:"updated_at"`
}
