package models

import "time"

/************************************************
/**** MARK: FRIEND REQUEST STATUS ****/
/************************************************/
const FRIEND_REQUEST_STATUS_PENDING = 0
const FRIEND_REQUEST_STATUS_ACCEPTED = 1
const FRIEND_REQUEST_STATUS_DECLINED = 2
const FRIEND_REQUEST_STATUS_CANCELLED = 3

// FriendRequest é uma aresta direcionada requester -> recipient.
// Regra: no máximo um request PENDING entre um par de usuários (em qualquer
// direção), e nenhum request novo se os dois já forem amigos.
type FriendRequest struct {
	ID          int64      `gorm:"primary_key;AUTO_INCREMENT" json:"id"`
	RequesterID int64      `gorm:"not null;index" json:"requester_id" form:"requester_id"`
	RecipientID int64      `gorm:"not null;index" json:"recipient_id" form:"recipient_id"`
	Status      int        `gorm:"default:0;index" json:"status"`
	CreatedAt   *time.Time `json:"created_at"`
	UpdatedAt   *time.Time `json:"updated_at"`
}

func (req FriendRequest) MissingFields() string {
	if req.RecipientID == 0 {
		return "recipient_id"
	}
	return ""
}
