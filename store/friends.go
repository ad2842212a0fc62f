package store

import (
	"wakely/models"

	"github.com/google/uuid"
	"github.com/jinzhu/gorm"
)

func AreFriends(db *gorm.DB, userID int64, otherID int64) (bool, error) {
	var count int64
	err := db.Model(&models.Friend{}).
		Where("user_id = ? AND friend_id = ?", userID, otherID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// PendingRequestBetween procura um request pending em qualquer direção.
func PendingRequestBetween(db *gorm.DB, userID int64, otherID int64) (*models.FriendRequest, error) {
	var req models.FriendRequest
	err := db.
		Where("status = ?", models.FRIEND_REQUEST_STATUS_PENDING).
		Where("(requester_id = ? AND recipient_id = ?) OR (requester_id = ? AND recipient_id = ?)",
			userID, otherID, otherID, userID).
		First(&req).Error
	if err != nil {
		if gorm.IsRecordNotFoundError(err) {
			return nil, nil
		}
		return nil, err
	}
	return &req, nil
}

// CreateFriendRequest cria a aresta direcionada pending, rejeitando quando já
// existe request em voo (qualquer direção) ou quando os dois já são amigos.
func CreateFriendRequest(db *gorm.DB, requesterID int64, recipientID int64) (*models.FriendRequest, error) {
	if requesterID == recipientID {
		return nil, ErrSelfRequest
	}

	friends, err := AreFriends(db, requesterID, recipientID)
	if err != nil {
		return nil, err
	}
	if friends {
		return nil, ErrAlreadyFriends
	}

	pending, err := PendingRequestBetween(db, requesterID, recipientID)
	if err != nil {
		return nil, err
	}
	if pending != nil {
		return nil, ErrRequestInFlight
	}

	req := models.FriendRequest{
		RequesterID: requesterID,
		RecipientID: recipientID,
		Status:      models.FRIEND_REQUEST_STATUS_PENDING,
	}
	if err := db.Create(&req).Error; err != nil {
		return nil, err
	}
	return &req, nil
}

// AcceptFriendRequest consome o request (CAS pending -> accepted) e cria as
// DUAS direções da amizade na mesma transação, compartilhando um edge_id.
// Cada lado recebe sua cópia de nome/foto do outro.
func AcceptFriendRequest(db *gorm.DB, requestID int64) (string, error) {
	var req models.FriendRequest
	if err := db.First(&req, requestID).Error; err != nil {
		if gorm.IsRecordNotFoundError(err) {
			return "", ErrNotFound
		}
		return "", err
	}

	var requester, recipient models.User
	if err := db.First(&requester, req.RequesterID).Error; err != nil {
		return "", err
	}
	if err := db.First(&recipient, req.RecipientID).Error; err != nil {
		return "", err
	}

	edgeID := uuid.NewString()

	tx := db.Begin()

	res := tx.Model(&models.FriendRequest{}).
		Where("id = ? AND status = ?", requestID, models.FRIEND_REQUEST_STATUS_PENDING).
		Update("status", models.FRIEND_REQUEST_STATUS_ACCEPTED)
	if res.Error != nil {
		tx.Rollback()
		return "", res.Error
	}
	if res.RowsAffected == 0 {
		tx.Rollback()
		return "", ErrInvalidState
	}

	sides := []models.Friend{
		{
			EdgeID:         edgeID,
			UserID:         requester.ID,
			FriendID:       recipient.ID,
			FriendName:     recipient.Name,
			FriendPhotoURL: recipient.ProfileImageURL,
		},
		{
			EdgeID:         edgeID,
			UserID:         recipient.ID,
			FriendID:       requester.ID,
			FriendName:     requester.Name,
			FriendPhotoURL: requester.ProfileImageURL,
		},
	}
	for i := range sides {
		if err := tx.Create(&sides[i]).Error; err != nil {
			tx.Rollback()
			return "", err
		}
	}

	if err := tx.Commit().Error; err != nil {
		tx.Rollback()
		return "", err
	}
	return edgeID, nil
}

func resolveRequestTerminal(db *gorm.DB, requestID int64, toStatus int) error {
	res := db.Model(&models.FriendRequest{}).
		Where("id = ? AND status = ?", requestID, models.FRIEND_REQUEST_STATUS_PENDING).
		Update("status", toStatus)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		var req models.FriendRequest
		if err := db.First(&req, requestID).Error; err != nil {
			if gorm.IsRecordNotFoundError(err) {
				return ErrNotFound
			}
			return err
		}
		return ErrInvalidState
	}
	return nil
}

func DeclineFriendRequest(db *gorm.DB, requestID int64) error {
	return resolveRequestTerminal(db, requestID, models.FRIEND_REQUEST_STATUS_DECLINED)
}

func CancelFriendRequest(db *gorm.DB, requestID int64) error {
	return resolveRequestTerminal(db, requestID, models.FRIEND_REQUEST_STATUS_CANCELLED)
}

func ListFriends(db *gorm.DB, userID int64) ([]models.Friend, error) {
	var friends []models.Friend
	err := db.
		Where("user_id = ?", userID).
		Order("friend_name asc, id asc").
		Find(&friends).Error
	if err != nil {
		return nil, err
	}
	return friends, nil
}

// RemoveFriend apaga a amizade inteira (as duas direções) a partir do lado de
// quem pediu, usando o edge_id compartilhado.
func RemoveFriend(db *gorm.DB, userID int64, friendID int64) error {
	var side models.Friend
	err := db.
		Where("user_id = ? AND friend_id = ?", userID, friendID).
		First(&side).Error
	if err != nil {
		if gorm.IsRecordNotFoundError(err) {
			return ErrNotFound
		}
		return err
	}

	tx := db.Begin()
	if err := tx.Where("edge_id = ?", side.EdgeID).Delete(&models.Friend{}).Error; err != nil {
		tx.Rollback()
		return err
	}
	if err := tx.Commit().Error; err != nil {
		tx.Rollback()
		return err
	}
	return nil
}
