package store

import (
	"time"

	"wakely/models"

	"github.com/jinzhu/gorm"
)

/************************************************
/**** MARK: RATE LIMIT ****/
/************************************************/

// Máximo de escalações que podem atingir um mesmo amigo na janela móvel.
const RATE_LIMIT_MAX_PER_WINDOW = 3

const RATE_LIMIT_WINDOW = 60 * time.Minute

// EscalatedCountForFriend conta eventos escalated desde since cuja lista de
// amigos contém friendID. A coluna friend_ids é JSON, então o filtro fino é
// feito em memória sobre os candidatos da janela (a janela é de uma hora, o
// conjunto é pequeno).
func EscalatedCountForFriend(db *gorm.DB, friendID int64, since time.Time) (int64, error) {
	var events []models.EscalationEvent
	err := db.
		Where("status = ?", models.ESCALATION_STATUS_ESCALATED).
		Where("escalated_at IS NOT NULL AND escalated_at > ?", since).
		Find(&events).Error
	if err != nil {
		return 0, err
	}

	var count int64
	for _, ev := range events {
		for _, id := range ev.FriendIDList() {
			if id == friendID {
				count++
				break
			}
		}
	}
	return count, nil
}

// CanNotifyFriend responde se ainda dá pra notificar esse amigo sem estourar
// o limite da janela. A checagem é advisory: o sweeper não bloqueia dispatch
// com base nela, só o cliente consulta antes de re-notificações manuais.
func CanNotifyFriend(db *gorm.DB, friendID int64, now time.Time) (bool, error) {
	count, err := EscalatedCountForFriend(db, friendID, now.Add(-RATE_LIMIT_WINDOW))
	if err != nil {
		return false, err
	}
	return count < RATE_LIMIT_MAX_PER_WINDOW, nil
}
