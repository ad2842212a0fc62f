package models

import (
	"encoding/json"
	"time"
)

/************************************************
/**** MARK: ESCALATION STATUS ****/
/************************************************/
const ESCALATION_STATUS_PENDING = "pending"
const ESCALATION_STATUS_DISMISSED = "dismissed"
const ESCALATION_STATUS_ESCALATED = "escalated"

// EXPIRED é terminal e reservado: nenhum fluxo atual transiciona para ele
// (fica disponível para um futuro job de limpeza).
const ESCALATION_STATUS_EXPIRED = "expired"

// EscalationEvent registra o ciclo de vida de uma escalação: criado como
// "pending" quando o alarme dispara, vira "dismissed" se o dono desligar a
// tempo ou "escalated" quando o sweeper passa do deadline e notifica os amigos.
//
// Invariantes:
// - EscalationTime >= TriggerTime na criação; snooze só move pra frente.
// - Estado terminal não sofre mais mutação além do timestamp terminal.
type EscalationEvent struct {
	ID             string     `gorm:"primary_key" json:"id"`
	UserID         int64      `gorm:"not null;index" json:"user_id"`
	AlarmID        string     `gorm:"not null;default:''" json:"alarm_id"`
	TriggerTime    time.Time  `gorm:"not null" json:"trigger_time"`
	EscalationTime time.Time  `gorm:"not null;index" json:"escalation_time"`
	FriendIDs      string     `gorm:"type:text" json:"-"` // lista JSON de ids ([]int64)
	Message        string     `gorm:"type:text" json:"message"`
	Status         string     `gorm:"not null;default:'pending';index" json:"status"`
	DismissedAt    *time.Time `json:"dismissed_at"`
	EscalatedAt    *time.Time `gorm:"index" json:"escalated_at"`
	CreatedAt      *time.Time `json:"created_at"`
	UpdatedAt      *time.Time `json:"updated_at"`
}

func IsTerminalEscalationStatus(status string) bool {
	switch status {
	case ESCALATION_STATUS_DISMISSED, ESCALATION_STATUS_ESCALATED, ESCALATION_STATUS_EXPIRED:
		return true
	}
	return false
}

// FriendIDList decodifica a coluna FriendIDs. Coluna vazia vira lista vazia.
func (ev EscalationEvent) FriendIDList() []int64 {
	if ev.FriendIDs == "" {
		return nil
	}
	var ids []int64
	if err := json.Unmarshal([]byte(ev.FriendIDs), &ids); err != nil {
		return nil
	}
	return ids
}

func (ev *EscalationEvent) SetFriendIDs(ids []int64) {
	if len(ids) == 0 {
		ev.FriendIDs = ""
		return
	}
	b, _ := json.Marshal(ids)
	ev.FriendIDs = string(b)
}
