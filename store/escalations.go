package store

import (
	"time"

	"wakely/models"

	"github.com/google/uuid"
	"github.com/jinzhu/gorm"
)

// NewEscalationID gera o id opaco de um EscalationEvent.
func NewEscalationID() string {
	return uuid.NewString()
}

// CreateEscalation persiste um evento novo em status pending.
// Valida o invariante EscalationTime >= TriggerTime.
func CreateEscalation(db *gorm.DB, ev *models.EscalationEvent) error {
	if ev.ID == "" {
		ev.ID = NewEscalationID()
	}
	if ev.EscalationTime.Before(ev.TriggerTime) {
		return ErrInvalidDeadline
	}
	if ev.Status == "" {
		ev.Status = models.ESCALATION_STATUS_PENDING
	}

	var existing models.EscalationEvent
	if err := db.Where("id = ?", ev.ID).First(&existing).Error; err == nil {
		return ErrAlreadyExists
	} else if !gorm.IsRecordNotFoundError(err) {
		return err
	}

	return db.Create(ev).Error
}

func GetEscalation(db *gorm.DB, id string) (*models.EscalationEvent, error) {
	var ev models.EscalationEvent
	if err := db.Where("id = ?", id).First(&ev).Error; err != nil {
		if gorm.IsRecordNotFoundError(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &ev, nil
}

// TransitionEscalation faz a transição de status com semântica compare-and-swap:
// o UPDATE só aplica se o status atual ainda for fromStatus (mesmo lock otimista
// do worker: Where(id, status) + RowsAffected). Quando duas transições correm
// (dismiss do usuário vs escalate do sweeper), exatamente uma vence; a perdedora
// recebe ErrNoTransition e trata como no-op.
func TransitionEscalation(db *gorm.DB, id string, fromStatus string, toStatus string, at time.Time) error {
	fields := map[string]any{"status": toStatus}
	switch toStatus {
	case models.ESCALATION_STATUS_DISMISSED:
		fields["dismissed_at"] = &at
	case models.ESCALATION_STATUS_ESCALATED:
		fields["escalated_at"] = &at
	}

	res := db.Model(&models.EscalationEvent{}).
		Where("id = ? AND status = ?", id, fromStatus).
		Updates(fields)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		// ou o evento não existe, ou alguém já transicionou antes
		var ev models.EscalationEvent
		if err := db.Where("id = ?", id).First(&ev).Error; err != nil {
			if gorm.IsRecordNotFoundError(err) {
				return ErrNotFound
			}
			return err
		}
		return ErrNoTransition
	}
	return nil
}

// ExtendEscalationDeadline empurra o deadline em additionalMinutes, somando ao
// deadline ATUAL (não a "agora"), só enquanto o evento ainda está pending.
// O deadline nunca anda para trás.
func ExtendEscalationDeadline(db *gorm.DB, id string, additionalMinutes int) (time.Time, error) {
	if additionalMinutes <= 0 {
		return time.Time{}, ErrInvalidDeadline
	}

	ev, err := GetEscalation(db, id)
	if err != nil {
		return time.Time{}, err
	}
	if ev.Status != models.ESCALATION_STATUS_PENDING {
		return time.Time{}, ErrInvalidState
	}

	newDeadline := ev.EscalationTime.Add(time.Duration(additionalMinutes) * time.Minute)

	// guard também no escalation_time: se um snooze concorrente passou na
	// frente, não sobrescrevemos a extensão dele com uma base velha.
	res := db.Model(&models.EscalationEvent{}).
		Where("id = ? AND status = ? AND escalation_time = ?", id, models.ESCALATION_STATUS_PENDING, ev.EscalationTime).
		Update("escalation_time", newDeadline)
	if res.Error != nil {
		return time.Time{}, res.Error
	}
	if res.RowsAffected == 0 {
		cur, err := GetEscalation(db, id)
		if err != nil {
			return time.Time{}, err
		}
		if cur.Status != models.ESCALATION_STATUS_PENDING {
			return time.Time{}, ErrInvalidState
		}
		return time.Time{}, ErrNoTransition
	}
	return newDeadline, nil
}

// DueEscalations lista eventos pending com deadline vencido, mais antigos
// primeiro. É a query do tick do sweeper.
func DueEscalations(db *gorm.DB, now time.Time, limit int) ([]models.EscalationEvent, error) {
	if limit <= 0 {
		limit = 50
	}
	var events []models.EscalationEvent
	err := db.
		Where("status = ?", models.ESCALATION_STATUS_PENDING).
		Where("escalation_time <= ?", now).
		Order("escalation_time asc, id asc").
		Limit(limit).
		Find(&events).Error
	if err != nil {
		return nil, err
	}
	return events, nil
}

// EscalationHistory devolve os eventos do usuário, mais recentes primeiro.
func EscalationHistory(db *gorm.DB, userID int64, limit int) ([]models.EscalationEvent, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	var events []models.EscalationEvent
	err := db.
		Where("user_id = ?", userID).
		Order("trigger_time desc, id desc").
		Limit(limit).
		Find(&events).Error
	if err != nil {
		return nil, err
	}
	return events, nil
}
