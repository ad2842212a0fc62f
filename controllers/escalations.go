package controllers

import (
	"net/http"
	"time"

	dbpkg "wakely/db"
	"wakely/models"
	"wakely/store"

	"github.com/gin-gonic/gin"
)

type triggerEscalationRequest struct {
	AlarmID      string     `json:"alarm_id"`
	TriggerTime  *time.Time `json:"trigger_time"`
	DelayMinutes int        `json:"delay_minutes"`
	FriendIDs    []int64    `json:"friend_ids"`
	Message      string     `json:"message"`
}

// TriggerEscalation é o onAlarmTriggered do lado do servidor: cria o
// EscalationEvent pending com deadline = trigger + delay. A lista de amigos é
// filtrada pros que realmente são amigos do chamador.
// Rota: POST /api/escalations
func TriggerEscalation(c *gin.Context) {
	user, ok := GetUserLogged(c)
	if !ok {
		RespondError(c, "unauthorized", http.StatusUnauthorized)
		return
	}

	var req triggerEscalationRequest
	if err := c.Bind(&req); err != nil {
		RespondError(c, err.Error(), http.StatusBadRequest)
		return
	}
	if len(req.FriendIDs) == 0 {
		RespondError(c, "friend_ids é obrigatório", http.StatusBadRequest)
		return
	}
	if req.DelayMinutes < 0 {
		RespondError(c, "delay_minutes inválido", http.StatusBadRequest)
		return
	}

	db := dbpkg.DBInstance(c)
	if db == nil {
		RespondError(c, "db não configurado no contexto", http.StatusInternalServerError)
		return
	}

	var friendIDs []int64
	for _, id := range req.FriendIDs {
		isFriend, err := store.AreFriends(db, user.ID, id)
		if err != nil {
			RespondError(c, err.Error(), http.StatusBadRequest)
			return
		}
		if isFriend {
			friendIDs = append(friendIDs, id)
		}
	}
	if len(friendIDs) == 0 {
		RespondError(c, "nenhum dos ids é amigo do usuário", http.StatusBadRequest)
		return
	}

	triggerTime := time.Now()
	if req.TriggerTime != nil {
		triggerTime = *req.TriggerTime
	}

	ev := models.EscalationEvent{
		ID:             store.NewEscalationID(),
		UserID:         user.ID,
		AlarmID:        req.AlarmID,
		TriggerTime:    triggerTime,
		EscalationTime: triggerTime.Add(time.Duration(req.DelayMinutes) * time.Minute),
		Message:        req.Message,
		Status:         models.ESCALATION_STATUS_PENDING,
	}
	ev.SetFriendIDs(friendIDs)

	if err := store.CreateEscalation(db, &ev); err != nil {
		RespondError(c, err.Error(), http.StatusBadRequest)
		return
	}

	RespondSuccess(c, ev)
}

// loadOwnEscalation carrega o evento e garante que pertence ao chamador.
func loadOwnEscalation(c *gin.Context) (*models.EscalationEvent, bool) {
	user, ok := GetUserLogged(c)
	if !ok {
		RespondError(c, "unauthorized", http.StatusUnauthorized)
		return nil, false
	}

	id := c.Param("id")
	if id == "" {
		RespondError(c, "id é obrigatório", http.StatusBadRequest)
		return nil, false
	}

	db := dbpkg.DBInstance(c)
	if db == nil {
		RespondError(c, "db não configurado no contexto", http.StatusInternalServerError)
		return nil, false
	}

	ev, err := store.GetEscalation(db, id)
	if err != nil {
		if err == store.ErrNotFound {
			RespondError(c, "evento não encontrado", http.StatusNotFound)
			return nil, false
		}
		RespondError(c, err.Error(), http.StatusBadRequest)
		return nil, false
	}
	if ev.UserID != user.ID {
		// não vaza a existência de evento alheio
		RespondError(c, "evento não encontrado", http.StatusNotFound)
		return nil, false
	}
	return ev, true
}

// DismissEscalation é o onAlarmDismissed: pending -> dismissed.
// Idempotente: se o evento já saiu de pending (inclusive já escalated porque
// o sweeper ganhou a corrida), responde o status atual sem erro.
// Rota: POST /api/escalations/:id/dismiss
func DismissEscalation(c *gin.Context) {
	ev, ok := loadOwnEscalation(c)
	if !ok {
		return
	}

	db := dbpkg.DBInstance(c)
	err := store.TransitionEscalation(db, ev.ID, models.ESCALATION_STATUS_PENDING, models.ESCALATION_STATUS_DISMISSED, time.Now())
	if err != nil && err != store.ErrNoTransition {
		RespondError(c, err.Error(), http.StatusBadRequest)
		return
	}

	cur, gerr := store.GetEscalation(db, ev.ID)
	if gerr != nil {
		RespondError(c, gerr.Error(), http.StatusBadRequest)
		return
	}
	RespondSuccess(c, gin.H{"status": cur.Status, "dismissed_at": cur.DismissedAt})
}

type snoozeEscalationRequest struct {
	AdditionalMinutes int `json:"additional_minutes"`
}

// SnoozeEscalation é o onAlarmSnoozed: empurra o deadline pra frente (somando
// ao deadline atual), só enquanto o evento está pending.
// Rota: POST /api/escalations/:id/snooze
func SnoozeEscalation(c *gin.Context) {
	ev, ok := loadOwnEscalation(c)
	if !ok {
		return
	}

	var req snoozeEscalationRequest
	if err := c.Bind(&req); err != nil {
		RespondError(c, err.Error(), http.StatusBadRequest)
		return
	}
	if req.AdditionalMinutes <= 0 {
		RespondError(c, "additional_minutes deve ser > 0", http.StatusBadRequest)
		return
	}

	db := dbpkg.DBInstance(c)
	newDeadline, err := store.ExtendEscalationDeadline(db, ev.ID, req.AdditionalMinutes)
	if err != nil {
		switch err {
		case store.ErrInvalidState:
			RespondError(c, "evento não está mais pendente", http.StatusConflict)
		case store.ErrNoTransition:
			// snooze concorrente passou na frente; o cliente re-tenta
			RespondError(c, "conflito de snooze, tente de novo", http.StatusConflict)
		default:
			RespondError(c, err.Error(), http.StatusBadRequest)
		}
		return
	}

	RespondSuccess(c, gin.H{"status": models.ESCALATION_STATUS_PENDING, "escalation_time": newDeadline})
}

// CanNotifyFriend é a checagem advisory de rate limit: máximo de 3 escalações
// atingindo o mesmo amigo na última hora.
// Rota: GET /api/escalations/can-notify/:id
func CanNotifyFriend(c *gin.Context) {
	_, ok := GetUserLogged(c)
	if !ok {
		RespondError(c, "unauthorized", http.StatusUnauthorized)
		return
	}

	friendID, ok := ParamID(c, "id")
	if !ok {
		return
	}

	db := dbpkg.DBInstance(c)
	if db == nil {
		RespondError(c, "db não configurado no contexto", http.StatusInternalServerError)
		return
	}

	canNotify, err := store.CanNotifyFriend(db, friendID, time.Now())
	if err != nil {
		RespondError(c, err.Error(), http.StatusBadRequest)
		return
	}
	RespondSuccess(c, gin.H{"can_notify": canNotify})
}

// GetEscalationHistory lista os eventos do próprio chamador, mais recentes
// primeiro.
// Rota: GET /api/escalations/history?limit=50
func GetEscalationHistory(c *gin.Context) {
	user, ok := GetUserLogged(c)
	if !ok {
		RespondError(c, "unauthorized", http.StatusUnauthorized)
		return
	}

	db := dbpkg.DBInstance(c)
	if db == nil {
		RespondError(c, "db não configurado no contexto", http.StatusInternalServerError)
		return
	}

	limit := queryInt(c, "limit", 50)
	events, err := store.EscalationHistory(db, user.ID, limit)
	if err != nil {
		RespondError(c, err.Error(), http.StatusBadRequest)
		return
	}
	RespondSuccess(c, gin.H{"events": events})
}
