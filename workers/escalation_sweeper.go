package workers

import (
	"context"
	"fmt"
	"log"
	"time"

	"wakely/config"
	"wakely/models"
	"wakely/store"

	"github.com/jinzhu/gorm"
)

// Dispatcher é o transporte de push visto pelo sweeper: best-effort, sem
// garantia de entrega. A implementação real é tools.PushClient.
type Dispatcher interface {
	Send(ctx context.Context, token string, title string, body string, data map[string]string) error
}

// StartEscalationSweeper starts a loop that escalates pending events whose
// EscalationTime <= now. O intervalo vem da config (default 60s; o design
// aceita granularidade de minuto).
func StartEscalationSweeper(db *gorm.DB, cfg config.Configuration, dispatcher Dispatcher) {
	interval := time.Duration(cfg.Escalation.SweepIntervalSeconds) * time.Second
	if interval <= 0 {
		interval = time.Minute
	}
	batch := cfg.Escalation.SweepBatchSize

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for range ticker.C {
			SweepDueEscalations(db, dispatcher, time.Now(), batch)
		}
	}()
}

// SweepDueEscalations processa um tick: busca eventos pending vencidos e
// escala cada um de forma independente: falha em um evento não bloqueia os
// outros, e um tick sobreposto é inofensivo porque a transição final é CAS
// (quem perder o guard vira no-op).
func SweepDueEscalations(db *gorm.DB, dispatcher Dispatcher, now time.Time, limit int) {
	events, err := store.DueEscalations(db, now, limit)
	if err != nil {
		log.Printf("escalation sweeper: query error: %v", err)
		return
	}

	for _, ev := range events {
		escalateEvent(db, dispatcher, ev, now)
	}
}

func escalateEvent(db *gorm.DB, dispatcher Dispatcher, ev models.EscalationEvent, now time.Time) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// nome do dono é best-effort: sem ele a mensagem sai genérica
	ownerName := "Your friend"
	var owner models.User
	if err := db.First(&owner, ev.UserID).Error; err != nil {
		log.Printf("escalation sweeper: owner lookup failed event=%s user=%d: %v", ev.ID, ev.UserID, err)
	} else if owner.Name != "" {
		ownerName = owner.Name
	}

	elapsed := int(now.Sub(ev.TriggerTime).Minutes())
	if elapsed < 0 {
		elapsed = 0
	}

	title := fmt.Sprintf("%s needs a wake-up call!", ownerName)
	body := fmt.Sprintf("Their alarm has been going off for %d minutes. Give them a nudge!", elapsed)
	if ev.Message != "" {
		body = ev.Message + " " + body
	}
	data := map[string]string{
		"type":     "friend_alarm",
		"user_id":  fmt.Sprintf("%d", ev.UserID),
		"event_id": ev.ID,
	}

	for _, friendID := range ev.FriendIDList() {
		var friend models.User
		if err := db.First(&friend, friendID).Error; err != nil {
			log.Printf("escalation sweeper: friend lookup failed event=%s friend=%d: %v", ev.ID, friendID, err)
			continue
		}
		if friend.PushToken == "" {
			log.Printf("escalation sweeper: friend without push token, skipping event=%s friend=%d", ev.ID, friendID)
			continue
		}
		if err := dispatcher.Send(ctx, friend.PushToken, title, body, data); err != nil {
			// entrega é best-effort; falha não derruba o evento nem o tick
			log.Printf("escalation sweeper: send error event=%s friend=%d: %v", ev.ID, friendID, err)
		}
	}

	// Transição acontece independente do resultado dos envios. Se o dono
	// desligou o alarme no meio do caminho, o guard pending->escalated falha
	// e respeitamos o dismiss.
	err := store.TransitionEscalation(db, ev.ID, models.ESCALATION_STATUS_PENDING, models.ESCALATION_STATUS_ESCALATED, now)
	if err == store.ErrNoTransition {
		return
	}
	if err != nil {
		// evento continua pending; o próximo tick tenta de novo
		log.Printf("escalation sweeper: transition error event=%s: %v", ev.ID, err)
	}
}
