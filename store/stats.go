package store

import (
	"time"

	"wakely/models"

	"github.com/jinzhu/gorm"
)

// WakeUpStatsResult agrega o histórico de escalações do usuário.
// Um "dia bom" é um dia com pelo menos um alarme desligado a tempo e nenhuma
// escalação; streaks contam dias bons consecutivos no calendário (dia sem
// alarme quebra a sequência).
type WakeUpStatsResult struct {
	TotalAlarms   int64 `json:"total_alarms"`
	Dismissed     int64 `json:"dismissed"`
	Escalated     int64 `json:"escalated"`
	CurrentStreak int   `json:"current_streak"`
	BestStreak    int   `json:"best_streak"`
}

// WakeUpStats calcula totais e streaks a partir dos eventos do usuário.
// now define o que conta como "dia atual" para o streak corrente.
func WakeUpStats(db *gorm.DB, userID int64, now time.Time) (*WakeUpStatsResult, error) {
	base := db.Model(&models.EscalationEvent{}).Where("user_id = ?", userID)

	out := &WakeUpStatsResult{}
	if err := base.Count(&out.TotalAlarms).Error; err != nil {
		return nil, err
	}
	if err := base.Where("status = ?", models.ESCALATION_STATUS_DISMISSED).Count(&out.Dismissed).Error; err != nil {
		return nil, err
	}
	if err := base.Where("status = ?", models.ESCALATION_STATUS_ESCALATED).Count(&out.Escalated).Error; err != nil {
		return nil, err
	}

	var events []models.EscalationEvent
	err := db.
		Where("user_id = ?", userID).
		Where("status IN (?)", []string{models.ESCALATION_STATUS_DISMISSED, models.ESCALATION_STATUS_ESCALATED}).
		Order("trigger_time asc").
		Find(&events).Error
	if err != nil {
		return nil, err
	}
	if len(events) == 0 {
		return out, nil
	}

	// bucket por dia local
	type dayStat struct {
		day  time.Time
		good bool
	}
	byDay := map[string]*dayStat{}
	var order []string
	for _, ev := range events {
		t := ev.TriggerTime.Local()
		day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.Local)
		key := day.Format("2006-01-02")
		st, ok := byDay[key]
		if !ok {
			st = &dayStat{day: day, good: true}
			byDay[key] = st
			order = append(order, key)
		}
		if ev.Status == models.ESCALATION_STATUS_ESCALATED {
			st.good = false
		}
	}

	// best streak: varre os dias em ordem, exigindo dias consecutivos
	best, run := 0, 0
	var prev time.Time
	for _, key := range order {
		st := byDay[key]
		if run > 0 && st.day.Sub(prev) == 24*time.Hour && st.good {
			run++
		} else if st.good {
			run = 1
		} else {
			run = 0
		}
		if run > best {
			best = run
		}
		prev = st.day
	}
	out.BestStreak = best

	// current streak: anda pra trás a partir de hoje (ou ontem, se hoje ainda
	// não teve alarme)
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.Local)
	cursor := today
	if _, ok := byDay[cursor.Format("2006-01-02")]; !ok {
		cursor = cursor.AddDate(0, 0, -1)
	}
	current := 0
	for {
		st, ok := byDay[cursor.Format("2006-01-02")]
		if !ok || !st.good {
			break
		}
		current++
		cursor = cursor.AddDate(0, 0, -1)
	}
	out.CurrentStreak = current

	return out, nil
}
