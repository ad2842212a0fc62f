package coordinator

import (
	"context"
	"log"
)

/************************************************
/**** MARK: ALARM SIGNALS ****/
/************************************************/
const SIGNAL_ALARM_TRIGGERED = "alarm_triggered"
const SIGNAL_ALARM_DISMISSED = "alarm_dismissed"
const SIGNAL_ALARM_SNOOZED = "alarm_snoozed"

// AlarmSignal é o payload explícito vindo do agendador de alarmes do sistema.
// Nada de broadcast global: os ids relevantes viajam dentro do sinal.
type AlarmSignal struct {
	Kind           string
	Alarm          Alarm // preenchido em SIGNAL_ALARM_TRIGGERED
	SnoozedMinutes int   // preenchido em SIGNAL_ALARM_SNOOZED
}

// Run consome sinais de alarme até o canal fechar ou o contexto cancelar.
// Erros das chamadas remotas são logados aqui; quem precisa de retry usa os
// métodos do Coordinator diretamente.
func (co *Coordinator) Run(ctx context.Context, signals <-chan AlarmSignal) {
	defer co.Close()

	for {
		select {
		case <-ctx.Done():
			return
		case sig, ok := <-signals:
			if !ok {
				return
			}
			switch sig.Kind {
			case SIGNAL_ALARM_TRIGGERED:
				if _, err := co.AlarmTriggered(ctx, sig.Alarm); err != nil {
					log.Printf("coordinator: trigger failed alarm=%s: %v", sig.Alarm.ID, err)
				}
			case SIGNAL_ALARM_DISMISSED:
				if err := co.AlarmDismissed(ctx); err != nil {
					log.Printf("coordinator: dismiss failed: %v", err)
				}
			case SIGNAL_ALARM_SNOOZED:
				if err := co.AlarmSnoozed(ctx, sig.SnoozedMinutes); err != nil {
					log.Printf("coordinator: snooze failed: %v", err)
				}
			default:
				log.Printf("coordinator: unknown signal kind %q", sig.Kind)
			}
		}
	}
}
