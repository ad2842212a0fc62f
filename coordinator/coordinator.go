package coordinator

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"
)

// Alarm é o que o coordinator precisa saber de um alarme no momento do disparo.
type Alarm struct {
	ID                string
	EscalationEnabled bool
	DelayMinutes      int
	FriendIDs         []int64
	Message           string
}

// EscalationAPI é o lado remoto (o servidor) visto pelo coordinator. Todas as
// chamadas devem respeitar o deadline do contexto: timeout é falha, não hang.
type EscalationAPI interface {
	Trigger(ctx context.Context, alarm Alarm, triggerTime time.Time) (eventID string, err error)
	Dismiss(ctx context.Context, eventID string) error
	Snooze(ctx context.Context, eventID string, additionalMinutes int) (newDeadline time.Time, err error)
}

// WarnFunc é o aviso local disparado pelo backup timer. Avisa só o DONO do
// alarme (nunca amigos): é rede de segurança de UX, não decisão de escalação.
type WarnFunc func(eventID string)

var ErrNoActiveEvent = errors.New("no active escalation event")

// Coordinator é o lado do dispositivo da pipeline de escalação: cria o evento
// remoto quando o alarme dispara, cancela no dismiss, estende no snooze, e
// mantém um backup timer local pro caso do caminho remoto estar fora do ar.
//
// O deadline local é otimista; o que vale de verdade é o que o servidor tem.
// Os dois são guardados separados e a divergência é exposta, nunca escondida.
type Coordinator struct {
	api  EscalationAPI
	warn WarnFunc

	// timeout das chamadas remotas
	callTimeout time.Duration

	mu             sync.Mutex
	eventID        string
	timer          *time.Timer
	localDeadline  time.Time
	remoteDeadline time.Time
}

func New(api EscalationAPI, warn WarnFunc) *Coordinator {
	if warn == nil {
		warn = func(eventID string) {
			log.Printf("coordinator: escalation deadline approaching for event %s", eventID)
		}
	}
	return &Coordinator{
		api:         api,
		warn:        warn,
		callTimeout: 15 * time.Second,
	}
}

// AlarmTriggered cria o evento remoto e arma o backup timer. Devolve id vazio
// (sem erro) quando o alarme não tem escalação habilitada ou não tem amigos;
// nesse caso nada é criado, nem local nem remoto.
func (co *Coordinator) AlarmTriggered(ctx context.Context, alarm Alarm) (string, error) {
	if !alarm.EscalationEnabled || len(alarm.FriendIDs) == 0 {
		return "", nil
	}

	now := time.Now()
	delay := time.Duration(alarm.DelayMinutes) * time.Minute

	callCtx, cancel := context.WithTimeout(ctx, co.callTimeout)
	defer cancel()

	eventID, err := co.api.Trigger(callCtx, alarm, now)
	if err != nil {
		return "", err
	}

	deadline := now.Add(delay)

	co.mu.Lock()
	defer co.mu.Unlock()
	co.stopTimerLocked()
	co.eventID = eventID
	co.localDeadline = deadline
	co.remoteDeadline = deadline
	co.startTimerLocked(delay)
	return eventID, nil
}

// AlarmDismissed cancela o backup timer e pede a transição pending->dismissed.
// Sem evento ativo é no-op. Falha remota volta pro chamador como erro
// recuperável (a UI precisa re-tentar: não cancelar a escalação é crítico),
// mas o timer local já fica parado: o usuário desligou o alarme.
func (co *Coordinator) AlarmDismissed(ctx context.Context) error {
	co.mu.Lock()
	eventID := co.eventID
	co.stopTimerLocked()
	co.eventID = ""
	co.mu.Unlock()

	if eventID == "" {
		return nil
	}

	callCtx, cancel := context.WithTimeout(ctx, co.callTimeout)
	defer cancel()

	return co.api.Dismiss(callCtx, eventID)
}

// AlarmSnoozed estende o deadline remoto e rearma o backup timer. O timer
// local rearma mesmo se a chamada remota falhar (offline): o aviso local deve
// refletir a última intenção do usuário. A divergência com o servidor fica
// registrada em localDeadline != remoteDeadline e o erro volta pro chamador.
func (co *Coordinator) AlarmSnoozed(ctx context.Context, additionalMinutes int) error {
	co.mu.Lock()
	eventID := co.eventID
	if eventID == "" {
		co.mu.Unlock()
		return ErrNoActiveEvent
	}
	// otimista: rearma já, baseado no deadline local
	co.stopTimerLocked()
	co.localDeadline = co.localDeadline.Add(time.Duration(additionalMinutes) * time.Minute)
	co.startTimerLocked(time.Until(co.localDeadline))
	co.mu.Unlock()

	callCtx, cancel := context.WithTimeout(ctx, co.callTimeout)
	defer cancel()

	newDeadline, err := co.api.Snooze(callCtx, eventID, additionalMinutes)
	if err != nil {
		// gap conhecido: o servidor pode escalar no deadline antigo.
		// Não tentamos "consertar" aqui; ver DESIGN.md.
		return err
	}

	// servidor confirmou: o deadline dele vira a crença local também, e o
	// backup timer rearma em cima dele (senão Diverged() acusaria a diferença
	// de relógio entre cliente e servidor como divergência real)
	co.mu.Lock()
	if co.eventID == eventID {
		co.localDeadline = newDeadline
		co.remoteDeadline = newDeadline
		co.stopTimerLocked()
		co.startTimerLocked(time.Until(newDeadline))
	}
	co.mu.Unlock()
	return nil
}

// Diverged informa se o deadline local otimista difere do último confirmado
// pelo servidor (ex: snooze que falhou offline).
func (co *Coordinator) Diverged() bool {
	co.mu.Lock()
	defer co.mu.Unlock()
	return co.eventID != "" && !co.localDeadline.Equal(co.remoteDeadline)
}

// ActiveEventID devolve o evento em andamento ("" se não há).
func (co *Coordinator) ActiveEventID() string {
	co.mu.Lock()
	defer co.mu.Unlock()
	return co.eventID
}

// Close cancela qualquer timer pendente. Idempotente; chamar no teardown do
// processo pra não deixar aviso fantasma disparando depois.
func (co *Coordinator) Close() {
	co.mu.Lock()
	defer co.mu.Unlock()
	co.stopTimerLocked()
	co.eventID = ""
}

func (co *Coordinator) startTimerLocked(d time.Duration) {
	if d < 0 {
		d = 0
	}
	eventID := co.eventID
	co.timer = time.AfterFunc(d, func() {
		co.mu.Lock()
		still := co.eventID == eventID && eventID != ""
		co.mu.Unlock()
		if still {
			co.warn(eventID)
		}
	})
}

// stopTimerLocked é idempotente: parar timer já parado (ou nunca armado) é no-op.
func (co *Coordinator) stopTimerLocked() {
	if co.timer != nil {
		co.timer.Stop()
		co.timer = nil
	}
}
