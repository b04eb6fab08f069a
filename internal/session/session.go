package session

import (
	"context"

	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"

	"github.com/DoyleJ11/atbat-challenge/internal/engine"
	"github.com/DoyleJ11/atbat-challenge/internal/media"
	"github.com/DoyleJ11/atbat-challenge/internal/timers"
)

type Msg interface{ isSessionMsg() }

type FromClient struct {
	ClientID string
	Cmd      engine.Command
}

func (FromClient) isSessionMsg() {}

type Join struct {
	ClientID string
	Outbox   chan Snapshot // where this client wants to receive snapshots
}

func (Join) isSessionMsg() {}

type Leave struct{ ClientID string }

func (Leave) isSessionMsg() {}

type Shutdown struct{}

func (Shutdown) isSessionMsg() {}

type GetState struct {
	Reply chan View
}

func (GetState) isSessionMsg() {}

type timerFired struct {
	name string
	gen  uint64
}

func (timerFired) isSessionMsg() {}

type Snapshot struct {
	Version int
	State   engine.State
	Cues    []media.Cue
	Err     string // only set on the copy sent back to a rejected sender
}

type View struct {
	Version    int
	NumClients int
	State      engine.State
	Pending    []string
}

type Options struct {
	Clock  clockwork.Clock
	Logger *zap.Logger
	Rules  engine.Rules
	Assets media.Assets
}

type Session struct {
	code    string
	inbox   chan Msg
	state   engine.State
	version int
	clients map[string]chan Snapshot
	sched   *timers.Scheduler[engine.CommandType]
	queue   *media.Queue
	deck    *media.Deck
	log     *zap.Logger
	ctx     context.Context
	cancel  context.CancelFunc
}

func New(parent context.Context, code string, opts Options) *Session {
	ctx, cancel := context.WithCancel(parent)

	if opts.Clock == nil {
		opts.Clock = clockwork.NewRealClock()
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Rules == (engine.Rules{}) {
		opts.Rules = engine.DefaultRules()
	}

	s := &Session{
		code:    code,
		inbox:   make(chan Msg, 64),
		state:   engine.NewState(opts.Rules),
		clients: make(map[string]chan Snapshot),
		log:     opts.Logger.With(zap.String("session", code)),
		ctx:     ctx,
		cancel:  cancel,
	}
	s.sched = timers.New[engine.CommandType](opts.Clock, s.fire, s.log)
	s.queue = media.NewQueue(func() int { return len(s.clients) })
	s.deck = media.NewRemoteDeck(s.queue, opts.Assets, s.log)

	go s.loop()
	return s
}

func (s *Session) Code() string { return s.code }

// Expose the inbox so tests or the WS layer can send messages.
func (s *Session) Inbox() chan<- Msg { return s.inbox }

// Done is closed once the session has shut down.
func (s *Session) Done() <-chan struct{} { return s.ctx.Done() }

func (s *Session) loop() {
	for {
		select {
		case <-s.ctx.Done():
			s.shutdown()
			return

		case m := <-s.inbox:
			switch msg := m.(type) {
			case Join:
				s.clients[msg.ClientID] = msg.Outbox
				msg.Outbox <- Snapshot{Version: s.version, State: s.state}
				s.log.Debug("client joined", zap.String("client", msg.ClientID), zap.Int("clients", len(s.clients)))

			case Leave:
				if ch, ok := s.clients[msg.ClientID]; ok {
					close(ch)
					delete(s.clients, msg.ClientID)
				}
				s.log.Debug("client left", zap.String("client", msg.ClientID), zap.Int("clients", len(s.clients)))

			case FromClient:
				s.handle(msg.ClientID, msg.Cmd)

			case timerFired:
				cmd, ok := s.sched.Claim(msg.name, msg.gen)
				if !ok {
					break
				}
				s.handle("", engine.Command{Type: cmd})

			case GetState:
				msg.Reply <- View{
					Version:    s.version,
					NumClients: len(s.clients),
					State:      s.state,
					Pending:    s.sched.Pending(),
				}

			case Shutdown:
				s.shutdown()
				return
			}
		}
	}
}

// handle applies cmd; clientID is empty for timer-driven commands.
func (s *Session) handle(clientID string, cmd engine.Command) {
	events, next, err := engine.Apply(s.state, cmd)
	if err != nil {
		if clientID == "" {
			s.log.Warn("scheduled transition rejected", zap.String("cmd", string(cmd.Type)), zap.Error(err))
			return
		}
		s.log.Debug("command rejected", zap.String("client", clientID), zap.String("cmd", string(cmd.Type)), zap.Error(err))
		s.reject(clientID, err)
		return
	}
	if len(events) == 0 {
		return
	}

	s.state = next
	s.run(events)
	s.version++
	s.broadcast(Snapshot{Version: s.version, State: s.state, Cues: s.queue.Drain()})
}

func (s *Session) run(events []engine.Event) {
	for _, e := range events {
		switch e.Type {
		case engine.EvtPhaseChanged:
			// Nothing scheduled by the previous phase may fire against the new one.
			s.sched.CancelAll()
			s.log.Info("phase changed",
				zap.String("phase", string(e.Phase)),
				zap.String("outcome", string(e.Outcome)),
				zap.Int("round", s.state.Rounds))

		case engine.EvtTimerStarted:
			s.sched.Arm(string(e.Task.Name), e.Task.Delay, e.Task.Cmd)

		case engine.EvtCueRequested:
			s.perform(e.Cue)

		case engine.EvtPredictionSubmitted:
			s.log.Info("prediction submitted",
				zap.String("choice", string(e.Choice)),
				zap.String("outcome", string(e.Outcome)))

		case engine.EvtCommentSent:
			s.log.Info("comment sent", zap.Int("len", len([]rune(e.Text))))
		}
	}
}

func (s *Session) perform(c engine.Cue) {
	switch c {
	case engine.CueUnlockAudio:
		s.deck.Unlock(s.ctx)
	case engine.CueMusicStart:
		s.deck.StartMusic(s.ctx)
	case engine.CueMusicStop:
		s.deck.StopMusic()
	case engine.CueWinSound:
		s.deck.PlayOutcome(s.ctx, true)
	case engine.CueLoseSound:
		s.deck.PlayOutcome(s.ctx, false)
	}
}

// fire runs on the timer goroutine.
func (s *Session) fire(name string, gen uint64) {
	select {
	case s.inbox <- timerFired{name: name, gen: gen}:
	case <-s.ctx.Done():
	}
}

func (s *Session) shutdown() {
	s.sched.CancelAll()
	for id, ch := range s.clients {
		close(ch) // Tell client no more snapshots
		delete(s.clients, id)
	}
	s.cancel()
}

func (s *Session) broadcast(snap Snapshot) {
	for id, ch := range s.clients {
		select {
		case ch <- snap:
			//ok
		default:
			// Client is slow/full - drop them.
			close(ch)
			delete(s.clients, id)
			s.log.Info("dropped slow client", zap.String("client", id))
		}
	}
}

func (s *Session) reject(clientID string, err error) {
	ch, ok := s.clients[clientID]
	if !ok {
		return
	}
	select {
	case ch <- Snapshot{Version: s.version, State: s.state, Err: err.Error()}:
	default:
		close(ch)
		delete(s.clients, clientID)
	}
}
