// Package coach owns the capture-decide cycle. One Session is one actor
// goroutine: it sequences frame capture, detector fan-out, fusion, and
// decision, keeps the bounded rolling history, and broadcasts each completed
// cycle to subscribed clients. Because the loop runs cycles inline, at most
// one fusion+decision pass is ever in flight; triggers that arrive mid-pass
// queue on the inbox.
package coach

import (
	"context"
	"time"

	"github.com/DoyleJ11/tft-coach-backend/internal/decision"
	"github.com/DoyleJ11/tft-coach-backend/internal/detect"
	"github.com/DoyleJ11/tft-coach-backend/internal/fusion"
	"github.com/DoyleJ11/tft-coach-backend/internal/state"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type Msg interface{ isSessionMsg() }

// Join registers a client and immediately sends it the latest cycle, if any.
type Join struct {
	ClientID string
	Outbox   chan CycleResult
}

type Leave struct{ ClientID string }

// Trigger requests an on-demand cycle. Reply may be nil for fire-and-forget.
type Trigger struct {
	Mode  fusion.Mode
	Reply chan *CycleResult
}

type GetStatus struct{ Reply chan StatusView }

// SetComposition declares the champion keys the player is building around;
// the decision engine favors them in shop ranking. Empty clears the
// declaration.
type SetComposition struct{ Keys []string }

type GetHistory struct {
	Limit int
	Reply chan []CycleResult
}

type Shutdown struct{}

func (Join) isSessionMsg()           {}
func (Leave) isSessionMsg()          {}
func (Trigger) isSessionMsg()        {}
func (GetStatus) isSessionMsg()      {}
func (SetComposition) isSessionMsg() {}
func (GetHistory) isSessionMsg()     {}
func (Shutdown) isSessionMsg()       {}

// CycleResult is everything one completed cycle produced; it is what gets
// broadcast, listed in history, and optionally persisted.
type CycleResult struct {
	ID              string                    `json:"id"`
	Snapshot        state.Snapshot            `json:"snapshot"`
	Changes         []fusion.Change           `json:"changes,omitzero"`
	Status          fusion.Status             `json:"status"`
	Strategy        decision.Strategy         `json:"strategy"`
	Recommendations []decision.Recommendation `json:"recommendations"`
}

// StatusView is the operator-facing health record: last-cycle capability
// availability plus cumulative discard counters, so extraction health is
// judgeable without reading logs.
type StatusView struct {
	Cycles          int                        `json:"cycles"`
	LastCycleAt     time.Time                  `json:"last_cycle_at,omitzero"`
	Capabilities    map[detect.Capability]bool `json:"capabilities,omitzero"`
	LowConfidence   int                        `json:"low_confidence_total"`
	CatalogMismatch int                        `json:"catalog_mismatch_total"`
	Conflicts       int                        `json:"conflicts_total"`
	DroppedFrames   int                        `json:"dropped_frames"`
	ActiveStrategy  decision.Strategy          `json:"active_strategy"`
	Composition     []string                   `json:"composition,omitzero"`
	NumClients      int                        `json:"num_clients"`
}

// Recorder persists completed cycles. The store package implements it; a nil
// Recorder disables persistence entirely.
type Recorder interface {
	Record(ctx context.Context, res CycleResult) error
}

// Config wires a Session.
type Config struct {
	Frames   detect.FrameSource
	Runner   *detect.Runner
	Fuser    *fusion.Engine
	Decider  *decision.Engine
	Interval time.Duration // 0 disables the poll loop; on-demand only
	History  int
	Recorder Recorder
	Log      *zap.Logger
}

type Session struct {
	inbox   chan Msg
	cfg     Config
	mem     decision.Memory
	prev    *state.Snapshot
	history []CycleResult
	clients map[string]chan CycleResult
	status  StatusView
	ctx     context.Context
	cancel  context.CancelFunc
}

func NewSession(parent context.Context, cfg Config) *Session {
	ctx, cancel := context.WithCancel(parent)
	if cfg.History <= 0 {
		cfg.History = 50
	}
	s := &Session{
		inbox:   make(chan Msg, 64),
		cfg:     cfg,
		mem:     decision.NewMemory(),
		clients: make(map[string]chan CycleResult),
		ctx:     ctx,
		cancel:  cancel,
	}
	go s.loop()
	return s
}

// Inbox exposes the actor mailbox to the transport layer and tests.
func (s *Session) Inbox() chan<- Msg { return s.inbox }

func (s *Session) loop() {
	var tick <-chan time.Time
	if s.cfg.Interval > 0 {
		ticker := time.NewTicker(s.cfg.Interval)
		defer ticker.Stop()
		tick = ticker.C
	}

	for {
		select {
		case <-s.ctx.Done():
			s.shutdown()
			return

		case <-tick:
			// The poll loop takes the fast path; a full read is one
			// explicit trigger away.
			s.runCycle(fusion.ModeFast)

		case m := <-s.inbox:
			switch msg := m.(type) {
			case Join:
				s.clients[msg.ClientID] = msg.Outbox
				if len(s.history) > 0 {
					msg.Outbox <- s.history[len(s.history)-1]
				}

			case Leave:
				// The actor is the only sender, so closing here is race-free;
				// leaving the channel open would strand the client's writer
				// goroutine in its range loop.
				if ch, ok := s.clients[msg.ClientID]; ok {
					close(ch)
					delete(s.clients, msg.ClientID)
				}

			case Trigger:
				res := s.runCycle(msg.Mode)
				if msg.Reply != nil {
					msg.Reply <- res
				}

			case GetStatus:
				view := s.status
				view.NumClients = len(s.clients)
				view.ActiveStrategy = s.mem.Active
				view.Composition = s.mem.Composition
				msg.Reply <- view

			case SetComposition:
				s.mem.Composition = msg.Keys

			case GetHistory:
				n := msg.Limit
				if n <= 0 || n > len(s.history) {
					n = len(s.history)
				}
				out := make([]CycleResult, n)
				copy(out, s.history[len(s.history)-n:])
				msg.Reply <- out

			case Shutdown:
				s.shutdown()
				return
			}
		}
	}
}

func (s *Session) runCycle(mode fusion.Mode) *CycleResult {
	frame, err := s.cfg.Frames.Next(s.ctx)
	if err != nil {
		// No frame, no cycle: an empty fan-out would only produce an empty
		// snapshot that clobbers the delta stream.
		s.status.DroppedFrames++
		s.cfg.Log.Warn("frame capture failed", zap.Error(err))
		return nil
	}

	res := s.cfg.Runner.Run(s.ctx, frame, mode.Wants())
	snap, changes, st := s.cfg.Fuser.Build(res, s.prev)
	recs, mem := s.cfg.Decider.Decide(snap, s.mem)
	s.mem = mem
	s.prev = &snap

	result := CycleResult{
		ID:              uuid.NewString(),
		Snapshot:        snap,
		Changes:         changes,
		Status:          st,
		Strategy:        mem.Active,
		Recommendations: recs,
	}

	s.status.Cycles++
	s.status.LastCycleAt = snap.Timestamp
	s.status.Capabilities = st.Capabilities
	s.status.LowConfidence += st.LowConfidence
	s.status.CatalogMismatch += st.CatalogMismatch
	s.status.Conflicts += st.Conflicts

	s.appendHistory(result)
	s.broadcast(result)

	if s.cfg.Recorder != nil {
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := s.cfg.Recorder.Record(ctx, result); err != nil {
				s.cfg.Log.Warn("cycle persistence failed", zap.String("cycle", result.ID), zap.Error(err))
			}
		}()
	}
	return &result
}

// appendHistory is append-then-trim on the single-writer ring.
func (s *Session) appendHistory(res CycleResult) {
	s.history = append(s.history, res)
	if over := len(s.history) - s.cfg.History; over > 0 {
		s.history = append(s.history[:0], s.history[over:]...)
	}
}

func (s *Session) broadcast(res CycleResult) {
	for id, ch := range s.clients {
		select {
		case ch <- res:
		default:
			// Client is slow/full - drop them.
			close(ch)
			delete(s.clients, id)
		}
	}
}

func (s *Session) shutdown() {
	for id, ch := range s.clients {
		close(ch)
		delete(s.clients, id)
	}
	s.cancel()
}
