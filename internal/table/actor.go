// Package table hosts the per-table concurrency arbiter and its
// collaborators. Each table owns one engine instance and one Actor; the
// actor's serial command loop is the only writer to the engine. After every
// state change the actor fans personalized snapshots out to subscribers and
// keeps the to-act deadline armed.
package table

import (
	"errors"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"

	"github.com/cardroom/holdemd/internal/engine"
)

// ErrTableClosed is returned for commands sent to a destroyed table
var ErrTableClosed = errors.New("table is closed")

// DefaultActionTimeout is how long the to-act seat has before being
// auto-folded.
const DefaultActionTimeout = 30 * time.Second

type cmdKind int

const (
	cmdJoin cmdKind = iota
	cmdLeave
	cmdStart
	cmdAct
	cmdSnapshot
	cmdGodSnapshot
	cmdSubscribe
	cmdUnsubscribe
	cmdReconnect
	cmdTimeoutFired
)

// command is one tagged request on the actor's intake channel. Commands
// directed at a single table are totally ordered by arrival.
type command struct {
	kind    cmdKind
	name    string
	chips   int
	seat    int
	action  engine.Action
	handNum int
	sub     *Subscription
	reply   chan result
}

type result struct {
	seat int
	snap *engine.Snapshot
	sub  *Subscription
	err  error
}

// Actor serializes all access to one engine instance
type Actor struct {
	ID string

	eng      *engine.Engine
	cmds     chan command
	subs     map[*Subscription]struct{}
	timeouts *timeoutManager
	logger   *log.Logger

	// armedSeat/armedHand track the deadline currently scheduled so an
	// unrelated mutation (a join, say) does not reset the acting
	// player's clock.
	armedSeat int
	armedHand int

	done     chan struct{}
	stopOnce sync.Once
}

// ActorOption configures an Actor at creation
type ActorOption func(*Actor)

// WithEngine substitutes a pre-built engine, e.g. one with a rigged deck
func WithEngine(eng *engine.Engine) ActorOption {
	return func(a *Actor) { a.eng = eng }
}

// WithClock injects the clock used for action deadlines
func WithClock(clock quartz.Clock) ActorOption {
	return func(a *Actor) { a.timeouts.clock = clock }
}

// WithActionTimeout overrides the per-action deadline
func WithActionTimeout(d time.Duration) ActorOption {
	return func(a *Actor) { a.timeouts.timeout = d }
}

// NewActor creates the arbiter for one table and starts its command loop
func NewActor(id string, cfg engine.Config, logger *log.Logger, opts ...ActorOption) *Actor {
	a := &Actor{
		ID:        id,
		eng:       engine.New(cfg),
		cmds:      make(chan command, 64),
		subs:      make(map[*Subscription]struct{}),
		logger:    logger.WithPrefix("table").With("table", id),
		armedSeat: -1,
		done:      make(chan struct{}),
	}
	a.timeouts = newTimeoutManager(quartz.NewReal(), DefaultActionTimeout, a.enqueueTimeout)
	for _, opt := range opts {
		opt(a)
	}
	go a.run()
	return a
}

// Join seats a new player, returning the assigned seat index
func (a *Actor) Join(name string, chips int) (int, error) {
	res, err := a.do(command{kind: cmdJoin, name: name, chips: chips})
	return res.seat, err
}

// Leave removes a seat; if it is contesting the current hand it is folded
func (a *Actor) Leave(seat int) error {
	_, err := a.do(command{kind: cmdLeave, seat: seat})
	return err
}

// StartHand begins a new hand and returns a spectator snapshot
func (a *Actor) StartHand() (*engine.Snapshot, error) {
	res, err := a.do(command{kind: cmdStart})
	return res.snap, err
}

// Act applies a player action and returns the actor's personalized snapshot
func (a *Actor) Act(seat int, action engine.Action) (*engine.Snapshot, error) {
	res, err := a.do(command{kind: cmdAct, seat: seat, action: action})
	return res.snap, err
}

// State returns a snapshot personalized for the given seat (-1 spectator)
func (a *Actor) State(seat int) (*engine.Snapshot, error) {
	res, err := a.do(command{kind: cmdSnapshot, seat: seat})
	return res.snap, err
}

// GodState returns the admin view with all hole cards revealed
func (a *Actor) GodState() (*engine.Snapshot, error) {
	res, err := a.do(command{kind: cmdGodSnapshot})
	return res.snap, err
}

// Subscribe attaches a push channel for the given seat (-1 spectator).
// Re-subscribing an occupied seat atomically replaces the old subscription.
func (a *Actor) Subscribe(seat int) (*Subscription, error) {
	res, err := a.do(command{kind: cmdSubscribe, seat: seat})
	return res.sub, err
}

// Unsubscribe detaches a subscription and closes its queue
func (a *Actor) Unsubscribe(sub *Subscription) error {
	_, err := a.do(command{kind: cmdUnsubscribe, sub: sub})
	return err
}

// Reconnect cancels any pending auto-fold deadline for the seat and arms a
// fresh one only if the seat is currently to act.
func (a *Actor) Reconnect(seat int) error {
	_, err := a.do(command{kind: cmdReconnect, seat: seat})
	return err
}

// Stop destroys the table: subscriptions close, pending deadlines cancel
func (a *Actor) Stop() {
	a.stopOnce.Do(func() { close(a.done) })
}

func (a *Actor) do(cmd command) (result, error) {
	cmd.reply = make(chan result, 1)
	select {
	case a.cmds <- cmd:
	case <-a.done:
		return result{}, ErrTableClosed
	}
	select {
	case res := <-cmd.reply:
		return res, res.err
	case <-a.done:
		return result{}, ErrTableClosed
	}
}

// enqueueTimeout is invoked from the timer goroutine; it must never block
// the clock, so a closed table just drops the fire.
func (a *Actor) enqueueTimeout(seat, handNum int) {
	select {
	case a.cmds <- command{kind: cmdTimeoutFired, seat: seat, handNum: handNum}:
	case <-a.done:
	}
}

func (a *Actor) run() {
	for {
		select {
		case <-a.done:
			a.timeouts.cancel()
			for sub := range a.subs {
				sub.close()
			}
			a.subs = nil
			return
		case cmd := <-a.cmds:
			a.handle(cmd)
		}
	}
}

func (a *Actor) handle(cmd command) {
	var res result

	switch cmd.kind {
	case cmdJoin:
		res.seat, res.err = a.eng.AddSeat(cmd.name, cmd.chips)
		if res.err == nil {
			a.logger.Info("player joined", "name", cmd.name, "seat", res.seat, "chips", cmd.chips)
			a.afterMutation()
		}

	case cmdLeave:
		res.err = a.eng.RemoveSeat(cmd.seat)
		if res.err == nil {
			a.logger.Info("player left", "seat", cmd.seat)
			a.afterMutation()
		}

	case cmdStart:
		res.err = a.eng.StartHand()
		if res.err == nil {
			a.logger.Info("hand started", "hand", a.eng.HandNum(), "toAct", a.eng.ToAct())
			a.afterMutation()
			res.snap = a.eng.Snapshot(-1)
		}

	case cmdAct:
		res.err = a.eng.Act(cmd.seat, cmd.action)
		if res.err == nil {
			a.logger.Debug("action applied",
				"seat", cmd.seat, "action", cmd.action.Type, "amount", cmd.action.Amount)
			a.afterMutation()
			res.snap = a.eng.Snapshot(cmd.seat)
		}

	case cmdSnapshot:
		res.snap = a.eng.Snapshot(cmd.seat)

	case cmdGodSnapshot:
		res.snap = a.eng.GodSnapshot()

	case cmdSubscribe:
		res.sub = a.subscribe(cmd.seat)

	case cmdUnsubscribe:
		if _, ok := a.subs[cmd.sub]; ok {
			delete(a.subs, cmd.sub)
			cmd.sub.close()
		}

	case cmdReconnect:
		if a.armedSeat == cmd.seat {
			a.timeouts.cancel()
			a.armedSeat = -1
		}
		if a.eng.ToAct() == cmd.seat {
			a.armedSeat = cmd.seat
			a.armedHand = a.eng.HandNum()
			a.timeouts.arm(cmd.seat, a.armedHand)
		}

	case cmdTimeoutFired:
		// Stale fires (turn already moved on) are an expected race.
		if a.eng.HandNum() != cmd.handNum || a.eng.ToAct() != cmd.seat {
			a.logger.Debug("stale timeout ignored", "seat", cmd.seat, "hand", cmd.handNum)
			return
		}
		a.logger.Info("action deadline expired, folding", "seat", cmd.seat)
		if err := a.eng.Act(cmd.seat, engine.Action{Type: engine.Fold}); err == nil {
			a.afterMutation()
		}
		return
	}

	cmd.reply <- res
}

// afterMutation re-targets the action deadline and fans out snapshots
func (a *Actor) afterMutation() {
	toAct, handNum := a.eng.ToAct(), a.eng.HandNum()
	if toAct != a.armedSeat || handNum != a.armedHand {
		a.timeouts.cancel()
		a.armedSeat, a.armedHand = toAct, handNum
		if toAct >= 0 {
			a.timeouts.arm(toAct, handNum)
		}
	}
	a.broadcast()
}

func (a *Actor) subscribe(seat int) *Subscription {
	if seat >= 0 {
		for sub := range a.subs {
			if sub.seat == seat {
				delete(a.subs, sub)
				sub.close()
			}
		}
	}
	sub := newSubscription(seat)
	a.subs[sub] = struct{}{}
	sub.deliver(a.eng.Snapshot(seat))
	return sub
}

func (a *Actor) broadcast() {
	for sub := range a.subs {
		sub.deliver(a.eng.Snapshot(sub.seat))
	}
}
