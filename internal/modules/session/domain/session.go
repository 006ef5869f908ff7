package domain

import "sync/atomic"

// Messages shown to the player when a flow step fails.
const (
	MsgSummonFailed = "Failed to summon a quest giver. Please check your API key and try again."
	MsgNoPersona    = "Your quest giver hasn't arrived yet! Please wait."
	MsgQuestFailed  = "The quest scroll caught fire! Failed to create a new quest. Please try again."
	MsgCreditFailed = "Quest complete, but the leaderboard could not be updated. Those points were lost."
)

type Status struct {
	Loading bool
	Error   string
}

type EventKind string

const (
	EventStatus  EventKind = "status"
	EventPersona EventKind = "persona"
	EventTasks   EventKind = "tasks"
	EventPoints  EventKind = "points"
)

// Guard admits a single narrator call at a time.
type Guard struct {
	busy atomic.Bool
}

func (g *Guard) TryAcquire() bool { return g.busy.CompareAndSwap(false, true) }

func (g *Guard) Release() { g.busy.Store(false) }

func (g *Guard) Busy() bool { return g.busy.Load() }
