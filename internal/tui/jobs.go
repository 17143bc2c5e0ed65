package tui

import (
	"context"
	"log"
	"sync/atomic"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

type jobKind int

const (
	jobKindList jobKind = iota
	jobKindPreview
	jobKindSave
)

func (k jobKind) String() string {
	switch k {
	case jobKindList:
		return "list"
	case jobKindPreview:
		return "preview"
	case jobKindSave:
		return "save"
	default:
		return "unknown"
	}
}

// jobTicket identifies one toolkit invocation. Sequence numbers grow
// monotonically so the model can tell a current result from a stale one.
type jobTicket struct {
	Seq  int64
	Kind jobKind
}

// jobDoneMsg delivers a finished job's payload back into the update loop.
type jobDoneMsg struct {
	Ticket  jobTicket
	Took    time.Duration
	Err     string
	Payload tea.Msg
}

type jobRunner func(context.Context) (tea.Msg, error)

// jobBus runs toolkit work off the update loop, one logical job at a time:
// starting a new job supersedes any still-running one, whose result is
// dropped on arrival instead of clobbering newer state.
type jobBus struct {
	seq atomic.Int64
}

func newJobBus() *jobBus {
	return &jobBus{}
}

// Current reports whether the ticket belongs to the most recently started
// job.
func (b *jobBus) Current(t jobTicket) bool {
	return t.Seq == b.seq.Load()
}

// Start issues a ticket for the runner and returns the command that executes
// it and wraps its result in a jobDoneMsg.
func (b *jobBus) Start(kind jobKind, runner jobRunner) tea.Cmd {
	ticket := jobTicket{Seq: b.seq.Add(1), Kind: kind}
	return func() tea.Msg {
		started := time.Now()
		payload, err := runner(context.Background())
		done := jobDoneMsg{
			Ticket:  ticket,
			Took:    time.Since(started),
			Payload: payload,
		}
		if err != nil {
			done.Err = err.Error()
		}
		log.Printf("[jobs] %s #%d done in %s (err=%v)", kind, ticket.Seq, done.Took.Round(time.Millisecond), err)
		return done
	}
}
