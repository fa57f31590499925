package engine

import (
	"context"
	"time"
)

// CommitKind names what is being committed.
type CommitKind string

const (
	CommitDesign  CommitKind = "design"
	CommitDeposit CommitKind = "deposit"
)

// Commitment is the payload handed to a Committer.
type Commitment struct {
	Kind     CommitKind
	Property int
	City     string
	Design   AvatarDesign
	Wallet   string
}

// Committer stands in for the backend that would register a design or a
// deposit.
type Committer interface {
	Commit(ctx context.Context, c Commitment) error
}

// SimulatedCommitter waits Delay and succeeds. There is no backend.
type SimulatedCommitter struct {
	Delay time.Duration
}

func (s SimulatedCommitter) Commit(ctx context.Context, _ Commitment) error {
	if s.Delay <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(s.Delay)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
