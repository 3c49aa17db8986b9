package generate

import (
	"github.com/matzehuels/figtree/pkg/errors"
)

// Phase is a stage of a build.
type Phase int

const (
	PhaseWalking Phase = iota
	PhaseAwaitingInstancing
	PhaseInstancing
	PhaseCleaningUp
	PhaseDone
)

var phaseNames = [...]string{
	PhaseWalking:            "walking",
	PhaseAwaitingInstancing: "awaiting-instancing",
	PhaseInstancing:         "instancing",
	PhaseCleaningUp:         "cleaning-up",
	PhaseDone:               "done",
}

// String returns the phase name.
func (p Phase) String() string {
	if p < 0 || int(p) >= len(phaseNames) {
		return "unknown"
	}
	return phaseNames[p]
}

// advance moves to the next phase. Skipping or repeating a phase is an
// internal error.
func (b *builder) advance(to Phase) error {
	if to != b.phase+1 {
		return errors.New(errors.ErrCodeInternal, "illegal phase transition %s -> %s", b.phase, to)
	}
	b.logger.Debug("phase", "from", b.phase, "to", to)
	b.phase = to
	return nil
}
