package lookups

import (
	"strings"

	"github.com/BearBump/RailStatus/internal/integrations/railapi"
	"github.com/BearBump/RailStatus/internal/models"
)

// Policy decides what happens when lookups overlap and resolve out of order.
type Policy int

const (
	// SequenceGuarded drops a resolution older than the one already applied,
	// so the most recently submitted lookup wins.
	SequenceGuarded Policy = iota
	// LastResolvedWins applies every resolution in arrival order.
	LastResolvedWins
)

func (p Policy) String() string {
	switch p {
	case SequenceGuarded:
		return "sequence-guarded"
	case LastResolvedWins:
		return "last-resolved-wins"
	default:
		return "unknown"
	}
}

// FormState is the state of one lookup form. Update it only through Reduce.
type FormState struct {
	Kind   models.LookupKind
	Policy Policy

	Input   string
	Loading bool
	Err     *models.LookupError
	Result  models.StatusResult

	// Issued is the highest submitted sequence, Applied the highest applied one.
	Issued  uint64
	Applied uint64
	// Resolutions counts applied results, including late ones under
	// LastResolvedWins that do not move Applied.
	Resolutions uint64
	// Outstanding counts submissions that have not resolved yet.
	Outstanding int
}

func NewFormState(kind models.LookupKind, policy Policy) FormState {
	return FormState{Kind: kind, Policy: policy}
}

type Event interface {
	isEvent()
}

type InputChanged struct {
	Value string
}

type Submitted struct {
	Seq uint64
}

type Resolved struct {
	Seq    uint64
	Result models.StatusResult
}

func (InputChanged) isEvent() {}
func (Submitted) isEvent()    {}
func (Resolved) isEvent()     {}

// Reduce returns the state after ev. It does not modify s.
func Reduce(s FormState, ev Event) FormState {
	switch e := ev.(type) {
	case InputChanged:
		s.Input = e.Value
		s.Err = nil
	case Submitted:
		if strings.TrimSpace(s.Input) == "" {
			empty := railapi.EmptyQuery(s.Kind)
			s.Err = empty.Err()
			return s
		}
		if e.Seq <= s.Issued {
			return s
		}
		s.Issued = e.Seq
		s.Outstanding++
		s.Loading = true
	case Resolved:
		if s.Outstanding > 0 {
			s.Outstanding--
		}
		if s.Policy == SequenceGuarded && e.Seq < s.Applied {
			s.Loading = s.pending()
			return s
		}
		if e.Seq > s.Applied {
			s.Applied = e.Seq
		}
		s.Resolutions++
		s = s.apply(e.Result)
		s.Loading = s.pending()
	}
	return s
}

func (s FormState) apply(res models.StatusResult) FormState {
	if err := res.Err(); err != nil {
		s.Err = err
		s.Result = models.StatusResult{}
		return s
	}
	s.Err = nil
	s.Result = res
	if res.Kind() == models.LookupKindPNR {
		s.Input = ""
	}
	return s
}

func (s FormState) pending() bool {
	if s.Policy == SequenceGuarded {
		return s.Applied < s.Issued && s.Outstanding > 0
	}
	return s.Outstanding > 0
}
