package lookups

import (
	"context"
	"sync"

	"github.com/BearBump/RailStatus/internal/models"
)

type Looker interface {
	Lookup(ctx context.Context, query string, kind models.LookupKind) models.StatusResult
}

// Session owns one FormState and runs its submissions in the background.
// Submissions may overlap; none is cancelled by a newer one.
type Session struct {
	looker   Looker
	onChange func(FormState)

	mu    sync.Mutex
	state FormState
	wg    sync.WaitGroup
}

// NewSession builds a session. onChange, if set, receives every new state in
// order. It runs under the session lock and must not call back into the session.
func NewSession(looker Looker, kind models.LookupKind, policy Policy, onChange func(FormState)) *Session {
	return &Session{
		looker:   looker,
		onChange: onChange,
		state:    NewFormState(kind, policy),
	}
}

func (s *Session) State() FormState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *Session) SetInput(v string) {
	s.dispatch(InputChanged{Value: v})
}

// Submit starts a lookup for the current input and returns its sequence.
// started is false when the input is empty and no lookup was issued.
func (s *Session) Submit(ctx context.Context) (seq uint64, started bool) {
	s.mu.Lock()
	seq = s.state.Issued + 1
	s.state = Reduce(s.state, Submitted{Seq: seq})
	st := s.state
	started = st.Issued == seq
	query, kind := st.Input, st.Kind
	if started {
		s.wg.Add(1)
	}
	s.notify(st)
	s.mu.Unlock()

	if !started {
		return seq, false
	}
	go func() {
		defer s.wg.Done()
		res := s.looker.Lookup(ctx, query, kind)
		s.dispatch(Resolved{Seq: seq, Result: res})
	}()
	return seq, true
}

// Wait blocks until every issued lookup has resolved.
func (s *Session) Wait() {
	s.wg.Wait()
}

func (s *Session) dispatch(ev Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = Reduce(s.state, ev)
	s.notify(s.state)
}

func (s *Session) notify(st FormState) {
	if s.onChange != nil {
		s.onChange(st)
	}
}
