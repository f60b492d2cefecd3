package lookups

import (
	"testing"

	"github.com/BearBump/RailStatus/internal/models"
	"github.com/stretchr/testify/require"
)

func pnrOK(query, train string) models.StatusResult {
	return models.OkPNR(query, models.PNRStatus{PNRNo: query, TrainNumber: train})
}

func runningOK(query string) models.StatusResult {
	return models.OkRunning(query, models.RunningStatus{TrainNumber: query})
}

func TestReduce_InputChangedClearsError(t *testing.T) {
	s := NewFormState(models.LookupKindPNR, SequenceGuarded)
	s = Reduce(s, Submitted{Seq: 1})
	require.NotNil(t, s.Err)

	s = Reduce(s, InputChanged{Value: "4521678903"})
	require.Nil(t, s.Err)
	require.Equal(t, "4521678903", s.Input)
}

func TestReduce_EmptySubmitDoesNotLoad(t *testing.T) {
	s := NewFormState(models.LookupKindRunningStatus, SequenceGuarded)
	s = Reduce(s, InputChanged{Value: "  "})
	s = Reduce(s, Submitted{Seq: 1})

	require.False(t, s.Loading)
	require.Equal(t, uint64(0), s.Issued)
	require.Equal(t, models.ErrKindEmptyQuery, s.Err.Kind)
}

func TestReduce_OkPNRClearsInput(t *testing.T) {
	s := NewFormState(models.LookupKindPNR, SequenceGuarded)
	s = Reduce(s, InputChanged{Value: "4521678903"})
	s = Reduce(s, Submitted{Seq: 1})
	require.True(t, s.Loading)

	s = Reduce(s, Resolved{Seq: 1, Result: pnrOK("4521678903", "12951")})
	require.False(t, s.Loading)
	require.Empty(t, s.Input)
	require.Nil(t, s.Err)
	require.True(t, s.Result.OK())
}

func TestReduce_OkRunningKeepsInput(t *testing.T) {
	s := NewFormState(models.LookupKindRunningStatus, SequenceGuarded)
	s = Reduce(s, InputChanged{Value: "12951"})
	s = Reduce(s, Submitted{Seq: 1})
	s = Reduce(s, Resolved{Seq: 1, Result: runningOK("12951")})
	require.Equal(t, "12951", s.Input)
}

func TestReduce_ErrClearsResult(t *testing.T) {
	s := NewFormState(models.LookupKindRunningStatus, SequenceGuarded)
	s = Reduce(s, InputChanged{Value: "12951"})
	s = Reduce(s, Submitted{Seq: 1})
	s = Reduce(s, Resolved{Seq: 1, Result: runningOK("12951")})

	s = Reduce(s, Submitted{Seq: 2})
	failed := models.Failed(models.LookupKindRunningStatus, "12951", models.LookupError{
		Kind:    models.ErrKindTransportFailure,
		Message: "boom",
	})
	s = Reduce(s, Resolved{Seq: 2, Result: failed})
	require.True(t, s.Result.IsZero())
	require.Equal(t, models.ErrKindTransportFailure, s.Err.Kind)
}

// A then B submitted; B resolves before A.
func overlapping(policy Policy) FormState {
	s := NewFormState(models.LookupKindRunningStatus, policy)
	s = Reduce(s, InputChanged{Value: "11111"})
	s = Reduce(s, Submitted{Seq: 1})
	s = Reduce(s, InputChanged{Value: "22222"})
	s = Reduce(s, Submitted{Seq: 2})
	s = Reduce(s, Resolved{Seq: 2, Result: runningOK("22222")})
	return Reduce(s, Resolved{Seq: 1, Result: runningOK("11111")})
}

func TestReduce_Overlapping_SequenceGuarded(t *testing.T) {
	s := overlapping(SequenceGuarded)
	r, ok := s.Result.Running()
	require.True(t, ok)
	require.Equal(t, "22222", r.TrainNumber)
	require.False(t, s.Loading)
	require.Equal(t, 0, s.Outstanding)
}

func TestReduce_Overlapping_LastResolvedWins(t *testing.T) {
	s := overlapping(LastResolvedWins)
	r, ok := s.Result.Running()
	require.True(t, ok)
	require.Equal(t, "11111", r.TrainNumber)
	require.False(t, s.Loading)
}

func TestReduce_LoadingWhileNewerOutstanding(t *testing.T) {
	for _, p := range []Policy{SequenceGuarded, LastResolvedWins} {
		t.Run(p.String(), func(t *testing.T) {
			s := NewFormState(models.LookupKindRunningStatus, p)
			s = Reduce(s, InputChanged{Value: "11111"})
			s = Reduce(s, Submitted{Seq: 1})
			s = Reduce(s, Submitted{Seq: 2})
			s = Reduce(s, Resolved{Seq: 1, Result: runningOK("11111")})
			require.True(t, s.Loading)
			s = Reduce(s, Resolved{Seq: 2, Result: runningOK("11111")})
			require.False(t, s.Loading)
		})
	}
}

func TestReduce_DoesNotMutateInput(t *testing.T) {
	s := NewFormState(models.LookupKindPNR, SequenceGuarded)
	s = Reduce(s, InputChanged{Value: "1"})
	before := s
	_ = Reduce(s, Submitted{Seq: 1})
	require.Equal(t, before, s)
}

func TestReduce_ResolutionsCountsLateResults(t *testing.T) {
	guarded := overlapping(SequenceGuarded)
	require.Equal(t, uint64(1), guarded.Resolutions)
	require.Equal(t, uint64(2), guarded.Applied)

	legacy := overlapping(LastResolvedWins)
	require.Equal(t, uint64(2), legacy.Resolutions)
	require.Equal(t, uint64(2), legacy.Applied)
}
