package fake

import (
	"context"
	"testing"

	"github.com/BearBump/RailStatus/internal/models"
	"github.com/stretchr/testify/require"
)

func TestFakeClient_Lookup(t *testing.T) {
	c := New()

	res := c.Lookup(context.Background(), "12951", models.LookupKindRunningStatus)
	require.True(t, res.OK())
	s, ok := res.Running()
	require.True(t, ok)
	require.Len(t, s.Stations, 6)
	_, ok = s.CurrentStation()
	require.True(t, ok)

	again := c.Lookup(context.Background(), "12951", models.LookupKindRunningStatus)
	s2, _ := again.Running()
	require.Equal(t, s.CurrentlyAtCode, s2.CurrentlyAtCode)
}

func TestFakeClient_Lookup_PNR(t *testing.T) {
	c := New()
	sawOK := false
	for _, q := range []string{"1000000001", "1000000002", "1000000003", "1000000004", "1000000005"} {
		res := c.Lookup(context.Background(), q, models.LookupKindPNR)
		if res.OK() {
			sawOK = true
			p, _ := res.PNR()
			require.NotEmpty(t, p.Passengers)
			require.Equal(t, q, p.PNRNo)
			continue
		}
		require.Equal(t, models.ErrKindUpstreamError, res.Err().Kind)
	}
	require.True(t, sawOK)
}

func TestFakeClient_Lookup_EmptyQuery(t *testing.T) {
	res := New().Lookup(context.Background(), " ", models.LookupKindPNR)
	require.Equal(t, models.ErrKindEmptyQuery, res.Err().Kind)
}
