package fake

import (
	"context"
	"fmt"
	"hash/fnv"
	"time"

	"github.com/BearBump/RailStatus/internal/integrations/railapi"
	"github.com/BearBump/RailStatus/internal/models"
)

// FakeClient is an offline stand-in for the status API. Results are
// deterministic per identifier: roughly one PNR in ten comes back as an
// upstream "712" error, the rest are confirmed or waitlisted.
type FakeClient struct {
	now func() time.Time
}

func New() *FakeClient { return &FakeClient{now: time.Now} }

func (f *FakeClient) Lookup(ctx context.Context, query string, kind models.LookupKind) models.StatusResult {
	q, lerr, err := railapi.NewQuery(query, kind)
	if err != nil {
		return railapi.TransportFailure(kind, q.Identifier)
	}
	if lerr != nil {
		return models.Failed(kind, q.Identifier, *lerr)
	}
	if ctx.Err() != nil {
		return railapi.TransportFailure(kind, q.Identifier)
	}

	v := hash(q.Identifier)
	if kind == models.LookupKindPNR {
		if v%10 == 0 {
			return models.Failed(kind, q.Identifier, models.LookupError{
				Kind:    models.ErrKindUpstreamError,
				Code:    models.UpstreamCode712,
				Message: "PNR No. is not valid",
			})
		}
		return models.OkPNR(q.Identifier, f.pnr(q.Identifier, v))
	}
	return models.OkRunning(q.Identifier, f.running(q.Identifier, v))
}

func (f *FakeClient) pnr(pnrNo string, v uint32) models.PNRStatus {
	dep := f.now().UTC().Truncate(time.Hour).Add(24 * time.Hour)
	dur := 600 + int(v%600)
	arr := dep.Add(time.Duration(dur) * time.Minute)

	overall, status := models.OverallStatusConfirmed, "CNF"
	if v%3 == 0 {
		overall, status = models.OverallStatusWaitlisted, fmt.Sprintf("WL %d", 1+v%40)
	}

	n := 1 + int(v%4)
	passengers := make([]models.Passenger, 0, n)
	for i := 0; i < n; i++ {
		p := models.Passenger{
			Name:          fmt.Sprintf("Passenger %d", i+1),
			CurrentStatus: status,
		}
		if status == "CNF" {
			p.SeatDetails = fmt.Sprintf("B%d / %d", 1+v%6, 1+(int(v)+i*3)%72)
			p.BerthType = []string{"Lower", "Middle", "Upper", "Side Lower", "Side Upper"}[(int(v)+i)%5]
		} else {
			prob := float64(40 + (int(v)+i)%55)
			p.SeatDetails = status
			p.ConfirmProbability = &prob
		}
		passengers = append(passengers, p)
	}

	return models.PNRStatus{
		PNRNo:           pnrNo,
		TrainNumber:     fmt.Sprintf("1%04d", v%10000),
		TrainName:       "FAKE EXPRESS",
		SrcName:         "Mumbai Central",
		SrcCode:         "MMCT",
		SrcPlatform:     fmt.Sprintf("%d", 1+v%8),
		DstName:         "New Delhi",
		DstCode:         "NDLS",
		DstPlatform:     fmt.Sprintf("%d", 1+v%16),
		DepartureTime:   models.ParseTimestamp(dep.Format(time.RFC3339)),
		ArrivalTime:     models.ParseTimestamp(arr.Format(time.RFC3339)),
		DurationMinutes: &dur,
		ChartStatus:     "Chart Not Prepared",
		OverallStatus:   overall,
		LastUpdated:     "fake status api",
		Passengers:      passengers,
	}.Normalized()
}

var fakeRoute = []struct {
	name, code string
	km         float64
	sch        string
}{
	{"Mumbai Central", "MMCT", 0, "17:00"},
	{"Borivali", "BVI", 30, "17:22"},
	{"Surat", "ST", 263, "19:28"},
	{"Vadodara Jn", "BRC", 392, "20:56"},
	{"Kota Jn", "KOTA", 919, "02:20"},
	{"New Delhi", "NDLS", 1384, "08:32"},
}

func (f *FakeClient) running(trainNumber string, v uint32) models.RunningStatus {
	cur := int(v % uint32(len(fakeRoute)))
	late := int(v % 45)

	stations := make([]models.StationHalt, 0, len(fakeRoute))
	for i, r := range fakeRoute {
		km := r.km
		st := models.StationHalt{
			StationName:        r.name,
			StationCode:        r.code,
			DistanceFromOrigin: &km,
			ScheduledArrival:   r.sch,
			ScheduledDeparture: r.sch,
			CurrentlyAt:        i == cur,
		}
		if i <= cur {
			d := late
			st.ActualArrival = r.sch
			st.ArrivalDelayMins = &d
			if i < cur {
				st.ActualDeparture = r.sch
				st.DepartureDelayMins = &d
			}
		}
		stations = append(stations, st)
	}

	s := models.RunningStatus{
		TrainNumber:     trainNumber,
		TrainName:       "FAKE EXPRESS",
		CurrentlyAt:     fakeRoute[cur].name,
		CurrentlyAtCode: fakeRoute[cur].code,
		TotalLateMins:   &late,
		Status: &models.RunningStatusInfo{
			Header:  "Running",
			Status:  "Live",
			Message: fmt.Sprintf("Running %d min late", late),
		},
		LastUpdated: "fake status api",
		Stations:    stations,
	}
	if cur > 0 {
		s.LastHaltStation, s.LastHaltStationCode = fakeRoute[cur-1].name, fakeRoute[cur-1].code
	}
	if cur < len(fakeRoute)-1 {
		s.UpcomingStation, s.UpcomingStationCode = fakeRoute[cur+1].name, fakeRoute[cur+1].code
	}
	return s.Normalized()
}

func hash(s string) uint32 {
	h := fnv.New32a()
	_, _ = h.Write([]byte(s))
	return h.Sum32()
}
