package models

import (
	"strings"
	"time"
)

// Overall status texts the upstream uses for the two common outcomes.
const (
	OverallStatusConfirmed  = "Your Ticket is Confirmed"
	OverallStatusWaitlisted = "Your Ticket is Waitlisted"
)

// Timestamp keeps the upstream text and, when it could be parsed, the time it denotes.
// It encodes back to the raw text so a payload survives a JSON round trip unchanged.
type Timestamp struct {
	Raw   string
	Time  time.Time
	Valid bool
}

type PNRStatus struct {
	PNRNo       string `json:"pnrNo"`
	TrainNumber string `json:"trainNumber"`
	TrainName   string `json:"trainName"`

	SrcName     string `json:"srcName"`
	SrcCode     string `json:"srcCode"`
	SrcPlatform string `json:"srcPfNo,omitempty"`
	DstName     string `json:"dstName"`
	DstCode     string `json:"dstCode"`
	DstPlatform string `json:"dstPfNo,omitempty"`

	DepartureTime   Timestamp `json:"departureTime"`
	ArrivalTime     Timestamp `json:"arrivalTime"`
	DurationMinutes *int      `json:"duration,omitempty"`

	ChartStatus   string `json:"chartStatus"`
	ChartPrepMsg  string `json:"chartPrepMsg,omitempty"`
	OverallStatus string `json:"overallStatus"`
	LastUpdated   string `json:"pnrLastUpdated,omitempty"`

	Passengers []Passenger `json:"passengers"`
}

type Passenger struct {
	Name               string   `json:"name"`
	CurrentStatus      string   `json:"currentStatus"`
	SeatDetails        string   `json:"currentSeatDetails"`
	ConfirmProbability *float64 `json:"confirmProb,omitempty"`
	BerthType          string   `json:"berthType,omitempty"`
}

func (p PNRStatus) Confirmed() bool {
	return strings.EqualFold(p.OverallStatus, OverallStatusConfirmed)
}

func (p PNRStatus) Waitlisted() bool {
	return strings.EqualFold(p.OverallStatus, OverallStatusWaitlisted)
}

// Normalized trims text fields and guarantees a non-nil passenger slice.
// Applying it to an already normalized value returns an equal value.
func (p PNRStatus) Normalized() PNRStatus {
	out := p
	out.PNRNo = strings.TrimSpace(p.PNRNo)
	out.TrainNumber = strings.TrimSpace(p.TrainNumber)
	out.TrainName = strings.TrimSpace(p.TrainName)
	out.SrcName = strings.TrimSpace(p.SrcName)
	out.SrcCode = strings.TrimSpace(p.SrcCode)
	out.SrcPlatform = strings.TrimSpace(p.SrcPlatform)
	out.DstName = strings.TrimSpace(p.DstName)
	out.DstCode = strings.TrimSpace(p.DstCode)
	out.DstPlatform = strings.TrimSpace(p.DstPlatform)
	out.ChartStatus = strings.TrimSpace(p.ChartStatus)
	out.ChartPrepMsg = strings.TrimSpace(p.ChartPrepMsg)
	out.OverallStatus = strings.TrimSpace(p.OverallStatus)
	out.LastUpdated = strings.TrimSpace(p.LastUpdated)
	out.DepartureTime = ParseTimestamp(p.DepartureTime.Raw)
	out.ArrivalTime = ParseTimestamp(p.ArrivalTime.Raw)
	if p.DurationMinutes != nil {
		d := *p.DurationMinutes
		out.DurationMinutes = &d
	}

	out.Passengers = make([]Passenger, 0, len(p.Passengers))
	for _, ps := range p.Passengers {
		n := Passenger{
			Name:          strings.TrimSpace(ps.Name),
			CurrentStatus: strings.TrimSpace(ps.CurrentStatus),
			SeatDetails:   strings.TrimSpace(ps.SeatDetails),
			BerthType:     strings.TrimSpace(ps.BerthType),
		}
		if ps.ConfirmProbability != nil {
			v := *ps.ConfirmProbability
			n.ConfirmProbability = &v
		}
		out.Passengers = append(out.Passengers, n)
	}
	return out
}
