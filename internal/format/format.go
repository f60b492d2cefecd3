// Package format holds the presentation helpers shared by the HTTP API and the
// terminal client. They work on normalized results only.
package format

import (
	"fmt"
	"strconv"
	"time"

	"github.com/BearBump/RailStatus/internal/models"
	"github.com/dustin/go-humanize"
)

// Duration renders minutes as "H hrs M mins".
func Duration(minutes int) string {
	return fmt.Sprintf("%d hrs %d mins", minutes/60, minutes%60)
}

// Timestamp renders t as "January 2nd 2006, 3:04:05 pm".
func Timestamp(t time.Time) string {
	return fmt.Sprintf("%s %s %d, %s",
		t.Format("January"), humanize.Ordinal(t.Day()), t.Year(), t.Format("3:04:05 pm"))
}

// UpstreamTimestamp formats a parsed timestamp, falling back to the raw upstream text.
func UpstreamTimestamp(ts models.Timestamp) string {
	if !ts.Valid {
		return ts.Raw
	}
	return Timestamp(ts.Time)
}

func Delay(minutes int) string {
	switch {
	case minutes == 0:
		return "On time"
	case minutes > 0:
		return fmt.Sprintf("%d min late", minutes)
	default:
		return fmt.Sprintf("%d min early", -minutes)
	}
}

// OptionalDelay is Delay for values the upstream may omit.
func OptionalDelay(minutes *int) string {
	if minutes == nil {
		return "-"
	}
	return Delay(*minutes)
}

func Percent(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64) + "%"
}

func Distance(km *float64) string {
	if km == nil {
		return "-"
	}
	return strconv.FormatFloat(*km, 'f', -1, 64)
}

// PNRView is the set of display strings derived from a PNR payload.
type PNRView struct {
	Duration  string   `json:"duration,omitempty"`
	Departure string   `json:"departure,omitempty"`
	Arrival   string   `json:"arrival,omitempty"`
	Source    string   `json:"source"`
	Dest      string   `json:"destination"`
	Tone      string   `json:"tone"`
	Chances   []string `json:"confirmationChances,omitempty"`
}

func PNR(p models.PNRStatus) PNRView {
	v := PNRView{
		Departure: UpstreamTimestamp(p.DepartureTime),
		Arrival:   UpstreamTimestamp(p.ArrivalTime),
		Source:    station(p.SrcName, p.SrcCode),
		Dest:      station(p.DstName, p.DstCode),
		Tone:      Tone(p),
	}
	if p.DurationMinutes != nil {
		v.Duration = Duration(*p.DurationMinutes)
	}
	for _, ps := range p.Passengers {
		if ps.ConfirmProbability != nil {
			v.Chances = append(v.Chances, ps.Name+": "+Percent(ps.ConfirmProbability))
		}
	}
	return v
}

// Tone classifies the overall status for highlighting: "success", "danger" or "neutral".
func Tone(p models.PNRStatus) string {
	switch {
	case p.Confirmed():
		return "success"
	case p.Waitlisted():
		return "danger"
	default:
		return "neutral"
	}
}

type RunningView struct {
	Title       string `json:"title"`
	CurrentlyAt string `json:"currentlyAt,omitempty"`
	LastHalt    string `json:"lastHalt,omitempty"`
	Upcoming    string `json:"upcoming,omitempty"`
	Status      string `json:"status,omitempty"`
	Updated     string `json:"updated,omitempty"`
	Cancelled   string `json:"cancelled,omitempty"`
	TotalDelay  string `json:"totalDelay,omitempty"`
}

func Running(s models.RunningStatus) RunningView {
	v := RunningView{
		Title:    fmt.Sprintf("%s (%s)", s.TrainName, s.TrainNumber),
		LastHalt: station(s.LastHaltStation, s.LastHaltStationCode),
		Upcoming: station(s.UpcomingStation, s.UpcomingStationCode),
	}
	if s.CurrentlyAt != "" {
		v.CurrentlyAt = station(s.CurrentlyAt, s.CurrentlyAtCode)
	}
	if s.Status != nil {
		v.Status = fmt.Sprintf("%s - %s", s.Status.Header, s.Status.Status)
		if s.Status.Message != "" {
			v.Status += " (" + s.Status.Message + ")"
		}
	}
	if s.LastUpdated != "" {
		v.Updated = s.LastUpdated
		if s.LastUpdatedTime != "" {
			v.Updated += " " + s.LastUpdatedTime
		}
	}
	if s.Cancelled() {
		v.Cancelled = fmt.Sprintf("Cancelled From: %s To: %s", s.CancelledFrom, s.CancelledTo)
	}
	if s.TotalLateMins != nil && *s.TotalLateMins >= 0 {
		v.TotalDelay = fmt.Sprintf("%d minutes", *s.TotalLateMins)
	}
	return v
}

func station(name, code string) string {
	switch {
	case name == "" && code == "":
		return ""
	case code == "":
		return name
	case name == "":
		return code
	default:
		return fmt.Sprintf("%s (%s)", name, code)
	}
}
