package main

import (
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"

	"github.com/BearBump/RailStatus/internal/format"
	"github.com/BearBump/RailStatus/internal/models"
)

func renderError(w io.Writer, kind models.LookupKind, e *models.LookupError) {
	fmt.Fprintf(w, "[%s] %s\n", kind, e.Message)
}

func renderPNR(w io.Writer, p models.PNRStatus) {
	v := format.PNR(p)

	fmt.Fprintf(w, "PNR %s  %s %s\n", p.PNRNo, p.TrainNumber, p.TrainName)
	fmt.Fprintf(w, "From: %s%s\n", v.Source, platform(p.SrcPlatform))
	fmt.Fprintf(w, "To:   %s%s\n", v.Dest, platform(p.DstPlatform))
	if v.Departure != "" {
		fmt.Fprintf(w, "Departure: %s\n", v.Departure)
	}
	if v.Arrival != "" {
		fmt.Fprintf(w, "Arrival:   %s\n", v.Arrival)
	}
	if v.Duration != "" {
		fmt.Fprintf(w, "Duration:  %s\n", v.Duration)
	}
	if p.ChartStatus != "" {
		fmt.Fprintf(w, "Chart: %s\n", p.ChartStatus)
	}
	fmt.Fprintf(w, "Status: %s [%s]\n", p.OverallStatus, v.Tone)

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tNAME\tSTATUS\tSEAT\tBERTH\tCHANCE")
	for i, ps := range p.Passengers {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\n",
			i+1, ps.Name, ps.CurrentStatus, dash(ps.SeatDetails), dash(ps.BerthType), dash(format.Percent(ps.ConfirmProbability)))
	}
	_ = tw.Flush()
}

func renderRunning(w io.Writer, s models.RunningStatus) {
	v := format.Running(s)

	fmt.Fprintln(w, v.Title)
	if v.Cancelled != "" {
		fmt.Fprintln(w, v.Cancelled)
	}
	for _, line := range [][2]string{
		{"Currently at", v.CurrentlyAt},
		{"Last halt", v.LastHalt},
		{"Upcoming", v.Upcoming},
		{"Status", v.Status},
		{"Total delay", v.TotalDelay},
		{"Updated", v.Updated},
	} {
		if line[1] != "" {
			fmt.Fprintf(w, "%s: %s\n", line[0], line[1])
		}
	}

	if len(s.Stations) == 0 {
		return
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "\tSTATION\tCODE\tSCH ARR\tARR\tSCH DEP\tDEP\tDELAY\tKM")
	for _, st := range s.Stations {
		mark := ""
		if st.CurrentlyAt {
			mark = ">"
		}
		delay := st.DepartureDelayMins
		if delay == nil {
			delay = st.ArrivalDelayMins
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			mark, st.StationName, st.StationCode,
			dash(st.ScheduledArrival), dash(st.ActualArrival),
			dash(st.ScheduledDeparture), dash(st.ActualDeparture),
			format.OptionalDelay(delay), format.Distance(st.DistanceFromOrigin))
	}
	_ = tw.Flush()
}

func platform(pf string) string {
	if pf == "" {
		return ""
	}
	if _, err := strconv.Atoi(pf); err == nil {
		return "  PF " + pf
	}
	return "  " + pf
}

func dash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
