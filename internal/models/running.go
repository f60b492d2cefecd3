package models

import "strings"

type RunningStatus struct {
	TrainNumber string `json:"trainNumber"`
	TrainName   string `json:"trainName"`

	CurrentlyAt         string `json:"currentlyAt,omitempty"`
	CurrentlyAtCode     string `json:"currentlyAtCode,omitempty"`
	LastHaltStation     string `json:"lastHaltStation,omitempty"`
	LastHaltStationCode string `json:"lastHaltStationCode,omitempty"`
	UpcomingStation     string `json:"upcomingStation,omitempty"`
	UpcomingStationCode string `json:"upcomingStationCode,omitempty"`

	TotalLateMins *int               `json:"totalLateMins,omitempty"`
	Status        *RunningStatusInfo `json:"runningStatus,omitempty"`

	LastUpdated     string `json:"ltsLastUpdated,omitempty"`
	LastUpdatedTime string `json:"ltsLastUpdatedTime,omitempty"`

	CancelledFrom string `json:"cancelledFrom,omitempty"`
	CancelledTo   string `json:"cancelledTo,omitempty"`

	Stations []StationHalt `json:"stations"`
}

type RunningStatusInfo struct {
	Header  string `json:"header,omitempty"`
	Status  string `json:"status,omitempty"`
	Message string `json:"runningStatusMessage,omitempty"`
}

// StationHalt is one row of the itinerary. Times are kept as the upstream text.
type StationHalt struct {
	StationName        string   `json:"stationName"`
	StationCode        string   `json:"stationCode"`
	DistanceFromOrigin *float64 `json:"distanceFromOrigin,omitempty"`

	ScheduledArrival   string `json:"scheduledArrivalTime,omitempty"`
	ActualArrival      string `json:"arrivalTime,omitempty"`
	ScheduledDeparture string `json:"scheduledDepartureTime,omitempty"`
	ActualDeparture    string `json:"departureTime,omitempty"`

	ArrivalDelayMins   *int `json:"delayArr,omitempty"`
	DepartureDelayMins *int `json:"delayDep,omitempty"`

	CurrentlyAt bool `json:"isCurrentlyAt"`
}

func (s RunningStatus) Cancelled() bool {
	return s.CancelledFrom != "" && s.CancelledTo != ""
}

// CurrentStation returns the halt flagged as the train's current position.
func (s RunningStatus) CurrentStation() (StationHalt, bool) {
	for _, st := range s.Stations {
		if st.CurrentlyAt {
			return st, true
		}
	}
	return StationHalt{}, false
}

// Normalized trims text fields, drops an all-empty running-status block and
// guarantees a non-nil station slice. It is idempotent.
func (s RunningStatus) Normalized() RunningStatus {
	out := RunningStatus{
		TrainNumber:         strings.TrimSpace(s.TrainNumber),
		TrainName:           strings.TrimSpace(s.TrainName),
		CurrentlyAt:         strings.TrimSpace(s.CurrentlyAt),
		CurrentlyAtCode:     strings.TrimSpace(s.CurrentlyAtCode),
		LastHaltStation:     strings.TrimSpace(s.LastHaltStation),
		LastHaltStationCode: strings.TrimSpace(s.LastHaltStationCode),
		UpcomingStation:     strings.TrimSpace(s.UpcomingStation),
		UpcomingStationCode: strings.TrimSpace(s.UpcomingStationCode),
		TotalLateMins:       copyInt(s.TotalLateMins),
		LastUpdated:         strings.TrimSpace(s.LastUpdated),
		LastUpdatedTime:     strings.TrimSpace(s.LastUpdatedTime),
		CancelledFrom:       strings.TrimSpace(s.CancelledFrom),
		CancelledTo:         strings.TrimSpace(s.CancelledTo),
	}
	if s.Status != nil {
		info := RunningStatusInfo{
			Header:  strings.TrimSpace(s.Status.Header),
			Status:  strings.TrimSpace(s.Status.Status),
			Message: strings.TrimSpace(s.Status.Message),
		}
		if info != (RunningStatusInfo{}) {
			out.Status = &info
		}
	}

	out.Stations = make([]StationHalt, 0, len(s.Stations))
	for _, st := range s.Stations {
		out.Stations = append(out.Stations, StationHalt{
			StationName:        strings.TrimSpace(st.StationName),
			StationCode:        strings.TrimSpace(st.StationCode),
			DistanceFromOrigin: copyFloat(st.DistanceFromOrigin),
			ScheduledArrival:   strings.TrimSpace(st.ScheduledArrival),
			ActualArrival:      strings.TrimSpace(st.ActualArrival),
			ScheduledDeparture: strings.TrimSpace(st.ScheduledDeparture),
			ActualDeparture:    strings.TrimSpace(st.ActualDeparture),
			ArrivalDelayMins:   copyInt(st.ArrivalDelayMins),
			DepartureDelayMins: copyInt(st.DepartureDelayMins),
			CurrentlyAt:        st.CurrentlyAt,
		})
	}
	return out
}

func copyInt(v *int) *int {
	if v == nil {
		return nil
	}
	n := *v
	return &n
}

func copyFloat(v *float64) *float64 {
	if v == nil {
		return nil
	}
	n := *v
	return &n
}
