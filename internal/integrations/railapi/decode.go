package railapi

import (
	"bytes"
	"encoding/json"

	"github.com/BearBump/RailStatus/internal/models"
	"github.com/pkg/errors"
)

var errUnexpectedShape = errors.New("unexpected body shape: want a JSON object")

type pnrEnvelope struct {
	ErrorCode   envelopeCode `json:"errorcode"`
	ErrorMsg    flexString   `json:"errormsg"`
	DetailedMsg flexString   `json:"detailedmsg"`
}

type wirePassenger struct {
	Name               flexString `json:"name"`
	CurrentStatus      flexString `json:"currentStatus"`
	CurrentSeatDetails flexString `json:"currentSeatDetails"`
	ConfirmProb        flexFloat  `json:"confirmProb"`
	BerthType          flexString `json:"berthType"`
}

type wirePNR struct {
	PNRNo       flexString `json:"pnrNo"`
	TrainNumber flexString `json:"trainNumber"`
	TrainName   flexString `json:"trainName"`

	SrcName flexString `json:"srcName"`
	SrcCode flexString `json:"srcCode"`
	SrcPfNo flexString `json:"srcPfNo"`
	DstName flexString `json:"dstName"`
	DstCode flexString `json:"dstCode"`
	DstPfNo flexString `json:"dstPfNo"`

	DepartureTime models.Timestamp `json:"departureTime"`
	ArrivalTime   models.Timestamp `json:"arrivalTime"`
	Duration      flexInt          `json:"duration"`

	ChartStatus    flexString `json:"chartStatus"`
	ChartPrepMsg   flexString `json:"chartPrepMsg"`
	OverallStatus  flexString `json:"overallStatus"`
	PNRLastUpdated flexString `json:"pnrLastUpdated"`

	Passengers []wirePassenger `json:"passengers"`
}

type wireRunningInfo struct {
	Header               flexString `json:"header"`
	Status               flexString `json:"status"`
	RunningStatusMessage flexString `json:"runningStatusMessage"`
}

// Some responses send runningStatus as a bare string.
func (w *wireRunningInfo) UnmarshalJSON(b []byte) error {
	t := bytes.TrimSpace(b)
	if len(t) > 0 && t[0] == '{' {
		type plain wireRunningInfo
		var p plain
		if err := json.Unmarshal(t, &p); err != nil {
			return err
		}
		*w = wireRunningInfo(p)
		return nil
	}
	var s flexString
	if err := s.UnmarshalJSON(t); err != nil {
		return err
	}
	*w = wireRunningInfo{Status: s}
	return nil
}

type wireStation struct {
	StationName            flexString `json:"stationName"`
	StationCode            flexString `json:"stationCode"`
	DistanceFromOrigin     flexFloat  `json:"distanceFromOrigin"`
	ScheduledArrivalTime   flexString `json:"scheduledArrivalTime"`
	ArrivalTime            flexString `json:"arrivalTime"`
	ScheduledDepartureTime flexString `json:"scheduledDepartureTime"`
	DepartureTime          flexString `json:"departureTime"`
	DelayArr               flexInt    `json:"delayArr"`
	DelayDep               flexInt    `json:"delayDep"`
	IsCurrentlyAt          flexBool   `json:"isCurrentlyAt"`
}

type wireRunning struct {
	TrainNumber flexString `json:"trainNumber"`
	TrainName   flexString `json:"trainName"`

	CurrentlyAt         flexString `json:"currentlyAt"`
	CurrentlyAtCode     flexString `json:"currentlyAtCode"`
	LastHaltStation     flexString `json:"lastHaltStation"`
	LastHaltStationCode flexString `json:"lastHaltStationCode"`
	UpcomingStation     flexString `json:"upcomingStation"`
	UpcomingStationCode flexString `json:"upcomingStationCode"`

	TotalLateMins flexInt          `json:"totalLateMins"`
	RunningStatus *wireRunningInfo `json:"runningStatus"`

	LtsLastUpdated     flexString `json:"ltsLastUpdated"`
	LtsLastUpdatedTime flexString `json:"ltsLastUpdatedTime"`

	CancelledFrom flexString `json:"cancelledFrom"`
	CancelledTo   flexString `json:"cancelledTo"`

	Stations []wireStation `json:"stations"`
}

func decodeObject(body []byte, v any) error {
	t := bytes.TrimSpace(body)
	if len(t) == 0 || t[0] != '{' {
		return errUnexpectedShape
	}
	return errors.Wrap(json.Unmarshal(t, v), "decode body")
}

// PNREnvelopeError reports the application-level error embedded in a PNR body.
// It returns nil when the body carries no recognized error code; unknown codes
// are not treated as failures.
func PNREnvelopeError(body []byte) (*models.LookupError, error) {
	var env pnrEnvelope
	if err := decodeObject(body, &env); err != nil {
		return nil, err
	}

	code := models.UpstreamCode(env.ErrorCode.String())
	var msg string
	switch code {
	case models.UpstreamCode712:
		msg = firstNonEmpty(env.DetailedMsg.String(), env.ErrorMsg.String())
	case models.UpstreamCode1007:
		msg = firstNonEmpty(env.ErrorMsg.String(), env.DetailedMsg.String())
	default:
		return nil, nil
	}
	return &models.LookupError{Kind: models.ErrKindUpstreamError, Code: code, Message: msg}, nil
}

// DecodePNR decodes and normalizes a PNR journey body.
func DecodePNR(body []byte) (models.PNRStatus, error) {
	var w wirePNR
	if err := decodeObject(body, &w); err != nil {
		return models.PNRStatus{}, err
	}

	p := models.PNRStatus{
		PNRNo:           w.PNRNo.String(),
		TrainNumber:     w.TrainNumber.String(),
		TrainName:       w.TrainName.String(),
		SrcName:         w.SrcName.String(),
		SrcCode:         w.SrcCode.String(),
		SrcPlatform:     w.SrcPfNo.String(),
		DstName:         w.DstName.String(),
		DstCode:         w.DstCode.String(),
		DstPlatform:     w.DstPfNo.String(),
		DepartureTime:   w.DepartureTime,
		ArrivalTime:     w.ArrivalTime,
		DurationMinutes: w.Duration.v,
		ChartStatus:     w.ChartStatus.String(),
		ChartPrepMsg:    w.ChartPrepMsg.String(),
		OverallStatus:   w.OverallStatus.String(),
		LastUpdated:     w.PNRLastUpdated.String(),
		Passengers:      make([]models.Passenger, 0, len(w.Passengers)),
	}
	for _, wp := range w.Passengers {
		p.Passengers = append(p.Passengers, models.Passenger{
			Name:               wp.Name.String(),
			CurrentStatus:      wp.CurrentStatus.String(),
			SeatDetails:        wp.CurrentSeatDetails.String(),
			ConfirmProbability: wp.ConfirmProb.v,
			BerthType:          wp.BerthType.String(),
		})
	}
	return p.Normalized(), nil
}

// DecodeRunning decodes and normalizes a running-status body. The endpoint has
// no error envelope, so any object is data.
func DecodeRunning(body []byte) (models.RunningStatus, error) {
	var w wireRunning
	if err := decodeObject(body, &w); err != nil {
		return models.RunningStatus{}, err
	}

	s := models.RunningStatus{
		TrainNumber:         w.TrainNumber.String(),
		TrainName:           w.TrainName.String(),
		CurrentlyAt:         w.CurrentlyAt.String(),
		CurrentlyAtCode:     w.CurrentlyAtCode.String(),
		LastHaltStation:     w.LastHaltStation.String(),
		LastHaltStationCode: w.LastHaltStationCode.String(),
		UpcomingStation:     w.UpcomingStation.String(),
		UpcomingStationCode: w.UpcomingStationCode.String(),
		TotalLateMins:       w.TotalLateMins.v,
		LastUpdated:         w.LtsLastUpdated.String(),
		LastUpdatedTime:     w.LtsLastUpdatedTime.String(),
		CancelledFrom:       w.CancelledFrom.String(),
		CancelledTo:         w.CancelledTo.String(),
		Stations:            make([]models.StationHalt, 0, len(w.Stations)),
	}
	if w.RunningStatus != nil {
		s.Status = &models.RunningStatusInfo{
			Header:  w.RunningStatus.Header.String(),
			Status:  w.RunningStatus.Status.String(),
			Message: w.RunningStatus.RunningStatusMessage.String(),
		}
	}
	for _, ws := range w.Stations {
		s.Stations = append(s.Stations, models.StationHalt{
			StationName:        ws.StationName.String(),
			StationCode:        ws.StationCode.String(),
			DistanceFromOrigin: ws.DistanceFromOrigin.v,
			ScheduledArrival:   ws.ScheduledArrivalTime.String(),
			ActualArrival:      ws.ArrivalTime.String(),
			ScheduledDeparture: ws.ScheduledDepartureTime.String(),
			ActualDeparture:    ws.DepartureTime.String(),
			ArrivalDelayMins:   ws.DelayArr.v,
			DepartureDelayMins: ws.DelayDep.v,
			CurrentlyAt:        bool(ws.IsCurrentlyAt),
		})
	}
	return s.Normalized(), nil
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
