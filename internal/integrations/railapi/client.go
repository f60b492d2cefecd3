package railapi

import (
	"context"

	"github.com/BearBump/RailStatus/internal/models"
)

// Client looks up one identifier against the upstream status API.
// Every outcome, including failures, is reported through the returned result.
type Client interface {
	Lookup(ctx context.Context, query string, kind models.LookupKind) models.StatusResult
}

// User-facing messages. Transport failures never expose the underlying cause.
const (
	MsgEmptyQuery              = "identifier required"
	MsgPNRTransportFailure     = "Failed to fetch PNR status. Please try again later."
	MsgRunningTransportFailure = "Failed to fetch data. Please check the train number and try again."
)

func TransportFailure(kind models.LookupKind, query string) models.StatusResult {
	msg := MsgRunningTransportFailure
	if kind == models.LookupKindPNR {
		msg = MsgPNRTransportFailure
	}
	return models.Failed(kind, query, models.LookupError{
		Kind:    models.ErrKindTransportFailure,
		Message: msg,
	})
}

func EmptyQuery(kind models.LookupKind) models.StatusResult {
	return models.Failed(kind, "", models.LookupError{
		Kind:    models.ErrKindEmptyQuery,
		Message: MsgEmptyQuery,
	})
}
