package railapi

import (
	"strings"

	"github.com/BearBump/RailStatus/internal/models"
	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
)

var validate = validator.New()

// NewQuery trims the identifier and checks the only precondition a lookup has:
// the identifier must be non-empty. No length or digit checks are made.
// A nil *models.LookupError with a non-nil error means the kind itself is unsupported.
func NewQuery(query string, kind models.LookupKind) (models.LookupQuery, *models.LookupError, error) {
	q := models.LookupQuery{Identifier: strings.TrimSpace(query), Kind: kind}
	if !kind.Valid() {
		return q, nil, errors.Errorf("unsupported lookup kind %q", kind)
	}
	if err := validate.Struct(q); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			for _, fe := range verrs {
				if fe.Field() == "Identifier" {
					return q, &models.LookupError{Kind: models.ErrKindEmptyQuery, Message: MsgEmptyQuery}, nil
				}
			}
		}
		return q, nil, errors.Wrap(err, "validate query")
	}
	return q, nil, nil
}
