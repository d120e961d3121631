package validation

import "errors"

var (
	errMissingPropertyID  = errors.New("missing property id")
	errMissingProvider    = errors.New("missing provider")
	errStaleRecord        = errors.New("record older than max age")
	errListedWithoutPrice = errors.New("listed property has no positive list price")
)
