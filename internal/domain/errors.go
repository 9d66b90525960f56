package domain

import "errors"

var (
	ErrNoRoute             = errors.New("no route found")
	ErrLocationUnsupported = errors.New("geolocation is not supported")
	ErrLocationUnavailable = errors.New("unable to retrieve location")
	ErrMissingStart        = errors.New("start location not selected")
	ErrMissingEnd          = errors.New("destination location not selected")
	ErrUnknownMode         = errors.New("unknown travel mode")
	ErrUnknownRole         = errors.New("unknown search role")
)
