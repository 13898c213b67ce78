package bill

import "errors"

var (
	ErrMissingTable       = errors.New("input table is missing")
	ErrInvalidPremiumType = errors.New("premium type must be \"above\" or \"below\"")
	ErrInvalidPremium     = errors.New("premium percent must be a non-negative finite number")
	ErrInvalidLayout      = errors.New("invalid sheet layout")
)
