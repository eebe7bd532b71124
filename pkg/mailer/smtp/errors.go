package smtp

import "errors"

var (
	ErrInvalidConfig    = errors.New("smtp: invalid configuration")
	ErrRelayUnreachable = errors.New("smtp: relay unreachable")
	ErrBuildMessage     = errors.New("smtp: failed to build message")
	ErrDelivery         = errors.New("smtp: delivery failed")
)
