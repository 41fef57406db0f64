package component

import "errors"

// ErrInvalidComponent is returned for structural construction errors, such as
// a dependency without source or target, or an identity that cannot be parsed.
var ErrInvalidComponent = errors.New("invalid component")

// ErrFrozen is returned when the edges of a component are modified after the
// graph containing it was constructed.
var ErrFrozen = errors.New("component is part of a constructed graph and cannot be modified")
