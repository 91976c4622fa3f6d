package plan

import "errors"

// Build-time sentinel errors. All of them leave the plan unchanged: the
// plan builder never partially applies an operation that ends up failing.
var (
	ErrNotCallable       = errors.New("plan: fn is not callable")
	ErrSignatureMismatch = errors.New("plan: arguments do not bind to fn's signature")
	ErrLitOfNode         = errors.New("plan: lit() cannot wrap an existing node")
	ErrInvalidUnpackLen  = errors.New("plan: unpack length must be a non-negative integer")
	ErrScopeOutOfOrder   = errors.New("plan: scope exited out of stack order")
	ErrCrossPlanRef      = errors.New("plan: node reference belongs to a different plan")
	ErrUnknownContainer  = errors.New("plan: gather only supports sequence/tuple/set/mapping")
)
