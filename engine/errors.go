package engine

import "errors"

var (
	errNotReady        = errors.New("engine not ready: no program loaded")
	errAtEnd           = errors.New("step-forward: already at end of program")
	errNoHistory       = errors.New("step-backward: no previous instruction recorded")
	errCallStackEmpty  = errors.New("RETURN encountered with an empty call stack")
	errCallStackBounds = errors.New("call stack underflow while stepping backward")
)
