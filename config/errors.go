package config

import "errors"

var (
	ErrUnknownClient   = errors.New("unknown client")
	ErrEmptyInput      = errors.New("input is empty")
	ErrEmptyOutput     = errors.New("output is empty")
	ErrNoPlugins       = errors.New("no plugins")
	ErrEmptyPlugin     = errors.New("empty plugin identifier")
	ErrDuplicatePlugin = errors.New("duplicate plugin")
	ErrSchema          = errors.New("does not match the configuration schema")
	ErrUnresolvable    = errors.New("input cannot be resolved")
	ErrUnwritable      = errors.New("output is not a writable directory")
)
