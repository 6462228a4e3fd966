package config

import "errors"

var (
	ErrInvalid = errors.New("invalid config")
	ErrLoad    = errors.New("load config failed")
)
