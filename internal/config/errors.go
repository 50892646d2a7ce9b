package config

import "errors"

var (
	// ErrParsingConfig is returned when environment variables cannot be parsed
	// into the config struct.
	ErrParsingConfig = errors.New("failed to parse environment variables into config")

	// ErrEnvFile is returned when a requested .env file can't be read.
	ErrEnvFile = errors.New("failed to read env file")

	// ErrPolicyFile is returned when the policy file can't be read or decoded.
	ErrPolicyFile = errors.New("failed to load policy file")
)
