package config

import "errors"

var (
	// ErrEmptyRPCURL indicates no node endpoint is configured.
	ErrEmptyRPCURL = errors.New("config: RPC URL must not be empty")

	// ErrInvalidRPCURL indicates the node endpoint is not a valid URL.
	ErrInvalidRPCURL = errors.New("config: invalid RPC URL")

	// ErrEmptyNetwork indicates the network name is missing.
	ErrEmptyNetwork = errors.New("config: network must not be empty")

	// ErrInvalidDustThreshold indicates the dust threshold is zero.
	ErrInvalidDustThreshold = errors.New("config: dust threshold must be positive")

	// ErrInvalidTokenCapacity indicates the token cell capacity floor is
	// below the dust threshold.
	ErrInvalidTokenCapacity = errors.New("config: token cell capacity below dust threshold")

	// ErrInvalidTokenScript indicates the token script identity fields are
	// malformed.
	ErrInvalidTokenScript = errors.New("config: invalid token script")

	// ErrConfigNotFound indicates the configuration file does not exist.
	ErrConfigNotFound = errors.New("config: configuration file not found")

	// ErrInvalidConfigLine indicates a line in the config file is malformed.
	ErrInvalidConfigLine = errors.New("config: invalid configuration line")
)
