package config

import (
	"fmt"
	"net/url"
)

// validHashTypes lists the accepted token hash type strings.
var validHashTypes = map[string]bool{
	"data":  true,
	"type":  true,
	"data1": true,
}

// ValidateConfig checks that all configuration values are within
// acceptable ranges and returns the first error encountered, or nil if
// valid. The token identity fields are only validated when a token code
// hash is configured; a capacity-only deployment may leave them empty.
func ValidateConfig(cfg Config) error {
	if cfg.RPCURL == "" {
		return ErrEmptyRPCURL
	}
	if _, err := url.ParseRequestURI(cfg.RPCURL); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidRPCURL, err)
	}
	if cfg.Network == "" {
		return ErrEmptyNetwork
	}
	if cfg.DustThreshold == 0 {
		return ErrInvalidDustThreshold
	}
	if cfg.TokenCodeHash != "" {
		if cfg.TokenCellCapacity < cfg.DustThreshold {
			return ErrInvalidTokenCapacity
		}
		if !validHashTypes[cfg.TokenHashType] {
			return fmt.Errorf("%w: hash type %q", ErrInvalidTokenScript, cfg.TokenHashType)
		}
		if _, err := cfg.TokenScript(); err != nil {
			return err
		}
	}
	return nil
}
