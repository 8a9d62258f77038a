package plex

import "errors"

var (
	ErrUnauthorized = errors.New("plex: unauthorized")
	ErrNotFound     = errors.New("plex: not found")
	ErrRateLimited  = errors.New("plex: rate limited")
	ErrTemporary    = errors.New("plex: temporary failure")
	ErrStatus       = errors.New("plex: unexpected status")
	ErrOffline      = errors.New("plex: offline")
	ErrEmptyBody    = errors.New("plex: empty response")
	ErrNoServer     = errors.New("plex: no server discovered")
)

func IsUnauthorized(err error) bool { return errors.Is(err, ErrUnauthorized) }
func IsNotFound(err error) bool     { return errors.Is(err, ErrNotFound) }
func IsRateLimited(err error) bool  { return errors.Is(err, ErrRateLimited) }
func IsTemporary(err error) bool    { return errors.Is(err, ErrTemporary) }
func IsOffline(err error) bool      { return errors.Is(err, ErrOffline) }
