package report

import (
	"errors"

	"clubledger/internal/core"
)

var (
	// ErrInvalidScope signals a ledger record whose season/team attribution is
	// inconsistent, e.g. a team-scoped expense filed under a different season
	// than the team belongs to. Aliases the core sentinel so storage-level
	// scope rejections and report-level ones match the same errors.Is check.
	ErrInvalidScope = core.ErrInvalidScope

	// ErrUpstreamUnavailable signals that a ledger store read failed. Failures
	// surface unchanged; a summary is never silently replaced with zeros.
	ErrUpstreamUnavailable = errors.New("ledger store unavailable")
)
