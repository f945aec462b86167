// Package modkit provides module wiring and core deps
package modkit

import (
	"whatsnew/internal/platform/config"
	"whatsnew/internal/platform/logger"
)

// Deps holds core dependencies passed to modules
// this is wiring only and does not introduce new abstractions
type Deps struct {
	Log logger.Logger
	Cfg config.Conf
}

// ZeroOK returns true when deps are safe to use with zero values in tests
// consumers should still nil check optional collaborators received via ports
func (d Deps) ZeroOK() bool { return true }
