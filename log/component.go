// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package log

import "github.com/luxfi/log"

// Component returns a child logger tagged with the given subsystem name,
// the geth-style `logger.With(...)` idiom every component in this module
// uses to get its own named logger off a shared root (node.New calls this
// once each for the dagmgr, proposer and pbft subsystems).
func Component(base log.Logger, name string) log.Logger {
	return base.With("component", name)
}
