//go:build !linux
// +build !linux

package fuseview

import (
	"fmt"

	"github.com/sscafiti/corescan/internal/orchestrator"
	"github.com/sscafiti/corescan/internal/source"
)

// Mount is unsupported outside Linux; bazil.org/fuse's kernel driver
// integration is only wired up here for the platform the rest of this
// project targets.
func Mount(mountpoint string, src source.ByteSource, result orchestrator.Result, maxCarveSize uint64) error {
	return fmt.Errorf("fuseview: mount is only supported on Linux")
}
