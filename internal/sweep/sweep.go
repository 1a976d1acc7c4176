// Package sweep prunes files that earlier runs left behind, such as the IPC sockets
// of mpv instances that were killed before they could clean up.
package sweep

import (
	"os"
	"time"

	"github.com/eventcast/eventcast/filesystem"
	"github.com/eventcast/eventcast/log"
	"github.com/eventcast/eventcast/where"
)

// TTL is how old a leftover file must be before it is removed. A running instance
// never keeps a socket this long without touching it.
const TTL = 24 * time.Hour

// CollectGarbage removes stale files from the transient directory.
func CollectGarbage() {
	removed, err := Stale(where.Temp(), TTL, time.Now())
	if err != nil {
		log.WithFields(log.Fields{"dir": where.Temp()}).WithError(err).Warn("sweep stale files")
		return
	}

	if removed > 0 {
		log.Infof("removed %d stale files", removed)
	}
}

// Stale deletes every regular file under dir last modified more than ttl before now.
func Stale(dir string, ttl time.Duration, now time.Time) (removed int, err error) {
	fs := filesystem.API()

	err = fs.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil || info.IsDir() {
			return nil
		}

		if now.Sub(info.ModTime()) <= ttl {
			return nil
		}

		if err := fs.Remove(path); err == nil {
			removed++
		}
		return nil
	})

	return removed, err
}
