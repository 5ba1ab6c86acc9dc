//go:build linux

package fsstat

import (
	"time"

	"golang.org/x/sys/unix"

	"dossiers/pkg/models"
)

// birthTime asks statx for the creation time, which only some file systems record
func birthTime(path string) models.OptionalTimestamp {
	var stx unix.Statx_t
	err := unix.Statx(unix.AT_FDCWD, path, unix.AT_STATX_SYNC_AS_STAT, unix.STATX_BTIME, &stx)
	if err != nil || stx.Mask&unix.STATX_BTIME == 0 {
		return models.None
	}
	return fromTime(time.Unix(stx.Btime.Sec, int64(stx.Btime.Nsec)))
}
