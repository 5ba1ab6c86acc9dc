//go:build darwin

package fsstat

import (
	"time"

	"golang.org/x/sys/unix"

	"dossiers/pkg/models"
)

func birthTime(path string) models.OptionalTimestamp {
	var st unix.Stat_t
	if err := unix.Stat(path, &st); err != nil {
		return models.None
	}
	return fromTime(time.Unix(st.Btim.Sec, st.Btim.Nsec))
}
