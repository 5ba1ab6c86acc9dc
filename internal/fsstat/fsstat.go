// Package fsstat reads OS-reported creation and modification times of files.
package fsstat

import (
	"os"
	"time"

	"dossiers/pkg/models"
)

// Times are the OS-reported timestamps of one file. Either may be absent:
// the file may not exist, or the platform may not record creation times.
type Times struct {
	Created  models.OptionalTimestamp
	Modified models.OptionalTimestamp
}

// Stater reports file times
type Stater interface {
	Stat(path string) Times
}

// OS reads times from the local file system
type OS struct{}

var _ Stater = OS{}

// Stat returns the times of path. It never fails; missing data is None.
func (OS) Stat(path string) Times {
	info, err := os.Stat(path)
	if err != nil {
		return Times{}
	}

	return Times{
		Created:  birthTime(path),
		Modified: fromTime(info.ModTime()),
	}
}

// Stat is OS{}.Stat
func Stat(path string) Times {
	return OS{}.Stat(path)
}

// fromTime converts a wall-clock time, treating times before the epoch as absent
func fromTime(t time.Time) models.OptionalTimestamp {
	if t.IsZero() || t.Before(time.Unix(0, 0)) {
		return models.None
	}
	return models.Some(models.TimestampFromTime(t))
}

// Fixed is a Stater backed by a map, for callers that already know the times
type Fixed map[string]Times

// Stat returns the recorded times for path
func (f Fixed) Stat(path string) Times {
	return f[path]
}
