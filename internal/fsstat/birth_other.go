//go:build !linux && !darwin

package fsstat

import "dossiers/pkg/models"

// birthTime is unavailable here; callers fall back to the modification time
func birthTime(string) models.OptionalTimestamp {
	return models.None
}
