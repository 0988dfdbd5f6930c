package engine

import (
	"strings"

	"github.com/punchline/attendance/internal/model"
)

// ResolveDirection maps a punch to its logical direction. Manual
// punches carry an explicit direction; device punches resolve through the
// device's configured direction-of-use, looked up in the run's device
// cache (never a live query per punch).
func ResolveDirection(punch model.Punch, caches *Caches) (model.Direction, error) {
	if punch.Source == model.PunchSourceManual {
		return normalizeDirection(string(punch.DirectionHint))
	}

	key := deviceIdentity{shortname: punch.DeviceShortname, serial: punch.DeviceSerial}
	dir, ok := caches.DeviceConfigs[key]
	if !ok {
		return "", ErrDeviceUnconfigured
	}
	return normalizeDirection(string(dir))
}

type deviceIdentity struct {
	shortname string
	serial string
}

func normalizeDirection(raw string) (model.Direction, error) {
	switch model.Direction(strings.ToLower(strings.TrimSpace(raw))) {
	case model.DirectionIn:
		return model.DirectionIn, nil
	case model.DirectionOut:
		return model.DirectionOut, nil
	case model.DirectionBoth:
		return model.DirectionBoth, nil
	default:
		return "", ErrDirectionUndetermined
	}
}
