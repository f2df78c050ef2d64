package resultpush

import "roundhouse/internal/events"

func matchTargets(targets []PushTarget, ev events.Event) []PushTarget {
	var out []PushTarget
	for _, target := range targets {
		if !target.Enabled {
			continue
		}
		if target.RoomID != "" && target.RoomID != ev.RoomID {
			continue
		}
		if !eventAllowed(target.Events, ev.Event) {
			continue
		}
		out = append(out, target)
	}
	return out
}

func eventAllowed(allowlist []string, kind string) bool {
	if len(allowlist) == 0 {
		return kind == events.RoundSettled
	}
	for _, v := range allowlist {
		if v == kind {
			return true
		}
	}
	return false
}
