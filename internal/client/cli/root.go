package cli

import "fmt"

func (a *App) getStatus() string {
	snap := a.sessions.Snapshot()

	if !snap.Hydrated {
		return "(loading)"
	}
	if !snap.Authenticated {
		return ""
	}

	s := snap.Identity.DisplayName()
	if s != "" {
		s += " "
	}
	return fmt.Sprintf("(%s%s)", s, snap.Role)
}
