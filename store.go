package wlmonitors

import "reflect"

// store holds the committed monitor state: the snapshots last exposed to the
// application, plus per-head last-mode memory. Like the registry it is only
// touched from the manager's run loop.
type store struct {
	monitors map[uint32]Monitor
	order    []uint32

	// lastMode remembers the mode a head was using before it was
	// disabled, keyed by head ID. Kept outside the Monitor value so
	// carrying it forward never shows up as a state change.
	lastMode map[uint32]uint32
}

func newStore() *store {
	return &store{
		monitors: make(map[uint32]Monitor),
		lastMode: make(map[uint32]uint32),
	}
}

// apply merges the given snapshots into the committed state and returns the
// monitors that are new or observably different, in snapshot order. Known
// monitors absent from the snapshot are left untouched: forgetting one is
// remove's job, never apply's.
func (s *store) apply(snapshot []Monitor) []Monitor {
	var changed []Monitor
	for _, mon := range snapshot {
		prev, known := s.monitors[mon.ID]
		if !known {
			s.order = append(s.order, mon.ID)
		}
		if !known || !reflect.DeepEqual(prev, mon) {
			s.monitors[mon.ID] = mon
			changed = append(changed, mon)
		}
	}
	return changed
}

// remove forgets a monitor and its last-mode memory. The removed snapshot is
// returned so the caller can name it in the removal notification.
func (s *store) remove(id uint32) (Monitor, bool) {
	mon, ok := s.monitors[id]
	if !ok {
		return Monitor{}, false
	}
	delete(s.monitors, id)
	delete(s.lastMode, id)
	for i, o := range s.order {
		if o == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return mon, true
}

// byName finds a monitor by connector name. Linear scan; monitor counts are
// tiny.
func (s *store) byName(name string) (Monitor, bool) {
	for _, id := range s.order {
		if m := s.monitors[id]; m.Name == name {
			return m, true
		}
	}
	return Monitor{}, false
}

// recordLastMode saves the monitor's current mode so a later enable can
// restore it. No-op when the monitor has no current mode.
func (s *store) recordLastMode(mon Monitor) {
	if mon.CurrentMode != 0 {
		s.lastMode[mon.ID] = mon.CurrentMode
	}
}

func (s *store) lastModeFor(id uint32) (uint32, bool) {
	m, ok := s.lastMode[id]
	return m, ok
}

// snapshot returns the committed monitors in announcement order.
func (s *store) snapshot() []Monitor {
	out := make([]Monitor, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.monitors[id])
	}
	return out
}
