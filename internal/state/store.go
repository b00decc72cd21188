package state

import (
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/five82/gantry/internal/pharos"
)

// Lists holds one full fetch of the controller's entities. Personalities
// fill only the lists they support; the rest stay nil.
type Lists struct {
	Timelines []pharos.Timeline
	Groups    []pharos.Group
	Scenes    []pharos.Scene
	Triggers  []pharos.Trigger
	Spaces    []pharos.Space
}

// Snapshot represents the latest data available to the UI.
type Snapshot struct {
	Lists
	HasData             bool
	LastUpdated         time.Time
	LastError           error
	ConsecutiveFailures int
}

// IsOffline returns true when the controller has been unreachable for multiple refreshes.
func (s Snapshot) IsOffline() bool {
	return s.ConsecutiveFailures >= 2
}

// Store coordinates concurrent updates to the snapshot.
type Store struct {
	mu       sync.RWMutex
	snapshot Snapshot
}

// Update replaces the stored lists. When err is non-nil the previous data is
// kept but the error is recorded for visibility.
func (s *Store) Update(lists *Lists, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.snapshot.LastUpdated = time.Now()
	if err != nil {
		s.snapshot.LastError = err
		s.snapshot.ConsecutiveFailures++
		return
	}

	if lists != nil {
		s.snapshot.Lists = cloneLists(*lists)
		s.snapshot.HasData = true
	} else {
		s.snapshot.Lists = Lists{}
		s.snapshot.HasData = false
	}
	s.snapshot.LastError = nil
	s.snapshot.ConsecutiveFailures = 0
}

// Snapshot returns a copy of the current snapshot.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := s.snapshot
	snap.Lists = cloneLists(s.snapshot.Lists)
	if s.snapshot.LastError != nil {
		snap.LastError = fmt.Errorf("%w", s.snapshot.LastError)
	}
	return snap
}

func cloneLists(l Lists) Lists {
	out := Lists{
		Timelines: slices.Clone(l.Timelines),
		Groups:    slices.Clone(l.Groups),
		Scenes:    slices.Clone(l.Scenes),
		Triggers:  make([]pharos.Trigger, len(l.Triggers)),
		Spaces:    make([]pharos.Space, len(l.Spaces)),
	}
	for i, tr := range l.Triggers {
		tr.Conditions = slices.Clone(tr.Conditions)
		tr.Actions = slices.Clone(tr.Actions)
		out.Triggers[i] = tr
	}
	for i, sp := range l.Spaces {
		sp.ChildScenes = slices.Clone(sp.ChildScenes)
		sp.ChildSpaces = slices.Clone(sp.ChildSpaces)
		out.Spaces[i] = sp
	}
	if l.Triggers == nil {
		out.Triggers = nil
	}
	if l.Spaces == nil {
		out.Spaces = nil
	}
	return out
}
