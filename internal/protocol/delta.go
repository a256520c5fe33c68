package protocol

import "sort"

// Diff computes the change-set that transforms prev into cur. A nil prev is
// treated as an empty snapshot, so every current object comes out as created.
//
// The result's lists are sorted by id: for fixed inputs the output is fixed,
// which keeps encoded frames byte-stable across runs.
func Diff(prev, cur *Snapshot) ChangeSet {
	var cs ChangeSet

	var prevObjects map[ObjectID]ObjectState
	if prev != nil {
		prevObjects = prev.Objects
	}

	for id, state := range cur.Objects {
		old, ok := prevObjects[id]
		switch {
		case !ok:
			cs.Created = append(cs.Created, ObjectEntry{ID: id, State: state})
		case !old.Equal(state):
			cs.Updated = append(cs.Updated, ObjectEntry{ID: id, State: state})
		}
	}
	for id := range prevObjects {
		if _, ok := cur.Objects[id]; !ok {
			cs.Removed = append(cs.Removed, id)
		}
	}

	sortEntries(cs.Created)
	sortEntries(cs.Updated)
	sort.Slice(cs.Removed, func(i, j int) bool { return cs.Removed[i] < cs.Removed[j] })
	return cs
}

func sortEntries(entries []ObjectEntry) {
	sort.Slice(entries, func(i, j int) bool { return entries[i].ID < entries[j].ID })
}

func sortedEntries(objects map[ObjectID]ObjectState) []ObjectEntry {
	entries := make([]ObjectEntry, 0, len(objects))
	for id, state := range objects {
		entries = append(entries, ObjectEntry{ID: id, State: state})
	}
	sortEntries(entries)
	return entries
}
