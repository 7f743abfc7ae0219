// Package party defines the identifiers used to name participants across
// every protocol in this module (secret-sharing leaves, PVE/TDH2 quorum
// members, ZK proof session binding).
package party

import "sort"

// ID names a single party. Names double as access-tree leaf names (spec
// §3 "Secret-sharing node") and as the input to the PID-from-name hash
// (spec §9 "party identifier from name").
type ID string

// IDSlice is a sortable, de-duplicable collection of IDs.
type IDSlice []ID

func (s IDSlice) Len() int           { return len(s) }
func (s IDSlice) Less(i, j int) bool { return s[i] < s[j] }
func (s IDSlice) Swap(i, j int)      { s[i], s[j] = s[j], s[i] }

// Sort returns a sorted copy of s.
func (s IDSlice) Sort() IDSlice {
	out := make(IDSlice, len(s))
	copy(out, s)
	sort.Sort(out)
	return out
}

// Contains reports whether id appears in s.
func (s IDSlice) Contains(id ID) bool {
	for _, x := range s {
		if x == id {
			return true
		}
	}
	return false
}

// Set converts s into a lookup set.
func (s IDSlice) Set() map[ID]bool {
	m := make(map[ID]bool, len(s))
	for _, x := range s {
		m[x] = true
	}
	return m
}
