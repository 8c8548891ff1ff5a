package treeevent

// Summary aggregates the edits applied by one replay.
type Summary struct {
	Replaced     int  `json:"replaced"`
	Inserted     int  `json:"inserted"`
	Deleted      int  `json:"deleted"`
	RootReplaced bool `json:"root_replaced"`

	// OldLength and NewLength are the root text lengths around the replay.
	OldLength int `json:"old_length"`
	NewLength int `json:"new_length"`
}

// Record counts one applied edit.
func (s *Summary) Record(kind Kind) {
	switch kind {
	case ChildReplaced:
		s.Replaced++
	case ChildAdded:
		s.Inserted++
	case ChildRemoved:
		s.Deleted++
	case RootReplaced:
		s.RootReplaced = true
		s.Replaced++
	}
}

// Total returns the number of applied edits.
func (s *Summary) Total() int {
	return s.Replaced + s.Inserted + s.Deleted
}

// Empty reports whether the replay changed nothing.
func (s *Summary) Empty() bool {
	return s.Total() == 0
}
