package pumps

// Store holds the latest known frame per pump. Entries are only ever
// replaced by newer frames, never evicted; a pump that stops reporting
// simply goes stale.
type Store interface {
	// Merge applies a whole batch of frames at once. For every pump id
	// present in the batch the previous frame is replaced by the last
	// occurrence in the batch; pumps absent from the batch are untouched.
	Merge(frames []Frame)

	// Get returns the latest frame for a pump id, if any.
	Get(pumpID int) (Frame, bool)

	// Snapshot returns all known frames sorted by pump id.
	Snapshot() []Frame

	// Len returns the number of pumps seen so far.
	Len() int
}
