package presence

// Cache holds the most recent snapshot and the end timestamp of the last
// scheduled end-of-activity refresh. It has no lock: one event loop owns it.
type Cache struct {
	snapshot     Snapshot
	scheduledEnd int64
	scheduled    bool
	generation   uint64
}

func NewCache() *Cache {
	return &Cache{}
}

// Replace swaps in a new snapshot wholesale and forgets any scheduled
// refresh marker.
func (c *Cache) Replace(snapshot Snapshot) {
	activities := make([]Activity, len(snapshot.Activities))
	copy(activities, snapshot.Activities)
	c.snapshot = Snapshot{Activities: activities}
	c.scheduled = false
	c.scheduledEnd = 0
	c.generation++
}

func (c *Cache) Snapshot() Snapshot {
	return c.snapshot
}

func (c *Cache) Empty() bool {
	return c.snapshot.Empty()
}

// Generation counts replacements; callers use it to detect that a delayed
// action was overtaken by fresh data.
func (c *Cache) Generation() uint64 {
	return c.generation
}

// MarkScheduled records that a refresh was scheduled for end. It returns
// false when a refresh for that exact end is already pending.
func (c *Cache) MarkScheduled(end int64) bool {
	if c.scheduled && c.scheduledEnd == end {
		return false
	}
	c.scheduled = true
	c.scheduledEnd = end
	return true
}

// ClearScheduled drops the marker so a later end can schedule again.
func (c *Cache) ClearScheduled() {
	c.scheduled = false
	c.scheduledEnd = 0
}

// ScheduledEnd reports the pending marker, if any.
func (c *Cache) ScheduledEnd() (int64, bool) {
	return c.scheduledEnd, c.scheduled
}
