package pool

// Stats is a point-in-time snapshot of a pool's accounting.
type Stats struct {
	BlockSize int // Slots per block
	Blocks    int // Blocks allocated so far
	Allocated int // Blocks * BlockSize
	Available int // Slots on the free list
	InUse     int // Allocated - Available

	Grows        int // Growth events (one event may add several blocks)
	Acquires     int // Slots handed out, single and bulk
	Releases     int // Slots taken back, single and bulk
	BulkReleases int // ReleaseStack calls that returned at least one slot
}

// poolStats holds the running counters behind Stats.
type poolStats struct {
	grows        int
	acquires     int
	releases     int
	bulkReleases int
}
