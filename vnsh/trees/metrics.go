package trees

// TreeMetrics holds statistical information about the tree. TotalNodes counts
// directories created after the root.
type TreeMetrics struct {
	TotalNodes      int64
	TotalFiles      int64
	MaxDepth        int
	OperationCounts map[string]int64
}

func newTreeMetrics() *TreeMetrics {
	return &TreeMetrics{
		OperationCounts: make(map[string]int64),
	}
}
