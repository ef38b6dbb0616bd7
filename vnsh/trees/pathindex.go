package trees

import (
	"fmt"

	"github.com/armon/go-radix"
)

// PathIndexStats tracks usage of the path index
type PathIndexStats struct {
	TotalNodes  int64
	PathLookups int64
	Hits        int64
	Insertions  int64
	Rejected    int64
}

// PathIndex maps full paths to the canonical node for that path using a compressed
// trie. The canonical node is the one a first-match segment walk from the root
// reaches; duplicates and unreachable spellings are never indexed.
//
// It is not safe for concurrent use.
type PathIndex struct {
	tree  *radix.Tree
	stats PathIndexStats
}

// NewPathIndex creates an empty index.
func NewPathIndex() *PathIndex {
	return &PathIndex{tree: radix.New()}
}

// Insert records id under path unless the path is already taken. It reports
// whether the node became the canonical entry.
func (idx *PathIndex) Insert(path string, id NodeID) bool {
	if _, exists := idx.tree.Get(path); exists {
		idx.stats.Rejected++
		return false
	}

	idx.tree.Insert(path, id)
	idx.stats.TotalNodes++
	idx.stats.Insertions++
	return true
}

// Lookup finds the canonical node for an exact path in O(k), k being the path length.
func (idx *PathIndex) Lookup(path string) (NodeID, bool) {
	idx.stats.PathLookups++

	value, found := idx.tree.Get(path)
	if !found {
		return NoNode, false
	}

	idx.stats.Hits++
	return value.(NodeID), true
}

// Contains reports whether id is the canonical node for path.
func (idx *PathIndex) Contains(path string, id NodeID) bool {
	value, found := idx.tree.Get(path)
	return found && value.(NodeID) == id
}

// Len returns the number of indexed paths.
func (idx *PathIndex) Len() int {
	return idx.tree.Len()
}

// Stats returns a copy of the index statistics.
func (idx *PathIndex) Stats() PathIndexStats {
	return idx.stats
}

// Validate checks every indexed entry against the tree that owns it.
func (idx *PathIndex) Validate(dt *DirectoryTree) []error {
	var errs []error

	idx.tree.Walk(func(key string, value interface{}) bool {
		id, ok := value.(NodeID)
		if !ok {
			errs = append(errs, fmt.Errorf("invalid_node_type: %s", key))
			return false
		}
		if !dt.valid(id) {
			errs = append(errs, fmt.Errorf("dangling_node: %s -> %d", key, id))
			return false
		}
		if got := dt.nodes[id].FullPath; got != key {
			errs = append(errs, fmt.Errorf("path_mismatch: key %s holds node with path %s", key, got))
		}
		return false
	})

	if int64(idx.tree.Len()) != idx.stats.TotalNodes {
		errs = append(errs, fmt.Errorf("stats_mismatch: index holds %d paths, stats report %d", idx.tree.Len(), idx.stats.TotalNodes))
	}

	return errs
}
