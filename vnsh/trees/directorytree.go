package trees

import (
	"context"
	"fmt"
	"maps"
	"strings"

	"github.com/rs/zerolog"
)

// DirectoryTree is an append-only, in-memory namespace of directories and file
// names. Nodes are stored in an arena and addressed by NodeID. There is no delete,
// rename or move, so full paths never go stale.
//
// A DirectoryTree is not safe for concurrent use.
type DirectoryTree struct {
	nodes     []DirectoryNode
	root      NodeID
	rootName  string
	separator string
	pathIndex *PathIndex
	metrics   *TreeMetrics
	logger    zerolog.Logger
}

// TreeOption allows for customization of DirectoryTree
type TreeOption func(*DirectoryTree)

// WithRootName sets the name (and thus the full path) of the root directory
func WithRootName(name string) TreeOption {
	return func(dt *DirectoryTree) {
		dt.rootName = name
	}
}

// WithSeparator sets the path separator. Empty separators are ignored.
func WithSeparator(sep string) TreeOption {
	return func(dt *DirectoryTree) {
		if sep != "" {
			dt.separator = sep
		}
	}
}

// WithLogger sets a custom logger
func WithLogger(logger zerolog.Logger) TreeOption {
	return func(dt *DirectoryTree) {
		dt.logger = logger
	}
}

// WithoutPathIndex disables the radix path index; resolution always walks segments.
func WithoutPathIndex() TreeOption {
	return func(dt *DirectoryTree) {
		dt.pathIndex = nil
	}
}

// NewDirectoryTree builds a tree holding only its root.
func NewDirectoryTree(opts ...TreeOption) *DirectoryTree {
	dt := &DirectoryTree{
		rootName:  "root",
		separator: `\`,
		pathIndex: NewPathIndex(),
		metrics:   newTreeMetrics(),
		logger:    zerolog.Nop(),
	}

	for _, opt := range opts {
		opt(dt)
	}

	dt.nodes = []DirectoryNode{newDirectoryNode(dt.rootName, nil, NoNode, dt.separator)}
	dt.root = 0
	if dt.pathIndex != nil {
		dt.pathIndex.Insert(dt.rootName, dt.root)
	}

	return dt
}

// Root returns the root handle.
func (dt *DirectoryTree) Root() NodeID {
	return dt.root
}

// Separator returns the path separator in use.
func (dt *DirectoryTree) Separator() string {
	return dt.separator
}

// Len returns the number of directories, root included.
func (dt *DirectoryTree) Len() int {
	return len(dt.nodes)
}

// Node returns a copy of the node addressed by id.
func (dt *DirectoryTree) Node(id NodeID) (DirectoryNode, bool) {
	if !dt.valid(id) {
		return DirectoryNode{}, false
	}
	n := dt.nodes[id]
	n.Children = append([]NodeID(nil), n.Children...)
	n.Files = append([]string(nil), n.Files...)
	return n, true
}

// Name returns the directory's own segment name.
func (dt *DirectoryTree) Name(id NodeID) string {
	if !dt.valid(id) {
		return ""
	}
	return dt.nodes[id].Name
}

// Parent returns the parent handle; ok is false for the root.
func (dt *DirectoryTree) Parent(id NodeID) (NodeID, bool) {
	if !dt.valid(id) || dt.nodes[id].IsRoot() {
		return NoNode, false
	}
	return dt.nodes[id].Parent, true
}

// FullPath returns the cached separator-joined path from the root.
func (dt *DirectoryTree) FullPath(id NodeID) string {
	if !dt.valid(id) {
		return ""
	}
	return dt.nodes[id].FullPath
}

// Children returns the child handles of id in insertion order.
func (dt *DirectoryTree) Children(id NodeID) []NodeID {
	if !dt.valid(id) {
		return nil
	}
	return append([]NodeID(nil), dt.nodes[id].Children...)
}

// Files returns the file names of id in insertion order.
func (dt *DirectoryTree) Files(id NodeID) []string {
	if !dt.valid(id) {
		return nil
	}
	return append([]string(nil), dt.nodes[id].Files...)
}

// AddChildDirectory appends a new directory under parent. Duplicate names are
// accepted; detecting them is the caller's job.
func (dt *DirectoryTree) AddChildDirectory(parent NodeID, name string) (NodeID, error) {
	if !dt.valid(parent) {
		return NoNode, fmt.Errorf("invalid parent handle %d", parent)
	}

	id := NodeID(len(dt.nodes))
	dt.nodes = append(dt.nodes, newDirectoryNode(name, &dt.nodes[parent], parent, dt.separator))
	dt.nodes[parent].Children = append(dt.nodes[parent].Children, id)
	dt.metrics.TotalNodes++
	dt.metrics.MaxDepth = max(dt.metrics.MaxDepth, dt.nodes[id].Depth)
	dt.metrics.OperationCounts["add_directory"]++

	indexed := dt.indexNode(id)
	dt.logger.Debug().
		Str("path", dt.nodes[id].FullPath).
		Bool("indexed", indexed).
		Msg("directory added")

	return id, nil
}

// AddFile appends name to the files of dir. Duplicates are accepted.
func (dt *DirectoryTree) AddFile(dir NodeID, name string) error {
	if !dt.valid(dir) {
		return fmt.Errorf("invalid directory handle %d", dir)
	}

	dt.nodes[dir].Files = append(dt.nodes[dir].Files, name)
	dt.metrics.TotalFiles++
	dt.metrics.OperationCounts["add_file"]++

	dt.logger.Debug().
		Str("directory", dt.nodes[dir].FullPath).
		Str("file", name).
		Msg("file added")

	return nil
}

// HasFile reports whether dir already holds a file called name.
func (dt *DirectoryTree) HasFile(dir NodeID, name string) bool {
	if !dt.valid(dir) {
		return false
	}
	return dt.nodes[dir].HasFile(name)
}

// FindChildByName returns the first child of dir whose name equals name exactly.
func (dt *DirectoryTree) FindChildByName(dir NodeID, name string) (NodeID, bool) {
	if !dt.valid(dir) {
		return NoNode, false
	}
	for _, child := range dt.nodes[dir].Children {
		if dt.nodes[child].Name == name {
			return child, true
		}
	}
	return NoNode, false
}

// SplitPath strips one leading separator and splits the remainder into segments.
// Trailing empty segments are dropped, so `\A\` names A and `\\` names no segment
// at all. Interior empty segments are kept and only match children whose name is
// empty. An empty remainder is a single empty segment.
func (dt *DirectoryTree) SplitPath(path string) []string {
	rest := strings.TrimPrefix(path, dt.separator)
	if rest == "" {
		return []string{""}
	}

	segments := strings.Split(rest, dt.separator)
	for len(segments) > 0 && segments[len(segments)-1] == "" {
		segments = segments[:len(segments)-1]
	}
	return segments
}

// ResolvePath walks the segments of path from start, taking the first matching child
// at each step. Any unresolved segment fails the whole lookup.
func (dt *DirectoryTree) ResolvePath(start NodeID, path string) (NodeID, bool) {
	if !dt.valid(start) {
		return NoNode, false
	}
	dt.metrics.OperationCounts["resolve"]++

	segments := dt.SplitPath(path)

	if dt.pathIndex != nil && dt.pathIndex.Contains(dt.nodes[start].FullPath, start) {
		key := dt.nodes[start].FullPath
		if len(segments) > 0 {
			key += dt.separator + strings.Join(segments, dt.separator)
		}
		id, ok := dt.pathIndex.Lookup(key)
		dt.logger.Debug().
			Str("start", dt.nodes[start].FullPath).
			Str("path", path).
			Bool("found", ok).
			Msg("path resolved from index")
		return id, ok
	}

	return dt.walkSegments(start, segments)
}

func (dt *DirectoryTree) walkSegments(start NodeID, segments []string) (NodeID, bool) {
	current := start
	for _, segment := range segments {
		next, ok := dt.FindChildByName(current, segment)
		if !ok {
			dt.logger.Debug().
				Str("start", dt.nodes[start].FullPath).
				Str("segment", segment).
				Msg("path segment not found")
			return NoNode, false
		}
		current = next
	}
	return current, true
}

// WalkFunc is called for each directory visited by Walk.
type WalkFunc func(id NodeID, node *DirectoryNode) error

// Walk visits start and its descendants depth-first in pre-order, children in
// insertion order. A non-nil error from fn stops the walk and is returned. fn must
// not add to the tree.
func (dt *DirectoryTree) Walk(ctx context.Context, start NodeID, fn WalkFunc) error {
	if !dt.valid(start) {
		return fmt.Errorf("invalid start handle %d", start)
	}
	return dt.walkNode(ctx, start, fn)
}

func (dt *DirectoryTree) walkNode(ctx context.Context, id NodeID, fn WalkFunc) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	if err := fn(id, &dt.nodes[id]); err != nil {
		return err
	}

	for _, child := range dt.nodes[id].Children {
		if err := dt.walkNode(ctx, child, fn); err != nil {
			return err
		}
	}

	return nil
}

// GetMetrics returns a snapshot of the tree's counters.
func (dt *DirectoryTree) GetMetrics() TreeMetrics {
	return TreeMetrics{
		TotalNodes:      dt.metrics.TotalNodes,
		TotalFiles:      dt.metrics.TotalFiles,
		MaxDepth:        dt.metrics.MaxDepth,
		OperationCounts: maps.Clone(dt.metrics.OperationCounts),
	}
}

// IndexStats returns the path index counters; ok is false when the index is disabled.
func (dt *DirectoryTree) IndexStats() (PathIndexStats, bool) {
	if dt.pathIndex == nil {
		return PathIndexStats{}, false
	}
	return dt.pathIndex.Stats(), true
}

// ValidateIndex checks the path index against the arena. It returns nil when the
// index is disabled.
func (dt *DirectoryTree) ValidateIndex() []error {
	if dt.pathIndex == nil {
		return nil
	}
	return dt.pathIndex.Validate(dt)
}

func (dt *DirectoryTree) String() string {
	var sb strings.Builder
	_ = dt.Walk(context.Background(), dt.root, func(_ NodeID, node *DirectoryNode) error {
		sb.WriteString(strings.Repeat("  ", node.Depth))
		sb.WriteString(node.String())
		sb.WriteString("\n")
		return nil
	})
	return sb.String()
}

// indexNode makes id canonical for its path when its parent is canonical, its name
// cannot be confused with a nested path, and no earlier sibling holds the path.
func (dt *DirectoryTree) indexNode(id NodeID) bool {
	if dt.pathIndex == nil {
		return false
	}

	node := &dt.nodes[id]
	parent := &dt.nodes[node.Parent]
	if strings.Contains(node.Name, dt.separator) || !dt.pathIndex.Contains(parent.FullPath, node.Parent) {
		return false
	}
	return dt.pathIndex.Insert(node.FullPath, id)
}

func (dt *DirectoryTree) valid(id NodeID) bool {
	return id >= 0 && int(id) < len(dt.nodes)
}
