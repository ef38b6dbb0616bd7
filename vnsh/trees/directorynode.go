package trees

import "strings"

// NodeID addresses a directory node inside a DirectoryTree's arena.
type NodeID int

// NoNode is returned by lookups that find nothing.
const NoNode NodeID = -1

// DirectoryNode is one directory in the namespace. Parent is a plain handle with no
// ownership; the node owns the IDs in Children. FullPath is fixed at creation.
type DirectoryNode struct {
	Name     string
	Parent   NodeID
	Children []NodeID
	Files    []string
	FullPath string
	Depth    int
}

func newDirectoryNode(name string, parent *DirectoryNode, parentID NodeID, separator string) DirectoryNode {
	node := DirectoryNode{
		Name:     name,
		Parent:   parentID,
		Children: []NodeID{},
		Files:    []string{},
		FullPath: name,
	}
	if parent != nil {
		node.FullPath = parent.FullPath + separator + name
		node.Depth = parent.Depth + 1
	}
	return node
}

// IsRoot reports whether the node has no parent.
func (n *DirectoryNode) IsRoot() bool {
	return n.Parent == NoNode
}

// HasFile reports whether name is already among the node's files.
func (n *DirectoryNode) HasFile(name string) bool {
	for _, f := range n.Files {
		if f == name {
			return true
		}
	}
	return false
}

func (n *DirectoryNode) String() string {
	var sb strings.Builder
	sb.WriteString(n.FullPath)
	if len(n.Files) > 0 {
		sb.WriteString(" [")
		sb.WriteString(strings.Join(n.Files, ", "))
		sb.WriteString("]")
	}
	return sb.String()
}
