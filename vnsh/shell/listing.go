package shell

import (
	"context"

	"github.com/ZanzyTHEbar/vnsh/vnsh/trees"
)

func (s *Session) list(ctx context.Context, cmd List) error {
	switch cmd.Mode {
	case ListRecursive:
		return s.tree.Walk(ctx, s.cwd, func(id trees.NodeID, node *trees.DirectoryNode) error {
			if err := s.emit(node.FullPath); err != nil {
				return err
			}
			return s.plainListing(node)
		})

	case ListPath:
		// Paths given to ls always resolve from the root; misses print nothing.
		id, ok := s.tree.ResolvePath(s.tree.Root(), cmd.Path)
		if !ok {
			s.logger.Debug().Str("path", cmd.Path).Msg("ls path not found")
			return nil
		}
		node, _ := s.tree.Node(id)
		return s.plainListing(&node)

	default:
		node, _ := s.tree.Node(s.cwd)
		return s.plainListing(&node)
	}
}

// plainListing prints child directory names, then file names, each in insertion order.
func (s *Session) plainListing(node *trees.DirectoryNode) error {
	for _, child := range node.Children {
		if err := s.emit(s.tree.Name(child)); err != nil {
			return err
		}
	}
	for _, file := range node.Files {
		if err := s.emit(file); err != nil {
			return err
		}
	}
	return nil
}
