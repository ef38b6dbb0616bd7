package trees

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustAddDir(t *testing.T, tree *DirectoryTree, parent NodeID, name string) NodeID {
	t.Helper()
	id, err := tree.AddChildDirectory(parent, name)
	require.NoError(t, err)
	return id
}

func TestDirectoryTree_PathSemantics(t *testing.T) {
	t.Run("root has sentinel name and no parent", func(t *testing.T) {
		tree := NewDirectoryTree()

		root := tree.Root()
		assert.Equal(t, "root", tree.Name(root))
		assert.Equal(t, "root", tree.FullPath(root))
		_, hasParent := tree.Parent(root)
		assert.False(t, hasParent, "Root should not have a parent")
		assert.Equal(t, 1, tree.Len())
	})

	t.Run("full path joins names from root with the separator", func(t *testing.T) {
		tree := NewDirectoryTree()

		a := mustAddDir(t, tree, tree.Root(), "A")
		b := mustAddDir(t, tree, a, "B")
		c := mustAddDir(t, tree, b, "C")

		assert.Equal(t, `root\A`, tree.FullPath(a))
		assert.Equal(t, `root\A\B`, tree.FullPath(b))
		assert.Equal(t, `root\A\B\C`, tree.FullPath(c))

		// Rebuild the path by following parent handles
		var names []string
		for id, ok := c, true; ok; id, ok = tree.Parent(id) {
			names = append([]string{tree.Name(id)}, names...)
		}
		assert.Equal(t, tree.FullPath(c), strings.Join(names, tree.Separator()))
	})

	t.Run("custom root name and separator", func(t *testing.T) {
		tree := NewDirectoryTree(WithRootName("home"), WithSeparator("/"))

		user := mustAddDir(t, tree, tree.Root(), "user")
		docs := mustAddDir(t, tree, user, "docs")

		assert.Equal(t, "home/user/docs", tree.FullPath(docs))
		found, ok := tree.ResolvePath(tree.Root(), "/user/docs")
		require.True(t, ok)
		assert.Equal(t, docs, found)
	})

	t.Run("empty separator option is ignored", func(t *testing.T) {
		tree := NewDirectoryTree(WithSeparator(""))
		assert.Equal(t, `\`, tree.Separator())
	})
}

func TestDirectoryTree_Mutation(t *testing.T) {
	t.Run("children and files keep insertion order", func(t *testing.T) {
		tree := NewDirectoryTree()
		root := tree.Root()

		z := mustAddDir(t, tree, root, "z")
		a := mustAddDir(t, tree, root, "a")
		require.NoError(t, tree.AddFile(root, "second"))
		require.NoError(t, tree.AddFile(root, "first"))

		assert.Equal(t, []NodeID{z, a}, tree.Children(root))
		assert.Equal(t, []string{"second", "first"}, tree.Files(root))
	})

	t.Run("duplicates are accepted", func(t *testing.T) {
		tree := NewDirectoryTree()
		root := tree.Root()

		first := mustAddDir(t, tree, root, "X")
		second := mustAddDir(t, tree, root, "X")
		require.NoError(t, tree.AddFile(root, "f"))
		require.NoError(t, tree.AddFile(root, "f"))

		assert.NotEqual(t, first, second)
		assert.Len(t, tree.Children(root), 2)
		assert.Equal(t, []string{"f", "f"}, tree.Files(root))
		assert.Equal(t, tree.FullPath(first), tree.FullPath(second))
	})

	t.Run("invalid handles are rejected", func(t *testing.T) {
		tree := NewDirectoryTree()

		_, err := tree.AddChildDirectory(NodeID(42), "x")
		assert.Error(t, err)
		assert.Error(t, tree.AddFile(NoNode, "x"))
		assert.Empty(t, tree.FullPath(NodeID(42)))
		assert.Nil(t, tree.Children(NoNode))
		_, ok := tree.Node(NodeID(7))
		assert.False(t, ok)
	})

	t.Run("Node returns an independent copy", func(t *testing.T) {
		tree := NewDirectoryTree()
		require.NoError(t, tree.AddFile(tree.Root(), "f"))

		node, ok := tree.Node(tree.Root())
		require.True(t, ok)
		node.Files[0] = "mutated"

		assert.Equal(t, []string{"f"}, tree.Files(tree.Root()))
	})

	t.Run("HasFile", func(t *testing.T) {
		tree := NewDirectoryTree()
		require.NoError(t, tree.AddFile(tree.Root(), "notes.txt"))

		assert.True(t, tree.HasFile(tree.Root(), "notes.txt"))
		assert.False(t, tree.HasFile(tree.Root(), "Notes.txt"), "File names are case sensitive")
		assert.False(t, tree.HasFile(NoNode, "notes.txt"))
	})
}

func TestDirectoryTree_FindChildByName(t *testing.T) {
	tree := NewDirectoryTree()
	root := tree.Root()

	first := mustAddDir(t, tree, root, "dup")
	mustAddDir(t, tree, root, "dup")
	mustAddDir(t, tree, root, "Other")

	found, ok := tree.FindChildByName(root, "dup")
	require.True(t, ok)
	assert.Equal(t, first, found, "First match in insertion order should win")

	_, ok = tree.FindChildByName(root, "other")
	assert.False(t, ok, "Lookup should be case sensitive")

	_, ok = tree.FindChildByName(root, "missing")
	assert.False(t, ok)
}

func TestDirectoryTree_ResolvePath(t *testing.T) {
	for _, name := range []string{"indexed", "walk"} {
		t.Run(name, func(t *testing.T) {
			var opts []TreeOption
			if name == "walk" {
				opts = append(opts, WithoutPathIndex())
			}
			tree := NewDirectoryTree(opts...)
			root := tree.Root()

			a := mustAddDir(t, tree, root, "A")
			b := mustAddDir(t, tree, a, "B")
			mustAddDir(t, tree, root, "C")

			tests := []struct {
				start NodeID
				path  string
				want  NodeID
				found bool
			}{
				{root, `\A`, a, true},
				{root, `\A\B`, b, true},
				{root, `A\B`, b, true},
				{a, `\B`, b, true},
				{root, `\B`, NoNode, false},
				{root, `\A\X`, NoNode, false},
				{root, `\A\B\X`, NoNode, false},
				{root, `\X\B`, NoNode, false},
				{root, `\`, NoNode, false},
				{root, ``, NoNode, false},
				{root, `\A\\B`, NoNode, false},
				{root, `\A\`, a, true},
				{root, `\A\B\\`, b, true},
				{root, `\X\`, NoNode, false},
				{root, `\\`, root, true},
				{a, `\\\`, a, true},
				{NoNode, `\A`, NoNode, false},
			}

			for _, tt := range tests {
				got, ok := tree.ResolvePath(tt.start, tt.path)
				assert.Equal(t, tt.found, ok, "path %q from %d", tt.path, tt.start)
				assert.Equal(t, tt.want, got, "path %q from %d", tt.path, tt.start)
			}
		})
	}

	t.Run("partial matches are discarded", func(t *testing.T) {
		tree := NewDirectoryTree()
		mustAddDir(t, tree, tree.Root(), "A")

		got, ok := tree.ResolvePath(tree.Root(), `\A\missing`)
		assert.False(t, ok)
		assert.Equal(t, NoNode, got, "Should not return the deepest matched node")
	})

	t.Run("first duplicate is followed even when a later one has the child", func(t *testing.T) {
		tree := NewDirectoryTree()
		root := tree.Root()
		mustAddDir(t, tree, root, "A")
		second := mustAddDir(t, tree, root, "A")
		mustAddDir(t, tree, second, "B")

		_, ok := tree.ResolvePath(root, `\A\B`)
		assert.False(t, ok)
	})

	t.Run("names containing the separator are not reachable by path", func(t *testing.T) {
		tree := NewDirectoryTree()
		root := tree.Root()
		mustAddDir(t, tree, root, `A\B`)

		_, ok := tree.ResolvePath(root, `\A\B`)
		assert.False(t, ok)

		found, ok := tree.FindChildByName(root, `A\B`)
		assert.True(t, ok)
		assert.Equal(t, `root\A\B`, tree.FullPath(found))
	})

	t.Run("trailing separator is ignored next to an empty name", func(t *testing.T) {
		tree := NewDirectoryTree()
		root := tree.Root()
		a := mustAddDir(t, tree, root, "A")
		mustAddDir(t, tree, a, "")

		got, ok := tree.ResolvePath(root, `\A\`)
		require.True(t, ok)
		assert.Equal(t, a, got)
	})

	t.Run("empty names resolve through empty segments", func(t *testing.T) {
		tree := NewDirectoryTree()
		root := tree.Root()
		empty := mustAddDir(t, tree, root, "")
		b := mustAddDir(t, tree, empty, "B")

		got, ok := tree.ResolvePath(root, `\`)
		require.True(t, ok)
		assert.Equal(t, empty, got)

		got, ok = tree.ResolvePath(root, `\\B`)
		require.True(t, ok)
		assert.Equal(t, b, got)
	})
}

func TestDirectoryTree_SplitPath(t *testing.T) {
	tree := NewDirectoryTree()

	tests := []struct {
		path string
		want []string
	}{
		{``, []string{""}},
		{`\`, []string{""}},
		{`A`, []string{"A"}},
		{`\A\B`, []string{"A", "B"}},
		{`\A\`, []string{"A"}},
		{`\A\\\`, []string{"A"}},
		{`\A\\B`, []string{"A", "", "B"}},
		{`\\`, []string{}},
		{`\\B`, []string{"", "B"}},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, tree.SplitPath(tt.path), "path %q", tt.path)
	}
}

func TestDirectoryTree_Walk(t *testing.T) {
	tree := NewDirectoryTree()
	root := tree.Root()
	a := mustAddDir(t, tree, root, "A")
	b := mustAddDir(t, tree, a, "B")
	c := mustAddDir(t, tree, root, "C")
	d := mustAddDir(t, tree, c, "D")

	t.Run("pre-order with siblings in insertion order", func(t *testing.T) {
		var visited []NodeID
		err := tree.Walk(context.Background(), root, func(id NodeID, _ *DirectoryNode) error {
			visited = append(visited, id)
			return nil
		})
		require.NoError(t, err)
		assert.Equal(t, []NodeID{root, a, b, c, d}, visited)
	})

	t.Run("walk from a subtree", func(t *testing.T) {
		var paths []string
		err := tree.Walk(context.Background(), c, func(_ NodeID, node *DirectoryNode) error {
			paths = append(paths, node.FullPath)
			return nil
		})
		require.NoError(t, err)
		assert.Equal(t, []string{`root\C`, `root\C\D`}, paths)
	})

	t.Run("callback error stops the walk", func(t *testing.T) {
		stop := errors.New("stop")
		count := 0
		err := tree.Walk(context.Background(), root, func(id NodeID, _ *DirectoryNode) error {
			count++
			if id == b {
				return stop
			}
			return nil
		})
		assert.ErrorIs(t, err, stop)
		assert.Equal(t, 3, count)
	})

	t.Run("cancelled context", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		err := tree.Walk(ctx, root, func(NodeID, *DirectoryNode) error { return nil })
		assert.ErrorIs(t, err, context.Canceled)
	})

	t.Run("invalid start", func(t *testing.T) {
		err := tree.Walk(context.Background(), NodeID(99), func(NodeID, *DirectoryNode) error { return nil })
		assert.Error(t, err)
	})
}

func TestDirectoryTree_Metrics(t *testing.T) {
	tree := NewDirectoryTree()
	root := tree.Root()
	a := mustAddDir(t, tree, root, "A")
	b := mustAddDir(t, tree, a, "B")
	require.NoError(t, tree.AddFile(b, "f"))
	require.NoError(t, tree.AddFile(root, "g"))
	tree.ResolvePath(root, `\A\B`)

	metrics := tree.GetMetrics()
	assert.Equal(t, int64(2), metrics.TotalNodes)
	assert.Equal(t, int64(2), metrics.TotalFiles)
	assert.Equal(t, 2, metrics.MaxDepth)
	assert.Equal(t, int64(2), metrics.OperationCounts["add_directory"])
	assert.Equal(t, int64(2), metrics.OperationCounts["add_file"])
	assert.Equal(t, int64(1), metrics.OperationCounts["resolve"])

	metrics.OperationCounts["add_file"] = 100
	assert.Equal(t, int64(2), tree.GetMetrics().OperationCounts["add_file"], "Metrics should be a snapshot")
}

func TestDirectoryTree_String(t *testing.T) {
	tree := NewDirectoryTree()
	a := mustAddDir(t, tree, tree.Root(), "A")
	require.NoError(t, tree.AddFile(a, "f1"))
	require.NoError(t, tree.AddFile(a, "f2"))

	assert.Equal(t, "root\n  root\\A [f1, f2]\n", tree.String())
}
