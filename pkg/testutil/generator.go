// Package testutil provides test fixture generators for various tree
// topologies plus invariant assertions over annotated trees. All generators
// produce deterministic output for reproducible tests.
package testutil

import (
	"fmt"
	"math/rand"

	"github.com/vanderheijden86/arbor/pkg/tree"
)

// Node is the concrete tree type used by fixtures. Engine code never sees it
// directly; it is traversed through Accessors like any caller tree.
type Node struct {
	ID    string
	Label string
	Kids  []*Node
}

// Accessors returns the engine accessors for fixture trees.
func Accessors() tree.Accessors[*Node] {
	return tree.Accessors[*Node]{
		ID:       func(n *Node) string { return n.ID },
		Children: func(n *Node) []*Node { return n.Kids },
	}
}

// Leaf builds a leaf node.
func Leaf(id string) *Node {
	return &Node{ID: id, Label: id}
}

// Branch builds a branch node with the given children.
func Branch(id string, kids ...*Node) *Node {
	return &Node{ID: id, Label: id, Kids: kids}
}

// GeneratorConfig controls fixture generation.
type GeneratorConfig struct {
	Seed     int64  // Random seed for determinism (0 = fixed default)
	IDPrefix string // Prefix for node IDs (default: "n")
}

// DefaultConfig returns a config suitable for most tests.
func DefaultConfig() GeneratorConfig {
	return GeneratorConfig{
		Seed:     42, // Deterministic
		IDPrefix: "n",
	}
}

// Generator creates test trees with various topologies.
type Generator struct {
	cfg  GeneratorConfig
	rng  *rand.Rand
	next int
}

// New creates a Generator with the given config.
func New(cfg GeneratorConfig) *Generator {
	if cfg.Seed == 0 {
		cfg.Seed = 42
	}
	if cfg.IDPrefix == "" {
		cfg.IDPrefix = "n"
	}
	return &Generator{
		cfg: cfg,
		rng: rand.New(rand.NewSource(cfg.Seed)),
	}
}

// NewDefault creates a Generator with default config.
func NewDefault() *Generator {
	return New(DefaultConfig())
}

func (g *Generator) id() string {
	id := fmt.Sprintf("%s%d", g.cfg.IDPrefix, g.next)
	g.next++
	return id
}

// Chain creates a linear chain of the given depth: each branch has exactly
// one child, and the deepest node is the only leaf.
func (g *Generator) Chain(depth int) *Node {
	node := Leaf(g.id())
	for i := 0; i < depth; i++ {
		node = Branch(g.id(), node)
	}
	return node
}

// Star creates a root branch with n leaf children.
func (g *Generator) Star(n int) *Node {
	kids := make([]*Node, n)
	for i := range kids {
		kids[i] = Leaf(g.id())
	}
	return Branch(g.id(), kids...)
}

// Balanced creates a balanced tree where every branch has fanout children
// down to the given depth. Depth 0 is a single leaf.
func (g *Generator) Balanced(depth, fanout int) *Node {
	if depth == 0 {
		return Leaf(g.id())
	}
	kids := make([]*Node, fanout)
	for i := range kids {
		kids[i] = g.Balanced(depth-1, fanout)
	}
	return Branch(g.id(), kids...)
}

// Random creates a deterministic pseudo-random tree bounded by maxDepth and
// maxFanout. The same seed always yields the same shape.
func (g *Generator) Random(maxDepth, maxFanout int) *Node {
	if maxDepth == 0 || g.rng.Intn(4) == 0 {
		return Leaf(g.id())
	}
	fanout := 1 + g.rng.Intn(maxFanout)
	kids := make([]*Node, fanout)
	for i := range kids {
		kids[i] = g.Random(maxDepth-1, maxFanout)
	}
	return Branch(g.id(), kids...)
}
