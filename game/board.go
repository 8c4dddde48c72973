package game

import (
	"errors"
	"fmt"
	"math"

	"titan/meta"
	"titan/utils"
)

var ErrInvalidNodeID = errors.New("invalid node id")

// NodeID identifies a node by ring (1 outer .. 3 inner) and position (0..5).
type NodeID struct {
	Circuit  int `json:"circuit"`
	Position int `json:"position"`
}

func (id NodeID) String() string {
	return fmt.Sprintf("node-%d-%d", id.Circuit, id.Position)
}

func (id NodeID) Valid() bool {
	return id.Circuit >= 1 && id.Circuit <= meta.CIRCUITS &&
		id.Position >= 0 && id.Position < meta.NODES_PER_CIRCUIT
}

// ParseNodeID accepts the "node-<circuit>-<position>" form.
func ParseNodeID(s string) (NodeID, error) {
	var id NodeID
	if _, err := fmt.Sscanf(s, "node-%d-%d", &id.Circuit, &id.Position); err != nil {
		return NodeID{}, fmt.Errorf("%w: %q", ErrInvalidNodeID, s)
	}
	if !id.Valid() || id.String() != s {
		return NodeID{}, fmt.Errorf("%w: %q", ErrInvalidNodeID, s)
	}
	return id, nil
}

type Node struct {
	ID          NodeID
	X, Y        float64 // Planar coordinates in percent of the board, presentation only
	AdjacentIDs []int   // Indices of adjacent nodes
}

type Edge struct {
	A, B   NodeID
	Weight int
	a, b   int // Endpoint indices
}

// Board is the static topology of a match. It never changes after NewBoard;
// occupancy and edge control live in GameState.
type Board struct {
	Nodes      []*Node
	Edges      []*Edge
	index      map[NodeID]int
	edgeIndex  map[[2]int]int
	eliminable []int
}

type ring struct {
	radius float64
	weight int
}

const (
	centerX = 50.0
	centerY = 50.0
)

var rings = []ring{
	{radius: 45, weight: 1}, // Outer
	{radius: 30, weight: 2}, // Middle
	{radius: 15, weight: 3}, // Inner
}

// Cross-ring links only exist at these positions.
var (
	outerToMiddle = []int{0, 2, 4}
	middleToInner = []int{1, 3, 5}
)

// Nodes whose titan can be eliminated when surrounded. This is a fixed list,
// not derived from node degree.
var eliminationNodes = []NodeID{
	{1, 0}, {1, 2}, {1, 4},
	{2, 0}, {2, 1}, {2, 2}, {2, 3}, {2, 4}, {2, 5},
	{3, 1}, {3, 3}, {3, 5},
}

func newBoard() *Board {
	return &Board{
		index:     make(map[NodeID]int),
		edgeIndex: make(map[[2]int]int),
	}
}

// AddNode appends a node to the arena and indexes it.
func (b *Board) AddNode(node *Node) int {
	idx := len(b.Nodes)
	b.Nodes = append(b.Nodes, node)
	b.index[node.ID] = idx
	return idx
}

// AddEdge adds a bidirectional weighted edge between two nodes.
func (b *Board) AddEdge(id1, id2 NodeID, weight int) {
	i, ok1 := b.index[id1]
	j, ok2 := b.index[id2]
	if !ok1 || !ok2 {
		panic(fmt.Sprintf("edge between unknown nodes %s and %s", id1, id2))
	}
	if _, exists := b.edgeIndex[edgeKey(i, j)]; exists {
		return
	}
	if !utils.Contains(b.Nodes[i].AdjacentIDs, j) {
		b.Nodes[i].AdjacentIDs = append(b.Nodes[i].AdjacentIDs, j)
	}
	if !utils.Contains(b.Nodes[j].AdjacentIDs, i) {
		b.Nodes[j].AdjacentIDs = append(b.Nodes[j].AdjacentIDs, i)
	}
	b.edgeIndex[edgeKey(i, j)] = len(b.Edges)
	b.Edges = append(b.Edges, &Edge{A: id1, B: id2, Weight: weight, a: i, b: j})
}

func edgeKey(i, j int) [2]int {
	if i > j {
		i, j = j, i
	}
	return [2]int{i, j}
}

// NewBoard builds the three concentric rings and their fixed cross links.
func NewBoard() *Board {
	b := newBoard()

	for r, hex := range rings {
		circuit := r + 1
		for i := 0; i < meta.NODES_PER_CIRCUIT; i++ {
			angle := float64(i*60-30) * math.Pi / 180
			b.AddNode(&Node{
				ID: NodeID{Circuit: circuit, Position: i},
				X:  centerX + hex.radius*math.Cos(angle),
				Y:  centerY + hex.radius*math.Sin(angle),
			})
		}
	}

	// Ring cycles, weighted by circuit
	for r, hex := range rings {
		circuit := r + 1
		for i := 0; i < meta.NODES_PER_CIRCUIT; i++ {
			next := (i + 1) % meta.NODES_PER_CIRCUIT
			b.AddEdge(NodeID{circuit, i}, NodeID{circuit, next}, hex.weight)
		}
	}

	for _, pos := range outerToMiddle {
		b.AddEdge(NodeID{1, pos}, NodeID{2, pos}, rings[0].weight)
	}
	for _, pos := range middleToInner {
		b.AddEdge(NodeID{2, pos}, NodeID{3, pos}, rings[1].weight)
	}

	for _, id := range eliminationNodes {
		b.eliminable = append(b.eliminable, b.index[id])
	}

	return b
}

// IndexOf returns the arena index of a node.
func (b *Board) IndexOf(id NodeID) (int, bool) {
	idx, ok := b.index[id]
	return idx, ok
}

func (b *Board) Node(id NodeID) (*Node, bool) {
	idx, ok := b.index[id]
	if !ok {
		return nil, false
	}
	return b.Nodes[idx], true
}

// AreAdjacent reports whether an edge joins the two nodes.
func (b *Board) AreAdjacent(id1, id2 NodeID) bool {
	i, ok1 := b.index[id1]
	j, ok2 := b.index[id2]
	if !ok1 || !ok2 {
		return false
	}
	return b.adjacent(i, j)
}

func (b *Board) adjacent(i, j int) bool {
	_, ok := b.edgeIndex[edgeKey(i, j)]
	return ok
}

// Edge returns the edge joining two nodes, if any.
func (b *Board) Edge(id1, id2 NodeID) (*Edge, bool) {
	i, ok1 := b.index[id1]
	j, ok2 := b.index[id2]
	if !ok1 || !ok2 {
		return nil, false
	}
	e, ok := b.edgeIndex[edgeKey(i, j)]
	if !ok {
		return nil, false
	}
	return b.Edges[e], true
}

// CircuitNodes returns the arena indices of one ring.
func (b *Board) CircuitNodes(circuit int) []int {
	var out []int
	for i, n := range b.Nodes {
		if n.ID.Circuit == circuit {
			out = append(out, i)
		}
	}
	return out
}

// Eliminable returns the ids of the nodes covered by the elimination rule.
func (b *Board) Eliminable() []NodeID {
	ids := make([]NodeID, len(b.eliminable))
	for i, idx := range b.eliminable {
		ids[i] = b.Nodes[idx].ID
	}
	return ids
}
