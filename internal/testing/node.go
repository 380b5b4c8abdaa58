/*
Package testing contains list entries and assertions shared by tests.
*/
package testing

import (
	"sync/atomic"

	"github.com/mgnsk/workq/list"
	"github.com/mgnsk/workq/rawlist"
)

// Node is a list entry that counts how many times it was dropped.
type Node struct {
	links rawlist.Links[Node]
	refs  list.RefCount
	drops *atomic.Int64
	Value int
}

// NewNode creates a node. Drops are counted in drops if it is not nil.
func NewNode(value int, drops *atomic.Int64) *Node {
	return &Node{Value: value, drops: drops}
}

// NewNodes creates nodes with values 0..n-1.
func NewNodes(n int, drops *atomic.Int64) []*Node {
	nodes := make([]*Node, n)
	for i := range nodes {
		nodes[i] = NewNode(i, drops)
	}
	return nodes
}

// Links implements rawlist.Entry.
func (n *Node) Links() *rawlist.Links[Node] {
	return &n.links
}

// Refs implements list.Shared.
func (n *Node) Refs() *list.RefCount {
	return &n.refs
}

// Drop implements list.Dropper.
func (n *Node) Drop() {
	if n.drops != nil {
		n.drops.Add(1)
	}
}

// RawList is a raw list of nodes.
type RawList = rawlist.List[Node, *Node]

// BoxList is a list of exclusively owned nodes.
type BoxList = list.List[Node, *Node, list.Box[Node]]

// ArcList is a list of shared nodes.
type ArcList = list.List[Node, *Node, list.Arc[Node, *Node]]

// RefList is a list of borrowed nodes.
type RefList = list.List[Node, *Node, list.Ref[Node]]
