// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"log/slog"
	"sync"

	"github.com/ik5/sndf/byteorder"
	"github.com/ik5/sndf/pushback"
)

// FlagSentinel marks a stream whose 16-bit samples end at the first 0x8000.
const FlagSentinel = 1

// Node is the per-stream format state.
type Node struct {
	// Start and End bound the sound data. End is UnknownLen if unknown.
	Start, End int64
	ByteMode   byteorder.Mode
	Flags      int
	Backend    Backend
	FileLen    int64
	// Info holds header text a backend parsed but did not hand out yet,
	// for ReadExtraInfo.
	Info []byte
}

// SetSeekEnds records where the sound data starts and ends.
func (n *Node) SetSeekEnds(start, end int64) {
	n.Start = start
	n.End = end
}

// SeekEnds returns the bounds set by SetSeekEnds.
func (n *Node) SeekEnds() (start, end int64) {
	return n.Start, n.End
}

// NodeTable maps open streams to their Node.
type NodeTable struct {
	nodes map[*pushback.Stream]*Node

	mtx *sync.Mutex
}

func NewNodeTable() *NodeTable {
	return &NodeTable{
		nodes: make(map[*pushback.Stream]*Node),
		mtx:   &sync.Mutex{},
	}
}

// Find returns the node for s. With create set a missing node is added,
// otherwise nil is returned.
func (t *NodeTable) Find(s *pushback.Stream, create bool) *Node {
	t.mtx.Lock()
	defer t.mtx.Unlock()

	if n, ok := t.nodes[s]; ok {
		return n
	}
	if !create {
		return nil
	}

	n := &Node{
		End:      int64(UnknownLen),
		ByteMode: byteorder.Unset,
		FileLen:  s.Len(),
	}
	t.nodes[s] = n

	return n
}

// Handle returns a handle on s backed by its tracked node.
func (t *NodeTable) Handle(s *pushback.Stream, logger *slog.Logger) *Handle {
	if logger == nil {
		logger = slog.Default()
	}

	return &Handle{Stream: s, Node: t.Find(s, true), Logger: logger}
}

// Remove forgets s.
func (t *NodeTable) Remove(s *pushback.Stream) {
	t.mtx.Lock()
	defer t.mtx.Unlock()

	delete(t.nodes, s)
}

// Len returns the number of tracked streams.
func (t *NodeTable) Len() int {
	t.mtx.Lock()
	defer t.mtx.Unlock()

	return len(t.nodes)
}
