// Copyright 2025 Kim Wittenburg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package berconv

import (
	"github.com/pkg/errors"

	"codello.dev/berconv/tlv"
)

var errContentTooLarge = errors.WithMessage(tlv.ErrLengthOverflow, "content length exceeds int")

// node is a data value in a tree. The Length of a node is the definite length
// of its content when encoded in definite-length form.
type node struct {
	tlv.Header

	value    []byte // content of a primitive value, shares memory with the input
	children int    // number of direct children of a constructed value
}

// tree is an arena of nodes in document order. Nodes refer to each other by
// position only: the children of a constructed node immediately follow it,
// each followed by its own descendants.
//
// A tree is built by walking the input. The length of each constructed node is
// computed when its content ends, as the sum of the encoded sizes of its
// children.
type tree struct {
	nodes   []node
	parents []int // indices of constructed nodes whose content has not ended
}

// add appends nd as the next child of the innermost open node.
func (t *tree) add(nd node) {
	if len(t.parents) > 0 {
		t.nodes[t.parents[len(t.parents)-1]].children++
	}
	t.nodes = append(t.nodes, nd)
}

// complete adds the encoded size of node i to the length of the innermost open
// node.
func (t *tree) complete(i int) error {
	if len(t.parents) == 0 {
		return nil
	}
	parent := &t.nodes[t.parents[len(t.parents)-1]]
	l := tlv.CombinedLength(parent.Length, t.nodes[i].EncodedLen())
	if l == tlv.LengthIndefinite {
		return errContentTooLarge
	}
	parent.Length = l
	return nil
}

func (t *tree) primitive(h tlv.Header, raw []byte, n int) error {
	t.add(node{Header: h, value: raw[n:]})
	return t.complete(len(t.nodes) - 1)
}

func (t *tree) open(h tlv.Header) error {
	h.Length = 0
	t.add(node{Header: h})
	t.parents = append(t.parents, len(t.nodes)-1)
	return nil
}

func (t *tree) close() error {
	i := t.parents[len(t.parents)-1]
	t.parents = t.parents[:len(t.parents)-1]
	return t.complete(i)
}

// size returns the encoded size of the tree.
func (t *tree) size() int {
	if len(t.nodes) == 0 {
		return 0
	}
	return t.nodes[0].EncodedLen()
}

// emit writes the tree to dst in definite-length form. Every node consumes
// exactly as many following nodes as it has children. The tree must be
// complete.
func (t *tree) emit(dst *tlv.Buffer) error {
	if l := t.size(); l == tlv.LengthIndefinite {
		return errContentTooLarge
	} else if err := dst.Grow(l); err != nil {
		return err
	}

	// pending holds the number of children that are still expected by an
	// open node and the output offset where its content ends.
	type pending struct {
		children int
		end      int
	}
	stack := make([]pending, 1, 10)
	stack[0] = pending{children: min(len(t.nodes), 1), end: -1}

	for _, nd := range t.nodes {
		top := &stack[len(stack)-1]
		if top.children == 0 {
			panic("BUG: node is not part of its parent")
		}
		top.children--

		if _, err := tlv.WriteDefiniteHeader(dst, nd.Tag, nd.Constructed, nd.Length); err != nil {
			return err
		}
		if nd.Constructed {
			stack = append(stack, pending{children: nd.children, end: dst.Len() + nd.Length})
		} else if _, err := dst.Write(nd.value); err != nil {
			return err
		}

		for len(stack) > 1 && stack[len(stack)-1].children == 0 {
			if stack[len(stack)-1].end != dst.Len() {
				panic("BUG: content does not match its length")
			}
			stack = stack[:len(stack)-1]
		}
	}
	if len(stack) != 1 || stack[0].children != 0 {
		panic("BUG: incomplete tree")
	}
	return nil
}
