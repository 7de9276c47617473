package trie

import (
	"fmt"
	"strconv"

	"github.com/emicklei/dot"

	"github.com/Taraxa-project/light-verifier/crypto/keccak256"
)

// DotProof renders proof nodes and the references between them as a
// graphviz graph. Referenced nodes the proof lacks show up as bare hashes.
func DotProof(proof [][]byte) (*dot.Graph, error) {
	g := dot.NewGraph(dot.Directed)
	embedded := 0
	var draw func(from dot.Node, n node)
	draw = func(from dot.Node, n node) {
		child := func(c node, label string) {
			switch c := c.(type) {
			case nil:
			case hash_node:
				g.Edge(from, g.Node(short_id(c)), label)
			case value_node:
				leaf := g.Node("v" + strconv.Itoa(embedded)).Label(fmt.Sprintf("%x", []byte(c)))
				embedded++
				g.AddToSameRank("leaves", leaf)
				g.Edge(from, leaf, label)
			default:
				inner := g.Node("e" + strconv.Itoa(embedded)).Label(kind_of(c))
				embedded++
				g.Edge(from, inner, label)
				draw(inner, c)
			}
		}
		switch n := n.(type) {
		case *full_node:
			for i, c := range &n.Children {
				child(c, indices[i])
			}
		case *short_node:
			child(n.Val, fmt.Sprintf("%x", n.Key))
		}
	}
	for i, enc := range proof {
		n, err := decode_node(enc)
		if err != nil {
			return nil, fmt.Errorf("proof node %d: %v", i, err)
		}
		h := keccak256.Hash(enc)
		from := g.Node(short_id(h[:])).Label(short_id(h[:]) + " " + kind_of(n))
		draw(from, n)
	}
	return g, nil
}

func short_id(h []byte) string {
	return fmt.Sprintf("%x", h[:4])
}

func kind_of(n node) string {
	switch n.(type) {
	case *full_node:
		return "branch"
	case *short_node:
		if has_term(n.(*short_node).Key) {
			return "leaf"
		}
		return "extension"
	default:
		return fmt.Sprintf("%T", n)
	}
}
