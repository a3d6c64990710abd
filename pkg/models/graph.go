// Package models defines the canonical workflow representation shared by every
// provider adapter, the sync engine and the enrichment pass.
package models

// NodeKind is the provider-agnostic role of a node inside a workflow graph.
type NodeKind string

const (
	NodeKindTrigger NodeKind = "trigger"
	NodeKindAction  NodeKind = "action"
	NodeKindRouter  NodeKind = "router"
	NodeKindOther   NodeKind = "other" // Reserved, never produced by KindForType
)

// GraphNode is one node of a canonical workflow graph. Kind is derived from
// Type on every normalization pass and is never authoritative.
type GraphNode struct {
	ID    string   `json:"id"`
	Label string   `json:"label"`
	Kind  NodeKind `json:"kind"`
	Type  string   `json:"type"`
}

// GraphEdge connects two nodes of the same graph by id. Edges referencing
// unknown nodes are dropped during normalization.
type GraphEdge struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// Graph is the canonical node/edge representation of a workflow. It is
// produced fresh on every normalization and never mutated in place.
type Graph struct {
	Nodes []GraphNode `json:"nodes"`
	Edges []GraphEdge `json:"edges"`
}

// HasNode reports whether the graph contains a node with the given id.
func (g *Graph) HasNode(id string) bool {
	for _, node := range g.Nodes {
		if node.ID == id {
			return true
		}
	}

	return false
}

// TriggerType returns the provider type of the first trigger node, or an
// empty string when the graph has no trigger.
func (g *Graph) TriggerType() string {
	for _, node := range g.Nodes {
		if node.Kind == NodeKindTrigger {
			return node.Type
		}
	}

	return ""
}
