package providers

import "github.com/flowsight/flowsight/pkg/models"

// NodeSpec is the provider-independent projection of one raw node, after an
// adapter has resolved its provider-specific field names.
type NodeSpec struct {
	ID   string
	Name string
	Type string
}

// BuildGraph assembles a canonical graph from extracted nodes and the
// provider's connection map ({sourceName: {port: [[{node: targetName}]]}}).
// Edge targets are resolved by node name; references to unknown names are
// dropped so a malformed connection map can never invalidate the graph.
func BuildGraph(nodes []NodeSpec, connections map[string]any) *models.Graph {
	graph := &models.Graph{
		Nodes: make([]models.GraphNode, 0, len(nodes)),
		Edges: make([]models.GraphEdge, 0),
	}

	idByName := make(map[string]string, len(nodes))

	for _, node := range nodes {
		label := node.Name
		if label == "" {
			label = models.FormatLabel(node.Type)
		}

		graph.Nodes = append(graph.Nodes, models.GraphNode{
			ID:    node.ID,
			Label: label,
			Kind:  models.KindForType(node.Type),
			Type:  node.Type,
		})

		// Unnamed nodes cannot be edge targets; registering them would let
		// a reference with a missing node field resolve to one.
		if node.Name != "" {
			idByName[node.Name] = node.ID
		}
	}

	for sourceName, outputs := range connections {
		fromID, ok := idByName[sourceName]
		if !ok {
			continue
		}

		ports, ok := outputs.(map[string]any)
		if !ok {
			continue
		}

		for _, branches := range ports {
			branchList, ok := branches.([]any)
			if !ok {
				continue
			}

			for _, branch := range branchList {
				targets, ok := branch.([]any)
				if !ok {
					continue
				}

				for _, target := range targets {
					ref, ok := target.(map[string]any)
					if !ok {
						continue
					}

					targetName, _ := ref["node"].(string)

					toID, ok := idByName[targetName]
					if !ok {
						// Dangling reference, drop it.
						continue
					}

					graph.Edges = append(graph.Edges, models.GraphEdge{From: fromID, To: toID})
				}
			}
		}
	}

	return graph
}
