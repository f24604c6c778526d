package graph

// GraphNode is a node as returned to API clients and the visualization layer.
type GraphNode struct {
	// ID is the Neo4j ElementId.
	ID string `json:"id"`

	// Labels are every label on the node, e.g. ["Things"].
	Labels []string `json:"labels"`

	Properties map[string]any `json:"properties"`
}

// Edge is a relationship between two GraphNodes, referenced by ElementId.
type Edge struct {
	ID         string         `json:"id"`
	Source     string         `json:"source"`
	Target     string         `json:"target"`
	Type       string         `json:"type"`
	Properties map[string]any `json:"properties"`
}

// GraphResult is the nodes/edges document most graph renderers consume.
type GraphResult struct {
	Nodes []*GraphNode `json:"nodes"`
	Edges []*Edge      `json:"edges"`
}
