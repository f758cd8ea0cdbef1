// Package visualizer renders the entity relationship map of a processed
// document as a standalone D3.js HTML page.
package visualizer

import (
	"bytes"
	"encoding/json"
	"html/template"
	"os"
	"path/filepath"

	"github.com/pkg/errors"

	"github.com/legaltech-cl/redactor/pkg/redact"
)

const d3Template = `<!DOCTYPE html>
<html lang="es">
<head>
    <meta charset="utf-8">
    <title>Mapa de relaciones del documento</title>
    <script src="https://d3js.org/d3.v7.min.js"></script>
    <style>
        body {
            margin: 0;
            font-family: Arial, sans-serif;
        }
        #map {
            width: 100%;
            height: 100vh;
            background-color: #fafafa;
        }
        .party {
            stroke: #fff;
            stroke-width: 1.5px;
        }
        .relation {
            stroke: #888;
            stroke-opacity: 0.55;
        }
        .party-name {
            font-size: 11px;
            pointer-events: none;
        }
        .panel {
            position: absolute;
            top: 10px;
            left: 10px;
            background-color: rgba(255,255,255,0.85);
            padding: 10px 14px;
            border-radius: 4px;
            box-shadow: 0 0 8px rgba(0,0,0,0.15);
        }
        .panel h3 { margin: 0 0 4px 0; }
    </style>
</head>
<body>
    <div id="map"></div>
    <div class="panel">
        <h3>Partes del documento</h3>
        <p>Entidades: {{.NodeCount}} &middot; Relaciones: {{.EdgeCount}}</p>
        <p>Generado: {{.GeneratedAt}}</p>
    </div>

    <script>
        const data = {{.GraphJSON}};
        data.edges = data.edges || [];
        data.nodes = data.nodes || [];

        // Edge endpoints are indices into the node array, which is
        // d3.forceLink's default id accessor.
        const simulation = d3.forceSimulation(data.nodes)
            .force("link", d3.forceLink(data.edges).distance(120))
            .force("charge", d3.forceManyBody().strength(-250))
            .force("center", d3.forceCenter(window.innerWidth / 2, window.innerHeight / 2));

        const svg = d3.select("#map")
            .append("svg")
            .attr("width", "100%")
            .attr("height", "100%")
            .call(d3.zoom().on("zoom", (event) => {
                canvas.attr("transform", event.transform);
            }));

        const canvas = svg.append("g");

        const color = d3.scaleOrdinal()
            .domain(["NATURAL_PERSON", "LEGAL_PERSON", "PROFESSIONAL", "AUTHORITY"])
            .range(["#1f77b4", "#ff7f0e", "#2ca02c", "#d62728"]);

        const relation = canvas.append("g")
            .selectAll("line")
            .data(data.edges)
            .enter()
            .append("line")
            .attr("class", "relation")
            .attr("stroke-width", d => 1 + Math.sqrt(d.weight));

        relation.append("title")
            .text(d => "peso " + d.weight + (d.sample ? "\n" + d.sample : ""));

        const party = canvas.append("g")
            .selectAll("circle")
            .data(data.nodes)
            .enter()
            .append("circle")
            .attr("class", "party")
            .attr("r", 9)
            .attr("fill", d => color(d.type))
            .call(d3.drag()
                .on("start", (event, d) => {
                    if (!event.active) simulation.alphaTarget(0.3).restart();
                    d.fx = d.x;
                    d.fy = d.y;
                })
                .on("drag", (event, d) => {
                    d.fx = event.x;
                    d.fy = event.y;
                })
                .on("end", (event, d) => {
                    if (!event.active) simulation.alphaTarget(0);
                    d.fx = null;
                    d.fy = null;
                }));

        party.append("title")
            .text(d => d.label + " (" + d.type + ")");

        const name = canvas.append("g")
            .selectAll("text")
            .data(data.nodes)
            .enter()
            .append("text")
            .attr("class", "party-name")
            .attr("dx", 13)
            .attr("dy", ".35em")
            .text(d => d.label);

        simulation.on("tick", () => {
            relation
                .attr("x1", d => d.source.x)
                .attr("y1", d => d.source.y)
                .attr("x2", d => d.target.x)
                .attr("y2", d => d.target.y);
            party
                .attr("cx", d => d.x)
                .attr("cy", d => d.y);
            name
                .attr("x", d => d.x)
                .attr("y", d => d.y);
        });
    </script>
</body>
</html>
`

// D3 writes a force-directed relationship map as a self-contained HTML
// file.
type D3 struct {
	outputPath string
}

// NewD3 creates an HTML visualizer writing to outputPath.
func NewD3(outputPath string) *D3 {
	return &D3{outputPath: outputPath}
}

// Visualize implements redact.Visualizer.
func (v *D3) Visualize(g *redact.GraphData) error {
	if err := os.MkdirAll(filepath.Dir(v.outputPath), 0o755); err != nil {
		return errors.Wrap(err, "creating visualization directory")
	}

	graphJSON, err := json.Marshal(g)
	if err != nil {
		return errors.Wrap(err, "encoding graph")
	}

	tmpl, err := template.New("relations").Parse(d3Template)
	if err != nil {
		return errors.Wrap(err, "parsing template")
	}

	var buf bytes.Buffer
	err = tmpl.Execute(&buf, struct {
		GraphJSON   template.JS
		NodeCount   int
		EdgeCount   int
		GeneratedAt string
	}{
		GraphJSON:   template.JS(graphJSON),
		NodeCount:   len(g.Nodes),
		EdgeCount:   len(g.Edges),
		GeneratedAt: g.GeneratedAt.Format("2006-01-02 15:04:05"),
	})
	if err != nil {
		return errors.Wrap(err, "rendering template")
	}

	return errors.Wrap(os.WriteFile(v.outputPath, buf.Bytes(), 0o644), "writing visualization")
}
