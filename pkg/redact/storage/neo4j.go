package storage

import (
	"context"

	"github.com/neo4j/neo4j-go-driver/v4/neo4j"
	"github.com/pkg/errors"

	"github.com/legaltech-cl/redactor/pkg/redact"
)

// Neo4jStore writes relationship graphs into Neo4j. Entities are merged by
// name so repeated runs over the same document corpus accumulate rather
// than duplicate.
type Neo4jStore struct {
	driver neo4j.Driver
	uri    string
}

// NewNeo4jStore creates a Neo4j-backed graph store.
func NewNeo4jStore(uri, username, password string) (*Neo4jStore, error) {
	driver, err := neo4j.NewDriver(uri, neo4j.BasicAuth(username, password, ""))
	if err != nil {
		return nil, errors.Wrap(err, "creating Neo4j driver")
	}
	return &Neo4jStore{driver: driver, uri: uri}, nil
}

// Connect verifies the server is reachable.
func (s *Neo4jStore) Connect(ctx context.Context) error {
	return errors.Wrapf(s.driver.VerifyConnectivity(), "connecting to %s", s.uri)
}

// Close releases the underlying driver.
func (s *Neo4jStore) Close() error {
	if s.driver != nil {
		return s.driver.Close()
	}
	return nil
}

// StoreGraph writes nodes and weighted edges in one write transaction.
func (s *Neo4jStore) StoreGraph(ctx context.Context, g *redact.GraphData) error {
	session := s.driver.NewSession(neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close()

	_, err := session.WriteTransaction(func(tx neo4j.Transaction) (interface{}, error) {
		for _, node := range g.Nodes {
			_, err := tx.Run(`
				MERGE (e:Entity {name: $name})
				SET e.type = $type, e.updated_at = datetime()
			`, map[string]interface{}{
				"name": node.Label,
				"type": node.Type,
			})
			if err != nil {
				return nil, err
			}
		}

		for _, edge := range g.Edges {
			if edge.Source < 0 || edge.Source >= len(g.Nodes) ||
				edge.Target < 0 || edge.Target >= len(g.Nodes) {
				continue
			}
			_, err := tx.Run(`
				MATCH (a:Entity {name: $from})
				MATCH (b:Entity {name: $to})
				MERGE (a)-[r:APPEARS_WITH]->(b)
				SET r.weight = $weight, r.sample = $sample, r.updated_at = datetime()
			`, map[string]interface{}{
				"from":   g.Nodes[edge.Source].Label,
				"to":     g.Nodes[edge.Target].Label,
				"weight": edge.Weight,
				"sample": edge.Sample,
			})
			if err != nil {
				return nil, err
			}
		}
		return nil, nil
	})

	return errors.Wrap(err, "storing graph in Neo4j")
}

// LoadGraph reads every Entity node and APPEARS_WITH edge back.
func (s *Neo4jStore) LoadGraph(ctx context.Context) (*redact.GraphData, error) {
	session := s.driver.NewSession(neo4j.SessionConfig{AccessMode: neo4j.AccessModeRead})
	defer session.Close()

	g := &redact.GraphData{}
	index := make(map[string]int)

	result, err := session.Run(`MATCH (e:Entity) RETURN e.name, e.type ORDER BY e.name`, nil)
	if err != nil {
		return nil, errors.Wrap(err, "querying entities")
	}
	for result.Next() {
		record := result.Record()
		name, _ := record.Values[0].(string)
		typ, _ := record.Values[1].(string)
		index[name] = len(g.Nodes)
		g.Nodes = append(g.Nodes, redact.GraphNode{Label: name, Type: typ})
	}

	result, err = session.Run(`
		MATCH (a:Entity)-[r:APPEARS_WITH]->(b:Entity)
		RETURN a.name, b.name, r.weight, r.sample
	`, nil)
	if err != nil {
		return nil, errors.Wrap(err, "querying relationships")
	}
	for result.Next() {
		record := result.Record()
		from, _ := record.Values[0].(string)
		to, _ := record.Values[1].(string)
		weight, _ := record.Values[2].(int64)
		sample, _ := record.Values[3].(string)

		src, okA := index[from]
		dst, okB := index[to]
		if !okA || !okB {
			continue
		}
		g.Edges = append(g.Edges, redact.GraphEdge{
			Source: src,
			Target: dst,
			Weight: int(weight),
			Sample: sample,
		})
	}

	return g, nil
}
