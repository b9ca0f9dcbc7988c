// Package graph wraps the graph database that stores a local copy of the
// movie catalog.
package graph

import (
	"context"
	"errors"
	"fmt"
	"strconv"
)

// Client defines the minimal contract required by the repositories to interact
// with the underlying graph database.
type Client interface {
	ExecuteWrite(ctx context.Context, cypher string, params map[string]any) (Result, error)
	ExecuteRead(ctx context.Context, cypher string, params map[string]any) (Result, error)
	VerifyConnectivity(ctx context.Context) error
	Close(ctx context.Context) error
}

// Result is a simplified representation of a query response.
type Result struct {
	Records []Record
	// Counters summarizes writes. Read queries leave it zero.
	Counters Counters
}

// Counters reports how a write query changed the graph.
type Counters struct {
	NodesCreated         int
	RelationshipsCreated int
	PropertiesSet        int
}

// Add returns the element-wise sum of c and o.
func (c Counters) Add(o Counters) Counters {
	return Counters{
		NodesCreated:         c.NodesCreated + o.NodesCreated,
		RelationshipsCreated: c.RelationshipsCreated + o.RelationshipsCreated,
		PropertiesSet:        c.PropertiesSet + o.PropertiesSet,
	}
}

// Record groups key-value pairs returned from the graph engine.
type Record map[string]any

// String returns the value under key as a string. Integer ids are
// formatted in base 10; other types yield "".
func (r Record) String(key string) string {
	switch v := r[key].(type) {
	case string:
		return v
	case int64:
		return strconv.FormatInt(v, 10)
	case fmt.Stringer:
		return v.String()
	case []byte:
		return string(v)
	default:
		return ""
	}
}

// Int returns the value under key as an int, or 0.
func (r Record) Int(key string) int {
	switch v := r[key].(type) {
	case int64:
		return int(v)
	case int:
		return v
	case float64:
		return int(v)
	default:
		return 0
	}
}

// Maps returns the value under key as a list of maps, skipping elements of
// any other type. Cypher collect({...}) results decode to this shape.
func (r Record) Maps(key string) []map[string]any {
	list, _ := r[key].([]any)
	out := make([]map[string]any, 0, len(list))
	for _, v := range list {
		if m, ok := v.(map[string]any); ok {
			out = append(out, m)
		}
	}
	return out
}

// Options configures a graph client implementation.
type Options struct {
	URI            string
	Database       string
	Username       string
	Password       string
	MaxConnections int
}

// ErrMissingURI indicates the graph URI is not provided.
var ErrMissingURI = errors.New("graph URI is required")
