package graph

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/labx/labrest/internal/errors"
)

// Client owns the single long-lived connection to the graph store. The
// underlying driver call is a blocking, single-round-trip-per-call network
// client, so every operation is dispatched onto the bounded worker pool and
// the calling goroutine waits on the future, never on the socket.
type Client struct {
	driver   neo4j.DriverWithContext
	database string
	pool     *Pool
	logger   *slog.Logger
}

// Options configures the client connection and its worker pool.
type Options struct {
	URI      string
	User     string
	Password string
	Database string
	Workers  int
	// RPS rate-limits graph submissions across the pool. Zero disables.
	RPS float64
}

// NewClient connects to the graph store and verifies connectivity.
// Fails fast at startup when the store is unreachable.
func NewClient(ctx context.Context, opts Options) (*Client, error) {
	if opts.URI == "" || opts.User == "" || opts.Password == "" {
		return nil, errors.New(errors.TypeGraphConnection,
			fmt.Sprintf("graph credentials missing: uri=%s, user=%s", opts.URI, opts.User))
	}
	if opts.Database == "" {
		opts.Database = "neo4j"
	}

	driver, err := neo4j.NewDriverWithContext(opts.URI,
		neo4j.BasicAuth(opts.User, opts.Password, ""),
		func(config *neo4j.Config) {
			config.MaxConnectionPoolSize = 50
			config.ConnectionAcquisitionTimeout = 60 * time.Second
			config.SocketConnectTimeout = 5 * time.Second
			config.SocketKeepalive = true
		})
	if err != nil {
		return nil, errors.GraphConnectionError(err, "failed to create graph driver")
	}

	if err := driver.VerifyConnectivity(ctx); err != nil {
		driver.Close(ctx)
		return nil, errors.GraphConnectionError(err, fmt.Sprintf("failed to connect to graph store at %s", opts.URI))
	}

	logger := slog.Default().With("component", "graph")
	logger.Info("graph client connected",
		"uri", opts.URI,
		"database", opts.Database,
		"workers", opts.Workers)

	return &Client{
		driver:   driver,
		database: opts.Database,
		pool:     NewPool(opts.Workers, opts.RPS),
		logger:   logger,
	}, nil
}

// Close drains the worker pool and closes the driver.
func (c *Client) Close(ctx context.Context) error {
	c.pool.Close()
	if err := c.driver.Close(ctx); err != nil {
		return fmt.Errorf("failed to close graph driver: %w", err)
	}
	c.logger.Info("graph client closed")
	return nil
}

// HealthCheck verifies store connectivity.
func (c *Client) HealthCheck(ctx context.Context) error {
	if err := c.driver.VerifyConnectivity(ctx); err != nil {
		return errors.GraphConnectionError(err, "graph health check failed")
	}
	return nil
}

// Submit runs a parameterized query on the worker pool and returns the
// result rows as maps.
func (c *Client) Submit(ctx context.Context, query string, bindings map[string]any) ([]map[string]any, error) {
	value, err := c.pool.Run(ctx, func(ctx context.Context) (any, error) {
		result, err := neo4j.ExecuteQuery(ctx, c.driver, query, bindings,
			neo4j.EagerResultTransformer,
			neo4j.ExecuteQueryWithDatabase(c.database))
		if err != nil {
			return nil, fmt.Errorf("query execution failed: %w", err)
		}

		rows := make([]map[string]any, 0, len(result.Records))
		for _, record := range result.Records {
			rows = append(rows, record.AsMap())
		}
		return rows, nil
	})
	if err != nil {
		return nil, err
	}
	return value.([]map[string]any), nil
}

// AddVertex inserts a vertex with one property clause per field and returns
// the store's internal id in the envelope.
func (c *Client) AddVertex(ctx context.Context, label string, properties map[string]any) Result {
	builder := NewCypherBuilder()
	query, err := builder.BuildCreateVertex(label, properties)
	if err != nil {
		return errorResult(err)
	}

	rows, err := c.Submit(ctx, query, builder.Params())
	if err != nil {
		return errorResult(err)
	}
	if len(rows) == 0 {
		return errorResult(fmt.Errorf("vertex insert returned no id for label %s", label))
	}

	res := successResult()
	res.ID = fmt.Sprintf("%v", rows[0]["id"])
	c.logger.Debug("vertex inserted", "label", label, "id", res.ID)
	return res
}

// UpdateVertex re-reads the vertex's current property map, diffs it against
// the incoming properties with string normalization, and writes only the
// changed fields. No changed fields means no write at all.
func (c *Client) UpdateVertex(ctx context.Context, label, internalID string, properties map[string]any) Result {
	if !isValidIdentifier(label) {
		return errorResult(fmt.Errorf("invalid vertex label: %q", label))
	}

	rows, err := c.Submit(ctx,
		fmt.Sprintf("MATCH (n:%s) WHERE elementId(n) = $id RETURN properties(n) AS props", label),
		map[string]any{"id": internalID})
	if err != nil {
		return errorResult(err)
	}
	if len(rows) == 0 {
		return Result{Status: StatusNotFound, Message: fmt.Sprintf("vertex %s not found", internalID)}
	}

	existing := map[string]any{}
	if props, ok := rows[0]["props"].(map[string]any); ok {
		existing = FlattenProperties(props)
	}

	changed := DiffProperties(existing, properties)
	if len(changed) == 0 {
		c.logger.Debug("vertex unchanged, skipping write", "label", label, "id", internalID)
		return Result{Status: StatusNotUpdated, ID: internalID}
	}

	builder := NewCypherBuilder()
	query, err := builder.BuildUpdateVertex(label, internalID, changed)
	if err != nil {
		return errorResult(err)
	}
	if _, err := c.Submit(ctx, query, builder.Params()); err != nil {
		return errorResult(err)
	}

	c.logger.Debug("vertex updated", "label", label, "id", internalID, "changed_fields", len(changed))
	res := successResult()
	res.ID = internalID
	return res
}

// QueryVertices runs a filtered, paginated read. Each data row carries the
// internal id and the flattened property map.
func (c *Client) QueryVertices(ctx context.Context, label string, filters map[string]any, limit, skip int) Result {
	builder := NewCypherBuilder()
	query, err := builder.BuildQueryVertices(label, filters, limit, skip)
	if err != nil {
		return errorResult(err)
	}

	rows, err := c.Submit(ctx, query, builder.Params())
	if err != nil {
		return errorResult(err)
	}

	res := successResult()
	res.Data = make([]map[string]any, 0, len(rows))
	for _, row := range rows {
		props := map[string]any{}
		if m, ok := row["props"].(map[string]any); ok {
			props = FlattenProperties(m)
		}
		res.Data = append(res.Data, map[string]any{
			"id":         fmt.Sprintf("%v", row["id"]),
			"properties": props,
		})
	}
	return res
}

// AddEdge inserts one labeled edge between two vertices addressed by
// internal id.
func (c *Client) AddEdge(ctx context.Context, label, fromID, toID string, properties map[string]any) Result {
	builder := NewCypherBuilder()
	query, err := builder.BuildCreateEdge(label, fromID, toID, properties)
	if err != nil {
		return errorResult(err)
	}

	rows, err := c.Submit(ctx, query, builder.Params())
	if err != nil {
		return errorResult(err)
	}
	if len(rows) == 0 {
		return errorResult(fmt.Errorf("edge %s not created, endpoint missing: from=%s to=%s", label, fromID, toID))
	}

	res := successResult()
	res.ID = fmt.Sprintf("%v", rows[0]["id"])
	return res
}

// DeleteVertices checks existence per id before dropping, so the caller can
// tell "not found" from "deleted" in the aggregate. Per-id outcomes land in
// the envelope's data rows as {id, status}.
func (c *Client) DeleteVertices(ctx context.Context, label string, ids []string) Result {
	if !isValidIdentifier(label) {
		return errorResult(fmt.Errorf("invalid vertex label: %q", label))
	}

	res := successResult()
	res.Data = make([]map[string]any, 0, len(ids))
	for _, id := range ids {
		res.Data = append(res.Data, c.deleteOne(ctx, label, id))
	}
	return res
}

func (c *Client) deleteOne(ctx context.Context, label, id string) map[string]any {
	rows, err := c.Submit(ctx,
		fmt.Sprintf("MATCH (n:%s) WHERE elementId(n) = $id RETURN elementId(n) AS id", label),
		map[string]any{"id": id})
	if err != nil {
		return map[string]any{"id": id, "status": StatusError, "message": err.Error()}
	}
	if len(rows) == 0 {
		return map[string]any{"id": id, "status": StatusNotFound}
	}

	_, err = c.Submit(ctx,
		fmt.Sprintf("MATCH (n:%s) WHERE elementId(n) = $id DETACH DELETE n", label),
		map[string]any{"id": id})
	if err != nil {
		return map[string]any{"id": id, "status": StatusError, "message": err.Error()}
	}

	c.logger.Debug("vertex deleted", "label", label, "id", id)
	return map[string]any{"id": id, "status": StatusDeleted}
}
