// Package vectorstore is the Qdrant boundary: primitive-payload points in,
// scored points out. Index rebuilds are two-phase: points go into a fresh
// generation collection, then the serving alias is repointed atomically so
// queries never observe an empty or half-written index.
package vectorstore

import (
	"context"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/qdrant/go-client/qdrant"
)

// Store wraps the Qdrant client with connection management, health checks
// and the alias-based generation scheme.
type Store struct {
	client *qdrant.Client
	alias  string
	host   string
	port   int
}

// New creates a Store serving queries through the given collection alias.
// It health-checks Qdrant with backoff on startup and fails fast when the
// server is unreachable.
func New(host string, port int, alias string) (*Store, error) {
	client, err := qdrant.NewClient(&qdrant.Config{
		Host: host,
		Port: port,
	})
	if err != nil {
		return nil, fmt.Errorf("create qdrant client: %w", err)
	}

	s := &Store{
		client: client,
		alias:  alias,
		host:   host,
		port:   port,
	}

	if err := s.healthCheckWithRetry(context.Background()); err != nil {
		client.Close()
		return nil, fmt.Errorf("%w: %v", ErrUnreachable, err)
	}

	return s, nil
}

// Alias returns the serving alias queries run against.
func (s *Store) Alias() string { return s.alias }

func (s *Store) healthCheckWithRetry(ctx context.Context) error {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 500 * time.Millisecond
	b.MaxInterval = 10 * time.Second
	b.MaxElapsedTime = 30 * time.Second

	return backoff.Retry(func() error {
		return s.Health(ctx)
	}, backoff.WithContext(b, ctx))
}

// Health performs a single health check against Qdrant.
func (s *Store) Health(ctx context.Context) error {
	result, err := s.client.HealthCheck(ctx)
	if err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}
	if result == nil || result.Title == "" {
		return fmt.Errorf("health check returned invalid response")
	}
	return nil
}

// Close closes the Qdrant client connection.
func (s *Store) Close() error {
	if s.client != nil {
		return s.client.Close()
	}
	return nil
}

// BeginRebuild creates a fresh generation collection and returns its name.
// The serving alias keeps pointing at the previous generation until
// CommitRebuild.
func (s *Store) BeginRebuild(ctx context.Context) (string, error) {
	name := fmt.Sprintf("%s_%d", s.alias, time.Now().UnixNano())
	err := s.client.CreateCollection(ctx, &qdrant.CreateCollection{
		CollectionName: name,
		VectorsConfig: qdrant.NewVectorsConfig(&qdrant.VectorParams{
			Size:     VectorDimension,
			Distance: qdrant.Distance_Cosine,
		}),
	})
	if err != nil {
		return "", fmt.Errorf("create collection %s: %w", name, err)
	}
	return name, nil
}

// CommitRebuild atomically repoints the serving alias at the staging
// collection, then drops the previous generations. Dropping is destructive
// and non-recoverable; the caller logs it.
func (s *Store) CommitRebuild(ctx context.Context, staging string) error {
	aliases, err := s.client.ListAliases(ctx)
	if err != nil {
		return fmt.Errorf("list aliases: %w", err)
	}

	var actions []*qdrant.AliasOperations
	var stale []string
	for _, a := range aliases {
		if a.GetAliasName() == s.alias {
			stale = append(stale, a.GetCollectionName())
			actions = append(actions, qdrant.NewAliasDelete(s.alias))
		}
	}
	actions = append(actions, qdrant.NewAliasCreate(s.alias, staging))

	if err := s.client.UpdateAliases(ctx, actions); err != nil {
		return fmt.Errorf("swap alias %s -> %s: %w", s.alias, staging, err)
	}

	for _, name := range stale {
		if name == staging {
			continue
		}
		if err := s.client.DeleteCollection(ctx, name); err != nil {
			return fmt.Errorf("drop previous generation %s: %w", name, err)
		}
	}
	return nil
}

// AbortRebuild drops an uncommitted staging collection after a failed build.
func (s *Store) AbortRebuild(ctx context.Context, staging string) error {
	if err := s.client.DeleteCollection(ctx, staging); err != nil {
		return fmt.Errorf("drop staging collection %s: %w", staging, err)
	}
	return nil
}

// HasIndex reports whether the serving alias points at a collection.
func (s *Store) HasIndex(ctx context.Context) (bool, error) {
	aliases, err := s.client.ListAliases(ctx)
	if err != nil {
		return false, fmt.Errorf("list aliases: %w", err)
	}
	for _, a := range aliases {
		if a.GetAliasName() == s.alias {
			return true, nil
		}
	}
	return false, nil
}

// UpsertPoints writes points into the named collection, batched in groups
// of 100 and retried with backoff. Payload values must already be
// primitives (see Sanitize).
func (s *Store) UpsertPoints(ctx context.Context, collection string, points []Point) error {
	if len(points) == 0 {
		return nil
	}

	for i, p := range points {
		if len(p.Vector) != VectorDimension {
			return fmt.Errorf("%w: point %d has %d dimensions, expected %d",
				ErrDimensionMismatch, i, len(p.Vector), VectorDimension)
		}
	}

	const batchSize = 100
	for i := 0; i < len(points); i += batchSize {
		end := min(i+batchSize, len(points))
		batch := points[i:end]

		structs := make([]*qdrant.PointStruct, len(batch))
		for j, p := range batch {
			structs[j] = &qdrant.PointStruct{
				Id:      qdrant.NewIDUUID(p.ID),
				Vectors: qdrant.NewVectors(p.Vector...),
				Payload: qdrant.NewValueMap(p.Payload),
			}
		}

		if err := s.upsertWithRetry(ctx, collection, structs); err != nil {
			return fmt.Errorf("upsert batch %d-%d: %w", i, end, err)
		}
	}
	return nil
}

func (s *Store) upsertWithRetry(ctx context.Context, collection string, points []*qdrant.PointStruct) error {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 500 * time.Millisecond
	b.MaxInterval = 10 * time.Second
	b.MaxElapsedTime = 30 * time.Second

	return backoff.Retry(func() error {
		_, err := s.client.Upsert(ctx, &qdrant.UpsertPoints{
			CollectionName: collection,
			Points:         points,
		})
		return err
	}, backoff.WithContext(b, ctx))
}

// SearchWithScores runs a similarity query against the serving alias and
// returns up to limit hits ordered by descending cosine similarity.
func (s *Store) SearchWithScores(ctx context.Context, vector []float32, limit int) ([]ScoredPoint, error) {
	if len(vector) != VectorDimension {
		return nil, fmt.Errorf("%w: query has %d dimensions, expected %d",
			ErrDimensionMismatch, len(vector), VectorDimension)
	}

	results, err := s.client.Query(ctx, &qdrant.QueryPoints{
		CollectionName: s.alias,
		Query:          qdrant.NewQuery(vector...),
		Limit:          qdrant.PtrOf(uint64(limit)),
		WithPayload:    qdrant.NewWithPayload(true),
	})
	if err != nil {
		return nil, fmt.Errorf("search points: %w", err)
	}

	hits := make([]ScoredPoint, 0, len(results))
	for _, r := range results {
		hits = append(hits, ScoredPoint{
			ID:      r.Id.GetUuid(),
			Payload: payloadToMap(r.Payload),
			Score:   float64(r.Score),
		})
	}
	return hits, nil
}

// payloadToMap converts Qdrant payload values back to plain Go values.
// Only the primitive kinds the sanitizer emits are expected.
func payloadToMap(payload map[string]*qdrant.Value) map[string]any {
	out := make(map[string]any, len(payload))
	for k, v := range payload {
		switch v.GetKind().(type) {
		case *qdrant.Value_StringValue:
			out[k] = v.GetStringValue()
		case *qdrant.Value_IntegerValue:
			out[k] = v.GetIntegerValue()
		case *qdrant.Value_DoubleValue:
			out[k] = v.GetDoubleValue()
		case *qdrant.Value_BoolValue:
			out[k] = v.GetBoolValue()
		}
	}
	return out
}
