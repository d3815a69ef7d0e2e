package services

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/qdrant/go-client/qdrant"
	"go.uber.org/zap"

	"tenderhub/insight-api/internal/logger"
)

// SearchIndex stores summary embeddings for semantic tender search.
type SearchIndex interface {
	InitCollection(ctx context.Context) error
	Index(ctx context.Context, tenderID, title, summary string) error
	Search(ctx context.Context, query string, limit int) ([]SearchResult, error)
	Ping(ctx context.Context) error
	Close() error
}

type SearchResult struct {
	TenderID string
	Title    string
	Summary  string
	Score    float32
}

type qdrantService struct {
	client         *qdrant.Client
	embedder       Embedder
	collectionName string
	vectorSize     uint64
	log            *zap.Logger
}

func NewQdrantService(urlStr, apiKey, collectionName string, embedder Embedder, log *zap.Logger) (SearchIndex, error) {
	parsed, err := url.Parse(urlStr)
	if err != nil {
		return nil, fmt.Errorf("invalid Qdrant URL: %w", err)
	}

	host := parsed.Hostname()
	useTLS := parsed.Scheme == "https"

	// gRPC port
	port := 6334
	if p := parsed.Port(); p != "" {
		if v, err := strconv.Atoi(p); err == nil {
			port = v
		}
	}

	client, err := qdrant.NewClient(&qdrant.Config{
		Host:   host,
		Port:   port,
		APIKey: apiKey,
		UseTLS: useTLS,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create qdrant client: %w", err)
	}

	return &qdrantService{
		client:         client,
		embedder:       embedder,
		collectionName: collectionName,
		vectorSize:     GeminiEmbeddingSize,
		log:            logger.OrNop(log),
	}, nil
}

// InitCollection implements SearchIndex.
func (q *qdrantService) InitCollection(ctx context.Context) error {
	exists, err := q.client.CollectionExists(ctx, q.collectionName)
	if err != nil {
		return fmt.Errorf("failed to check collection: %w", err)
	}

	if exists {
		q.log.Info("✅ Collection already exists", zap.String("collection", q.collectionName))
		return nil
	}

	err = q.client.CreateCollection(ctx, &qdrant.CreateCollection{
		CollectionName: q.collectionName,
		VectorsConfig: qdrant.NewVectorsConfig(&qdrant.VectorParams{
			Size:     q.vectorSize,
			Distance: qdrant.Distance_Cosine,
		}),
	})
	if err != nil {
		return fmt.Errorf("failed to create collection: %w", err)
	}

	q.log.Info("✅ Qdrant collection created", zap.String("collection", q.collectionName))
	return nil
}

// Index implements SearchIndex. The point id is the tender id, so re-indexing replaces.
func (q *qdrantService) Index(ctx context.Context, tenderID, title, summary string) error {
	embedding, err := q.embedder.Embed(ctx, title+". "+summary)
	if err != nil {
		return err
	}

	point := &qdrant.PointStruct{
		Id:      qdrant.NewID(tenderID),
		Vectors: qdrant.NewVectors(embedding...),
		Payload: qdrant.NewValueMap(map[string]any{
			"tender_id": tenderID,
			"title":     title,
			"summary":   summary,
		}),
	}

	_, err = q.client.Upsert(ctx, &qdrant.UpsertPoints{
		CollectionName: q.collectionName,
		Points:         []*qdrant.PointStruct{point},
	})
	if err != nil {
		return fmt.Errorf("failed to upsert point: %w", err)
	}

	return nil
}

// Search implements SearchIndex.
func (q *qdrantService) Search(ctx context.Context, query string, limit int) ([]SearchResult, error) {
	embedding, err := q.embedder.Embed(ctx, query)
	if err != nil {
		return nil, err
	}

	points, err := q.client.Query(ctx, &qdrant.QueryPoints{
		CollectionName: q.collectionName,
		Query:          qdrant.NewQuery(embedding...),
		Limit:          qdrant.PtrOf(uint64(limit)),
		WithPayload:    qdrant.NewWithPayload(true),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to search: %w", err)
	}

	results := make([]SearchResult, 0, len(points))
	for _, point := range points {
		results = append(results, SearchResult{
			TenderID: payloadString(point.Payload, "tender_id"),
			Title:    payloadString(point.Payload, "title"),
			Summary:  payloadString(point.Payload, "summary"),
			Score:    point.Score,
		})
	}

	return results, nil
}

// Ping implements SearchIndex.
func (q *qdrantService) Ping(ctx context.Context) error {
	_, err := q.client.HealthCheck(ctx)
	return err
}

func (q *qdrantService) Close() error {
	return q.client.Close()
}

func payloadString(payload map[string]*qdrant.Value, key string) string {
	if v, ok := payload[key]; ok {
		if val, ok := v.GetKind().(*qdrant.Value_StringValue); ok {
			return val.StringValue
		}
	}
	return ""
}
