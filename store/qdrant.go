package store

import (
	"context"
	"fmt"

	"github/itish2003/localassist/models"

	"github.com/google/uuid"
	"github.com/qdrant/go-client/qdrant"
	"github.com/sirupsen/logrus"
)

// Payload keys used by QdrantStore; point IDs must be UUIDs so the path
// travels in the payload.
const (
	qdrantIDKey   = "doc_id"
	qdrantTextKey = "text"
)

// QdrantStore keeps a collection on a Qdrant server. The collection is
// created on the first upsert, when the vector size is known.
type QdrantStore struct {
	client     *qdrant.Client
	collection string
}

func NewQdrantStore(host string, port int, collection string) (*QdrantStore, error) {
	if host == "" {
		host = "localhost"
	}
	if port == 0 {
		port = 6334
	}
	client, err := qdrant.NewClient(&qdrant.Config{
		Host: host,
		Port: port,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create qdrant client: %w", err)
	}
	return &QdrantStore{client: client, collection: collection}, nil
}

// pointID derives a stable UUID from a document ID.
func pointID(docID string) *qdrant.PointId {
	return qdrant.NewIDUUID(uuid.NewSHA1(uuid.NameSpaceURL, []byte(docID)).String())
}

func (s *QdrantStore) ensureCollection(ctx context.Context, vectorSize int) error {
	exists, err := s.client.CollectionExists(ctx, s.collection)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}
	logrus.Debugf("STORE: Creating qdrant collection '%s' (size %d)", s.collection, vectorSize)
	return s.client.CreateCollection(ctx, &qdrant.CreateCollection{
		CollectionName: s.collection,
		VectorsConfig: &qdrant.VectorsConfig{
			Config: &qdrant.VectorsConfig_Params{
				Params: &qdrant.VectorParams{
					Size:     uint64(vectorSize),
					Distance: qdrant.Distance_Cosine,
				},
			},
		},
	})
}

func (s *QdrantStore) Upsert(ctx context.Context, doc models.Document) error {
	if err := s.ensureCollection(ctx, len(doc.Embedding)); err != nil {
		return fmt.Errorf("create collection: %w", err)
	}
	payload := map[string]any{
		qdrantIDKey:   doc.ID,
		qdrantTextKey: doc.Text,
	}
	for k, v := range doc.Metadata {
		payload[k] = v
	}
	_, err := s.client.Upsert(ctx, &qdrant.UpsertPoints{
		CollectionName: s.collection,
		Points: []*qdrant.PointStruct{{
			Id:      pointID(doc.ID),
			Vectors: qdrant.NewVectors(doc.Embedding...),
			Payload: qdrant.NewValueMap(payload),
		}},
	})
	if err != nil {
		return fmt.Errorf("failed to upsert %s to qdrant: %w", doc.ID, err)
	}
	return nil
}

func (s *QdrantStore) Query(ctx context.Context, embedding []float32, n int) ([]models.Match, error) {
	if n <= 0 {
		return nil, nil
	}
	limit := uint64(n)
	resp, err := s.client.Query(ctx, &qdrant.QueryPoints{
		CollectionName: s.collection,
		Limit:          &limit,
		Query:          qdrant.NewQuery(embedding...),
		WithPayload:    qdrant.NewWithPayload(true),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to query qdrant: %w", err)
	}
	matches := make([]models.Match, 0, len(resp))
	for _, r := range resp {
		matches = append(matches, models.Match{
			Document: payloadToDocument(r.Payload),
			Distance: 1 - float64(r.Score),
		})
	}
	return matches, nil
}

func (s *QdrantStore) GetAll(ctx context.Context) ([]models.Document, error) {
	n, err := s.Count(ctx)
	if err != nil || n == 0 {
		return nil, err
	}
	limit := uint32(n)
	points, err := s.client.Scroll(ctx, &qdrant.ScrollPoints{
		CollectionName: s.collection,
		Limit:          &limit,
		WithPayload:    qdrant.NewWithPayload(true),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scroll qdrant: %w", err)
	}
	docs := make([]models.Document, 0, len(points))
	for _, p := range points {
		docs = append(docs, payloadToDocument(p.Payload))
	}
	return docs, nil
}

func (s *QdrantStore) Delete(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	pointIDs := make([]*qdrant.PointId, len(ids))
	for i, id := range ids {
		pointIDs[i] = pointID(id)
	}
	wait := true
	_, err := s.client.Delete(ctx, &qdrant.DeletePoints{
		CollectionName: s.collection,
		Wait:           &wait,
		Points:         qdrant.NewPointsSelector(pointIDs...),
	})
	if err != nil {
		return fmt.Errorf("failed to delete records from qdrant: %w", err)
	}
	return nil
}

func (s *QdrantStore) Count(ctx context.Context) (int, error) {
	exists, err := s.client.CollectionExists(ctx, s.collection)
	if err != nil || !exists {
		return 0, err
	}
	exact := true
	n, err := s.client.Count(ctx, &qdrant.CountPoints{
		CollectionName: s.collection,
		Exact:          &exact,
	})
	if err != nil {
		return 0, fmt.Errorf("failed to count qdrant points: %w", err)
	}
	return int(n), nil
}

func (s *QdrantStore) Close() error {
	return s.client.Close()
}

func payloadToDocument(payload map[string]*qdrant.Value) models.Document {
	doc := models.Document{Metadata: map[string]string{}}
	for key, v := range payload {
		s, ok := v.GetKind().(*qdrant.Value_StringValue)
		if !ok {
			continue
		}
		switch key {
		case qdrantIDKey:
			doc.ID = s.StringValue
		case qdrantTextKey:
			doc.Text = s.StringValue
		default:
			doc.Metadata[key] = s.StringValue
		}
	}
	return doc
}

var _ VectorStore = (*QdrantStore)(nil)
