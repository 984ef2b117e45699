package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github/itish2003/localassist/models"

	chromago "github.com/amikos-tech/chroma-go/pkg/api/v2"
	"github.com/amikos-tech/chroma-go/pkg/embeddings"
	"github.com/sirupsen/logrus"
)

// ChromaStore keeps a collection on a Chroma server.
type ChromaStore struct {
	client     chromago.Client
	collection chromago.Collection
}

// NewChromaStore connects to the Chroma server at baseURL and gets or creates
// a cosine-space collection named name.
func NewChromaStore(ctx context.Context, baseURL, name string) (*ChromaStore, error) {
	client, err := chromago.NewHTTPClient(chromago.WithBaseURL(baseURL))
	if err != nil {
		return nil, fmt.Errorf("failed to create chroma client: %w", err)
	}

	logrus.Debugf("STORE: Getting or creating chroma collection '%s'...", name)
	collection, err := client.GetOrCreateCollection(
		ctx,
		name,
		chromago.WithCollectionMetadataCreate(
			chromago.NewMetadata(
				chromago.NewStringAttribute("hnsw:space", "cosine"),
				chromago.NewStringAttribute("created_by", "localassist"),
			),
		),
	)
	if err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to get or create collection %s: %w", name, err)
	}
	return &ChromaStore{client: client, collection: collection}, nil
}

func (s *ChromaStore) Upsert(ctx context.Context, doc models.Document) error {
	attrs := make([]*chromago.MetaAttribute, 0, len(doc.Metadata))
	for k, v := range doc.Metadata {
		attrs = append(attrs, chromago.NewStringAttribute(k, v))
	}
	opts := []chromago.CollectionAddOption{
		chromago.WithIDs(chromago.DocumentID(doc.ID)),
		chromago.WithEmbeddings(embeddings.NewEmbeddingFromFloat32(doc.Embedding)),
		chromago.WithMetadatas(chromago.NewDocumentMetadata(attrs...)),
	}
	if doc.Text != "" {
		opts = append(opts, chromago.WithTexts(doc.Text))
	}
	if err := s.collection.Upsert(ctx, opts...); err != nil {
		return fmt.Errorf("failed to upsert %s to chromadb: %w", doc.ID, err)
	}
	return nil
}

func (s *ChromaStore) Query(ctx context.Context, embedding []float32, n int) ([]models.Match, error) {
	if n <= 0 {
		return nil, nil
	}
	results, err := s.collection.Query(
		ctx,
		chromago.WithQueryEmbeddings(embeddings.NewEmbeddingFromFloat32(embedding)),
		chromago.WithNResults(n),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query chromadb: %w", err)
	}

	idGroups := results.GetIDGroups()
	if len(idGroups) == 0 {
		return nil, nil
	}
	documentGroups := results.GetDocumentsGroups()
	metadataGroups := results.GetMetadatasGroups()
	distanceGroups := results.GetDistancesGroups()

	matches := make([]models.Match, 0, len(idGroups[0]))
	for i, id := range idGroups[0] {
		doc := models.Document{ID: string(id)}
		if len(documentGroups) > 0 && i < len(documentGroups[0]) && documentGroups[0][i] != nil {
			doc.Text = documentGroups[0][i].ContentString()
		}
		if len(metadataGroups) > 0 && i < len(metadataGroups[0]) {
			doc.Metadata = metadataToMap(doc.ID, metadataGroups[0][i])
		}
		var distance float64
		if len(distanceGroups) > 0 && i < len(distanceGroups[0]) {
			distance = float64(distanceGroups[0][i])
		}
		matches = append(matches, models.Match{Document: doc, Distance: distance})
	}
	return matches, nil
}

func (s *ChromaStore) GetAll(ctx context.Context) ([]models.Document, error) {
	results, err := s.collection.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get documents from chromadb: %w", err)
	}

	ids := results.GetIDs()
	documents := results.GetDocuments()
	metadatas := results.GetMetadatas()

	docs := make([]models.Document, 0, len(ids))
	for i, id := range ids {
		doc := models.Document{ID: string(id)}
		if i < len(documents) && documents[i] != nil {
			doc.Text = documents[i].ContentString()
		}
		if i < len(metadatas) {
			doc.Metadata = metadataToMap(doc.ID, metadatas[i])
		}
		docs = append(docs, doc)
	}
	return docs, nil
}

func (s *ChromaStore) Delete(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	docIDs := make([]chromago.DocumentID, len(ids))
	for i, id := range ids {
		docIDs[i] = chromago.DocumentID(id)
	}
	if err := s.collection.Delete(ctx, chromago.WithIDsDelete(docIDs...)); err != nil {
		return fmt.Errorf("failed to delete records from chromadb: %w", err)
	}
	return nil
}

func (s *ChromaStore) Count(ctx context.Context) (int, error) {
	count, err := s.collection.Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to count items in collection: %w", err)
	}
	return int(count), nil
}

func (s *ChromaStore) Close() error {
	return s.client.Close()
}

// metadataToMap flattens chroma document metadata. DocumentMetadata exposes no
// accessor for all keys, so it goes through its JSON form.
func metadataToMap(id string, metadata chromago.DocumentMetadata) map[string]string {
	out := map[string]string{}
	if metadata == nil {
		return out
	}
	jsonBytes, err := json.Marshal(metadata)
	if err != nil {
		logrus.WithField("id", id).Warnf("STORE: could not marshal metadata: %v", err)
		return out
	}
	var raw map[string]interface{}
	if err := json.Unmarshal(jsonBytes, &raw); err != nil {
		logrus.WithField("id", id).Warnf("STORE: could not unmarshal metadata: %v", err)
		return out
	}
	for k, v := range raw {
		if s, ok := v.(string); ok {
			out[k] = s
		} else if v != nil {
			out[k] = fmt.Sprint(v)
		}
	}
	return out
}

var _ VectorStore = (*ChromaStore)(nil)
