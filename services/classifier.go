package services

import (
	"context"
	"fmt"

	"github/itish2003/localassist/store"

	"github.com/sirupsen/logrus"
)

// Uncategorized is assigned when no topics are given.
const Uncategorized = "uncategorized"

// Classifier picks the topic whose label embedding is closest to a document.
// Topic embeddings are memoised for the lifetime of the classifier.
type Classifier struct {
	embedder TextEmbedder
	topics   map[string][]float32
}

func NewClassifier(embedder TextEmbedder) *Classifier {
	return &Classifier{embedder: embedder, topics: make(map[string][]float32)}
}

// DefaultTopic is the fallback category: the first topic, or Uncategorized.
func DefaultTopic(topics []string) string {
	if len(topics) == 0 {
		return Uncategorized
	}
	return topics[0]
}

// Classify returns the topic with the highest cosine similarity to the
// document embedding. Ties go to the earlier topic.
func (c *Classifier) Classify(ctx context.Context, docEmbedding []float32, topics []string) (string, error) {
	if len(topics) == 0 {
		return Uncategorized, nil
	}

	best, bestSim := -1, 0.0
	for i, topic := range topics {
		vec, err := c.topicEmbedding(ctx, topic)
		if err != nil {
			return "", err
		}
		sim, err := store.CosineSimilarity(docEmbedding, vec)
		if err != nil {
			logrus.WithField("topic", topic).Warnf("CLASSIFIER: Skipping topic: %v", err)
			continue
		}
		if best < 0 || sim > bestSim {
			best, bestSim = i, sim
		}
	}
	if best < 0 {
		return DefaultTopic(topics), nil
	}
	logrus.WithField("similarity", bestSim).Debugf("CLASSIFIER: Best topic is '%s'", topics[best])
	return topics[best], nil
}

func (c *Classifier) topicEmbedding(ctx context.Context, topic string) ([]float32, error) {
	if vec, ok := c.topics[topic]; ok {
		return vec, nil
	}
	vec, err := c.embedder.EmbedText(ctx, topic)
	if err != nil {
		return nil, fmt.Errorf("could not embed topic %q: %w", topic, err)
	}
	c.topics[topic] = vec
	return vec, nil
}
