package qdrantDB

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/qdrant/go-client/qdrant"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/rcastellanos/InvoiceRAG/internal/config"
	"github.com/rcastellanos/InvoiceRAG/internal/domain/invoiceModel"
	"github.com/rcastellanos/InvoiceRAG/pkg/logger_i"
)

var dimension = uint64(config.EmbeddingOutputDimensionality)

type ClientHolder struct {
	qObj   *qdrant.Client
	logger *logger_i.Logger
}

// NewClient connects to Qdrant. The client is shut down when ctx is
// cancelled.
func NewClient(ctx context.Context) (*ClientHolder, error) {
	logger := logger_i.NewLogger("Qdrant")

	host := os.Getenv("QDRANT_HOST")
	port, er := strconv.Atoi(os.Getenv("QDRANT_PORT"))
	if host == "" || er != nil {
		host = config.QdrantHost
		port = config.QdrantGrpcPort
	}

	client, err := qdrant.NewClient(&qdrant.Config{
		Host:     host,
		Port:     port,
		UseTLS:   config.QdrantUseTLS,
		PoolSize: uint(config.QdrantPoolSize),
	})
	if err != nil {
		logger.Error("could not instantiate: ", "error:", err)
		return nil, err
	}

	holder := &ClientHolder{qObj: client, logger: logger}
	go holder.closeOnDone(ctx)
	return holder, nil
}

func (db *ClientHolder) closeOnDone(ctx context.Context) {
	<-ctx.Done()
	db.logger.Info("Shutting down Qdrant")
	if err := db.qObj.Close(); err != nil {
		db.logger.Error("could not close Qdrant: ", "error:", err)
	}
}

func (db *ClientHolder) EnsureCollection(ctx context.Context, name string) error {
	if name == "" {
		return errors.New("empty collection name")
	}

	exists, err := db.qObj.CollectionExists(ctx, name)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}

	return db.qObj.CreateCollection(ctx, &qdrant.CreateCollection{
		CollectionName: name,
		VectorsConfig: qdrant.NewVectorsConfig(&qdrant.VectorParams{
			Size:     dimension,
			Distance: qdrant.Distance_Cosine,
		}),
	})
}

func (db *ClientHolder) CollectionExists(ctx context.Context, name string) (bool, error) {
	return db.qObj.CollectionExists(ctx, name)
}

func (db *ClientHolder) DeleteCollection(ctx context.Context, name string) error {
	err := db.qObj.DeleteCollection(ctx, name)
	if err != nil && status.Code(err) == codes.NotFound {
		//already gone, nothing to mask
		return nil
	}
	return err
}

func (db *ClientHolder) UpsertBatch(ctx context.Context, collection string, startID uint64, docs []invoiceModel.Document, vectors [][]float32) error {
	if len(docs) != len(vectors) {
		return fmt.Errorf("mismatch: got %d documents but %d vectors", len(docs), len(vectors))
	}

	points := make([]*qdrant.PointStruct, len(docs))
	for i, doc := range docs {
		payload := map[string]any{
			"key":     doc.Key,
			"content": doc.Text,
		}
		for tag, value := range doc.Tags {
			payload[tag] = value
		}

		points[i] = &qdrant.PointStruct{
			Id:      qdrant.NewIDNum(startID + uint64(i)),
			Vectors: qdrant.NewVectors(vectors[i]...),
			Payload: qdrant.NewValueMap(payload),
		}
	}

	_, err := db.qObj.Upsert(ctx, &qdrant.UpsertPoints{
		CollectionName: collection,
		Points:         points,
		Wait:           qdrant.PtrOf(true),
	})
	if err != nil {
		return fmt.Errorf("qdrant upsert failed: %w", err)
	}
	return nil
}

func (db *ClientHolder) Search(ctx context.Context, collection string, vector []float32, limit uint64) ([]invoiceModel.Document, error) {
	return db.query(ctx, collection, vector, limit, nil)
}

func (db *ClientHolder) SearchSummaries(ctx context.Context, collection string, vector []float32, limit uint64) ([]invoiceModel.Document, error) {
	filter := &qdrant.Filter{
		Must: []*qdrant.Condition{
			qdrant.NewMatch("kind", invoiceModel.DocKindSummary),
		},
	}
	return db.query(ctx, collection, vector, limit, filter)
}

func (db *ClientHolder) query(ctx context.Context, collection string, vector []float32, limit uint64, filter *qdrant.Filter) ([]invoiceModel.Document, error) {
	loggr := db.logger.With("traceId", ctx.Value(config.TRACE_ID_KEY))

	result, err := db.qObj.Query(ctx, &qdrant.QueryPoints{
		CollectionName: collection,
		Query:          qdrant.NewQuery(vector...),
		Limit:          qdrant.PtrOf(limit),
		WithPayload:    qdrant.NewWithPayload(true),
		Filter:         filter,
	})
	if err != nil {
		loggr.Error("Error querying Qdrant: ", "error:", err)
		return nil, err
	}

	docs := make([]invoiceModel.Document, 0, len(result))
	for _, hit := range result {
		docs = append(docs, documentFromPayload(hit.Payload))
	}

	loggr.Debug("Qdrant query done", "collection", collection, "hits", len(docs))
	return docs, nil
}

func documentFromPayload(payload map[string]*qdrant.Value) invoiceModel.Document {
	doc := invoiceModel.Document{
		Key:  payload["key"].GetStringValue(),
		Text: payload["content"].GetStringValue(),
		Tags: map[string]any{},
	}
	for name, value := range payload {
		if name == "key" || name == "content" {
			continue
		}
		switch v := value.GetKind().(type) {
		case *qdrant.Value_StringValue:
			doc.Tags[name] = v.StringValue
		case *qdrant.Value_IntegerValue:
			doc.Tags[name] = int(v.IntegerValue)
		case *qdrant.Value_DoubleValue:
			doc.Tags[name] = v.DoubleValue
		}
	}
	return doc
}
