// Package qdrant provides a driven.VectorStore backed by a Qdrant server over gRPC.
//
// Qdrant point IDs must be UUIDs or integers, so each DocumentID is mapped to a
// name-based UUIDv5 and the original ID is kept in the point payload.
package qdrant

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	pb "github.com/qdrant/go-client/qdrant"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"

	"github.com/custodia-labs/jobmatch/internal/core/domain"
	"github.com/custodia-labs/jobmatch/internal/core/ports/driven"
)

// Payload keys reserved by the adapter.
const (
	PayloadDocID    = "doc_id"
	PayloadDocument = "document"
)

// pointNamespace scopes the UUIDv5 point IDs generated from DocumentIDs.
var pointNamespace = uuid.MustParse("6f1c3b2e-8a54-4d0b-9c1e-3f7a2d9e5b10")

// Ensure VectorStore implements the interface.
var _ driven.VectorStore = (*VectorStore)(nil)

// pointsAPI is the subset of pb.PointsClient used by the store.
type pointsAPI interface {
	Upsert(ctx context.Context, in *pb.UpsertPoints, opts ...grpc.CallOption) (*pb.PointsOperationResponse, error)
	Count(ctx context.Context, in *pb.CountPoints, opts ...grpc.CallOption) (*pb.CountResponse, error)
	Search(ctx context.Context, in *pb.SearchPoints, opts ...grpc.CallOption) (*pb.SearchResponse, error)
}

// collectionsAPI is the subset of pb.CollectionsClient used by the store.
type collectionsAPI interface {
	CollectionExists(
		ctx context.Context, in *pb.CollectionExistsRequest, opts ...grpc.CallOption,
	) (*pb.CollectionExistsResponse, error)
	Create(ctx context.Context, in *pb.CreateCollection, opts ...grpc.CallOption) (*pb.CollectionOperationResponse, error)
	Delete(ctx context.Context, in *pb.DeleteCollection, opts ...grpc.CallOption) (*pb.CollectionOperationResponse, error)
}

// VectorStore stores job documents in one Qdrant collection.
type VectorStore struct {
	conn        *grpc.ClientConn
	points      pointsAPI
	collections collectionsAPI
	collection  string

	mu    sync.Mutex
	ready bool
}

// NewVectorStore connects to Qdrant at host:port. The collection is created
// with cosine distance on the first upsert, once the vector size is known.
func NewVectorStore(host string, port int, collection string) (*VectorStore, error) {
	if collection == "" {
		return nil, fmt.Errorf("%w: collection name is required", domain.ErrInvalidInput)
	}
	addr := fmt.Sprintf("%s:%d", host, port)
	conn, err := grpc.NewClient(addr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, fmt.Errorf("qdrant connect: %w", err)
	}
	return &VectorStore{
		conn:        conn,
		points:      pb.NewPointsClient(conn),
		collections: pb.NewCollectionsClient(conn),
		collection:  collection,
	}, nil
}

// PointID returns the Qdrant point UUID for a document.
func PointID(id domain.DocumentID) string {
	return uuid.NewSHA1(pointNamespace, []byte(id)).String()
}

// Upsert writes documents, replacing points with the same ID.
func (s *VectorStore) Upsert(ctx context.Context, docs []domain.IndexedDocument) error {
	if len(docs) == 0 {
		return nil
	}
	if err := s.ensureCollection(ctx, len(docs[0].Embedding)); err != nil {
		return err
	}

	points := make([]*pb.PointStruct, len(docs))
	for i := range docs {
		d := &docs[i]
		payload := map[string]*pb.Value{
			PayloadDocID:    stringValue(d.ID.String()),
			PayloadDocument: stringValue(d.Text),
		}
		for k, v := range d.Metadata {
			payload[k] = stringValue(v)
		}
		points[i] = &pb.PointStruct{
			Id:      &pb.PointId{PointIdOptions: &pb.PointId_Uuid{Uuid: PointID(d.ID)}},
			Vectors: &pb.Vectors{VectorsOptions: &pb.Vectors_Vector{Vector: &pb.Vector{Data: d.Embedding}}},
			Payload: payload,
		}
	}

	wait := true
	_, err := s.points.Upsert(ctx, &pb.UpsertPoints{
		CollectionName: s.collection,
		Wait:           &wait,
		Points:         points,
	})
	if err != nil {
		return fmt.Errorf("qdrant upsert: %w", err)
	}
	return nil
}

// Count returns the exact number of points. A missing collection counts as empty.
func (s *VectorStore) Count(ctx context.Context) (int, error) {
	exact := true
	resp, err := s.points.Count(ctx, &pb.CountPoints{
		CollectionName: s.collection,
		Exact:          &exact,
	})
	if isNotFound(err) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("qdrant count: %w", err)
	}
	return int(resp.GetResult().GetCount()), nil
}

// Query searches the collection by cosine similarity.
func (s *VectorStore) Query(
	ctx context.Context, vector []float32, topK int, filter *domain.Filter,
) ([]driven.VectorHit, error) {
	if topK <= 0 {
		return []driven.VectorHit{}, nil
	}

	req := &pb.SearchPoints{
		CollectionName: s.collection,
		Vector:         vector,
		Limit:          uint64(topK),
		WithPayload:    &pb.WithPayloadSelector{SelectorOptions: &pb.WithPayloadSelector_Enable{Enable: true}},
		Filter:         toFilter(filter),
	}

	resp, err := s.points.Search(ctx, req)
	if isNotFound(err) {
		return []driven.VectorHit{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("qdrant search: %w", err)
	}

	hits := make([]driven.VectorHit, len(resp.GetResult()))
	for i, pt := range resp.GetResult() {
		meta := make(domain.Metadata, len(pt.GetPayload()))
		var id string
		for k, v := range pt.GetPayload() {
			switch k {
			case PayloadDocID:
				id = v.GetStringValue()
			case PayloadDocument:
			default:
				meta[k] = v.GetStringValue()
			}
		}
		hits[i] = driven.VectorHit{
			ID:         domain.DocumentID(id),
			Similarity: float64(pt.GetScore()),
			Metadata:   meta,
		}
	}
	return hits, nil
}

// Reset deletes the collection. It is recreated on the next upsert.
func (s *VectorStore) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.collections.Delete(ctx, &pb.DeleteCollection{CollectionName: s.collection})
	if err != nil && !isNotFound(err) {
		return fmt.Errorf("qdrant delete collection: %w", err)
	}
	s.ready = false
	return nil
}

// Name returns the collection name.
func (s *VectorStore) Name() string {
	return s.collection
}

// Close closes the gRPC connection.
func (s *VectorStore) Close() error {
	if s.conn == nil {
		return nil
	}
	return s.conn.Close()
}

func (s *VectorStore) ensureCollection(ctx context.Context, dims int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.ready {
		return nil
	}

	resp, err := s.collections.CollectionExists(ctx, &pb.CollectionExistsRequest{CollectionName: s.collection})
	if err != nil {
		return fmt.Errorf("qdrant collection exists: %w", err)
	}

	if !resp.GetResult().GetExists() {
		_, err := s.collections.Create(ctx, &pb.CreateCollection{
			CollectionName: s.collection,
			VectorsConfig: &pb.VectorsConfig{Config: &pb.VectorsConfig_Params{
				Params: &pb.VectorParams{Size: uint64(dims), Distance: pb.Distance_Cosine},
			}},
		})
		if err != nil {
			return fmt.Errorf("qdrant create collection: %w", err)
		}
	}

	s.ready = true
	return nil
}

func toFilter(f *domain.Filter) *pb.Filter {
	if f == nil {
		return nil
	}
	return &pb.Filter{
		Must: []*pb.Condition{{
			ConditionOneOf: &pb.Condition_Field{Field: &pb.FieldCondition{
				Key:   f.Field,
				Match: &pb.Match{MatchValue: &pb.Match_Keyword{Keyword: f.Value}},
			}},
		}},
	}
}

func stringValue(s string) *pb.Value {
	return &pb.Value{Kind: &pb.Value_StringValue{StringValue: s}}
}

func isNotFound(err error) bool {
	return err != nil && status.Code(err) == codes.NotFound
}
