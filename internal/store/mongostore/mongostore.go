// Package mongostore persists tickets as MongoDB documents with embedded
// steps and notes.
package mongostore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/Alijeyrad/ticketcreator_backend/internal/model"
	"github.com/Alijeyrad/ticketcreator_backend/internal/store"
)

const instrumentationName = "github.com/Alijeyrad/ticketcreator_backend/internal/store/mongostore"

type Store struct {
	coll *mongo.Collection

	tracer   trace.Tracer
	duration metric.Float64Histogram
}

var _ store.Tickets = (*Store)(nil)

func New(coll *mongo.Collection) *Store {
	duration, _ := otel.Meter(instrumentationName).Float64Histogram(
		"ticket_store_operation_duration_ms",
		metric.WithDescription("Duration of ticket store operations in milliseconds"),
		metric.WithUnit("ms"),
	)
	return &Store{
		coll:     coll,
		tracer:   otel.Tracer(instrumentationName),
		duration: duration,
	}
}

// EnsureIndexes creates the indexes List relies on. It is idempotent.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	_, err := s.coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: newestFirst, Options: options.Index().SetName("created_at_desc")},
		{Keys: bson.D{{Key: "status", Value: 1}}, Options: options.Index().SetName("status")},
		{Keys: bson.D{{Key: "priority", Value: 1}}, Options: options.Index().SetName("priority")},
		{Keys: bson.D{{Key: "project_ci", Value: 1}}, Options: options.Index().SetName("project_ci")},
	})
	if err != nil {
		return fmt.Errorf("create ticket indexes: %w", err)
	}
	return nil
}

// observe wraps one store operation in a span and a duration sample.
func (s *Store) observe(ctx context.Context, op string, fn func(ctx context.Context) error) error {
	ctx, span := s.tracer.Start(ctx, "mongostore."+op,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("db.system", "mongodb"),
			attribute.String("db.collection.name", s.coll.Name()),
			attribute.String("db.operation.name", op),
		),
	)
	defer span.End()

	start := time.Now()
	err := fn(ctx)
	elapsed := float64(time.Since(start).Microseconds()) / 1000

	s.duration.Record(ctx, elapsed, metric.WithAttributes(
		attribute.String("op", op),
		attribute.Bool("error", err != nil && !errors.Is(err, store.ErrNotFound)),
	))
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	return err
}

func (s *Store) Insert(ctx context.Context, t *model.Ticket) error {
	doc, err := toDocument(t)
	if err != nil {
		return fmt.Errorf("insert ticket: invalid id %q: %w", t.ID, err)
	}
	return s.observe(ctx, "insert", func(ctx context.Context) error {
		if _, err := s.coll.InsertOne(ctx, doc); err != nil {
			if mongo.IsDuplicateKeyError(err) {
				return store.ErrDuplicate
			}
			return fmt.Errorf("insert ticket: %w", err)
		}
		return nil
	})
}

func (s *Store) Get(ctx context.Context, id string) (*model.Ticket, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, store.ErrNotFound
	}

	var doc ticketDocument
	err = s.observe(ctx, "get", func(ctx context.Context) error {
		err := s.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc)
		if errors.Is(err, mongo.ErrNoDocuments) {
			return store.ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("get ticket: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return doc.toModel(), nil
}

// Find counts and fetches concurrently; both see the same filter.
func (s *Store) Find(ctx context.Context, q store.Query) ([]*model.Ticket, int64, error) {
	filter := buildFilter(q)

	var (
		items []*model.Ticket
		total int64
	)
	err := s.observe(ctx, "find", func(ctx context.Context) error {
		g, gctx := errgroup.WithContext(ctx)

		g.Go(func() error {
			opts := options.Find().SetSort(newestFirst)
			if q.Skip > 0 {
				opts.SetSkip(q.Skip)
			}
			if q.Limit > 0 {
				opts.SetLimit(q.Limit)
			}
			cur, err := s.coll.Find(gctx, filter, opts)
			if err != nil {
				return fmt.Errorf("find tickets: %w", err)
			}
			var docs []ticketDocument
			if err := cur.All(gctx, &docs); err != nil {
				return fmt.Errorf("decode tickets: %w", err)
			}
			items = make([]*model.Ticket, 0, len(docs))
			for _, d := range docs {
				items = append(items, d.toModel())
			}
			return nil
		})

		g.Go(func() error {
			n, err := s.coll.CountDocuments(gctx, filter)
			if err != nil {
				return fmt.Errorf("count tickets: %w", err)
			}
			total = n
			return nil
		})

		return g.Wait()
	})
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (s *Store) Replace(ctx context.Context, t *model.Ticket) error {
	doc, err := toDocument(t)
	if err != nil {
		return store.ErrNotFound
	}
	return s.observe(ctx, "replace", func(ctx context.Context) error {
		res, err := s.coll.ReplaceOne(ctx, bson.M{"_id": doc.ID}, doc)
		if err != nil {
			return fmt.Errorf("replace ticket: %w", err)
		}
		if res.MatchedCount == 0 {
			return store.ErrNotFound
		}
		return nil
	})
}

func (s *Store) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return store.ErrNotFound
	}
	return s.observe(ctx, "delete", func(ctx context.Context) error {
		res, err := s.coll.DeleteOne(ctx, bson.M{"_id": oid})
		if err != nil {
			return fmt.Errorf("delete ticket: %w", err)
		}
		if res.DeletedCount == 0 {
			return store.ErrNotFound
		}
		return nil
	})
}

func (s *Store) Ping(ctx context.Context) error {
	return s.coll.Database().Client().Ping(ctx, nil)
}
