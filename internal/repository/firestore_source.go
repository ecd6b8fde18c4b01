package repository

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"btcmag7/internal/domain/models"
	domrepo "btcmag7/internal/domain/repository"
	applogger "btcmag7/pkg/logger"
	"btcmag7/pkg/util"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"
)

// DefaultFirestoreCollection is where the daily close documents live.
const DefaultFirestoreCollection = "Indices/BTC_Mag7_Index/DailyData"

// FirestoreSource reads every document of one collection, unfiltered.
type FirestoreSource struct {
	client     *firestore.Client
	collection string
	l          *applogger.Logger
}

// NewFirestoreSource connects to the project. An empty credentialsFile falls
// back to application default credentials.
func NewFirestoreSource(ctx context.Context, projectID, credentialsFile, collection string) (*FirestoreSource, error) {
	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}
	client, err := firestore.NewClient(ctx, projectID, opts...)
	if err != nil {
		return nil, fmt.Errorf("firestore client: %w", err)
	}
	if collection == "" {
		collection = DefaultFirestoreCollection
	}
	return &FirestoreSource{client: client, collection: collection}, nil
}

var _ domrepo.RecordSource = (*FirestoreSource)(nil)

// SetLogger injects a structured logger.
func (s *FirestoreSource) SetLogger(l *applogger.Logger) { s.l = l }

func (s *FirestoreSource) Fetch(ctx context.Context) ([]models.PriceRecord, error) {
	start := time.Now()
	it := s.client.Collection(s.collection).Documents(ctx)
	defer it.Stop()

	out := make([]models.PriceRecord, 0, 4096)
	for {
		doc, err := it.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			if s.l != nil {
				s.l.Error("firestore read error",
					applogger.String("collection", s.collection),
					applogger.Int("read", len(out)),
					applogger.Error(err),
				)
			}
			return nil, models.SourceUnavailableError(err, "read collection %s", s.collection)
		}
		rec, err := recordFromDocument(doc.Ref.ID, doc.Data())
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}

	if s.l != nil {
		s.l.Info("firestore collection read",
			applogger.String("collection", s.collection),
			applogger.Int("documents", len(out)),
			applogger.Duration("duration_ms", time.Since(start)),
		)
	}
	return out, nil
}

func (s *FirestoreSource) Close() error {
	return s.client.Close()
}

// recordFromDocument converts a flat {Date, symbol: price...} document.
// A document without a Date field falls back to its ID when that is a date.
func recordFromDocument(id string, data map[string]interface{}) (models.PriceRecord, error) {
	rec := models.PriceRecord{Prices: make(map[string]float64, len(data))}

	switch d := data[models.DateField].(type) {
	case string:
		rec.Date = d
	case time.Time:
		rec.Date = util.FormatDay(d.UTC())
	case nil:
		if _, ok := util.ParseDay(id); !ok {
			return rec, models.SourceUnavailableError(nil, "malformed document %s: no %s field", id, models.DateField)
		}
		rec.Date = id
	default:
		return rec, models.SourceUnavailableError(nil, "malformed document %s: %s has type %T", id, models.DateField, d)
	}

	for key, raw := range data {
		if key == models.DateField {
			continue
		}
		px, err := toFloat(raw)
		if err != nil {
			return rec, models.SourceUnavailableError(err, "malformed document %s: field %s", id, key)
		}
		rec.Prices[key] = px
	}
	return rec, nil
}

func toFloat(v interface{}) (float64, error) {
	switch x := v.(type) {
	case nil:
		return math.NaN(), nil
	case float64:
		return x, nil
	case float32:
		return float64(x), nil
	case int64:
		return float64(x), nil
	case int:
		return float64(x), nil
	case string:
		s := strings.TrimSpace(x)
		if s == "" || strings.EqualFold(s, "nan") {
			return math.NaN(), nil
		}
		return strconv.ParseFloat(s, 64)
	default:
		return 0, fmt.Errorf("unsupported price type %T", v)
	}
}
