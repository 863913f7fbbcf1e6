package store

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"lavapop_analytics/internal/common"
	"lavapop_analytics/internal/sales"
)

// SalesStore acessa a collection de vendas.
type SalesStore struct {
	col *mongo.Collection
}

// Sales retorna o acessor de vendas.
func (s *Store) Sales() *SalesStore {
	return &SalesStore{col: s.DB.Collection(ColSales)}
}

// LoadAll carrega o histórico completo de vendas, ordenado por data.
func (st *SalesStore) LoadAll(ctx context.Context) ([]sales.SaleRecord, error) {
	opts := options.Find().SetSort(bson.D{{Key: "data_hora", Value: 1}})
	cursor, err := st.col.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, common.ConvertMongoError(err)
	}
	defer cursor.Close(ctx)

	var out []sales.SaleRecord
	if err := cursor.All(ctx, &out); err != nil {
		return nil, common.ConvertMongoError(err)
	}
	return out, nil
}

// ExistingHashes retorna o conjunto de import_hash já gravados, usado na
// deduplicação da importação.
func (st *SalesStore) ExistingHashes(ctx context.Context) (map[string]struct{}, error) {
	opts := options.Find().SetProjection(bson.M{"import_hash": 1})
	cursor, err := st.col.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, common.ConvertMongoError(err)
	}
	defer cursor.Close(ctx)

	hashes := make(map[string]struct{})
	for cursor.Next(ctx) {
		var row struct {
			ImportHash string `bson:"import_hash"`
		}
		if err := cursor.Decode(&row); err != nil {
			return nil, common.ConvertMongoError(err)
		}
		if row.ImportHash != "" {
			hashes[row.ImportHash] = struct{}{}
		}
	}
	return hashes, common.ConvertMongoError(cursor.Err())
}

// UpsertBatch grava um lote de vendas com upsert por import_hash: linha já
// importada é substituída, nunca duplicada.
func (st *SalesStore) UpsertBatch(ctx context.Context, records []sales.SaleRecord) (inserted, updated int, err error) {
	if len(records) == 0 {
		return 0, 0, nil
	}
	models := make([]mongo.WriteModel, 0, len(records))
	for _, rec := range records {
		models = append(models, mongo.NewReplaceOneModel().
			SetFilter(bson.M{"import_hash": rec.ImportHash}).
			SetReplacement(rec).
			SetUpsert(true))
	}
	res, err := st.col.BulkWrite(ctx, models, options.BulkWrite().SetOrdered(false))
	if err != nil {
		return 0, 0, fmt.Errorf("erro no upsert do lote de vendas: %w", common.ConvertMongoError(err))
	}
	return int(res.UpsertedCount), int(res.ModifiedCount), nil
}

// Count retorna o total de vendas gravadas.
func (st *SalesStore) Count(ctx context.Context) (int64, error) {
	n, err := st.col.CountDocuments(ctx, bson.M{})
	return n, common.ConvertMongoError(err)
}
