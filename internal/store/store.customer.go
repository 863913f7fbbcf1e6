package store

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"lavapop_analytics/internal/common"
	"lavapop_analytics/internal/sales"
)

// CustomerStore acessa o cadastro de clientes e o dataset de RFM.
type CustomerStore struct {
	customers *mongo.Collection
	rfm       *mongo.Collection
}

// Customers retorna o acessor de clientes.
func (s *Store) Customers() *CustomerStore {
	return &CustomerStore{
		customers: s.DB.Collection(ColCustomers),
		rfm:       s.DB.Collection(ColRFM),
	}
}

// LoadAll carrega o cadastro completo.
func (st *CustomerStore) LoadAll(ctx context.Context) ([]sales.CustomerRow, error) {
	cursor, err := st.customers.Find(ctx, bson.M{})
	if err != nil {
		return nil, common.ConvertMongoError(err)
	}
	defer cursor.Close(ctx)

	var out []sales.CustomerRow
	if err := cursor.All(ctx, &out); err != nil {
		return nil, common.ConvertMongoError(err)
	}
	return out, nil
}

// UpsertBatch grava um lote do cadastro com upsert por documento.
func (st *CustomerStore) UpsertBatch(ctx context.Context, rows []sales.CustomerRow) (int, error) {
	if len(rows) == 0 {
		return 0, nil
	}
	models := make([]mongo.WriteModel, 0, len(rows))
	for _, row := range rows {
		models = append(models, mongo.NewReplaceOneModel().
			SetFilter(bson.M{"doc": row.Doc}).
			SetReplacement(row).
			SetUpsert(true))
	}
	res, err := st.customers.BulkWrite(ctx, models, options.BulkWrite().SetOrdered(false))
	if err != nil {
		return 0, common.ConvertMongoError(err)
	}
	return int(res.UpsertedCount + res.ModifiedCount), nil
}

// LoadRFM carrega o dataset de segmentação RFM.
func (st *CustomerStore) LoadRFM(ctx context.Context) ([]sales.RFMRow, error) {
	cursor, err := st.rfm.Find(ctx, bson.M{})
	if err != nil {
		return nil, common.ConvertMongoError(err)
	}
	defer cursor.Close(ctx)

	var out []sales.RFMRow
	if err := cursor.All(ctx, &out); err != nil {
		return nil, common.ConvertMongoError(err)
	}
	return out, nil
}

// ReplaceRFM substitui o dataset de RFM por inteiro: o export vem sempre
// completo, não incremental.
func (st *CustomerStore) ReplaceRFM(ctx context.Context, rows []sales.RFMRow) error {
	if _, err := st.rfm.DeleteMany(ctx, bson.M{}); err != nil {
		return common.ConvertMongoError(err)
	}
	if len(rows) == 0 {
		return nil
	}
	docs := make([]any, 0, len(rows))
	for _, row := range rows {
		docs = append(docs, row)
	}
	_, err := st.rfm.InsertMany(ctx, docs, options.InsertMany().SetOrdered(false))
	return common.ConvertMongoError(err)
}
