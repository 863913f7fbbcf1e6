package store

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"lavapop_analytics/internal/common"
)

// UploadRecord registra uma execução do importador.
type UploadRecord struct {
	ID         primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	FileName   string             `json:"fileName" bson:"file_name"`
	Dataset    string             `json:"dataset" bson:"dataset"` // vendas, clientes, rfm
	StartedAt  time.Time          `json:"startedAt" bson:"started_at"`
	FinishedAt time.Time          `json:"finishedAt" bson:"finished_at"`
	RowsRead   int                `json:"rowsRead" bson:"rows_read"`
	RowsLoaded int                `json:"rowsLoaded" bson:"rows_loaded"`
	Duplicates int                `json:"duplicates" bson:"duplicates"`
	Skipped    int                `json:"skipped" bson:"skipped"`
	Status     string             `json:"status" bson:"status"` // success, partial, failed
	Error      string             `json:"error,omitempty" bson:"error,omitempty"`
}

// UploadStore acessa o histórico de importações.
type UploadStore struct {
	col *mongo.Collection
}

// Uploads retorna o acessor do histórico de importações.
func (s *Store) Uploads() *UploadStore {
	return &UploadStore{col: s.DB.Collection(ColUploads)}
}

// Record grava uma execução do importador.
func (st *UploadStore) Record(ctx context.Context, rec UploadRecord) error {
	_, err := st.col.InsertOne(ctx, rec)
	return common.ConvertMongoError(err)
}

// Recent retorna as últimas execuções, mais novas primeiro.
func (st *UploadStore) Recent(ctx context.Context, limit int64) ([]UploadRecord, error) {
	if limit <= 0 {
		limit = 20
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "started_at", Value: -1}}).
		SetLimit(limit)
	cursor, err := st.col.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, common.ConvertMongoError(err)
	}
	defer cursor.Close(ctx)

	var out []UploadRecord
	if err := cursor.All(ctx, &out); err != nil {
		return nil, common.ConvertMongoError(err)
	}
	return out, nil
}
