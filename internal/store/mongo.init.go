// Package store - camada de persistência em MongoDB: conexão, garantia de
// collections/índices e os acessores por domínio (vendas, clientes,
// campanhas, histórico de importação).
package store

import (
	"context"
	"fmt"
	"reflect"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"lavapop_analytics/internal/logger"
	"lavapop_analytics/internal/sales"
)

// Nomes das collections.
const (
	ColSales     = "vendas"
	ColCustomers = "clientes"
	ColRFM       = "rfm_segmentos"
	ColRules     = "campaign_rules"
	ColBlacklist = "blacklist"
	ColUploads   = "upload_history"
)

// Store agrupa o client e o database em uso.
type Store struct {
	Client *mongo.Client
	DB     *mongo.Database
}

// Connect abre a conexão e valida com um ping.
func Connect(ctx context.Context, uri, dbName string) (*Store, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("erro ao conectar no MongoDB: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		return nil, fmt.Errorf("erro no ping do MongoDB: %w", err)
	}
	return &Store{Client: client, DB: client.Database(dbName)}, nil
}

// Close encerra a conexão.
func (s *Store) Close(ctx context.Context) error {
	return s.Client.Disconnect(ctx)
}

// EnsureCollections garante que todas as collections existem e que os
// índices declarados nos models estão criados.
func (s *Store) EnsureCollections(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	existing, err := s.DB.ListCollectionNames(ctx, bson.M{})
	if err != nil {
		return fmt.Errorf("erro ao listar collections: %w", err)
	}
	has := make(map[string]bool, len(existing))
	for _, name := range existing {
		has[name] = true
	}

	for _, name := range []string{ColSales, ColCustomers, ColRFM, ColRules, ColBlacklist, ColUploads} {
		if has[name] {
			continue
		}
		logger.GetAppLogger().Infof("Collection %s não existe, criando", name)
		if err := s.DB.CreateCollection(ctx, name); err != nil {
			return fmt.Errorf("erro ao criar collection %s: %w", name, err)
		}
	}

	if err := createIndexes(ctx, s.DB.Collection(ColSales), sales.SaleRecord{}); err != nil {
		return err
	}
	if err := createIndexes(ctx, s.DB.Collection(ColCustomers), sales.CustomerRow{}); err != nil {
		return err
	}
	// Blacklist: lookup por telefone normalizado
	_, err = s.DB.Collection(ColBlacklist).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "phone", Value: 1}},
		Options: options.Index().SetName("phone_unique").SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("erro ao criar índice da blacklist: %w", err)
	}
	return nil
}

// createIndexes cria os índices declarados via tag `index` no model
// ("single" ou "unique"), usando o nome do campo bson.
func createIndexes(ctx context.Context, col *mongo.Collection, model any) error {
	t := reflect.TypeOf(model)
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		tag, ok := field.Tag.Lookup("index")
		if !ok {
			continue
		}
		bsonField := indexFieldName(field.Tag.Get("bson"))
		if bsonField == "" || bsonField == "-" {
			continue
		}

		var opts *options.IndexOptions
		var name string
		switch tag {
		case "unique":
			name = bsonField + "_unique"
			opts = options.Index().SetName(name).SetUnique(true)
		default:
			name = bsonField + "_single"
			opts = options.Index().SetName(name)
		}

		_, err := col.Indexes().CreateOne(ctx, mongo.IndexModel{
			Keys:    bson.D{{Key: bsonField, Value: 1}},
			Options: opts,
		})
		if err != nil {
			return fmt.Errorf("erro ao criar índice %s em %s: %w", name, col.Name(), err)
		}
	}
	return nil
}

// indexFieldName extrai o nome do campo da tag bson ("doc_cliente,omitempty"
// -> "doc_cliente").
func indexFieldName(tag string) string {
	for i := 0; i < len(tag); i++ {
		if tag[i] == ',' {
			return tag[:i]
		}
	}
	return tag
}
