package store

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"lavapop_analytics/internal/campaign"
	"lavapop_analytics/internal/common"
)

// CampaignStore acessa as regras de automação e a blacklist.
type CampaignStore struct {
	rules     *mongo.Collection
	blacklist *mongo.Collection
}

// Campaigns retorna o acessor de campanhas.
func (s *Store) Campaigns() *CampaignStore {
	return &CampaignStore{
		rules:     s.DB.Collection(ColRules),
		blacklist: s.DB.Collection(ColBlacklist),
	}
}

// ListRules retorna todas as regras de automação.
func (st *CampaignStore) ListRules(ctx context.Context) ([]campaign.Rule, error) {
	cursor, err := st.rules.Find(ctx, bson.M{})
	if err != nil {
		return nil, common.ConvertMongoError(err)
	}
	defer cursor.Close(ctx)

	var out []campaign.Rule
	if err := cursor.All(ctx, &out); err != nil {
		return nil, common.ConvertMongoError(err)
	}
	return out, nil
}

// GetRule busca uma regra pelo id.
func (st *CampaignStore) GetRule(ctx context.Context, id string) (*campaign.Rule, error) {
	filter := bson.M{"_id": id}
	if oid, err := primitive.ObjectIDFromHex(id); err == nil {
		filter = bson.M{"_id": oid}
	}
	var rule campaign.Rule
	err := st.rules.FindOne(ctx, filter).Decode(&rule)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, common.ErrNotFound
	}
	if err != nil {
		return nil, common.ConvertMongoError(err)
	}
	return &rule, nil
}

// CreateRule grava uma regra nova, validando antes.
func (st *CampaignStore) CreateRule(ctx context.Context, rule campaign.Rule) error {
	if err := campaign.ValidateRule(rule); err != nil {
		return common.NewError(common.ErrCodeValidationInput, common.MsgValidationError, common.StatusBadRequest, err.Error())
	}
	if rule.ID == "" {
		rule.ID = uuid.NewString()
	}
	_, err := st.rules.InsertOne(ctx, rule)
	return common.ConvertMongoError(err)
}

// LoadBlacklist carrega a blacklist inteira em memória. A consulta durante
// a resolução de audiência é toda local.
func (st *CampaignStore) LoadBlacklist(ctx context.Context) (*campaign.MemoryBlacklist, error) {
	cursor, err := st.blacklist.Find(ctx, bson.M{})
	if err != nil {
		return nil, common.ConvertMongoError(err)
	}
	defer cursor.Close(ctx)

	var entries []campaign.BlacklistEntry
	if err := cursor.All(ctx, &entries); err != nil {
		return nil, common.ConvertMongoError(err)
	}
	return campaign.NewMemoryBlacklist(entries), nil
}

// AddToBlacklist grava uma entrada nova; telefone já bloqueado é idempotente.
func (st *CampaignStore) AddToBlacklist(ctx context.Context, entry campaign.BlacklistEntry) error {
	_, err := st.blacklist.UpdateOne(ctx,
		bson.M{"phone": entry.Phone},
		bson.M{"$set": entry},
		options.Update().SetUpsert(true))
	return common.ConvertMongoError(err)
}
