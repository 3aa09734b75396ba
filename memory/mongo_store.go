package memory

import (
	"context"
	"errors"
	"time"

	"github.com/SaiNageswarS/go-api-boot/odm"
	"github.com/SaiNageswarS/go-collection-boot/async"
	"github.com/chatrag/chatrag/conversation"
	"github.com/chatrag/chatrag/db"
	"go.mongodb.org/mongo-driver/v2/mongo"
)

// MongoStore persists conversation records in the conversations collection.
type MongoStore struct {
	collection odm.OdmCollectionInterface[db.ConversationModel]
}

func NewMongoStore(mongoClient odm.MongoClient, dbName string) *MongoStore {
	return &MongoStore{
		collection: odm.CollectionOf[db.ConversationModel](mongoClient, dbName),
	}
}

func (s *MongoStore) Load(ctx context.Context, conversationID int64) (conversation.Record, bool, error) {
	model, err := async.Await(s.collection.FindOneByID(ctx, db.ConversationKey(conversationID)))
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return conversation.Record{}, false, nil
		}
		return conversation.Record{}, false, err
	}

	if model == nil {
		return conversation.Record{}, false, nil
	}

	return conversation.Record{
		ClarificationCount:    model.ClarificationCount,
		HandoverToHumanNeeded: model.HandoverToHumanNeeded,
		MessageHistory:        model.MessageHistory,
	}, true, nil
}

func (s *MongoStore) Save(ctx context.Context, conversationID int64, record conversation.Record) error {
	model := db.ConversationModel{
		ID:                    db.ConversationKey(conversationID),
		ClarificationCount:    record.ClarificationCount,
		HandoverToHumanNeeded: record.HandoverToHumanNeeded,
		MessageHistory:        record.MessageHistory,
		UpdatedOn:             time.Now().Unix(),
	}

	_, err := async.Await(s.collection.Save(ctx, model))
	return err
}
