package db

import (
	"context"

	"github.com/SaiNageswarS/go-api-boot/odm"
)

func InitChatRagDB(ctx context.Context, mongo odm.MongoClient, dbName string) error {
	err := odm.EnsureIndexes[ConversationModel](ctx, mongo, dbName)
	if err != nil {
		return err
	}

	err = odm.EnsureIndexes[PassageModel](ctx, mongo, dbName)
	if err != nil {
		return err
	}

	return nil
}
