package memory

import (
	"github.com/SaiNageswarS/go-api-boot/odm"
	"github.com/chatrag/chatrag/conversation"
)

var (
	_ conversation.Store                        = (*MongoStore)(nil)
	_ func(odm.MongoClient, string) *MongoStore = NewMongoStore
)
