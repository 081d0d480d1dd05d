package chat

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/Aryan-B-Parikh/SoulSync-sub000/internal/model/chat"
)

const (
	conversationsCollection = "conversations"
	messagesCollection      = "messages"
)

// MongoStore persists conversations and messages in MongoDB.
type MongoStore struct {
	conversations *mongo.Collection
	messages      *mongo.Collection
}

// ConnectMongo dials uri and verifies the connection with a ping.
func ConnectMongo(ctx context.Context, uri string) (*mongo.Client, error) {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect mongodb: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping mongodb: %w", err)
	}

	log.Println("[store] connected to MongoDB")
	return client, nil
}

// NewMongoStore binds the store to database and ensures its indexes.
func NewMongoStore(ctx context.Context, client *mongo.Client, database string) (*MongoStore, error) {
	db := client.Database(database)
	store := &MongoStore{
		conversations: db.Collection(conversationsCollection),
		messages:      db.Collection(messagesCollection),
	}

	_, err := store.messages.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "conversation_id", Value: 1}, {Key: "created_at", Value: -1}},
	})
	if err != nil {
		return nil, fmt.Errorf("create message index: %w", err)
	}

	_, err = store.conversations.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "owner_id", Value: 1}, {Key: "updated_at", Value: -1}},
	})
	if err != nil {
		return nil, fmt.Errorf("create conversation index: %w", err)
	}

	return store, nil
}

func (s *MongoStore) CreateConversation(ctx context.Context, ownerID, personaID string) (chat.Conversation, error) {
	if ownerID == "" {
		return chat.Conversation{}, ErrOwnerRequired
	}

	now := time.Now().UTC()
	conversation := chat.Conversation{
		ID:        uuid.NewString(),
		OwnerID:   ownerID,
		PersonaID: personaID,
		Title:     chat.DefaultTitle,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if _, err := s.conversations.InsertOne(ctx, conversation); err != nil {
		return chat.Conversation{}, fmt.Errorf("insert conversation: %w", err)
	}
	return conversation, nil
}

func (s *MongoStore) GetConversation(ctx context.Context, conversationID string) (chat.Conversation, error) {
	var conversation chat.Conversation
	err := s.conversations.FindOne(ctx, bson.M{"_id": conversationID}).Decode(&conversation)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return chat.Conversation{}, ErrConversationNotFound
	}
	if err != nil {
		return chat.Conversation{}, fmt.Errorf("find conversation: %w", err)
	}
	return conversation, nil
}

func (s *MongoStore) CreateMessage(ctx context.Context, message *chat.Message) error {
	count, err := s.conversations.CountDocuments(ctx, bson.M{"_id": message.ConversationID})
	if err != nil {
		return fmt.Errorf("check conversation: %w", err)
	}
	if count == 0 {
		return ErrConversationNotFound
	}

	if message.ID == "" {
		message.ID = uuid.NewString()
	}
	if message.CreatedAt.IsZero() {
		message.CreatedAt = time.Now().UTC()
	}

	if _, err := s.messages.InsertOne(ctx, message); err != nil {
		return fmt.Errorf("insert message: %w", err)
	}
	return nil
}

func (s *MongoStore) UpdateMessage(ctx context.Context, messageID string, update chat.MessageUpdate) error {
	set := bson.M{}
	if update.VectorRef != nil {
		set["vector_ref"] = *update.VectorRef
	}
	if update.SentimentLLM != nil {
		set["sentiment_llm"] = *update.SentimentLLM
	}
	if update.SentimentDeviation != nil {
		set["sentiment_deviation"] = *update.SentimentDeviation
	}
	if len(set) == 0 {
		return nil
	}

	res, err := s.messages.UpdateOne(ctx, bson.M{"_id": messageID}, bson.M{"$set": set})
	if err != nil {
		return fmt.Errorf("update message: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrMessageNotFound
	}
	return nil
}

func (s *MongoStore) GetMessage(ctx context.Context, messageID string) (chat.Message, error) {
	var message chat.Message
	err := s.messages.FindOne(ctx, bson.M{"_id": messageID}).Decode(&message)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return chat.Message{}, ErrMessageNotFound
	}
	if err != nil {
		return chat.Message{}, fmt.Errorf("find message: %w", err)
	}
	return message, nil
}

func (s *MongoStore) RecentHistory(ctx context.Context, conversationID string, limit int) ([]chat.Message, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}

	cursor, err := s.messages.Find(ctx, bson.M{"conversation_id": conversationID}, opts)
	if err != nil {
		return nil, fmt.Errorf("find messages: %w", err)
	}
	defer cursor.Close(ctx)

	var messages []chat.Message
	if err := cursor.All(ctx, &messages); err != nil {
		return nil, fmt.Errorf("decode messages: %w", err)
	}

	// Newest first from the query; callers expect oldest first.
	for i, j := 0, len(messages)-1; i < j; i, j = i+1, j-1 {
		messages[i], messages[j] = messages[j], messages[i]
	}
	return messages, nil
}

func (s *MongoStore) UpdateConversationTitleAndTimestamp(ctx context.Context, conversationID string, title *string, at time.Time) error {
	set := bson.M{"updated_at": at.UTC()}
	if title != nil {
		set["title"] = *title
		set["titled"] = true
	}

	res, err := s.conversations.UpdateOne(ctx, bson.M{"_id": conversationID}, bson.M{"$set": set})
	if err != nil {
		return fmt.Errorf("update conversation: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrConversationNotFound
	}
	return nil
}
