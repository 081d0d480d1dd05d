package memory

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/pgvector/pgvector-go"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"

	"github.com/Aryan-B-Parikh/SoulSync-sub000/internal/model/memory"
)

type memoryRow struct {
	VectorID       string          `gorm:"column:vector_id;primaryKey"`
	OwnerID        string          `gorm:"column:owner_id;not null"`
	ConversationID string          `gorm:"column:conversation_id"`
	Content        string          `gorm:"column:content"`
	Role           string          `gorm:"column:role"`
	Embedding      pgvector.Vector `gorm:"column:embedding"`
	CreatedAt      time.Time       `gorm:"column:created_at"`
}

func (memoryRow) TableName() string { return "memories" }

// PGVectorBackend stores memories in Postgres with the pgvector extension
// and ranks them by cosine distance.
type PGVectorBackend struct {
	db *gorm.DB
}

// OpenPGVector connects to dsn and prepares the memories table for vectors of dims entries.
func OpenPGVector(ctx context.Context, dsn string, dims int) (*PGVectorBackend, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}

	backend := &PGVectorBackend{db: db}
	if err := backend.migrate(ctx, dims); err != nil {
		return nil, err
	}

	log.Printf("[memory] connected to pgvector store (dims=%d)", dims)
	return backend, nil
}

func (b *PGVectorBackend) migrate(ctx context.Context, dims int) error {
	statements := []string{
		`CREATE EXTENSION IF NOT EXISTS vector`,
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS memories (
			vector_id TEXT PRIMARY KEY,
			owner_id TEXT NOT NULL,
			conversation_id TEXT,
			content TEXT NOT NULL,
			role TEXT NOT NULL,
			embedding vector(%d) NOT NULL,
			created_at TIMESTAMPTZ NOT NULL
		)`, dims),
		`CREATE INDEX IF NOT EXISTS memories_owner_idx ON memories (owner_id, created_at)`,
	}
	for _, stmt := range statements {
		if err := b.db.WithContext(ctx).Exec(stmt).Error; err != nil {
			return fmt.Errorf("migrate memories: %w", err)
		}
	}
	return nil
}

func (b *PGVectorBackend) Upsert(ctx context.Context, record memory.Record) error {
	if record.OwnerID == "" {
		return ErrOwnerRequired
	}

	row := memoryRow{
		VectorID:       record.VectorID,
		OwnerID:        record.OwnerID,
		ConversationID: record.ConversationID,
		Content:        record.Content,
		Role:           record.Role,
		Embedding:      pgvector.NewVector(record.Vector),
		CreatedAt:      record.CreatedAt,
	}

	return b.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "vector_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"owner_id", "conversation_id", "content", "role", "embedding"}),
	}).Create(&row).Error
}

func (b *PGVectorBackend) Search(ctx context.Context, ownerID string, vector []float32, topK int, opts QueryOptions) ([]memory.Match, error) {
	if ownerID == "" {
		return nil, ErrOwnerRequired
	}

	query := pgvector.NewVector(vector)
	tx := b.db.WithContext(ctx).
		Model(&memoryRow{}).
		Select("content, role, created_at, 1 - (embedding <=> ?) AS score", query).
		Where("owner_id = ?", ownerID)
	if len(opts.Exclude) > 0 {
		tx = tx.Where("vector_id NOT IN ?", opts.Exclude)
	}
	if opts.MinScore > 0 {
		tx = tx.Where("1 - (embedding <=> ?) >= ?", query, opts.MinScore)
	}

	var rows []struct {
		Content   string
		Role      string
		CreatedAt time.Time
		Score     float64
	}
	err := tx.Order(clause.OrderBy{Expression: clause.Expr{SQL: "embedding <=> ?", Vars: []interface{}{query}}}).
		Limit(topK).
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("search memories: %w", err)
	}

	matches := make([]memory.Match, 0, len(rows))
	for _, row := range rows {
		matches = append(matches, memory.Match{
			Content:   row.Content,
			Role:      row.Role,
			Timestamp: row.CreatedAt,
			Score:     row.Score,
		})
	}
	return matches, nil
}

func (b *PGVectorBackend) DeleteOwner(ctx context.Context, ownerID string) (int64, error) {
	if ownerID == "" {
		return 0, ErrOwnerRequired
	}
	res := b.db.WithContext(ctx).Where("owner_id = ?", ownerID).Delete(&memoryRow{})
	return res.RowsAffected, res.Error
}

func (b *PGVectorBackend) Stats(ctx context.Context, ownerID string) (memory.Stats, error) {
	if ownerID == "" {
		return memory.Stats{}, ErrOwnerRequired
	}

	var agg struct {
		Total  int64
		Oldest *time.Time
		Newest *time.Time
	}
	err := b.db.WithContext(ctx).
		Model(&memoryRow{}).
		Select("COUNT(*) AS total, MIN(created_at) AS oldest, MAX(created_at) AS newest").
		Where("owner_id = ?", ownerID).
		Scan(&agg).Error
	if err != nil {
		return memory.Stats{}, fmt.Errorf("memory stats: %w", err)
	}

	return memory.Stats{
		TotalMemories:   agg.Total,
		OldestTimestamp: agg.Oldest,
		NewestTimestamp: agg.Newest,
	}, nil
}

// Close releases the underlying connection pool.
func (b *PGVectorBackend) Close() error {
	sqlDB, err := b.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
