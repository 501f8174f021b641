package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/platefile/backend/internal/types"
)

const draftTTL = 24 * time.Hour

// DraftService stores extracted drafts in Redis between extraction and
// acceptance.
type DraftService struct {
	redis *redis.Client
}

// NewDraftService creates a new DraftService instance
func NewDraftService(redisClient *redis.Client) *DraftService {
	return &DraftService{redis: redisClient}
}

// SaveDraft assigns the draft an id and saves it with a TTL.
func (s *DraftService) SaveDraft(ctx context.Context, draft *types.RecipeDraft) error {
	draft.ID = uuid.New().String()
	draft.CreatedAt = time.Now()
	draft.UpdatedAt = time.Now()

	data, err := json.Marshal(draft)
	if err != nil {
		return fmt.Errorf("failed to marshal draft: %w", err)
	}

	key := fmt.Sprintf("extract:draft:%s", draft.ID)
	err = s.redis.Set(ctx, key, data, draftTTL).Err()
	if err != nil {
		return fmt.Errorf("failed to save draft to Redis: %w", err)
	}

	return nil
}

// GetDraft retrieves a draft by id.
func (s *DraftService) GetDraft(ctx context.Context, id string) (*types.RecipeDraft, error) {
	key := fmt.Sprintf("extract:draft:%s", id)
	data, err := s.redis.Get(ctx, key).Bytes()
	if err != nil {
		return nil, fmt.Errorf("failed to get draft from Redis: %w", err)
	}

	var draft types.RecipeDraft
	if err := json.Unmarshal(data, &draft); err != nil {
		return nil, fmt.Errorf("failed to unmarshal draft: %w", err)
	}

	return &draft, nil
}

// DeleteDraft removes a draft.
func (s *DraftService) DeleteDraft(ctx context.Context, id string) error {
	key := fmt.Sprintf("extract:draft:%s", id)
	err := s.redis.Del(ctx, key).Err()
	if err != nil {
		return fmt.Errorf("failed to delete draft from Redis: %w", err)
	}

	return nil
}
