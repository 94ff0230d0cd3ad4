package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/tarun8668/fit-pal-gemini-ai/internal/domain"

	"github.com/go-redis/redis/v8"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	chatPromptsKeyPrefix = "chat_prompts:"
	// a day key outlives its day so late requests near midnight still see it
	chatPromptsTTL = 48 * time.Hour
)

// ChatPromptCounter counts assistant prompts per user and calendar day.
type ChatPromptCounter struct {
	rdb *redis.Client
}

func NewChatPromptCounter(rdb *redis.Client) *ChatPromptCounter {
	return &ChatPromptCounter{rdb: rdb}
}

func chatPromptsKey(userID primitive.ObjectID, day domain.Date) string {
	return chatPromptsKeyPrefix + userID.Hex() + ":" + day.String()
}

// Used returns the number of prompts counted for the day.
func (c *ChatPromptCounter) Used(ctx context.Context, userID primitive.ObjectID, day domain.Date) (int, error) {
	used, err := c.rdb.Get(ctx, chatPromptsKey(userID, day)).Int()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("get chat prompts: %w", err)
	}
	return used, nil
}

// Increment atomically adds one prompt and returns the new count.
func (c *ChatPromptCounter) Increment(ctx context.Context, userID primitive.ObjectID, day domain.Date) (int, error) {
	key := chatPromptsKey(userID, day)
	used, err := c.rdb.Incr(ctx, key).Result()
	if err != nil {
		return 0, fmt.Errorf("incr chat prompts: %w", err)
	}
	if used == 1 {
		if err := c.rdb.Expire(ctx, key, chatPromptsTTL).Err(); err != nil {
			return 0, fmt.Errorf("expire chat prompts: %w", err)
		}
	}
	return int(used), nil
}

// Decrement gives back a prompt that was counted but not allowed.
func (c *ChatPromptCounter) Decrement(ctx context.Context, userID primitive.ObjectID, day domain.Date) error {
	if err := c.rdb.Decr(ctx, chatPromptsKey(userID, day)).Err(); err != nil {
		return fmt.Errorf("decr chat prompts: %w", err)
	}
	return nil
}
