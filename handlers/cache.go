package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"time"
)

const tagsCacheKey = "tags"

// TagCache 以Redis快取標籤列表，Client為nil時不快取
type TagCache struct {
	Client *redis.Client
	TTL    time.Duration
}

func NewTagCache(client *redis.Client, ttl time.Duration) *TagCache {
	return &TagCache{Client: client, TTL: ttl}
}

// 讀取快取，未命中或Redis錯誤時回傳false
func (t *TagCache) get(ctx context.Context) ([]tagData, bool) {
	if t == nil || t.Client == nil {
		return nil, false
	}

	cached, err := t.Client.Get(ctx, tagsCacheKey).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			zap.L().Warn("讀取標籤快取失敗", zap.Error(err))
		}
		return nil, false
	}

	var tags []tagData
	if err := json.Unmarshal([]byte(cached), &tags); err != nil {
		zap.L().Warn("標籤快取格式錯誤", zap.Error(err))
		return nil, false
	}
	return tags, true
}

func (t *TagCache) set(ctx context.Context, tags []tagData) {
	if t == nil || t.Client == nil {
		return
	}

	tagsJSON, err := json.Marshal(tags)
	if err != nil {
		zap.L().Warn("無法序列化標籤", zap.Error(err))
		return
	}
	if err := t.Client.Set(ctx, tagsCacheKey, tagsJSON, t.TTL).Err(); err != nil {
		zap.L().Warn("寫入標籤快取失敗", zap.Error(err))
	}
}

// 標籤異動後清除快取
func (t *TagCache) invalidate(ctx context.Context) {
	if t == nil || t.Client == nil {
		return
	}
	if err := t.Client.Del(ctx, tagsCacheKey).Err(); err != nil {
		zap.L().Warn("清除標籤快取失敗", zap.Error(err))
	}
}
