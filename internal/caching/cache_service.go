package caching

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"

	"fashionwms/internal/models"
)

type CacheService interface {
	// Variant caching
	GetVariant(ctx context.Context, variantID uuid.UUID) (*models.Variant, error)
	SetVariant(ctx context.Context, variant *models.Variant, ttl time.Duration) error
	DeleteVariant(ctx context.Context, variantID uuid.UUID) error

	// On-hand caching
	GetOnHand(ctx context.Context, warehouseID, variantID uuid.UUID) (*decimal.Decimal, error)
	SetOnHand(ctx context.Context, warehouseID, variantID uuid.UUID, qty decimal.Decimal, ttl time.Duration) error
	DeleteOnHand(ctx context.Context, warehouseID, variantID uuid.UUID) error

	// Warehouse stock summaries
	GetWarehouseSummary(ctx context.Context, warehouseID uuid.UUID) (map[string]interface{}, error)
	SetWarehouseSummary(ctx context.Context, warehouseID uuid.UUID, summary map[string]interface{}, ttl time.Duration) error
	DeleteWarehouseSummary(ctx context.Context, warehouseID uuid.UUID) error

	InvalidateAllCache(ctx context.Context) error
}

type redisCacheService struct {
	client *redis.Client
}

func NewRedisCacheService(addr, password string, db int) CacheService {
	// Accept both host:port and redis://host:port forms.
	parsedAddr := addr
	if strings.HasPrefix(addr, "redis://") || strings.HasPrefix(addr, "rediss://") {
		if hostPort := strings.TrimPrefix(strings.TrimPrefix(addr, "redis://"), "rediss://"); hostPort != addr {
			parsedAddr = hostPort
		}
	}

	client := redis.NewClient(&redis.Options{
		Addr:     parsedAddr,
		Password: password,
		DB:       db,
	})

	if pingErr := client.Ping(context.Background()).Err(); pingErr != nil {
		log.Printf("WARN: Redis ping failed on initialization: %v (address: %s)", pingErr, parsedAddr)
	}

	return &redisCacheService{client: client}
}

func (r *redisCacheService) GetVariant(ctx context.Context, variantID uuid.UUID) (*models.Variant, error) {
	key := fmt.Sprintf("fashionwms:variant:%s", variantID.String())
	data, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil // cache miss
		}
		return nil, err
	}

	var variant models.Variant
	if err := json.Unmarshal(data, &variant); err != nil {
		return nil, err
	}
	return &variant, nil
}

func (r *redisCacheService) SetVariant(ctx context.Context, variant *models.Variant, ttl time.Duration) error {
	key := fmt.Sprintf("fashionwms:variant:%s", variant.ID.String())
	data, err := json.Marshal(variant)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, key, data, ttl).Err()
}

func (r *redisCacheService) DeleteVariant(ctx context.Context, variantID uuid.UUID) error {
	key := fmt.Sprintf("fashionwms:variant:%s", variantID.String())
	return r.client.Del(ctx, key).Err()
}

func (r *redisCacheService) GetOnHand(ctx context.Context, warehouseID, variantID uuid.UUID) (*decimal.Decimal, error) {
	key := fmt.Sprintf("fashionwms:onhand:%s:%s", warehouseID.String(), variantID.String())
	data, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil // cache miss
		}
		return nil, err
	}

	var qty decimal.Decimal
	if err := json.Unmarshal(data, &qty); err != nil {
		return nil, err
	}
	return &qty, nil
}

func (r *redisCacheService) SetOnHand(ctx context.Context, warehouseID, variantID uuid.UUID, qty decimal.Decimal, ttl time.Duration) error {
	key := fmt.Sprintf("fashionwms:onhand:%s:%s", warehouseID.String(), variantID.String())
	data, err := json.Marshal(qty)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, key, data, ttl).Err()
}

func (r *redisCacheService) DeleteOnHand(ctx context.Context, warehouseID, variantID uuid.UUID) error {
	key := fmt.Sprintf("fashionwms:onhand:%s:%s", warehouseID.String(), variantID.String())
	return r.client.Del(ctx, key).Err()
}

func (r *redisCacheService) GetWarehouseSummary(ctx context.Context, warehouseID uuid.UUID) (map[string]interface{}, error) {
	key := fmt.Sprintf("fashionwms:warehouse_summary:%s", warehouseID.String())
	data, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil // cache miss
		}
		return nil, err
	}

	var summary map[string]interface{}
	if err := json.Unmarshal(data, &summary); err != nil {
		return nil, err
	}
	return summary, nil
}

func (r *redisCacheService) SetWarehouseSummary(ctx context.Context, warehouseID uuid.UUID, summary map[string]interface{}, ttl time.Duration) error {
	key := fmt.Sprintf("fashionwms:warehouse_summary:%s", warehouseID.String())
	data, err := json.Marshal(summary)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, key, data, ttl).Err()
}

func (r *redisCacheService) DeleteWarehouseSummary(ctx context.Context, warehouseID uuid.UUID) error {
	key := fmt.Sprintf("fashionwms:warehouse_summary:%s", warehouseID.String())
	return r.client.Del(ctx, key).Err()
}

func (r *redisCacheService) InvalidateAllCache(ctx context.Context) error {
	iter := r.client.Scan(ctx, 0, "fashionwms:*", 100).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return err
	}
	if len(keys) == 0 {
		return nil
	}
	return r.client.Del(ctx, keys...).Err()
}
