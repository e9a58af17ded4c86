package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// TTL unique pour les lectures catalogue (menu, catégories, bestsellers).
const CatalogTTL = 5 * time.Minute

// Clés des trois caches de lecture du catalogue.
const (
	KeyMenu        = "catalog:menu"
	KeyCategories  = "catalog:categories"
	KeyBestsellers = "catalog:bestsellers"
)

// CatalogKeys regroupe les trois clés : toute écriture catalogue invalide tout
// (invalidation grossière, pas par entité).
var CatalogKeys = []string{KeyMenu, KeyCategories, KeyBestsellers}

// Backend est le strict nécessaire côté stockage. Redis en production,
// un fake mémoire dans les tests.
type Backend interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
}

// Cache est l'objet de cache explicite injecté dans les handlers.
// Le contrat : GetOrPopulate sur les lectures, Invalidate sur chaque écriture.
type Cache struct {
	backend Backend
}

func New(backend Backend) *Cache {
	return &Cache{backend: backend}
}

// GetOrPopulate retourne la valeur cachée si présente, sinon appelle fetch,
// met le résultat en cache pour ttl et le retourne. La valeur est du JSON
// brut : deux lecteurs dans la fenêtre TTL reçoivent des octets identiques.
func (c *Cache) GetOrPopulate(ctx context.Context, key string, ttl time.Duration, fetch func(ctx context.Context) ([]byte, error)) ([]byte, error) {
	if data, err := c.backend.Get(ctx, key); err == nil && data != nil {
		return data, nil
	}

	data, err := fetch(ctx)
	if err != nil {
		return nil, err
	}

	// Une erreur d'écriture cache ne doit pas faire échouer la lecture
	_ = c.backend.Set(ctx, key, data, ttl)

	return data, nil
}

// Invalidate supprime les clés données, quel que soit leur âge.
func (c *Cache) Invalidate(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	return c.backend.Del(ctx, keys...)
}

// Clear invalide les trois caches catalogue (endpoint admin clear-cache).
func (c *Cache) Clear(ctx context.Context) error {
	return c.Invalidate(ctx, CatalogKeys...)
}

// =============================================
// BACKEND REDIS
// =============================================

type redisBackend struct {
	client *redis.Client
}

// NewRedisBackend adapte un client Redis au contrat Backend.
func NewRedisBackend(client *redis.Client) Backend {
	return &redisBackend{client: client}
}

func (r *redisBackend) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := r.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	return data, err
}

func (r *redisBackend) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return r.client.Set(ctx, key, value, ttl).Err()
}

func (r *redisBackend) Del(ctx context.Context, keys ...string) error {
	return r.client.Del(ctx, keys...).Err()
}
