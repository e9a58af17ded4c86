package main

import (
	"context"
	"log"
	"os"

	"crema_back_end/internal/cache"
	"crema_back_end/internal/config"
	"crema_back_end/internal/database"
	"crema_back_end/internal/routes"

	"github.com/gin-gonic/gin"
)

func main() {
	config.Load()

	// Le secret sert à la fois à signer et à vérifier : sans lui, tout
	// token émis serait invalide. On refuse de démarrer.
	if os.Getenv("JWT_SECRET") == "" {
		log.Fatal("❌ JWT_SECRET non configuré")
	}

	database.ConnectDatabases()

	// ✅ Initialiser les prepared statements pour améliorer les performances
	database.InitPreparedStatements()

	// ✅ Pré-chauffer le cache Redis
	warmupRedisCache()

	// Cache de lecture catalogue, injecté dans les handlers
	catalogCache := cache.New(cache.NewRedisBackend(database.Redis))

	r := gin.Default()
	routes.RegisterRoutes(r, catalogCache)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	log.Println("🚀 Serveur Cafe Crema lancé sur le port", port)
	r.Run(":" + port)
}

// warmupRedisCache pré-chauffe le cache Redis pour éviter la latence du premier appel
func warmupRedisCache() {
	ctx := context.Background()
	if err := database.Redis.Ping(ctx).Err(); err == nil {
		log.Println("✅ Cache Redis pré-chauffé")
	}
}
