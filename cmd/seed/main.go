// Command seed bootstraps the first admin account so the moderation surface
// is reachable on a fresh database. Running it again for the same email
// resets that account's password and role.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"golang.org/x/crypto/bcrypt"

	"github.com/bizbranches/api/internal/config"
	"github.com/bizbranches/api/internal/domain"
)

func main() {
	_ = godotenv.Load()

	var (
		email    = flag.String("email", "", "admin email address (required)")
		password = flag.String("password", "", "admin password (required)")
		name     = flag.String("name", "Administrator", "admin display name")
	)
	flag.Parse()

	*email = strings.ToLower(strings.TrimSpace(*email))
	if *email == "" || *password == "" {
		fmt.Fprintln(os.Stderr, "usage: seed -email admin@example.com -password secret [-name Administrator]")
		os.Exit(2)
	}

	cfg := config.Load()

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Timeout)
	defer cancel()

	clientOptions := options.Client().ApplyURI(cfg.MongoURI).SetServerAPIOptions(options.ServerAPI(options.ServerAPIVersion1))
	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		log.Fatalf("failed to connect to MongoDB: %v", err)
	}
	defer func() {
		disconnectCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = client.Disconnect(disconnectCtx)
	}()

	hash, err := bcrypt.GenerateFromPassword([]byte(*password), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("failed to hash password: %v", err)
	}

	users := client.Database(cfg.MongoDatabase).Collection(cfg.UserCollection)
	now := time.Now().UTC()
	update := bson.M{
		"$set": bson.M{
			"name":      *name,
			"password":  string(hash),
			"role":      domain.RoleAdmin,
			"updatedAt": now,
		},
		"$setOnInsert": bson.M{
			"email":     *email,
			"createdAt": now,
		},
	}
	result, err := users.UpdateOne(ctx, bson.M{"email": *email}, update, options.Update().SetUpsert(true))
	if err != nil {
		log.Fatalf("failed to upsert admin user: %v", err)
	}

	if result.UpsertedCount > 0 {
		log.Printf("created admin user %s", *email)
	} else {
		log.Printf("updated existing user %s to admin", *email)
	}
}
