package main

import (
	"context"
	"os"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"stringphone/internal/app"
	"stringphone/internal/config"
	"stringphone/internal/log"
	"stringphone/internal/store"
)

func main() {
	if len(os.Args) < 3 {
		log.Fatal("usage: participant <name> <topic> [flags]")
	}
	name, topicName := os.Args[1], os.Args[2]
	os.Args = append([]string{os.Args[0]}, os.Args[3:]...)

	cfg := config.ParseParticipant()
	defer log.Sync()

	mongoClient, err := connectMongo(cfg)
	if err != nil {
		log.Fatal("mongo connect failed")
	}
	defer mongoClient.Disconnect(context.Background())

	st := store.New(mongoClient.Database(cfg.Database))
	a := app.New(st)

	if err := a.Run(context.Background(), name, topicName, cfg.RelayAddr); err != nil {
		log.Fatal("participant exited")
	}
}

func connectMongo(cfg *config.Participant) (*mongo.Client, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		return nil, err
	}
	return client, client.Ping(ctx, nil)
}
