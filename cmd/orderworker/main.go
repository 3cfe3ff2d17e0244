package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/pcpc0424-creator/b2b-mall-sub001/internal/orders"
)

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func main() {
	log.Println("order worker starting...")
	var wg sync.WaitGroup

	kafkaBrokers := strings.Split(getEnv("KAFKA_BROKERS", "localhost:9092"), ",")
	mongoURI := getEnv("MONGO_URI", "mongodb://localhost:27017")
	mongoDB := getEnv("MONGO_DATABASE", "storefront")

	connectCtx, connectCancel := context.WithTimeout(context.Background(), 10*time.Second)
	db, err := orders.ConnectMongoDB(connectCtx, mongoURI, mongoDB)
	connectCancel()
	if err != nil {
		log.Fatalf("Failed to connect to mongodb: %v", err)
	}
	defer func() {
		disconnectCtx, disconnectCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer disconnectCancel()
		if err := db.Client().Disconnect(disconnectCtx); err != nil {
			log.Printf("mongodb disconnect: %v", err)
		}
	}()

	repo := orders.NewMongoRepository(db)

	indexCtx, indexCancel := context.WithTimeout(context.Background(), 10*time.Second)
	if err := repo.CreateIndexes(indexCtx); err != nil {
		indexCancel()
		log.Fatalf("Failed to create indexes: %v", err)
	}
	indexCancel()

	consumer := orders.NewConsumer(repo, kafkaBrokers...)
	consumerCtx, consumerCancel := context.WithCancel(context.Background())
	wg.Add(1)
	go func() {
		defer wg.Done()
		consumer.Run(consumerCtx)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down order worker...")
	consumerCancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	doneChan := make(chan struct{})
	go func() {
		wg.Wait()
		close(doneChan)
	}()

	select {
	case <-doneChan:
		log.Println("Consumer stopped cleanly")
	case <-shutdownCtx.Done():
		log.Println("Consumer didn't stop in time")
	}

	consumer.Close()
	log.Println("Order worker stopped")
}
