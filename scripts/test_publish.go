//go:build ignore

package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/address-tiles/internal/domain"
)

func parseIDs(raw string) []uuid.UUID {
	if raw == "" {
		return nil
	}
	var ids []uuid.UUID
	for _, s := range strings.Split(raw, ",") {
		ids = append(ids, uuid.MustParse(strings.TrimSpace(s)))
	}
	return ids
}

func main() {
	redisAddr := flag.String("redis", "localhost:6379", "Redis address for streams")
	voies := flag.String("voies", "", "comma-separated street IDs")
	numeros := flag.String("numeros", "", "comma-separated address point IDs")
	bal := flag.String("bal", "", "BAL ID: recompute every street of the collection")
	flag.Parse()

	event := domain.TilesRecomputeEvent{
		EventID:    uuid.New(),
		StreetIDs:  parseIDs(*voies),
		AddressIDs: parseIDs(*numeros),
	}
	if *bal != "" {
		balID := uuid.MustParse(*bal)
		event.BalID = &balID
	}
	if event.IsEmpty() {
		log.Fatal("nothing to recompute: pass -voies, -numeros or -bal")
	}

	client := redis.NewClient(&redis.Options{Addr: *redisAddr})
	defer client.Close()

	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}

	data, err := json.Marshal(event)
	if err != nil {
		log.Fatalf("Failed to marshal event: %v", err)
	}

	// Запоминаем хвост стрима ответов до публикации
	lastID := "0"
	if msgs, err := client.XRevRangeN(ctx, domain.StreamTilesDone, "+", "-", 1).Result(); err == nil && len(msgs) > 0 {
		lastID = msgs[0].ID
	}

	msgID, err := client.XAdd(ctx, &redis.XAddArgs{
		Stream: domain.StreamTilesRecompute,
		Values: map[string]interface{}{"data": string(data)},
	}).Result()
	if err != nil {
		log.Fatalf("Failed to publish event: %v", err)
	}

	fmt.Printf("Event %s published to %s (message %s)\n", event.EventID, domain.StreamTilesRecompute, msgID)
	fmt.Printf("Waiting for report in %s...\n", domain.StreamTilesDone)

	deadline := time.Now().Add(30 * time.Second)
	for time.Now().Before(deadline) {
		results, err := client.XRead(ctx, &redis.XReadArgs{
			Streams: []string{domain.StreamTilesDone, lastID},
			Count:   10,
			Block:   time.Second,
		}).Result()
		if err != nil && err != redis.Nil {
			log.Fatalf("Failed to read reports: %v", err)
		}

		for _, stream := range results {
			for _, msg := range stream.Messages {
				lastID = msg.ID

				dataStr, ok := msg.Values["data"].(string)
				if !ok {
					continue
				}

				var done domain.TilesDoneEvent
				if err := json.Unmarshal([]byte(dataStr), &done); err != nil || done.EventID != event.EventID {
					continue
				}

				pretty, _ := json.MarshalIndent(done, "", "  ")
				fmt.Printf("%s\n", pretty)
				return
			}
		}
	}

	fmt.Println("Timeout waiting for report")
}
