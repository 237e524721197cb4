// +build ignore

package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Local copies of the stream event shapes so the script stays a
// standalone file runnable with `go run scripts/test_publish.go`.

type rawPlanData struct {
	From     []string  `json:"from"`
	XCoords  []float64 `json:"x_coords"`
	Ref      []bool    `json:"ref"`
	YCoords  []float64 `json:"y_coords"`
	Bearing  []string  `json:"bearing"`
	Distance []float64 `json:"distance"`
	To       []string  `json:"to"`
}

type rawSitePlanData struct {
	PlanData *rawPlanData `json:"plan_data"`
}

type rawLandData struct {
	Owners       []string         `json:"owners"`
	PlotNumber   string           `json:"plot_number"`
	Area         string           `json:"area"`
	Metric       string           `json:"metric"`
	Locality     string           `json:"locality"`
	District     string           `json:"district"`
	Region       string           `json:"region"`
	SitePlanData *rawSitePlanData `json:"site_plan_data"`
}

type parcelExtractedEvent struct {
	UploadID uuid.UUID    `json:"upload_id"`
	UserID   string       `json:"user_id,omitempty"`
	FileName string       `json:"file_name"`
	Document *rawLandData `json:"document,omitempty"`
}

func main() {
	redisAddr := flag.String("redis", "localhost:6379", "Redis address for streams")
	flag.Parse()

	client := redis.NewClient(&redis.Options{
		Addr: *redisAddr,
	})
	defer client.Close()

	ctx := context.Background()

	// Connection check
	if err := client.Ping(ctx).Err(); err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}

	// Test event (Oyibi site plan with a CORS reference beacon)
	event := parcelExtractedEvent{
		UploadID: uuid.New(),
		UserID:   "test-user",
		FileName: "TN1042.pdf",
		Document: &rawLandData{
			Owners:     []string{"Ama Mensah"},
			PlotNumber: "TN/1042",
			Area:       "0.25",
			Metric:     "Acres",
			Locality:   "OYIBI",
			District:   "KPONE KATAMANSO",
			Region:     "GREATER ACCRA",
			SitePlanData: &rawSitePlanData{
				PlanData: &rawPlanData{
					From:     []string{"SGGA 3456/21/1", "SGGA 3456/21/2", "SGGA 3456/21/3", "SGGA 3456/21/4", "CORS GCS 121 122"},
					XCoords:  []float64{1214986.33, 1215099.12, 1215243.77, 1215130.45, 1220000.00},
					YCoords:  []float64{398201.45, 398150.20, 398260.08, 398311.76, 405000.00},
					Ref:      []bool{false, false, false, false, false},
					Bearing:  []string{"051°30'", "142°15'", "231°45'", "322°10'", ""},
					Distance: []float64{123.9, 155.2, 124.1, 154.8, 0},
					To:       []string{"SGGA 3456/21/2", "SGGA 3456/21/3", "SGGA 3456/21/4", "SGGA 3456/21/1", ""},
				},
			},
		},
	}

	data, err := json.Marshal(event)
	if err != nil {
		log.Fatalf("Failed to marshal event: %v", err)
	}

	// Publish to the extraction stream
	result, err := client.XAdd(ctx, &redis.XAddArgs{
		Stream: "stream:parcel:extracted",
		Values: map[string]interface{}{
			"data": string(data),
		},
	}).Result()
	if err != nil {
		log.Fatalf("Failed to publish event: %v", err)
	}

	fmt.Printf("✅ Event published successfully!\n")
	fmt.Printf("   Stream: stream:parcel:extracted\n")
	fmt.Printf("   Message ID: %s\n", result)
	fmt.Printf("   Upload ID: %s\n", event.UploadID)
	fmt.Printf("   Plot: %s (%s)\n", event.Document.PlotNumber, event.Document.Locality)

	// Wait for the processing result
	fmt.Printf("\n⏳ Waiting for response in stream:parcel:processed...\n")

	timeout := time.After(30 * time.Second)
	ticker := time.NewTicker(1 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-timeout:
			fmt.Println("❌ Timeout waiting for response")
			return
		case <-ticker.C:
			results, err := client.XRead(ctx, &redis.XReadArgs{
				Streams: []string{"stream:parcel:processed", "0"},
				Count:   10,
				Block:   0,
			}).Result()

			if err != nil && err != redis.Nil {
				continue
			}

			for _, stream := range results {
				for _, msg := range stream.Messages {
					dataStr, ok := msg.Values["data"].(string)
					if !ok {
						continue
					}

					var response map[string]interface{}
					if err := json.Unmarshal([]byte(dataStr), &response); err != nil {
						continue
					}

					if upID, ok := response["upload_id"].(string); ok {
						if upID == event.UploadID.String() {
							fmt.Printf("\n✅ Response received!\n")
							prettyJSON, _ := json.MarshalIndent(response, "", "  ")
							fmt.Printf("%s\n", prettyJSON)
							return
						}
					}
				}
			}
		}
	}
}
