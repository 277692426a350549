package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
	config "github.com/thekevinkun/padel-court-sub000/configs"
	"github.com/thekevinkun/padel-court-sub000/services"
)

var ctx = context.Background()

// ReportTTL bounds report staleness. The cache is an optimization only: a
// miss recomputes an identical result to a hit.
const ReportTTL = 5 * time.Minute

type ReportCache struct {
	client *redis.Client
}

var Reports *ReportCache

func InitReportCache() {
	addr := config.Config("REDIS_ADDR")
	if addr == "" {
		log.Println("⚠️ REDIS_ADDR not set, revenue reports will be recomputed on every request")
		return
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: config.Config("REDIS_PASSWORD"),
		DB:       0,
	})

	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Printf("⚠️ Redis connection failed: %v, report caching disabled", err)
		return
	}

	Reports = &ReportCache{client: rdb}
	log.Println("✅ Report cache connected successfully")
}

func reportKey(startDate, endDate string) string {
	return fmt.Sprintf("report:revenue:%s:%s", startDate, endDate)
}

// Get returns the cached report for a date range, or nil on a miss.
func (c *ReportCache) Get(startDate, endDate string) *services.RevenueReport {
	if c == nil {
		return nil
	}

	val, err := c.client.Get(ctx, reportKey(startDate, endDate)).Result()
	if err == redis.Nil {
		return nil
	}
	if err != nil {
		log.Printf("⚠️ Report cache read failed: %v", err)
		return nil
	}

	var report services.RevenueReport
	if err := json.Unmarshal([]byte(val), &report); err != nil {
		return nil
	}
	return &report
}

func (c *ReportCache) Set(startDate, endDate string, report *services.RevenueReport) {
	if c == nil {
		return
	}

	data, err := json.Marshal(report)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, reportKey(startDate, endDate), data, ReportTTL).Err(); err != nil {
		log.Printf("⚠️ Report cache write failed: %v", err)
	}
}
