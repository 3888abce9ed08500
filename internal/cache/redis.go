package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Client is a thin read-through cache over Redis. Every method is safe to
// skip when the client is nil; callers treat cache failures as misses.
type Client struct {
	rdb          *redis.Client
	trainsTTL    time.Duration
	pnrLookupTTL time.Duration
}

type Config struct {
	Addr         string
	Password     string
	DB           int
	TrainsTTL    time.Duration
	PNRLookupTTL time.Duration
}

func NewClient(cfg Config) (*Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		ReadTimeout:  2 * time.Second,
		WriteTimeout: 2 * time.Second,
		DialTimeout:  5 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}

	return &Client{
		rdb:          rdb,
		trainsTTL:    cfg.TrainsTTL,
		pnrLookupTTL: cfg.PNRLookupTTL,
	}, nil
}

const trainsListKey = "trains:active"

func pnrKey(pnr string) string {
	return "booking:pnr:" + pnr
}

// GetTrainsListRaw returns the cached active-train list as raw JSON, so a
// hit skips the unmarshal/marshal round trip entirely.
func (c *Client) GetTrainsListRaw(ctx context.Context) ([]byte, error) {
	return c.rdb.Get(ctx, trainsListKey).Bytes()
}

func (c *Client) SetTrainsList(ctx context.Context, v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, trainsListKey, data, c.trainsTTL).Err()
}

// InvalidateTrains drops the cached list after an admin catalog write.
func (c *Client) InvalidateTrains(ctx context.Context) error {
	return c.rdb.Del(ctx, trainsListKey).Err()
}

func (c *Client) GetBookingByPNRRaw(ctx context.Context, pnr string) ([]byte, error) {
	return c.rdb.Get(ctx, pnrKey(pnr)).Bytes()
}

func (c *Client) SetBookingByPNR(ctx context.Context, pnr string, v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, pnrKey(pnr), data, c.pnrLookupTTL).Err()
}

// InvalidatePNR drops a cached lookup after a cancellation so the status
// flip is visible immediately.
func (c *Client) InvalidatePNR(ctx context.Context, pnr string) error {
	return c.rdb.Del(ctx, pnrKey(pnr)).Err()
}

func (c *Client) Close() error {
	return c.rdb.Close()
}
