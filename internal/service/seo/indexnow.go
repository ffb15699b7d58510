package seo

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Jeremy-Luyckfasseel/pitstop-sub000/internal/core/logger"
)

// IndexNowConfig IndexNow submission settings
type IndexNowConfig struct {
	Key      string        // API key, also served at /<key>.txt
	BaseURL  string        // public site base URL
	Endpoint string        // submission endpoint
	RedisKey string        // dedup key prefix
	RedisTTL time.Duration // dedup window
}

// IndexNowPayload submission body
type IndexNowPayload struct {
	Host    string   `json:"host"`
	Key     string   `json:"key"`
	URLList []string `json:"urlList"`
}

// IndexNowService pings search engines when a public URL changes.
// Covers Bing, Yandex, Naver and friends.
type IndexNowService struct {
	client *http.Client
	config *IndexNowConfig
	redis  *redis.Client
}

// NewIndexNowService create IndexNowService
func NewIndexNowService(cfg *IndexNowConfig, redisClient *redis.Client) *IndexNowService {
	return &IndexNowService{
		client: &http.Client{
			Timeout: 5 * time.Second,
		},
		config: cfg,
		redis:  redisClient,
	}
}

// ShouldSubmit dedup check against the redis window
func (s *IndexNowService) ShouldSubmit(ctx context.Context, url string) (bool, error) {
	if s.redis == nil {
		return true, nil
	}
	key := fmt.Sprintf("%s:%s", s.config.RedisKey, url)
	exists, err := s.redis.Exists(ctx, key).Result()
	if err != nil {
		return false, err
	}
	return exists == 0, nil
}

// MarkSubmitted record a URL as submitted
func (s *IndexNowService) MarkSubmitted(ctx context.Context, url string) error {
	if s.redis == nil {
		return nil
	}
	key := fmt.Sprintf("%s:%s", s.config.RedisKey, url)
	return s.redis.Set(ctx, key, "1", s.config.RedisTTL).Err()
}

// SubmitURLs batch submission
func (s *IndexNowService) SubmitURLs(ctx context.Context, urls []string) error {
	if len(urls) == 0 {
		return nil
	}

	payload := IndexNowPayload{
		Host:    s.extractHost(urls[0]),
		Key:     s.config.Key,
		URLList: urls,
	}

	body, _ := json.Marshal(payload)

	req, err := http.NewRequestWithContext(ctx, "POST", s.config.Endpoint, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != 200 && resp.StatusCode != 202 {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("indexnow submit failed: %d, %s", resp.StatusCode, string(bodyBytes))
	}

	for _, url := range urls {
		_ = s.MarkSubmitted(ctx, url)
	}

	return nil
}

// SubmitURL single-URL submission with dedup
func (s *IndexNowService) SubmitURL(ctx context.Context, url string) error {
	if ok, err := s.ShouldSubmit(ctx, url); err != nil || !ok {
		return err
	}
	return s.SubmitURLs(ctx, []string{url})
}

// AsyncSubmit fire-and-forget submission off the request path
func (s *IndexNowService) AsyncSubmit(urls []string) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := s.SubmitURLs(ctx, urls); err != nil {
			logger.Warn("indexnow async submit failed", logger.String("error", err.Error()))
		}
	}()
}

// SubmitNews notify engines about a published article
func (s *IndexNowService) SubmitNews(nid int64) {
	s.AsyncSubmit([]string{fmt.Sprintf("%s/news/%d", s.config.BaseURL, nid)})
}

// SubmitThread notify engines about a forum thread
func (s *IndexNowService) SubmitThread(tid int64) {
	s.AsyncSubmit([]string{fmt.Sprintf("%s/forum/%d", s.config.BaseURL, tid)})
}

func (s *IndexNowService) extractHost(url string) string {
	for i := 0; i < len(url); i++ {
		if url[i] == '/' && i > 8 { // past the scheme
			return url[:i]
		}
	}
	return url
}
