// Package youtube collects video statistics from the YouTube Data API v3.
package youtube

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/ghalamif/ViewPulse/internal/domain"
	"github.com/ghalamif/ViewPulse/internal/ports"
)

const (
	DefaultEndpoint  = "https://www.googleapis.com/youtube/v3/videos"
	DefaultAPIKeyEnv = "YT_API_KEY"
	// MaxBatch is the largest id list the videos endpoint accepts per call.
	MaxBatch = 50
)

// Config captures how to reach the videos endpoint.
type Config struct {
	Endpoint  string        `yaml:"endpoint"`
	APIKeyEnv string        `yaml:"api_key_env"`
	Watchlist string        `yaml:"watchlist"`
	BatchSize int           `yaml:"batch_size"`
	Timeout   time.Duration `yaml:"timeout"`
}

func (c *Config) ApplyDefaults() {
	if c.Endpoint == "" {
		c.Endpoint = DefaultEndpoint
	}
	if c.APIKeyEnv == "" {
		c.APIKeyEnv = DefaultAPIKeyEnv
	}
	if c.BatchSize <= 0 || c.BatchSize > MaxBatch {
		c.BatchSize = MaxBatch
	}
	if c.Timeout <= 0 {
		c.Timeout = 30 * time.Second
	}
}

func (c *Config) Validate() error {
	if _, err := url.Parse(c.Endpoint); err != nil {
		return fmt.Errorf("endpoint: %w", err)
	}
	return nil
}

// ErrMissingAPIKey is returned before any request when no key is available.
var ErrMissingAPIKey = errors.New("youtube: missing API key")

// Collector queries the videos endpoint for snippet and statistics parts.
type Collector struct {
	cfg    Config
	apiKey string
	client *http.Client
	loc    *time.Location
}

// NewCollector resolves the API key from cfg.APIKeyEnv. loc is the zone the
// civil run date is stamped in.
func NewCollector(cfg Config, loc *time.Location) (*Collector, error) {
	return NewCollectorWithKey(cfg, os.Getenv(defaultEnv(cfg.APIKeyEnv)), loc)
}

func NewCollectorWithKey(cfg Config, apiKey string, loc *time.Location) (*Collector, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if strings.TrimSpace(apiKey) == "" {
		return nil, fmt.Errorf("%w (set %s)", ErrMissingAPIKey, cfg.APIKeyEnv)
	}
	if loc == nil {
		loc = time.UTC
	}
	return &Collector{
		cfg:    cfg,
		apiKey: apiKey,
		client: &http.Client{Timeout: cfg.Timeout},
		loc:    loc,
	}, nil
}

func defaultEnv(name string) string {
	if name == "" {
		return DefaultAPIKeyEnv
	}
	return name
}

func (c *Collector) Name() string { return "youtube" }

type videoList struct {
	Items []video `json:"items"`
}

type video struct {
	ID      string `json:"id"`
	Snippet struct {
		ChannelID   string `json:"channelId"`
		Title       string `json:"title"`
		PublishedAt string `json:"publishedAt"`
	} `json:"snippet"`
	Statistics struct {
		ViewCount    string `json:"viewCount"`
		LikeCount    string `json:"likeCount"`
		CommentCount string `json:"commentCount"`
	} `json:"statistics"`
}

type apiError struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// Collect returns one row per watch item, in watchlist order. Ids the API
// does not return get a row with blank statistics and the label kept.
func (c *Collector) Collect(ctx context.Context, items []domain.WatchItem, runAt time.Time) ([]domain.StatsRow, error) {
	ids := make([]string, 0, len(items))
	for _, it := range items {
		ids = append(ids, it.VideoID)
	}

	found := make(map[string]video, len(ids))
	for start := 0; start < len(ids); start += c.cfg.BatchSize {
		end := min(start+c.cfg.BatchSize, len(ids))
		batch, err := c.fetch(ctx, ids[start:end])
		if err != nil {
			return nil, err
		}
		for _, v := range batch {
			found[v.ID] = v
		}
	}

	runAt = runAt.UTC()
	runDate := runAt.In(c.loc).Format(time.DateOnly)
	rows := make([]domain.StatsRow, 0, len(items))
	for _, it := range items {
		row := domain.StatsRow{
			RunDate: runDate,
			RunAt:   runAt,
			VideoID: it.VideoID,
			Label:   it.Label,
		}
		if v, ok := found[it.VideoID]; ok {
			row.ChannelID = v.Snippet.ChannelID
			row.Title = v.Snippet.Title
			row.PublishedAt = v.Snippet.PublishedAt
			row.ViewCount = v.Statistics.ViewCount
			row.LikeCount = v.Statistics.LikeCount
			row.CommentCount = v.Statistics.CommentCount
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func (c *Collector) fetch(ctx context.Context, ids []string) ([]video, error) {
	u, err := url.Parse(c.cfg.Endpoint)
	if err != nil {
		return nil, err
	}
	q := u.Query()
	q.Set("part", "snippet,statistics")
	q.Set("id", strings.Join(ids, ","))
	q.Set("key", c.apiKey)
	q.Set("maxResults", fmt.Sprint(len(ids)))
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("youtube request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 16<<20))
	if err != nil {
		return nil, fmt.Errorf("youtube read body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		var apiErr apiError
		if json.Unmarshal(body, &apiErr) == nil && apiErr.Error.Message != "" {
			return nil, fmt.Errorf("youtube: status %d: %s", resp.StatusCode, apiErr.Error.Message)
		}
		return nil, fmt.Errorf("youtube: status %d", resp.StatusCode)
	}

	var list videoList
	if err := json.Unmarshal(body, &list); err != nil {
		return nil, fmt.Errorf("youtube decode: %w", err)
	}
	return list.Items, nil
}

var _ ports.Collector = (*Collector)(nil)
