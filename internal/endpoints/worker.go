package endpoints

import (
	"context"
	"encoding/json"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"provenance-api/internal/metrics"

	"go.uber.org/zap"
)

const maxFeedBytes = 10 << 20

// ArticleStore is the write side the worker refreshes.
type ArticleStore interface {
	ReplaceAll(ctx context.Context, titles []string) (int, error)
}

// Broadcaster pushes events to connected clients.
type Broadcaster interface {
	BroadcastAll(message []byte)
}

// WorkerOpts holds the optional collaborators of a Worker.
type WorkerOpts struct {
	Client  *http.Client
	Timeout time.Duration
	Hub     Broadcaster
	Metrics *metrics.Metrics
	Logger  *zap.Logger
}

// Worker fetches an RSS feed and replaces the stored articles with its items.
type Worker struct {
	store ArticleStore
	opts  WorkerOpts
}

// NewWorker returns a Worker writing to store.
func NewWorker(store ArticleStore, opts WorkerOpts) *Worker {
	if opts.Client == nil {
		opts.Client = http.DefaultClient
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 10 * time.Second
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	return &Worker{store: store, opts: opts}
}

// Name identifies the worker to the scheduler.
func (w *Worker) Name() string {
	return "ready"
}

type rssFeed struct {
	XMLName xml.Name `xml:"rss"`
	Channel struct {
		Items []struct {
			Title string `xml:"title"`
		} `xml:"item"`
	} `xml:"channel"`
}

// Execute fetches task.Endpoint and, only if the feed parses, replaces every
// stored article with one available article per feed item.
func (w *Worker) Execute(ctx context.Context, task Task) (err error) {
	defer func() { w.opts.Metrics.ObserveRun(err) }()

	body, err := w.fetch(ctx, task)
	if err != nil {
		return err
	}

	var feed rssFeed
	if err := xml.Unmarshal(body, &feed); err != nil {
		return fmt.Errorf("parse feed %s: %w", task.Endpoint, err)
	}
	titles := make([]string, 0, len(feed.Channel.Items))
	for _, item := range feed.Channel.Items {
		titles = append(titles, strings.TrimSpace(item.Title))
	}

	n, err := w.store.ReplaceAll(ctx, titles)
	if err != nil {
		return err
	}
	if w.opts.Metrics != nil {
		w.opts.Metrics.Articles.Set(float64(n))
	}
	w.opts.Logger.Info("articles refreshed", zap.String("endpoint", task.Endpoint), zap.Int("count", n))
	w.broadcast(n)
	return nil
}

func (w *Worker) fetch(ctx context.Context, task Task) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, w.opts.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, task.Endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build request for %s: %w", task.Endpoint, err)
	}
	accept := task.Accept
	if accept == "" {
		accept = defaultAccept
	}
	req.Header.Set("Accept", accept)

	resp, err := w.opts.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", task.Endpoint, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("fetch %s: unexpected status %d", task.Endpoint, resp.StatusCode)
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxFeedBytes))
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", task.Endpoint, err)
	}
	return body, nil
}

func (w *Worker) broadcast(count int) {
	if w.opts.Hub == nil {
		return
	}
	evt := map[string]any{
		"type":  "articles_refreshed",
		"count": count,
	}
	if bytes, err := json.Marshal(evt); err == nil {
		w.opts.Hub.BroadcastAll(bytes)
	}
}
