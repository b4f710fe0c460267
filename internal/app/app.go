// Package app wires the crawler, index, ranker and classifier behind one
// boundary. It owns the rebuild-then-swap discipline: searches and
// classifications read a snapshot under a read lock while rebuilds
// prepare the replacement off to the side.
package app

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"strings"
	"sync"

	"github.com/scholarseek/scholarseek/internal/classifier"
	"github.com/scholarseek/scholarseek/internal/config"
	"github.com/scholarseek/scholarseek/internal/counter"
	"github.com/scholarseek/scholarseek/internal/crawler"
	"github.com/scholarseek/scholarseek/internal/extract"
	"github.com/scholarseek/scholarseek/internal/fetch"
	"github.com/scholarseek/scholarseek/internal/index"
	"github.com/scholarseek/scholarseek/internal/normalize"
	"github.com/scholarseek/scholarseek/internal/rank"
	"github.com/scholarseek/scholarseek/internal/store"
)

var (
	// ErrIndexNotBuilt is returned when search runs before any crawl has
	// stored documents.
	ErrIndexNotBuilt = errors.New("app: index not built, run a crawl first")

	// ErrModelNotTrained is returned when classify runs before training.
	ErrModelNotTrained = errors.New("app: classifier not trained, run train first")
)

// modelName keys the classifier snapshot in the store.
const modelName = "classifier"

// Classification is the full classify response.
type Classification struct {
	Labels        []string              `json:"predicted_labels"`
	Confidence    classifier.Confidence `json:"confidence_level"`
	Probabilities map[string]float64    `json:"all_probabilities"`
	TopFeatures   []classifier.Feature  `json:"top_features"`
	Steps         []normalize.Step      `json:"preprocessing_steps"`
}

// App is the application boundary used by the CLI and the scheduler.
type App struct {
	cfg        config.Config
	store      *store.Store
	normalizer *normalize.Normalizer
	client     *fetch.Client
	tokens     *counter.TokenCounter

	mu    sync.RWMutex
	idx   *index.Index
	chain *classifier.Chain
}

// New builds an App over an opened store.
func New(cfg config.Config, st *store.Store) *App {
	tokens, err := counter.NewTokenCounter()
	if err != nil {
		slog.Warn("token counter unavailable, abstracts stored untruncated", "error", err)
		tokens = nil
	}

	return &App{
		cfg:        cfg,
		store:      st,
		normalizer: normalize.New(normalize.DefaultOptions()),
		client:     fetch.NewClient(cfg.Crawl.UserAgent),
		tokens:     tokens,
	}
}

// Normalizer exposes the shared normalization pipeline.
func (a *App) Normalizer() *normalize.Normalizer {
	return a.normalizer
}

// BuildIndex rebuilds the search index from stored documents and swaps
// it in atomically. An empty corpus leaves any previous index in place
// and returns the build error.
func (a *App) BuildIndex(ctx context.Context) error {
	docs, err := a.store.LoadDocuments(ctx)
	if err != nil {
		return fmt.Errorf("loading documents: %w", err)
	}

	idx, err := index.Build(docs, a.normalizer)
	if err != nil {
		return err
	}

	a.mu.Lock()
	a.idx = idx
	a.mu.Unlock()

	slog.Info("index built", "documents", idx.TotalDocuments())
	return nil
}

// Search ranks stored documents against the query. topK <= 0 falls back
// to the configured default. A query with no corpus overlap returns an
// empty result set, not an error.
func (a *App) Search(ctx context.Context, query string, topK int) ([]rank.Result, error) {
	if topK <= 0 {
		topK = a.cfg.Search.TopK
	}

	a.mu.RLock()
	idx := a.idx
	a.mu.RUnlock()

	if idx == nil {
		if err := a.BuildIndex(ctx); err != nil {
			if errors.Is(err, index.ErrEmptyCorpus) {
				return nil, ErrIndexNotBuilt
			}
			return nil, err
		}
		a.mu.RLock()
		idx = a.idx
		a.mu.RUnlock()
	}

	return rank.Rank(idx, a.normalizer, a.cfg.Search.FieldWeights(), query, topK), nil
}

// Train fits the classifier chain on labeled samples, persists the
// snapshot and swaps it in. When testFraction > 0 a held-out split is
// evaluated and its per-label metrics returned.
func (a *App) Train(ctx context.Context, samples []classifier.Sample, testFraction float64) ([]classifier.LabelMetrics, error) {
	trainSet, testSet := classifier.SplitSamples(samples, testFraction, 1)

	chain, err := classifier.Train(trainSet, nil, a.normalizer, classifier.TrainConfig{
		MaxFeatures: a.cfg.Classifier.MaxFeatures,
		Alpha:       a.cfg.Classifier.Alpha,
	})
	if err != nil {
		return nil, err
	}

	data, err := chain.Encode()
	if err != nil {
		return nil, fmt.Errorf("encoding model: %w", err)
	}
	if err := a.store.SaveModel(ctx, modelName, data); err != nil {
		return nil, err
	}

	a.mu.Lock()
	a.chain = chain
	a.mu.Unlock()

	slog.Info("classifier trained",
		"labels", chain.Labels,
		"samples", len(trainSet),
		"vocabulary", chain.Vectorizer.Size())

	if len(testSet) == 0 {
		return nil, nil
	}
	return classifier.Evaluate(chain, testSet, a.cfg.Classifier.Threshold, a.normalizer)
}

// Classify predicts labels for free text at the given threshold and
// returns the probabilities, explanation features and preprocessing
// stages alongside the decision.
func (a *App) Classify(ctx context.Context, text string, threshold float64) (Classification, error) {
	chain, err := a.loadChain(ctx)
	if err != nil {
		return Classification{}, err
	}

	if a.tokens != nil {
		slog.Debug("classifying input", "tokens", a.tokens.Count(text), "chars", len(text))
	}

	state := chain.Predict(text, a.normalizer)
	decision, err := classifier.Decide(state, threshold)
	if err != nil {
		return Classification{}, err
	}

	return Classification{
		Labels:        decision.Labels,
		Confidence:    decision.Confidence,
		Probabilities: state.AllProbabilities(),
		TopFeatures:   chain.TopFeatures(text, state, 10, a.normalizer),
		Steps:         a.normalizer.Steps(text),
	}, nil
}

// RunCrawl executes one crawl run, records it in the run log and
// rebuilds the index when new documents were stored. Safe to re-run: the
// durable visited set makes refetching a no-op.
func (a *App) RunCrawl(ctx context.Context) (crawler.Stats, error) {
	runID, err := a.store.BeginCrawlRun(ctx)
	if err != nil {
		return crawler.Stats{}, err
	}

	c := crawler.New(crawler.Config{
		SeedURL:                   a.cfg.Crawl.SeedURL,
		UserAgent:                 a.cfg.Crawl.UserAgent,
		Delay:                     a.cfg.Crawl.Delay(),
		Workers:                   a.cfg.Crawl.Workers,
		MaxProfiles:               a.cfg.Crawl.MaxProfiles,
		MaxPublicationsPerProfile: a.cfg.Crawl.MaxPublicationsPerProfile,
		MaxAbstractTokens:         a.cfg.Crawl.MaxAbstractTokens,
	}, a.client, a.store, a.tokens)

	stats, err := c.Run(ctx)
	if err != nil {
		if logErr := a.store.FailCrawlRun(context.WithoutCancel(ctx), runID, err.Error()); logErr != nil {
			slog.Error("recording failed crawl run", "error", logErr)
		}
		return stats, err
	}

	if err := a.store.CompleteCrawlRun(ctx, runID, stats.DocumentsStored, stats.ProfilesCrawled); err != nil {
		return stats, err
	}

	if stats.DocumentsStored > 0 {
		if err := a.BuildIndex(ctx); err != nil {
			return stats, fmt.Errorf("rebuilding index after crawl: %w", err)
		}
	}
	return stats, nil
}

// ExtractText reads classification input from a source ("-" for stdin,
// a file path, or an http(s) URL) and strips HTML down to main-content
// text when the input is a web page.
func (a *App) ExtractText(ctx context.Context, source string) (string, error) {
	rc, err := a.client.ReadSource(ctx, source)
	if err != nil {
		return "", err
	}
	defer rc.Close()

	raw, err := io.ReadAll(rc)
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", source, err)
	}

	if strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://") {
		base, err := url.Parse(source)
		if err != nil {
			base = nil
		}
		return extract.MainText(bytes.NewReader(raw), base)
	}

	trimmed := strings.TrimSpace(string(raw))
	if strings.HasPrefix(trimmed, "<!DOCTYPE") || strings.HasPrefix(trimmed, "<html") {
		return extract.MainText(strings.NewReader(trimmed), nil)
	}
	return trimmed, nil
}

// CrawlHistory returns recent crawl run log entries, newest first.
func (a *App) CrawlHistory(ctx context.Context, limit int) ([]store.CrawlRun, error) {
	return a.store.ListCrawlRuns(ctx, limit)
}

// loadChain returns the in-memory chain, loading the stored snapshot on
// first use.
func (a *App) loadChain(ctx context.Context) (*classifier.Chain, error) {
	a.mu.RLock()
	chain := a.chain
	a.mu.RUnlock()
	if chain != nil {
		return chain, nil
	}

	data, err := a.store.LoadModel(ctx, modelName)
	if errors.Is(err, store.ErrNoModel) {
		return nil, ErrModelNotTrained
	}
	if err != nil {
		return nil, err
	}

	chain, err = classifier.Decode(data)
	if err != nil {
		return nil, fmt.Errorf("decoding stored model: %w", err)
	}

	a.mu.Lock()
	a.chain = chain
	a.mu.Unlock()
	return chain, nil
}
