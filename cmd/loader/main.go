// Command loader builds the product search index and the autosuggest
// dictionaries from catalog artifacts. It drops and recreates the index, so
// it is meant for offline or maintenance-window runs.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/openkart/searchd/internal/config"
	"github.com/openkart/searchd/internal/db"
	dbRedis "github.com/openkart/searchd/internal/db/redis"
	"github.com/openkart/searchd/internal/domain"
	logpkg "github.com/openkart/searchd/internal/logger"
	"github.com/openkart/searchd/internal/metrics"
	suggestrepo "github.com/openkart/searchd/internal/repository/suggest"
	openaiEmb "github.com/openkart/searchd/internal/transport/openai"
	"github.com/openkart/searchd/internal/version"
)

// embedBatchSize caps texts per embedding API call.
const embedBatchSize = 64

// writeBatchSize caps hash writes per pipeline round trip.
const writeBatchSize = 500

// product mirrors one record of the catalog artifact.
type product struct {
	ASIN             string  `json:"asin"`
	Title            string  `json:"title"`
	TitleHindi       string  `json:"title_hi,omitempty"`
	Description      string  `json:"description"`
	DescriptionHindi string  `json:"description_hi,omitempty"`
	Brand            string  `json:"brand"`
	Department       string  `json:"department"`
	FinalPrice       float64 `json:"final_price"`
	InitialPrice     float64 `json:"initial_price"`
	Rating           float64 `json:"rating"`
	RatingCount      float64 `json:"rating_count"`
	QualityScore     float64 `json:"quality_score"`
	DiscountPct      float64 `json:"discount_percentage"`
	BoughtPastMonth  float64 `json:"bought_past_month"`
	ImageURL         string  `json:"image_url"`
}

// queryLogEntry mirrors one record of the aggregated query log.
type queryLogEntry struct {
	Query     string  `json:"query"`
	Frequency float64 `json:"frequency"`
}

func main() {
	productsPath := flag.String("products", "data/products.json", "path to the product catalog artifact")
	queriesPath := flag.String("queries", "data/queries.json", "path to the aggregated query log")
	flag.Parse()

	env := config.GetEnv()
	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.NewLogger(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting searchd loader",
		zap.String("version", version.Version),
		zap.String("env", env),
		zap.String("products", *productsPath),
		zap.String("queries", *queriesPath),
	)

	store, err := dbRedis.NewStore(dbRedis.Config{
		Addrs:    cfg.Database.Addrs,
		Password: cfg.Database.Password,
	})
	if err != nil {
		logger.Fatal("Failed to create database store", zap.Error(err))
	}
	defer store.Close()

	ctx := context.Background()
	if err := store.WaitForReady(ctx, time.Duration(cfg.Database.ReadinessTimeout)*time.Second); err != nil {
		logger.Fatal("Database not ready", zap.Error(err))
	}

	metrics.RegisterEmbeddingMetrics()

	embedder := openaiEmb.NewEmbedder(&openaiEmb.Config{
		APIKey:     cfg.Embedding.APIKey,
		BaseURL:    cfg.Embedding.BaseURL,
		Model:      cfg.Embedding.Model,
		Dimensions: cfg.Embedding.Dimensions,
		Provider:   cfg.Embedding.Provider,
	})

	products, err := loadJSON[[]product](*productsPath)
	if err != nil {
		logger.Fatal("Failed to load products", zap.Error(err))
	}
	queries, err := loadJSON[[]queryLogEntry](*queriesPath)
	if err != nil {
		logger.Fatal("Failed to load query log", zap.Error(err))
	}

	if err := createIndex(ctx, store, cfg); err != nil {
		logger.Fatal("Failed to create index", zap.Error(err))
	}
	logger.Info("Index created", zap.String("index", cfg.Catalog.IndexName))

	purged, err := purgeProducts(ctx, store, cfg.Catalog.KeyPrefix)
	if err != nil {
		logger.Fatal("Failed to purge stale products", zap.Error(err))
	}
	if purged > 0 {
		logger.Info("Purged stale product keys", zap.Int("count", purged))
	}

	if err := indexProducts(ctx, store, embedder, cfg, products, logger); err != nil {
		logger.Fatal("Failed to index products", zap.Error(err))
	}

	if err := loadDictionaries(ctx, store, cfg.Suggest.DictPrefix, products, queries); err != nil {
		logger.Fatal("Failed to load suggestion dictionaries", zap.Error(err))
	}

	logger.Info("Load complete",
		zap.Int("products", len(products)),
		zap.Int("queries", len(queries)),
	)
}

func loadJSON[T any](path string) (T, error) {
	var out T
	data, err := os.ReadFile(path)
	if err != nil {
		return out, fmt.Errorf("read %s: %w", path, err)
	}
	if err := json.Unmarshal(data, &out); err != nil {
		return out, fmt.Errorf("parse %s: %w", path, err)
	}
	return out, nil
}

// purgeProducts deletes every existing product hash so entries removed from
// the catalog artifact do not linger in the rebuilt index.
func purgeProducts(ctx context.Context, store db.Store, keyPrefix string) (int, error) {
	keys, err := store.Scan(ctx, keyPrefix+"*")
	if err != nil {
		return 0, fmt.Errorf("scan %s*: %w", keyPrefix, err)
	}
	for _, key := range keys {
		if err := store.Del(ctx, key); err != nil {
			return 0, fmt.Errorf("del %s: %w", key, err)
		}
	}
	return len(keys), nil
}

// createIndex drops any existing product index and builds a fresh one.
// Title text carries double weight so title matches outrank description
// matches at equal term frequency.
func createIndex(ctx context.Context, store db.Store, cfg config.Config) error {
	exists, err := store.IndexExists(ctx, cfg.Catalog.IndexName)
	if err != nil {
		return fmt.Errorf("check index: %w", err)
	}
	if exists {
		if err := store.DropIndex(ctx, cfg.Catalog.IndexName); err != nil {
			return fmt.Errorf("drop index: %w", err)
		}
	}

	def, err := db.NewIndex(cfg.Catalog.IndexName).
		Prefix(cfg.Catalog.KeyPrefix).
		TextWeighted("title", 2.0).
		TextWeighted("title_hi", 2.0).
		Text("description").
		Text("description_hi").
		Tag("brand").
		Tag("department").
		Numeric("rating").
		Numeric("rating_count").
		Numeric("final_price").
		Numeric("initial_price").
		Numeric("quality_score").
		Numeric("discount_percentage").
		Numeric("bought_past_month").
		VectorHNSW("embedding", cfg.Embedding.Dimensions, db.DistanceCosine,
			cfg.Catalog.HNSWM, cfg.Catalog.HNSWEFConstruct).
		Build()
	if err != nil {
		return fmt.Errorf("build index definition: %w", err)
	}

	return store.CreateIndex(ctx, def)
}

// indexProducts embeds and writes the catalog in batches.
func indexProducts(
	ctx context.Context,
	store db.Store,
	embedder domain.BatchEmbedder,
	cfg config.Config,
	products []product,
	logger *zap.Logger,
) error {
	for start := 0; start < len(products); start += embedBatchSize {
		end := start + embedBatchSize
		if end > len(products) {
			end = len(products)
		}
		batch := products[start:end]

		texts := make([]string, len(batch))
		for i, p := range batch {
			texts[i] = strings.TrimSpace(p.Title + " " + p.Description)
		}

		res, err := embedder.BatchEmbed(ctx, texts)
		if err != nil {
			return fmt.Errorf("embed batch at %d: %w", start, err)
		}
		if len(res.Embeddings) != len(batch) {
			return fmt.Errorf("embed batch at %d: got %d vectors for %d products",
				start, len(res.Embeddings), len(batch))
		}

		items := make([]db.HashSetItem, len(batch))
		for i, p := range batch {
			items[i] = db.HashSetItem{
				Key:    cfg.Catalog.KeyPrefix + p.ASIN,
				Fields: productFields(p, res.Embeddings[i]),
			}
		}
		for ws := 0; ws < len(items); ws += writeBatchSize {
			we := ws + writeBatchSize
			if we > len(items) {
				we = len(items)
			}
			if err := store.HSetMulti(ctx, items[ws:we]); err != nil {
				return fmt.Errorf("write batch at %d: %w", start+ws, err)
			}
		}

		logger.Info("Indexed products", zap.Int("done", end), zap.Int("total", len(products)))
	}
	return nil
}

func productFields(p product, embedding []float32) map[string]string {
	fields := map[string]string{
		"asin":                p.ASIN,
		"title":               p.Title,
		"description":         p.Description,
		"brand":               p.Brand,
		"department":          p.Department,
		"rating":              formatFloat(p.Rating),
		"rating_count":        formatFloat(p.RatingCount),
		"final_price":         formatFloat(p.FinalPrice),
		"initial_price":       formatFloat(p.InitialPrice),
		"quality_score":       formatFloat(p.QualityScore),
		"discount_percentage": formatFloat(p.DiscountPct),
		"bought_past_month":   formatFloat(p.BoughtPastMonth),
		"image_url":           p.ImageURL,
		"embedding":           db.VectorToBytes(embedding),
	}
	if p.TitleHindi != "" {
		fields["title_hi"] = p.TitleHindi
	}
	if p.DescriptionHindi != "" {
		fields["description_hi"] = p.DescriptionHindi
	}
	return fields
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// loadDictionaries fills the completion dictionaries consumed by
// autosuggest: query terms weighted by frequency, category and brand names
// weighted by how many products carry them. Terms are routed to a per-language
// dictionary so Hindi prefixes never surface English completions.
func loadDictionaries(
	ctx context.Context,
	store db.Suggester,
	dictPrefix string,
	products []product,
	queries []queryLogEntry,
) error {
	for _, q := range queries {
		term := strings.TrimSpace(q.Query)
		if term == "" {
			continue
		}
		dict := suggestrepo.Dict(dictPrefix, "queries", domain.DetectLanguage(term))
		if err := store.SuggestAdd(ctx, dict, term, q.Frequency, ""); err != nil {
			return fmt.Errorf("add query term %q: %w", term, err)
		}
	}

	categories := make(map[string]float64)
	brands := make(map[string]float64)
	for _, p := range products {
		if d := strings.TrimSpace(p.Department); d != "" {
			categories[d]++
		}
		if b := strings.TrimSpace(p.Brand); b != "" {
			brands[b]++
		}
	}

	if err := addTerms(ctx, store, dictPrefix, "categories", categories); err != nil {
		return err
	}
	return addTerms(ctx, store, dictPrefix, "brands", brands)
}

func addTerms(ctx context.Context, store db.Suggester, dictPrefix, source string, terms map[string]float64) error {
	for term, weight := range terms {
		dict := suggestrepo.Dict(dictPrefix, source, domain.DetectLanguage(term))
		if err := store.SuggestAdd(ctx, dict, term, weight, ""); err != nil {
			return fmt.Errorf("add %s term %q: %w", source, term, err)
		}
	}
	return nil
}
