package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/davecollins/newsintel/config"
	"github.com/davecollins/newsintel/internal/digest"
	"github.com/davecollins/newsintel/internal/enrich"
	"github.com/davecollins/newsintel/internal/relevance"
	"github.com/davecollins/newsintel/internal/sentiment"
	"github.com/davecollins/newsintel/internal/storage"
	"github.com/davecollins/newsintel/news"
	"github.com/davecollins/newsintel/news/bluesky"
	"github.com/davecollins/newsintel/news/customsearch"
	"github.com/davecollins/newsintel/news/hackernews"
	"github.com/davecollins/newsintel/news/newsapi"
	"github.com/davecollins/newsintel/news/rss"
	"github.com/davecollins/newsintel/news/youtube"
	"github.com/davecollins/newsintel/provider"
	"github.com/davecollins/newsintel/tools/embedding"
)

func newBlob(cfg *config.Config) (storage.Blob, error) {
	switch cfg.Storage.Backend {
	case "s3":
		return storage.NewS3Blob(storage.S3Options{
			Endpoint:        cfg.Storage.S3.Endpoint,
			Region:          cfg.Storage.S3.Region,
			Bucket:          cfg.Storage.S3.Bucket,
			AccessKeyID:     cfg.Storage.S3.AccessKeyID,
			SecretAccessKey: cfg.Storage.S3.SecretAccessKey,
			UseSSL:          cfg.Storage.S3.UseSSL,
		})
	default:
		return storage.NewFSBlob(cfg.Storage.FS.DataDir)
	}
}

func newSources(cfg *config.Config) []news.Source {
	var sources []news.Source
	for _, feed := range cfg.Sources.RSS.Feeds {
		sources = append(sources, rss.NewFeed(feed))
	}
	if cfg.Sources.NewsAPI.APIKey != "" {
		sources = append(sources, newsapi.Client{
			APIKey:     cfg.Sources.NewsAPI.APIKey,
			Endpoint:   cfg.Sources.NewsAPI.Endpoint,
			Queries:    cfg.Sources.NewsAPI.Queries,
			MaxResults: cfg.Sources.NewsAPI.MaxResults,
			Window:     cfg.Sources.RSS.Window,
		})
	}
	if cfg.Sources.YouTube.APIKey != "" {
		channels := make([]youtube.Channel, 0, len(cfg.Sources.YouTube.Channels))
		for _, ch := range cfg.Sources.YouTube.Channels {
			channels = append(channels, youtube.Channel{Name: ch.Name, ID: ch.ID})
		}
		sources = append(sources, youtube.Client{
			APIKey:   cfg.Sources.YouTube.APIKey,
			Endpoint: cfg.Sources.YouTube.Endpoint,
			Channels: channels,
		})
	}
	if cfg.Sources.Bluesky.Identifier != "" {
		sources = append(sources, &bluesky.Client{
			Host:       cfg.Sources.Bluesky.Host,
			Identifier: cfg.Sources.Bluesky.Identifier,
			Password:   cfg.Sources.Bluesky.Password,
			Keywords:   cfg.Sources.Bluesky.Keywords,
			MaxResults: cfg.Sources.Bluesky.MaxResults,
		})
	}
	if cfg.Sources.HackerNews.Enabled {
		sources = append(sources, hackernews.Client{
			Endpoint:   cfg.Sources.HackerNews.Endpoint,
			MaxStories: cfg.Sources.HackerNews.MaxStories,
		})
	}
	return sources
}

// runCollect is the news collection stage: fetch all configured sources and
// append the fresh records to the shared article store.
func runCollect(ctx context.Context, cfg *config.Config) error {
	if err := cfg.Sources.Validate(); err != nil {
		return err
	}
	blob, err := newBlob(cfg)
	if err != nil {
		return err
	}

	collector := news.Collector{
		Sources:         newSources(cfg),
		Window:          cfg.Sources.RSS.Window,
		WindowOverrides: cfg.Sources.RSS.WindowOverrides,
	}
	articles := collector.Collect(ctx)

	if cfg.Sources.Enrich.Enabled {
		articles = enrich.Enricher{Timeout: cfg.Sources.Enrich.Timeout}.Apply(ctx, articles)
	}

	added, err := storage.NewArticleStore(blob, cfg.Storage.Keys.Articles).Append(ctx, articles)
	if err != nil {
		return fmt.Errorf("storing collected articles: %w", err)
	}
	log.Printf("[collect] %d collected, %d new stored", len(articles), added)
	return nil
}

// runSocial is the social collection stage: find recent posts from the
// monitored handles via Custom Search and append them to the article store.
func runSocial(ctx context.Context, cfg *config.Config) error {
	if err := cfg.Sources.CustomSearch.Validate(); err != nil {
		return err
	}
	blob, err := newBlob(cfg)
	if err != nil {
		return err
	}

	handles := make([]customsearch.Handle, 0, len(cfg.Sources.CustomSearch.Handles))
	for _, h := range cfg.Sources.CustomSearch.Handles {
		handles = append(handles, customsearch.Handle{Name: h.Name, Handle: h.Handle})
	}
	client := customsearch.Client{
		APIKey:   cfg.Sources.CustomSearch.APIKey,
		EngineID: cfg.Sources.CustomSearch.EngineID,
		Endpoint: cfg.Sources.CustomSearch.Endpoint,
		Handles:  handles,
	}
	posts, err := client.Fetch(ctx)
	if err != nil {
		return fmt.Errorf("custom search: %w", err)
	}

	added, err := storage.NewArticleStore(blob, cfg.Storage.Keys.Articles).Append(ctx, posts)
	if err != nil {
		return fmt.Errorf("storing social posts: %w", err)
	}
	log.Printf("[social] %d posts found, %d new stored", len(posts), added)
	return nil
}

// runEmbed is the scoring stage: embed every unscored stored article and
// write its CSS back to the store.
func runEmbed(ctx context.Context, cfg *config.Config) error {
	if err := cfg.Embedding.Validate(); err != nil {
		return err
	}
	blob, err := newBlob(cfg)
	if err != nil {
		return err
	}

	interests, err := storage.LoadInterests(ctx, blob, cfg.Storage.Keys.Interests)
	if err != nil {
		return err
	}
	prov, err := provider.NewProvider(cfg.Embedding)
	if err != nil {
		return err
	}

	store := storage.NewArticleStore(blob, cfg.Storage.Keys.Articles)
	articles, err := store.Load(ctx)
	if err != nil {
		return err
	}

	var pending []int
	var texts []string
	for i, a := range articles {
		if a.Scored {
			continue
		}
		if text := a.Text(); text != "" {
			pending = append(pending, i)
			texts = append(texts, text)
		}
	}
	if len(pending) == 0 {
		log.Printf("[embed] nothing to score")
		return nil
	}

	vecs, err := embedding.NewEmbedding(prov, cfg.Embedding.BatchSize).EmbedMany(ctx, texts)
	if err != nil {
		return fmt.Errorf("embedding %d articles: %w", len(texts), err)
	}

	scorer := relevance.NewScorer(interests, cfg.Relevance.SourceWeights, cfg.Relevance.UseCredibility)
	scored := 0
	for n, idx := range pending {
		if vecs[n] == nil {
			continue
		}
		emb := make([]float64, len(vecs[n]))
		for j, v := range vecs[n] {
			emb[j] = float64(v)
		}
		css, interest := scorer.Score(emb, articles[idx].Source)
		articles[idx].Embedding = emb
		articles[idx].CSS = css
		articles[idx].Scored = true
		scored++
		if cfg.General.Debug {
			log.Printf("[embed] %.3f (%s) %s", css, interest, articles[idx].URL)
		}
	}

	if err := store.Save(ctx, articles); err != nil {
		return fmt.Errorf("storing scored articles: %w", err)
	}
	log.Printf("[embed] %d articles scored, %d skipped", scored, len(pending)-scored)
	return nil
}

// runNotify is the delivery stage: filter scored articles against the
// threshold, window and sent ledger, render the digest and email it. The
// ledger is updated only after a successful delivery.
func runNotify(ctx context.Context, cfg *config.Config, dryRun bool) error {
	blob, err := newBlob(cfg)
	if err != nil {
		return err
	}
	var mailer digest.Mailer
	if !dryRun {
		// Credentials are checked before any read so a misconfigured run
		// aborts without side effects.
		mailer, err = digest.NewMailgunMailer(cfg.Email)
		if err != nil {
			return err
		}
	}

	articles, err := storage.NewArticleStore(blob, cfg.Storage.Keys.Articles).Load(ctx)
	if err != nil {
		return err
	}
	ledger := storage.NewLedger(blob, cfg.Storage.Keys.Ledger)
	sent, err := ledger.Load(ctx)
	if err != nil {
		return err
	}

	selected := digest.Filter(articles, sent, digest.Options{
		Threshold:       cfg.Relevance.Threshold,
		Window:          cfg.Relevance.Window,
		WindowOverrides: cfg.Relevance.WindowOverrides,
	})
	if len(selected) == 0 {
		log.Printf("[notify] no new relevant articles, skipping digest")
		return nil
	}

	summary := sentiment.NewAnalyzer(cfg.Relevance.SourceWeights).Summarize(selected)
	now := time.Now()
	body, err := digest.Render(selected, &summary, now)
	if err != nil {
		return err
	}
	subject := digest.Subject(len(selected), now)

	if dryRun {
		log.Printf("[notify] dry run: %d articles selected, digest not sent", len(selected))
		fmt.Fprintln(os.Stdout, body)
		return nil
	}

	if err := mailer.Send(ctx, subject, body); err != nil {
		return err
	}
	if err := ledger.Add(ctx, digest.URLs(selected)); err != nil {
		return fmt.Errorf("recording sent articles: %w", err)
	}
	log.Printf("[notify] digest sent, %d articles recorded", len(selected))
	return nil
}
