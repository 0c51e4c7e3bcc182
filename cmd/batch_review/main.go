// batch_review reviews a JSON file of content items from the command line
// and writes the merged report to stdout or a file.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/pkompalli/QBank-Generator/internal/adapter/llmclient"
	"github.com/pkompalli/QBank-Generator/internal/config"
	"github.com/pkompalli/QBank-Generator/internal/domain"
	"github.com/pkompalli/QBank-Generator/internal/imagepipe"
	"github.com/pkompalli/QBank-Generator/internal/logger"
	"github.com/pkompalli/QBank-Generator/internal/review"
	"github.com/pkompalli/QBank-Generator/internal/service"

	"github.com/tmc/langchaingo/llms/anthropic"
	"go.uber.org/zap"
)

func main() {
	var (
		inputPath   = flag.String("input", "", "path to a JSON array of content items")
		contentType = flag.String("type", "qbank", "content type: qbank or lesson")
		domainLabel = flag.String("domain", "", "medical field for the review personas, e.g. radiology")
		course      = flag.String("course", "", "course context, e.g. \"NEET PG\"")
		outputPath  = flag.String("output", "", "write the report here instead of stdout")
	)
	flag.Parse()

	if *inputPath == "" {
		fmt.Fprintln(os.Stderr, "usage: batch_review -input items.json [-type qbank|lesson] [-domain radiology] [-output report.json]")
		os.Exit(2)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if err := logger.Initialize(cfg.Logger); err != nil {
		panic(err)
	}
	appLogger := logger.Get()
	defer logger.Sync()

	data, err := os.ReadFile(*inputPath)
	if err != nil {
		appLogger.Fatal("Failed to read input file", zap.Error(err))
	}
	var items []domain.ContentItem
	if err := json.Unmarshal(data, &items); err != nil {
		appLogger.Fatal("Input is not a JSON array of content items", zap.Error(err))
	}

	model, err := anthropic.New(
		anthropic.WithToken(cfg.LLM.AnthropicAPIKey),
		anthropic.WithModel(cfg.LLM.Model),
	)
	if err != nil {
		appLogger.Fatal("Failed to create LLM client", zap.Error(err))
	}
	llm := llmclient.New(model, cfg.LLM.Timeout)

	fetcher := imagepipe.NewFetcher(30 * time.Second)
	reviewer := review.NewBatchReviewer(llm, fetcher.Fetch, cfg.Review, cfg.LLM, appLogger)
	svc := service.NewReviewService(review.NewPreScreener(appLogger), reviewer, appLogger)

	report, err := svc.Review(context.Background(), domain.ContentType(*contentType), items, *domainLabel, *course)
	if err != nil {
		appLogger.Fatal("Review failed", zap.Error(err))
	}

	out, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		appLogger.Fatal("Failed to encode report", zap.Error(err))
	}

	if *outputPath != "" {
		if err := os.WriteFile(*outputPath, out, 0o644); err != nil {
			appLogger.Fatal("Failed to write report", zap.Error(err))
		}
		appLogger.Info("Report written",
			zap.String("path", *outputPath),
			zap.Int("items", report.Summary.Total),
			zap.Float64("avg_quality", report.Summary.AvgQualityScore),
		)
		return
	}
	fmt.Println(string(out))
}
