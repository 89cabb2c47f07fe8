package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/arogya-labs/referral-digitizer/internal/common"
	"github.com/arogya-labs/referral-digitizer/internal/llm/gemini"
	"github.com/arogya-labs/referral-digitizer/internal/persist"
	"github.com/arogya-labs/referral-digitizer/internal/pipeline"
	"github.com/arogya-labs/referral-digitizer/internal/store"
)

func main() {
	var (
		key    = flag.String("key", "", "storage key of the scan image to digitize")
		latest = flag.Bool("latest", false, "digitize the lexicographically last image in the bucket")
		list   = flag.Bool("list", false, "list available scan images and exit")
	)
	flag.Parse()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	cfg := common.LoadConfig()
	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(2)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	st, err := store.NewS3Store(ctx, store.S3Config{
		Bucket:          cfg.Store.Bucket,
		Region:          cfg.Store.Region,
		Endpoint:        cfg.Store.Endpoint,
		AccessKeyID:     cfg.Store.AccessKeyID,
		SecretAccessKey: cfg.Store.SecretAccessKey,
	}, logger)
	if err != nil {
		logger.Error("open store", "error", err)
		os.Exit(1)
	}

	if *list {
		images, err := store.ListImages(ctx, st)
		if err != nil {
			logger.Error("list images", "error", err)
			os.Exit(1)
		}
		for _, k := range images {
			fmt.Println(k)
		}
		return
	}

	target := *key
	if target == "" && *latest {
		images, err := store.ListImages(ctx, st)
		if err != nil {
			logger.Error("list images", "error", err)
			os.Exit(1)
		}
		if len(images) == 0 {
			logger.Error("no scan images in store")
			os.Exit(1)
		}
		target = images[len(images)-1]
	}
	if target == "" {
		logger.Error("usage: refextract -key <image-key> | -latest | -list")
		os.Exit(2)
	}

	checklistClient := gemini.NewClient(gemini.Config{
		APIKey:      cfg.Gemini.APIKey,
		Model:       cfg.Gemini.ChecklistModel,
		Temperature: cfg.Gemini.Temperature,
		Timeout:     cfg.Gemini.Timeout,
	}, logger)
	detailsClient := gemini.NewClient(gemini.Config{
		APIKey:      cfg.Gemini.APIKey,
		Model:       cfg.Gemini.DetailsModel,
		Temperature: cfg.Gemini.Temperature,
		Timeout:     cfg.Gemini.Timeout,
	}, logger)

	proc := pipeline.NewProcessor(logger, st, checklistClient, detailsClient, persist.New(st, logger))

	rec, err := proc.ProcessImage(ctx, target)
	if err != nil {
		logger.Error("digitization failed", "key", target, "error", err)
		os.Exit(1)
	}

	fmt.Printf("saved: %s (at %s)\n", rec.Key, rec.Timestamp.Format("20060102_150405"))
}
