package main

import (
	"bufio"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/elemstage/elemstage/service"
	"github.com/elemstage/elemstage/staging"
)

func filingsCmd(args []string) {
	flags := flag.NewFlagSet("filings", flag.ExitOnError)
	configPath := flags.String("config", "", "config yaml (optional)")
	ticker := flags.String("ticker", "", "company ticker (required)")
	forms := flags.String("forms", "", "comma-separated form types, e.g. 10-K,10-Q")
	limit := flags.Int("limit", 10, "max filings")
	fetchText := flags.Bool("text", false, "download and strip each filing's primary document")
	debugSleep := flags.Int("debug-sleep", 0, "debug: sleep N seconds before execution (for gops)")
	flags.Parse(args)

	if *ticker == "" {
		flags.Usage()
		os.Exit(2)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()
	maybeDebugSleep("filings", *debugSleep)

	svc, _ := newService(*configPath)
	defer func() { _ = svc.Close() }()

	resp, err := svc.Filings(ctx, service.FilingsRequest{
		Ticker:    *ticker,
		Forms:     parseCSV(*forms),
		Limit:     *limit,
		FetchText: *fetchText,
	})
	if err != nil {
		log.Fatalf("filings: %v", err)
	}
	printJSON(resp)
}

func sentimentCmd(args []string) {
	flags := flag.NewFlagSet("sentiment", flag.ExitOnError)
	configPath := flags.String("config", "", "config yaml (optional)")
	debugSleep := flags.Int("debug-sleep", 0, "debug: sleep N seconds before execution (for gops)")
	flags.Parse(args)

	texts := flags.Args()
	if len(texts) == 0 {
		flags.Usage()
		os.Exit(2)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()
	maybeDebugSleep("sentiment", *debugSleep)

	svc, _ := newService(*configPath)
	defer func() { _ = svc.Close() }()

	resp, err := svc.Sentiment(ctx, service.SentimentRequest{Texts: texts})
	if err != nil {
		log.Fatalf("sentiment: %v", err)
	}
	for i, prediction := range resp.Predictions {
		fmt.Printf("%s\t%.4f\t%s\n", prediction.Label, prediction.Score, texts[i])
	}
}

func trainCmd(args []string) {
	flags := flag.NewFlagSet("train", flag.ExitOnError)
	configPath := flags.String("config", "", "config yaml (optional)")
	examplesPath := flags.String("examples", "", "JSONL file of {text,label} examples")
	location := flags.String("location", "", "partition a location into examples instead")
	label := flags.String("label", "", "label applied when training from a location")
	name := flags.String("name", "training.jsonl", "upload file name")
	wait := flags.Bool("wait", false, "poll the job until it settles")
	debugSleep := flags.Int("debug-sleep", 0, "debug: sleep N seconds before execution (for gops)")
	flags.Parse(args)

	if *examplesPath == "" && (*location == "" || *label == "") {
		flags.Usage()
		os.Exit(2)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()
	maybeDebugSleep("train", *debugSleep)

	svc, _ := newService(*configPath)
	defer func() { _ = svc.Close() }()

	var examples []staging.Example
	if *examplesPath != "" {
		var err error
		examples, err = readExamples(*examplesPath)
		if err != nil {
			log.Fatalf("read examples: %v", err)
		}
	} else {
		partitioned, err := svc.Partition(ctx, service.PartitionRequest{Location: *location})
		if err != nil {
			log.Fatalf("partition: %v", err)
		}
		examples = staging.ForTraining(partitioned.Elements, *label)
	}
	if len(examples) == 0 {
		log.Fatalf("train: no examples")
	}

	resp, err := svc.Train(ctx, service.TrainRequest{
		FileName: *name,
		Examples: examples,
		Wait:     *wait,
	})
	if err != nil {
		log.Fatalf("train: %v", err)
	}
	printJSON(resp)
}

func readExamples(path string) ([]staging.Example, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var examples []staging.Example
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var example staging.Example
		if err := json.Unmarshal(line, &example); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
		examples = append(examples, example)
	}
	return examples, scanner.Err()
}
