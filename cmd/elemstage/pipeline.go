package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"
	_ "github.com/viant/bigquery"
	_ "modernc.org/sqlite"

	"github.com/elemstage/elemstage/element"
	"github.com/elemstage/elemstage/service"
)

func partitionCmd(args []string) {
	flags := flag.NewFlagSet("partition", flag.ExitOnError)
	configPath := flags.String("config", "", "config yaml (optional, defaults to ~/elemstage/config.yaml if present)")
	location := flags.String("location", "", "file, directory or URL to partition (required)")
	debugSleep := flags.Int("debug-sleep", 0, "debug: sleep N seconds before execution (for gops)")
	flags.Parse(args)

	if *location == "" {
		flags.Usage()
		os.Exit(2)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()
	maybeDebugSleep("partition", *debugSleep)

	svc, _ := newService(*configPath)
	defer func() { _ = svc.Close() }()

	resp, err := svc.Partition(ctx, service.PartitionRequest{Location: *location})
	if err != nil {
		log.Fatalf("partition: %v", err)
	}
	for _, elem := range resp.Elements {
		text := elem.Text
		if len(text) > 120 {
			text = text[:120] + "..."
		}
		fmt.Printf("id=%s category=%s file=%s\n%s\n\n", elem.ID, elem.Category, elem.Metadata.String(element.MetaFilename), text)
	}
	fmt.Printf("%d elements\n", len(resp.Elements))
}

func stageCmd(args []string) {
	flags := flag.NewFlagSet("stage", flag.ExitOnError)
	configPath := flags.String("config", "", "config yaml (optional)")
	location := flags.String("location", "", "file, directory or URL to partition (required)")
	format := flags.String("format", "csv", "staging format: csv|jsonl|bulk")
	index := flags.String("index", "", "target index name for the bulk format")
	out := flags.String("out", "", "output file (default stdout)")
	debugSleep := flags.Int("debug-sleep", 0, "debug: sleep N seconds before execution (for gops)")
	flags.Parse(args)

	if *location == "" {
		flags.Usage()
		os.Exit(2)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()
	maybeDebugSleep("stage", *debugSleep)

	svc, _ := newService(*configPath)
	defer func() { _ = svc.Close() }()

	partitioned, err := svc.Partition(ctx, service.PartitionRequest{Location: *location})
	if err != nil {
		log.Fatalf("partition: %v", err)
	}
	staged, err := svc.Stage(ctx, service.StageRequest{Elements: partitioned.Elements, Format: *format, Index: *index})
	if err != nil {
		log.Fatalf("stage: %v", err)
	}
	if *out == "" {
		os.Stdout.Write(staged.Data)
		return
	}
	if err := os.WriteFile(*out, staged.Data, 0o644); err != nil {
		log.Fatalf("write %s: %v", *out, err)
	}
	fmt.Printf("staged %d rows to %s\n", len(staged.Rows), *out)
}

func loadSQLCmd(args []string) {
	flags := flag.NewFlagSet("load-sql", flag.ExitOnError)
	configPath := flags.String("config", "", "config yaml (optional)")
	location := flags.String("location", "", "file, directory or URL to partition (required)")
	driver := flags.String("driver", "", "sql driver (default from config)")
	dsn := flags.String("dsn", "", "dsn (default from config)")
	table := flags.String("table", "", "target table (default from config)")
	debugSleep := flags.Int("debug-sleep", 0, "debug: sleep N seconds before execution (for gops)")
	flags.Parse(args)

	if *location == "" {
		flags.Usage()
		os.Exit(2)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()
	maybeDebugSleep("load-sql", *debugSleep)

	svc, cfg := newService(*configPath)
	defer func() { _ = svc.Close() }()
	applySQLDefaults(cfg, driver, dsn, table)

	partitioned, err := svc.Partition(ctx, service.PartitionRequest{Location: *location})
	if err != nil {
		log.Fatalf("partition: %v", err)
	}
	loaded, err := svc.LoadSQL(ctx, service.LoadSQLRequest{
		Driver:   *driver,
		DSN:      *dsn,
		Table:    *table,
		Elements: partitioned.Elements,
	})
	if err != nil {
		log.Fatalf("load-sql: %v", err)
	}
	fmt.Printf("loaded %d rows into %s\n", loaded.Count, loaded.Table)
}

func querySQLCmd(args []string) {
	flags := flag.NewFlagSet("query-sql", flag.ExitOnError)
	configPath := flags.String("config", "", "config yaml (optional)")
	driver := flags.String("driver", "", "sql driver (default from config)")
	dsn := flags.String("dsn", "", "dsn (default from config)")
	table := flags.String("table", "", "table (default from config)")
	category := flags.String("category", "", "filter by element category")
	filename := flags.String("filename", "", "filter by source filename")
	limit := flags.Int("limit", 0, "max rows")
	debugSleep := flags.Int("debug-sleep", 0, "debug: sleep N seconds before execution (for gops)")
	flags.Parse(args)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()
	maybeDebugSleep("query-sql", *debugSleep)

	svc, cfg := newService(*configPath)
	defer func() { _ = svc.Close() }()
	applySQLDefaults(cfg, driver, dsn, table)

	resp, err := svc.QuerySQL(ctx, service.QuerySQLRequest{
		Driver:   *driver,
		DSN:      *dsn,
		Table:    *table,
		Category: *category,
		Filename: *filename,
		Limit:    *limit,
	})
	if err != nil {
		log.Fatalf("query-sql: %v", err)
	}
	printJSON(resp.Rows)
}

func loadSearchCmd(args []string) {
	flags := flag.NewFlagSet("load-search", flag.ExitOnError)
	configPath := flags.String("config", "", "config yaml (optional)")
	location := flags.String("location", "", "file, directory or URL to partition (required)")
	index := flags.String("index", "", "target index (default from config)")
	debugSleep := flags.Int("debug-sleep", 0, "debug: sleep N seconds before execution (for gops)")
	flags.Parse(args)

	if *location == "" {
		flags.Usage()
		os.Exit(2)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()
	maybeDebugSleep("load-search", *debugSleep)

	svc, cfg := newService(*configPath)
	defer func() { _ = svc.Close() }()
	if *index == "" && cfg != nil {
		*index = cfg.Search.Index
	}

	partitioned, err := svc.Partition(ctx, service.PartitionRequest{Location: *location})
	if err != nil {
		log.Fatalf("partition: %v", err)
	}
	loaded, err := svc.LoadSearch(ctx, service.LoadSearchRequest{Index: *index, Elements: partitioned.Elements})
	if err != nil {
		log.Fatalf("load-search: %v", err)
	}
	fmt.Printf("indexed %d documents into %s\n", loaded.Count, *index)
}

func searchCmd(args []string) {
	flags := flag.NewFlagSet("search", flag.ExitOnError)
	configPath := flags.String("config", "", "config yaml (optional)")
	index := flags.String("index", "", "index (default from config)")
	query := flags.String("query", "", "query text (required)")
	limit := flags.Int("limit", 10, "max results")
	debugSleep := flags.Int("debug-sleep", 0, "debug: sleep N seconds before execution (for gops)")
	flags.Parse(args)

	if *query == "" {
		flags.Usage()
		os.Exit(2)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()
	maybeDebugSleep("search", *debugSleep)

	svc, cfg := newService(*configPath)
	defer func() { _ = svc.Close() }()
	if *index == "" && cfg != nil {
		*index = cfg.Search.Index
	}

	resp, err := svc.Search(ctx, service.SearchRequest{Index: *index, Query: *query, Limit: *limit})
	if err != nil {
		log.Fatalf("search: %v", err)
	}
	for _, hit := range resp.Hits {
		text := hit.Text
		if len(text) > 200 {
			text = text[:200] + "..."
		}
		fmt.Printf("id=%s score=%.4f file=%s\n%s\n\n", hit.ID, hit.Score, hit.Metadata.String(element.MetaFilename), text)
	}
}

func indexCmd(args []string) {
	flags := flag.NewFlagSet("index", flag.ExitOnError)
	configPath := flags.String("config", "", "config yaml (optional)")
	location := flags.String("location", "", "file, directory or URL to partition (required)")
	dataset := flags.String("dataset", "", "vector dataset name")
	debugSleep := flags.Int("debug-sleep", 0, "debug: sleep N seconds before execution (for gops)")
	flags.Parse(args)

	if *location == "" {
		flags.Usage()
		os.Exit(2)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()
	maybeDebugSleep("index", *debugSleep)

	svc, _ := newService(*configPath)
	defer func() { _ = svc.Close() }()

	partitioned, err := svc.Partition(ctx, service.PartitionRequest{Location: *location})
	if err != nil {
		log.Fatalf("partition: %v", err)
	}
	indexed, err := svc.Index(ctx, service.IndexRequest{Dataset: *dataset, Elements: partitioned.Elements})
	if err != nil {
		log.Fatalf("index: %v", err)
	}
	fmt.Printf("embedded %d elements\n", len(indexed.IDs))
}

func vectorSearchCmd(args []string) {
	flags := flag.NewFlagSet("vector-search", flag.ExitOnError)
	configPath := flags.String("config", "", "config yaml (optional)")
	dataset := flags.String("dataset", "", "vector dataset name")
	query := flags.String("query", "", "query text (required)")
	limit := flags.Int("limit", 10, "max results")
	debugSleep := flags.Int("debug-sleep", 0, "debug: sleep N seconds before execution (for gops)")
	flags.Parse(args)

	if *query == "" {
		flags.Usage()
		os.Exit(2)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()
	maybeDebugSleep("vector-search", *debugSleep)

	svc, _ := newService(*configPath)
	defer func() { _ = svc.Close() }()

	resp, err := svc.VectorSearch(ctx, service.VectorSearchRequest{Dataset: *dataset, Query: *query, Limit: *limit})
	if err != nil {
		log.Fatalf("vector-search: %v", err)
	}
	for _, match := range resp.Matches {
		text := match.Element.Text
		if len(text) > 200 {
			text = text[:200] + "..."
		}
		fmt.Printf("id=%s score=%.4f file=%s\n%s\n\n", match.Element.ID, match.Score, match.Element.Metadata.String(element.MetaFilename), text)
	}
}

func matchCmd(args []string) {
	flags := flag.NewFlagSet("match", flag.ExitOnError)
	include := flags.String("include", "", "comma-separated include patterns")
	exclude := flags.String("exclude", "", "comma-separated exclude patterns")
	maxSize := flags.Int("max-size", 0, "max file size in bytes")
	debugSleep := flags.Int("debug-sleep", 0, "debug: sleep N seconds before execution (for gops)")
	flags.Parse(args)

	locations := flags.Args()
	if len(locations) == 0 {
		flags.Usage()
		os.Exit(2)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()
	maybeDebugSleep("match", *debugSleep)

	svc := service.New()
	defer func() { _ = svc.Close() }()

	resp, err := svc.Match(ctx, service.MatchRequest{
		Locations: locations,
		Include:   parseCSV(*include),
		Exclude:   parseCSV(*exclude),
		MaxSize:   *maxSize,
	})
	if err != nil {
		log.Fatalf("match: %v", err)
	}
	for _, loc := range resp.Included {
		fmt.Printf("include %s\n", loc)
	}
	for _, loc := range resp.Excluded {
		fmt.Printf("exclude %s\n", loc)
	}
}

func applySQLDefaults(cfg *service.Config, driver, dsn, table *string) {
	if cfg == nil {
		return
	}
	if *driver == "" {
		*driver = cfg.SQL.Driver
	}
	if *dsn == "" {
		*dsn = cfg.SQL.DSN
	}
	if *table == "" {
		*table = cfg.SQL.Table
	}
}
