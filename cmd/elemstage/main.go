package main

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/google/gops/agent"

	"github.com/elemstage/elemstage/service"
)

func main() {
	startGops()
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	switch os.Args[1] {
	case "partition":
		partitionCmd(os.Args[2:])
	case "stage":
		stageCmd(os.Args[2:])
	case "load-sql":
		loadSQLCmd(os.Args[2:])
	case "query-sql":
		querySQLCmd(os.Args[2:])
	case "load-search":
		loadSearchCmd(os.Args[2:])
	case "search":
		searchCmd(os.Args[2:])
	case "index":
		indexCmd(os.Args[2:])
	case "vector-search":
		vectorSearchCmd(os.Args[2:])
	case "match":
		matchCmd(os.Args[2:])
	case "filings":
		filingsCmd(os.Args[2:])
	case "sentiment":
		sentimentCmd(os.Args[2:])
	case "train":
		trainCmd(os.Args[2:])
	case "serve":
		serveCmd(os.Args[2:])
	default:
		usage()
		os.Exit(2)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "Usage: elemstage <command> [options]")
	fmt.Fprintln(os.Stderr, "Commands:")
	fmt.Fprintln(os.Stderr, "  partition      Partition documents into typed elements")
	fmt.Fprintln(os.Stderr, "  stage          Stage partitioned elements (csv|jsonl|bulk)")
	fmt.Fprintln(os.Stderr, "  load-sql       Load partitioned elements into a relational table")
	fmt.Fprintln(os.Stderr, "  query-sql      Read staged elements back from a relational table")
	fmt.Fprintln(os.Stderr, "  load-search    Bulk-index partitioned elements into a search index")
	fmt.Fprintln(os.Stderr, "  search         Full-text query against a search index")
	fmt.Fprintln(os.Stderr, "  index          Embed partitioned elements into the vector store")
	fmt.Fprintln(os.Stderr, "  vector-search  Similarity query against the vector store")
	fmt.Fprintln(os.Stderr, "  match          Apply inclusion/exclusion rules to locations")
	fmt.Fprintln(os.Stderr, "  filings        List recent EDGAR filings for a ticker")
	fmt.Fprintln(os.Stderr, "  sentiment      Score texts with the hosted sentiment model")
	fmt.Fprintln(os.Stderr, "  train          Upload labeled examples and run a fine-tune job")
	fmt.Fprintln(os.Stderr, "  serve          Expose the pipeline over MCP")
}

func newService(configPath string) (*service.Service, *service.Config) {
	configPathVal := resolveConfigPath(configPath)
	if configPathVal == "" {
		return service.New(), nil
	}
	cfg, err := service.LoadConfig(configPathVal)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	svc, err := service.FromConfig(cfg)
	if err != nil {
		log.Fatalf("service init: %v", err)
	}
	return svc, cfg
}

func resolveConfigPath(flagPath string) string {
	if flagPath != "" {
		return flagPath
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	candidate := filepath.Join(home, "elemstage", "config.yaml")
	if _, err := os.Stat(candidate); err != nil {
		return ""
	}
	return candidate
}

func printJSON(v any) {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		log.Fatalf("encode output: %v", err)
	}
	fmt.Println(string(b))
}

func parseCSV(value string) []string {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func maybeDebugSleep(cmd string, seconds int) {
	if seconds <= 0 {
		seconds = debugSleepFromEnv()
	}
	if seconds <= 0 {
		return
	}
	log.Printf("debug: cmd=%s pid=%d sleep=%ds", cmd, os.Getpid(), seconds)
	time.Sleep(time.Duration(seconds) * time.Second)
}

func startGops() {
	if err := agent.Listen(agent.Options{ShutdownCleanup: true}); err != nil {
		log.Printf("gops: %v", err)
	}
}

func debugSleepFromEnv() int {
	val := strings.TrimSpace(os.Getenv("ELEMSTAGE_DEBUG_SLEEP"))
	if val == "" {
		return 0
	}
	n, err := strconv.Atoi(val)
	if err != nil || n <= 0 {
		return 0
	}
	return n
}
