package main

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestCLIFlow_StageLoadQuery(t *testing.T) {
	srcDir := t.TempDir()
	doc := "# Quarterly Review\n\nRevenue grew in every segment.\n\nHeadcount stayed flat."
	if err := os.WriteFile(filepath.Join(srcDir, "review.md"), []byte(doc), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}

	outDir := t.TempDir()
	csvPath := filepath.Join(outDir, "staged.csv")
	fmt.Println("stageCmd start")
	stageCmd([]string{"-location", srcDir, "-format", "csv", "-out", csvPath})
	fmt.Println("stageCmd done")

	staged, err := os.ReadFile(csvPath)
	if err != nil {
		t.Fatalf("read staged csv: %v", err)
	}
	if !strings.HasPrefix(string(staged), "element_id,type,text") {
		t.Fatalf("unexpected csv header: %q", strings.SplitN(string(staged), "\n", 2)[0])
	}

	dsn := filepath.Join(t.TempDir(), "elements.db")
	fmt.Println("loadSQLCmd start")
	loadSQLCmd([]string{"-location", srcDir, "-driver", "sqlite", "-dsn", dsn, "-table", "elements"})
	fmt.Println("loadSQLCmd done")

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	defer db.Close()

	var count int
	if err := db.QueryRow(`SELECT COUNT(*) FROM elements`).Scan(&count); err != nil {
		t.Fatalf("count rows: %v", err)
	}
	if count == 0 {
		t.Fatalf("expected rows after load-sql")
	}

	fmt.Println("querySQLCmd start")
	querySQLCmd([]string{"-driver", "sqlite", "-dsn", dsn, "-table", "elements", "-category", "Title"})
	fmt.Println("querySQLCmd done")
}

func TestCLIFlow_Match(t *testing.T) {
	matchCmd([]string{"-include", "*.md", "docs/guide.md", "build/out.bin"})
}
