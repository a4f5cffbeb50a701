package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/viant/sqlite-vec/engine"
	"github.com/viant/sqlite-vec/vec"
	"github.com/viant/sqlite-vec/vector"
)

// Seeds a deterministic element row into the sqlite-vec shadow table so
// vector-search flows can be exercised without a hosted embedder.
func main() {
	dbPath := flag.String("db", "", "sqlite db path")
	dataset := flag.String("dataset", "default", "dataset id")
	id := flag.String("id", "", "element id")
	content := flag.String("content", "", "element text")
	filename := flag.String("filename", "", "source filename")
	category := flag.String("category", "NarrativeText", "element category")
	vtable := flag.String("vtable", "element_vec", "vec virtual table name")
	archived := flag.Int("archived", 0, "archived flag")
	flag.Parse()

	if *dbPath == "" || *id == "" {
		fmt.Fprintln(os.Stderr, "db and id are required")
		os.Exit(2)
	}

	db, err := engine.Open(*dbPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "open db: %v\n", err)
		os.Exit(1)
	}
	defer db.Close()
	if err := vec.Register(db); err != nil {
		fmt.Fprintf(os.Stderr, "register vec: %v\n", err)
		os.Exit(1)
	}

	shadow := "_vec_" + *vtable
	vecs := embedString(*content, 64)
	blob, _ := vector.EncodeEmbedding(vecs)
	meta := map[string]interface{}{
		"filename": *filename,
	}
	metaJSON, _ := json.Marshal(meta)

	if _, err := db.Exec(fmt.Sprintf(`INSERT INTO %s(dataset_id, id, filename, category, content, meta, embedding, embedding_model, archived)
VALUES(?,?,?,?,?,?,?,?,?)
ON CONFLICT(dataset_id, id) DO UPDATE SET
	content=excluded.content, meta=excluded.meta, embedding=excluded.embedding, archived=excluded.archived`, shadow),
		*dataset, *id, *filename, *category, *content, string(metaJSON), blob, "simple", *archived); err != nil {
		fmt.Fprintf(os.Stderr, "insert element: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("seeded %s/%s into %s\n", *dataset, *id, shadow)
}

func embedString(s string, dim int) []float32 {
	if dim <= 0 {
		dim = 64
	}
	v := make([]float32, dim)
	var h uint32
	for i := 0; i < len(s); i++ {
		h = h*16777619 ^ uint32(s[i])
	}
	seed := h
	for i := range v {
		seed = seed*1664525 + 1013904223
		v[i] = float32(seed%10000) / 10000.0
	}
	return v
}
