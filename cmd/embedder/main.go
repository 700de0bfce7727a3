package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"docuchat-be/internal/config"
	"docuchat-be/pkg/embedder"
	embeddingopenai "docuchat-be/pkg/embedding/openai"
	"docuchat-be/pkg/tokenizer"

	"github.com/fatih/color"
)

// rawDocument mirrors the JSON shape ingestion adapters produce.
type rawDocument struct {
	URI   string `json:"uri"`
	Title string `json:"title"`
	Text  string `json:"text"`
}

func main() {
	in := flag.String("in", "", "JSON file with raw documents")
	out := flag.String("out", "", "output corpus file")
	flag.Parse()

	if *in == "" || *out == "" {
		color.Red("Usage: embedder -in docs.json -out corpus.bin")
		os.Exit(1)
	}

	cfg := config.Load()
	if cfg.Keys.OpenAI == "" {
		color.Red("Please set the OPENAI_API_KEY env var")
		os.Exit(1)
	}

	data, err := os.ReadFile(*in)
	if err != nil {
		fatal("read input file", err)
	}
	var raw []rawDocument
	if err := json.Unmarshal(data, &raw); err != nil {
		fatal("parse input file", err)
	}

	docs := make([]*embedder.Document, len(raw))
	for i, doc := range raw {
		docs[i] = &embedder.Document{
			URI:   doc.URI,
			Title: doc.Title,
			Text:  doc.Text,
		}
	}
	color.Cyan("Embedding %d documents", len(docs))

	tk, err := tokenizer.New()
	if err != nil {
		fatal("load tokenizer", err)
	}
	provider := embeddingopenai.NewProvider(cfg.Keys.OpenAI, cfg.Ai.EmbeddingModel, cfg.Ai.EmbeddingDimensions)

	pipeline := embedder.NewPipeline(provider, tk.Count, func(message string) {
		fmt.Println(message)
	})
	if err := pipeline.EmbedDocuments(context.Background(), docs, nil); err != nil {
		fatal("embed documents", err)
	}

	if err := embedder.WriteDocuments(*out, docs); err != nil {
		fatal("write corpus file", err)
	}
	color.Green("Wrote corpus file %s", *out)
}

func fatal(what string, err error) {
	color.Red("Failed to %s: %v", what, err)
	os.Exit(1)
}
