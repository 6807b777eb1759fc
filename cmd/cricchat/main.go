package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"strings"

	"github.com/joho/godotenv"

	"github.com/skddl007/cric-chat/internal/api"
	"github.com/skddl007/cric-chat/internal/catalog"
	"github.com/skddl007/cric-chat/internal/common"
	"github.com/skddl007/cric-chat/internal/llm"
	"github.com/skddl007/cric-chat/internal/retriever"
	"github.com/skddl007/cric-chat/internal/store"
	"github.com/skddl007/cric-chat/internal/vector"
)

func main() {
	logger := common.Logger()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := godotenv.Load(); err != nil {
		logger.Warn("cricchat: .env file not loaded", "error", err)
	} else {
		logger.Info("cricchat: environment loaded from .env")
	}

	addr := flag.String("addr", ":8081", "listen address")
	dbPath := flag.String("db", "", "path to the SQLite archive database (overrides CRICCHAT_DB_PATH)")
	collection := flag.String("collection", "", "ChromaDB collection name (overrides CHROMADB_COLLECTION)")
	reindex := flag.Bool("reindex", false, "rebuild the semantic index and exit")
	flag.Parse()

	logger.Info("cricchat: startup initiated", "addr", *addr)

	storeCfg, err := store.LoadConfig()
	if err != nil {
		logger.Error("cricchat: store config load failed", "error", err)
		fmt.Println("store config error:", err)
		os.Exit(1)
	}
	if trimmed := strings.TrimSpace(*dbPath); trimmed != "" {
		storeCfg.Path = trimmed
	}
	archive, err := store.OpenWithConfig(storeCfg)
	if err != nil {
		logger.Error("cricchat: store open failed", "path", storeCfg.Path, "error", err)
		fmt.Println("store error:", err)
		os.Exit(1)
	}
	defer archive.Close()
	logger.Info("cricchat: archive ready", "path", storeCfg.Path)

	cat, err := catalog.Load(ctx, archive)
	if err != nil {
		logger.Error("cricchat: catalog load failed", "error", err)
		fmt.Println("catalog error:", err)
		os.Exit(1)
	}
	logger.Info("cricchat: catalog loaded", "players", len(cat.Players()))

	vectorCfg, err := vector.LoadConfig()
	if err != nil {
		logger.Error("cricchat: vector config load failed", "error", err)
		fmt.Println("vector config error:", err)
		os.Exit(1)
	}
	if trimmed := strings.TrimSpace(*collection); trimmed != "" {
		vectorCfg.Collection = trimmed
	}
	vectorClient, err := vector.New(ctx, vectorCfg)
	if err != nil {
		logger.Error("cricchat: vector client init failed", "error", err)
		fmt.Println("vector error:", err)
		os.Exit(1)
	}
	if vectorClient.Available() {
		logger.Info("cricchat: chromadb available", "collection", vectorClient.Collection())
	} else {
		logger.Warn("cricchat: chromadb unreachable, structured retrieval only", "collection", vectorClient.Collection())
	}

	provider := llm.NewProvider()
	logger.Info("cricchat: llm provider ready", "provider", provider.Name())

	retr := retriever.New(archive, cat, vectorClient, provider)

	if *reindex {
		indexed, err := retr.ReindexAll(ctx)
		if err != nil {
			logger.Error("cricchat: reindex failed", "error", err)
			fmt.Println("reindex error:", err)
			os.Exit(1)
		}
		logger.Info("cricchat: reindex complete", "documents", indexed)
		fmt.Printf("Indexed %d documents\n", indexed)
		return
	}

	server, err := api.NewServer(retr, archive, vectorClient, nil)
	if err != nil {
		logger.Error("cricchat: server construction failed", "error", err)
		fmt.Println("server error:", err)
		os.Exit(1)
	}

	logger.Info("cricchat: server listening", "addr", *addr, "health", "/healthz")
	fmt.Printf("Serving on %s\n", *addr)
	reachable := *addr
	if strings.HasPrefix(reachable, ":") {
		reachable = "localhost" + reachable
	}
	logger.Info("cricchat: verify reachability", "suggestion", fmt.Sprintf("curl http://%s/healthz", reachable))
	if err := http.ListenAndServe(*addr, server); err != nil {
		logger.Error("cricchat: server stopped", "error", err)
		fmt.Println("server stopped:", err)
	}
}
