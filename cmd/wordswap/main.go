// Copyright 2025 The wordswap Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

/*
Package main implements the wordswap document rewriter, its interactive CLI
[DBG] mode and its msgpack IPC server.

wordswap replaces target words throughout a document with related words
fetched from a Datamuse-compatible lookup service. Capitalization, trailing
punctuation and the paragraph layout of the input are kept.

# Usage

Rewrite a document:

	wordswap -in story.txt -out story.new.txt -words quick,fox

Rhyme mode treats every line as a sentence and asks for rhymes:

	wordswap -in poem.txt -words funny,bunny -mode rhyme

Without -out the result goes to stdout. Run the interactive CLI, which
rewrites every typed line on its own:

	wordswap -c -words quick,fox

Serve msgpack requests over stdin/stdout (see package server):

	wordswap -s

# Configuration

Runtime configuration lives in a TOML file that is created with defaults
when missing:

	[lexicon]
	base_url = "https://api.datamuse.com/words"
	timeout_ms = 10000
	retries = 2
	base_delay_ms = 1000

	[rewrite]
	mode = "paraphrase"
	scope = "paragraph"

	[cache]
	enabled = true
	redis_addr = ""

A .env file in the working dir is loaded first; WORDSWAP_LEXICON_URL,
WORDSWAP_REDIS_ADDR and WORDSWAP_MODE override the file. Flags override
both.

# Command Line Flags

	-in string      Input document
	-out string     Output document (default stdout)
	-words string   Comma separated target words
	-mode string    paraphrase or rhyme
	-scope string   paragraph or sentence
	-seed uint      Seed for candidate picks, 0 picks a random seed
	-config string  Path to a config file
	-rebuild-config Write a fresh default config and exit
	-d              Enable debug mode with detailed logging
	-c              Run the interactive CLI
	-s              Run the msgpack IPC server
	-version        Show current version
*/
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"syscall"

	"github.com/bastiangx/wordswap/internal/cli"
	"github.com/bastiangx/wordswap/internal/logger"
	"github.com/bastiangx/wordswap/internal/utils"
	"github.com/bastiangx/wordswap/pkg/cache"
	"github.com/bastiangx/wordswap/pkg/config"
	"github.com/bastiangx/wordswap/pkg/document"
	"github.com/bastiangx/wordswap/pkg/lexicon"
	"github.com/bastiangx/wordswap/pkg/pipeline"
	"github.com/bastiangx/wordswap/pkg/resolve"
	"github.com/bastiangx/wordswap/pkg/rewrite"
	"github.com/bastiangx/wordswap/pkg/server"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"
)

const (
	Version = "0.3.0-beta"
	AppName = "wordswap"
	gh      = "https://github.com/bastiangx/wordswap"
)

// sigHandler cancels the run on the first signal and exits on the second.
func sigHandler(cancel context.CancelFunc) {
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-c
		fmt.Fprintf(os.Stderr, "\nExiting...\n")
		cancel()
		<-c
		os.Exit(1)
	}()
}

// main wires config, cache and pipeline together and picks the mode.
// It does not implement rewriting logic itself.
func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sigHandler(cancel)

	showVersion := flag.Bool("version", false, "Show current version")
	inPath := flag.String("in", "", "Input document")
	outPath := flag.String("out", "", "Output document (default stdout)")
	words := flag.String("words", "", "Comma separated target words")
	modeFlag := flag.String("mode", "", "Rewrite mode: paraphrase or rhyme (default from config)")
	scopeFlag := flag.String("scope", "", "Resolution scope: paragraph or sentence (default from config)")
	seed := flag.Uint64("seed", 0, "Seed for candidate picks, 0 picks a random seed")
	configPath := flag.String("config", "", "Path to a config file")
	rebuildConfig := flag.Bool("rebuild-config", false, "Write a fresh default config and exit")
	debugMode := flag.Bool("d", false, "Toggle debug mode")
	cliMode := flag.Bool("c", false, "Run CLI -- rewrites each typed line")
	serverMode := flag.Bool("s", false, "Run the msgpack IPC server on stdin/stdout")

	flag.Parse()

	if *showVersion {
		printVersion()
		os.Exit(0)
	}

	if *debugMode {
		log.SetLevel(log.DebugLevel)
		log.SetReportTimestamp(true)
	} else {
		log.SetLevel(log.WarnLevel)
	}

	if *rebuildConfig {
		path, err := config.RebuildConfigFile()
		if err != nil {
			log.Fatalf("Failed to rebuild config: %v", err)
		}
		log.Printf("Wrote default config to %s", path)
		return
	}

	if err := godotenv.Load(); err != nil {
		log.Debugf("No .env file loaded: %v", err)
	}

	cfg, usedPath, err := config.LoadConfigWithPriority(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	cfg.ApplyEnv()
	if *modeFlag != "" {
		cfg.Rewrite.Mode = *modeFlag
	}
	if *scopeFlag != "" {
		cfg.Rewrite.Scope = *scopeFlag
	}
	log.Debugf("Using config: %s", config.GetActiveConfigPath(usedPath))

	mode, err := cfg.Mode()
	if err != nil {
		log.Fatalf("Invalid mode: %v", err)
	}
	scope, err := cfg.Scope()
	if err != nil {
		log.Fatalf("Invalid scope: %v", err)
	}
	targets := utils.CleanTargets(utils.SplitList(*words))

	lookupCfg := cfg.LookupConfig(mode)
	store, closeStore := buildCache(ctx, cfg, lookupCfg.Relation)
	defer closeStore()

	lookupLog := logger.NewWithConfig(os.Stderr, "lexicon", log.GetLevel(), *debugMode, *debugMode, log.TextFormatter)
	client := lexicon.NewClient(lookupCfg, lexicon.WithLogger(lookupLog))
	resolverOpts := []resolve.Option{resolve.WithWorkers(cfg.Resolver.Workers)}
	if store != nil {
		resolverOpts = append(resolverOpts, resolve.WithCache(store))
	}
	resolver := resolve.New(client, resolverOpts...)

	picker := rewrite.RandomPicker()
	if *seed != 0 {
		picker = rewrite.NewPicker(*seed)
	}
	sentence := rewrite.NewSentenceRewriter(
		rewrite.WithPicker(picker),
		rewrite.WithCaseSensitive(cfg.Rewrite.CaseSensitive),
		rewrite.WithConsistent(cfg.Rewrite.Consistent),
	)
	rw := rewrite.NewRewriter(resolver, sentence, mode, scope)
	pipe := pipeline.New(rw, pipeline.WithWorkers(cfg.Pipeline.Workers))

	log.Debug("Run info:",
		"mode", mode,
		"scope", scope,
		"targets", len(targets),
		"relation", client.Config().Relation,
		"workers", pipe.Workers())

	switch {
	case *cliMode:
		// CLI would be mainly used for testing and dbg purposes.
		log.SetReportTimestamp(false)
		inputHandler := cli.NewInputHandler(rw, targets)
		if err := inputHandler.Start(ctx); err != nil && ctx.Err() == nil {
			log.Fatalf("CLI error: %v", err)
		}

	case *serverMode:
		log.Debug("spawning IPC")
		srv := server.NewServer(pipe, rw, os.Stdin, os.Stdout)
		showStartupInfo(mode, usedPath)
		if err := srv.Start(ctx); err != nil && ctx.Err() == nil {
			log.Fatalf("Server error: %v", err)
		}

	default:
		if *inPath == "" {
			fmt.Fprintln(os.Stderr, "missing -in; use -h to see available options")
			os.Exit(2)
		}
		if len(targets) == 0 {
			log.Warn("No target words given, the document is only reformatted")
		}
		if err := runFile(ctx, pipe, *inPath, *outPath, targets); err != nil {
			log.Fatalf("Rewrite failed: %v", err)
		}
	}

	if store != nil {
		logStats(store.Stats())
	}
}

// runFile rewrites inPath into outPath, or to stdout when outPath is empty.
func runFile(ctx context.Context, pipe *pipeline.Pipeline, inPath, outPath string, targets []string) error {
	if outPath != "" {
		report, err := pipe.ProcessFile(ctx, inPath, outPath, targets)
		if err != nil {
			return err
		}
		log.Debug("Run done", "run", report.RunID, "paragraphs", report.Paragraphs, "elapsed", report.Elapsed)
		return nil
	}

	text, err := document.Read(inPath)
	if err != nil {
		return err
	}
	out, err := pipe.Process(ctx, text, targets)
	if err != nil {
		return err
	}
	fmt.Println(out)
	return nil
}

// buildCache returns the candidate store configured in cfg, or nil when
// caching is off. A Redis server that cannot be reached leaves the in
// process cache on its own. Redis keys carry the relation.
func buildCache(ctx context.Context, cfg *config.Config, relation lexicon.Relation) (cache.Store, func()) {
	noop := func() {}
	if !cfg.Cache.Enabled {
		return nil, noop
	}
	hot := cache.NewHotCache(cfg.Cache.MaxWords)
	if cfg.Cache.RedisAddr == "" {
		return hot, noop
	}

	client, err := cache.DialRedis(ctx, cfg.Cache.RedisAddr, cfg.Cache.RedisPassword, cfg.Cache.RedisDB)
	if err != nil {
		log.Warnf("Redis cache unavailable at %s: %v. Using in-memory cache only", cfg.Cache.RedisAddr, err)
		return hot, noop
	}
	log.Debugf("Using Redis cache at %s", cfg.Cache.RedisAddr)
	shared := cache.NewRedisStore(client, cfg.Cache.RedisPrefix+string(relation)+":", cfg.CacheTTL())
	return cache.Tiered{Local: hot, Shared: shared}, func() {
		if err := client.Close(); err != nil {
			log.Debugf("Closing Redis client: %v", err)
		}
	}
}

func logStats(stats map[string]int) {
	keys := make([]string, 0, len(stats))
	for k := range stats {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	kv := make([]any, 0, 2*len(keys))
	for _, k := range keys {
		kv = append(kv, k, stats[k])
	}
	log.Debug("Cache stats", kv...)
}

func printVersion() {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportCaller:    false,
		ReportTimestamp: false,
		Prefix:          "",
	})

	styles := log.DefaultStyles()
	styles.Values["version"] = lipgloss.NewStyle().Bold(true).
		Foreground(lipgloss.AdaptiveColor{Light: "#575279", Dark: "#e0def4"})
	styles.Values["gh"] = lipgloss.NewStyle().Italic(true).
		Foreground(lipgloss.AdaptiveColor{Light: "#575279", Dark: "#e0def4"})
	logger.SetStyles(styles)

	logger.Print("")
	logger.Print("[ wordswap ] Swaps words for their neighbours!")
	logger.Print("", "version", Version)
	logger.Print("")
	logger.Print("use -h or --help to see available options")
	logger.Print("Github Repo", "gh", gh)
}

// showStartupInfo displays some basic info about the server process.
func showStartupInfo(mode rewrite.Mode, configPath string) {
	currentLevel := log.GetLevel()
	log.SetLevel(log.InfoLevel)

	log.Infof("%s %s", AppName, Version)
	log.Infof("Process ID: [ %d ]", os.Getpid())
	log.Infof("mode: %s", mode)
	log.Infof("config: ( %s )", config.GetActiveConfigPath(configPath))
	log.Info("status: ready")

	log.SetLevel(currentLevel)
}
