package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"qac/internal/config"
	"qac/internal/extract"
	"qac/internal/i18n"
	"qac/internal/kvstore"
	"qac/internal/provider"
	"qac/internal/quiz"
	"qac/internal/record"
	"qac/internal/retention"
	"qac/internal/syncer"
	"qac/internal/transfer"
	"qac/internal/tui"
)

func main() {
	var (
		configPath string
		doSweep    bool
		exportPath string
		importPath string
		doSync     bool
		doSettings bool
		doWipe     bool
	)
	flag.StringVar(&configPath, "config", "", "Path to config JSON/JSONC")
	flag.BoolVar(&doSweep, "sweep", false, "Run a retention sweep and exit")
	flag.StringVar(&exportPath, "export", "", "Export all data to a JSON file")
	flag.StringVar(&importPath, "import", "", "Import data from a JSON file, replacing the store")
	flag.BoolVar(&doSync, "sync", false, "Push the local store to the configured sync URL")
	flag.BoolVar(&doSettings, "settings", false, "Edit settings interactively")
	flag.BoolVar(&doWipe, "wipe", false, "Remove all stored data")
	flag.Parse()

	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config failed: %v\n", err)
		os.Exit(1)
	}
	i18n.Init(cfg.UI.Locale)

	logger := quiz.NewLogger(false)
	dbPath, err := cfg.DBPath()
	if err != nil {
		fmt.Fprintf(os.Stderr, "resolve storage path failed: %v\n", err)
		os.Exit(1)
	}
	store, err := kvstore.Open(dbPath, kvstore.Options{
		TotalBytes:  int(cfg.Storage.TotalBytes),
		LowSpacePct: cfg.Storage.LowSpacePct,
		Logger:      logger,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "open storage failed: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	// 调试开关存在设置里 / the debug switch lives in the stored settings
	var settings quiz.Settings
	store.Get(quiz.KeySettings, &settings)
	logger.SetEnabled(settings.DebugMode)

	engine := retention.New(store, logger)
	store.SetLowSpaceHook(func() {
		engine.Sweep(time.Now())
	})
	records := record.NewManager(store, logger)

	switch {
	case doSweep:
		result := engine.Sweep(time.Now())
		fmt.Printf("sweep: purged=%d simplified=%d skipped=%d\n",
			result.Purged, result.Simplified, result.Skipped)
		return

	case exportPath != "":
		if err := runExport(store, exportPath); err != nil {
			fmt.Fprintf(os.Stderr, "export failed: %v\n", err)
			os.Exit(1)
		}
		return

	case importPath != "":
		if err := runImport(store, importPath); err != nil {
			fmt.Fprintf(os.Stderr, "import failed: %v\n", err)
			os.Exit(1)
		}
		return

	case doSync:
		if err := runSync(store, settings, cfg.Network.TimeoutMS, logger); err != nil {
			fmt.Fprintf(os.Stderr, "sync failed: %v\n", err)
			os.Exit(1)
		}
		return

	case doSettings:
		if err := runSettings(store); err != nil {
			fmt.Fprintf(os.Stderr, "settings failed: %v\n", err)
			os.Exit(1)
		}
		return

	case doWipe:
		if err := runWipe(store); err != nil {
			fmt.Fprintf(os.Stderr, "wipe failed: %v\n", err)
			os.Exit(1)
		}
		return
	}

	fetcher := provider.NewFetcher(cfg.Network.TimeoutMS, cfg.Network.PromptTokenLimit, logger)
	err = tui.Run(tui.Deps{
		Store:   store,
		Records: records,
		Engine:  engine,
		Fetch:   fetcher.FetchQuestionText,
		Parse:   parseModelText,
		Logger:  logger,
		Locale:  i18n.Global(),
		Now:     time.Now,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "tui failed: %v\n", err)
		os.Exit(1)
	}
}

// parseModelText 先找 JSON 片段, 找不到再按行解析; 找到但无效的 JSON 仍算失败
// parseModelText tries the JSON span first, then line parsing when no span
// exists; a span that fails to parse stays an error
func parseModelText(text string) ([]quiz.Question, error) {
	questions, err := extract.Questions(text)
	if err == nil {
		return questions, nil
	}
	if !extract.IsKind(err, extract.NoJSONFound) {
		return nil, err
	}
	if lined := extract.ParseLines(text); len(lined) > 0 {
		return lined, nil
	}
	return nil, err
}

func runExport(store *kvstore.Store, path string) error {
	data, err := transfer.Export(store)
	if err != nil {
		return err
	}

	// 传目录时用带日期的默认文件名 / a directory gets the dated default name
	if info, statErr := os.Stat(path); statErr == nil && info.IsDir() {
		path = filepath.Join(path, transfer.ExportFilename(time.Now()))
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return err
	}
	fmt.Println(i18n.T("export.done", path))
	return nil
}

func runImport(store *kvstore.Store, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	n, err := transfer.Import(store, data)
	if err != nil {
		return err
	}
	fmt.Println(i18n.T("import.done", n))
	return nil
}

func runSync(store *kvstore.Store, settings quiz.Settings, timeoutMS int, logger *quiz.Logger) error {
	if strings.TrimSpace(settings.SyncURL) == "" {
		return fmt.Errorf("%s", i18n.T("sync.no_url"))
	}
	reconciler := syncer.New(store, timeoutMS, logger)
	result, err := reconciler.Sync(context.Background(), settings)
	if err != nil {
		return err
	}
	fmt.Println(i18n.T("sync.done", result.Pushed, result.Merged))
	return nil
}

func runSettings(store *kvstore.Store) error {
	input, inputErr := newLineInput()
	if inputErr != nil {
		fmt.Fprintf(os.Stderr, "line editor unavailable, fallback to basic input: %v\n", inputErr)
	}
	defer input.Close()

	ok, err := passwordGate(store, input)
	if err != nil {
		return err
	}
	if !ok {
		os.Exit(1)
	}
	return editSettings(store, input)
}

func runWipe(store *kvstore.Store) error {
	input, inputErr := newLineInput()
	if inputErr != nil {
		fmt.Fprintf(os.Stderr, "line editor unavailable, fallback to basic input: %v\n", inputErr)
	}
	defer input.Close()

	line, err := input.ReadLine("wipe all data? [y/N]: ")
	if err != nil {
		return err
	}
	if !parseBoolInput(line, false) {
		return nil
	}
	store.Clear()
	fmt.Println(i18n.T("wipe.done"))
	return nil
}
