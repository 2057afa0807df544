package cmd

import (
	"fmt"
	"os"

	"github.com/brogergvhs/tocpdf/internal/config"
	"github.com/brogergvhs/tocpdf/internal/fetch"
	"github.com/brogergvhs/tocpdf/internal/pipeline"
	"github.com/brogergvhs/tocpdf/internal/providers"
	"github.com/brogergvhs/tocpdf/internal/render"
	"github.com/brogergvhs/tocpdf/internal/source"
	"github.com/brogergvhs/tocpdf/internal/ui"
	"github.com/brogergvhs/tocpdf/internal/util"

	_ "github.com/brogergvhs/tocpdf/internal/providers/liaoxuefeng"

	"github.com/spf13/cobra"
)

var (
	// source
	flagName     string
	flagURL      string
	flagProvider string
	flagRange    string
	flagList     string

	// runtime
	flagOutput        string
	flagWorkDir       string
	flagRenderer      string
	flagRendererBin   string
	flagWorkers       int
	flagKeepFragments bool
	flagSkipBroken    bool
	flagDryRun        bool

	// headers/auth
	flagCookie     string
	flagCookieFile string
	flagUserAgent  string
	flagCloudflare bool
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Fetch every chapter and render them into one PDF. Uses the selected config, overwritten by CLI flags",
	Args:  cobra.NoArgs,
	RunE:  runExport,
}

func init() {
	bindExportFlags(exportCmd)
	rootCmd.AddCommand(exportCmd)
}

func bindExportFlags(c *cobra.Command) {
	f := c.Flags()

	// source
	f.StringVar(&flagName, "name", "", "output file name without extension")
	f.StringVar(&flagURL, "url", "", "table of contents URL")
	f.StringVar(&flagProvider, "provider", "", "site adapter parsing the pages")
	f.StringVar(&flagRange, "range", "", "export a range of chapters by position (e.g. 5-12)")
	f.StringVar(&flagList, "list", "", "export specific chapter positions (e.g. 1,3,5)")

	// runtime
	f.StringVar(&flagOutput, "output", "", "output folder for the PDF")
	f.StringVar(&flagWorkDir, "work-dir", "", "folder for the temporary chapter files")
	f.StringVar(&flagRenderer, "renderer", "", "PDF renderer: wkhtmltopdf or chrome")
	f.StringVar(&flagRendererBin, "renderer-bin", "", "path to the renderer executable")
	f.IntVar(&flagWorkers, "workers", 1, "parallel chapter downloads")
	f.BoolVar(&flagKeepFragments, "keep-fragments", false, "keep the temporary chapter files")
	f.BoolVar(&flagSkipBroken, "skip-broken", false, "skip chapters that fail instead of aborting the export")
	f.BoolVar(&flagDryRun, "dry-run", false, "list the chapters that would be exported")

	// headers/auth
	f.StringVar(&flagCookie, "cookie", "", "cookie string, e.g. \"key=value; other=123\"")
	f.StringVar(&flagCookieFile, "cookie-file", "", "path to a text file with cookies (one header line)")
	f.StringVar(&flagUserAgent, "user-agent", "", "override User-Agent")
	f.BoolVar(&flagCloudflare, "cloudflare", false, "use the Cloudflare bypass transport")
}

func runExport(cmd *cobra.Command, _ []string) error {
	cfg, usedPath, err := config.LoadMerged(config.Options{
		IgnoreConfig:  flagIgnoreConfig,
		Debug:         flagDebug,
		Name:          flagName,
		URL:           flagURL,
		Provider:      flagProvider,
		Output:        flagOutput,
		WorkDir:       flagWorkDir,
		Renderer:      flagRenderer,
		RendererBin:   flagRendererBin,
		KeepFragments: flagKeepFragments,
		SkipBroken:    flagSkipBroken,
		DefaultRange:  flagRange,
		DefaultList:   flagList,
		Cookie:        flagCookie,
		CookieFile:    flagCookieFile,
		UserAgent:     flagUserAgent,
		Cloudflare:    flagCloudflare,
	})
	if err != nil {
		return err
	}

	if cmd.Flags().Changed("workers") {
		cfg.Workers = max(1, flagWorkers)
	}

	logSvc := ui.NewLogger(cfg.Debug)
	fmt.Printf("Config file: %s\n", usedPath)
	if cfg.Debug {
		fmt.Println("Full config:")
		cfg.Print(os.Stdout)
		fmt.Println()
	}

	src, err := source.New(cfg.Name, cfg.URL)
	if err != nil {
		return err
	}

	site, err := providers.New(cfg.Provider, src, logSvc)
	if err != nil {
		return err
	}

	renderer, err := render.New(cfg.Renderer, cfg.RendererBin, logSvc)
	if err != nil {
		return err
	}

	client := fetch.NewHTTPClient(fetch.HTTPClientOptions{
		Timeout:    cfg.Timeout,
		UserAgent:  cfg.UserAgent,
		Cookie:     cfg.Cookie,
		CookieFile: cfg.CookieFile,
		Cloudflare: cfg.Cloudflare,
		Logger:     logSvc,
	})

	ctx, stop := util.SetupInterruptHandler(cmd.Context())
	defer stop()

	drv := pipeline.New(src, site, fetch.New(client), renderer, logSvc, pipeline.Options{
		WorkDir:       cfg.WorkDir,
		OutputDir:     cfg.Output,
		Workers:       cfg.Workers,
		Range:         cfg.DefaultRange,
		List:          cfg.DefaultList,
		KeepFragments: cfg.KeepFragments,
		SkipBroken:    cfg.SkipBroken,
		DryRun:        flagDryRun,
		Render:        render.DefaultOptions(),
	})

	var bar *ui.ChapterBar
	if !flagDryRun && !cfg.Debug {
		bar = ui.NewChapterBar(os.Stdout, "Chapters")
		drv.WithProgress(bar)
	}

	res, err := drv.Run(ctx)

	if bar != nil {
		bar.Wait()
	}

	if err != nil {
		return err
	}
	if flagDryRun {
		return nil
	}

	printSummary(res)
	return nil
}

func printSummary(res *pipeline.Result) {
	fmt.Println()
	fmt.Println("Export Summary:")
	fmt.Printf("Chapters: %d/%d\n", res.Written, len(res.Selected))
	if len(res.Skipped) > 0 {
		fmt.Printf("Skipped:  %d\n", len(res.Skipped))
		for _, ch := range res.Skipped {
			fmt.Printf("  %3d) %s\n", ch.Index+1, ch.URL)
		}
	}
	fmt.Printf("Data:     %s\n", util.HumanBytes(res.Bytes))
	fmt.Printf("Time:     %.2fs\n", res.Elapsed.Seconds())

	if res.RenderErr != nil {
		fmt.Printf("Output:   not generated (%v)\n", res.RenderErr)
		return
	}
	fmt.Printf("Output:   %s\n", res.Output)
}
