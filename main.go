package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/exec"
	"os/signal"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/geocine/canvasdocs/internal/canvas"
	"github.com/geocine/canvasdocs/internal/cli"
	"github.com/geocine/canvasdocs/internal/config"
	"github.com/geocine/canvasdocs/internal/exporter"
	"github.com/geocine/canvasdocs/internal/logging"
	"github.com/geocine/canvasdocs/internal/utils"
	"github.com/joho/godotenv"
)

func main() {
	// Define subcommands
	exportCmd := flag.NewFlagSet("export", flag.ExitOnError)
	exportConfig := exportCmd.String("config", config.DefaultFile, "Config file")
	exportOut := exportCmd.String("out", "", "Output directory (overrides output.dir)")
	exportTemplate := exportCmd.String("template", "", "Template directory (overrides output.template-dir)")
	exportCourse := exportCmd.String("course", "", "Course id (overrides canvas.course-id)")
	exportLevel := exportCmd.String("log-level", "", "Log level: debug, info, warn or error")

	initCmd := flag.NewFlagSet("init", flag.ExitOnError)
	initDir := initCmd.String("dir", ".", "Project directory (or pass as positional)")
	initEndpoint := initCmd.String("endpoint", "", "Canvas endpoint")
	initCourse := initCmd.String("course", "", "Course id")
	initYes := initCmd.Bool("yes", false, "Skip interactive prompts and use provided/default values")

	serveCmd := flag.NewFlagSet("serve", flag.ExitOnError)
	servePort := serveCmd.Int("port", 3000, "Port to serve on")
	serveHost := serveCmd.String("hostname", "127.0.0.1", "Hostname to bind to")
	serveOpen := serveCmd.Bool("open", false, "Open in browser")
	serveDir := serveCmd.String("dir", "", "Directory to serve (defaults to output.dir)")

	cleanCmd := flag.NewFlagSet("clean", flag.ExitOnError)
	cleanDir := cleanCmd.String("dir", "", "Directory to clean (defaults to output.dir)")

	if len(os.Args) < 2 {
		fmt.Println("Usage: canvasdocs [command]")
		fmt.Println("Commands:")
		fmt.Println("  export     Export a course to a docsify site")
		fmt.Println("  init       Create canvasdocs.toml and the default site template")
		fmt.Println("  serve      Preview the exported site")
		fmt.Println("  clean      Remove the exported site")
		os.Exit(1)
	}

	// Optional; AUTH_TOKEN usually lives there
	_ = godotenv.Load()

	switch os.Args[1] {
	case "export":
		exportCmd.Parse(os.Args[2:])
		os.Exit(handleExport(*exportConfig, *exportOut, *exportTemplate, *exportCourse, *exportLevel))

	case "init":
		initCmd.Parse(os.Args[2:])
		handleInit(initCmd, *initDir, *initEndpoint, *initCourse, *initYes)

	case "serve":
		serveCmd.Parse(os.Args[2:])
		handleServe(*serveHost, *servePort, *serveOpen, *serveDir)

	case "clean":
		cleanCmd.Parse(os.Args[2:])
		handleClean(*cleanDir)

	default:
		fmt.Printf("Unknown command: %s\n", os.Args[1])
		os.Exit(1)
	}
}

// loadConfig reads path, falling back to defaults plus environment
func loadConfig(path string) *config.Config {
	cfg, err := config.LoadFromFile(path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			log.Printf("Warning: could not load config file: %v. Using defaults.", err)
		}
		cfg = config.NewDefaultConfig()
		cfg.UpdateFromEnv()
	}
	return cfg
}

func handleExport(configPath, outDir, templateDir, courseID, level string) int {
	cfg := loadConfig(configPath)

	// Flags win over file and environment
	if outDir != "" {
		cfg.Output.Dir = outDir
	}
	if templateDir != "" {
		cfg.Output.TemplateDir = templateDir
	}
	if courseID != "" {
		cfg.Canvas.CourseID = courseID
	}
	if level != "" {
		cfg.Log.Level = level
	}

	logger := logging.New(os.Stderr, cfg.Log.Level)
	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", "error", err)
		return 2
	}

	client, err := canvas.NewClient(cfg.Canvas.Endpoint, cfg.Canvas.Token, cfg.Canvas.CourseID,
		canvas.WithPerPage(cfg.Canvas.PerPage),
		canvas.WithTimeout(cfg.RequestTimeout()),
		canvas.WithLogger(logger),
	)
	if err != nil {
		logger.Error("invalid canvas endpoint", "error", err)
		return 2
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	exp := exporter.New(client, exporter.Options{
		OutDir:         cfg.Output.Dir,
		TemplateDir:    cfg.Output.TemplateDir,
		TemplateSuffix: cfg.Output.TemplateSuffix,
		Indent:         cfg.Output.Indent,
		RelativeLinks:  cfg.Output.RelativeLinks,
		TemplateVars:   cfg.TemplateVars,
	}, logger)

	res, err := exp.Run(ctx)
	if err != nil {
		logger.Error("export failed", "error", err)
		return 1
	}

	printSummary(logger, res)
	return 0
}

func printSummary(logger *slog.Logger, res *exporter.Result) {
	for _, o := range res.Outlines {
		logger.Debug("module outline", "module", o.Module.Name, "dir", o.Module.Dir, "entries", len(o.Nodes))
	}
	fmt.Printf("Exported '%s': %d modules, %d pages, %d sidebars in %s\n",
		res.Course.Name, len(res.Outlines), len(res.Files), len(res.Sidebars), res.Duration.Round(time.Millisecond))
}

func handleInit(initCmd *flag.FlagSet, dir, endpoint, courseID string, yes bool) {
	// Positional directory wins over the default
	if dir == "." && initCmd.NArg() >= 1 {
		dir = initCmd.Arg(0)
	}

	defaults := config.NewDefaultConfig()
	opts := cli.InitOptions{
		Dir:         dir,
		Endpoint:    endpoint,
		CourseID:    courseID,
		OutputDir:   defaults.Output.Dir,
		TemplateDir: defaults.Output.TemplateDir,
	}
	if opts.Endpoint == "" {
		opts.Endpoint = defaults.Canvas.Endpoint
	}

	if !yes {
		cli.FillInitOptionsInteractive(os.Stdin, os.Stdout, &opts)
	}

	tmpl, err := fs.Sub(embeddedTemplate, "template")
	if err != nil {
		log.Fatalf("Failed to open embedded template: %v", err)
	}
	created, err := cli.Init(opts, tmpl)
	if err != nil {
		log.Fatalf("Failed to initialize project: %v", err)
	}

	for _, p := range created {
		fmt.Printf("  created %s\n", p)
	}
	fmt.Printf("\nSuccessfully initialized '%s'\n", opts.Dir)
	fmt.Println("Next steps:")
	fmt.Println("  echo AUTH_TOKEN=... > .env   # your Canvas access token")
	fmt.Println("  canvasdocs export            # export the course")
	fmt.Println("  canvasdocs serve             # preview the site")
}

// handleServe serves the exported site as static files
func handleServe(host string, port int, open bool, dirOverride string) {
	addr := fmt.Sprintf("%s:%d", host, port)

	outDir := dirOverride
	if outDir == "" {
		outDir = loadConfig(config.DefaultFile).Output.Dir
	}
	if !utils.DirExists(outDir) {
		log.Fatalf("Nothing to serve; directory '%s' does not exist. Run 'canvasdocs export' first.", outDir)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		upath := r.URL.Path
		if strings.HasSuffix(upath, "/") {
			upath = upath + "index.html"
		}
		// Prevent path traversal
		upath = filepath.Clean("/" + upath)
		target := filepath.Join(outDir, upath)
		if !strings.HasPrefix(filepath.Clean(target), filepath.Clean(outDir)) {
			http.Error(w, "invalid path", http.StatusBadRequest)
			return
		}
		if utils.FileExists(target) {
			http.ServeFile(w, r, target)
			return
		}
		http.NotFound(w, r)
	})

	server := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 10 * time.Second}

	if open {
		go func() {
			url := fmt.Sprintf("http://%s", addr)
			time.Sleep(300 * time.Millisecond)
			_ = openBrowser(url)
		}()
	}

	log.Printf("Serving '%s' on http://%s\n", outDir, addr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("Server error: %v", err)
	}
}

// openBrowser attempts to open the provided URL in a browser.
func openBrowser(url string) error {
	switch runtime.GOOS {
	case "windows":
		return exec.Command("rundll32", "url.dll,FileProtocolHandler", url).Start()
	case "darwin":
		return exec.Command("open", url).Start()
	default:
		return exec.Command("xdg-open", url).Start()
	}
}

func handleClean(dirOverride string) {
	outDir := dirOverride
	if outDir == "" {
		outDir = loadConfig(config.DefaultFile).Output.Dir
	}
	// If it doesn't exist, nothing to do
	if !utils.DirExists(outDir) {
		fmt.Printf("Nothing to clean; directory '%s' does not exist.\n", outDir)
		return
	}
	// Summarize contents
	var files, dirs int
	var bytes int64
	filepath.Walk(outDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil
		}
		if info.IsDir() {
			if path != outDir {
				dirs++
			}
			return nil
		}
		files++
		bytes += info.Size()
		return nil
	})
	// Keep the directory itself so a running preview keeps its root
	if err := utils.RemoveDirContents(outDir); err != nil {
		log.Fatalf("Failed to clean '%s': %v", outDir, err)
	}
	fmt.Printf("Removed %d files, %d directories, %s from '%s'.\n", files, dirs, humanBytes(bytes), outDir)
}

func humanBytes(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	val := float64(n) / float64(div)
	suffix := []string{"KiB", "MiB", "GiB", "TiB"}
	if exp >= len(suffix) {
		return fmt.Sprintf("%.1f PiB", val/float64(unit))
	}
	return fmt.Sprintf("%.1f %s", val, suffix[exp])
}
