package config

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"strconv"
	"strings"

	"examsolver/internal/browser"
	"examsolver/internal/constants"
	"examsolver/internal/normalize"

	"github.com/joho/godotenv"
)

const envPrefix = "EXAMSOLVER_"

type Config struct {
	DatabasePath string
	AnswerTable  string
	// Browser is empty when the user should be asked.
	Browser    browser.Kind
	URL        string
	Headless   bool
	Normalizer string
	ReportPath string
	Debug      bool
}

// Load reads configuration from flags, the environment and an optional .env
// file, in that order of precedence. lookupEnv is usually os.LookupEnv.
func Load(args []string, lookupEnv func(string) (string, bool), output io.Writer) (Config, error) {
	envFile := ".env"
	if v, ok := lookupEnv(envPrefix + "ENV_FILE"); ok {
		envFile = v
	}

	fileEnv := map[string]string{}
	if envFile != "" {
		loaded, err := godotenv.Read(envFile)
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("read %s: %w", envFile, err)
		}
		if loaded != nil {
			fileEnv = loaded
		}
	}

	env := func(name, fallback string) string {
		if v, ok := lookupEnv(envPrefix + name); ok {
			return v
		}
		if v, ok := fileEnv[envPrefix+name]; ok {
			return v
		}
		return fallback
	}

	headlessDefault, err := parseBool("HEADLESS", env("HEADLESS", "false"))
	if err != nil {
		return Config{}, err
	}
	debugDefault, err := parseBool("DEBUG", env("DEBUG", "false"))
	if err != nil {
		return Config{}, err
	}

	flags := flag.NewFlagSet("examsolver", flag.ContinueOnError)
	flags.SetOutput(output)

	var cfg Config
	var browserName string
	flags.StringVar(&cfg.DatabasePath, "db", env("DB", constants.DefaultDatabasePath), "Path to the SQLite answer key")
	flags.StringVar(&cfg.AnswerTable, "table", env("TABLE", constants.DefaultAnswerTable), "Answer key table name")
	flags.StringVar(&browserName, "browser", env("BROWSER", ""), "Browser backend: "+kindList()+" (asks when empty)")
	flags.StringVar(&cfg.URL, "url", env("URL", constants.ExamURL), "Exam page URL or saved HTML file")
	flags.BoolVar(&cfg.Headless, "headless", headlessDefault, "Run the browser without a window")
	flags.StringVar(&cfg.Normalizer, "normalizer", env("NORMALIZER", "positional"), "Label stripping: positional or separator")
	flags.StringVar(&cfg.ReportPath, "report", env("REPORT", ""), "Write a run report (.md, .html or .pdf)")
	flags.BoolVar(&cfg.Debug, "debug", debugDefault, "Enable debug logs")

	if err := flags.Parse(args); err != nil {
		return Config{}, err
	}
	if flags.NArg() > 0 {
		return Config{}, fmt.Errorf("unexpected arguments: %s", strings.Join(flags.Args(), " "))
	}

	if browserName != "" {
		kind, err := browser.ParseKind(browserName)
		if err != nil {
			return Config{}, err
		}
		cfg.Browser = kind
	}
	if _, err := normalize.ByName(cfg.Normalizer); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func parseBool(name, raw string) (bool, error) {
	v, err := strconv.ParseBool(strings.TrimSpace(raw))
	if err != nil {
		return false, fmt.Errorf("%s%s: %w", envPrefix, name, err)
	}
	return v, nil
}

func kindList() string {
	kinds := browser.Kinds()
	names := make([]string, len(kinds))
	for i, k := range kinds {
		names[i] = string(k)
	}
	return strings.Join(names, ", ")
}
