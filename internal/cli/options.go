package cli

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/vvka-141/tmpdb/internal/config"
	"github.com/vvka-141/tmpdb/internal/logging"
	"github.com/vvka-141/tmpdb/internal/name"
	"github.com/vvka-141/tmpdb/pkg/tmpdb"
)

// options is the merged command configuration. Priority, highest first:
// flags, then tmpdb.yaml in the working directory. A .env file is loaded
// into the environment before anything else so TMPDB_* overrides work the
// same from a committed file as from the shell.
type options struct {
	rawURL        string
	template      string
	guardMode     string
	adminDatabase string
	tempDir       string
	maxAttempts   int
	keepLongName  bool
	verbose       bool
}

func addCommonFlags(cmd *cobra.Command) {
	cmd.Flags().String("template", "", "Database name template (default "+tmpdb.DefaultTemplate+")")
	cmd.Flags().String("admin-db", "", "Administrative database for CREATE/DROP")
	cmd.Flags().String("temp-dir", "", "Directory for SQLite database files")
	cmd.Flags().Int("max-attempts", 0, "Creation attempt ceiling")
	cmd.Flags().Bool("keep-long-name", false, "Skip the identifier length ceiling")
}

// resolveOptions merges flags with the optional project file. args[0], when
// present, is the database URL and beats the project file's url key.
func resolveOptions(cmd *cobra.Command, args []string) (*options, error) {
	_ = godotenv.Load()

	opts := &options{verbose: verboseFlag(cmd)}

	project, err := config.LoadProject(".")
	if err != nil && !errors.Is(err, config.ErrProjectNotFound) {
		return nil, fmt.Errorf("load %s: %w", config.ProjectFileName, err)
	}
	if project != nil {
		opts.rawURL = project.URL
		opts.template = project.Template
		opts.guardMode = project.Guard
		opts.adminDatabase = project.AdminDatabase
		opts.tempDir = project.TempDir
		opts.maxAttempts = project.MaxAttempts
	}

	if len(args) > 0 {
		opts.rawURL = args[0]
	}
	if v, _ := cmd.Flags().GetString("template"); v != "" {
		opts.template = v
	}
	if v, _ := cmd.Flags().GetString("admin-db"); v != "" {
		opts.adminDatabase = v
	}
	if v, _ := cmd.Flags().GetString("temp-dir"); v != "" {
		opts.tempDir = v
	}
	if v, _ := cmd.Flags().GetInt("max-attempts"); v != 0 {
		opts.maxAttempts = v
	}
	if v, _ := cmd.Flags().GetBool("keep-long-name"); v {
		opts.keepLongName = true
	}

	if opts.rawURL == "" {
		return nil, fmt.Errorf("no database URL given and no url in %s: %w",
			config.ProjectFileName, tmpdb.ErrInvalidConfig)
	}
	return opts, nil
}

func (o *options) config(logger tmpdb.Logger) *tmpdb.Config {
	return &tmpdb.Config{
		AutoCreate:    true,
		Template:      o.template,
		AdminDatabase: o.adminDatabase,
		TempDir:       o.tempDir,
		MaxAttempts:   o.maxAttempts,
		KeepLongName:  o.keepLongName,
		Logger:        logger,
	}
}

func (o *options) logger() *logging.ConsoleLogger {
	env := config.FromEnv()
	return logging.NewConsoleLogger(o.verbose || env.Debug)
}

// guardIdentifier is the value the guard helper drops: the database name
// for servers, the database file path for SQLite.
func guardIdentifier(rawURL, dbName, tempDir string) string {
	u, err := url.Parse(rawURL)
	if err == nil && (u.Scheme == "sqlite") {
		return name.FilePath(tempDir, dbName)
	}
	return dbName
}

// databaseNameFromURL extracts the database a fully resolved URL points at.
func databaseNameFromURL(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	if u.Opaque != "" {
		return u.Opaque
	}
	if u.Scheme == "sqlite" {
		return u.Path
	}
	return strings.TrimPrefix(u.Path, "/")
}
