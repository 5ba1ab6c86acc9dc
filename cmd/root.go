package cmd

import (
    "context"
    "path/filepath"
    "strings"

    "github.com/spf13/cobra"
    "github.com/spf13/pflag"
    "github.com/spf13/viper"

    "dossiers/internal/config"
    "dossiers/internal/observability"
    "dossiers/internal/ui"
    "dossiers/pkg/errors"
    "dossiers/pkg/models"
)

// EnvPrefix prefixes environment overrides, e.g. DOSSIERS_HISTORY_MAX_COMMITS
const EnvPrefix = "DOSSIERS"

var rootCmd = newRootCmd()

func newRootCmd() *cobra.Command {
    cmd := &cobra.Command{
        Use:   "dossiers",
        Short: "Resolve created and updated dates of numbered documents",
        Long: "Dossiers - Resolves when each document in a directory was created and last updated, " +
            "using front-matter dates, git history and file system times",
        SilenceUsage:  true,
        SilenceErrors: true,
        PersistentPreRun: func(cmd *cobra.Command, args []string) {
            ui.Output = cmd.ErrOrStderr()
        },
    }

    cmd.PersistentFlags().String("log-level", "", "Log level (debug, info, warn, error, off)")

    cmd.AddCommand(newTimestampsCmd())
    cmd.AddCommand(newRemoteCmd())
    cmd.AddCommand(newVersionCmd())
    return cmd
}

// Execute runs the CLI and returns the process exit code
func Execute(ctx context.Context) int {
    if err := rootCmd.ExecuteContext(ctx); err != nil {
        ui.ShowError(err)
        return 1
    }
    return 0
}

// settingFlags maps configuration keys to the flags that override them
var settingFlags = map[string]string{
    "log_level":              "log-level",
    "history.max_commits":    "max-commits",
    "history.detect_renames": "detect-renames",
}

// projectDir returns the absolute directory named by the first argument, or the working directory
func projectDir(args []string) (string, error) {
    dir := "."
    if len(args) > 0 {
        dir = args[0]
    }
    abs, err := filepath.Abs(dir)
    if err != nil {
        return "", errors.Wrap(err, errors.ErrCodeInvalidInput, "Invalid directory").WithContext("path", dir)
    }
    return abs, nil
}

// loadSettings reads dossiers.yaml from dir and layers environment variables
// and command line flags on top of it
func loadSettings(flags *pflag.FlagSet, dir string) (*models.Config, error) {
    cfg, err := config.Load(dir)
    if err != nil {
        return nil, err
    }

    v := viper.New()
    v.SetEnvPrefix(EnvPrefix)
    v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
    v.AutomaticEnv()

    v.SetDefault("log_level", cfg.LogLevel)
    v.SetDefault("history.max_commits", cfg.History.MaxCommits)
    v.SetDefault("history.detect_renames", cfg.History.DetectRenames)
    v.SetDefault("output.format", cfg.Output.Format)
    v.SetDefault("repository", cfg.Repository)

    if err := bindFlags(v, flags, settingFlags); err != nil {
        return nil, err
    }

    cfg.LogLevel = v.GetString("log_level")
    cfg.History.MaxCommits = v.GetInt("history.max_commits")
    cfg.History.DetectRenames = v.GetBool("history.detect_renames")
    cfg.Output.Format = strings.ToLower(v.GetString("output.format"))
    cfg.Repository = v.GetString("repository")

    if err := config.Validate(cfg); err != nil {
        return nil, err
    }
    return cfg, nil
}

func bindFlags(v *viper.Viper, flags *pflag.FlagSet, keys map[string]string) error {
    for key, name := range keys {
        flag := flags.Lookup(name)
        if flag == nil {
            continue
        }
        if err := v.BindPFlag(key, flag); err != nil {
            return errors.Wrap(err, errors.ErrCodeInternal, "Failed to bind flag").WithContext("flag", name)
        }
    }
    return nil
}

// newLogger builds the command logger writing JSON lines to stderr
func newLogger(cmd *cobra.Command, cfg *models.Config) *observability.Logger {
    logger := observability.NewLogger(observability.LoggerConfig{
        Level:   observability.LogLevelFromString(cfg.LogLevel),
        Output:  cmd.ErrOrStderr(),
        Version: Version,
    })
    observability.SetDefaultLogger(logger)
    return logger
}
