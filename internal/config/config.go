package config

import (
    "fmt"
    "os"
    "path/filepath"
    "strings"

    "github.com/natefinch/atomic"
    "gopkg.in/yaml.v3"

    "dossiers/internal/common"
    "dossiers/internal/observability"
    "dossiers/pkg/errors"
    "dossiers/pkg/models"
)

// FileName is the project configuration file looked up in the project directory
const FileName = "dossiers.yaml"

// EnvConfigFile points at an explicit configuration file
const EnvConfigFile = "DOSSIERS_CONFIG"

func GetConfigFile(projectDir string) string {
    // Check for environment variable first
    if configFile := os.Getenv(EnvConfigFile); configFile != "" {
        // Validate the path to prevent directory traversal
        cleaned, err := common.CleanPath(configFile)
        if err == nil {
            return cleaned
        }
    }
    return filepath.Join(projectDir, FileName)
}

// Load reads the project configuration, returning defaults when no file exists
func Load(projectDir string) (*models.Config, error) {
    configFile := GetConfigFile(projectDir)

    config := models.DefaultConfig()

    data, err := os.ReadFile(configFile) // #nosec G304 - path is validated
    if err != nil {
        if os.IsNotExist(err) {
            return config, nil
        }
        if os.IsPermission(err) {
            return nil, errors.Wrap(err, errors.ErrCodeConfigPermission, "Cannot read configuration file").
                WithContext("path", configFile)
        }
        return nil, errors.FileError(configFile, err)
    }

    if err := yaml.Unmarshal(data, config); err != nil {
        return nil, errors.Wrap(err, errors.ErrCodeConfigInvalid, "Failed to parse configuration file").
            WithContext("path", configFile).
            WithSuggestions("Check the YAML syntax of " + FileName)
    }

    if err := Validate(config); err != nil {
        return nil, err
    }
    return config, nil
}

// Validate checks the value ranges of a configuration
func Validate(config *models.Config) error {
    if config.History.MaxCommits < 0 {
        return errors.ConfigError("history.max_commits must not be negative", "history.max_commits")
    }

    switch strings.ToLower(config.Output.Format) {
    case "", "table", "json":
    default:
        return errors.ConfigError(fmt.Sprintf("unknown output format %q", config.Output.Format), "output.format")
    }

    switch strings.ToLower(config.LogLevel) {
    case "", "debug", "info", "warn", "warning", "error", "off", "none":
    default:
        return errors.ConfigError(fmt.Sprintf("unknown log level %q", config.LogLevel), "log_level")
    }

    return nil
}

// Save writes the configuration to the project directory atomically
func Save(projectDir string, config *models.Config) error {
    if err := os.MkdirAll(projectDir, common.DirPermissionNormal); err != nil {
        return errors.FileError(projectDir, err)
    }

    data, err := yaml.Marshal(config)
    if err != nil {
        return errors.Wrap(err, errors.ErrCodeInternal, "Failed to marshal configuration")
    }

    configFile := filepath.Join(projectDir, FileName)
    if err := atomic.WriteFile(configFile, strings.NewReader(string(data))); err != nil {
        return errors.FileError(configFile, err)
    }
    return nil
}

func Exists(projectDir string) bool {
    _, err := os.Stat(GetConfigFile(projectDir))
    return err == nil
}

// DocumentsDir returns the directory documents are loaded from. A configured
// subdirectory that does not exist is reported and the project directory is
// used instead.
func DocumentsDir(projectDir string, config *models.Config, logger *observability.Logger) string {
    if config == nil || config.Subdirectory == "" {
        return projectDir
    }

    logger = observability.OrDefault(logger)

    dir, err := common.ResolveWithin(projectDir, config.Subdirectory)
    if err != nil {
        logger.WarnWithFields("ignoring subdirectory outside the project", map[string]interface{}{
            "subdirectory": config.Subdirectory,
            "error":        err.Error(),
        })
        return projectDir
    }

    info, err := os.Stat(dir)
    if err != nil || !info.IsDir() {
        logger.WarnWithFields("configured subdirectory does not exist", map[string]interface{}{
            "subdirectory": config.Subdirectory,
            "path":         dir,
        })
        return projectDir
    }
    return dir
}
