package models

// Config is the project configuration read from dossiers.yaml
type Config struct {
    Title        string        `yaml:"title"`
    Repository   string        `yaml:"repository"`   // Hosting slug or URL, overrides the git remote
    Subdirectory string        `yaml:"subdirectory"` // Documents live here, relative to the project root
    LogLevel     string        `yaml:"log_level"`
    History      HistoryConfig `yaml:"history"`
    Output       OutputConfig  `yaml:"output"`
}

// HistoryConfig tunes the commit history walk
type HistoryConfig struct {
    MaxCommits    int  `yaml:"max_commits"`    // 0 walks the whole history
    DetectRenames bool `yaml:"detect_renames"` // Similarity-based rename detection in tree diffs
}

// OutputConfig controls how resolved timestamps are printed
type OutputConfig struct {
    Format string `yaml:"format"` // "table" or "json"
}

// DefaultConfig returns the configuration used when no file is present
func DefaultConfig() *Config {
    return &Config{
        LogLevel: "warn",
        Output: OutputConfig{
            Format: "table",
        },
    }
}
