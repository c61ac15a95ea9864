// Package config loads the taskbucket configuration document. The data
// directory is chosen once at process start (flag, then TASKBUCKET_DATA,
// then ~/.taskbucket); the core never re-reads it.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// EnvDataDir overrides the data directory location.
const EnvDataDir = "TASKBUCKET_DATA"

// Config is the flat key/value configuration document, read at startup.
type Config struct {
	TaskBucketPath string `mapstructure:"task_bucket_path" json:"task_bucket_path"`
	ProjectsPath   string `mapstructure:"projects_path" json:"projects_path"`
	LogPath        string `mapstructure:"log_path" json:"log_path"`
	LogLevel       string `mapstructure:"log_level" json:"log_level"`

	DateFormat      string `mapstructure:"date_format" json:"date_format"`
	TimeFormat      string `mapstructure:"time_format" json:"time_format"`
	DefaultTaskType string `mapstructure:"default_task_type" json:"default_task_type"`
	DefaultPriority string `mapstructure:"default_priority" json:"default_priority"`
	DefaultProject  string `mapstructure:"default_project" json:"default_project"`

	ColorEnabled  bool   `mapstructure:"color_enabled" json:"color_enabled"`
	BackupEnabled bool   `mapstructure:"backup_enabled" json:"backup_enabled"`
	BackupDir     string `mapstructure:"backup_dir" json:"backup_dir"`
	TimeTracking  bool   `mapstructure:"time_tracking" json:"time_tracking"`
	DayStartHour  int    `mapstructure:"day_start_hour" json:"day_start_hour"`

	// DataDir is the resolved data directory, not part of the document.
	DataDir string `mapstructure:"-" json:"-"`
}

// ResolveDataDir picks the data directory: explicit override, then the
// TASKBUCKET_DATA environment variable, then ~/.taskbucket.
func ResolveDataDir(override string) string {
	if override != "" {
		return override
	}
	if env := os.Getenv(EnvDataDir); env != "" {
		return env
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".taskbucket"
	}
	return filepath.Join(home, ".taskbucket")
}

// Default returns the configuration defaults for a data directory.
func Default(dataDir string) *Config {
	return &Config{
		TaskBucketPath:  filepath.Join(dataDir, "task-bucket.json"),
		ProjectsPath:    filepath.Join(dataDir, "projects.json"),
		LogPath:         filepath.Join(dataDir, "logs", "task.log"),
		LogLevel:        "info",
		DateFormat:      "2006-01-02",
		TimeFormat:      "15:04",
		DefaultTaskType: "work",
		DefaultPriority: "medium",
		ColorEnabled:    true,
		BackupEnabled:   true,
		BackupDir:       filepath.Join(dataDir, "backups"),
		TimeTracking:    true,
		DayStartHour:    6,
		DataDir:         dataDir,
	}
}

// Load reads config.json from the data directory, merged over defaults.
// A missing file is not an error; the defaults are used as-is.
func Load(dataDir string) (*Config, error) {
	dataDir = ResolveDataDir(dataDir)
	cfg := Default(dataDir)

	path := filepath.Join(dataDir, "config.json")
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("json")
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	cfg.DataDir = dataDir
	return cfg, nil
}

// ConfigPath returns the path of the configuration document.
func (c *Config) ConfigPath() string {
	return filepath.Join(c.DataDir, "config.json")
}

// EnsureDirectories creates the data, log and backup directories.
func (c *Config) EnsureDirectories() error {
	dirs := []string{
		filepath.Dir(c.TaskBucketPath),
		filepath.Dir(c.LogPath),
	}
	if c.BackupEnabled && c.BackupDir != "" {
		dirs = append(dirs, c.BackupDir)
	}
	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	return nil
}
