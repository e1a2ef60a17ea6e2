package config

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/wifibear/macbear/internal/backup"
	"github.com/wifibear/macbear/internal/iface"
	"github.com/wifibear/macbear/internal/tools"
)

// DefaultConfigFile is read when present; its absence is not an error.
const DefaultConfigFile = "/etc/macbear/config.yaml"

// EnvPrefix prefixes environment overrides, e.g. MACBEAR_BACKUP_DIR.
const EnvPrefix = "MACBEAR"

type Config struct {
	Interface string
	BackupDir string
	// StepTimeout bounds each of the down, set-address and up commands.
	StepTimeout time.Duration
	Tool        string
	SysClassNet string

	Action    Action
	AssumeYes bool
	Output    OutputConfig
}

// Action is what the operator asked for on the command line.
type Action struct {
	SetMAC    string
	Randomize bool
	Restore   bool
	List      bool
	Show      bool
}

// Mutating reports whether the action changes an address.
func (a Action) Mutating() bool {
	return a.SetMAC != "" || a.Randomize || a.Restore
}

type OutputConfig struct {
	Verbose int
	Debug   bool
}

func DefaultConfig() *Config {
	return &Config{
		BackupDir:   backup.DefaultDir,
		StepTimeout: tools.DefaultTimeout,
		Tool:        tools.ToolAuto,
		SysClassNet: iface.DefaultSysClassNet,
	}
}

// Keys shared by flags, environment and config file.
const (
	KeyBackupDir   = "backup-dir"
	KeyStepTimeout = "step-timeout"
	KeyTool        = "tool"
	KeySysClassNet = "sys-class-net"
	KeyInterface   = "interface"
	KeyVerbose     = "verbose"
)

// Load overlays the config file, MACBEAR_* environment and any flags the
// operator set onto cfg. path names an explicit config file; if empty,
// DefaultConfigFile is tried.
func Load(cfg *Config, path string, flags *pflag.FlagSet) error {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	v.SetDefault(KeyBackupDir, cfg.BackupDir)
	v.SetDefault(KeyStepTimeout, cfg.StepTimeout)
	v.SetDefault(KeyTool, cfg.Tool)
	v.SetDefault(KeySysClassNet, cfg.SysClassNet)
	v.SetDefault(KeyInterface, cfg.Interface)
	v.SetDefault(KeyVerbose, cfg.Output.Verbose)

	explicit := path != ""
	if !explicit {
		path = DefaultConfigFile
	}
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if explicit || !(errors.As(err, &notFound) || errors.Is(err, fs.ErrNotExist)) {
			return fmt.Errorf("read config %s: %w", path, err)
		}
	}

	if flags != nil {
		for _, key := range []string{KeyBackupDir, KeyStepTimeout, KeyTool, KeySysClassNet, KeyInterface, KeyVerbose} {
			if f := flags.Lookup(key); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return fmt.Errorf("bind flag %s: %w", key, err)
				}
			}
		}
	}

	cfg.BackupDir = v.GetString(KeyBackupDir)
	cfg.StepTimeout = v.GetDuration(KeyStepTimeout)
	cfg.Tool = v.GetString(KeyTool)
	cfg.SysClassNet = v.GetString(KeySysClassNet)
	cfg.Interface = v.GetString(KeyInterface)
	cfg.Output.Verbose = v.GetInt(KeyVerbose)
	return cfg.Validate()
}

// Validate rejects settings the tool cannot run with.
func (c *Config) Validate() error {
	if c.StepTimeout <= 0 {
		return fmt.Errorf("step timeout must be positive, got %s", c.StepTimeout)
	}
	switch c.Tool {
	case tools.ToolAuto, tools.ToolIP, tools.ToolIfconfig:
	default:
		return fmt.Errorf("unknown tool %q (want auto, ip or ifconfig)", c.Tool)
	}
	if !filepath.IsAbs(c.BackupDir) {
		return fmt.Errorf("backup directory must be absolute, got %q", c.BackupDir)
	}
	n := 0
	for _, set := range []bool{c.Action.SetMAC != "", c.Action.Randomize, c.Action.Restore} {
		if set {
			n++
		}
	}
	if n > 1 {
		return errors.New("--set, --random and --restore are mutually exclusive")
	}
	return nil
}
