package config

import (
	"errors"
	"path/filepath"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	ConfigDebug              = "debug"
	ConfigConfigFile         = "config-file"
	ConfigDataPath           = "data-path"
	ConfigDefaultCategory    = "default-category"
	ConfigBoardSize          = "board-size"
	ConfigMaxTurns           = "max-turns"
	ConfigRackSize           = "rack-size"
	ConfigFreeUsesPerLetter  = "free-uses-per-letter"
	ConfigSpecialHandSize    = "special-hand-size"
	ConfigSpellCheckAllowed  = "spellcheck-allowance"
	ConfigMaxHP              = "max-hp"
	ConfigCPUTopN            = "cpu-top-n"
	ConfigCPUThreads         = "cpu-threads"
	ConfigCPUNodeBudget      = "cpu-node-budget"
	ConfigNatsURL            = "nats-url"
	ConfigBotChannel         = "bot-channel"
	ConfigDBPath             = "db-path"
	ConfigListenAddr         = "listen-addr"
	ConfigCardCataloguePath  = "card-catalogue-path"
	ConfigTurnTimeoutSeconds = "turn-timeout-seconds"
	ConfigRemoteCPU          = "remote-cpu"
	ConfigCPUProfile         = "cpu-profile"
)

// Config wraps a viper instance. Values come from (in increasing priority)
// defaults, an optional config file, LEXICARD_* environment variables and
// command-line flags.
type Config struct {
	*viper.Viper
}

func setDefaults(v *viper.Viper) {
	v.SetDefault(ConfigDebug, false)
	v.SetDefault(ConfigDataPath, "./data")
	v.SetDefault(ConfigDefaultCategory, "animals")
	v.SetDefault(ConfigBoardSize, 15)
	v.SetDefault(ConfigMaxTurns, 10)
	v.SetDefault(ConfigRackSize, 7)
	v.SetDefault(ConfigFreeUsesPerLetter, 2)
	v.SetDefault(ConfigSpecialHandSize, 4)
	v.SetDefault(ConfigSpellCheckAllowed, 3)
	v.SetDefault(ConfigMaxHP, 100)
	v.SetDefault(ConfigCPUTopN, 5)
	v.SetDefault(ConfigCPUThreads, 4)
	v.SetDefault(ConfigCPUNodeBudget, 0)
	v.SetDefault(ConfigNatsURL, "nats://localhost:4222")
	v.SetDefault(ConfigBotChannel, "lexicard.bot")
	v.SetDefault(ConfigDBPath, "./data/lexicard.db")
	v.SetDefault(ConfigListenAddr, ":8088")
	v.SetDefault(ConfigCardCataloguePath, "")
	v.SetDefault(ConfigTurnTimeoutSeconds, 120)
	v.SetDefault(ConfigRemoteCPU, false)
	v.SetDefault(ConfigCPUProfile, "")
}

// DefaultConfig returns a config holding only the default values. It is
// mostly meant for tests.
func DefaultConfig() *Config {
	v := viper.New()
	setDefaults(v)
	return &Config{Viper: v}
}

func (c *Config) Load(args []string) error {
	c.Viper = viper.New()
	setDefaults(c.Viper)

	fs := pflag.NewFlagSet("lexicard", pflag.ContinueOnError)
	fs.Bool(ConfigDebug, false, "debug logging on")
	fs.String(ConfigConfigFile, "", "optional yaml/json/toml config file")
	fs.String(ConfigDataPath, "./data", "directory holding dictionaries, layouts and card catalogues")
	fs.String(ConfigDefaultCategory, "animals", "the default dictionary category")
	fs.Int(ConfigBoardSize, 15, "board size")
	fs.Int(ConfigMaxTurns, 10, "turns per side")
	fs.Int(ConfigRackSize, 7, "rack capacity")
	fs.Int(ConfigFreeUsesPerLetter, 2, "free (wildcard) uses allowed per letter")
	fs.Int(ConfigSpecialHandSize, 4, "special card hand capacity")
	fs.Int(ConfigSpellCheckAllowed, 3, "spell checks allowed per turn")
	fs.Int(ConfigMaxHP, 100, "starting HP in HP battles")
	fs.Int(ConfigCPUTopN, 5, "the CPU picks uniformly among this many best candidates")
	fs.Int(ConfigCPUThreads, 4, "CPU search worker count")
	fs.Int(ConfigCPUNodeBudget, 0, "maximum placement attempts for a CPU search (0 = unlimited)")
	fs.String(ConfigNatsURL, "nats://localhost:4222", "NATS server URL for the bot service")
	fs.String(ConfigBotChannel, "lexicard.bot", "NATS subject the bot listens on")
	fs.String(ConfigDBPath, "./data/lexicard.db", "sqlite database path")
	fs.String(ConfigListenAddr, ":8088", "HTTP listen address for the room API")
	fs.String(ConfigCardCataloguePath, "", "card catalogue yaml; empty means the embedded catalogue")
	fs.Int(ConfigTurnTimeoutSeconds, 120, "seconds before a turn is force-passed")
	fs.Bool(ConfigRemoteCPU, false, "ask the bot service over NATS for CPU moves")
	fs.String(ConfigCPUProfile, "", "write a CPU profile to this file")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := c.BindPFlags(fs); err != nil {
		return err
	}

	c.SetEnvPrefix("lexicard")
	c.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	c.AutomaticEnv()

	if cf := c.GetString(ConfigConfigFile); cf != "" {
		c.SetConfigFile(cf)
		if err := c.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return err
			}
		}
	}
	return nil
}

// AdjustRelativePaths makes the data and db paths relative to basepath
// if they were given as relative "./" paths.
func (c *Config) AdjustRelativePaths(basepath string) {
	for _, key := range []string{ConfigDataPath, ConfigDBPath} {
		p := c.GetString(key)
		if strings.HasPrefix(p, "./") {
			c.Set(key, filepath.Join(basepath, p))
		}
	}
}

// SanitizedSettings returns all settings for logging.
func (c *Config) SanitizedSettings() map[string]any {
	return c.AllSettings()
}
