package config

import (
	"testing"

	"github.com/matryer/is"
)

func TestDefaults(t *testing.T) {
	is := is.New(t)
	cfg := DefaultConfig()
	is.Equal(cfg.GetInt(ConfigBoardSize), 15)
	is.Equal(cfg.GetInt(ConfigRackSize), 7)
	is.Equal(cfg.GetString(ConfigDefaultCategory), "animals")
}

func TestLoadFlagsAndEnv(t *testing.T) {
	is := is.New(t)
	t.Setenv("LEXICARD_MAX_HP", "42")
	cfg := &Config{}
	is.NoErr(cfg.Load([]string{"--max-turns=3", "--debug"}))
	is.Equal(cfg.GetInt(ConfigMaxTurns), 3)
	is.True(cfg.GetBool(ConfigDebug))
	is.Equal(cfg.GetInt(ConfigMaxHP), 42)
}

func TestAdjustRelativePaths(t *testing.T) {
	is := is.New(t)
	cfg := DefaultConfig()
	cfg.Set(ConfigDBPath, "/abs/lexicard.db")
	cfg.AdjustRelativePaths("/opt/lexicard")
	is.Equal(cfg.GetString(ConfigDataPath), "/opt/lexicard/data")
	is.Equal(cfg.GetString(ConfigDBPath), "/abs/lexicard.db")
}
