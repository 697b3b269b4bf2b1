package config

const (
	defaultDataDir          = "~/.local/share/timbre"
	defaultLogDir           = "~/.local/share/timbre/logs"
	defaultDatasetFile      = "dataset.dat"
	defaultHistoryFile      = "runs.db"
	defaultSplitProbability = 0.68
	defaultNeighborCount    = 5
	defaultMaxGenres        = 10
	defaultLogFormat        = "console"
	defaultLogLevel         = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			DataDir: defaultDataDir,
			LogDir:  defaultLogDir,
		},
		Dataset: Dataset{
			SplitProbability: defaultSplitProbability,
		},
		Classifier: Classifier{
			K: defaultNeighborCount,
		},
		Genres: Genres{
			MaxGenres: defaultMaxGenres,
		},
		History: History{
			Enabled: true,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
