package config

// this holds the resolved configuration values from CLI
var (
	LogLevel   string // sets the log level (zap log level values)
	LogFormat  string // text vs json
	LogFilter  string // zapfilter rules applied to the logger
	SessionDir string // directory containing recorded session files
	CacheTTL   string // expiry for cached sessions
	Interval   string // poll interval for live monitoring
	HistSize   int    // number of live snapshots to retain
	OutputDir  string // directory for exported analysis files
	ExportFile string // target file for the live history export
)
