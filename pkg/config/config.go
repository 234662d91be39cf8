package config

// this holds the resolved configuration values from CLI
//
//nolint:lll // readablity
var (
	URL               string   // base URL of the RaceTrace API
	Token             string   // bearer token sent with API requests
	Headers           []string // extra request headers (key=value)
	Timeout           string   // timeout for a single API request
	WaitForAPI        string   // duration to wait for the API to accept connections
	TLSCAFile         string   // path to TLS CA used to verify the API
	TLSCertFile       string   // path to TLS client certificate
	TLSKeyFile        string   // path to TLS client key
	LogLevel          string   // sets the log level (zap log level values)
	LogFormat         string   // text vs json
	LogFilter         string   // zapfilter rules, overrides log level if set
	EnableTelemetry   bool     // enable telemetry
	TelemetryEndpoint string   // endpoint for telemetry (empty: stdout)
	CacheExpiration   string   // how long fetched lap telemetry is reused
	OutputDir         string   // directory receiving rendered charts
	ChartWidth        int      // width of rendered charts in px
	ChartHeight       int      // height of rendered charts in px
)

// Config holds the configuration values which are used by a comparison run
type Config struct {
	KeepZeroIDs bool     // if true, lap id 0 is kept when parsing user input
	AxisSource  string   // first-lap or first-with-data
	Channels    []string // optional channel filter sent to the API
	FromFile    string   // read the comparison result from this file instead of the API
}
