package cfg

type Cfg struct {
	// Storage configuration
	DBPath string

	// Application configuration
	LocationsDir   string
	Port           string
	APIAccessKey   string
	ScrapeInterval int // hours between scheduled scrape runs
	TimeBudget     int // advisory run budget in seconds, logged not enforced

	// Browser configuration
	BrowserURL string // WebSocket URL of an external Chrome; empty launches one
	Headless   bool
	NoSandbox  bool

	// Snapshot configuration
	SnapshotFile string

	// One-shot modes; the server is skipped when either is set
	RunOnce    bool
	ReplayFile string

	// Application metadata
	UserAgent string
	Timezone  string
	Debug     bool
	Version   string
}
