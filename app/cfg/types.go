package cfg

type Cfg struct {
	// HTTP server
	Port         string
	APIAccessKey string

	// Feed registry
	DBPath          string
	RefreshInterval int

	// AI assist
	OllamaURL   string
	OllamaModel string

	// Application metadata
	UserAgent string
	Timezone  string
	Debug     bool
	Version   string
}
