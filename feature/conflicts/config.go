package conflicts

// Config holds defaults for conflict scans.
type Config struct {
	// Root is the mods directory to scan.
	Root string `mapstructure:"root" default:""`
	// Recursive controls whether subdirectories are scanned.
	Recursive bool `mapstructure:"recursive" default:"true"`
	// FastMode disables the tail-scanning fallback in the index reader.
	FastMode bool `mapstructure:"fast_mode" default:"false"`
	// UseCache enables the persisted parse cache.
	UseCache bool `mapstructure:"use_cache" default:"true"`
	// CachePath is the parse cache location.
	CachePath string `mapstructure:"cache_path" default:"id_index_cache.json"`
	// InventoryPath points at an optional filesystem inventory snapshot that
	// replaces the directory walk when its root matches the scan root.
	InventoryPath string `mapstructure:"inventory_path" default:""`
	// Workers overrides the parse worker pool size. Zero picks
	// clamp(NumCPU, 2, 8).
	Workers int `mapstructure:"workers" default:"0"`
}
