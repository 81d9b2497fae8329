package config

import "flag"

// Flags holds command-line overrides. Zero values leave the config untouched.
type Flags struct {
	Config       string
	Debug        bool
	AllMaterials bool
	Format       string
	Output       string
	Charset      string
}

// RegisterFlags defines the configuration flags on fs.
func RegisterFlags(fs *flag.FlagSet) *Flags {
	f := &Flags{}
	fs.StringVar(&f.Config, "config", "", "Path to config file (.yaml or .toml)")
	fs.BoolVar(&f.Debug, "debug", false, "Enable debug logging")
	fs.BoolVar(&f.AllMaterials, "all-materials", false, "Convert materials no mesh references")
	fs.StringVar(&f.Format, "format", "", "Output format: yaml or toml")
	fs.StringVar(&f.Output, "o", "", "Output file (default stdout)")
	fs.StringVar(&f.Charset, "charset", "", "Legacy charset of object names, e.g. euc-kr")
	return f
}

// apply applies CLI flag overrides to the config.
func (f *Flags) apply(cfg *Config) {
	if f.Debug {
		cfg.Logging.Level = "debug"
	}
	if f.AllMaterials {
		cfg.Convert.ReadAllMaterials = true
	}
	if f.Format != "" {
		cfg.Output.Format = f.Format
	}
	if f.Output != "" {
		cfg.Output.Path = f.Output
	}
	if f.Charset != "" {
		cfg.Convert.LegacyCharset = f.Charset
	}
}
