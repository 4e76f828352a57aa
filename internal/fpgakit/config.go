package fpgakit

import (
	"bufio"
	"os"
	"strings"
)

// Config holds the values parsed from /etc/fpgakit.conf. SystemConf is
// true when the file actually existed, which is how Debian-style
// installs are detected for the apt install hints.
type Config struct {
	Values     map[string]string
	SystemConf bool
}

// configOption describes one tunable: its key in the config file, the
// environment variable that overrides it, its default, and an optional
// normalizer applied to whichever value wins.
type configOption struct {
	EnvVar    string
	Default   string
	Normalize func(string) string
}

var configOptions = map[string]configOption{
	"home_dir": {EnvVar: "FPGAKIT_HOME_DIR", Normalize: stripQuotes},
	"pkg_dir":  {EnvVar: "FPGAKIT_PKG_DIR", Normalize: stripQuotes},
	"mirror":   {EnvVar: "FPGAKIT_MIRROR", Default: defaultMirrorURL, Normalize: trimMirror},
	"debug":    {EnvVar: "FPGAKIT_DEBUG", Default: "0"},
}

func trimMirror(s string) string {
	return strings.TrimRight(stripQuotes(s), "/")
}

// Load /etc/fpgakit.conf and apply defaults
func loadConfig(path string) (*Config, error) {
	cfg := &Config{Values: make(map[string]string)}

	// Attempt to read the file
	file, err := os.Open(path)
	if err == nil {
		defer file.Close()
		cfg.SystemConf = true
		scanner := bufio.NewScanner(file)
		for scanner.Scan() {
			line := strings.TrimSpace(scanner.Text())
			if line == "" || strings.HasPrefix(line, "#") {
				continue
			}
			parts := strings.SplitN(line, "=", 2)
			if len(parts) != 2 {
				continue
			}
			key := strings.TrimSpace(parts[0])
			val := strings.TrimSpace(parts[1])
			val = strings.Trim(val, `"'`)
			cfg.Values[key] = val
		}
		if err := scanner.Err(); err != nil {
			return cfg, err
		}
	}

	return cfg, nil
}

// optionValue resolves a named option: environment override first,
// then the config file, then the option's default.
func optionValue(cfg *Config, name string) string {
	opt, ok := configOptions[name]
	if !ok {
		return ""
	}

	val := opt.Default
	if cfg != nil {
		if v, exists := cfg.Values[opt.EnvVar]; exists && v != "" {
			val = v
		}
	}
	if v, exists := os.LookupEnv(opt.EnvVar); exists && v != "" {
		val = v
	}

	if opt.Normalize != nil {
		val = opt.Normalize(val)
	}
	return val
}

func initConfig(cfg *Config) {
	Debug = optionValue(cfg, "debug") == "1"

	mirrorURL = optionValue(cfg, "mirror")
	debugf("=> Using package mirror: %s\n", mirrorURL)
}
