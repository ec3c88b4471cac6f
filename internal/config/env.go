package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// EnvPrefix marks environment variables that override config settings.
// SNAPMARK_STYLE_COLOR sets [style] color and SNAPMARK_THEME sets the root
// theme key.
const EnvPrefix = "SNAPMARK_"

var envSections = []string{"style", "ocr", "hotkey", "notify"}

// ApplyEnv applies overrides from envFile (when it exists) and then from the
// process environment, which wins.
func ApplyEnv(cfg *Config, envFile string) error {
	vars := map[string]string{}
	if envFile != "" {
		fileVars, err := godotenv.Read(envFile)
		switch {
		case err == nil:
			vars = fileVars
		case !errors.Is(err, fs.ErrNotExist):
			return fmt.Errorf("read %s: %w", envFile, err)
		}
	}
	for _, kv := range os.Environ() {
		k, v, _ := strings.Cut(kv, "=")
		vars[k] = v
	}
	for k, v := range vars {
		name, ok := strings.CutPrefix(k, EnvPrefix)
		if !ok || name == "" {
			continue
		}
		section, key := splitEnvName(strings.ToLower(name))
		if err := cfg.Set(section, key, v); err != nil {
			return fmt.Errorf("%s: %w", k, err)
		}
	}
	return nil
}

func splitEnvName(name string) (section, key string) {
	for _, s := range envSections {
		if rest, ok := strings.CutPrefix(name, s+"_"); ok {
			return s, rest
		}
	}
	return "", name
}
