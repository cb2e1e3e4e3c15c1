// Package config provides the settings of the lintite engine.
//
// Settings are read from a TOML file and layered as:
//
//	┌─────────────────────────────┐
//	│  3. Environment Variables   │  ← LINTITE_* (highest priority)
//	├─────────────────────────────┤
//	│  2. Settings File           │  ← ~/.lintite/settings.toml
//	├─────────────────────────────┤
//	│  1. Built-in Defaults       │  ← Lowest priority
//	└─────────────────────────────┘
//
// A missing settings file is not an error; the defaults apply.
//
// # Basic Usage
//
//	cfg, err := config.Load(config.DefaultPath())
//	if err != nil {
//	    return err
//	}
//	debounce := cfg.Rules.DebounceDuration()
//
// # Sub-packages
//
//   - watcher: fsnotify-based live reload of rule files
package config
