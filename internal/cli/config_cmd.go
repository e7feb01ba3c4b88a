// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// config_cmd.go - Configuration inspection and editing.
package cli

import (
	"fmt"

	"github.com/jeranaias/tripdesk-tui/internal/config"
)

// HandleConfig routes the config subcommands.
func HandleConfig(args Args) error {
	switch args.Subcommand {
	case "show", "":
		return handleConfigShow(args)
	case "get":
		return handleConfigGet(args)
	case "set":
		return handleConfigSet(args)
	case "list", "ls", "keys":
		return handleConfigList(args)
	case "path":
		return handleConfigPath(args)
	default:
		return ErrUnsupportedValue("subcommand", args.Subcommand,
			[]string{"show", "get", "set", "list", "path"})
	}
}

// =============================================================================
// SHOW / LIST
// =============================================================================

func handleConfigShow(args Args) error {
	cfg := config.Global()

	return OutputJSON(args.JSON, "config show", func() (interface{}, error) {
		if !args.JSON {
			path, _ := config.ConfigPathTOML()

			fmt.Println()
			fmt.Println(TitleStyle.Render("Configuration"))
			if path != "" {
				fmt.Println(DimStyle.Render("  " + path))
			}
			fmt.Println()
			printConfigKeys(cfg)
			fmt.Println()
		}
		return cfg.Clone(), nil
	})
}

func handleConfigList(args Args) error {
	cfg := config.Global()

	return OutputJSON(args.JSON, "config list", func() (interface{}, error) {
		values := make(map[string]interface{}, len(config.GetAllKeys()))
		for _, key := range config.GetAllKeys() {
			if v, err := cfg.Get(key); err == nil {
				values[key] = v
			}
		}

		if !args.JSON {
			fmt.Println()
			printConfigKeys(cfg)
			fmt.Println()
		}
		return values, nil
	})
}

// printConfigKeys renders every key/value pair, aligned.
func printConfigKeys(cfg *config.Config) {
	for _, key := range config.GetAllKeys() {
		v, err := cfg.Get(key)
		if err != nil {
			continue
		}
		fmt.Printf("  %-34s %v\n", AccentStyle.Render(key), v)
	}
}

// =============================================================================
// GET / SET
// =============================================================================

func handleConfigGet(args Args) error {
	if args.ConfigKey == "" {
		return ErrMissingArgument("key", "tripdesk config get api.base_url")
	}

	cfg := config.Global()

	return OutputJSON(args.JSON, "config get", func() (interface{}, error) {
		v, err := cfg.Get(args.ConfigKey)
		if err != nil {
			return nil, NewValidationErrorWithExample("key", args.ConfigKey,
				"unknown configuration key", "tripdesk config list")
		}

		if !args.JSON {
			fmt.Printf("%v\n", v)
		}
		return map[string]interface{}{"key": args.ConfigKey, "value": v}, nil
	})
}

func handleConfigSet(args Args) error {
	if args.ConfigKey == "" || args.ConfigVal == "" {
		return ErrMissingArgument("key and value", "tripdesk config set ui.page_size 50")
	}

	// Mutate the live config so the change is validated in context, then
	// persist the whole file.
	cfg := config.Global()

	return OutputJSON(args.JSON, "config set", func() (interface{}, error) {
		old, _ := cfg.Get(args.ConfigKey)

		if err := cfg.Set(args.ConfigKey, args.ConfigVal); err != nil {
			return nil, NewValidationError("value", args.ConfigVal, err.Error())
		}

		if err := cfg.Validate(); err != nil {
			// Roll back so the bad value does not linger in memory
			if old != nil {
				cfg.Set(args.ConfigKey, old)
			}
			return nil, NewValidationError(args.ConfigKey, args.ConfigVal, err.Error())
		}

		if err := config.Save(cfg); err != nil {
			return nil, WrapError(err, "could not write config file")
		}

		newVal, _ := cfg.Get(args.ConfigKey)

		if !args.JSON {
			fmt.Println()
			fmt.Printf("%s %s = %v\n", SuccessStyle.Render("[OK]"), args.ConfigKey, newVal)
			if old != nil && fmt.Sprintf("%v", old) != fmt.Sprintf("%v", newVal) {
				fmt.Println(DimStyle.Render(fmt.Sprintf("  (was %v)", old)))
			}
			fmt.Println()
		}

		return map[string]interface{}{
			"key":      args.ConfigKey,
			"value":    newVal,
			"previous": old,
		}, nil
	})
}

// =============================================================================
// PATH
// =============================================================================

func handleConfigPath(args Args) error {
	return OutputJSON(args.JSON, "config path", func() (interface{}, error) {
		path, err := config.ConfigPathTOML()
		if err != nil {
			return nil, WrapError(err, "could not resolve config path")
		}

		if !args.JSON {
			fmt.Println(path)
		}
		return map[string]interface{}{"path": path}, nil
	})
}
