// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"clidev/internal/config"
	"clidev/internal/issue"

	"github.com/spf13/cobra"
)

// newConfigCommand creates the `clidev config` command tree.
// Subcommands that read configuration use the App's ConfigProvider.
func newConfigCommand(app *App) *cobra.Command {
	cfgCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage clidev configuration",
		Long: `Manage clidev configuration.

Configuration is stored in:
  - Linux: ~/.config/clidev/config.cue
  - macOS: ~/Library/Application Support/clidev/config.cue
  - Windows: %APPDATA%\clidev\config.cue`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			return showConfig(cmd.Context(), app)
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "init",
		Short: "Create default configuration and tool config files",
		RunE: func(cmd *cobra.Command, args []string) error {
			return initConfig()
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Show configuration file path",
		RunE: func(cmd *cobra.Command, args []string) error {
			return showConfigPath()
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set a configuration value",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return setConfigValue(cmd.Context(), app, args[0], args[1])
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "get <key>",
		Short: "Print a configuration value",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return getConfigValue(cmd.Context(), app, args[0])
		},
	})

	return cfgCmd
}

func showConfig(ctx context.Context, app *App) error {
	cfg, err := app.Config.Load(ctx, config.LoadOptions{ConfigFilePath: cfgFile})
	if err != nil {
		rendered, _ := issue.Get(issue.ConfigLoadFailedId).Render("dark")
		fmt.Fprint(os.Stderr, rendered)
		return err
	}

	// Style definitions using shared color palette
	headerStyle := TitleStyle
	keyStyle := CmdStyle
	valueStyle := SuccessStyle

	fmt.Println(headerStyle.Render("Current Configuration"))
	fmt.Println()

	// Derive config file path from the standard config directory since the
	// provider does not cache resolved paths.
	cfgDir, dirErr := config.ConfigDir()
	if dirErr == nil && fileExistsCheck(filepath.Join(cfgDir, "config.cue")) {
		fmt.Printf("%s: %s\n", keyStyle.Render("Config file"), filepath.Join(cfgDir, "config.cue"))
	} else {
		fmt.Printf("%s: %s\n", keyStyle.Render("Config file"), SubtitleStyle.Render("(using defaults)"))
	}
	fmt.Println()

	fmt.Printf("%s:\n", keyStyle.Render("cli"))
	if cfg.CLI.RepoPath != "" {
		fmt.Printf("  repo_path: %s\n", valueStyle.Render(cfg.CLI.RepoPath.String()))
	} else {
		fmt.Printf("  repo_path: %s\n", SubtitleStyle.Render("(not configured)"))
	}
	fmt.Printf("  command: %s\n", valueStyle.Render(cfg.CLI.ConsoleCommand().String()))

	fmt.Println()
	fmt.Printf("%s:\n", keyStyle.Render("ext"))
	if paths := cfg.Ext.RepoPaths.Paths(); len(paths) > 0 {
		for _, path := range paths {
			fmt.Printf("  - %s\n", valueStyle.Render(path))
		}
	} else {
		fmt.Printf("  %s\n", SubtitleStyle.Render("(no extension repos configured)"))
	}

	fmt.Println()
	fmt.Printf("%s: %s\n", keyStyle.Render("runner"), valueStyle.Render(cfg.Runner.String()))

	fmt.Println()
	fmt.Printf("%s:\n", keyStyle.Render("ui"))
	fmt.Printf("  color_scheme: %s\n", valueStyle.Render(cfg.UI.ColorScheme.String()))
	fmt.Printf("  verbose: %s\n", valueStyle.Render(fmt.Sprintf("%v", cfg.UI.Verbose)))

	return nil
}

func initConfig() error {
	cfgDir, err := config.ConfigDir()
	if err != nil {
		return err
	}

	cfgPath := filepath.Join(cfgDir, "config.cue")
	if fileExistsCheck(cfgPath) {
		fmt.Printf("%s Configuration already exists at %s\n", WarningStyle.Render("!"), cfgPath)
	} else {
		if err := config.Save(config.DefaultConfig()); err != nil {
			return fmt.Errorf("failed to create config: %w", err)
		}
		fmt.Printf("%s Created default configuration at %s\n", SuccessStyle.Render("✓"), cfgPath)
	}

	// Materialize the bundled pylint/flake8 defaults so the resolver's
	// fallback paths exist on disk.
	if err := config.EnsureToolConfigs(); err != nil {
		return fmt.Errorf("failed to write tool configs: %w", err)
	}
	toolDir, err := config.ToolConfigsDir()
	if err == nil {
		fmt.Printf("%s Wrote default tool configs to %s\n", SuccessStyle.Render("✓"), toolDir)
	}

	return nil
}

func showConfigPath() error {
	cfgDir, err := config.ConfigDir()
	if err != nil {
		return err
	}

	fmt.Printf("Config directory: %s\n", cfgDir)
	fmt.Printf("Config file: %s\n", filepath.Join(cfgDir, "config.cue"))

	toolDir, err := config.ToolConfigsDir()
	if err == nil {
		fmt.Printf("Tool configs directory: %s\n", toolDir)
	}

	return nil
}

func setConfigValue(ctx context.Context, app *App, key, value string) error {
	cfg, err := app.Config.Load(ctx, config.LoadOptions{ConfigFilePath: cfgFile})
	if err != nil {
		return err
	}

	switch key {
	case "cli.repo_path":
		cfg.CLI.RepoPath = config.RepoPath(value)

	case "cli.command":
		cfg.CLI.Command = config.CommandName(value)

	case "ext.repo_paths":
		cfg.Ext.RepoPaths = config.RepoPathList(value)

	case "runner":
		mode := config.RunnerMode(value)
		if valid, errs := mode.IsValid(); !valid {
			return errs[0]
		}
		cfg.Runner = mode

	case "ui.color_scheme":
		scheme := config.ColorScheme(value)
		if valid, errs := scheme.IsValid(); !valid {
			return errs[0]
		}
		cfg.UI.ColorScheme = scheme

	case "ui.verbose":
		switch value {
		case "true", "1":
			cfg.UI.Verbose = true
		case "false", "0":
			cfg.UI.Verbose = false
		default:
			return fmt.Errorf("invalid value for ui.verbose: %q (must be true, false, 1, or 0)", value)
		}

	default:
		return fmt.Errorf("unknown configuration key: %s\nValid keys: cli.repo_path, cli.command, ext.repo_paths, runner, ui.color_scheme, ui.verbose", key)
	}

	if err := config.Save(cfg); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	fmt.Printf("%s Set %s = %s\n", SuccessStyle.Render("✓"), key, value)
	return nil
}

func getConfigValue(ctx context.Context, app *App, key string) error {
	cfg, err := app.Config.Load(ctx, config.LoadOptions{ConfigFilePath: cfgFile})
	if err != nil {
		return err
	}

	var value string
	switch key {
	case "cli.repo_path":
		value = cfg.CLI.RepoPath.String()
	case "cli.command":
		value = cfg.CLI.ConsoleCommand().String()
	case "ext.repo_paths":
		value = cfg.Ext.RepoPaths.String()
	case "runner":
		value = cfg.Runner.String()
	case "ui.color_scheme":
		value = cfg.UI.ColorScheme.String()
	case "ui.verbose":
		value = fmt.Sprintf("%v", cfg.UI.Verbose)
	default:
		return fmt.Errorf("unknown configuration key: %s\nValid keys: cli.repo_path, cli.command, ext.repo_paths, runner, ui.color_scheme, ui.verbose", key)
	}

	fmt.Println(value)
	return nil
}

// fileExistsCheck checks if a file exists and is not a directory.
func fileExistsCheck(path string) bool {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return false
	}
	return err == nil && !info.IsDir()
}
