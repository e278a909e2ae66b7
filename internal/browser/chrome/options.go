package chrome

import (
	"fmt"
	"sort"
	"strings"

	"github.com/chromedp/chromedp"

	"github.com/xkilldash9x/matchscrape/internal/config"
)

// allocatorFlags translates the browser config into Chromium command-line flags.
func allocatorFlags(cfg config.BrowserConfig) map[string]interface{} {
	flags := map[string]interface{}{
		"no-first-run":                  true,
		"no-default-browser-check":      true,
		"disable-gpu":                   true,
		"disable-dev-shm-usage":         true,
		"disable-background-networking": true,
		"disable-popup-blocking":        true,
		"window-size":                   fmt.Sprintf("%d,%d", cfg.Viewport.Width, cfg.Viewport.Height),
	}

	if cfg.Headless {
		flags["headless"] = true
		flags["hide-scrollbars"] = true
		flags["mute-audio"] = true
	}
	if cfg.HideAutomation {
		// Keeps navigator.webdriver unset for the target page.
		flags["disable-blink-features"] = "AutomationControlled"
	}
	if cfg.NoSandbox {
		flags["no-sandbox"] = true
	}
	if cfg.DisableCache {
		flags["disk-cache-size"] = "0"
		flags["media-cache-size"] = "0"
		flags["disable-cache"] = true
	}
	if cfg.IgnoreTLSErrors {
		flags["ignore-certificate-errors"] = true
		flags["allow-insecure-localhost"] = true
	}
	if cfg.UserAgent != "" {
		flags["user-agent"] = cfg.UserAgent
	}

	// Extra args win over everything above. "--key=value" sets a value, a bare "--key" a switch.
	for _, arg := range cfg.Args {
		arg = strings.TrimPrefix(strings.TrimSpace(arg), "--")
		if arg == "" {
			continue
		}
		if key, value, found := strings.Cut(arg, "="); found {
			flags[key] = value
		} else {
			flags[arg] = true
		}
	}
	return flags
}

// AllocatorOptions returns the chromedp exec allocator options for cfg.
func AllocatorOptions(cfg config.BrowserConfig) []chromedp.ExecAllocatorOption {
	flags := allocatorFlags(cfg)

	// Sorted so the launched command line is stable across runs.
	keys := make([]string, 0, len(flags))
	for k := range flags {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	opts := make([]chromedp.ExecAllocatorOption, 0, len(keys)+1)
	for _, k := range keys {
		opts = append(opts, chromedp.Flag(k, flags[k]))
	}
	if cfg.ExecPath != "" {
		opts = append(opts, chromedp.ExecPath(cfg.ExecPath))
	}
	return opts
}
