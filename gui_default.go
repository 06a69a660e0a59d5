//go:build !console

package main

import (
	"fmt"
	"os"

	webview "github.com/webview/webview_go"
)

// runEmbeddedUI serves the optimizer on a loopback port and wraps it
// in a webview window. Closing the window shuts the server down.
func runEmbeddedUI(configFile string) error {
	// A missing config file is fine; the server falls back to the
	// embedded defaults and persists edits as the user works
	config, err := LoadConfig(configFile)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("error loading config: %w", err)
	}

	server := NewWebServer(config, "localhost:0")
	url, cleanup, err := server.StartForEmbedded()
	if err != nil {
		return fmt.Errorf("failed to start optimizer server: %w", err)
	}
	defer cleanup()

	w := webview.New(false)
	defer w.Destroy()

	w.SetTitle("Greenlight: Policy Choice Optimizer")
	w.SetSize(1200, 800, webview.HintNone)
	w.Navigate(url)
	w.Run()

	return nil
}

func runGUI(configFile string) error {
	return runEmbeddedUI(configFile)
}
