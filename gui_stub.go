//go:build console

package main

import "fmt"

// Console-only builds drop the webview dependency. The optimizer is
// still fully usable through -web and the console flags.

func runEmbeddedUI(configFile string) error {
	return fmt.Errorf("the embedded optimizer window is not part of this console build; use -web to open the optimizer in your browser")
}

func runGUI(configFile string) error {
	return fmt.Errorf("no GUI in this console build; run the optimizer with -web (browser) or -console")
}
