package main

import (
	"fmt"
	"io"

	"github.com/fatih/color"

	"github.com/nao1215/chronoscan/internal/log"
)

// bannerLines is the startup logo.
var bannerLines = []string{
	`        __                                              `,
	`  _____/ /_  _________  ____  ____  ______________ _____ `,
	` / ___/ __ \/ ___/ __ \/ __ \/ __ \/ ___/ ___/ __ ` + "`" + `/ __ \`,
	`/ /__/ / / / /  / /_/ / / / / /_/ (__  ) /__/ /_/ / / / /`,
	`\___/_/ /_/_/   \____/_/ /_/\____/____/\___/\__,_/_/ /_/ `,
}

// completionLine is printed after every run, whatever its outcome.
const completionLine = "[√] OPERATION CHRONOS COMPLETED."

// privilegeWarning is shown when the process is not running as root.
const privilegeWarning = "Running without ROOT privileges. Socket stability might be affected."

// printBanner writes the logo and edition line to w.
func printBanner(w io.Writer, noColor bool) {
	logo := color.New(color.FgCyan, color.Bold)
	edition := color.New(color.FgMagenta)
	if noColor {
		logo.DisableColor()
		edition.DisableColor()
	}

	for _, line := range bannerLines {
		logo.Fprintln(w, line) //nolint:errcheck // console output
	}
	edition.Fprintf(w, "          [ WAYBACK MACHINE / CHRONOS EDITION %s ]\n\n", getVersion()) //nolint:errcheck // console output
}

// printCompletion writes the completion line to w.
func printCompletion(w io.Writer, noColor bool) {
	done := color.New(color.FgGreen, color.Bold)
	if noColor {
		done.DisableColor()
	}
	fmt.Fprintln(w)
	done.Fprintln(w, completionLine) //nolint:errcheck // console output
}

// checkPrivilege warns when the effective user is not root. The check is
// advisory and skipped on platforms without user IDs, where geteuid
// returns -1.
func checkPrivilege(r log.Reporter, geteuid func() int) {
	switch geteuid() {
	case -1, 0:
		return
	default:
		r.Warn(privilegeWarning)
	}
}
