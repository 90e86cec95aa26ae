package ui

import (
	"os/exec"
	"runtime"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"
)

func openURLCmd(url string, openFn, copyFn func(string) error) tea.Cmd {
	return func() tea.Msg {
		if openFn != nil {
			if err := openFn(url); err == nil {
				return flashMsg("Opened in browser.")
			}
		}
		if copyFn != nil {
			if err := copyFn(url); err == nil {
				return flashMsg("Could not open a browser; URL copied to clipboard.")
			}
		}
		return flashMsg("Could not open URL.")
	}
}

func copyURLCmd(url string, copyFn func(string) error) tea.Cmd {
	return func() tea.Msg {
		if copyFn != nil {
			if err := copyFn(url); err == nil {
				return flashMsg("URL copied to clipboard.")
			}
		}
		return flashMsg("Could not copy URL to clipboard.")
	}
}

// openInBrowser starts the platform URL handler without waiting for it.
func openInBrowser(url string) error {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url)
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url)
	default:
		cmd = exec.Command("xdg-open", url)
	}
	if err := cmd.Start(); err != nil {
		return err
	}
	go func() { _ = cmd.Wait() }()
	return nil
}

func copyToClipboard(text string) error {
	return clipboard.WriteAll(text)
}
