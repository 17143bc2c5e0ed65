package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/tocmark/tocmark/internal/cpdf"
	"github.com/tocmark/tocmark/internal/tui"
)

func main() {
	source := flag.String("source", "", "PDF to edit; when empty a file picker opens")
	offset := flag.Int("offset", 0, "initial page offset (physical page minus TOC page)")
	binary := flag.String("cpdf", cpdf.DefaultBinary, "name or path of the cpdf binary")
	noAltScreen := flag.Bool("no-alt-screen", false, "disable the alternate screen buffer")
	flag.Parse()

	tool, err := cpdf.Find(*binary)
	if err != nil {
		fmt.Println("toolkit disabled:", err)
	}

	sourcePath := ""
	if *source != "" {
		sourcePath, err = filepath.Abs(*source)
		if err != nil {
			fmt.Println("failed to resolve source path:", err)
			os.Exit(1)
		}
		if _, err := os.Stat(sourcePath); err != nil {
			fmt.Println("cannot open source PDF:", err)
			os.Exit(1)
		}
	}

	startDir, err := os.Getwd()
	if err != nil {
		startDir = "."
	}

	opts := []tea.ProgramOption{}
	if !*noAltScreen {
		opts = append(opts, tea.WithAltScreen())
	}
	program := tea.NewProgram(
		tui.New(tui.Config{
			Tool:     tool,
			Source:   sourcePath,
			Offset:   *offset,
			StartDir: startDir,
		}),
		opts...,
	)

	if _, err := program.Run(); err != nil {
		fmt.Println("program error:", err)
		os.Exit(1)
	}
}
