// Command plldriftd runs the probability-driven PLL synthesizer engine
// against a live audio output and MIDI input, with a small terminal status
// view for the editor-thread parameter surface.
//
// Control flow mirrors the teacher's main.go almost exactly (init MIDI
// driver, start the audio backend, wire a bubbletea program, handle
// SIGINT/SIGTERM for graceful shutdown), generalized to
// internal/engine.Engine in place of the teacher's single Synth.
package main

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	gomidi "gitlab.com/gomidi/midi/v2"
	"golang.org/x/sync/errgroup"

	"plldrift/cmd/plldriftd/editorui"
	"plldrift/internal/config"
	"plldrift/internal/engine"
	"plldrift/internal/rtpin"
)

func main() {
	defer gomidi.CloseDriver()

	if err := rtpin.Raise(); err != nil {
		log.Printf("main: realtime priority hint unavailable: %v", err)
	}

	tuning, err := config.Load(tuningFilePath())
	if err != nil {
		log.Printf("main: tuning file unavailable, using defaults: %v", err)
		tuning = config.Tuning{}.Validate()
	}

	eng := engine.New(1)
	tuning.ApplyToStore(eng.Store)

	mi := newMIDIInput()
	mi.Start()
	defer mi.Stop()

	backend := newAudioBackend(eng, mi)
	if err := backend.Start(); err != nil {
		log.Fatal(err)
	}
	defer backend.Stop()

	var g errgroup.Group
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	g.Go(func() error {
		<-sigChan
		backend.Stop()
		os.Exit(0)
		return nil
	})

	p := tea.NewProgram(editorui.NewModel(eng.Store, eng.Bridge))
	if _, err := p.Run(); err != nil {
		fmt.Printf("Error running program: %v\n", err)
		os.Exit(1)
	}

	_ = g.Wait()
}

func tuningFilePath() string {
	if v := os.Getenv("PLLDRIFT_TUNING"); v != "" {
		return v
	}
	return "plldrift-tuning.cue"
}
