// Package source collects the local inputs of the widgets: media player
// metadata, system usage figures and image normalisation.
package source

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"
	"unicode/utf8"
)

// ErrNotPlaying is returned when the player is absent, stopped or reports
// incomplete metadata.
var ErrNotPlaying = errors.New("source: player not playing")

// metadataFormat is the playerctl template; fields are split on "||".
const metadataFormat = "{{status}}||{{mpris:artUrl}}||{{title}}||{{artist}}"

const playerTimeout = 3 * time.Second

// Track is the now-playing metadata.
type Track struct {
	Status string
	ArtURL string
	Title  string
	Artist string
}

// Runner executes a command and returns its standard output.
type Runner func(ctx context.Context, name string, args ...string) ([]byte, error)

// ExecRunner runs commands with os/exec.
func ExecRunner(ctx context.Context, name string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, name, args...).Output()
}

// Player reads MPRIS metadata through playerctl.
type Player struct {
	Name string
	Run  Runner
}

// NewPlayer returns a Player for the named MPRIS player.
func NewPlayer(name string) *Player {
	return &Player{Name: name, Run: ExecRunner}
}

// Current returns the track of a playing or paused player.
func (p *Player) Current(ctx context.Context) (Track, error) {
	ctx, cancel := context.WithTimeout(ctx, playerTimeout)
	defer cancel()

	out, err := p.Run(ctx, "playerctl", "-p", p.Name, "metadata", "--format", metadataFormat)
	if err != nil {
		return Track{}, fmt.Errorf("%w: playerctl: %v", ErrNotPlaying, err)
	}
	return ParseMetadata(string(out))
}

// ParseMetadata parses one line of playerctl output in metadataFormat.
func ParseMetadata(out string) (Track, error) {
	fields := strings.Split(strings.TrimSpace(out), "||")
	if len(fields) < 4 {
		return Track{}, fmt.Errorf("%w: %d metadata fields", ErrNotPlaying, len(fields))
	}
	t := Track{Status: fields[0], ArtURL: fields[1], Title: fields[2], Artist: fields[3]}
	switch strings.ToLower(t.Status) {
	case "playing", "paused":
		return t, nil
	default:
		return Track{}, fmt.Errorf("%w: status %q", ErrNotPlaying, t.Status)
	}
}

// Truncate cuts s to max runes, trims trailing space and appends "...".
// Strings that fit are returned unchanged.
func Truncate(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	r := []rune(s)
	return strings.TrimSpace(string(r[:max])) + "..."
}
