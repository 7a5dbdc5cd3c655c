package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/torosent/webvitals"
	"github.com/torosent/webvitals/internal/lifecycle"
)

// errScriptClosed is returned when a script ends the session with "close".
var errScriptClosed = errors.New("session closed by script")

// scriptHost drives a session from a line-oriented script. Each line is one
// command; blank lines and lines starting with '#' are skipped.
type scriptHost struct {
	wv     *webvitals.WebVitals
	out    io.Writer
	format string
}

func (h *scriptHost) run(ctx context.Context, r io.Reader) error {
	scanner := bufio.NewScanner(r)
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		if err := h.exec(ctx, strings.Fields(text)); err != nil {
			if errors.Is(err, errScriptClosed) {
				return err
			}
			return fmt.Errorf("script line %d: %w", line, err)
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
	}
	return scanner.Err()
}

func (h *scriptHost) exec(ctx context.Context, fields []string) error {
	page := h.wv.Page()
	cmd, args := strings.ToLower(fields[0]), fields[1:]

	switch cmd {
	case "load":
		page.Loaded()
	case "hide":
		page.Hide()
	case "show":
		page.Show()
	case "frame":
		n := 1
		if len(args) > 0 {
			v, err := strconv.Atoi(args[0])
			if err != nil || v < 0 {
				return fmt.Errorf("frame: invalid count %q", args[0])
			}
			n = v
		}
		for i := 0; i < n; i++ {
			page.Frame()
		}
	case "start", "end", "clear", "event":
		if len(args) != 1 {
			return fmt.Errorf("%s: expected a name", cmd)
		}
		switch cmd {
		case "start":
			h.wv.SetStartMark(args[0])
		case "end":
			h.wv.SetEndMark(args[0])
		case "clear":
			h.wv.ClearMark(args[0])
		case "event":
			page.Events.Dispatch(args[0])
		}
	case "paint":
		h.wv.CustomCompletedPaint()
	case "entry":
		entry, err := parseEntry(args)
		if err != nil {
			return err
		}
		page.Timeline.Record(entry)
	case "flush":
		h.wv.Flush()
	case "print":
		return printValues(h.out, h.wv.GetCurrentMetrics(), h.format)
	case "sleep":
		if len(args) != 1 {
			return errors.New("sleep: expected a duration")
		}
		d, err := time.ParseDuration(args[0])
		if err != nil {
			return fmt.Errorf("sleep: %w", err)
		}
		timer := time.NewTimer(d)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timer.C:
		}
	case "close":
		return errScriptClosed
	default:
		return fmt.Errorf("unknown command %q", cmd)
	}
	return nil
}

// parseEntry reads "entry <type> key=value ...".
func parseEntry(args []string) (lifecycle.Entry, error) {
	if len(args) == 0 {
		return lifecycle.Entry{}, errors.New("entry: expected a type")
	}
	entry := lifecycle.Entry{Type: args[0]}
	switch entry.Type {
	case lifecycle.EntryPaint, lifecycle.EntryLargestPaint, lifecycle.EntryFirstInput,
		lifecycle.EntryLayoutShift, lifecycle.EntryResource:
	default:
		return lifecycle.Entry{}, fmt.Errorf("entry: unknown type %q", entry.Type)
	}

	for _, kv := range args[1:] {
		key, raw, ok := strings.Cut(kv, "=")
		if !ok {
			return lifecycle.Entry{}, fmt.Errorf("entry: expected key=value, got %q", kv)
		}
		if key == "name" {
			entry.Name = raw
			continue
		}
		if key == "input" {
			v, err := strconv.ParseBool(raw)
			if err != nil {
				return lifecycle.Entry{}, fmt.Errorf("entry: input: %w", err)
			}
			entry.HadRecentInput = v
			continue
		}

		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return lifecycle.Entry{}, fmt.Errorf("entry: %s: %w", key, err)
		}
		switch key {
		case "start":
			entry.StartTime = v
		case "duration":
			entry.Duration = v
		case "processing":
			entry.ProcessingStart = v
		case "value":
			entry.Value = v
		case "size":
			entry.Size = v
		case "transfer":
			entry.TransferSize = v
		default:
			return lifecycle.Entry{}, fmt.Errorf("entry: unknown field %q", key)
		}
	}
	return entry, nil
}
