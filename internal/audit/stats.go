package audit

import (
	"bufio"
	"encoding/json"
	"os"
	"strings"
)

// Stats is an on-demand aggregation over the durable event log.
type Stats struct {
	TotalEvents    int            `json:"total_events"`
	BlockedInputs  int            `json:"blocked_inputs"`
	BlockedOutputs int            `json:"blocked_outputs"`
	Warnings       int            `json:"warnings"`
	ByRule         map[string]int `json:"by_rule"`
}

func newStats() Stats {
	return Stats{ByRule: map[string]int{}}
}

func (s *Stats) add(eventType, rule string) {
	s.addN(eventType, rule, 1)
}

func (s *Stats) addN(eventType, rule string, n int) {
	s.TotalEvents += n
	switch {
	case eventType == EventInputBlocked:
		s.BlockedInputs += n
	case eventType == EventOutputBlocked:
		s.BlockedOutputs += n
	case strings.Contains(eventType, "WARNING"):
		s.Warnings += n
	}
	// Per-rule breakdown covers triggered decisions only — PASSED events all
	// carry the same catch-all rule and would drown the signal.
	if !strings.Contains(eventType, "PASSED") && rule != "" {
		s.ByRule[rule] += n
	}
}

// FileStats scans a JSONL event log and computes aggregate statistics.
// A missing or unreadable log yields zero stats rather than an error — the
// audit trail is best-effort relative to the decisions it records.
func FileStats(path string) Stats {
	stats := newStats()

	f, err := os.Open(path)
	if err != nil {
		return stats
	}
	defer f.Close() //nolint:errcheck

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var event Event
		if err := json.Unmarshal(line, &event); err != nil {
			// Tolerate malformed or future-format lines.
			continue
		}
		stats.add(event.EventType, event.Rule)
	}

	return stats
}
