package batch

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/MeKo-Tech/dmscan/internal/scan"
)

// RotatedHit is a file that was decoded only after rotating it.
type RotatedHit struct {
	File  string `json:"file"`
	Text  string `json:"text"`
	Angle int    `json:"angle"`
}

// Summary aggregates a batch run.
type Summary struct {
	Total    int           `json:"total"`
	Found    int           `json:"found"`
	NotFound int           `json:"not_found"`
	Failed   []string      `json:"failed,omitempty"`
	Rotated  []RotatedHit  `json:"rotated,omitempty"`
	Duration time.Duration `json:"duration_ns"`
}

func (s *Summary) add(name string, r scan.Result) {
	if !r.Found {
		s.NotFound++
		return
	}
	s.Found++
	if r.Rotated {
		s.Rotated = append(s.Rotated, RotatedHit{File: name, Text: r.Text, Angle: r.Angle})
	}
}

// SuccessRate is the share of loaded images that were decoded, in percent.
func (s *Summary) SuccessRate() float64 {
	n := s.Found + s.NotFound
	if n == 0 {
		return 0
	}
	return 100 * float64(s.Found) / float64(n)
}

// Format renders the summary as "text" (default) or "json".
func (s *Summary) Format(format string) (string, error) {
	switch format {
	case "json":
		return s.formatJSON()
	case "text", "":
		return s.formatText(), nil
	default:
		return "", fmt.Errorf("unsupported summary format %q", format)
	}
}

func (s *Summary) formatJSON() (string, error) {
	out := struct {
		*Summary
		SuccessRate float64 `json:"success_rate"`
	}{s, s.SuccessRate()}
	bts, err := json.MarshalIndent(out, "", "  ")
	return string(bts), err
}

func (s *Summary) formatText() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Read: %d | Unread: %d | Unloadable: %d | Success rate: %.1f%%\n",
		s.Found, s.NotFound, len(s.Failed), s.SuccessRate())
	if len(s.Rotated) == 0 {
		b.WriteString("No image needed rotation.\n")
		return b.String()
	}
	b.WriteString("Read via rotation:\n")
	for _, r := range s.Rotated {
		fmt.Fprintf(&b, "%s | %s | %d°\n", r.File, r.Text, r.Angle)
	}
	return b.String()
}
