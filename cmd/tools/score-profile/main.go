// cmd/tools/score-profile/main.go
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"credit-score-workers/internal/scoring"
)

type output struct {
	ProfileHash string              `json:"profileHash"`
	Mode        string              `json:"mode"`
	AsOf        string              `json:"asOf"`
	Result      scoring.ScoreResult `json:"result"`
}

func main() {
	file := flag.String("file", "-", "Profile JSON file, or - for stdin. Either a bare profile or {\"profile\": {...}}")
	mode := flag.String("mode", string(scoring.InquirySubstring), "Inquiry matching mode (substring, bucketed)")
	asOf := flag.String("asOf", "", "Reference date YYYY-MM-DD for account ages (default today)")
	flag.Parse()

	if err := run(*file, *mode, *asOf, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "score-profile: %v\n", err)
		os.Exit(1)
	}
}

func run(file, mode, asOf string, w io.Writer) error {
	switch scoring.InquiryMatching(mode) {
	case scoring.InquirySubstring, scoring.InquiryBucketed:
	default:
		return fmt.Errorf("unknown mode %q", mode)
	}

	now := time.Now().UTC()
	if asOf != "" {
		t, err := time.Parse("2006-01-02", asOf)
		if err != nil {
			return fmt.Errorf("invalid -asOf: %w", err)
		}
		now = t
	}

	data, err := readInput(file)
	if err != nil {
		return err
	}

	profile, err := decodeProfile(data)
	if err != nil {
		return err
	}

	engine := scoring.NewEngine(
		scoring.WithClock(func() time.Time { return now }),
		scoring.WithInquiryMatching(scoring.InquiryMatching(mode)),
	)

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(output{
		ProfileHash: profile.Fingerprint(),
		Mode:        mode,
		AsOf:        now.Format("2006-01-02"),
		Result:      engine.Compute(*profile),
	})
}

func readInput(file string) ([]byte, error) {
	if file == "-" {
		return io.ReadAll(os.Stdin)
	}
	data, err := os.ReadFile(file)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", file, err)
	}
	return data, nil
}

// decodeProfile accepts a bare profile or a job-variables style wrapper.
func decodeProfile(data []byte) (*scoring.Profile, error) {
	var wrapper struct {
		Profile *scoring.Profile `json:"profile"`
	}
	if err := json.Unmarshal(data, &wrapper); err != nil {
		return nil, fmt.Errorf("parse profile: %w", err)
	}
	if wrapper.Profile != nil {
		return wrapper.Profile, nil
	}

	var profile scoring.Profile
	if err := json.Unmarshal(data, &profile); err != nil {
		return nil, fmt.Errorf("parse profile: %w", err)
	}
	return &profile, nil
}
