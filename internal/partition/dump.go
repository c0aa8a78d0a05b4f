package partition

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"time"
)

// Outcome is the final status of a single partition dump.
type Outcome string

const (
	OutcomePending     Outcome = "pending"
	OutcomeDone        Outcome = "done"
	OutcomeFailed      Outcome = "failed"
	OutcomeInvalidName Outcome = "invalid_name"
)

// Result records the outcome of one attempted partition dump. Err is set for
// failed and invalid outcomes; SizeBytes is the local file size on success.
type Result struct {
	Label     string
	DestPath  string
	Outcome   Outcome
	SizeBytes int64
	Duration  time.Duration
	Err       error
}

// Streamer runs a remote command and streams its raw stdout to w.
type Streamer interface {
	ExecOutTo(w io.Writer, args ...string) error
}

// safeLabel is the allow-list for partition labels. Anything outside it never
// reaches command construction.
var safeLabel = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

// ValidLabel reports whether a partition label is safe to dump.
func ValidLabel(label string) bool {
	return safeLabel.MatchString(label)
}

// Dump copies one partition's raw block contents to destPath. The remote read
// goes through dd on /dev/block/by-name/<label> in 4096-byte blocks; the
// local file is written by this process, so no host shell is involved.
// The result is Done only if the local file exists with non-zero size after
// the command returns. Partial files from failed dumps are removed.
func Dump(br Streamer, label, destPath string) Result {
	res := Result{Label: label, DestPath: destPath, Outcome: OutcomePending}

	if !ValidLabel(label) {
		res.Outcome = OutcomeInvalidName
		res.Err = fmt.Errorf("unsafe partition label %q", label)
		return res
	}

	start := time.Now()
	err := dumpTo(br, label, destPath)
	res.Duration = time.Since(start)

	if err == nil {
		if st, statErr := os.Stat(destPath); statErr == nil && st.Size() > 0 {
			res.Outcome = OutcomeDone
			res.SizeBytes = st.Size()
			return res
		}
		err = fmt.Errorf("dump of %s produced an empty file", label)
	}

	// Anything not marked done is untrustworthy.
	os.Remove(destPath)
	res.Outcome = OutcomeFailed
	res.Err = err
	return res
}

func dumpTo(br Streamer, label, destPath string) error {
	f, err := os.Create(destPath)
	if err != nil {
		return fmt.Errorf("create %s: %w", destPath, err)
	}
	err = br.ExecOutTo(f, "dd", "if=/dev/block/by-name/"+label, "bs=4096", "status=none")
	if closeErr := f.Close(); err == nil {
		err = closeErr
	}
	return err
}

// DumpAll dumps the given partitions one at a time into destDir, naming each
// file <label>.img. Repeated labels in one batch (several unnamed partitions
// all fall back to "unknown") get numbered files so they do not overwrite
// each other. The directory is created up front; failure to do so aborts the
// batch before any partition is attempted. Per-partition failures do not stop
// the batch. progress, if non-nil, is called with each label before its dump
// starts.
func DumpAll(br Streamer, labels []string, destDir string, progress func(label string)) ([]Result, error) {
	if err := os.MkdirAll(destDir, 0755); err != nil {
		return nil, fmt.Errorf("output directory unavailable: %w", err)
	}

	seen := make(map[string]int)
	results := make([]Result, 0, len(labels))
	for _, label := range labels {
		if progress != nil {
			progress(label)
		}
		seen[label]++
		name := label + ".img"
		if n := seen[label]; n > 1 {
			name = fmt.Sprintf("%s_%d.img", label, n)
		}
		dest := filepath.Join(destDir, name)
		if !ValidLabel(label) {
			// Keep the unsafe label out of the path as well.
			dest = ""
		}
		results = append(results, Dump(br, label, dest))
	}
	return results, nil
}
