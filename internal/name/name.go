// Package name generates collision-resistant database names from a
// placeholder template plus per-process runtime values.
package name

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
)

// MaxLength is the longest identifier accepted by the supported server
// catalogs (PostgreSQL truncates at 63 bytes, MySQL rejects above 64).
const MaxLength = 63

// ErrTooLong is returned when a generated name exceeds MaxLength and the
// template has no more placeholders that can be stripped.
var ErrTooLong = errors.New("generated database name too long")

// Placeholders recognized in name templates:
//
//	%H  hostname
//	%P  process id
//	%T  process start time (unix seconds)
//	%U  numeric user id
//	%X  executable basename
//	%R  per-process random component (8 hex chars)
//	%i  retry index, empty at 0, "_<n>" otherwise
//
// shortenOrder lists the placeholders stripped, in order, when a generated
// name overflows MaxLength. Most volatile and longest first.
var shortenOrder = []string{"%T", "%H", "%X"}

var nonWord = regexp.MustCompile(`[^a-zA-Z0-9_]`)

// Info carries the runtime values substituted into a template. Capturing it
// as a value makes generation deterministic and testable.
type Info struct {
	Hostname   string
	PID        int
	StartTime  int64
	UID        int
	Executable string
	Random     string
}

var hostInfo = func() Info {
	hostname, err := os.Hostname()
	if err != nil {
		hostname = "localhost"
	}
	return Info{
		Hostname:   hostname,
		PID:        os.Getpid(),
		StartTime:  time.Now().Unix(),
		UID:        os.Getuid(),
		Executable: filepath.Base(os.Args[0]),
		Random:     uuid.NewString()[:8],
	}
}()

// HostInfo returns the process-wide Info snapshot taken at startup.
// The snapshot is stable for the process lifetime so that names generated
// for the same template and retry index are reproducible, which the
// sibling-sweep cleanup depends on.
func HostInfo() Info {
	return hostInfo
}

// Generate expands template with info and the given retry index into a
// normalized, backend-safe identifier.
//
// Expansion is followed by stripping leading path separators, replacing
// every non-word character with an underscore, and lowercasing. If the
// result exceeds MaxLength the template is shortened by removing the first
// present placeholder from shortenOrder and generation recurses. A template
// that cannot be shortened below the ceiling is a configuration error, not
// a retry condition.
func Generate(template string, info Info, retry int) (string, error) {
	s := normalize(template, info, retry)
	if s == "" {
		return "", fmt.Errorf("template %q produced an empty name", template)
	}

	if len(s) > MaxLength {
		for _, ph := range shortenOrder {
			if !strings.Contains(template, ph) {
				continue
			}
			shorter := strings.Replace(template, "_"+ph, "", 1)
			if shorter == template {
				shorter = strings.Replace(template, ph, "", 1)
			}
			return Generate(shorter, info, retry)
		}
		return "", fmt.Errorf("name %q is %d characters, limit is %d: %w", s, len(s), MaxLength, ErrTooLong)
	}

	return s, nil
}

// GenerateAny is Generate without the length policy, for callers that
// explicitly opted into keeping over-long names.
func GenerateAny(template string, info Info, retry int) string {
	return normalize(template, info, retry)
}

func normalize(template string, info Info, retry int) string {
	s := expand(template, info, retry)
	s = strings.TrimLeft(s, "/\\")
	s = nonWord.ReplaceAllString(s, "_")
	return strings.ToLower(s)
}

func expand(template string, info Info, retry int) string {
	suffix := ""
	if retry > 0 {
		suffix = fmt.Sprintf("_%d", retry)
	}
	r := strings.NewReplacer(
		"%H", info.Hostname,
		"%P", fmt.Sprintf("%d", info.PID),
		"%T", fmt.Sprintf("%d", info.StartTime),
		"%U", fmt.Sprintf("%d", info.UID),
		"%X", info.Executable,
		"%R", info.Random,
		"%i", suffix,
	)
	return r.Replace(template)
}

// FilePath resolves a generated name to the absolute on-disk location used
// by the file-backed backend.
func FilePath(dir, dbName string) string {
	if dir == "" {
		dir = os.TempDir()
	}
	return filepath.Join(dir, dbName+".sqlite")
}
