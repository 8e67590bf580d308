package workload

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"unicode"

	"github.com/inference-sim/table-sim/sim"
)

// ErrMalformedActivity marks a workload line with the wrong field count or types.
// It always wraps sim.ErrConfig as well.
var ErrMalformedActivity = fmt.Errorf("%w: malformed activity", sim.ErrConfig)

// activityFields is the number of whitespace-separated fields before the payload.
const activityFields = 5

// LoadActivities reads and parses a workload file.
func LoadActivities(path string) ([]sim.Activity, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: opening activity file: %v", sim.ErrResource, err)
	}
	defer func() { _ = file.Close() }()
	return ParseActivities(file)
}

// ParseActivities parses one activity per line:
//
//	<offset> <thread_id> <table_id> <read|write> <duration> <payload...>
//
// The payload is the rest of the line after the fifth field and must be
// non-empty even for reads. Blank lines and lines starting with '#' are
// skipped. The first malformed line aborts parsing.
func ParseActivities(r io.Reader) ([]sim.Activity, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	activities := make([]sim.Activity, 0)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		a, err := ParseActivity(line)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNo, err)
		}
		a.Line = lineNo
		activities = append(activities, a)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("%w: reading activity file: %v", sim.ErrResource, err)
	}
	return activities, nil
}

// ParseActivity parses a single workload line. Range checks against thread
// and table counts are left to sim.Activity.Validate.
func ParseActivity(line string) (sim.Activity, error) {
	fields, payload := splitFields(line, activityFields)
	if len(fields) < activityFields {
		return sim.Activity{}, fmt.Errorf("%w: expected %d fields and a payload, got %d fields", ErrMalformedActivity, activityFields, len(fields))
	}
	if payload == "" {
		return sim.Activity{}, fmt.Errorf("%w: missing payload", ErrMalformedActivity)
	}

	var a sim.Activity
	var err error
	if a.Offset, err = parseNonNegative("offset", fields[0]); err != nil {
		return sim.Activity{}, err
	}
	if a.ThreadID, err = parseInt("thread id", fields[1]); err != nil {
		return sim.Activity{}, err
	}
	if a.TableID, err = parseInt("table id", fields[2]); err != nil {
		return sim.Activity{}, err
	}
	if !sim.IsValidOpKind(fields[3]) {
		return sim.Activity{}, fmt.Errorf("%w: unknown operation %q; valid: read, write", ErrMalformedActivity, fields[3])
	}
	a.Kind = sim.OpKind(fields[3])
	if a.Duration, err = parseNonNegative("duration", fields[4]); err != nil {
		return sim.Activity{}, err
	}
	a.Payload = payload
	return a, nil
}

// splitFields returns up to n leading whitespace-separated fields and the
// remainder of the line with its leading whitespace removed.
func splitFields(line string, n int) ([]string, string) {
	fields := make([]string, 0, n)
	rest := line
	for len(fields) < n {
		rest = strings.TrimLeftFunc(rest, unicode.IsSpace)
		if rest == "" {
			break
		}
		end := strings.IndexFunc(rest, unicode.IsSpace)
		if end < 0 {
			fields = append(fields, rest)
			rest = ""
			break
		}
		fields = append(fields, rest[:end])
		rest = rest[end:]
	}
	return fields, strings.TrimLeftFunc(rest, unicode.IsSpace)
}

func parseInt(name, s string) (int, error) {
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%w: %s %q is not an integer", ErrMalformedActivity, name, s)
	}
	return v, nil
}

func parseNonNegative(name, s string) (int64, error) {
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %s %q is not an integer", ErrMalformedActivity, name, s)
	}
	if v < 0 {
		return 0, fmt.Errorf("%w: %s must be non-negative, got %d", ErrMalformedActivity, name, v)
	}
	return v, nil
}

// FormatActivity renders an activity as one workload line.
func FormatActivity(a sim.Activity) string {
	return fmt.Sprintf("%d %d %d %s %d %s", a.Offset, a.ThreadID, a.TableID, a.Kind, a.Duration, a.Payload)
}

// WriteActivities writes activities in workload format, one per line.
func WriteActivities(w io.Writer, activities []sim.Activity) error {
	bw := bufio.NewWriter(w)
	for _, a := range activities {
		if strings.ContainsAny(a.Payload, "\r\n") || strings.TrimSpace(a.Payload) != a.Payload || a.Payload == "" {
			return fmt.Errorf("activity payload %q cannot be written on one line", a.Payload)
		}
		if _, err := fmt.Fprintln(bw, FormatActivity(a)); err != nil {
			return fmt.Errorf("writing activity: %w", err)
		}
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("flushing activities: %w", err)
	}
	return nil
}
