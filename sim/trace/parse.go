package trace

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// linePatterns maps the fixed words of each timeline line to its kind.
// Every line is "<Role> <thread> <words...> <table>".
var linePatterns = []struct {
	role  string
	words string
	kind  Kind
}{
	{"Reader", "started reading", KindReadStart},
	{"Reader", "finished reading", KindReadEnd},
	{"Writer", "is waiting to write to", KindWriteWait},
	{"Writer", "started writing to", KindWriteStart},
	{"Writer", "finished writing to", KindWriteEnd},
}

// ParseMessage parses one timeline line produced by Record.Message.
func ParseMessage(line string) (Record, error) {
	fields := strings.Fields(line)
	if len(fields) < 4 {
		return Record{}, fmt.Errorf("unrecognized log line %q", line)
	}
	thread, err := strconv.Atoi(fields[1])
	if err != nil {
		return Record{}, fmt.Errorf("unrecognized thread id in log line %q", line)
	}
	words := strings.Join(fields[2:len(fields)-1], " ")
	for _, p := range linePatterns {
		if fields[0] == p.role && words == p.words {
			return Record{Kind: p.kind, Thread: thread, Table: fields[len(fields)-1]}, nil
		}
	}
	return Record{}, fmt.Errorf("unrecognized log line %q", line)
}

// ReadLog parses a whole timeline log. Blank lines are skipped; Seq is the
// position among parsed records.
func ReadLog(r io.Reader) ([]Record, error) {
	scanner := bufio.NewScanner(r)
	records := make([]Record, 0)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		rec, err := ParseMessage(line)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNo, err)
		}
		rec.Seq = int64(len(records))
		records = append(records, rec)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading log: %w", err)
	}
	return records, nil
}
