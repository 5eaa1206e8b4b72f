package ocr

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
)

// wordLevel is the TSV "level" value of word rows.
const wordLevel = 5

// tsvColumns are the column names tesseract writes in its TSV header.
var tsvColumns = []string{"level", "left", "top", "width", "height", "conf", "text"}

// ParseTSV reads tesseract TSV output and returns one Token per word row.
//
// Rows of other levels (page, block, paragraph, line) are skipped. The
// confidence column is parsed as a number and truncated toward zero;
// negative or unparsable values become -1. Text is kept as written.
func ParseTSV(r io.Reader) ([]Token, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	if !scanner.Scan() {
		if err := scanner.Err(); err != nil {
			return nil, fmt.Errorf("failed to read tsv: %w", err)
		}
		return []Token{}, nil
	}

	index, err := tsvHeader(scanner.Text())
	if err != nil {
		return nil, err
	}

	tokens := []Token{}
	for line := 2; scanner.Scan(); line++ {
		raw := strings.TrimRight(scanner.Text(), "\r")
		if raw == "" {
			continue
		}
		fields := strings.Split(raw, "\t")
		field := func(name string) string {
			if i := index[name]; i < len(fields) {
				return fields[i]
			}
			return ""
		}

		level, err := strconv.Atoi(field("level"))
		if err != nil {
			return nil, fmt.Errorf("tsv line %d: invalid level %q", line, field("level"))
		}
		if level != wordLevel {
			continue
		}

		var box [4]int
		for i, name := range []string{"left", "top", "width", "height"} {
			v, err := strconv.Atoi(field(name))
			if err != nil {
				return nil, fmt.Errorf("tsv line %d: invalid %s %q", line, name, field(name))
			}
			box[i] = v
		}

		tokens = append(tokens, Token{
			Text:       field("text"),
			Confidence: parseConfidence(field("conf")),
			Box:        Box{X: box[0], Y: box[1], Width: box[2], Height: box[3]},
		})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read tsv: %w", err)
	}
	return tokens, nil
}

func tsvHeader(line string) (map[string]int, error) {
	index := make(map[string]int)
	for i, name := range strings.Split(strings.TrimRight(line, "\r"), "\t") {
		index[strings.TrimSpace(name)] = i
	}
	for _, name := range tsvColumns {
		if _, ok := index[name]; !ok {
			return nil, fmt.Errorf("tsv header missing column %q", name)
		}
	}
	return index, nil
}

func parseConfidence(s string) int {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(v) || v < 0 {
		return -1
	}
	if v > 100 {
		return 100
	}
	return int(v)
}
