package report

import (
	"fmt"
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// diffContext is the number of unchanged lines shown around each change.
const diffContext = 3

type diffLine struct {
	op   diffmatchpatch.Operation
	text string
}

// Diff renders the change from before to after as a unified diff with file
// headers. It returns the empty string when nothing changed.
func Diff(path string, before, after []byte) string {
	if string(before) == string(after) {
		return ""
	}

	lines := lineDiff(before, after)
	var builder strings.Builder
	if path != "" {
		builder.WriteString(fmt.Sprintf("--- %s\n", path))
		builder.WriteString(fmt.Sprintf("+++ %s\n", path))
	}
	writeHunks(&builder, lines)
	return builder.String()
}

// DiffStat counts the lines added and removed between before and after.
func DiffStat(before, after []byte) (additions, deletions int) {
	for _, line := range lineDiff(before, after) {
		switch line.op {
		case diffmatchpatch.DiffInsert:
			additions++
		case diffmatchpatch.DiffDelete:
			deletions++
		}
	}
	return additions, deletions
}

// lineDiff diffs before and after line by line.
func lineDiff(before, after []byte) []diffLine {
	dmp := diffmatchpatch.New()
	a, b, lineArray := dmp.DiffLinesToChars(string(before), string(after))
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(a, b, false), lineArray)

	var lines []diffLine
	for _, d := range diffs {
		for _, text := range strings.SplitAfter(d.Text, "\n") {
			if text != "" {
				lines = append(lines, diffLine{op: d.Type, text: text})
			}
		}
	}
	return lines
}

// writeHunks writes lines as unified hunks, merging changes whose context
// overlaps.
func writeHunks(b *strings.Builder, lines []diffLine) {
	// oldAt[i] and newAt[i] count the lines of each side before lines[i].
	oldAt := make([]int, len(lines)+1)
	newAt := make([]int, len(lines)+1)
	for i, line := range lines {
		oldAt[i+1], newAt[i+1] = oldAt[i], newAt[i]
		if line.op != diffmatchpatch.DiffInsert {
			oldAt[i+1]++
		}
		if line.op != diffmatchpatch.DiffDelete {
			newAt[i+1]++
		}
	}

	for i := 0; i < len(lines); {
		if lines[i].op == diffmatchpatch.DiffEqual {
			i++
			continue
		}
		start := max(0, i-diffContext)
		last := i
		for j := i + 1; j < len(lines) && j <= last+2*diffContext; j++ {
			if lines[j].op != diffmatchpatch.DiffEqual {
				last = j
			}
		}
		end := min(len(lines), last+diffContext+1)

		fmt.Fprintf(b, "@@ -%s +%s @@\n",
			hunkRange(oldAt[start], oldAt[end]-oldAt[start]),
			hunkRange(newAt[start], newAt[end]-newAt[start]))
		for _, line := range lines[start:end] {
			switch line.op {
			case diffmatchpatch.DiffInsert:
				b.WriteByte('+')
			case diffmatchpatch.DiffDelete:
				b.WriteByte('-')
			default:
				b.WriteByte(' ')
			}
			b.WriteString(line.text)
			if !strings.HasSuffix(line.text, "\n") {
				b.WriteString("\n\\ No newline at end of file\n")
			}
		}
		i = end
	}
}

// hunkRange formats a hunk side. before is the number of lines preceding it.
func hunkRange(before, count int) string {
	if count == 0 {
		return fmt.Sprintf("%d,0", before)
	}
	if count == 1 {
		return fmt.Sprintf("%d", before+1)
	}
	return fmt.Sprintf("%d,%d", before+1, count)
}
