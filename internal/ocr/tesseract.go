package ocr

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"image"
	"image/png"
	"io"
	"os/exec"
	"strconv"
	"strings"

	"github.com/example/snapmark/internal/action"
	"github.com/example/snapmark/internal/geom"
)

var (
	lookPath    = exec.LookPath
	execCommand = exec.CommandContext
)

// Tesseract runs the tesseract CLI and parses its TSV output.
type Tesseract struct {
	Command  string
	Language string
}

// NewTesseract returns a recognizer for command, defaulting to "tesseract"
// and English.
func NewTesseract(command, language string) *Tesseract {
	if command == "" {
		command = "tesseract"
	}
	if language == "" {
		language = "eng"
	}
	return &Tesseract{Command: command, Language: language}
}

// Available reports whether the command can be found.
func (t *Tesseract) Available() bool {
	_, err := lookPath(t.Command)
	return err == nil
}

// Recognize feeds img to tesseract on stdin.
func (t *Tesseract) Recognize(ctx context.Context, img image.Image) (string, []action.TextBlock, error) {
	if img == nil || img.Bounds().Empty() {
		return "", nil, nil
	}
	var in bytes.Buffer
	if err := png.Encode(&in, img); err != nil {
		return "", nil, fmt.Errorf("encode image: %w", err)
	}
	var out, stderr bytes.Buffer
	cmd := execCommand(ctx, t.Command, "stdin", "stdout", "-l", t.Language, "tsv")
	cmd.Stdin = &in
	cmd.Stdout = &out
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return "", nil, ctx.Err()
		}
		msg := strings.TrimSpace(stderr.String())
		if msg != "" {
			return "", nil, fmt.Errorf("%s: %w: %s", t.Command, err, msg)
		}
		return "", nil, fmt.Errorf("%s: %w", t.Command, err)
	}
	blocks, err := ParseTSV(&out)
	if err != nil {
		return "", nil, err
	}
	return JoinBlocks(blocks), blocks, nil
}

type lineKey struct{ block, par, line int }

// ParseTSV groups the word rows of tesseract TSV output into lines. A line's
// confidence is the mean of its word confidences.
func ParseTSV(r io.Reader) ([]action.TextBlock, error) {
	scanner := bufio.NewScanner(r)
	var (
		blocks []action.TextBlock
		words  []int
		index  = map[lineKey]int{}
		header = true
	)
	for scanner.Scan() {
		if header {
			header = false
			if strings.HasPrefix(scanner.Text(), "level") {
				continue
			}
		}
		cols := strings.SplitN(scanner.Text(), "\t", 12)
		if len(cols) < 12 || cols[0] != "5" {
			continue
		}
		text := strings.TrimSpace(cols[11])
		if text == "" {
			continue
		}
		n, err := atoiAll(cols[2:10])
		if err != nil {
			return nil, fmt.Errorf("parse tsv: %w", err)
		}
		conf, err := strconv.ParseFloat(cols[10], 64)
		if err != nil {
			return nil, fmt.Errorf("parse tsv confidence: %w", err)
		}
		rect := geom.R(n[4], n[5], n[4]+n[6], n[5]+n[7])
		key := lineKey{n[0], n[1], n[2]}
		i, ok := index[key]
		if !ok {
			index[key] = len(blocks)
			blocks = append(blocks, action.TextBlock{Text: text, Rect: rect, Confidence: conf})
			words = append(words, 1)
			continue
		}
		b := &blocks[i]
		b.Text += " " + text
		b.Rect = b.Rect.Union(rect)
		b.Confidence = (b.Confidence*float64(words[i]) + conf) / float64(words[i]+1)
		words[i]++
	}
	return blocks, scanner.Err()
}

func atoiAll(cols []string) ([]int, error) {
	out := make([]int, len(cols))
	for i, c := range cols {
		v, err := strconv.Atoi(c)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

// JoinBlocks returns the text of blocks one line each.
func JoinBlocks(blocks []action.TextBlock) string {
	lines := make([]string, len(blocks))
	for i, b := range blocks {
		lines[i] = b.Text
	}
	return strings.Join(lines, "\n")
}
