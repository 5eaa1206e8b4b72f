package ocr

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"io/fs"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/ironsheep/ocr-kawaii/internal/imaging"
)

// lookPath resolves the tesseract binary. Tests replace it.
var lookPath = exec.LookPath

// DefaultBinary is the executable looked up on PATH when no path is configured.
const DefaultBinary = "tesseract"

// CLIEngine runs the tesseract command-line program.
//
// Each Recognize call writes the image to a temporary PNG, runs the binary
// twice (plain text, then TSV word data) and removes the file. The engine
// holds no per-call state and is safe for concurrent use.
type CLIEngine struct {
	// Path is the binary name or path. Empty means DefaultBinary.
	Path string

	// Timeout bounds the whole Recognize call. Zero disables it.
	Timeout time.Duration

	// TessdataDir is passed as --tessdata-dir when set.
	TessdataDir string

	// TempDir holds the temporary images. Empty means os.TempDir().
	TempDir string
}

// NewCLIEngine returns a CLIEngine for the given binary and timeout.
func NewCLIEngine(path string, timeout time.Duration) *CLIEngine {
	return &CLIEngine{Path: path, Timeout: timeout}
}

// Name implements Engine.
func (e *CLIEngine) Name() string { return "tesseract-cli" }

// Recognize implements Engine.
func (e *CLIEngine) Recognize(ctx context.Context, img image.Image, req Request) (*Recognition, error) {
	req, err := req.normalize()
	if err != nil {
		return nil, &EngineError{Kind: KindFailed, Op: "request", Err: err}
	}

	bin, err := e.binary()
	if err != nil {
		return nil, err
	}

	if e.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.Timeout)
		defer cancel()
	}

	path, err := e.writeTemp(img)
	if err != nil {
		return nil, &EngineError{Kind: KindFailed, Op: "prepare", Err: err}
	}
	defer os.Remove(path)

	args := e.args(path, req)

	text, err := e.run(ctx, "text", bin, args...)
	if err != nil {
		return nil, err
	}

	rec := &Recognition{Transcript: string(text), Tokens: []Token{}}

	// The transcript is kept when only the word data fails.
	tsv, err := e.run(ctx, "tsv", bin, append(args, "tsv")...)
	if err != nil {
		return rec, err
	}

	tokens, err := ParseTSV(bytes.NewReader(tsv))
	if err != nil {
		return rec, &EngineError{Kind: KindFailed, Op: "tsv", Err: err}
	}
	rec.Tokens = tokens

	return rec, nil
}

// Version runs "tesseract --version" and returns the first line.
func (e *CLIEngine) Version(ctx context.Context) (string, error) {
	bin, err := e.binary()
	if err != nil {
		return "", err
	}
	out, err := e.run(ctx, "version", bin, "--version")
	if err != nil {
		return "", err
	}
	line, _, _ := strings.Cut(strings.TrimSpace(string(out)), "\n")
	return strings.TrimSpace(line), nil
}

// Languages runs "tesseract --list-langs" and returns the installed codes.
func (e *CLIEngine) Languages(ctx context.Context) ([]string, error) {
	bin, err := e.binary()
	if err != nil {
		return nil, err
	}
	args := []string{"--list-langs"}
	if e.TessdataDir != "" {
		args = append(args, "--tessdata-dir", e.TessdataDir)
	}
	out, err := e.run(ctx, "list-langs", bin, args...)
	if err != nil {
		return nil, err
	}

	var langs []string
	scanner := bufio.NewScanner(bytes.NewReader(out))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		// Skip the "List of available languages ..." header.
		if line == "" || strings.Contains(line, " ") {
			continue
		}
		langs = append(langs, line)
	}
	return langs, scanner.Err()
}

func (e *CLIEngine) binary() (string, error) {
	name := e.Path
	if name == "" {
		name = DefaultBinary
	}
	bin, err := lookPath(name)
	if err != nil {
		return "", &EngineError{Kind: KindNotFound, Op: "lookup", Err: fmt.Errorf("%w: %v", ErrEngineNotFound, err)}
	}
	return bin, nil
}

func (e *CLIEngine) args(path string, req Request) []string {
	args := []string{
		path, "stdout",
		"--oem", fmt.Sprint(OEM),
		"--psm", req.PSM.String(),
		"-l", req.Language,
	}
	if e.TessdataDir != "" {
		args = append(args, "--tessdata-dir", e.TessdataDir)
	}
	return args
}

func (e *CLIEngine) writeTemp(img image.Image) (string, error) {
	data, err := imaging.EncodePNG(img)
	if err != nil {
		return "", err
	}

	f, err := os.CreateTemp(e.TempDir, "ocr-kawaii-*.png")
	if err != nil {
		return "", fmt.Errorf("failed to create temp file: %w", err)
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		os.Remove(f.Name())
		return "", fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(f.Name())
		return "", fmt.Errorf("failed to write temp file: %w", err)
	}
	return f.Name(), nil
}

// run executes the binary and classifies failures.
func (e *CLIEngine) run(ctx context.Context, op, bin string, args ...string) ([]byte, error) {
	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, bin, args...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	cmd.WaitDelay = time.Second

	if err := cmd.Run(); err != nil {
		diag := strings.TrimSpace(stderr.String())
		switch {
		case errors.Is(ctx.Err(), context.DeadlineExceeded):
			return nil, &EngineError{Kind: KindTimeout, Op: op, Err: fmt.Errorf("%w: %v", ErrEngineTimeout, ctx.Err()), Stderr: diag}
		case errors.Is(err, exec.ErrNotFound), errors.Is(err, fs.ErrNotExist), errors.Is(err, fs.ErrPermission):
			return nil, &EngineError{Kind: KindNotFound, Op: op, Err: err, Stderr: diag}
		default:
			return nil, &EngineError{Kind: KindFailed, Op: op, Err: err, Stderr: diag}
		}
	}

	// Older releases print the version banner on stderr.
	if op == "version" && stdout.Len() == 0 {
		return stderr.Bytes(), nil
	}
	return stdout.Bytes(), nil
}
