package videos

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

// CommandRunner executes external commands and returns stdout bytes.
type CommandRunner func(ctx context.Context, binary string, args ...string) ([]byte, error)

// YTDLPProvider fetches metadata using the yt-dlp CLI tool.
type YTDLPProvider struct {
	Binary  string
	Args    []string
	Run     CommandRunner
	Timeout time.Duration
	// Limiter, when set, throttles yt-dlp invocations across callers.
	Limiter *rate.Limiter
}

// NewYTDLPProvider constructs a Provider that shells out to yt-dlp.
func NewYTDLPProvider(binary string, timeout time.Duration) *YTDLPProvider {
	if strings.TrimSpace(binary) == "" {
		binary = "yt-dlp"
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &YTDLPProvider{
		Binary:  binary,
		Args:    []string{"--dump-single-json", "--no-warnings", "--no-playlist", "--skip-download"},
		Run:     defaultCommandRunner,
		Timeout: timeout,
	}
}

// Dump executes yt-dlp for the provided URL and returns the info document.
func (p *YTDLPProvider) Dump(ctx context.Context, url string) ([]byte, error) {
	if p == nil {
		return nil, ErrProviderUnavailable
	}
	run := p.Run
	if run == nil {
		run = defaultCommandRunner
	}

	if p.Limiter != nil {
		if err := p.Limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("yt-dlp rate limit: %w", err)
		}
	}

	execCtx, cancel := context.WithTimeout(ctx, p.Timeout)
	defer cancel()

	args := append([]string{}, p.Args...)
	args = append(args, url)

	out, err := run(execCtx, p.Binary, args...)
	if err != nil {
		return nil, fmt.Errorf("yt-dlp fetch: %w", err)
	}
	return out, nil
}

// Lookup executes yt-dlp for the provided URL and parses the JSON response.
func (p *YTDLPProvider) Lookup(ctx context.Context, url string) (Info, error) {
	out, err := p.Dump(ctx, url)
	if err != nil {
		return Info{}, err
	}

	info, err := DecodeInfo(out)
	if err != nil {
		return Info{}, fmt.Errorf("parse yt-dlp response: %w", err)
	}
	if info.URL == "" {
		info.URL = url
	}
	return info, nil
}

func defaultCommandRunner(ctx context.Context, binary string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, binary, args...)
	return cmd.Output()
}
