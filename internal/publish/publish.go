// Package publish archives pricing snapshots into a git catalog repository
// and opens a pull request describing the pricing diff.
package publish

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/go-github/v60/github"
	"golang.org/x/oauth2"

	"github.com/everstacklabs/modelgate/internal/config"
	"github.com/everstacklabs/modelgate/internal/diff"
	"github.com/everstacklabs/modelgate/internal/pricing"
)

// Result describes what Publish did.
type Result struct {
	Branch   string
	Path     string
	Commit   string
	PRNumber int
	PRURL    string
	Changes  *diff.ChangeSet
}

// Publisher writes snapshots into the archive repo.
type Publisher struct {
	cfg        config.GitHubConfig
	apiBaseURL string
	dryRun     bool
	now        func() time.Time
	logger     *slog.Logger
}

// Option configures a Publisher.
type Option func(*Publisher)

// WithDryRun commits locally but neither pushes nor opens a PR.
func WithDryRun(v bool) Option {
	return func(p *Publisher) { p.dryRun = v }
}

// WithAPIBaseURL points the GitHub client at a different API root.
func WithAPIBaseURL(u string) Option {
	return func(p *Publisher) { p.apiBaseURL = u }
}

// WithClock sets the time source for branch names and commit dates.
func WithClock(now func() time.Time) Option {
	return func(p *Publisher) { p.now = now }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(p *Publisher) { p.logger = l }
}

// New creates a Publisher.
func New(cfg config.GitHubConfig, opts ...Option) *Publisher {
	p := &Publisher{cfg: cfg, now: time.Now, logger: slog.Default()}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// BranchName is the branch a snapshot version is published on.
func BranchName(version string) string {
	return "modelgate/pricing-" + strings.ReplaceAll(version, ":", "-")
}

// Publish commits snap to a new branch and, unless dry-run, pushes it and
// opens a PR. prev is the snapshot to diff against and may be nil.
func (p *Publisher) Publish(ctx context.Context, snap, prev *pricing.Snapshot) (*Result, error) {
	if prev == nil {
		prev = &pricing.Snapshot{}
	}
	cs := diff.Compute(prev, snap, diff.Options{TrackAvailability: true})

	gitOps, err := OpenRepo(p.cfg.RepoPath, p.cfg.Token)
	if err != nil {
		return nil, err
	}

	branch := BranchName(snap.Version)
	if err := gitOps.CreateBranch(branch); err != nil {
		return nil, fmt.Errorf("creating branch: %w", err)
	}

	store, err := pricing.NewFileStore(filepath.Join(gitOps.Root(), p.cfg.ArchiveDir))
	if err != nil {
		return nil, err
	}
	path, err := store.Put(snap)
	if err != nil {
		return nil, fmt.Errorf("writing snapshot: %w", err)
	}

	if err := gitOps.Add(path); err != nil {
		return nil, fmt.Errorf("staging snapshot: %w", err)
	}

	title := fmt.Sprintf("chore(pricing): archive snapshot %s", snap.Version)
	commit, err := gitOps.Commit(title, p.now())
	if err != nil {
		return nil, fmt.Errorf("committing: %w", err)
	}

	res := &Result{Branch: branch, Path: path, Commit: commit, Changes: cs}
	p.logger.Info("snapshot committed", "version", snap.Version, "branch", branch, "commit", commit)

	if p.dryRun {
		return res, nil
	}

	if err := gitOps.Push(branch); err != nil {
		return nil, fmt.Errorf("pushing: %w", err)
	}

	res.PRNumber, res.PRURL, err = p.createPR(ctx, branch, title, diff.RenderPRBody(cs))
	if err != nil {
		return nil, err
	}
	return res, nil
}

func (p *Publisher) client(ctx context.Context) (*github.Client, error) {
	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: p.cfg.Token})
	client := github.NewClient(oauth2.NewClient(ctx, ts))
	if p.apiBaseURL != "" {
		u, err := url.Parse(strings.TrimSuffix(p.apiBaseURL, "/") + "/")
		if err != nil {
			return nil, fmt.Errorf("parsing api base url: %w", err)
		}
		client.BaseURL = u
	}
	return client, nil
}

func (p *Publisher) createPR(ctx context.Context, branch, title, body string) (int, string, error) {
	client, err := p.client(ctx)
	if err != nil {
		return 0, "", err
	}

	pr, _, err := client.PullRequests.Create(ctx, p.cfg.Owner, p.cfg.Repo, &github.NewPullRequest{
		Title: &title,
		Body:  &body,
		Head:  &branch,
		Base:  &p.cfg.BaseBranch,
	})
	if err != nil {
		return 0, "", fmt.Errorf("creating PR: %w", err)
	}

	p.logger.Info("PR created",
		"branch", branch,
		"number", pr.GetNumber(),
		"url", pr.GetHTMLURL())

	return pr.GetNumber(), pr.GetHTMLURL(), nil
}
