package publish

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/go-git/go-git/v5"
	gitconfig "github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	githttp "github.com/go-git/go-git/v5/plumbing/transport/http"
)

// GitOps handles git operations for the archive repo.
type GitOps struct {
	root     string
	repo     *git.Repository
	worktree *git.Worktree
	token    string
}

// OpenRepo opens a git repository at the given path.
func OpenRepo(path, token string) (*GitOps, error) {
	repo, err := git.PlainOpen(path)
	if err != nil {
		return nil, fmt.Errorf("opening repo: %w", err)
	}

	wt, err := repo.Worktree()
	if err != nil {
		return nil, fmt.Errorf("getting worktree: %w", err)
	}

	return &GitOps{root: wt.Filesystem.Root(), repo: repo, worktree: wt, token: token}, nil
}

// Root returns the worktree root.
func (g *GitOps) Root() string { return g.root }

// CreateBranch creates and checks out a new branch at HEAD.
func (g *GitOps) CreateBranch(name string) error {
	headRef, err := g.repo.Head()
	if err != nil {
		return fmt.Errorf("getting HEAD: %w", err)
	}

	branchRef := plumbing.NewBranchReferenceName(name)
	ref := plumbing.NewHashReference(branchRef, headRef.Hash())

	if err := g.repo.Storer.SetReference(ref); err != nil {
		return fmt.Errorf("creating branch ref: %w", err)
	}

	return g.worktree.Checkout(&git.CheckoutOptions{
		Branch: branchRef,
		Keep:   true,
	})
}

// Add stages the given absolute paths.
func (g *GitOps) Add(paths ...string) error {
	for _, p := range paths {
		rel, err := filepath.Rel(g.root, p)
		if err != nil {
			return fmt.Errorf("relativizing %s: %w", p, err)
		}
		if _, err := g.worktree.Add(filepath.ToSlash(rel)); err != nil {
			return fmt.Errorf("staging %s: %w", rel, err)
		}
	}
	return nil
}

// Commit creates a commit and returns its hash.
func (g *GitOps) Commit(message string, when time.Time) (string, error) {
	hash, err := g.worktree.Commit(message, &git.CommitOptions{
		Author: &object.Signature{
			Name:  "modelgate",
			Email: "modelgate@everstack.dev",
			When:  when,
		},
	})
	if err != nil {
		return "", err
	}
	return hash.String(), nil
}

// Push pushes one branch to origin.
func (g *GitOps) Push(branch string) error {
	ref := plumbing.NewBranchReferenceName(branch)
	return g.repo.Push(&git.PushOptions{
		RemoteName: "origin",
		RefSpecs:   []gitconfig.RefSpec{gitconfig.RefSpec(fmt.Sprintf("+%s:%s", ref, ref))},
		Auth: &githttp.BasicAuth{
			Username: "x-access-token",
			Password: g.token,
		},
	})
}
