// Package gitlog reads commit history and tags from a git repository and
// converts them into the changelog pipeline's input records. It uses the
// go-git library, so no git CLI installation is required.
package gitlog

import (
	"fmt"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/plumbing/storer"

	"github.com/ariel-frischer/changeforge/internal/changelog"
)

// shortIDLength is the number of hash characters kept for display.
const shortIDLength = 7

// debugLogger is a function that logs debug messages when debug mode is
// enabled. By default, it's a no-op. Set it via SetDebugLogger.
var debugLogger func(format string, args ...any)

// SetDebugLogger configures the debug logger for repository operations.
// Pass nil to disable debug logging.
func SetDebugLogger(logger func(format string, args ...any)) {
	debugLogger = logger
}

func logDebug(format string, args ...any) {
	if debugLogger != nil {
		debugLogger(format, args...)
	}
}

// Reader reads history from one repository.
type Reader struct {
	repo *git.Repository
}

// Open opens the repository at the given path. DetectDotGit traverses up
// the directory tree, so any path inside the work tree works.
func Open(path string) (*Reader, error) {
	logDebug("[gitlog] opening repository at %s", path)

	repo, err := git.PlainOpenWithOptions(path, &git.PlainOpenOptions{
		DetectDotGit: true,
	})
	if err != nil {
		return nil, fmt.Errorf("opening repository at %s: %w", path, err)
	}

	return &Reader{repo: repo}, nil
}

// NewReader wraps an already opened repository.
func NewReader(repo *git.Repository) *Reader {
	return &Reader{repo: repo}
}

// CommitOptions filters the history walk.
type CommitOptions struct {
	// Since keeps only commits authored after this time.
	Since *time.Time
	// Until keeps only commits authored before this time.
	Until *time.Time
	// MaxCount caps the number of commits returned. Zero means no cap.
	MaxCount int
}

// Commits returns the repository history newest first, deduplicated by
// hash, with merge commits skipped. An empty repository (no HEAD) yields
// an empty list rather than an error.
func (r *Reader) Commits(opts CommitOptions) ([]changelog.Commit, error) {
	iter, err := r.repo.Log(&git.LogOptions{
		Order: git.LogOrderCommitterTime,
		Since: opts.Since,
		Until: opts.Until,
	})
	if err != nil {
		if err == plumbing.ErrReferenceNotFound {
			logDebug("[gitlog] repository has no HEAD, returning empty history")
			return nil, nil
		}
		return nil, fmt.Errorf("reading log: %w", err)
	}
	defer iter.Close()

	var commits []changelog.Commit
	seen := make(map[string]bool)

	err = iter.ForEach(func(c *object.Commit) error {
		if c.NumParents() > 1 {
			// Merge commits carry no changelog content of their own.
			return nil
		}

		id := c.Hash.String()
		if seen[id] {
			return nil
		}
		seen[id] = true

		commits = append(commits, changelog.Commit{
			ID:          id,
			ShortID:     id[:shortIDLength],
			AuthorName:  c.Author.Name,
			AuthorEmail: c.Author.Email,
			Timestamp:   c.Author.When,
			Message:     c.Message,
		})

		if opts.MaxCount > 0 && len(commits) >= opts.MaxCount {
			return storer.ErrStop
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("iterating commits: %w", err)
	}

	logDebug("[gitlog] read %d commits", len(commits))
	return commits, nil
}

// Tags returns all tags resolved to their target commits. Annotated tags
// are followed to the tagged commit; tags pointing at non-commit objects
// are skipped.
func (r *Reader) Tags() ([]changelog.Tag, error) {
	iter, err := r.repo.Tags()
	if err != nil {
		return nil, fmt.Errorf("listing tags: %w", err)
	}

	var tags []changelog.Tag

	err = iter.ForEach(func(ref *plumbing.Reference) error {
		tag, ok := r.resolveTag(ref)
		if !ok {
			return nil
		}
		tags = append(tags, tag)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("iterating tags: %w", err)
	}

	logDebug("[gitlog] read %d tags", len(tags))
	return tags, nil
}

// resolveTag converts one tag reference into a changelog.Tag. Lightweight
// tags point directly at a commit; annotated tags go through the tag
// object first.
func (r *Reader) resolveTag(ref *plumbing.Reference) (changelog.Tag, bool) {
	name := ref.Name().Short()

	if tagObj, err := r.repo.TagObject(ref.Hash()); err == nil {
		commit, err := tagObj.Commit()
		if err != nil {
			logDebug("[gitlog] tag %s does not point at a commit, skipping", name)
			return changelog.Tag{}, false
		}
		return changelog.Tag{
			Name:      name,
			CommitID:  commit.Hash.String(),
			Timestamp: tagObj.Tagger.When,
		}, true
	}

	commit, err := r.repo.CommitObject(ref.Hash())
	if err != nil {
		logDebug("[gitlog] tag %s does not point at a commit, skipping", name)
		return changelog.Tag{}, false
	}
	return changelog.Tag{
		Name:      name,
		CommitID:  commit.Hash.String(),
		Timestamp: commit.Committer.When,
	}, true
}

// Root returns the absolute path of the repository work tree. Used by
// watch mode to locate the .git directory.
func (r *Reader) Root() (string, error) {
	wt, err := r.repo.Worktree()
	if err != nil {
		return "", fmt.Errorf("getting worktree: %w", err)
	}
	return wt.Filesystem.Root(), nil
}
