package changelog

import (
	"sort"
	"time"
)

// EmptyTagTargetError reports a Tag whose CommitID field is empty. This is
// a caller contract violation: unusual tag names and tags pointing at
// filtered-out commits are tolerated, but a tag with no target at all
// indicates malformed input data.
type EmptyTagTargetError struct {
	Name string
}

func (e *EmptyTagTargetError) Error() string {
	return "tag " + e.Name + " has no target commit id"
}

// tagBoundary is the set of tags attached to one commit.
type tagBoundary struct {
	names []string
	date  time.Time
}

// label joins the boundary's tag names. When several tags point at the
// same commit they are combined into one group labeled "a/b" (sorted),
// so no tag name is silently dropped.
func (b *tagBoundary) label() string {
	names := make([]string, len(b.names))
	copy(names, b.names)
	sort.Strings(names)

	label := names[0]
	for _, n := range names[1:] {
		label += "/" + n
	}
	return label
}

// Group partitions categorized commits into ordered version groups using
// tag boundaries.
//
// Commits must arrive newest first. A tag labels the release that ends at
// its commit: the tagged commit and every older commit back to the next
// boundary belong to that group. Commits newer than the newest tag form
// the Unreleased group, which is always emitted first when non-empty.
// With no tags at all, every commit lands in a single Unreleased group.
//
// Tags pointing at commits absent from the input (filtered out upstream)
// contribute no boundary. A tag with an empty CommitID is rejected.
func Group(commits []CategorizedCommit, tags []Tag) ([]VersionGroup, error) {
	boundaries, err := tagBoundaries(tags)
	if err != nil {
		return nil, err
	}

	var groups []VersionGroup

	label := UnreleasedLabel
	var date *time.Time
	var bucket []CategorizedCommit

	flush := func() {
		if len(bucket) == 0 {
			return
		}
		groups = append(groups, newVersionGroup(label, date, bucket))
		bucket = nil
	}

	for _, c := range commits {
		if boundary, ok := boundaries[c.ID]; ok {
			// Everything accumulated so far is newer than this tag and
			// belongs to the previous (newer) group.
			flush()
			label = boundary.label()
			d := boundary.date
			date = &d
		}
		bucket = append(bucket, c)
	}
	flush()

	return groups, nil
}

// tagBoundaries builds the commit-id to tags lookup used during the
// grouping walk.
func tagBoundaries(tags []Tag) (map[string]*tagBoundary, error) {
	boundaries := make(map[string]*tagBoundary, len(tags))
	for _, tag := range tags {
		if tag.CommitID == "" {
			return nil, &EmptyTagTargetError{Name: tag.Name}
		}

		boundary, ok := boundaries[tag.CommitID]
		if !ok {
			boundary = &tagBoundary{}
			boundaries[tag.CommitID] = boundary
		}
		boundary.names = append(boundary.names, tag.Name)
		if tag.Timestamp.After(boundary.date) {
			boundary.date = tag.Timestamp
		}
	}
	return boundaries, nil
}

// newVersionGroup partitions a bucket of commits by category, preserving
// newest-first order within each category.
func newVersionGroup(label string, date *time.Time, commits []CategorizedCommit) VersionGroup {
	byCategory := make(map[Category][]CategorizedCommit)
	for _, c := range commits {
		byCategory[c.Category] = append(byCategory[c.Category], c)
	}
	return VersionGroup{
		Label:   label,
		Date:    date,
		Commits: byCategory,
	}
}
