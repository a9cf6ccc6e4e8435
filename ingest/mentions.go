package ingest

import (
	"context"
	"regexp"
)

var mentionPattern = regexp.MustCompile(`@(\w+)`)

// ExtractMentions pulls the @name tokens out of post content.
func ExtractMentions(content string) []string {
	if content == "" {
		return nil
	}
	matches := mentionPattern.FindAllStringSubmatch(content, -1)
	out := make([]string, 0, len(matches))
	for _, m := range matches {
		out = append(out, m[1])
	}
	return out
}

// BuildMentionEdges derives interaction edges from @name tokens matching
// known author display names. The pass is idempotent: the store rejects
// duplicate (source, target, post) triples, so re-running inserts zero new
// rows for mentions already covered. Returns the number of new edges.
func (ing *Ingester) BuildMentionEdges(ctx context.Context) (int, error) {
	index, err := ing.store.AuthorNameIndex(ctx)
	if err != nil {
		return 0, err
	}
	posts, err := ing.store.ListPostsWithMentions(ctx)
	if err != nil {
		return 0, err
	}

	created := 0
	for _, post := range posts {
		if ctx.Err() != nil {
			break
		}
		for _, name := range ExtractMentions(post.Content) {
			targetID, ok := index[name]
			if !ok || targetID == post.AuthorID {
				continue
			}
			isNew, err := ing.store.AddInteraction(ctx, post.AuthorID, targetID, post.ID, post.CreatedAt)
			if err != nil {
				ing.logger.Error("error recording mention edge", "post", post.ID, "err", err)
				continue
			}
			if isNew {
				created++
			}
		}
	}

	if created > 0 {
		ing.logger.Info("mention edge pass complete", "new", created, "posts", len(posts))
	}
	return created, nil
}
