package models

// FeedStats is derived from the post collection and never authoritative.
type FeedStats struct {
	TotalPosts int
	TotalUsers int
	TotalLikes int
}

// ComputeStats aggregates posts: number of posts, number of distinct authors
// and the sum of like-set sizes.
func ComputeStats(posts []Post) FeedStats {
	authors := make(map[string]struct{}, len(posts))
	likes := 0
	for _, p := range posts {
		authors[p.Author.ID] = struct{}{}
		likes += len(p.Likes)
	}
	return FeedStats{
		TotalPosts: len(posts),
		TotalUsers: len(authors),
		TotalLikes: likes,
	}
}
