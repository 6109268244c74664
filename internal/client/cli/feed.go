package cli

import (
	"context"
	"errors"
)

var errUsage = errors.New("usage")

// Feed reloads the feed from the server and prints it.
func (a *App) Feed(ctx context.Context) error {
	if err := a.feed.LoadFeed(ctx); err != nil {
		a.printf("%s\n", err)
		return err
	}

	posts := a.feed.Posts()
	if len(posts) == 0 {
		a.printf("No posts yet. Be the first to share something!\n")
		return nil
	}

	now := a.now()
	userID := a.currentUserID()
	for _, p := range posts {
		renderPost(a.out, p, userID, now)
	}
	return nil
}

// Post asks for a title and a multi-line body and publishes them.
func (a *App) Post(ctx context.Context) error {
	title, err := getSimpleText(a.reader, "Title", a.out)
	if err != nil {
		return err
	}
	content, err := getMultiline(a.reader, "What's on your mind?", a.out)
	if err != nil {
		return err
	}

	p, err := a.feed.CreatePost(ctx, title, content)
	if err != nil {
		a.printf("%s\n", err)
		return err
	}

	a.printf("Posted (id=%s)\n", p.ID)
	return nil
}

// Like toggles the current user's like on a post.
func (a *App) Like(ctx context.Context, args []string) error {
	if len(args) != 1 {
		a.printf("Usage: like <post id>\n")
		return errUsage
	}

	p, err := a.feed.ToggleLike(ctx, args[0])
	if err != nil {
		a.printf("%s\n", err)
		return err
	}

	verb := "Unliked"
	if p.IsLikedBy(a.currentUserID()) {
		verb = "Liked"
	}
	a.printf("%s (%d likes)\n", verb, p.LikeCount())
	return nil
}

// Delete removes a post after asking for confirmation.
func (a *App) Delete(ctx context.Context, args []string) error {
	if len(args) != 1 {
		a.printf("Usage: delete <post id>\n")
		return errUsage
	}
	id := args[0]

	question := "Delete post " + id + "?"
	if p, ok := a.feed.Post(id); ok && p.Title != "" {
		question = "Delete \"" + p.Title + "\"?"
	}
	ok, err := confirm(a.reader, question, a.out)
	if err != nil {
		return err
	}
	if !ok {
		a.printf("Cancelled\n")
		return nil
	}

	if err := a.feed.DeletePost(ctx, id); err != nil {
		a.printf("%s\n", err)
		return err
	}

	a.printf("Deleted\n")
	return nil
}

// Stats prints the aggregate numbers of the loaded feed.
func (a *App) Stats(ctx context.Context) error {
	renderStats(a.out, a.feed.Stats())
	return nil
}

func (a *App) currentUserID() string {
	if u := a.session.Snapshot().User; u != nil {
		return u.ID
	}
	return ""
}
