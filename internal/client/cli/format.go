package cli

import (
	"fmt"
	"io"
	"strings"
	"time"
	"unicode"

	"github.com/dmitrijs2005/gophfeed/internal/client/models"
)

// formatAge renders how long ago t was: minutes within the first hour, hours
// within the first day, the calendar date after that.
func formatAge(t, now time.Time) string {
	d := now.Sub(t)
	switch {
	case d < time.Hour:
		m := int(d / time.Minute)
		if m < 0 {
			m = 0
		}
		return fmt.Sprintf("%d minutes ago", m)
	case d < 24*time.Hour:
		return fmt.Sprintf("%d hours ago", int(d/time.Hour))
	default:
		return t.Local().Format("2006-01-02")
	}
}

// initials takes the first letter of every word in name, upper-cased.
func initials(name string) string {
	var b strings.Builder
	for _, word := range strings.Fields(name) {
		r := []rune(word)
		b.WriteRune(unicode.ToUpper(r[0]))
	}
	return b.String()
}

func renderPost(w io.Writer, p models.Post, currentUserID string, now time.Time) {
	heart := "♡"
	if p.IsLikedBy(currentUserID) {
		heart = "♥"
	}

	fmt.Fprintf(w, "[%s] %s · %s · id=%s\n", initials(p.Author.Name), p.Author.Name, formatAge(p.CreatedAt, now), p.ID)
	if p.Title != "" {
		fmt.Fprintf(w, "  %s\n", p.Title)
	}
	for _, line := range strings.Split(p.Content, "\n") {
		fmt.Fprintf(w, "  %s\n", line)
	}
	if p.HasImage() {
		fmt.Fprintf(w, "  image: %s\n", p.Image)
	}
	fmt.Fprintf(w, "  %s %d  💬 %d\n", heart, p.LikeCount(), p.CommentCount())
}

func renderStats(w io.Writer, s models.FeedStats) {
	fmt.Fprintf(w, "Posts: %d  Users: %d  Likes: %d\n", s.TotalPosts, s.TotalUsers, s.TotalLikes)
}
