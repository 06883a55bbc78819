package engagement

import (
	"context"
	"fmt"
	"strings"
)

const (
	activityTopSize = 5
	wordTopSize     = 10
	unknownName     = "Unknown"
)

// NameResolver looks up a display name for a guild member.
type NameResolver interface {
	DisplayName(ctx context.Context, guildID, userID string) (string, error)
}

// ActivityReport renders the active-time leaderboard for requesterID.
// Names that fail to resolve are shown as "Unknown".
func ActivityReport(ctx context.Context, names NameResolver, guildID, requesterID string, ranking Ranking) string {
	var b strings.Builder
	b.WriteString("⏱️ **All-time activity ranking**\n\n")

	rankText := "Unranked"
	var minutes float64
	if rank, entry, ok := ranking.Standing(requesterID); ok {
		rankText = fmt.Sprintf("%d", rank)
		minutes = entry.ActiveMinutes
	}
	h, m := SplitMinutes(minutes)

	fmt.Fprintf(&b, "Your current stats: <@%s>\n", requesterID)
	fmt.Fprintf(&b, "Rank: **%s**\n", rankText)
	fmt.Fprintf(&b, "Total time: **%d h %d min**\n\n", h, m)

	b.WriteString("🔥 **Top 5 most active:**\n")
	top := ranking.Top(activityTopSize)
	if len(top) == 0 {
		b.WriteString("_No data yet._")
		return b.String()
	}

	for i, e := range top {
		name := unknownName
		if names != nil {
			if resolved, err := names.DisplayName(ctx, guildID, e.UserID); err == nil && resolved != "" {
				name = resolved
			}
		}
		eh, em := SplitMinutes(e.ActiveMinutes)
		fmt.Fprintf(&b, "%d. **%s** — %d h %d min\n", i+1, name, eh, em)
	}
	return strings.TrimRight(b.String(), "\n")
}

// WordReport renders the word-count leaderboard. The requester's own line is
// always appended, even when already listed in the top ten.
func WordReport(requesterID string, ranking Ranking) string {
	var b strings.Builder
	b.WriteString("🏆 **Leaderboard (word count)**\n\n")

	for i, e := range ranking.Top(wordTopSize) {
		fmt.Fprintf(&b, "**%d.** <@%s> - %d words\n", i+1, e.UserID, e.Words)
	}

	b.WriteString("\n━━━━━━━━━━━━━\n")
	if rank, entry, ok := ranking.Standing(requesterID); ok {
		fmt.Fprintf(&b, "**%d.** <@%s> - %d words 👈 (your rank)", rank, requesterID, entry.Words)
	} else {
		fmt.Fprintf(&b, "**Unranked** <@%s> - 0 words 👈 (your rank)", requesterID)
	}
	return b.String()
}
