package webserver

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/stake-plus/guildpulse/src/engagement"
)

const (
	defaultLimit = 10
	maxLimit     = 100
)

// Stats serves leaderboard views.
type Stats struct {
	source Snapshotter
}

type rankedEntry struct {
	Rank int `json:"rank"`
	engagement.Entry
}

type leaderboardResponse struct {
	Metric  string        `json:"metric"`
	Total   int           `json:"total"`
	Entries []rankedEntry `json:"entries"`
}

type userResponse struct {
	engagement.Entry
	ActivityRank int `json:"activityRank,omitempty"`
	WordRank     int `json:"wordRank,omitempty"`
}

func (h *Stats) Activity(c *gin.Context) {
	h.leaderboard(c, "activity", engagement.RankByActivity)
}

func (h *Stats) Words(c *gin.Context) {
	h.leaderboard(c, "words", engagement.RankByWords)
}

func (h *Stats) leaderboard(c *gin.Context, metric string, rank func(engagement.Document) engagement.Ranking) {
	if h.source == nil {
		writeError(c, http.StatusServiceUnavailable, "engagement tracking is disabled")
		return
	}
	limit, ok := parseLimit(c.Query("limit"))
	if !ok {
		writeError(c, http.StatusBadRequest, "limit must be an integer between 1 and 100")
		return
	}

	ranking := rank(h.source.Snapshot())
	top := ranking.Top(limit)
	resp := leaderboardResponse{
		Metric:  metric,
		Total:   len(ranking.Entries),
		Entries: make([]rankedEntry, 0, len(top)),
	}
	for i, e := range top {
		resp.Entries = append(resp.Entries, rankedEntry{Rank: i + 1, Entry: e})
	}
	writeJSON(c, http.StatusOK, resp)
}

func (h *Stats) User(c *gin.Context) {
	if h.source == nil {
		writeError(c, http.StatusServiceUnavailable, "engagement tracking is disabled")
		return
	}
	doc := h.source.Snapshot()
	id := c.Param("id")

	actRank, actEntry, inActivity := engagement.RankByActivity(doc).Standing(id)
	wordRank, wordEntry, inWords := engagement.RankByWords(doc).Standing(id)
	if !inActivity && !inWords {
		writeError(c, http.StatusNotFound, "user has no recorded activity")
		return
	}

	entry := wordEntry
	if inActivity {
		entry = actEntry
	}
	writeJSON(c, http.StatusOK, userResponse{Entry: entry, ActivityRank: actRank, WordRank: wordRank})
}

func parseLimit(raw string) (int, bool) {
	if raw == "" {
		return defaultLimit, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 || n > maxLimit {
		return 0, false
	}
	return n, true
}
