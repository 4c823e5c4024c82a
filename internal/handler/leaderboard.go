package handler

import (
	"context"
	"fmt"
	"strings"

	tele "gopkg.in/telebot.v3"

	"idol-guess-bot/internal/model"
	"idol-guess-bot/internal/service"
)

// LeaderboardSize is how many players the leaderboard shows.
const LeaderboardSize = 10

// LeaderboardHandler handles the /idol_top command.
type LeaderboardHandler struct {
	points *service.PointsService
}

// NewLeaderboardHandler creates a new LeaderboardHandler.
func NewLeaderboardHandler(points *service.PointsService) *LeaderboardHandler {
	return &LeaderboardHandler{points: points}
}

// HandleLeaderboard handles the /idol_top command.
// Passing "ids" as an argument adds a user-ID column.
func (h *LeaderboardHandler) HandleLeaderboard(c tele.Context) error {
	ctx := context.Background()

	showIDs := false
	for _, arg := range c.Args() {
		if arg == "ids" {
			showIDs = true
		}
	}

	players, err := h.points.GetLeaderboard(ctx, LeaderboardSize)
	if err != nil {
		return c.Reply("❌ Failed to load the leaderboard, please try again")
	}

	msg := "📊 Guess-the-Idol Leaderboard\n" + RenderLeaderboard(players, showIDs)
	return c.Reply(msg)
}

// rankDisplay renders the rank column: medals for the podium, #N after.
func rankDisplay(i int) string {
	switch i {
	case 0:
		return "1st 🥇"
	case 1:
		return "2nd 🥈"
	case 2:
		return "3rd 🥉"
	default:
		return fmt.Sprintf("#%d", i+1)
	}
}

// RenderLeaderboard produces the fixed-width leaderboard table.
func RenderLeaderboard(players []*model.Player, showIDs bool) string {
	var b strings.Builder
	b.WriteString("```\n")
	b.WriteString("Rank   | Username          | Points")
	if showIDs {
		b.WriteString(" | User ID")
	}
	b.WriteString("\n---------------------------------------\n")

	if len(players) == 0 {
		b.WriteString("No one has played yet!\n```")
		return b.String()
	}

	for i, p := range players {
		name := p.Username
		if len(name) > 17 {
			name = name[:17]
		}
		line := fmt.Sprintf("%-6s | %-17s | %-6d", rankDisplay(i), name, p.Points)
		if showIDs {
			line += fmt.Sprintf(" | %d", p.UserID)
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
	b.WriteString("```")
	return b.String()
}
