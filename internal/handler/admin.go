package handler

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"
	tele "gopkg.in/telebot.v3"

	"idol-guess-bot/internal/model"
	"idol-guess-bot/internal/repository"
	"idol-guess-bot/internal/service"
)

// ErrUserNotResolvable is returned when an admin target cannot be parsed or
// looked up on the platform.
var ErrUserNotResolvable = errors.New("user not resolvable")

// mentionPattern matches platform mention syntax around a numeric user ID.
var mentionPattern = regexp.MustCompile(`^<@!?(\d+)>$`)

// ParseTargetID extracts a user ID from either mention syntax (<@id>, <@!id>)
// or a plain numeric ID.
func ParseTargetID(input string) (int64, error) {
	input = strings.TrimSpace(input)
	if m := mentionPattern.FindStringSubmatch(input); m != nil {
		input = m[1]
	}
	id, err := strconv.ParseInt(input, 10, 64)
	if err != nil {
		return 0, ErrUserNotResolvable
	}
	return id, nil
}

// UserResolver looks up a display name for a user ID on the platform.
type UserResolver interface {
	Resolve(userID int64) (string, error)
}

// AdminHandler handles admin point-adjustment commands.
type AdminHandler struct {
	points   *service.PointsService
	resolver UserResolver
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(points *service.PointsService, resolver UserResolver) *AdminHandler {
	return &AdminHandler{
		points:   points,
		resolver: resolver,
	}
}

// parsePointsArgs parses "<player> <points>" command arguments.
func (h *AdminHandler) parsePointsArgs(c tele.Context) (int64, int64, error) {
	args := c.Args()
	if len(args) < 2 {
		return 0, 0, fmt.Errorf("❌ Usage: %s <player> <points>", strings.Fields(c.Text())[0])
	}

	targetID, err := ParseTargetID(args[0])
	if err != nil {
		return 0, 0, fmt.Errorf("❌ Could not parse a user ID from %q", args[0])
	}

	points, err := strconv.ParseInt(args[1], 10, 64)
	if err != nil || points <= 0 {
		return 0, 0, errors.New("❌ Points must be a positive integer")
	}

	return targetID, points, nil
}

// HandleAddPoints handles the /admin_addpoints command.
// Format: /admin_addpoints <player> <points>
func (h *AdminHandler) HandleAddPoints(c tele.Context) error {
	ctx := context.Background()
	sender := c.Sender()
	if sender == nil {
		return nil
	}

	targetID, points, err := h.parsePointsArgs(c)
	if err != nil {
		return c.Reply(err.Error())
	}

	username, err := h.resolver.Resolve(targetID)
	if err != nil {
		return c.Reply(fmt.Sprintf("User not found: %d", targetID))
	}

	if _, err := h.points.AddPoints(ctx, targetID, username, points, model.ReasonAdminAdd); err != nil {
		return c.Reply("❌ Failed to add points, please try again")
	}

	log.Info().
		Int64("admin_id", sender.ID).
		Int64("target_id", targetID).
		Int64("points", points).
		Str("operation", "admin_addpoints").
		Msg("Admin operation executed")

	return c.Reply(fmt.Sprintf("Added %d points to %s (%d).", points, username, targetID))
}

// HandleSubtractPoints handles the /admin_subpoints command.
// Format: /admin_subpoints <player> <points>
func (h *AdminHandler) HandleSubtractPoints(c tele.Context) error {
	ctx := context.Background()
	sender := c.Sender()
	if sender == nil {
		return nil
	}

	targetID, points, err := h.parsePointsArgs(c)
	if err != nil {
		return c.Reply(err.Error())
	}

	if _, err := h.points.SubtractPoints(ctx, targetID, points, model.ReasonAdminSub); err != nil {
		if errors.Is(err, repository.ErrPlayerNotFound) {
			return c.Reply(fmt.Sprintf("User not found: %d", targetID))
		}
		return c.Reply("❌ Failed to subtract points, please try again")
	}

	log.Info().
		Int64("admin_id", sender.ID).
		Int64("target_id", targetID).
		Int64("points", points).
		Str("operation", "admin_subpoints").
		Msg("Admin operation executed")

	return c.Reply(fmt.Sprintf("Subtracted %d points from %d.", points, targetID))
}

// HandleRemovePlayer handles the /admin_removeplayer command.
// Format: /admin_removeplayer <user>
func (h *AdminHandler) HandleRemovePlayer(c tele.Context) error {
	ctx := context.Background()
	sender := c.Sender()
	if sender == nil {
		return nil
	}

	args := c.Args()
	if len(args) < 1 {
		return c.Reply("❌ Usage: /admin_removeplayer <user>")
	}

	targetID, err := ParseTargetID(args[0])
	if err != nil {
		return c.Reply(fmt.Sprintf("❌ Could not parse a user ID from %q", args[0]))
	}

	if err := h.points.RemovePlayer(ctx, targetID); err != nil {
		if errors.Is(err, repository.ErrPlayerNotFound) {
			return c.Reply(fmt.Sprintf("User not found: %d", targetID))
		}
		return c.Reply("❌ Failed to remove player, please try again")
	}

	log.Info().
		Int64("admin_id", sender.ID).
		Int64("target_id", targetID).
		Str("operation", "admin_removeplayer").
		Msg("Admin operation executed")

	return c.Reply(fmt.Sprintf("Removed %d.", targetID))
}
