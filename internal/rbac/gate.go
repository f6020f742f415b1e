package rbac

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/stockbook/stockbook/internal/shared"
)

// Authorizer resolves actors and their role capabilities.
type Authorizer interface {
	Actor(ctx context.Context, userID int64) (shared.Actor, error)
	EffectivePermissions(ctx context.Context, role string) ([]string, error)
}

// Gate resolves the session user and verifies role capabilities before an
// operation runs.
type Gate struct {
	auth   Authorizer
	logger *slog.Logger
}

// NewGate constructs a Gate.
func NewGate(auth Authorizer, logger *slog.Logger) *Gate {
	return &Gate{auth: auth, logger: logger}
}

// Authorize returns the actor when the session user holds any of perms.
func (g *Gate) Authorize(ctx context.Context, perms ...string) (shared.Actor, error) {
	return g.authorize(ctx, hasAnyPermission, perms)
}

// AuthorizeAll returns the actor when the session user holds every one of perms.
func (g *Gate) AuthorizeAll(ctx context.Context, perms ...string) (shared.Actor, error) {
	return g.authorize(ctx, hasAllPermissions, perms)
}

func (g *Gate) authorize(ctx context.Context, match func(granted, required []string) bool, perms []string) (shared.Actor, error) {
	raw := strings.TrimSpace(shared.SessionFromContext(ctx).User())
	if raw == "" {
		return shared.Actor{}, shared.ErrUnauthorized
	}
	userID, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		g.logWarn("rbac parse user id", slog.String("value", raw))
		return shared.Actor{}, shared.ErrUnauthorized
	}
	actor, err := g.auth.Actor(ctx, userID)
	if err != nil {
		if code := shared.CodeOf(err); code == shared.CodeUnauthorized || shared.IsNotFound(err) {
			return shared.Actor{}, shared.ErrUnauthorized
		}
		return shared.Actor{}, err
	}
	required := normalizePermissions(perms)
	if len(required) == 0 {
		return actor, nil
	}
	granted, err := g.auth.EffectivePermissions(ctx, actor.Role)
	if err != nil {
		return shared.Actor{}, err
	}
	if !match(granted, required) {
		return shared.Actor{}, shared.ErrUnauthorized
	}
	return actor, nil
}

func (g *Gate) logWarn(msg string, attrs ...any) {
	if g.logger != nil {
		g.logger.Warn(msg, attrs...)
	}
}

// Guard wraps fn so it only runs for actors holding perm. Errors, including
// panics, are converted to envelope codes; unknown failures become FailedRequest.
func Guard[In, Out any](g *Gate, perm string, fn func(ctx context.Context, actor shared.Actor, in In) (Out, error)) func(context.Context, In) shared.Result[Out] {
	return func(ctx context.Context, in In) (res shared.Result[Out]) {
		actor, err := g.Authorize(ctx, perm)
		if err != nil {
			return shared.Fail[Out](err)
		}
		defer func() {
			if rec := recover(); rec != nil {
				g.logError("action panic", slog.String("permission", perm), slog.String("panic", fmt.Sprint(rec)))
				res = shared.Fail[Out](shared.ErrFailedRequest)
			}
		}()
		out, err := fn(shared.ContextWithActor(ctx, actor), actor, in)
		if err != nil {
			switch shared.CodeOf(err) {
			case shared.CodeFailedRequest, shared.CodeDatabaseError:
				g.logError("action failed", slog.String("permission", perm), slog.Int64("user_id", actor.UserID), slog.Any("error", err))
			}
			return shared.Fail[Out](err)
		}
		return shared.Ok(out)
	}
}

func (g *Gate) logError(msg string, attrs ...any) {
	if g.logger != nil {
		g.logger.Error(msg, attrs...)
	}
}
