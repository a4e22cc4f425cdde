package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/paradox1612/shaadi-timeline/internal/domain"
	"github.com/paradox1612/shaadi-timeline/internal/observability/logger"
	"github.com/paradox1612/shaadi-timeline/internal/repo"
)

var (
	// ErrUnauthorized is returned when the actor's role or grants do not
	// cover the attempted action. Handlers map it to 403.
	ErrUnauthorized = errors.New("user not authorized for this action")

	// ErrMemberNotFound is returned when the user has no membership in the
	// wedding at all.
	ErrMemberNotFound = repo.ErrMemberNotFound
)

// actorResolver turns a (userID, weddingID) pair into the full permission
// context, with the authorization audit logging every service shares.
// Embedded by each service.
type actorResolver struct {
	weddings *repo.WeddingRepository
	log      *logger.Logger
	module   string
}

func (a actorResolver) resolveActor(ctx context.Context, userID, weddingID string) (domain.Actor, error) {
	actor, err := a.weddings.GetActor(ctx, userID, weddingID)
	if err != nil {
		a.log.Error(ctx, "failed to resolve wedding member",
			logger.Module(a.module),
			logger.Action("authorization"),
			zap.String("actor_id", userID),
			zap.String("wedding_id", weddingID),
			zap.Error(err),
		)
		if errors.Is(err, repo.ErrMemberNotFound) {
			return domain.Actor{}, ErrMemberNotFound
		}
		return domain.Actor{}, fmt.Errorf("resolve actor: %w", err)
	}

	a.log.Debug(ctx, "wedding access granted",
		logger.Module(a.module),
		logger.Action("authorization"),
		zap.String("actor_id", userID),
		zap.String("wedding_id", weddingID),
		zap.String("role", string(actor.Role)),
	)
	return actor, nil
}
