package engine

import (
	"relawan-hub/internal/engine/actors"
	"relawan-hub/internal/events"
	"relawan-hub/internal/moderation"
	"relawan-hub/internal/utils"

	"github.com/asynkron/protoactor-go/actor"
)

// Engine coordinates communication with the workflow actors.
type Engine struct {
	forumActor *actor.PID
}

// Dependencies carries everything the workflow actors need.
type Dependencies struct {
	Store     actors.Store
	Checker   moderation.Checker
	FailOpen  bool
	Publisher events.Publisher
	Metrics   *utils.MetricsCollector
}

func NewEngine(system *actor.ActorSystem, deps *Dependencies) *Engine {
	context := system.Root

	forumProps := actor.PropsFromProducer(func() actor.Actor {
		return actors.NewForumActor(deps.Store, deps.Checker, deps.FailOpen, deps.Publisher, deps.Metrics)
	})
	forumPID := context.Spawn(forumProps)

	return &Engine{
		forumActor: forumPID,
	}
}

// GetForumActor returns the PID of the forum workflow actor
func (e *Engine) GetForumActor() *actor.PID {
	return e.forumActor
}
