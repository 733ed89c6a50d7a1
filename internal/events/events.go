// Package events publishes movie and comment domain events to NATS.
package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
	"go.uber.org/zap"
)

const subjectPrefix = "movies."

const (
	MovieCreated   = "movie.created"
	MovieUpdated   = "movie.updated"
	MovieDeleted   = "movie.deleted"
	CommentAdded   = "comment.added"
	CommentUpdated = "comment.updated"
	CommentDeleted = "comment.deleted"
)

type Event struct {
	ID         string    `json:"event_id"`
	Type       string    `json:"event_type"`
	MovieID    string    `json:"movie_id"`
	CommentID  string    `json:"comment_id,omitempty"`
	ActorID    string    `json:"actor_id,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

func NewEvent(typ, movieID, commentID, actorID string) Event {
	return Event{
		ID:         uuid.NewString(),
		Type:       typ,
		MovieID:    movieID,
		CommentID:  commentID,
		ActorID:    actorID,
		OccurredAt: time.Now().UTC(),
	}
}

// Subject is the NATS subject an event is published on.
func (e Event) Subject() string {
	return subjectPrefix + e.Type
}

type Publisher interface {
	Publish(ctx context.Context, evt Event) error
}

// NATSPublisher publishes events with core NATS. With no connection it runs
// in stub mode and only logs.
type NATSPublisher struct {
	nc  *nats.Conn
	log *zap.Logger
}

func NewNATSPublisher(url string, log *zap.Logger) (*NATSPublisher, error) {
	if url == "" {
		log.Warn("NATS_URL not set, domain events will not be published (stub mode)")
		return &NATSPublisher{log: log}, nil
	}

	nc, err := nats.Connect(url,
		nats.Name("cinecomments-api"),
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(10),
		nats.ReconnectWait(2*time.Second),
	)
	if err != nil {
		return nil, err
	}

	log.Info("NATS publisher initialised", zap.String("url", nc.ConnectedUrl()))
	return &NATSPublisher{nc: nc, log: log}, nil
}

func (p *NATSPublisher) Publish(_ context.Context, evt Event) error {
	if p.nc == nil {
		p.log.Debug("NATS stub: skipping publish", zap.String("subject", evt.Subject()), zap.String("event_id", evt.ID))
		return nil
	}

	data, err := json.Marshal(evt)
	if err != nil {
		return err
	}
	return p.nc.Publish(evt.Subject(), data)
}

// Ping reports whether the connection is usable; stub mode is always ready.
func (p *NATSPublisher) Ping() error {
	if p.nc == nil {
		return nil
	}
	if !p.nc.IsConnected() {
		return nats.ErrConnectionClosed
	}
	return nil
}

func (p *NATSPublisher) Close() {
	if p.nc != nil {
		_ = p.nc.Drain()
	}
}

// Nop discards every event.
type Nop struct{}

func (Nop) Publish(context.Context, Event) error { return nil }
