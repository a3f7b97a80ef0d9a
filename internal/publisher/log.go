package publisher

import (
	log "github.com/sirupsen/logrus"
)

// LogPublisher writes updates to the structured log instead of a broker.
// It is the fallback when no MQTT broker is configured, and handy in tests.
type LogPublisher struct{}

// NewLogPublisher returns a publisher that only logs.
func NewLogPublisher() *LogPublisher { return &LogPublisher{} }

// PublishPosition logs the position at debug level to keep tick noise down.
func (p *LogPublisher) PublishPosition(msg PositionMessage) error {
	log.WithFields(log.Fields{
		"truck_id": msg.TruckID,
		"route_id": msg.RouteID,
		"lat":      msg.Lat,
		"lng":      msg.Lng,
		"progress": msg.Progress,
	}).Debug("Position update")
	return nil
}

// PublishEvent logs the lifecycle event.
func (p *LogPublisher) PublishEvent(evt Event) error {
	log.WithFields(log.Fields{
		"type":     evt.Type,
		"truck_id": evt.TruckID,
		"route_id": evt.RouteID,
	}).Info("Playback event")
	return nil
}

// Close is a no-op.
func (p *LogPublisher) Close() {}
