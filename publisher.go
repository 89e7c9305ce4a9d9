package wlmonitors

// publisher pushes events onto the application's channel. Sends block: a
// consumer that stops reading eventually stalls protocol processing rather
// than losing notifications.
type publisher struct {
	events chan<- Event

	// initialSent flips after the first snapshot; later batches surface
	// as per-monitor change events.
	initialSent bool
}

func newPublisher(events chan<- Event) *publisher {
	return &publisher{events: events}
}

func (p *publisher) initialState(monitors []Monitor) {
	p.initialSent = true
	p.events <- InitialStateEvent{Monitors: monitors}
}

func (p *publisher) changed(mon Monitor) {
	p.events <- ChangedEvent{Monitor: mon}
}

func (p *publisher) removed(id uint32, name string) {
	p.events <- RemovedEvent{ID: id, Name: name}
}

func (p *publisher) actionFailed(kind ActionKind, reason string) {
	p.events <- ActionFailedEvent{Action: kind, Reason: reason}
}
