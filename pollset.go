package mq

// PollSet multiplexes many Endpoints under one drive loop, the way a
// single-threaded server fans out across many connections. An Endpoint
// belongs to at most one PollSet at a time; membership is tracked on the
// Endpoint itself so Add/Remove are O(1) and Wait needs no reverse lookup.
//
// The three readiness sets are latches: an Endpoint is inserted by a drive
// cycle (see [Endpoint.updatePollGroup]) and removed by the matching
// consuming call — [Endpoint.Accept], [Endpoint.Recv], [PollSet.Remove], or
// [Endpoint.Close]. The one other removal is an Endpoint entering
// StateError: that releases its buffered Msg and pending child, and drops
// its readable and acceptable entries with them.
type PollSet struct {
	members map[*Endpoint]any

	acceptableSet map[*Endpoint]struct{}
	readableSet   map[*Endpoint]struct{}
	errorSet      map[*Endpoint]struct{}

	logger Logger
}

// NewPollSet creates an empty PollSet.
func NewPollSet(opts ...PollSetOption) *PollSet {
	cfg := resolvePollSetOptions(opts)
	return &PollSet{
		members:       make(map[*Endpoint]any),
		acceptableSet: make(map[*Endpoint]struct{}),
		readableSet:   make(map[*Endpoint]struct{}),
		errorSet:      make(map[*Endpoint]struct{}),
		logger:        cfg.logger,
	}
}

// Add registers ep with this PollSet under the given opaque tag (returned
// later by [PollSet.Acceptable], [PollSet.Readable], [PollSet.Error]). If
// tag is nil, ep itself is used as the tag.
//
// Returns [ErrAlreadyMember] if ep is already a member of this exact
// PollSet, or [ErrForeignPollSet] if it belongs to a different one — an
// Endpoint must be removed from its current PollSet first.
func (p *PollSet) Add(ep *Endpoint, tag any) error {
	if ep.pollGroup == p {
		return ErrAlreadyMember
	}
	if ep.pollGroup != nil {
		return ErrForeignPollSet
	}
	if tag == nil {
		tag = ep
	}
	ep.pollGroup = p
	p.members[ep] = tag
	ep.updatePollGroup()
	return nil
}

// Remove unregisters ep, dropping it from all three readiness sets.
// Returns [ErrNotMember] if ep is not a member of this PollSet.
func (p *PollSet) Remove(ep *Endpoint) error {
	if ep.pollGroup != p {
		return ErrNotMember
	}
	ep.pollGroup = nil
	delete(p.members, ep)
	delete(p.acceptableSet, ep)
	delete(p.readableSet, ep)
	delete(p.errorSet, ep)
	return nil
}

// Acceptable returns the tag of an arbitrary member with a pending
// [Endpoint.Accept], and true, or (nil, false) if none.
func (p *PollSet) Acceptable() (tag any, ok bool) {
	for ep := range p.acceptableSet {
		return p.members[ep], true
	}
	return nil, false
}

// Readable returns the tag of an arbitrary member with a pending
// [Endpoint.Recv], and true, or (nil, false) if none.
func (p *PollSet) Readable() (tag any, ok bool) {
	for ep := range p.readableSet {
		return p.members[ep], true
	}
	return nil, false
}

// Error returns the tag of an arbitrary member in StateError, and true, or
// (nil, false) if none. Per [Endpoint.Err], a member here may still carry a
// nil error — that only means it closed cleanly.
func (p *PollSet) Error() (tag any, ok bool) {
	for ep := range p.errorSet {
		return p.members[ep], true
	}
	return nil, false
}

// Len returns the number of Endpoints currently registered.
func (p *PollSet) Len() int {
	return len(p.members)
}

// Close detaches every member Endpoint from this PollSet without closing
// the Endpoints themselves, then discards the PollSet's internal state.
func (p *PollSet) Close() {
	for ep := range p.members {
		ep.pollGroup = nil
	}
	p.members = nil
	p.acceptableSet = nil
	p.readableSet = nil
	p.errorSet = nil
}
