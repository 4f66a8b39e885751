package power

import (
	"sort"

	"napd/pkg/types"
)

// Status builds the response for GET /status.
func (m *Manager) Status() types.StatusResponse {
	m.mu.Lock()
	defer m.mu.Unlock()
	resp := types.StatusResponse{
		Backend:          m.backend.Name(),
		ObserverAttached: m.attached,
		Subscribers:      len(m.subs),
		LastSeq:          m.seq,
		DroppedEvents:    m.dropped,
		Assertions:       make([]types.AssertionInfo, 0, len(m.assertions)),
	}
	for _, rec := range m.assertions {
		if rec.state != types.AssertionActive {
			continue
		}
		resp.Assertions = append(resp.Assertions, assertionInfo(rec))
	}
	sortAssertions(resp.Assertions)
	return resp
}

// Assertions lists every recorded assertion, released ones included.
func (m *Manager) Assertions() []types.AssertionInfo {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]types.AssertionInfo, 0, len(m.assertions))
	for _, rec := range m.assertions {
		out = append(out, assertionInfo(rec))
	}
	sortAssertions(out)
	return out
}

// ActiveAssertionCount reports assertions still held against the OS.
func (m *Manager) ActiveAssertionCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, rec := range m.assertions {
		if rec.state == types.AssertionActive {
			n++
		}
	}
	return n
}

// CreateAssertion is the HTTP-facing wrapper around RequestNoIdleSleep; it
// reports the recorded assertion instead of returning the handle.
func (m *Manager) CreateAssertion(reason string) (types.AssertionInfo, error) {
	a, err := m.RequestNoIdleSleep(reason)
	if err != nil {
		return types.AssertionInfo{}, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return assertionInfo(m.assertions[a.id]), nil
}

// ReleaseAssertion releases by id for the HTTP surface. found is false for
// ids the manager never recorded; releasing those is still a no-op success.
func (m *Manager) ReleaseAssertion(id string) (info types.AssertionInfo, found bool, err error) {
	m.mu.Lock()
	rec, ok := m.assertions[id]
	if ok {
		info = assertionInfo(rec)
	}
	m.mu.Unlock()
	if !ok {
		return types.AssertionInfo{}, false, nil
	}
	err = m.releaseByID(id)
	info.State = types.AssertionReleased
	return info, true, err
}

func assertionInfo(rec *assertionRecord) types.AssertionInfo {
	return types.AssertionInfo{
		ID:        rec.id,
		Reason:    rec.reason,
		State:     rec.state,
		CreatedAt: rec.createdAt.Unix(),
	}
}

// sortAssertions orders by creation time then id for stable API output.
func sortAssertions(list []types.AssertionInfo) {
	sort.Slice(list, func(i, j int) bool {
		if list[i].CreatedAt != list[j].CreatedAt {
			return list[i].CreatedAt < list[j].CreatedAt
		}
		return list[i].ID < list[j].ID
	})
}
