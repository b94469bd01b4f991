package signaling

// SessionID builds the composite session key for a group and session kind.
func SessionID(groupId string, sessionType string) string {
	return groupId + ":" + sessionType
}

type session struct {
	groupId     string
	sessionType string
	members     []string
	index       map[string]struct{}
}

// sessionRegistry holds the member set of every non-empty session. Members
// keep join order.
type sessionRegistry struct {
	sessions map[string]*session
}

func newSessionRegistry() sessionRegistry {
	return sessionRegistry{sessions: make(map[string]*session)}
}

// add inserts userId into the session, creating it if needed. It reports
// whether the user was newly added.
func (r *sessionRegistry) add(sessionId string, groupId string, sessionType string, userId string) bool {
	s, ok := r.sessions[sessionId]
	if !ok {
		s = &session{groupId: groupId, sessionType: sessionType, index: make(map[string]struct{})}
		r.sessions[sessionId] = s
	}
	if _, ok := s.index[userId]; ok {
		return false
	}
	s.index[userId] = struct{}{}
	s.members = append(s.members, userId)
	return true
}

// remove deletes userId from the session and drops the session once empty.
// It reports whether the user was a member.
func (r *sessionRegistry) remove(sessionId string, userId string) bool {
	s, ok := r.sessions[sessionId]
	if !ok {
		return false
	}
	if _, ok := s.index[userId]; !ok {
		return false
	}
	delete(s.index, userId)
	for i, member := range s.members {
		if member == userId {
			s.members = append(s.members[:i], s.members[i+1:]...)
			break
		}
	}
	if len(s.members) == 0 {
		delete(r.sessions, sessionId)
	}
	return true
}

func (r *sessionRegistry) members(sessionId string) []string {
	s, ok := r.sessions[sessionId]
	if !ok {
		return nil
	}
	members := make([]string, len(s.members))
	copy(members, s.members)
	return members
}

// membersOfGroup returns the members of every session belonging to groupId.
func (r *sessionRegistry) membersOfGroup(groupId string) []string {
	var members []string
	for _, s := range r.sessions {
		if s.groupId == groupId {
			members = append(members, s.members...)
		}
	}
	return members
}

func (r *sessionRegistry) len() int {
	return len(r.sessions)
}
