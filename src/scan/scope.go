package scan

// Scope is the set of participants and channels eligible for passive monitoring.
// A message is watched only when both its author and its channel are listed.
type Scope struct {
	users    map[string]struct{}
	channels map[string]struct{}
}

func NewScope(userIDs, channelIDs []string) Scope {
	return Scope{users: toSet(userIDs), channels: toSet(channelIDs)}
}

func (s Scope) Watched(channelID, userID string) bool {
	_, u := s.users[userID]
	_, c := s.channels[channelID]
	return u && c
}

// Empty reports whether nothing can ever be watched.
func (s Scope) Empty() bool {
	return len(s.users) == 0 || len(s.channels) == 0
}

func toSet(ids []string) map[string]struct{} {
	set := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if id != "" {
			set[id] = struct{}{}
		}
	}
	return set
}
