package signaling

import "sort"

// subscriptionRegistry maps a group to its subscriber set for one event domain.
type subscriptionRegistry struct {
	domain string
	groups map[string]map[string]struct{}
}

func newSubscriptionRegistry(domain string) subscriptionRegistry {
	return subscriptionRegistry{domain: domain, groups: make(map[string]map[string]struct{})}
}

// subscribe reports whether userId was newly added.
func (r *subscriptionRegistry) subscribe(groupId string, userId string) bool {
	subs, ok := r.groups[groupId]
	if !ok {
		subs = make(map[string]struct{})
		r.groups[groupId] = subs
	}
	if _, ok := subs[userId]; ok {
		return false
	}
	subs[userId] = struct{}{}
	return true
}

// unsubscribe reports whether userId was subscribed. Empty groups are dropped.
func (r *subscriptionRegistry) unsubscribe(groupId string, userId string) bool {
	subs, ok := r.groups[groupId]
	if !ok {
		return false
	}
	if _, ok := subs[userId]; !ok {
		return false
	}
	delete(subs, userId)
	if len(subs) == 0 {
		delete(r.groups, groupId)
	}
	return true
}

// removeUser drops userId from every group and returns how many it left.
func (r *subscriptionRegistry) removeUser(userId string) int {
	removed := 0
	for groupId := range r.groups {
		if r.unsubscribe(groupId, userId) {
			removed++
		}
	}
	return removed
}

// subscribers returns the subscriber ids of groupId in a stable order.
func (r *subscriptionRegistry) subscribers(groupId string) []string {
	subs := r.groups[groupId]
	ids := make([]string, 0, len(subs))
	for userId := range subs {
		ids = append(ids, userId)
	}
	sort.Strings(ids)
	return ids
}

// len returns the total number of (group, user) subscriptions.
func (r *subscriptionRegistry) len() int {
	total := 0
	for _, subs := range r.groups {
		total += len(subs)
	}
	return total
}

func (r *subscriptionRegistry) clear() {
	r.groups = make(map[string]map[string]struct{})
}
