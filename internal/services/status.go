package services

import (
	"math"
	"time"

	"gym_crm_backend/internal/models"
)

// ExpiringWindowDays is how many days before expiry a membership is reported
// as expiring.
const ExpiringWindowDays = 7

// SubscriptionDaysLeft returns the number of whole-or-partial days until the
// subscription ends, rounded up. An end time still in the future yields at
// least 1; the result drops to 0 only once the end time has passed, and stays
// 0 until it is a full day in the past.
func SubscriptionDaysLeft(sub *models.Subscription, now time.Time) int {
	return int(math.Ceil(sub.EndDate.Sub(now).Hours() / 24))
}

// CalculateMemberStatus derives a member's lifecycle status from their current
// subscription. It is pure and must be recomputed on every read: the
// active/expiring/expired boundaries shift with wall-clock time, so a stored
// value would go stale.
//
// A member with no subscription is expired. daysLeft == 0 (the end time passed
// within the last day) is expiring, not expired; only a negative daysLeft
// means expired.
func CalculateMemberStatus(sub *models.Subscription, now time.Time) string {
	if sub == nil {
		return models.MemberStatusExpired
	}
	daysLeft := SubscriptionDaysLeft(sub, now)
	switch {
	case daysLeft < 0:
		return models.MemberStatusExpired
	case daysLeft <= ExpiringWindowDays:
		return models.MemberStatusExpiring
	default:
		return models.MemberStatusActive
	}
}
