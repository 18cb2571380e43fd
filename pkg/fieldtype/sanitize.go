package fieldtype

import (
	"sync"

	"github.com/microcosm-cc/bluemonday"

	"github.com/goliatone/go-formmap/pkg/model"
)

var (
	strictPolicyOnce sync.Once
	strictPolicy     *bluemonday.Policy

	ugcPolicyOnce sync.Once
	ugcPolicy     *bluemonday.Policy
)

// Sanitize applies the named policy to raw. Unknown or empty policies return
// raw unchanged.
func Sanitize(policy, raw string) string {
	if raw == "" {
		return raw
	}
	switch policy {
	case model.SanitizeStrict:
		return strictSanitizer().Sanitize(raw)
	case model.SanitizeUGC:
		return ugcSanitizer().Sanitize(raw)
	default:
		return raw
	}
}

func strictSanitizer() *bluemonday.Policy {
	strictPolicyOnce.Do(func() {
		strictPolicy = bluemonday.StrictPolicy()
	})
	return strictPolicy
}

func ugcSanitizer() *bluemonday.Policy {
	ugcPolicyOnce.Do(func() {
		policy := bluemonday.UGCPolicy()
		policy.RequireNoFollowOnLinks(true)
		ugcPolicy = policy
	})
	return ugcPolicy
}
