package service

import "github.com/sakif/snippetbin/internal/model"

// CanModify reports whether the requester may update or delete the snippet.
//
// The rule: reads are open to everyone (so there's no CanRead), writes are
// owner-only. An empty requesterID means the caller is anonymous and can
// never modify anything.
//
// This is a pure predicate over (requester, resource) — no storage, no HTTP,
// no side effects. The service's write paths consult it before touching the
// repository; handlers translate a refusal into 403. Keeping it standalone
// means the authorization rule is testable without a database and reusable
// by any future boundary (CLI, gRPC, admin tooling).
func CanModify(requesterID string, snippet *model.Snippet) bool {
	if snippet == nil {
		return false
	}
	return requesterID != "" && requesterID == snippet.OwnerID
}
