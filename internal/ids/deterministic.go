package ids

import (
	"strings"

	hashid "github.com/goliatone/hashid/pkg/hashid"
	"github.com/google/uuid"
)

// UUID derives a deterministic UUID from a stable key using go-hashid.
//
// Callers must prefix keys by domain so different entities never collide.
func UUID(key string) uuid.UUID {
	trimmed := strings.TrimSpace(key)
	if trimmed == "" {
		return uuid.Nil
	}
	uid, err := hashid.NewUUID(trimmed, hashid.WithHashAlgorithm(hashid.SHA256), hashid.WithNormalization(true))
	if err != nil || uid == uuid.Nil {
		return uuid.NewSHA1(uuid.NameSpaceOID, []byte(trimmed))
	}
	return uid
}

// LocaleUUID is the stable id of a locale record.
func LocaleUUID(name string) uuid.UUID {
	return UUID("workflow:locale:" + strings.ToLower(strings.TrimSpace(name)))
}

// VariantUUID is the stable id of the locale variant of a logical doc. Every
// variant sharing a workflowGuid gets a distinct but reproducible id, so
// replicating a doc into a locale twice targets the same row.
func VariantUUID(workflowGuid, locale string) uuid.UUID {
	guid := strings.TrimSpace(workflowGuid)
	locale = strings.TrimSpace(locale)
	if guid == "" || locale == "" {
		return uuid.Nil
	}
	return UUID("workflow:variant:" + guid + ":" + locale)
}
