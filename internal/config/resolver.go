package config

// resolver.go computes the effective push-pipeline settings from three
// ordered snapshots: sheet-local persisted settings, legacy process-wide
// persisted settings, and hard-coded defaults. The merge is explicit —
// no runtime property polling — and the secret never participates: it is
// supplied per operation by the caller and lives only for that session.

import (
	"strconv"

	"github.com/Decron/SheetFire/internal/settings"
)

// Hard-coded defaults, the lowest precedence layer.
const (
	// DefaultEndpoint is a placeholder; real deployments persist their
	// endpoint URL in the sheet-local settings layer.
	DefaultEndpoint = "https://YOUR-PROJECT.example.com/api/write"

	DefaultCollection = "imageDataTest"
	DefaultIDField    = "docId"
)

// Snapshot is one sheet-local configuration layer. Zero values mean
// "not set here, fall through to the next layer".
type Snapshot struct {
	Endpoint       string
	Collection     string
	IDField        string
	IncludeIDField *bool
}

// LegacySnapshot is the legacy process-wide layer. Only the endpoint and
// collection ever lived there; the identifier-field name and inclusion
// flag have no legacy fallback.
type LegacySnapshot struct {
	Endpoint   string
	Collection string
}

// Effective is the fully resolved configuration for one push operation.
type Effective struct {
	Endpoint       string
	Collection     string
	IDField        string
	IncludeIDField bool

	// Secret is supplied by the caller for this operation only. It is
	// never read from, or written to, any persisted layer.
	Secret string
}

// Resolve merges the three layers, highest precedence first: local,
// legacy, defaults. The secret is attached verbatim.
func Resolve(local Snapshot, legacy LegacySnapshot, secret string) Effective {
	eff := Effective{
		Endpoint:   firstNonEmpty(local.Endpoint, legacy.Endpoint, DefaultEndpoint),
		Collection: firstNonEmpty(local.Collection, legacy.Collection, DefaultCollection),
		IDField:    firstNonEmpty(local.IDField, DefaultIDField),
		Secret:     secret,
	}
	if local.IncludeIDField != nil {
		eff.IncludeIDField = *local.IncludeIDField
	}
	return eff
}

// SnapshotsFromStore reads both persisted layers out of a settings store.
func SnapshotsFromStore(s settings.Store) (Snapshot, LegacySnapshot) {
	var local Snapshot
	if v, ok := s.Get(settings.ScopeSheet, settings.KeyEndpoint); ok {
		local.Endpoint = v
	}
	if v, ok := s.Get(settings.ScopeSheet, settings.KeyCollection); ok {
		local.Collection = v
	}
	if v, ok := s.Get(settings.ScopeSheet, settings.KeyIDField); ok {
		local.IDField = v
	}
	if v, ok := s.Get(settings.ScopeSheet, settings.KeyIncludeID); ok {
		if b, err := strconv.ParseBool(v); err == nil {
			local.IncludeIDField = &b
		}
	}

	var legacy LegacySnapshot
	if v, ok := s.Get(settings.ScopeLegacy, settings.KeyEndpoint); ok {
		legacy.Endpoint = v
	}
	if v, ok := s.Get(settings.ScopeLegacy, settings.KeyCollection); ok {
		legacy.Collection = v
	}

	return local, legacy
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
