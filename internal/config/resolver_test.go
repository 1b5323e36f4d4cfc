package config

import (
	"testing"

	"github.com/Decron/SheetFire/internal/settings"
)

func boolPtr(b bool) *bool { return &b }

func TestResolvePrecedence(t *testing.T) {
	tests := []struct {
		name   string
		local  Snapshot
		legacy LegacySnapshot
		want   Effective
	}{
		{
			name: "defaults only",
			want: Effective{
				Endpoint:   DefaultEndpoint,
				Collection: DefaultCollection,
				IDField:    DefaultIDField,
			},
		},
		{
			name:   "legacy beats defaults for endpoint and collection",
			legacy: LegacySnapshot{Endpoint: "https://old.test/write", Collection: "oldCol"},
			want: Effective{
				Endpoint:   "https://old.test/write",
				Collection: "oldCol",
				IDField:    DefaultIDField,
			},
		},
		{
			name:   "local beats legacy",
			local:  Snapshot{Endpoint: "https://new.test/write", Collection: "newCol"},
			legacy: LegacySnapshot{Endpoint: "https://old.test/write", Collection: "oldCol"},
			want: Effective{
				Endpoint:   "https://new.test/write",
				Collection: "newCol",
				IDField:    DefaultIDField,
			},
		},
		{
			name:  "id field and inclusion flag come only from local",
			local: Snapshot{IDField: "sku", IncludeIDField: boolPtr(true)},
			want: Effective{
				Endpoint:       DefaultEndpoint,
				Collection:     DefaultCollection,
				IDField:        "sku",
				IncludeIDField: true,
			},
		},
		{
			name:  "explicit false inclusion flag",
			local: Snapshot{IncludeIDField: boolPtr(false)},
			want: Effective{
				Endpoint:   DefaultEndpoint,
				Collection: DefaultCollection,
				IDField:    DefaultIDField,
			},
		},
		{
			name:   "layers mix per field",
			local:  Snapshot{Collection: "localCol"},
			legacy: LegacySnapshot{Endpoint: "https://old.test/write"},
			want: Effective{
				Endpoint:   "https://old.test/write",
				Collection: "localCol",
				IDField:    DefaultIDField,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Resolve(tt.local, tt.legacy, "")
			if got != tt.want {
				t.Errorf("Resolve() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestResolveAttachesSecretWithoutPersisting(t *testing.T) {
	got := Resolve(Snapshot{}, LegacySnapshot{}, "session-secret")
	if got.Secret != "session-secret" {
		t.Errorf("secret = %q", got.Secret)
	}
}

func TestSnapshotsFromStore(t *testing.T) {
	s := settings.NewMemory()
	mustSet := func(scope settings.Scope, key, value string) {
		t.Helper()
		if err := s.Set(scope, key, value); err != nil {
			t.Fatalf("Set(%s, %s): %v", scope, key, err)
		}
	}
	mustSet(settings.ScopeSheet, settings.KeyEndpoint, "https://sheet.test/write")
	mustSet(settings.ScopeSheet, settings.KeyIDField, "sku")
	mustSet(settings.ScopeSheet, settings.KeyIncludeID, "true")
	mustSet(settings.ScopeLegacy, settings.KeyEndpoint, "https://legacy.test/write")
	mustSet(settings.ScopeLegacy, settings.KeyCollection, "legacyCol")

	local, legacy := SnapshotsFromStore(s)

	if local.Endpoint != "https://sheet.test/write" || local.IDField != "sku" {
		t.Errorf("local = %+v", local)
	}
	if local.IncludeIDField == nil || !*local.IncludeIDField {
		t.Error("inclusion flag not read from sheet scope")
	}
	if legacy.Endpoint != "https://legacy.test/write" || legacy.Collection != "legacyCol" {
		t.Errorf("legacy = %+v", legacy)
	}

	// Full resolution over the same store: local endpoint wins, legacy
	// collection fills the gap.
	eff := Resolve(local, legacy, "")
	if eff.Endpoint != "https://sheet.test/write" {
		t.Errorf("endpoint = %q", eff.Endpoint)
	}
	if eff.Collection != "legacyCol" {
		t.Errorf("collection = %q", eff.Collection)
	}
}
