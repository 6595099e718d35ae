package reconciler

import (
	"encoding/json"
	"time"

	"github.com/Masterminds/semver/v3"

	"github.com/keekar2022/OSCAL-Reports-sub003/pkg/catalogs"
	"github.com/keekar2022/OSCAL-Reports-sub003/pkg/constants"
)

// VersionDirection describes how the catalog version moved between runs.
type VersionDirection string

const (
	// VersionUpgrade means the catalog version is newer than the prior one.
	VersionUpgrade VersionDirection = "upgrade"
	// VersionDowngrade means the catalog version is older than the prior one.
	VersionDowngrade VersionDirection = "downgrade"
	// VersionSame means the versions are equal.
	VersionSame VersionDirection = "same"
	// VersionUnknown means at least one version is missing or not comparable.
	VersionUnknown VersionDirection = "unknown"
)

// VersionChange compares the prior document's catalog version with the
// current catalog's.
type VersionChange struct {
	From      string           `json:"from,omitempty" yaml:"from,omitempty"`
	To        string           `json:"to,omitempty" yaml:"to,omitempty"`
	Direction VersionDirection `json:"direction" yaml:"direction"`
}

// CompareVersions classifies the move from one version string to another.
// Versions are compared as semantic versions when both parse; otherwise only
// equality can be decided.
func CompareVersions(from, to string) VersionChange {
	vc := VersionChange{From: from, To: to, Direction: VersionUnknown}
	if from == "" || to == "" {
		return vc
	}

	a, errA := semver.NewVersion(from)
	b, errB := semver.NewVersion(to)
	if errA != nil || errB != nil {
		if from == to {
			vc.Direction = VersionSame
		}
		return vc
	}

	switch a.Compare(b) {
	case -1:
		vc.Direction = VersionUpgrade
	case 1:
		vc.Direction = VersionDowngrade
	default:
		vc.Direction = VersionSame
	}
	return vc
}

// PreserveMetadata builds the merged document's metadata block.
//
// Framework identity (published, version, oscal-version, document ids, props,
// links, roles, parties) comes from the catalog. Prior props, links, roles and
// parties the catalog does not carry are appended after the catalog's. The
// prior title, responsible parties and remarks pass through, and last-modified
// is set to now. Unmodelled catalog keys are copied; unmodelled keys only the
// prior document has are kept.
func PreserveMetadata(cat catalogs.Metadata, prior *catalogs.Metadata, now time.Time) (catalogs.Metadata, VersionChange) {
	out := cat.Clone()
	out.LastModified = now.UTC().Format(constants.TimeFormatISO8601)
	out.ResponsibleParties = nil
	out.Remarks = ""

	if out.OSCALVersion == "" {
		out.OSCALVersion = constants.DefaultOSCALVersion
	}

	if prior == nil {
		return out, CompareVersions("", cat.Version)
	}
	p := prior.Clone()

	if p.Title != "" {
		out.Title = p.Title
	}
	out.ResponsibleParties = p.ResponsibleParties
	out.Remarks = p.Remarks

	out.Props = appendMissing(out.Props, p.Props, func(x catalogs.Property) catalogs.PropertyKey { return x.Key() })
	out.Links = appendMissing(out.Links, p.Links, func(x catalogs.Link) string { return x.Href })
	out.Roles = appendMissing(out.Roles, p.Roles, func(x catalogs.Role) string { return x.ID })
	out.Parties = appendMissing(out.Parties, p.Parties, func(x catalogs.Party) string { return x.UUID })

	for k, v := range p.Extra {
		if _, ok := out.Extra[k]; ok {
			continue
		}
		if out.Extra == nil {
			out.Extra = make(map[string]json.RawMessage, len(p.Extra))
		}
		out.Extra[k] = v
	}

	return out, CompareVersions(p.Version, cat.Version)
}

// appendMissing appends the items of extra whose key is not already in base,
// keeping extra's order.
func appendMissing[T any, K comparable](base, extra []T, key func(T) K) []T {
	seen := make(map[K]bool, len(base))
	for _, b := range base {
		seen[key(b)] = true
	}
	for _, e := range extra {
		k := key(e)
		if seen[k] {
			continue
		}
		seen[k] = true
		base = append(base, e)
	}
	return base
}
