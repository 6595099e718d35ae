// Package provenance records, per merged field, which side supplied the value
// so a reviewer can see what the catalog overwrote and what the document kept.
package provenance

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/goccy/go-yaml"

	"github.com/keekar2022/OSCAL-Reports-sub003/pkg/authority"
	"github.com/keekar2022/OSCAL-Reports-sub003/pkg/constants"
	"github.com/keekar2022/OSCAL-Reports-sub003/pkg/errors"
)

// Provenance tracks the origin of a merged field value.
type Provenance struct {
	Owner     authority.Owner `json:"owner" yaml:"owner"`                       // Side that supplied the value
	Field     string          `json:"field" yaml:"field"`                       // Field path
	Timestamp time.Time       `json:"timestamp" yaml:"timestamp"`               // When the value was set
	Reason    string          `json:"reason,omitempty" yaml:"reason,omitempty"` // Why this side won
	Changed   bool            `json:"changed,omitempty" yaml:"changed,omitempty"`
}

// Map tracks provenance for multiple resources.
type Map map[string][]Provenance // key is "resource:resourceID:fieldPath"

// Tracker manages provenance tracking during reconciliation. It is safe for
// concurrent use.
type Tracker interface {
	// Track records provenance for a field
	Track(resource authority.Resource, resourceID string, field string, p Provenance)

	// FindByField retrieves provenance for a specific field
	FindByField(resource authority.Resource, resourceID string, field string) []Provenance

	// FindByResource retrieves all provenance for a resource
	FindByResource(resource authority.Resource, resourceID string) map[string][]Provenance

	// Map returns the complete provenance map
	Map() Map

	// Clear removes all provenance data
	Clear()
}

// tracker is the default implementation.
type tracker struct {
	mu         sync.RWMutex
	provenance Map
	enabled    bool
}

// NewTracker creates a new provenance tracker.
func NewTracker(enabled bool) Tracker {
	return &tracker{
		provenance: make(Map),
		enabled:    enabled,
	}
}

// Track records provenance for a field.
func (p *tracker) Track(resource authority.Resource, resourceID string, field string, prov Provenance) {
	if !p.enabled {
		return
	}

	if prov.Field == "" {
		prov.Field = field
	}

	key := makeKey(resource, resourceID, field)
	p.mu.Lock()
	p.provenance[key] = append(p.provenance[key], prov)
	p.mu.Unlock()
}

// FindByField retrieves provenance for a specific field.
func (p *tracker) FindByField(resource authority.Resource, resourceID string, field string) []Provenance {
	if !p.enabled {
		return nil
	}

	p.mu.RLock()
	defer p.mu.RUnlock()
	return append([]Provenance(nil), p.provenance[makeKey(resource, resourceID, field)]...)
}

// FindByResource retrieves all provenance for a resource.
func (p *tracker) FindByResource(resource authority.Resource, resourceID string) map[string][]Provenance {
	if !p.enabled {
		return nil
	}

	result := make(map[string][]Provenance)
	prefix := fmt.Sprintf("%s:%s:", resource, resourceID)

	p.mu.RLock()
	defer p.mu.RUnlock()
	for key, info := range p.provenance {
		if field, found := strings.CutPrefix(key, prefix); found {
			result[field] = append([]Provenance(nil), info...)
		}
	}

	return result
}

// Map returns a copy of the complete provenance map.
func (p *tracker) Map() Map {
	if !p.enabled {
		return nil
	}

	p.mu.RLock()
	defer p.mu.RUnlock()
	result := make(Map, len(p.provenance))
	for k, v := range p.provenance {
		result[k] = append([]Provenance{}, v...)
	}
	return result
}

// Clear removes all provenance data.
func (p *tracker) Clear() {
	p.mu.Lock()
	p.provenance = make(Map)
	p.mu.Unlock()
}

// makeKey creates a unique key for provenance tracking.
func makeKey(resource authority.Resource, resourceID string, field string) string {
	return fmt.Sprintf("%s:%s:%s", resource, resourceID, field)
}

// Report is a per-resource view of a provenance map.
type Report struct {
	Resources map[string]ResourceProvenance // key is "resource:resourceID"
}

// ResourceProvenance contains provenance for a single resource.
type ResourceProvenance struct {
	Resource authority.Resource
	ID       string
	Fields   map[string]Provenance // latest record per field
}

// GenerateReport groups a Map by resource, keeping the latest record per field.
func GenerateReport(m Map) *Report {
	report := &Report{
		Resources: make(map[string]ResourceProvenance),
	}

	for key, infos := range m {
		// Resource ids may contain ':'; resources and field paths never do.
		first := strings.Index(key, ":")
		last := strings.LastIndex(key, ":")
		if first < 0 || first == last || len(infos) == 0 {
			continue
		}
		resource := authority.Resource(key[:first])
		resourceID := key[first+1 : last]
		field := key[last+1:]

		resourceKey := fmt.Sprintf("%s:%s", resource, resourceID)
		rp, exists := report.Resources[resourceKey]
		if !exists {
			rp = ResourceProvenance{
				Resource: resource,
				ID:       resourceID,
				Fields:   make(map[string]Provenance),
			}
		}

		latest := infos[0]
		for _, info := range infos[1:] {
			if !info.Timestamp.Before(latest.Timestamp) {
				latest = info
			}
		}
		rp.Fields[field] = latest
		report.Resources[resourceKey] = rp
	}

	return report
}

// CountByOwner tallies field records per owner.
func (r *Report) CountByOwner() map[authority.Owner]int {
	counts := make(map[authority.Owner]int)
	for _, rp := range r.Resources {
		for _, f := range rp.Fields {
			counts[f.Owner]++
		}
	}
	return counts
}

// String generates a string representation of the provenance report.
func (r *Report) String() string {
	var sb strings.Builder

	sb.WriteString("Provenance Report\n")
	sb.WriteString("=================\n\n")

	// Sort resources for consistent output
	resourceKeys := make([]string, 0, len(r.Resources))
	for key := range r.Resources {
		resourceKeys = append(resourceKeys, key)
	}
	sort.Strings(resourceKeys)

	for _, key := range resourceKeys {
		rp := r.Resources[key]
		sb.WriteString(fmt.Sprintf("%s: %s\n", rp.Resource, rp.ID))
		sb.WriteString(strings.Repeat("-", 40))
		sb.WriteString("\n")

		fieldKeys := make([]string, 0, len(rp.Fields))
		for field := range rp.Fields {
			fieldKeys = append(fieldKeys, field)
		}
		sort.Strings(fieldKeys)

		for _, field := range fieldKeys {
			f := rp.Fields[field]
			marker := ""
			if f.Changed {
				marker = " (changed)"
			}
			sb.WriteString(fmt.Sprintf("  %s: %s%s\n", field, f.Owner, marker))
		}
		sb.WriteString("\n")
	}

	return sb.String()
}

// File represents a provenance file stored on disk.
type File struct {
	Provenance Map `yaml:"provenance"`
}

// Save writes a provenance map as YAML.
func Save(path string, m Map) error {
	data, err := yaml.MarshalWithOptions(File{Provenance: m}, yaml.Indent(2), yaml.IndentSequence(false))
	if err != nil {
		return errors.WrapResource("encode", "provenance", path, err)
	}
	if err := os.WriteFile(path, data, constants.FilePermissions); err != nil {
		return errors.WrapIO("write", path, err)
	}
	return nil
}

// Load reads provenance data from a YAML file.
// Returns nil, nil if the file doesn't exist (not an error).
func Load(path string) (*File, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, nil
	}

	data, err := os.ReadFile(path) //nolint:gosec // path is supplied by the operator
	if err != nil {
		return nil, errors.WrapIO("read", path, err)
	}

	var pf File
	if err := yaml.Unmarshal(data, &pf); err != nil {
		return nil, errors.WrapParse("yaml", path, err)
	}

	return &pf, nil
}
