package hookset

import "strings"

// Marker tokens identifying commands written by any nova-tracer installer.
// "nova-tracer" is the installation directory token, "nova-guard" the
// suffix carried by the scanner script since the first release.
const (
	MarkerInstallDir = "nova-tracer"
	MarkerScanner    = "nova-guard"
)

// DefaultMarkers returns the built-in ownership markers.
func DefaultMarkers() []string {
	return []string{MarkerInstallDir, MarkerScanner}
}

// Ownership decides whether a hook command belongs to this installer.
// The zero value uses DefaultMarkers.
type Ownership struct {
	markers []string
}

// NewOwnership returns an Ownership matching the default markers plus any
// extra markers. Blank and duplicate extras are ignored; the defaults can
// never be removed.
func NewOwnership(extra ...string) Ownership {
	markers := DefaultMarkers()
	seen := make(map[string]bool, len(markers)+len(extra))
	for _, m := range markers {
		seen[m] = true
	}
	for _, m := range extra {
		m = strings.TrimSpace(m)
		if m == "" || seen[m] {
			continue
		}
		seen[m] = true
		markers = append(markers, m)
	}
	return Ownership{markers: markers}
}

// Markers returns the marker tokens in match order.
func (o Ownership) Markers() []string {
	if len(o.markers) == 0 {
		return DefaultMarkers()
	}
	out := make([]string, len(o.markers))
	copy(out, o.markers)
	return out
}

// Owns reports whether command contains one of the ownership markers.
func (o Ownership) Owns(command string) bool {
	for _, m := range o.Markers() {
		if strings.Contains(command, m) {
			return true
		}
	}
	return false
}

// IsOwned applies the default ownership markers to command.
func IsOwned(command string) bool {
	return Ownership{}.Owns(command)
}
