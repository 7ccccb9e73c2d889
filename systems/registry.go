package systems

// System IDs, shared by the perf collector and the preview HUD.
const (
	SystemMotion  = "motion"
	SystemPointer = "pointer"
	SystemMerge   = "merge"
	SystemDraw    = "draw"
)

// SystemInfo describes a field system for UI display.
type SystemInfo struct {
	ID          string // Internal identifier (used for perf tracking)
	Name        string // Display name
	Description string // What this system does
}

// SystemRegistry holds metadata about all systems.
// This centralizes system naming so the UI and perf tracker stay in sync.
type SystemRegistry struct {
	systems []SystemInfo
	byID    map[string]SystemInfo
}

// NewSystemRegistry creates a registry with all known systems.
func NewSystemRegistry() *SystemRegistry {
	reg := &SystemRegistry{
		byID: make(map[string]SystemInfo),
	}
	reg.registerDefaults()
	return reg
}

// registerDefaults adds all known systems in frame order.
func (r *SystemRegistry) registerDefaults() {
	r.Register(SystemInfo{ID: SystemMotion, Name: "Motion", Description: "Edge bounce and advance"})
	r.Register(SystemInfo{ID: SystemPointer, Name: "Pointer", Description: "Push, shrink and regrow near the pointer"})
	r.Register(SystemInfo{ID: SystemMerge, Name: "Merge", Description: "Absorbs overlapping particles"})
	r.Register(SystemInfo{ID: SystemDraw, Name: "Draw", Description: "Paints gradients onto the surface"})
}

// Register adds a system to the registry.
func (r *SystemRegistry) Register(info SystemInfo) {
	r.systems = append(r.systems, info)
	r.byID[info.ID] = info
}

// Get returns system info by ID.
func (r *SystemRegistry) Get(id string) (SystemInfo, bool) {
	info, ok := r.byID[id]
	return info, ok
}

// GetName returns the display name for a system ID.
// Falls back to the ID itself if not found.
func (r *SystemRegistry) GetName(id string) string {
	if info, ok := r.byID[id]; ok {
		return info.Name
	}
	return id
}

// All returns all registered systems.
func (r *SystemRegistry) All() []SystemInfo {
	return r.systems
}

// IDs returns all system IDs in registration order.
func (r *SystemRegistry) IDs() []string {
	ids := make([]string, len(r.systems))
	for i, info := range r.systems {
		ids[i] = info.ID
	}
	return ids
}
