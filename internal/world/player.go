package world

// Player is an account-level actor. It owns entities by ID reference only;
// the entities themselves live in the game state registries.
type Player struct {
	ID          string
	Name        string
	Description string
	Entities    []string // unit and structure IDs owned by this player
}

// NewPlayer creates a player with no owned entities.
func NewPlayer(id, name string) *Player {
	return &Player{ID: id, Name: name}
}

// AddEntity records ownership of a unit or structure.
func (p *Player) AddEntity(entityID string) {
	p.Entities = append(p.Entities, entityID)
}

// Owns reports whether the player owns the entity.
func (p *Player) Owns(entityID string) bool {
	for _, id := range p.Entities {
		if id == entityID {
			return true
		}
	}
	return false
}

// Snapshot returns the serialized view of the player.
func (p *Player) Snapshot() map[string]any {
	return map[string]any{
		"id":          p.ID,
		"name":        p.Name,
		"description": p.Description,
		"entities":    append([]string{}, p.Entities...),
	}
}
