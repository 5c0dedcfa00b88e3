package game

import (
	"fmt"
	"log/slog"

	"github.com/talgya/eos-server/internal/world"
)

// CollectionService moves resources from spaces or collection structures
// into player units.
type CollectionService struct {
	st      *world.GameState
	collect *CollectAbility
	log     *slog.Logger
}

// NewCollectionService creates the collection service.
func NewCollectionService(st *world.GameState, logger *slog.Logger) *CollectionService {
	return &CollectionService{st: st, collect: &CollectAbility{}, log: logger}
}

// CollectRequest asks to gather a resource at the unit's location. Resource
// accepts a display name or an ID; an omitted Amount takes everything
// available. A non-empty StructureID withdraws from a collection structure
// on the same space instead of the ground.
type CollectRequest struct {
	PlayerID    string
	UnitID      string
	Resource    string
	Amount      int
	StructureID string
}

// Collect transfers up to the requested amount into the unit and returns
// how much actually moved.
func (s *CollectionService) Collect(req CollectRequest) (int, error) {
	u, err := authorizedUnit(s.st, req.PlayerID, req.UnitID)
	if err != nil {
		return 0, err
	}
	if !u.HasAbility(AbilityCollect) {
		return 0, fmt.Errorf("%w: %s cannot collect", ErrInvalidInput, u.Name)
	}
	res := s.st.FindResourceByName(req.Resource)
	if res == nil {
		return 0, fmt.Errorf("%w: resource %q", ErrNotFound, req.Resource)
	}
	sp := s.st.Spaces[u.LocationSpaceID]
	if sp == nil {
		return 0, fmt.Errorf("%w: unit %s is nowhere", ErrInvalidLocation, u.ID)
	}

	source := sp.Inventory
	if req.StructureID != "" {
		stc := s.st.Structures[req.StructureID]
		if stc == nil {
			return 0, fmt.Errorf("%w: structure %s", ErrNotFound, req.StructureID)
		}
		if stc.LocationSpaceID != sp.ID {
			return 0, fmt.Errorf("%w: %s is not here", ErrInvalidLocation, stc.Name)
		}
		if !stc.IsCollectionPoint() {
			return 0, fmt.Errorf("%w: %s holds no cargo", ErrInvalidInput, stc.Name)
		}
		source = stc.Inventory
	}

	before := u.Inventory.Get(res.ID)
	err = s.collect.Perform(s.st, u, CollectParams{
		Source:     source,
		ResourceID: res.ID,
		Amount:     req.Amount,
	})
	if err != nil {
		return 0, err
	}
	moved := u.Inventory.Get(res.ID) - before
	s.log.Info("collected",
		"unit", u.ID, "resource", res.Name, "amount", moved, "space", sp.ID)
	return moved, nil
}
