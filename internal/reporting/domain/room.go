package reporting

// RoomState is the occupancy state of a room.
type RoomState string

const (
	RoomFree     RoomState = "free"
	RoomOccupied RoomState = "occupied"
	RoomCleaning RoomState = "cleaning"
)

// IsValid reports whether the state is known.
func (s RoomState) IsValid() bool {
	switch s {
	case RoomFree, RoomOccupied, RoomCleaning:
		return true
	default:
		return false
	}
}

// Room is a rentable room of the property.
type Room struct {
	ID     string
	Number string
	State  RoomState
}

// CanTransition checks whether the room may move to the target state.
// A room cannot be freed while one of its stays is still open.
func (r Room) CanTransition(to RoomState, hasOpenStay bool) error {
	if !to.IsValid() {
		return ErrInvalidRoomState
	}
	if to == RoomFree && hasOpenStay {
		return ErrRoomHasOpenStay
	}
	return nil
}
