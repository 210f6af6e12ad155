package protocol

type Coord struct {
	X int32 `json:"x"`
	Y int32 `json:"y"`
}

// FoodUnspawned is the sentinel position of food that is not on the board.
var FoodUnspawned = Coord{X: -1, Y: -1}

// Direction is a unit vector. At most one axis is non-zero; a freshly
// spawned snake has the zero direction and stands still until steered.
type Direction struct {
	Dx int32 `json:"dx"`
	Dy int32 `json:"dy"`
}

var (
	Up    = Direction{Dx: 0, Dy: -1}
	Down  = Direction{Dx: 0, Dy: 1}
	Left  = Direction{Dx: -1, Dy: 0}
	Right = Direction{Dx: 1, Dy: 0}
)

func (d Direction) IsZero() bool {
	return d.Dx == 0 && d.Dy == 0
}

// Valid reports whether d is a legal wire direction: both components in
// {-1,0,1} and exactly one axis non-zero.
func (d Direction) Valid() bool {
	if d.Dx < -1 || d.Dx > 1 || d.Dy < -1 || d.Dy > 1 {
		return false
	}
	return (d.Dx == 0) != (d.Dy == 0)
}

func (d Direction) Opposite() Direction {
	return Direction{Dx: -d.Dx, Dy: -d.Dy}
}

type Gamemode int

const (
	COMPETITIVE Gamemode = 0
	COOPERATIVE Gamemode = 1
)

func (m Gamemode) String() string {
	switch m {
	case COMPETITIVE:
		return "competitive"
	case COOPERATIVE:
		return "cooperative"
	default:
		return "unknown"
	}
}

type Phase int

const (
	LOBBY    Phase = 0
	IN_ROUND Phase = 1
)
