package bmd

// Triangle holds polygon type and index triples into vertex/normal/texcoord arrays.
// Polygon == 4 means quad (two triangles: 0-1-2 and 0-2-3).
type Triangle struct {
	Polygon int
	VI      [4]int16
	NI      [4]int16
	TI      [4]int16
}

// Mesh holds parsed geometry for one sub-mesh within a BMD file.
type Mesh struct {
	Verts   [][3]float32 // vertex positions in bone-local space
	Nodes   []int16      // bone index per vertex
	Normals [][3]float32
	UVs     [][2]float32
	Tris    []Triangle
	TexPath string // texture reference from BMD (e.g. "sword04.jpg")
}

// Action is one animation clip header. Bone keyframes live on each Bone's Tracks.
type Action struct {
	Keys          int
	LockPositions bool
	// RootPositions holds the per-key locked root offsets when LockPositions is set.
	RootPositions [][3]float64
}

// Track holds one bone's keyframes for one action.
type Track struct {
	Positions [][3]float64
	Rotations [][3]float64 // Euler XYZ radians
}

// Bone holds one bone of the skeleton hierarchy with its animation tracks.
type Bone struct {
	Name         string
	Parent       int
	IsDummy      bool
	BindPosition [3]float64
	BindRotation [3]float64 // Euler XYZ radians
	Tracks       []Track    // indexed by action; empty track when the action has no keys
}

// Model is a fully parsed BMD file.
type Model struct {
	Name    string
	Version byte
	Meshes  []Mesh
	Bones   []Bone
	Actions []Action
}
